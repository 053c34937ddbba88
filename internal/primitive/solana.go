package primitive

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"

	"filippo.io/edwards25519"
	"github.com/decred/dcrd/dcrec/edwards/v2"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/curve25519"
)

// Solana implements Primitive for ed25519 chains with base58 addresses.
type Solana struct{}

// NewSolana creates the Solana chain family primitive.
func NewSolana() *Solana {
	return &Solana{}
}

func (s *Solana) ChainType() ChainType { return ChainSolana }
func (s *Solana) CurveType() CurveType { return CurveEd25519 }

// GenerateKeyPair produces a random ed25519 key pair. The private key is
// the 32-byte seed, the public key the 32-byte point encoding.
func (s *Solana) GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate ed25519 key")
	}
	return &KeyPair{
		PrivateKey: append([]byte(nil), priv.Seed()...),
		PublicKey:  append([]byte(nil), pub...),
	}, nil
}

// DeriveKeyPairFromSeed derives a key pair deterministically by hashing
// the seed down to the 32-byte ed25519 seed.
func (s *Solana) DeriveKeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) < MinSeedLength {
		return nil, errors.Wrapf(ErrInvalidSeedLength, "got %d bytes", len(seed))
	}

	digest := sha256.Sum256(seed)
	priv := ed25519.NewKeyFromSeed(digest[:])

	return &KeyPair{
		PrivateKey: append([]byte(nil), priv.Seed()...),
		PublicKey:  append([]byte(nil), priv.Public().(ed25519.PublicKey)...),
	}, nil
}

// KeyPairFromPrivateKey reconstructs the key pair for a 32-byte seed.
func (s *Solana) KeyPairFromPrivateKey(privateKey []byte) (*KeyPair, error) {
	if len(privateKey) != ed25519.SeedSize {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "private key must be 32 bytes, got %d", len(privateKey))
	}
	priv := ed25519.NewKeyFromSeed(privateKey)
	return &KeyPair{
		PrivateKey: append([]byte(nil), privateKey...),
		PublicKey:  append([]byte(nil), priv.Public().(ed25519.PublicKey)...),
	}, nil
}

// DeriveMessagingKeyPair derives the chain-id-separated messaging key.
func (s *Solana) DeriveMessagingKeyPair(walletPrivateKey []byte, chainID string) (*KeyPair, error) {
	seed, err := deriveMessagingSeed(walletPrivateKey, chainID)
	if err != nil {
		return nil, err
	}
	defer encoding.Wipe(seed)
	return s.DeriveKeyPairFromSeed(seed)
}

// ComputeSharedSecret maps both keys to Curve25519 and performs X25519.
// The montgomery x coordinate of the shared point is identical from
// either side, so the agreement is commutative.
func (s *Solana) ComputeSharedSecret(myPrivateKey, theirPublicKey []byte) ([]byte, error) {
	scalar, err := ed25519SeedToX25519(myPrivateKey)
	if err != nil {
		return nil, err
	}
	defer encoding.Wipe(scalar)

	if len(theirPublicKey) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "public key must be 32 bytes, got %d", len(theirPublicKey))
	}
	point, err := edwards25519.NewIdentityPoint().SetBytes(theirPublicKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeyLength, err.Error())
	}

	secret, err := curve25519.X25519(scalar, point.BytesMontgomery())
	if err != nil {
		return nil, errors.Wrap(err, "x25519 agreement failed")
	}
	return secret, nil
}

// Sign produces a 64-byte ed25519 signature. Accepts the 32-byte seed or
// the 64-byte expanded private key.
func (s *Solana) Sign(message, privateKey []byte) ([]byte, error) {
	var priv ed25519.PrivateKey
	switch len(privateKey) {
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(privateKey)
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(privateKey)
	default:
		return nil, errors.Wrapf(ErrInvalidKeyLength, "private key must be 32 or 64 bytes, got %d", len(privateKey))
	}
	return ed25519.Sign(priv, message), nil
}

// Verify checks a 64-byte signature. The public key must be a valid
// curve point; malformed input verifies false.
func (s *Solana) Verify(message, signature, publicKey []byte) bool {
	if len(signature) != ed25519.SignatureSize || len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	if _, err := edwards.ParsePubKey(publicKey); err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

// PublicKeyToAddress encodes the 32-byte public key as base58.
func (s *Solana) PublicKeyToAddress(publicKey []byte) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", errors.Wrapf(ErrInvalidKeyLength, "public key must be 32 bytes, got %d", len(publicKey))
	}
	return base58.Encode(publicKey), nil
}

// IsValidAddress reports whether address is base58 for exactly 32 bytes.
// Program-derived addresses are off curve, so no point check is applied.
func (s *Solana) IsValidAddress(address string) bool {
	if len(address) < 32 || len(address) > 44 {
		return false
	}
	decoded, err := base58.Decode(address)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}

// CompressPublicKey is the identity for ed25519: the native 32-byte
// encoding is already compact. Validates the point.
func (s *Solana) CompressPublicKey(publicKey []byte) ([]byte, error) {
	return s.validatePoint(publicKey)
}

// DecompressPublicKey is the identity for ed25519. Validates the point.
func (s *Solana) DecompressPublicKey(publicKey []byte) ([]byte, error) {
	return s.validatePoint(publicKey)
}

func (s *Solana) validatePoint(publicKey []byte) ([]byte, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "public key must be 32 bytes, got %d", len(publicKey))
	}
	if _, err := edwards.ParsePubKey(publicKey); err != nil {
		return nil, errors.Wrap(ErrInvalidKeyLength, err.Error())
	}
	return append([]byte(nil), publicKey...), nil
}

// ed25519SeedToX25519 converts an ed25519 seed to its X25519 scalar:
// the first half of SHA-512(seed), clamped per RFC 7748.
func ed25519SeedToX25519(seed []byte) ([]byte, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "private key must be 32 bytes, got %d", len(seed))
	}
	h := sha512.Sum512(seed)
	scalar := make([]byte, 32)
	copy(scalar, h[:32])
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64
	encoding.Wipe(h[:])
	return scalar, nil
}
