package primitive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/pkg/errors"
)

var evmAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// EVM implements Primitive for secp256k1 chains with Keccak-derived
// addresses (Ethereum and compatible networks).
type EVM struct{}

// NewEVM creates the EVM chain family primitive.
func NewEVM() *EVM {
	return &EVM{}
}

func (e *EVM) ChainType() ChainType { return ChainEVM }
func (e *EVM) CurveType() CurveType { return CurveSecp256k1 }

// GenerateKeyPair produces a random secp256k1 key pair. The public key is
// returned in 33-byte compressed form.
func (e *EVM) GenerateKeyPair() (*KeyPair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate secp256k1 key")
	}
	return &KeyPair{
		PrivateKey: priv.Serialize(),
		PublicKey:  priv.PubKey().SerializeCompressed(),
	}, nil
}

// DeriveKeyPairFromSeed derives a key pair deterministically by hashing the
// seed to a scalar. Seeds shorter than MinSeedLength are rejected.
func (e *EVM) DeriveKeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) < MinSeedLength {
		return nil, errors.Wrapf(ErrInvalidSeedLength, "got %d bytes", len(seed))
	}

	digest := sha256.Sum256(seed)
	priv := secp256k1.PrivKeyFromBytes(digest[:])
	if priv.Key.IsZero() {
		return nil, errors.Wrap(ErrDerivationFailure, "seed maps to the zero scalar")
	}

	return &KeyPair{
		PrivateKey: priv.Serialize(),
		PublicKey:  priv.PubKey().SerializeCompressed(),
	}, nil
}

// KeyPairFromPrivateKey reconstructs the key pair for a 32-byte scalar.
func (e *EVM) KeyPairFromPrivateKey(privateKey []byte) (*KeyPair, error) {
	if len(privateKey) != 32 {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "private key must be 32 bytes, got %d", len(privateKey))
	}
	priv := secp256k1.PrivKeyFromBytes(privateKey)
	if priv.Key.IsZero() {
		return nil, errors.Wrap(ErrInvalidKeyLength, "private key is the zero scalar")
	}
	return &KeyPair{
		PrivateKey: priv.Serialize(),
		PublicKey:  priv.PubKey().SerializeCompressed(),
	}, nil
}

// DeriveMessagingKeyPair derives the chain-id-separated messaging key.
func (e *EVM) DeriveMessagingKeyPair(walletPrivateKey []byte, chainID string) (*KeyPair, error) {
	seed, err := deriveMessagingSeed(walletPrivateKey, chainID)
	if err != nil {
		return nil, err
	}
	defer encoding.Wipe(seed)
	return e.DeriveKeyPairFromSeed(seed)
}

// ComputeSharedSecret performs ECDH and returns the 32-byte x coordinate
// of the shared point (RFC 5903).
func (e *EVM) ComputeSharedSecret(myPrivateKey, theirPublicKey []byte) ([]byte, error) {
	if len(myPrivateKey) != 32 {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "private key must be 32 bytes, got %d", len(myPrivateKey))
	}
	pub, err := btcec.ParsePubKey(theirPublicKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeyLength, err.Error())
	}
	priv := secp256k1.PrivKeyFromBytes(myPrivateKey)
	return secp256k1.GenerateSharedSecret(priv, pub), nil
}

// Sign produces a 65-byte [R || S || V] signature over Keccak256(message).
// The recovery byte allows address recovery from the signature alone.
func (e *EVM) Sign(message, privateKey []byte) ([]byte, error) {
	priv, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeyLength, err.Error())
	}
	hash := crypto.Keccak256(message)
	sig, err := crypto.Sign(hash, priv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign message")
	}
	return sig, nil
}

// Verify checks a signature against Keccak256(message). Accepts 65-byte
// signatures (recovery byte ignored) as well as bare 64-byte [R || S].
func (e *EVM) Verify(message, signature, publicKey []byte) bool {
	switch len(signature) {
	case 65:
		signature = signature[:64]
	case 64:
	default:
		return false
	}
	if len(publicKey) != 33 && len(publicKey) != 65 {
		return false
	}
	hash := crypto.Keccak256(message)
	return crypto.VerifySignature(publicKey, hash, signature)
}

// RecoverAddress recovers the signer address from a 65-byte signature.
func (e *EVM) RecoverAddress(message, signature []byte) (string, error) {
	if len(signature) != 65 {
		return "", errors.Wrapf(ErrInvalidSignature, "expected 65 bytes, got %d", len(signature))
	}
	hash := crypto.Keccak256(message)
	pub, err := crypto.SigToPub(hash, signature)
	if err != nil {
		return "", errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return e.PublicKeyToAddress(crypto.FromECDSAPub(pub))
}

// PublicKeyToAddress derives the address as the last 20 bytes of
// Keccak256 over the uncompressed point without its 0x04 prefix.
func (e *EVM) PublicKeyToAddress(publicKey []byte) (string, error) {
	var uncompressed64 []byte
	switch {
	case len(publicKey) == 65 && publicKey[0] == 0x04:
		uncompressed64 = publicKey[1:]
	case len(publicKey) == 33 && (publicKey[0] == 0x02 || publicKey[0] == 0x03):
		key, err := btcec.ParsePubKey(publicKey)
		if err != nil {
			return "", errors.Wrap(ErrInvalidKeyLength, err.Error())
		}
		u := key.SerializeUncompressed() // 65 bytes, 0x04 | X | Y
		uncompressed64 = u[1:]
	default:
		return "", errors.Wrapf(ErrInvalidKeyLength, "unsupported public key format: len=%d", len(publicKey))
	}
	hash := crypto.Keccak256(uncompressed64)
	return fmt.Sprintf("0x%s", hex.EncodeToString(hash[12:])), nil
}

// IsValidAddress reports whether address is 0x followed by 40 hex digits.
func (e *EVM) IsValidAddress(address string) bool {
	return evmAddressPattern.MatchString(address)
}

// CompressPublicKey converts a 65-byte uncompressed point to its 33-byte
// compressed form. Already-compressed keys pass through after validation.
func (e *EVM) CompressPublicKey(publicKey []byte) ([]byte, error) {
	if len(publicKey) != 33 && len(publicKey) != 65 {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "expected 33 or 65 bytes, got %d", len(publicKey))
	}
	key, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeyLength, err.Error())
	}
	return key.SerializeCompressed(), nil
}

// DecompressPublicKey converts a 33-byte compressed point to its 65-byte
// uncompressed form.
func (e *EVM) DecompressPublicKey(publicKey []byte) ([]byte, error) {
	if len(publicKey) != 33 && len(publicKey) != 65 {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "expected 33 or 65 bytes, got %d", len(publicKey))
	}
	key, err := btcec.ParsePubKey(publicKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeyLength, err.Error())
	}
	return key.SerializeUncompressed(), nil
}
