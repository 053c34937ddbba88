package primitive

import (
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/pkg/errors"
)

// ChainType identifies a chain family.
type ChainType string

// CurveType identifies the elliptic curve a chain family signs with.
type CurveType string

const (
	ChainEVM    ChainType = "evm"
	ChainSolana ChainType = "solana"

	CurveSecp256k1 CurveType = "secp256k1"
	CurveEd25519   CurveType = "ed25519"
)

// MinSeedLength is the minimum seed size accepted for deterministic
// key derivation.
const MinSeedLength = 32

var (
	ErrInvalidSeedLength = errors.New("invalid seed length: must be at least 32 bytes")
	ErrInvalidKeyLength  = errors.New("invalid key length")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrDerivationFailure = errors.New("key derivation failed")
)

// KeyPair holds a private/public key pair. Private keys are 32 bytes on
// both supported curves; public keys are 33 bytes (compressed secp256k1)
// or 32 bytes (ed25519).
type KeyPair struct {
	PrivateKey []byte
	PublicKey  []byte
}

// Wipe zeroes the private key in place. Best effort only: Go's runtime
// may have copied the backing array before this runs.
func (kp *KeyPair) Wipe() {
	if kp == nil {
		return
	}
	encoding.Wipe(kp.PrivateKey)
}

// Primitive is the per-chain-family cryptographic capability set. All
// implementations are stateless and safe for concurrent use.
type Primitive interface {
	ChainType() ChainType
	CurveType() CurveType

	// GenerateKeyPair produces a fresh random key pair from the CSPRNG.
	GenerateKeyPair() (*KeyPair, error)

	// DeriveKeyPairFromSeed deterministically derives a key pair from a
	// seed of at least MinSeedLength bytes. Returns ErrInvalidSeedLength
	// for shorter seeds.
	DeriveKeyPairFromSeed(seed []byte) (*KeyPair, error)

	// KeyPairFromPrivateKey reconstructs the full key pair from a 32-byte
	// private key. Returns ErrInvalidKeyLength on malformed input.
	KeyPairFromPrivateKey(privateKey []byte) (*KeyPair, error)

	// DeriveMessagingKeyPair derives a domain-separated key pair for the
	// messaging protocol from a wallet private key and chain id. Distinct
	// chain ids yield distinct keys for the same wallet key.
	DeriveMessagingKeyPair(walletPrivateKey []byte, chainID string) (*KeyPair, error)

	// ComputeSharedSecret performs Diffie-Hellman agreement and returns a
	// 32-byte shared secret. Commutative across the two key pairs.
	ComputeSharedSecret(myPrivateKey, theirPublicKey []byte) ([]byte, error)

	// Sign signs an arbitrary message. Signatures are 65 bytes
	// ([R || S || V]) on secp256k1 and 64 bytes on ed25519.
	Sign(message, privateKey []byte) ([]byte, error)

	// Verify reports whether signature is valid for message under
	// publicKey. Malformed input verifies false, never panics.
	Verify(message, signature, publicKey []byte) bool

	// PublicKeyToAddress encodes a public key as the chain's canonical
	// address string.
	PublicKeyToAddress(publicKey []byte) (string, error)

	// IsValidAddress reports whether address is well formed for the chain.
	IsValidAddress(address string) bool

	// CompressPublicKey returns the compact encoding of a public key.
	// Identity on curves whose native encoding is already compact.
	CompressPublicKey(publicKey []byte) ([]byte, error)

	// DecompressPublicKey returns the full encoding of a public key.
	DecompressPublicKey(publicKey []byte) ([]byte, error)
}
