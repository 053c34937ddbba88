package primitive

import (
	"crypto/sha256"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

// messagingSalt fixes the HKDF salt so derivation depends only on the
// wallet key and chain id. Changing it changes every messaging key.
var messagingSalt = []byte("wallet-core/messaging/v1")

// deriveMessagingSeed expands (walletPrivateKey, chainID) into a 32-byte
// seed using HKDF-SHA256 with the chain id as the info parameter. The
// info string is what separates messaging keys across chains: the same
// wallet key mixed with a different chain id yields an unrelated seed.
func deriveMessagingSeed(walletPrivateKey []byte, chainID string) ([]byte, error) {
	if len(walletPrivateKey) != 32 {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "wallet private key must be 32 bytes, got %d", len(walletPrivateKey))
	}
	if chainID == "" {
		return nil, errors.Wrap(ErrDerivationFailure, "chain id is required")
	}

	info := []byte("messaging-v1:" + chainID)
	kdf := hkdf.New(sha256.New, walletPrivateKey, messagingSalt, info)

	seed := make([]byte, MinSeedLength)
	if _, err := io.ReadFull(kdf, seed); err != nil {
		return nil, errors.Wrap(ErrDerivationFailure, err.Error())
	}
	return seed, nil
}
