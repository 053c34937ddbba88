package hdkey

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/pkg/errors"
)

// HardenedOffset marks a path component as hardened.
const HardenedOffset uint32 = 0x80000000

const (
	masterKeySecp256k1 = "Bitcoin seed"
	masterKeyEd25519   = "ed25519 seed"

	// CoinTypeEVM is the BIP-44 coin type for Ethereum-style chains.
	CoinTypeEVM = 60
	// CoinTypeSolana is the BIP-44 coin type for Solana.
	CoinTypeSolana = 501
)

var ErrInvalidPath = errors.New("invalid derivation path")

// ExtendedKey is a derived private key with its chain code.
type ExtendedKey struct {
	Key       []byte // 32 bytes
	ChainCode []byte // 32 bytes
}

// Wipe zeroes the key material.
func (k *ExtendedKey) Wipe() {
	if k == nil {
		return
	}
	encoding.Wipe(k.Key)
	encoding.Wipe(k.ChainCode)
}

// EVMPath returns the BIP-44 path for an EVM account index
// (m/44'/60'/0'/0/{index}).
func EVMPath(index uint32) string {
	return fmt.Sprintf("m/44'/%d'/0'/0/%d", CoinTypeEVM, index)
}

// SolanaPath returns the all-hardened SLIP-0010 path for a Solana account
// index (m/44'/501'/{index}'/0').
func SolanaPath(index uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/0'", CoinTypeSolana, index)
}

// ParseDerivationPath parses a path like "m/44'/60'/0'/0/0" into indices.
// Both ' and h mark hardened components.
func ParseDerivationPath(path string) ([]uint32, error) {
	if path == "" || path == "m" || path == "/" {
		return []uint32{}, nil
	}

	parts := strings.Split(path, "/")
	if parts[0] == "m" {
		parts = parts[1:]
	}

	indices := make([]uint32, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}

		hardened := false
		if strings.HasSuffix(part, "'") {
			hardened = true
			part = strings.TrimSuffix(part, "'")
		} else if strings.HasSuffix(part, "h") {
			hardened = true
			part = strings.TrimSuffix(part, "h")
		}

		val, err := strconv.ParseUint(part, 10, 32)
		if err != nil || val >= uint64(HardenedOffset) {
			return nil, errors.Wrapf(ErrInvalidPath, "component %q", part)
		}

		index := uint32(val)
		if hardened {
			index |= HardenedOffset
		}
		indices = append(indices, index)
	}
	return indices, nil
}

// DeriveSecp256k1 derives a private key along a BIP-32 path from a BIP-39
// seed. Supports hardened and non-hardened components.
func DeriveSecp256k1(seed []byte, path string) (*ExtendedKey, error) {
	indices, err := ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	key, chainCode, err := masterFromSeed(seed, masterKeySecp256k1)
	if err != nil {
		return nil, err
	}
	if err := validateSecp256k1Scalar(key); err != nil {
		return nil, err
	}

	for i, index := range indices {
		key, chainCode, err = deriveSecp256k1Child(key, chainCode, index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive at depth %d (index %d)", i, index)
		}
	}

	return &ExtendedKey{Key: key, ChainCode: chainCode}, nil
}

// DeriveEd25519 derives a private key along a SLIP-0010 path. Ed25519
// only supports hardened derivation; a non-hardened component is an
// error rather than a silently hardened one.
func DeriveEd25519(seed []byte, path string) (*ExtendedKey, error) {
	indices, err := ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	key, chainCode, err := masterFromSeed(seed, masterKeyEd25519)
	if err != nil {
		return nil, err
	}

	for i, index := range indices {
		if index < HardenedOffset {
			return nil, errors.Wrapf(ErrInvalidPath, "ed25519 requires hardened components, index %d at depth %d is not", index, i)
		}
		key, chainCode = deriveEd25519Child(key, chainCode, index)
	}

	return &ExtendedKey{Key: key, ChainCode: chainCode}, nil
}

func masterFromSeed(seed []byte, domainKey string) ([]byte, []byte, error) {
	if len(seed) < 16 {
		return nil, nil, errors.New("seed too short: must be at least 16 bytes")
	}
	h := hmac.New(sha512.New, []byte(domainKey))
	h.Write(seed)
	sum := h.Sum(nil)
	return sum[:32], sum[32:], nil
}

func deriveSecp256k1Child(key, chainCode []byte, index uint32) ([]byte, []byte, error) {
	h := hmac.New(sha512.New, chainCode)

	if index >= HardenedOffset {
		// Hardened: HMAC over 0x00 || key || index
		h.Write([]byte{0x00})
		h.Write(key)
	} else {
		// Normal: HMAC over serP(point(key)) || index
		priv, _ := btcec.PrivKeyFromBytes(key)
		h.Write(priv.PubKey().SerializeCompressed())
	}

	indexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(indexBytes, index)
	h.Write(indexBytes)

	sum := h.Sum(nil)
	il, ir := sum[:32], sum[32:]

	// childKey = (IL + key) mod n, rejecting IL >= n and zero children
	n := btcec.S256().N
	ilNum := new(big.Int).SetBytes(il)
	if ilNum.Cmp(n) >= 0 {
		return nil, nil, errors.New("invalid derived key (IL >= n)")
	}

	childNum := new(big.Int).Add(ilNum, new(big.Int).SetBytes(key))
	childNum.Mod(childNum, n)
	if childNum.Sign() == 0 {
		return nil, nil, errors.New("invalid derived key (zero child)")
	}

	child := make([]byte, 32)
	childNum.FillBytes(child)
	return child, ir, nil
}

func deriveEd25519Child(key, chainCode []byte, index uint32) ([]byte, []byte) {
	h := hmac.New(sha512.New, chainCode)
	h.Write([]byte{0x00})
	h.Write(key)

	indexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(indexBytes, index)
	h.Write(indexBytes)

	sum := h.Sum(nil)
	return sum[:32], sum[32:]
}

func validateSecp256k1Scalar(key []byte) error {
	n := btcec.S256().N
	k := new(big.Int).SetBytes(key)
	if k.Sign() == 0 || k.Cmp(n) >= 0 {
		return errors.New("invalid master key scalar")
	}
	return nil
}
