package encoding

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

var (
	ErrInvalidHex    = errors.New("invalid hex string")
	ErrInvalidBase64 = errors.New("invalid base64 string")
	ErrInvalidBase58 = errors.New("invalid base58 string")
)

// BytesToHex encodes b as lowercase hex without a 0x prefix.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBytes decodes a hex string, accepting an optional 0x prefix.
func HexToBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		return nil, errors.Wrap(ErrInvalidHex, "odd length")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHex, err.Error())
	}
	return b, nil
}

// IsHex reports whether s is a well-formed hex string (optional 0x prefix).
func IsHex(s string) bool {
	_, err := HexToBytes(s)
	return err == nil
}

// BytesToBase64 encodes b using standard base64.
func BytesToBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64ToBytes decodes a standard base64 string.
func Base64ToBytes(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidBase64, err.Error())
	}
	return b, nil
}

// BytesToBase58 encodes b using the Bitcoin base58 alphabet.
func BytesToBase58(b []byte) string {
	return base58.Encode(b)
}

// Base58ToBytes decodes a base58 string.
func Base58ToBytes(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidBase58, err.Error())
	}
	return b, nil
}

// Equal compares two byte slices in constant time. Slices of different
// length compare unequal without leaking where they differ.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Wipe overwrites b with zeros. Best effort: the runtime may have copied
// the backing array before this runs.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
