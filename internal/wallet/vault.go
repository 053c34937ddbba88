package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	// DefaultScryptN balances unlock latency against brute-force cost.
	// Interactive use on mobile-class hardware stays under a second.
	DefaultScryptN = 1 << 17

	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32

	saltLen  = 32
	nonceLen = 12
)

// sealSecret encrypts plaintext under a password using scrypt and
// AES-256-GCM. Format: salt (32) || nonce (12) || ciphertext (with tag).
// aad binds the blob to its storage context so ciphertexts cannot be
// swapped between wallets.
func sealSecret(plaintext, password, aad []byte, scryptN int) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive vault key")
	}
	defer encoding.Wipe(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create aes cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gcm")
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "failed to generate nonce")
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, aad)

	blob := make([]byte, 0, saltLen+nonceLen+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// openSecret reverses sealSecret. A wrong password and a corrupted blob
// both surface as ErrAuthenticationFailed: GCM's integrity check is the
// only oracle, and it does not say why it failed.
func openSecret(blob, password, aad []byte, scryptN int) ([]byte, error) {
	if len(blob) < saltLen+nonceLen+1 {
		return nil, errors.Wrap(ErrAuthenticationFailed, "vault blob too short")
	}

	salt := blob[:saltLen]
	nonce := blob[saltLen : saltLen+nonceLen]
	ciphertext := blob[saltLen+nonceLen:]

	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive vault key")
	}
	defer encoding.Wipe(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create aes cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gcm")
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, errors.Wrap(ErrAuthenticationFailed, "vault decryption failed")
	}
	return plaintext, nil
}
