// Package export implements one-shot encrypted wallet exports. A wallet
// payload is sealed to a recipient secp256k1 public key with an
// ephemeral ECDH exchange and AES-256-GCM, so the export can cross an
// untrusted channel and only the holder of the recipient private key
// can open it.
package export

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"io"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

const (
	nonceSize = 12
	keySize   = 32

	compressedPubKeyLen   = 33
	uncompressedPubKeyLen = 65
)

var kdfInfo = []byte("wallet-core/export/v1")

var (
	ErrInvalidRecipientKey = errors.New("invalid recipient public key")
	ErrInvalidBlob         = errors.New("invalid export blob")
	// ErrOpenFailed covers a wrong private key and a tampered blob
	// alike; GCM cannot distinguish them.
	ErrOpenFailed = errors.New("failed to open export blob")
)

// Seal encrypts payload to the recipient public key (33-byte compressed
// or 65-byte uncompressed). Blob layout:
// ephemeral compressed pubkey (33) || nonce (12) || ciphertext+tag.
func Seal(payload, recipientPubKey []byte) ([]byte, error) {
	recipient, err := parsePublicKey(recipientPubKey)
	if err != nil {
		return nil, err
	}

	ephemeral, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate ephemeral key")
	}

	secret, err := sharedSecret(ephemeral, recipient)
	if err != nil {
		return nil, err
	}

	ephemeralPub := ethcrypto.CompressPubkey(&ephemeral.PublicKey)

	// The ephemeral key doubles as KDF salt and GCM AAD, binding the
	// derived key and the ciphertext to this exchange.
	gcm, err := newGCM(secret, ephemeralPub)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "failed to generate nonce")
	}

	ciphertext := gcm.Seal(nil, nonce, payload, ephemeralPub)

	blob := make([]byte, 0, len(ephemeralPub)+len(nonce)+len(ciphertext))
	blob = append(blob, ephemeralPub...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)

	return blob, nil
}

// Open decrypts a blob produced by Seal with the recipient's 32-byte
// private key scalar.
func Open(blob, recipientPrivKey []byte) ([]byte, error) {
	priv, err := ethcrypto.ToECDSA(recipientPrivKey)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRecipientKey, err.Error())
	}

	if len(blob) < compressedPubKeyLen+nonceSize {
		return nil, ErrInvalidBlob
	}

	ephemeralPub := blob[:compressedPubKeyLen]
	nonce := blob[compressedPubKeyLen : compressedPubKeyLen+nonceSize]
	ciphertext := blob[compressedPubKeyLen+nonceSize:]

	ephemeral, err := ethcrypto.DecompressPubkey(ephemeralPub)
	if err != nil {
		return nil, ErrInvalidBlob
	}

	secret, err := sharedSecret(priv, ephemeral)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(secret, ephemeralPub)
	if err != nil {
		return nil, err
	}

	payload, err := gcm.Open(nil, nonce, ciphertext, ephemeralPub)
	if err != nil {
		return nil, ErrOpenFailed
	}

	return payload, nil
}

func parsePublicKey(pub []byte) (*ecdsa.PublicKey, error) {
	switch len(pub) {
	case compressedPubKeyLen:
		key, err := ethcrypto.DecompressPubkey(pub)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidRecipientKey, err.Error())
		}
		return key, nil
	case uncompressedPubKeyLen:
		key, err := ethcrypto.UnmarshalPubkey(pub)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidRecipientKey, err.Error())
		}
		return key, nil
	default:
		return nil, ErrInvalidRecipientKey
	}
}

// sharedSecret is the x-coordinate of the ECDH point.
func sharedSecret(priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey) ([]byte, error) {
	if !ethcrypto.S256().IsOnCurve(pub.X, pub.Y) {
		return nil, ErrInvalidRecipientKey
	}
	x, _ := ethcrypto.S256().ScalarMult(pub.X, pub.Y, priv.D.Bytes())
	if x == nil {
		return nil, errors.New("ecdh produced the point at infinity")
	}
	return x.Bytes(), nil
}

func newGCM(secret, salt []byte) (cipher.AEAD, error) {
	kdf := hkdf.New(sha256.New, secret, salt, kdfInfo)
	key := make([]byte, keySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, errors.Wrap(err, "failed to derive export key")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}
	return cipher.NewGCM(block)
}
