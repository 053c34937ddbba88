package export

import (
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	recipient, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	payload := []byte(`{"chain":"evm","address":"0xabc"}`)

	blob, err := Seal(payload, ethcrypto.CompressPubkey(&recipient.PublicKey))
	require.NoError(t, err)
	assert.NotEmpty(t, blob)

	opened, err := Open(blob, ethcrypto.FromECDSA(recipient))
	require.NoError(t, err)
	assert.Equal(t, payload, opened)
}

func TestSealAcceptsUncompressedKey(t *testing.T) {
	recipient, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	payload := []byte("payload")

	blob, err := Seal(payload, ethcrypto.FromECDSAPub(&recipient.PublicKey))
	require.NoError(t, err)

	opened, err := Open(blob, ethcrypto.FromECDSA(recipient))
	require.NoError(t, err)
	assert.Equal(t, payload, opened)
}

func TestOpenWithWrongKey(t *testing.T) {
	alice, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	bob, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	blob, err := Seal([]byte("secret"), ethcrypto.CompressPubkey(&alice.PublicKey))
	require.NoError(t, err)

	_, err = Open(blob, ethcrypto.FromECDSA(bob))
	assert.ErrorIs(t, err, ErrOpenFailed)
}

func TestOpenTamperedBlob(t *testing.T) {
	recipient, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	blob, err := Seal([]byte("secret"), ethcrypto.CompressPubkey(&recipient.PublicKey))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func([]byte)
	}{
		{"flipped ciphertext byte", func(b []byte) { b[len(b)-1] ^= 0xff }},
		{"flipped nonce byte", func(b []byte) { b[compressedPubKeyLen] ^= 0xff }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := append([]byte(nil), blob...)
			tt.mutate(tampered)
			_, err := Open(tampered, ethcrypto.FromECDSA(recipient))
			assert.Error(t, err)
		})
	}
}

func TestSealRejectsBadRecipientKey(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
	}{
		{"nil", nil},
		{"short", []byte{0x02, 0x01}},
		{"wrong prefix", make([]byte, 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Seal([]byte("payload"), tt.key)
			assert.ErrorIs(t, err, ErrInvalidRecipientKey)
		})
	}
}

func TestOpenShortBlob(t *testing.T) {
	recipient, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	_, err = Open([]byte("short"), ethcrypto.FromECDSA(recipient))
	assert.ErrorIs(t, err, ErrInvalidBlob)
}
