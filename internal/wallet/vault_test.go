package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScryptN = 1 << 12

func TestSealOpenRoundTrip(t *testing.T) {
	secret := []byte("the private key bytes")
	password := []byte("correct horse battery staple")
	aad := []byte("wallet-1:key")

	blob, err := sealSecret(secret, password, aad, testScryptN)
	require.NoError(t, err)
	assert.NotContains(t, string(blob), string(secret))

	plaintext, err := openSecret(blob, password, aad, testScryptN)
	require.NoError(t, err)
	assert.Equal(t, secret, plaintext)
}

func TestOpenWithWrongPassword(t *testing.T) {
	blob, err := sealSecret([]byte("secret"), []byte("right"), []byte("aad"), testScryptN)
	require.NoError(t, err)

	_, err = openSecret(blob, []byte("wrong"), []byte("aad"), testScryptN)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestOpenWithWrongAAD(t *testing.T) {
	// A blob moved to a different wallet slot must not decrypt.
	blob, err := sealSecret([]byte("secret"), []byte("pw"), []byte("wallet-1:key"), testScryptN)
	require.NoError(t, err)

	_, err = openSecret(blob, []byte("pw"), []byte("wallet-2:key"), testScryptN)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestOpenTamperedBlob(t *testing.T) {
	blob, err := sealSecret([]byte("secret"), []byte("pw"), []byte("aad"), testScryptN)
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF
	_, err = openSecret(blob, []byte("pw"), []byte("aad"), testScryptN)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestOpenTruncatedBlob(t *testing.T) {
	_, err := openSecret(make([]byte, 10), []byte("pw"), []byte("aad"), testScryptN)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestSealIsRandomized(t *testing.T) {
	a, err := sealSecret([]byte("secret"), []byte("pw"), []byte("aad"), testScryptN)
	require.NoError(t, err)
	b, err := sealSecret([]byte("secret"), []byte("pw"), []byte("aad"), testScryptN)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
