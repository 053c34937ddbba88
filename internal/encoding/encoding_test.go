package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	b := []byte{0xde, 0xad, 0xbe, 0xef}
	s := BytesToHex(b)
	assert.Equal(t, "deadbeef", s)

	decoded, err := HexToBytes(s)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)

	// 0x prefix is accepted
	decoded, err = HexToBytes("0xdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestHexToBytesInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Odd length", "abc"},
		{"Non-hex characters", "zzzz"},
		{"Prefix only odd", "0xabc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HexToBytes(tt.input)
			assert.ErrorIs(t, err, ErrInvalidHex)
		})
	}
}

func TestBase58RoundTrip(t *testing.T) {
	b := make([]byte, 32)
	for i := range b {
		b[i] = byte(i)
	}
	s := BytesToBase58(b)
	decoded, err := Base58ToBytes(s)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestBase58RejectsForbiddenChars(t *testing.T) {
	_, err := Base58ToBytes("contains0OIl")
	assert.Error(t, err)
}

func TestBase64RoundTrip(t *testing.T) {
	b := []byte("wallet-core")
	decoded, err := Base64ToBytes(BytesToBase64(b))
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal([]byte{1, 2, 3}, []byte{1, 2, 3}))
	assert.False(t, Equal([]byte{1, 2, 3}, []byte{1, 2, 4}))
	assert.False(t, Equal([]byte{1, 2, 3}, []byte{1, 2}))
	assert.True(t, Equal(nil, []byte{}))
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3}
	Wipe(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}
