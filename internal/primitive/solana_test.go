package primitive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolanaGenerateKeyPair(t *testing.T) {
	s := NewSolana()

	a, err := s.GenerateKeyPair()
	require.NoError(t, err)
	b, err := s.GenerateKeyPair()
	require.NoError(t, err)

	assert.Len(t, a.PrivateKey, 32)
	assert.Len(t, a.PublicKey, 32)
	assert.False(t, bytes.Equal(a.PrivateKey, b.PrivateKey))
}

func TestSolanaDeriveKeyPairFromSeedDeterministic(t *testing.T) {
	s := NewSolana()
	seed := bytes.Repeat([]byte{0x07}, 64)

	first, err := s.DeriveKeyPairFromSeed(seed)
	require.NoError(t, err)
	second, err := s.DeriveKeyPairFromSeed(seed)
	require.NoError(t, err)

	assert.Equal(t, first.PrivateKey, second.PrivateKey)
	assert.Equal(t, first.PublicKey, second.PublicKey)

	_, err = s.DeriveKeyPairFromSeed(make([]byte, 16))
	assert.ErrorIs(t, err, ErrInvalidSeedLength)
}

func TestSolanaSharedSecretCommutative(t *testing.T) {
	s := NewSolana()
	a, err := s.GenerateKeyPair()
	require.NoError(t, err)
	b, err := s.GenerateKeyPair()
	require.NoError(t, err)

	ab, err := s.ComputeSharedSecret(a.PrivateKey, b.PublicKey)
	require.NoError(t, err)
	ba, err := s.ComputeSharedSecret(b.PrivateKey, a.PublicKey)
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.Len(t, ab, 32)
}

func TestSolanaSignVerify(t *testing.T) {
	s := NewSolana()
	kp, err := s.GenerateKeyPair()
	require.NoError(t, err)
	other, err := s.GenerateKeyPair()
	require.NoError(t, err)

	msg := []byte("transfer 1 sol to bob")
	sig, err := s.Sign(msg, kp.PrivateKey)
	require.NoError(t, err)
	assert.Len(t, sig, 64)

	assert.True(t, s.Verify(msg, sig, kp.PublicKey))
	assert.False(t, s.Verify(msg, sig, other.PublicKey))
	assert.False(t, s.Verify([]byte("other message"), sig, kp.PublicKey))

	tampered := append([]byte(nil), sig...)
	tampered[0] ^= 0x01
	assert.False(t, s.Verify(msg, tampered, kp.PublicKey))

	assert.False(t, s.Verify(msg, sig[:32], kp.PublicKey))
	assert.False(t, s.Verify(msg, sig, kp.PublicKey[:16]))
}

func TestSolanaSignInvalidKeyLength(t *testing.T) {
	s := NewSolana()
	_, err := s.Sign([]byte("msg"), make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestSolanaPublicKeyToAddress(t *testing.T) {
	s := NewSolana()
	kp, err := s.GenerateKeyPair()
	require.NoError(t, err)

	addr, err := s.PublicKeyToAddress(kp.PublicKey)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(addr), 32)
	assert.LessOrEqual(t, len(addr), 44)
	assert.True(t, s.IsValidAddress(addr))

	_, err = s.PublicKeyToAddress(make([]byte, 20))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestSolanaIsValidAddress(t *testing.T) {
	s := NewSolana()

	tests := []struct {
		name    string
		address string
		valid   bool
	}{
		{"System program", "11111111111111111111111111111111", true},
		{"Token program", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", true},
		{"Forbidden base58 characters", "contains0OIl", false},
		{"EVM address", "0x742d35Cc6634C0532925a3b844Bc9e7595f7C2B0", false},
		{"Too short", "abc", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, s.IsValidAddress(tt.address))
		})
	}
}

func TestSolanaCompressionIsIdentity(t *testing.T) {
	s := NewSolana()
	kp, err := s.GenerateKeyPair()
	require.NoError(t, err)

	compressed, err := s.CompressPublicKey(kp.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, compressed)

	decompressed, err := s.DecompressPublicKey(kp.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, decompressed)

	_, err = s.CompressPublicKey(make([]byte, 33))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}
