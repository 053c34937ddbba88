package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPIN(t *testing.T) {
	encoded, err := hashPIN("123456")
	require.NoError(t, err)

	assert.NotContains(t, encoded, "123456")
	assert.Contains(t, encoded, "$argon2id$")

	assert.True(t, verifyPIN("123456", encoded))
	assert.False(t, verifyPIN("123457", encoded))
	assert.False(t, verifyPIN("", encoded))
}

func TestHashPINIsSalted(t *testing.T) {
	a, err := hashPIN("123456")
	require.NoError(t, err)
	b, err := hashPIN("123456")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, verifyPIN("123456", a))
	assert.True(t, verifyPIN("123456", b))
}

func TestVerifyPINMalformedHash(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"Empty", ""},
		{"Not argon2", "$bcrypt$whatever"},
		{"Truncated", "$argon2id$v=19$m=65536"},
		{"Bad base64 salt", "$argon2id$v=19$m=65536,t=3,p=4$!!!$AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, verifyPIN("123456", tt.encoded))
		})
	}
}

func TestValidPINFormat(t *testing.T) {
	tests := []struct {
		name  string
		pin   string
		valid bool
	}{
		{"Six digits", "012345", true},
		{"Too short", "12345", false},
		{"Too long", "1234567", false},
		{"Letters", "12345a", false},
		{"Unicode digits", "１２３４５６", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, validPINFormat(tt.pin))
		})
	}
}
