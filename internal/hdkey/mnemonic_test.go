package hdkey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BIP-39 test vector phrase (all-zero entropy).
const knownMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewMnemonic(t *testing.T) {
	mnemonic, err := NewMnemonic(DefaultEntropyBits)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(mnemonic), 12)
	assert.True(t, ValidateMnemonic(mnemonic))

	mnemonic24, err := NewMnemonic(256)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(mnemonic24), 24)

	other, err := NewMnemonic(DefaultEntropyBits)
	require.NoError(t, err)
	assert.NotEqual(t, mnemonic, other)

	_, err = NewMnemonic(100)
	assert.Error(t, err)
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"Known vector", knownMnemonic, true},
		{"Extra whitespace and case", "  Abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about ", true},
		{"One word altered breaks checksum", strings.Replace(knownMnemonic, "about", "abandon", 1), false},
		{"Word outside wordlist", strings.Replace(knownMnemonic, "about", "blockchain", 1), false},
		{"Wrong word count", "abandon abandon abandon", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateMnemonic(tt.mnemonic))
		})
	}
}

func TestMnemonicToSeed(t *testing.T) {
	seed, err := MnemonicToSeed(knownMnemonic, "")
	require.NoError(t, err)
	assert.Len(t, seed, 64)

	again, err := MnemonicToSeed(knownMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, seed, again)

	// A passphrase changes the seed
	withPass, err := MnemonicToSeed(knownMnemonic, "TREZOR")
	require.NoError(t, err)
	assert.NotEqual(t, seed, withPass)

	_, err = MnemonicToSeed("not a mnemonic at all", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}
