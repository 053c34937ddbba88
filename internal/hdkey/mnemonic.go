package hdkey

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// ErrInvalidMnemonic marks a phrase with a bad word count, a word outside
// the wordlist, or a checksum mismatch.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// DefaultEntropyBits yields a 12-word mnemonic.
const DefaultEntropyBits = 128

// NewMnemonic generates a checksummed BIP-39 mnemonic. bits must be a
// multiple of 32 in [128, 256]: 128 → 12 words, 256 → 24 words.
func NewMnemonic(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode mnemonic")
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether the phrase has a valid word count,
// wordlist membership and checksum.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(normalize(mnemonic))
}

// MnemonicToSeed derives the 64-byte BIP-39 seed. The checksum is
// validated first; an invalid mnemonic never produces a seed.
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	mnemonic = normalize(mnemonic)
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}
	return seed, nil
}

func normalize(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(mnemonic))), " ")
}
