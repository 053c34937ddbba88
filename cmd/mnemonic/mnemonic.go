package mnemonic

import (
	"fmt"

	"github.com/kashguard/go-wallet-core/internal/hdkey"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mnemonic",
		Short: "Mnemonic phrase tools",
	}

	cmd.AddCommand(newNewCmd())
	return cmd
}

func newNewCmd() *cobra.Command {
	var words int

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new BIP-39 mnemonic phrase",
		Run: func(cmd *cobra.Command, args []string) {
			bits, err := entropyBits(words)
			if err != nil {
				log.Fatal().Err(err).Int("words", words).Msg("Invalid word count")
			}
			phrase, err := hdkey.NewMnemonic(bits)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to generate mnemonic")
			}
			// The phrase goes to stdout only; it must never hit the log.
			fmt.Println(phrase)
		},
	}

	cmd.Flags().IntVarP(&words, "words", "w", 12, "Number of words (12, 15, 18, 21 or 24)")

	return cmd
}

func entropyBits(words int) (int, error) {
	switch words {
	case 12:
		return 128, nil
	case 15:
		return 160, nil
	case 18:
		return 192, nil
	case 21:
		return 224, nil
	case 24:
		return 256, nil
	default:
		return 0, fmt.Errorf("unsupported word count %d", words)
	}
}
