package main

import (
	"os"
	"time"

	"github.com/kashguard/go-wallet-core/cmd/mnemonic"
	"github.com/kashguard/go-wallet-core/cmd/serve"
	"github.com/kashguard/go-wallet-core/cmd/wallet"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	root := &cobra.Command{
		Use:   "walletd",
		Short: "Multi-chain wallet core daemon and tools",
	}

	root.AddCommand(
		serve.New(),
		mnemonic.New(),
		wallet.New(),
	)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
