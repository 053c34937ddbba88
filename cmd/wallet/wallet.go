package wallet

import (
	"fmt"

	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/kashguard/go-wallet-core/internal/hdkey"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet tools",
	}

	cmd.AddCommand(newNewCmd())
	return cmd
}

func newNewCmd() *cobra.Command {
	var chain string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new wallet and print its mnemonic, address and keys",
		Run: func(cmd *cobra.Command, args []string) {
			if err := generate(chain); err != nil {
				log.Fatal().Err(err).Str("chain", chain).Msg("Failed to generate wallet")
			}
		},
	}

	cmd.Flags().StringVarP(&chain, "chain", "c", string(primitive.ChainEVM), "Chain type (evm or solana)")

	return cmd
}

func generate(chain string) error {
	registry := primitive.DefaultRegistry()
	primitive.RegisterDefaults(registry)
	p := registry.Get(primitive.ChainType(chain))
	if p == nil {
		return errors.Errorf("unsupported chain %q", chain)
	}

	phrase, err := hdkey.NewMnemonic(128)
	if err != nil {
		return err
	}

	pair, address, err := fromMnemonic(p, phrase)
	if err != nil {
		return err
	}
	defer pair.Wipe()

	// Secrets go to stdout only; they must never hit the log.
	fmt.Printf("chain:       %s\n", chain)
	fmt.Printf("mnemonic:    %s\n", phrase)
	fmt.Printf("address:     %s\n", address)
	fmt.Printf("public key:  %s\n", encoding.BytesToHex(pair.PublicKey))
	fmt.Printf("private key: %s\n", encoding.BytesToHex(pair.PrivateKey))

	return nil
}

// fromMnemonic derives the first account exactly like the wallet
// manager does, so a phrase printed here re-imports to the same
// address and private key.
func fromMnemonic(p primitive.Primitive, phrase string) (*primitive.KeyPair, string, error) {
	seed, err := hdkey.MnemonicToSeed(phrase, "")
	if err != nil {
		return nil, "", err
	}
	defer encoding.Wipe(seed)

	var key *hdkey.ExtendedKey
	switch p.CurveType() {
	case primitive.CurveSecp256k1:
		key, err = hdkey.DeriveSecp256k1(seed, hdkey.EVMPath(0))
	case primitive.CurveEd25519:
		key, err = hdkey.DeriveEd25519(seed, hdkey.SolanaPath(0))
	default:
		return nil, "", primitive.ErrDerivationFailure
	}
	if err != nil {
		return nil, "", err
	}
	defer key.Wipe()

	pair, err := p.KeyPairFromPrivateKey(key.Key)
	if err != nil {
		return nil, "", err
	}

	address, err := p.PublicKeyToAddress(pair.PublicKey)
	if err != nil {
		pair.Wipe()
		return nil, "", err
	}

	return pair, address, nil
}
