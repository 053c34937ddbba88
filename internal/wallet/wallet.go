package wallet

import (
	"time"

	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/pkg/errors"
)

var (
	ErrInvalidMnemonic      = errors.New("invalid mnemonic")
	ErrInvalidPrivateKey    = errors.New("invalid private key")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrUnsupportedChain     = errors.New("unsupported chain type")
)

// Wallet is a fully materialized wallet with its secrets in memory.
// Never persisted as-is: SaveWallet encrypts the private key and the
// mnemonic before anything reaches storage.
type Wallet struct {
	ID         string
	ChainType  primitive.ChainType
	Address    string
	PublicKey  []byte
	PrivateKey []byte
	// Mnemonic is empty for wallets imported from a raw private key.
	Mnemonic string
}

// Wipe zeroes the wallet's secrets. Best effort, same caveat as
// primitive.KeyPair.Wipe.
func (w *Wallet) Wipe() {
	if w == nil {
		return
	}
	encoding.Wipe(w.PrivateKey)
}

// Account is one address derived from a mnemonic at a BIP-44 index.
// It carries no private key.
type Account struct {
	Index     uint32
	Path      string
	Address   string
	PublicKey []byte
}

// record is the persisted non-secret part of a wallet.
type record struct {
	ID        string              `json:"id"`
	ChainType primitive.ChainType `json:"chain_type"`
	Address   string              `json:"address"`
	PublicKey string              `json:"public_key"`
	CreatedAt time.Time           `json:"created_at"`
}
