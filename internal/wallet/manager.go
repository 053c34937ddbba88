package wallet

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/kashguard/go-wallet-core/internal/hdkey"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/kashguard/go-wallet-core/internal/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var privateKeyPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)

// addressRecoverer is implemented by primitives whose signatures carry a
// recovery byte, so the signer address can be checked without a stored
// public key.
type addressRecoverer interface {
	RecoverAddress(message, signature []byte) (string, error)
}

// Manager orchestrates wallet lifecycle: generation, import, HD account
// derivation, signing and encrypted persistence. Save, unlock and delete
// are serialized per wallet id.
type Manager struct {
	registry *primitive.Registry
	store    storage.SecureStorage
	scryptN  int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithScryptN overrides the vault KDF cost. Tests use a low cost; the
// production default is DefaultScryptN.
func WithScryptN(n int) Option {
	return func(m *Manager) { m.scryptN = n }
}

// NewManager creates a wallet manager on top of a primitive registry and
// a secure storage backend.
func NewManager(registry *primitive.Registry, store storage.SecureStorage, opts ...Option) *Manager {
	m := &Manager{
		registry: registry,
		store:    store,
		scryptN:  DefaultScryptN,
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateWallet generates a fresh 12-word mnemonic, derives the account 0
// key pair for the chain and persists the wallet encrypted under
// password. The returned wallet is the only place the mnemonic appears
// in plaintext.
func (m *Manager) CreateWallet(ctx context.Context, chain primitive.ChainType, password string) (*Wallet, error) {
	p, err := m.primitive(chain)
	if err != nil {
		return nil, err
	}

	mnemonic, err := hdkey.NewMnemonic(hdkey.DefaultEntropyBits)
	if err != nil {
		return nil, err
	}

	w, err := m.walletFromMnemonic(p, mnemonic)
	if err != nil {
		return nil, err
	}
	w.ID = uuid.New().String()

	if err := m.SaveWallet(ctx, w, password); err != nil {
		w.Wipe()
		return nil, err
	}

	log.Info().Str("chain", string(chain)).Str("address", w.Address).Msg("wallet created")
	return w, nil
}

// ImportFromMnemonic validates the checksum before deriving anything and
// persists the resulting wallet. Re-importing the same mnemonic yields
// the same address.
func (m *Manager) ImportFromMnemonic(ctx context.Context, chain primitive.ChainType, mnemonic, password string) (*Wallet, error) {
	p, err := m.primitive(chain)
	if err != nil {
		return nil, err
	}
	if !hdkey.ValidateMnemonic(mnemonic) {
		return nil, errors.Wrap(ErrInvalidMnemonic, "checksum validation failed")
	}

	w, err := m.walletFromMnemonic(p, mnemonic)
	if err != nil {
		return nil, err
	}
	w.ID = uuid.New().String()

	if err := m.SaveWallet(ctx, w, password); err != nil {
		w.Wipe()
		return nil, err
	}

	log.Info().Str("chain", string(chain)).Str("address", w.Address).Msg("wallet imported from mnemonic")
	return w, nil
}

// ImportFromPrivateKey accepts a 64-hex-char private key (optional 0x
// prefix) and persists the resulting wallet. No mnemonic is attached.
func (m *Manager) ImportFromPrivateKey(ctx context.Context, chain primitive.ChainType, privateKeyHex, password string) (*Wallet, error) {
	p, err := m.primitive(chain)
	if err != nil {
		return nil, err
	}
	if !privateKeyPattern.MatchString(privateKeyHex) {
		return nil, errors.Wrap(ErrInvalidPrivateKey, "expected 64 hex characters")
	}

	raw, err := encoding.HexToBytes(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}

	kp, err := p.KeyPairFromPrivateKey(raw)
	if err != nil {
		encoding.Wipe(raw)
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	encoding.Wipe(raw)

	address, err := p.PublicKeyToAddress(kp.PublicKey)
	if err != nil {
		kp.Wipe()
		return nil, err
	}

	w := &Wallet{
		ID:         uuid.New().String(),
		ChainType:  chain,
		Address:    address,
		PublicKey:  kp.PublicKey,
		PrivateKey: kp.PrivateKey,
	}

	if err := m.SaveWallet(ctx, w, password); err != nil {
		w.Wipe()
		return nil, err
	}

	log.Info().Str("chain", string(chain)).Str("address", w.Address).Msg("wallet imported from private key")
	return w, nil
}

// DeriveAccount derives the address at a BIP-44 index without keeping
// the private key around.
func (m *Manager) DeriveAccount(chain primitive.ChainType, mnemonic string, index uint32) (*Account, error) {
	p, err := m.primitive(chain)
	if err != nil {
		return nil, err
	}
	if !hdkey.ValidateMnemonic(mnemonic) {
		return nil, errors.Wrap(ErrInvalidMnemonic, "checksum validation failed")
	}

	seed, err := hdkey.MnemonicToSeed(mnemonic, "")
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}
	defer encoding.Wipe(seed)

	return m.deriveAccountFromSeed(p, seed, index)
}

// DeriveAccounts derives count consecutive accounts starting at start.
// Indices are independent computations, so they run in parallel.
func (m *Manager) DeriveAccounts(chain primitive.ChainType, mnemonic string, start, count uint32) ([]*Account, error) {
	p, err := m.primitive(chain)
	if err != nil {
		return nil, err
	}
	if !hdkey.ValidateMnemonic(mnemonic) {
		return nil, errors.Wrap(ErrInvalidMnemonic, "checksum validation failed")
	}
	seed, err := hdkey.MnemonicToSeed(mnemonic, "")
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}
	defer encoding.Wipe(seed)

	accounts := make([]*Account, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	for i := uint32(0); i < count; i++ {
		wg.Add(1)
		go func(i uint32) {
			defer wg.Done()
			accounts[i], errs[i] = m.deriveAccountFromSeed(p, seed, start+i)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

// SignMessage signs message with the chain's primitive.
func (m *Manager) SignMessage(chain primitive.ChainType, message, privateKey []byte) ([]byte, error) {
	p, err := m.primitive(chain)
	if err != nil {
		return nil, err
	}
	return p.Sign(message, privateKey)
}

// VerifySignature checks a signature against an address. On EVM the
// signer address is recovered from the signature; on Solana the address
// is itself the public key. Malformed input verifies false.
func (m *Manager) VerifySignature(chain primitive.ChainType, message, signature []byte, address string) bool {
	p := m.registry.Get(chain)
	if p == nil || !p.IsValidAddress(address) {
		return false
	}

	if rec, ok := p.(addressRecoverer); ok {
		recovered, err := rec.RecoverAddress(message, signature)
		return err == nil && strings.EqualFold(recovered, address)
	}

	pub, err := encoding.Base58ToBytes(address)
	if err != nil {
		return false
	}
	return p.Verify(message, signature, pub)
}

// SaveWallet encrypts the private key and the mnemonic separately under
// password and persists them. The record goes in last so a cancelled or
// failed save never leaves a findable wallet pointing at missing or
// partial ciphertexts.
func (m *Manager) SaveWallet(ctx context.Context, w *Wallet, password string) error {
	unlock := m.lock(w.ID)
	defer unlock()

	keyBlob, err := sealSecret(w.PrivateKey, []byte(password), m.aad(w.ID, "key"), m.scryptN)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return storage.NewStorageError("set", m.keyKey(w.ID), err)
	}
	if err := m.store.SetItem(ctx, m.keyKey(w.ID), encoding.BytesToBase64(keyBlob)); err != nil {
		return err
	}

	if w.Mnemonic != "" {
		mnemonicBlob, err := sealSecret([]byte(w.Mnemonic), []byte(password), m.aad(w.ID, "mnemonic"), m.scryptN)
		if err != nil {
			return err
		}
		if err := m.store.SetItem(ctx, m.mnemonicKey(w.ID), encoding.BytesToBase64(mnemonicBlob)); err != nil {
			return err
		}
	}

	rec := record{
		ID:        w.ID,
		ChainType: w.ChainType,
		Address:   w.Address,
		PublicKey: encoding.BytesToHex(w.PublicKey),
		CreatedAt: time.Now().UTC(),
	}
	return m.store.SetObject(ctx, m.recordKey(w.ID), rec)
}

// UnlockWallet decrypts a stored wallet. A wrong password is
// indistinguishable from a corrupted vault by design and surfaces as
// ErrAuthenticationFailed.
func (m *Manager) UnlockWallet(ctx context.Context, id, password string) (*Wallet, error) {
	unlock := m.lock(id)
	defer unlock()

	var rec record
	if err := m.store.GetObject(ctx, m.recordKey(id), &rec); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errors.Wrapf(ErrWalletNotFound, "id %s", id)
		}
		return nil, err
	}

	p, err := m.primitive(rec.ChainType)
	if err != nil {
		return nil, err
	}

	keyBlobB64, err := m.store.GetItem(ctx, m.keyKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, errors.Wrap(storage.ErrCorruptData, "wallet record without key material")
		}
		return nil, err
	}
	keyBlob, err := encoding.Base64ToBytes(keyBlobB64)
	if err != nil {
		return nil, errors.Wrap(storage.ErrCorruptData, err.Error())
	}

	privateKey, err := openSecret(keyBlob, []byte(password), m.aad(id, "key"), m.scryptN)
	if err != nil {
		return nil, err
	}

	kp, err := p.KeyPairFromPrivateKey(privateKey)
	if err != nil {
		encoding.Wipe(privateKey)
		return nil, errors.Wrap(storage.ErrCorruptData, err.Error())
	}
	encoding.Wipe(privateKey)

	address, err := p.PublicKeyToAddress(kp.PublicKey)
	if err != nil {
		kp.Wipe()
		return nil, err
	}
	if !strings.EqualFold(address, rec.Address) {
		kp.Wipe()
		return nil, errors.Wrap(storage.ErrCorruptData, "stored address does not match key material")
	}

	w := &Wallet{
		ID:         rec.ID,
		ChainType:  rec.ChainType,
		Address:    rec.Address,
		PublicKey:  kp.PublicKey,
		PrivateKey: kp.PrivateKey,
	}

	mnemonicBlobB64, err := m.store.GetItem(ctx, m.mnemonicKey(id))
	switch {
	case err == nil:
		mnemonicBlob, err := encoding.Base64ToBytes(mnemonicBlobB64)
		if err != nil {
			w.Wipe()
			return nil, errors.Wrap(storage.ErrCorruptData, err.Error())
		}
		mnemonic, err := openSecret(mnemonicBlob, []byte(password), m.aad(id, "mnemonic"), m.scryptN)
		if err != nil {
			w.Wipe()
			return nil, err
		}
		w.Mnemonic = string(mnemonic)
		encoding.Wipe(mnemonic)
	case errors.Is(err, storage.ErrNotFound):
		// Imported from a raw private key, no mnemonic stored.
	default:
		w.Wipe()
		return nil, err
	}

	return w, nil
}

// DeleteWallet removes every persisted artifact: the record first, so no
// pointer to key material survives a partial failure, then both
// ciphertexts. Any failure is reported; key material left behind is a
// critical defect.
func (m *Manager) DeleteWallet(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	var rec record
	if err := m.store.GetObject(ctx, m.recordKey(id), &rec); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errors.Wrapf(ErrWalletNotFound, "id %s", id)
		}
		return err
	}

	if err := m.store.DeleteItem(ctx, m.recordKey(id)); err != nil {
		return err
	}
	if err := m.store.DeleteItem(ctx, m.keyKey(id)); err != nil {
		return errors.Wrap(err, "wallet record removed but key ciphertext remains")
	}
	if err := m.store.DeleteItem(ctx, m.mnemonicKey(id)); err != nil {
		return errors.Wrap(err, "wallet record removed but mnemonic ciphertext remains")
	}

	log.Info().Str("address", rec.Address).Msg("wallet deleted")
	return nil
}

func (m *Manager) walletFromMnemonic(p primitive.Primitive, mnemonic string) (*Wallet, error) {
	seed, err := hdkey.MnemonicToSeed(mnemonic, "")
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}
	defer encoding.Wipe(seed)

	ext, err := m.deriveExtendedKey(p, seed, 0)
	if err != nil {
		return nil, err
	}
	defer ext.Wipe()

	kp, err := p.KeyPairFromPrivateKey(ext.Key)
	if err != nil {
		return nil, err
	}

	address, err := p.PublicKeyToAddress(kp.PublicKey)
	if err != nil {
		kp.Wipe()
		return nil, err
	}

	return &Wallet{
		ChainType:  p.ChainType(),
		Address:    address,
		PublicKey:  kp.PublicKey,
		PrivateKey: kp.PrivateKey,
		Mnemonic:   mnemonic,
	}, nil
}

func (m *Manager) deriveAccountFromSeed(p primitive.Primitive, seed []byte, index uint32) (*Account, error) {
	ext, err := m.deriveExtendedKey(p, seed, index)
	if err != nil {
		return nil, err
	}
	defer ext.Wipe()

	kp, err := p.KeyPairFromPrivateKey(ext.Key)
	if err != nil {
		return nil, err
	}
	defer kp.Wipe()

	address, err := p.PublicKeyToAddress(kp.PublicKey)
	if err != nil {
		return nil, err
	}

	return &Account{
		Index:     index,
		Path:      m.derivationPath(p, index),
		Address:   address,
		PublicKey: append([]byte(nil), kp.PublicKey...),
	}, nil
}

func (m *Manager) deriveExtendedKey(p primitive.Primitive, seed []byte, index uint32) (*hdkey.ExtendedKey, error) {
	switch p.CurveType() {
	case primitive.CurveSecp256k1:
		return hdkey.DeriveSecp256k1(seed, hdkey.EVMPath(index))
	case primitive.CurveEd25519:
		return hdkey.DeriveEd25519(seed, hdkey.SolanaPath(index))
	default:
		return nil, errors.Wrapf(ErrUnsupportedChain, "curve %s", p.CurveType())
	}
}

func (m *Manager) derivationPath(p primitive.Primitive, index uint32) string {
	if p.CurveType() == primitive.CurveEd25519 {
		return hdkey.SolanaPath(index)
	}
	return hdkey.EVMPath(index)
}

func (m *Manager) primitive(chain primitive.ChainType) (primitive.Primitive, error) {
	p := m.registry.Get(chain)
	if p == nil {
		return nil, errors.Wrapf(ErrUnsupportedChain, "no primitive registered for %q", chain)
	}
	return p, nil
}

// lock returns an unlock func for the per-wallet mutex, creating it on
// first use.
func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (m *Manager) recordKey(id string) string   { return "vault:" + id + ":record" }
func (m *Manager) keyKey(id string) string      { return "vault:" + id + ":key" }
func (m *Manager) mnemonicKey(id string) string { return "vault:" + id + ":mnemonic" }

func (m *Manager) aad(id, field string) []byte {
	return []byte(id + ":" + field)
}
