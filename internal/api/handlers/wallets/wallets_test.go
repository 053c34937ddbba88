package wallets_test

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/kashguard/go-wallet-core/internal/api/handlers/wallets"
	"github.com/kashguard/go-wallet-core/internal/test"
	"github.com/kashguard/go-wallet-core/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestWalletLifecycle(t *testing.T) {
	s, _ := test.NewTestServer(t)

	rec := test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets",
		`{"chain":"evm","password":"correct horse"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created wallets.WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "evm", created.Chain)
	assert.Regexp(t, "^0x[0-9a-f]{40}$", created.Address)
	assert.NotEmpty(t, created.Mnemonic, "mnemonic must be disclosed exactly once, at creation")

	rec = test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/"+created.ID+"/sign",
		`{"password":"correct horse","message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var signed wallets.SignMessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signed))
	assert.Equal(t, created.Address, signed.Address)
	assert.NotEmpty(t, signed.Signature)

	verifyBody := fmt.Sprintf(`{"chain":"evm","address":%q,"signature":%q,"message":"hello"}`,
		created.Address, signed.Signature)
	rec = test.PerformRequest(t, s, http.MethodPost, "/api/v1/verify", verifyBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var verified wallets.VerifySignatureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verified))
	assert.True(t, verified.Valid)

	tamperedBody := fmt.Sprintf(`{"chain":"evm","address":%q,"signature":%q,"message":"hello!"}`,
		created.Address, signed.Signature)
	rec = test.PerformRequest(t, s, http.MethodPost, "/api/v1/verify", tamperedBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verified))
	assert.False(t, verified.Valid)

	rec = test.PerformRequest(t, s, http.MethodDelete, "/api/v1/wallets/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/"+created.ID+"/sign",
		`{"password":"correct horse","message":"hello"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestPostCreateWalletValidation(t *testing.T) {
	s, _ := test.NewTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unsupported chain", `{"chain":"dogecoin","password":"pw"}`, http.StatusBadRequest},
		{"missing password", `{"chain":"evm"}`, http.StatusBadRequest},
		{"missing chain", `{"password":"pw"}`, http.StatusBadRequest},
		{"garbage body", `{"chain":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestPostImportWalletFromMnemonic(t *testing.T) {
	s, _ := test.NewTestServer(t)

	body := fmt.Sprintf(`{"chain":"evm","password":"pw","mnemonic":%q}`, knownMnemonic)
	rec := test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/import", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var imported wallets.WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))
	assert.Equal(t, "0x9858effd232b4033e47d90003d41ec34ecaeda94", imported.Address)
	assert.Empty(t, imported.Mnemonic, "import response must not echo the mnemonic")
}

func TestPostImportWalletRejectsBadInput(t *testing.T) {
	s, _ := test.NewTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid mnemonic", `{"chain":"evm","password":"pw","mnemonic":"abandon abandon zebra"}`},
		{"invalid private key", `{"chain":"evm","password":"pw","private_key":"nothex"}`},
		{"both inputs", fmt.Sprintf(`{"chain":"evm","password":"pw","mnemonic":%q,"private_key":"00"}`, knownMnemonic)},
		{"neither input", `{"chain":"evm","password":"pw"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/import", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestPostSignMessageWrongPassword(t *testing.T) {
	s, _ := test.NewTestServer(t)

	rec := test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets",
		`{"chain":"solana","password":"right"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created wallets.WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/"+created.ID+"/sign",
		`{"password":"wrong","message":"hello"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
}

func TestPostDeriveAccounts(t *testing.T) {
	s, _ := test.NewTestServer(t)

	body := fmt.Sprintf(`{"chain":"evm","password":"pw","mnemonic":%q}`, knownMnemonic)
	rec := test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/import", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var imported wallets.WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))

	rec = test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/"+imported.ID+"/accounts",
		`{"password":"pw","start":0,"count":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var derived wallets.DeriveAccountsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &derived))
	require.Len(t, derived.Accounts, 3)

	seen := map[string]bool{}
	for i, account := range derived.Accounts {
		assert.Equal(t, uint32(i), account.Index)
		assert.False(t, seen[account.Address], "addresses must be distinct")
		seen[account.Address] = true
	}
	assert.Equal(t, imported.Address, derived.Accounts[0].Address)
}

func TestPostExportWallet(t *testing.T) {
	s, _ := test.NewTestServer(t)

	rec := test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets",
		`{"chain":"evm","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created wallets.WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	recipient, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	recipientPub := hex.EncodeToString(ethcrypto.CompressPubkey(&recipient.PublicKey))

	body := fmt.Sprintf(`{"password":"pw","recipient_public_key":%q}`, recipientPub)
	rec = test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/"+created.ID+"/export", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var exported wallets.ExportWalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))

	blob, err := base64.StdEncoding.DecodeString(exported.Blob)
	require.NoError(t, err)

	opened, err := export.Open(blob, ethcrypto.FromECDSA(recipient))
	require.NoError(t, err)

	var payload wallets.ExportPayload
	require.NoError(t, json.Unmarshal(opened, &payload))
	assert.Equal(t, created.Address, payload.Address)
	assert.Equal(t, created.Mnemonic, payload.Mnemonic)
	assert.NotEmpty(t, payload.PrivateKey)
}

func TestPostExportWalletRejectsBadRecipient(t *testing.T) {
	s, _ := test.NewTestServer(t)

	rec := test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets",
		`{"chain":"evm","password":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created wallets.WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/"+created.ID+"/export",
		`{"password":"pw","recipient_public_key":"00010203"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestPostDeriveAccountsWithoutMnemonic(t *testing.T) {
	s, _ := test.NewTestServer(t)

	body := `{"chain":"evm","password":"pw","private_key":"1837c1be8e2995ec11cda2b066151be2cfb48adf9e47b151d46adab3a21cdf67"}`
	rec := test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/import", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var imported wallets.WalletResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))

	rec = test.PerformRequest(t, s, http.MethodPost, "/api/v1/wallets/"+imported.ID+"/accounts",
		`{"password":"pw","start":0,"count":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}
