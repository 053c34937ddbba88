package wallets

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/httperrors"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const maxAccountBatch = 100

type PostDeriveAccountsPayload struct {
	Password string `json:"password"`
	Start    uint32 `json:"start"`
	Count    uint32 `json:"count"`
}

type AccountResponse struct {
	Index     uint32 `json:"index"`
	Path      string `json:"path"`
	Address   string `json:"address"`
	PublicKey string `json:"public_key"`
}

type DeriveAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

func PostDeriveAccountsRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/wallets/:id/accounts", postDeriveAccountsHandler(s))
}

func postDeriveAccountsHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param("id")

		var body PostDeriveAccountsPayload
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "failed to parse request body")
		}
		if body.Password == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "password is required")
		}
		if body.Count == 0 || body.Count > maxAccountBatch {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "count must be between 1 and 100")
		}

		w, err := s.Wallets.UnlockWallet(ctx, id, body.Password)
		if err != nil {
			log.Warn().Err(err).Str("wallet_id", id).Msg("Failed to unlock wallet for derivation")
			return err
		}
		defer w.Wipe()

		if w.Mnemonic == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, "NO_MNEMONIC", "wallet was imported from a raw private key and has no derivation seed")
		}

		accounts, err := s.Wallets.DeriveAccounts(w.ChainType, w.Mnemonic, body.Start, body.Count)
		if err != nil {
			log.Warn().Err(err).Str("wallet_id", id).Msg("Failed to derive accounts")
			return err
		}

		response := &DeriveAccountsResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
		for _, account := range accounts {
			response.Accounts = append(response.Accounts, AccountResponse{
				Index:     account.Index,
				Path:      account.Path,
				Address:   account.Address,
				PublicKey: encoding.BytesToHex(account.PublicKey),
			})
		}

		return c.JSON(http.StatusOK, response)
	}
}
