package wallets

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/httperrors"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/kashguard/go-wallet-core/internal/wallet"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PostImportWalletPayload accepts either a mnemonic or a raw private
// key, never both.
type PostImportWalletPayload struct {
	Chain      string `json:"chain"`
	Password   string `json:"password"`
	Mnemonic   string `json:"mnemonic,omitempty"`
	PrivateKey string `json:"private_key,omitempty"`
}

func PostImportWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/wallets/import", postImportWalletHandler(s))
}

func postImportWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body PostImportWalletPayload
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "failed to parse request body")
		}
		if body.Chain == "" || body.Password == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "chain and password are required")
		}
		if (body.Mnemonic == "") == (body.PrivateKey == "") {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "exactly one of mnemonic or private_key is required")
		}

		chain := primitive.ChainType(body.Chain)

		var (
			w   *wallet.Wallet
			err error
		)
		if body.Mnemonic != "" {
			w, err = s.Wallets.ImportFromMnemonic(ctx, chain, body.Mnemonic, body.Password)
		} else {
			w, err = s.Wallets.ImportFromPrivateKey(ctx, chain, body.PrivateKey, body.Password)
		}
		if err != nil {
			log.Warn().Err(err).Str("chain", body.Chain).Msg("Failed to import wallet")
			return err
		}
		defer w.Wipe()

		response := &WalletResponse{
			ID:        w.ID,
			Chain:     string(w.ChainType),
			Address:   w.Address,
			PublicKey: encoding.BytesToHex(w.PublicKey),
		}

		return c.JSON(http.StatusCreated, response)
	}
}
