package wallets

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/httperrors"
	"github.com/kashguard/go-wallet-core/internal/encoding"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type PostCreateWalletPayload struct {
	Chain    string `json:"chain"`
	Password string `json:"password"`
}

// WalletResponse is returned from create and import. Mnemonic is only
// ever disclosed here, once, so the caller can back it up.
type WalletResponse struct {
	ID        string `json:"id"`
	Chain     string `json:"chain"`
	Address   string `json:"address"`
	PublicKey string `json:"public_key"`
	Mnemonic  string `json:"mnemonic,omitempty"`
}

func PostCreateWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1.POST("/wallets", postCreateWalletHandler(s))
}

func postCreateWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body PostCreateWalletPayload
		if err := c.Bind(&body); err != nil {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "failed to parse request body")
		}
		if body.Chain == "" || body.Password == "" {
			return httperrors.NewHTTPError(http.StatusBadRequest, "INVALID_BODY", "chain and password are required")
		}

		w, err := s.Wallets.CreateWallet(ctx, primitive.ChainType(body.Chain), body.Password)
		if err != nil {
			log.Warn().Err(err).Str("chain", body.Chain).Msg("Failed to create wallet")
			return err
		}
		defer w.Wipe()

		response := &WalletResponse{
			ID:        w.ID,
			Chain:     string(w.ChainType),
			Address:   w.Address,
			PublicKey: encoding.BytesToHex(w.PublicKey),
			Mnemonic:  w.Mnemonic,
		}

		return c.JSON(http.StatusCreated, response)
	}
}
