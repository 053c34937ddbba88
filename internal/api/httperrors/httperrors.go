package httperrors

import (
	"net/http"

	"github.com/kashguard/go-wallet-core/internal/hdkey"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/kashguard/go-wallet-core/internal/security"
	"github.com/kashguard/go-wallet-core/internal/storage"
	"github.com/kashguard/go-wallet-core/internal/wallet"
	"github.com/kashguard/go-wallet-core/pkg/export"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// HTTPError is the JSON error payload for the API surface.
type HTTPError struct {
	Status  int    `json:"status"`
	Type    string `json:"type"`
	Message string `json:"message"`
	// RetryAfterSeconds is set for locked-account responses.
	RetryAfterSeconds int64 `json:"retry_after_seconds,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError builds an error payload.
func NewHTTPError(status int, errType, message string) *HTTPError {
	return &HTTPError{Status: status, Type: errType, Message: message}
}

// FromError maps a typed core error onto the right HTTP response.
// Unknown errors become 500 without leaking internals.
func FromError(err error) *HTTPError {
	var lockedErr *security.LockedError
	if errors.As(err, &lockedErr) {
		e := NewHTTPError(http.StatusLocked, "ACCOUNT_LOCKED", "account is temporarily locked")
		e.RetryAfterSeconds = int64(lockedErr.Remaining.Seconds() + 0.5)
		return e
	}

	var storageErr *storage.StorageError
	switch {
	case errors.Is(err, wallet.ErrInvalidMnemonic), errors.Is(err, hdkey.ErrInvalidMnemonic):
		return NewHTTPError(http.StatusBadRequest, "INVALID_MNEMONIC", "mnemonic validation failed")
	case errors.Is(err, wallet.ErrInvalidPrivateKey):
		return NewHTTPError(http.StatusBadRequest, "INVALID_PRIVATE_KEY", "private key validation failed")
	case errors.Is(err, wallet.ErrUnsupportedChain):
		return NewHTTPError(http.StatusBadRequest, "UNSUPPORTED_CHAIN", "no primitive registered for chain")
	case errors.Is(err, export.ErrInvalidRecipientKey):
		return NewHTTPError(http.StatusBadRequest, "INVALID_RECIPIENT_KEY", "recipient public key validation failed")
	case errors.Is(err, primitive.ErrInvalidAddress):
		return NewHTTPError(http.StatusBadRequest, "INVALID_ADDRESS", "address validation failed")
	case errors.Is(err, security.ErrInvalidPin):
		return NewHTTPError(http.StatusBadRequest, "INVALID_PIN", "pin must be exactly 6 digits")
	case errors.Is(err, security.ErrPinRequired):
		return NewHTTPError(http.StatusBadRequest, "PIN_REQUIRED", "a pin must be set first")
	case errors.Is(err, security.ErrBiometricsNotEnabled):
		return NewHTTPError(http.StatusBadRequest, "BIOMETRICS_NOT_ENABLED", "biometrics are not enabled")
	case errors.Is(err, wallet.ErrAuthenticationFailed),
		errors.Is(err, security.ErrAuthenticationFailed),
		errors.Is(err, security.ErrIncorrectPin),
		errors.Is(err, security.ErrNoPinSet):
		return NewHTTPError(http.StatusUnauthorized, "AUTHENTICATION_FAILED", "authentication failed")
	case errors.Is(err, wallet.ErrWalletNotFound):
		return NewHTTPError(http.StatusNotFound, "WALLET_NOT_FOUND", "wallet not found")
	case errors.As(err, &storageErr), errors.Is(err, storage.ErrCorruptData):
		return NewHTTPError(http.StatusInternalServerError, "STORAGE_FAILURE", "storage operation failed")
	default:
		return NewHTTPError(http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

// HandleError is the echo error handler. Handlers return typed core
// errors or *HTTPError values; everything is rendered as JSON here.
func HandleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			httpErr = NewHTTPError(echoErr.Code, "GENERIC", http.StatusText(echoErr.Code))
		} else {
			httpErr = FromError(err)
		}
	}

	if httpErr.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", httpErr.Status).Msg("Request failed")
	}

	if writeErr := c.JSON(httpErr.Status, httpErr); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
