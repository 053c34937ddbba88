package test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/kashguard/go-wallet-core/internal/api"
	"github.com/kashguard/go-wallet-core/internal/api/router"
	"github.com/kashguard/go-wallet-core/internal/config"
	"github.com/kashguard/go-wallet-core/internal/primitive"
	"github.com/kashguard/go-wallet-core/internal/security"
	"github.com/kashguard/go-wallet-core/internal/storage"
	"github.com/kashguard/go-wallet-core/internal/wallet"
	"github.com/labstack/echo/v4"
)

// TestScryptN keeps vault sealing fast in tests. Production strength
// is irrelevant here; the ciphertext format is identical.
const TestScryptN = 1 << 12

// AcceptAllBiometric approves every biometric prompt.
type AcceptAllBiometric struct{}

func (AcceptAllBiometric) Verify(ctx context.Context) (bool, error) { return true, nil }

// NewTestServer wires a fully initialized in-memory server. The
// returned clock is the security service's mock clock so lockout
// expiry can be advanced in tests.
func NewTestServer(t *testing.T) (*api.Server, *time2.MockClock) {
	t.Helper()

	store := storage.NewMemoryStore()
	registry := primitive.NewRegistry()
	primitive.RegisterDefaults(registry)
	clock := time2.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	s := api.NewServer(config.Server{ListenAddress: ":0", VaultScryptN: TestScryptN})
	s.Clock = clock
	s.Store = store
	s.Registry = registry
	s.Wallets = wallet.NewManager(registry, store, wallet.WithScryptN(TestScryptN))
	s.Security = security.NewService(store, clock, AcceptAllBiometric{})

	router.Init(s)

	return s, clock
}

// PerformRequest runs a JSON request against the server's echo
// instance and returns the recorder.
func PerformRequest(t *testing.T, s *api.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	return rec
}
