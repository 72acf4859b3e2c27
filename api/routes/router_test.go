package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cartsvc "github.com/aurelhart/storefront-backend/internal/cart"
	checkoutsvc "github.com/aurelhart/storefront-backend/internal/checkout"
	"github.com/aurelhart/storefront-backend/internal/commerce"
	pkgauth "github.com/aurelhart/storefront-backend/pkg/auth"
	"github.com/aurelhart/storefront-backend/pkg/config"
	"github.com/aurelhart/storefront-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubCartService struct{}

func (stubCartService) Fetch(ctx context.Context, key string) (cartsvc.View, error) {
	return cartsvc.View{}, nil
}

func (stubCartService) AddItem(ctx context.Context, key string, input cartsvc.LineItemInput) (cartsvc.View, error) {
	return cartsvc.View{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, key, itemID string, quantity int) (cartsvc.View, error) {
	return cartsvc.View{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, key, itemID string) (cartsvc.View, error) {
	return cartsvc.View{}, nil
}

func (stubCartService) Clear(ctx context.Context, key string) (cartsvc.View, error) {
	return cartsvc.View{}, nil
}

type stubProducts struct{}

func (stubProducts) GetProduct(ctx context.Context, productID int, variationID *int) (*commerce.ProductSnapshot, error) {
	return &commerce.ProductSnapshot{ProductID: productID, Purchasable: true}, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Submit(ctx context.Context, sessionID string, customerID *int) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{OrderID: 1, Status: "pending"}, nil
}

func testConfig(env string) *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: env, Port: "0"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		JWT:  config.JWTConfig{Secret: "secret", Issuer: "issuer"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		prometheus.NewRegistry(),
		stubCartService{},
		stubProducts{},
		stubCheckoutService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, sessionID string) string {
	t.Helper()
	token, err := pkgauth.MintSessionToken(cfg.JWT, time.Now(), pkgauth.SessionTokenPayload{SessionID: sessionID})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig("test"))

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestReadyFailsWhenCacheDown(t *testing.T) {
	cfg := testConfig("test")
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	router := NewRouter(
		cfg,
		logg,
		stubPinger{err: context.DeadlineExceeded},
		prometheus.NewRegistry(),
		stubCartService{},
		stubProducts{},
		stubCheckoutService{},
	)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(testConfig("test"))
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestCartGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig("test"))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCartGroupAllowsValidJWT(t *testing.T) {
	cfg := testConfig("test")
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "sess-1"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestCheckoutRequiresJWT(t *testing.T) {
	cfg := testConfig("test")
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, "sess-1"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 with token got %d", resp.Code)
	}
}

func TestSessionIssueOnlyOutsideProduction(t *testing.T) {
	dev := newTestRouter(testConfig("development"))
	req := httptest.NewRequest(http.MethodPost, "/api/public/session", nil)
	resp := httptest.NewRecorder()
	dev.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 in dev got %d", resp.Code)
	}

	prod := newTestRouter(testConfig("production"))
	req = httptest.NewRequest(http.MethodPost, "/api/public/session", nil)
	resp = httptest.NewRecorder()
	prod.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("session endpoint must not be mounted in production, got %d", resp.Code)
	}
}
