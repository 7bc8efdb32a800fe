package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	cartsvc "github.com/lojaonline/backend/internal/cart"
	orderssvc "github.com/lojaonline/backend/internal/orders"
	sellerssvc "github.com/lojaonline/backend/internal/sellers"
	pkgAuth "github.com/lojaonline/backend/pkg/auth"
	"github.com/lojaonline/backend/pkg/config"
	"github.com/lojaonline/backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) AddLine(_ context.Context, input cartsvc.AddLineInput) (*cartsvc.View, error) {
	return &cartsvc.View{BuyerID: input.BuyerID, Items: []cartsvc.LineView{}, Subtotal: decimal.Zero}, nil
}

func (stubCartService) GetCart(_ context.Context, buyerID uuid.UUID) (*cartsvc.View, error) {
	return &cartsvc.View{BuyerID: buyerID, Items: []cartsvc.LineView{}, Subtotal: decimal.Zero}, nil
}

func (stubCartService) UpdateLineQuantity(_ context.Context, input cartsvc.UpdateLineInput) (*cartsvc.View, error) {
	return &cartsvc.View{BuyerID: input.BuyerID, Items: []cartsvc.LineView{}, Subtotal: decimal.Zero}, nil
}

func (stubCartService) RemoveLine(_ context.Context, buyerID, _ uuid.UUID) (*cartsvc.View, error) {
	return &cartsvc.View{BuyerID: buyerID, Items: []cartsvc.LineView{}, Subtotal: decimal.Zero}, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) CheckoutFromCart(_ context.Context, buyerID uuid.UUID) (*orderssvc.Detail, error) {
	return &orderssvc.Detail{OrderID: uuid.New(), BuyerID: buyerID}, nil
}

func (stubCheckoutService) CheckoutDirect(_ context.Context, buyerID, _ uuid.UUID, _ int) (*orderssvc.Detail, error) {
	return &orderssvc.Detail{OrderID: uuid.New(), BuyerID: buyerID}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) GetDetail(_ context.Context, buyerID, orderID uuid.UUID) (*orderssvc.Detail, error) {
	return &orderssvc.Detail{OrderID: orderID, BuyerID: buyerID}, nil
}

func (stubOrdersService) History(_ context.Context, _ uuid.UUID, _ pagination.Params) (*orderssvc.HistoryList, error) {
	return &orderssvc.HistoryList{Orders: []orderssvc.Summary{}}, nil
}

type stubSellersService struct{}

func (stubSellersService) Deactivate(_ context.Context, sellerID uuid.UUID) (*sellerssvc.DeactivationResult, error) {
	return &sellerssvc.DeactivationResult{SellerID: sellerID}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "router-secret", Issuer: "loja-api", ExpirationMinutes: 60},
	}
}

func newRouterUnderTest(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(
		testConfig(),
		nil,
		stubPinger{},
		nil,
		prometheus.NewRegistry(),
		stubCartService{},
		stubCheckoutService{},
		stubOrdersService{},
		stubSellersService{},
	)
}

func bearerToken(t *testing.T) string {
	t.Helper()
	cfg := testConfig().JWT
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		BuyerID: uuid.New(),
		Email:   "buyer@example.com",
		JTI:     uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthLiveRoute(t *testing.T) {
	router := newRouterUnderTest(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMetricsRouteServesRegistry(t *testing.T) {
	router := newRouterUnderTest(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newRouterUnderTest(t)

	paths := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/orders"},
	}

	for _, p := range paths {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(p.method, p.target, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", p.method, p.target, resp.Code)
		}
	}
}

func TestCartFetchWithValidToken(t *testing.T) {
	router := newRouterUnderTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	router := newRouterUnderTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newRouterUnderTest(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestUnknownAPIRouteStillRequiresAuth(t *testing.T) {
	router := newRouterUnderTest(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	// Auth guards the whole /api/v1 tree, so unauthenticated requests to
	// unknown paths are rejected before routing can 404.
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	authed.Header.Set("Authorization", bearerToken(t))
	authResp := httptest.NewRecorder()
	router.ServeHTTP(authResp, authed)

	if authResp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for authenticated unknown path got %d", authResp.Code)
	}
}
