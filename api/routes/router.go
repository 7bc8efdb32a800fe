package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lojaonline/backend/api/controllers"
	"github.com/lojaonline/backend/api/middleware"
	cartsvc "github.com/lojaonline/backend/internal/cart"
	checkoutsvc "github.com/lojaonline/backend/internal/checkout"
	orderssvc "github.com/lojaonline/backend/internal/orders"
	sellerssvc "github.com/lojaonline/backend/internal/sellers"
	"github.com/lojaonline/backend/pkg/config"
	"github.com/lojaonline/backend/pkg/logger"
	"github.com/lojaonline/backend/pkg/metrics"
	"github.com/lojaonline/backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService orderssvc.Service,
	sellersService sellerssvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutIPLimit,
		cfg.RateLimit.CheckoutBuyerLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": dbP,
			"redis":    redisClient,
		}))
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/cart", controllers.CartFetch(cartService, logg))
		r.Post("/cart/items", controllers.CartAddLine(cartService, logg))
		r.Patch("/cart/items/{itemID}", controllers.CartUpdateLine(cartService, logg))
		r.Delete("/cart/items/{itemID}", controllers.CartRemoveLine(cartService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(checkoutPolicy, redisClient, logg))
			r.Post("/checkout", controllers.Checkout(checkoutService, logg))
			r.Post("/checkout/direct", controllers.CheckoutDirect(checkoutService, logg))
		})

		r.Get("/orders", controllers.OrdersHistory(ordersService, logg))
		r.Get("/orders/{orderID}", controllers.OrderDetail(ordersService, logg))

		r.Post("/sellers/{sellerID}/deactivate", controllers.SellerDeactivate(sellersService, logg))
	})

	return r
}
