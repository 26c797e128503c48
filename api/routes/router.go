package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anikpatel-dev/vyapaar-backend/api/controllers"
	"github.com/anikpatel-dev/vyapaar-backend/api/middleware"
	"github.com/anikpatel-dev/vyapaar-backend/internal/businesses"
	"github.com/anikpatel-dev/vyapaar-backend/internal/customers"
	"github.com/anikpatel-dev/vyapaar-backend/internal/links"
	"github.com/anikpatel-dev/vyapaar-backend/internal/notifications"
	"github.com/anikpatel-dev/vyapaar-backend/internal/orders"
	"github.com/anikpatel-dev/vyapaar-backend/internal/products"
	"github.com/anikpatel-dev/vyapaar-backend/internal/users"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/metrics"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	AuthGate      middleware.SessionValidator
	HTTPMetrics   *metrics.HTTPMetrics
	Users         users.Service
	Businesses    businesses.Service
	Products      products.Service
	Orders        orders.Service
	Customers     customers.Service
	Links         links.Service
	Notifications notifications.Service
}

// NewRouter assembles the full API surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Public storefront surface: no session required.
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/businesses", controllers.ListPublicBusinesses(deps.Businesses, logg))
		r.Get("/businesses/{businessId}", controllers.GetPublicBusiness(deps.Businesses, logg))
		r.Get("/businesses/{businessId}/products", controllers.ListPublicProducts(deps.Products, logg))
		r.Get("/products/{productId}", controllers.GetPublicProduct(deps.Products, logg))

		r.Get("/checkout/{slug}", controllers.GetCheckoutBySlug(deps.Links, logg))
		r.Post("/checkout/{slug}/click", controllers.ClickCheckoutLink(deps.Links, logg))
		r.Post("/checkout/{slug}/convert", controllers.ConvertCheckoutLink(deps.Links, logg))
		r.Post("/tracking/{linkId}/click", controllers.ClickTrackingLink(deps.Links, logg))
		r.Post("/tracking/{linkId}/convert", controllers.ConvertTrackingLink(deps.Links, logg))
	})

	// Registration is public but throttled and replay-guarded.
	r.With(
		middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
		middleware.Idempotency(cfg.Idempotency, deps.Redis, logg),
	).Post("/api/v1/users/register", controllers.RegisterUser(deps.Users, logg))

	// Authenticated surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthGate, logg))
		r.Use(middleware.Idempotency(cfg.Idempotency, deps.Redis, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.CurrentUser(deps.Users, logg))
			r.Patch("/me", controllers.UpdateProfile(deps.Users, logg))
			r.Post("/me/enroll-business", controllers.EnrollBusiness(deps.Users, logg))
		})

		r.Route("/businesses", func(r chi.Router) {
			r.Post("/", controllers.CreateBusiness(deps.Businesses, logg))
			r.Get("/", controllers.ListMyBusinesses(deps.Businesses, logg))
			r.Route("/{businessId}", func(r chi.Router) {
				r.Get("/", controllers.GetBusiness(deps.Businesses, logg))
				r.Patch("/", controllers.UpdateBusiness(deps.Businesses, logg))
				r.Delete("/", controllers.DeleteBusiness(deps.Businesses, logg))
				r.Post("/toggle-active", controllers.ToggleBusinessActive(deps.Businesses, logg))
				r.Get("/analytics", controllers.BusinessAnalytics(deps.Businesses, logg))

				r.Get("/products", controllers.ListBusinessProducts(deps.Products, logg))
				r.Get("/products/low-stock", controllers.ListLowStockProducts(deps.Products, logg))

				r.Get("/orders", controllers.ListBusinessOrders(deps.Orders, logg))
				r.Get("/orders/analytics", controllers.OrderAnalytics(deps.Orders, logg))

				r.Get("/customers", controllers.ListCustomers(deps.Customers, logg))
				r.Get("/customers/analytics", controllers.CustomerAnalytics(deps.Customers, logg))

				r.Get("/tracking-links", controllers.ListTrackingLinks(deps.Links, logg))
				r.Get("/checkout-links", controllers.ListCheckoutLinks(deps.Links, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Route("/{productId}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(deps.Products, logg))
				r.Patch("/", controllers.UpdateProduct(deps.Products, logg))
				r.Delete("/", controllers.DeleteProduct(deps.Products, logg))
				r.Post("/toggle-active", controllers.ToggleProductActive(deps.Products, logg))
				r.Put("/inventory", controllers.SetProductInventory(deps.Products, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(deps.Orders, logg))
				r.Patch("/status", controllers.UpdateOrderStatus(deps.Orders, logg))
				r.Post("/cancel", controllers.CancelOrder(deps.Orders, logg))
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/{customerId}", controllers.GetCustomerDetail(deps.Customers, logg))
			r.Patch("/{customerId}/notes", controllers.UpdateCustomerNotes(deps.Customers, logg))
		})

		r.Route("/tracking-links", func(r chi.Router) {
			r.Post("/", controllers.CreateTrackingLink(deps.Links, logg))
			r.Route("/{linkId}", func(r chi.Router) {
				r.Get("/analytics", controllers.TrackingLinkAnalytics(deps.Links, logg))
				r.Patch("/", controllers.UpdateTrackingLink(deps.Links, logg))
				r.Delete("/", controllers.DeleteTrackingLink(deps.Links, logg))
			})
		})

		r.Route("/checkout-links", func(r chi.Router) {
			r.Post("/", controllers.CreateCheckoutLink(deps.Links, logg))
			r.Route("/{linkId}", func(r chi.Router) {
				r.Patch("/", controllers.UpdateCheckoutLink(deps.Links, logg))
				r.Delete("/", controllers.DeleteCheckoutLink(deps.Links, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	return r
}
