package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kidcycle/kidcycle-backend/api/controllers"
	"github.com/kidcycle/kidcycle-backend/api/middleware"
	"github.com/kidcycle/kidcycle-backend/internal/address"
	"github.com/kidcycle/kidcycle-backend/internal/auth"
	"github.com/kidcycle/kidcycle-backend/internal/cart"
	"github.com/kidcycle/kidcycle-backend/internal/contacts"
	"github.com/kidcycle/kidcycle-backend/internal/media"
	"github.com/kidcycle/kidcycle-backend/internal/orders"
	product "github.com/kidcycle/kidcycle-backend/internal/products"
	"github.com/kidcycle/kidcycle-backend/internal/users"
	"github.com/kidcycle/kidcycle-backend/internal/wishlist"
	"github.com/kidcycle/kidcycle-backend/pkg/auth/session"
	"github.com/kidcycle/kidcycle-backend/pkg/config"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	"github.com/kidcycle/kidcycle-backend/pkg/logger"
	"github.com/kidcycle/kidcycle-backend/pkg/metrics"
	"github.com/kidcycle/kidcycle-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	HealthChecks   map[string]controllers.Pinger

	AuthService     auth.Service
	ProductService  product.Service
	OrderService    orders.Service
	CartService     cart.Service
	WishlistService wishlist.Service
	AddressService  address.Service
	ContactService  contacts.Service
	MediaService    media.Service
	UsersRepo       *users.Repository
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	adminRole := string(enums.UserRoleAdmin)
	deliveryRole := string(enums.UserRoleDeliveryBoy)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, deps.HealthChecks))
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Get("/api/public/ping", controllers.PublicPing())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Redis, cfg.Orders.IdempotencyTTL, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
			r.Post("/password", controllers.AuthChangePassword(deps.AuthService, logg))
		})
	})

	// Public contact form. Idempotency protects against double submits.
	r.With(middleware.Idempotency(deps.Redis, cfg.Orders.IdempotencyTTL, logg)).
		Post("/api/v1/contact", controllers.ContactSubmit(deps.ContactService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.Idempotency(deps.Redis, cfg.Orders.IdempotencyTTL, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductBrowse(deps.ProductService, logg))
			r.Post("/", controllers.ProductCreate(deps.ProductService, logg))
			r.Get("/mine", controllers.ProductMine(deps.ProductService, logg))
			r.Get("/{productId}", controllers.ProductGet(deps.ProductService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(deps.ProductService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.ProductService, logg))
		})

		// Cart, wishlist, and order creation are registered flat so the
		// route patterns line up with the idempotency rules.
		r.Get("/cart", controllers.CartGet(deps.CartService, logg))
		r.Post("/cart", controllers.CartAdd(deps.CartService, logg))
		r.Delete("/cart", controllers.CartClear(deps.CartService, logg))
		r.Delete("/cart/{productId}", controllers.CartRemove(deps.CartService, logg))

		r.Get("/wishlist", controllers.WishlistGet(deps.WishlistService, logg))
		r.Get("/wishlist/ids", controllers.WishlistIDs(deps.WishlistService, logg))
		r.Post("/wishlist", controllers.WishlistAdd(deps.WishlistService, logg))
		r.Delete("/wishlist/{productId}", controllers.WishlistRemove(deps.WishlistService, logg))

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(deps.AddressService, logg))
			r.Post("/", controllers.AddressCreate(deps.AddressService, logg))
			r.Patch("/{addressId}", controllers.AddressUpdate(deps.AddressService, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(deps.AddressService, logg))
			r.Post("/{addressId}/default", controllers.AddressSetDefault(deps.AddressService, logg))
		})

		r.Post("/orders", controllers.OrderPlace(deps.OrderService, logg))
		r.Get("/orders", controllers.OrderMine(deps.OrderService, logg))
		r.Get("/orders/{orderId}", controllers.OrderGet(deps.OrderService, logg))

		r.Post("/media", controllers.MediaUpload(deps.MediaService, logg))
		r.Delete("/media", controllers.MediaDelete(deps.MediaService, logg))

		r.Route("/admin", func(r chi.Router) {
			// Delivery partners share the workflow transition endpoints;
			// the services enforce which transitions each role may make.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, adminRole, deliveryRole))
				r.Patch("/products/{productId}/status", controllers.AdminProductStatusUpdate(deps.ProductService, logg))
				r.Patch("/orders/{orderId}/delivery-status", controllers.OrderDeliveryStatusUpdate(deps.OrderService, logg))
				r.Get("/orders/{orderId}", controllers.OrderGet(deps.OrderService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(adminRole, logg))
				r.Get("/products", controllers.AdminProductList(deps.ProductService, logg))
				r.Get("/products/unapproved", controllers.AdminUnapprovedProducts(deps.ProductService, logg))
				r.Patch("/products/status", controllers.AdminProductBulkStatus(deps.ProductService, logg))
				r.Get("/orders", controllers.AdminOrderList(deps.OrderService, logg))
				r.Get("/users", controllers.AdminUserList(deps.UsersRepo, logg))

				r.Route("/contacts", func(r chi.Router) {
					r.Get("/", controllers.AdminContactList(deps.ContactService, logg))
					r.Get("/{contactId}", controllers.AdminContactGet(deps.ContactService, logg))
					r.Patch("/{contactId}", controllers.AdminContactUpdate(deps.ContactService, logg))
					r.Post("/{contactId}/respond", controllers.AdminContactRespond(deps.ContactService, logg))
					r.Post("/{contactId}/read", controllers.AdminContactMarkRead(deps.ContactService, logg))
					r.Delete("/{contactId}", controllers.AdminContactDelete(deps.ContactService, logg))
				})
			})
		})
	})

	return r
}
