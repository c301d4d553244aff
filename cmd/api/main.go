package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kidcycle/kidcycle-backend/api/controllers"
	"github.com/kidcycle/kidcycle-backend/api/routes"
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
	"github.com/kidcycle/kidcycle-backend/pkg/db"
	"github.com/kidcycle/kidcycle-backend/pkg/logger"
	"github.com/kidcycle/kidcycle-backend/pkg/metrics"
	"github.com/kidcycle/kidcycle-backend/pkg/migrate"
	"github.com/kidcycle/kidcycle-backend/pkg/redis"
	"github.com/kidcycle/kidcycle-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(context.Background(), "bucket", gcsClient.DefaultBucket()), "gcs storage ready")

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		Users:          usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	exitOnError(logg, "failed to create auth service", err)

	productService, err := product.NewService(product.ServiceParams{
		Repo:  productRepo,
		Users: usersRepo,
	})
	exitOnError(logg, "failed to create product service", err)

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:  orders.NewRepository(dbClient.DB()),
		Tx:    dbClient,
		Users: usersRepo,
	})
	exitOnError(logg, "failed to create order service", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cart.NewRepository(dbClient.DB()),
		ProductRepo: productRepo,
	})
	exitOnError(logg, "failed to create cart service", err)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(dbClient.DB()),
		ProductRepo:  productRepo,
	})
	exitOnError(logg, "failed to create wishlist service", err)

	addressService, err := address.NewService(address.ServiceParams{
		Repo: address.NewRepository(dbClient.DB()),
	})
	exitOnError(logg, "failed to create address service", err)

	contactService, err := contacts.NewService(contacts.ServiceParams{
		Repo: contacts.NewRepository(dbClient.DB()),
	})
	exitOnError(logg, "failed to create contact service", err)

	mediaService, err := media.NewService(media.ServiceParams{
		Store:  gcsClient.BucketHandle(""),
		Config: cfg.Media,
	})
	exitOnError(logg, "failed to create media service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		Redis:          redisClient,
		SessionChecker: sessionManager,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		HealthChecks: map[string]controllers.Pinger{
			"db":    dbClient,
			"redis": redisClient,
			"gcs":   gcsClient,
		},

		AuthService:     authService,
		ProductService:  productService,
		OrderService:    orderService,
		CartService:     cartService,
		WishlistService: wishlistService,
		AddressService:  addressService,
		ContactService:  contactService,
		MediaService:    mediaService,
		UsersRepo:       usersRepo,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOnError(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
