package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/anikpatel-dev/vyapaar-backend/api/routes"
	"github.com/anikpatel-dev/vyapaar-backend/internal/businesses"
	"github.com/anikpatel-dev/vyapaar-backend/internal/customers"
	"github.com/anikpatel-dev/vyapaar-backend/internal/links"
	"github.com/anikpatel-dev/vyapaar-backend/internal/notifications"
	"github.com/anikpatel-dev/vyapaar-backend/internal/orders"
	"github.com/anikpatel-dev/vyapaar-backend/internal/ownership"
	"github.com/anikpatel-dev/vyapaar-backend/internal/products"
	"github.com/anikpatel-dev/vyapaar-backend/internal/users"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/authgate"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/db"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/mailer"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/metrics"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/migrate"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/redis"
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

	authGate, err := authgate.NewClient(cfg.AuthService)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth gate", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	guard := ownership.NewGuard(gormDB)

	usersService, err := users.NewService(users.NewRepository(gormDB), cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	businessesService, err := businesses.NewService(businesses.NewRepository(gormDB), guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create businesses service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.NewRepository(gormDB), guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(gormDB, cfg.OrderPolicy, mailer.New(cfg.Mail, logg), notificationsService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(customers.NewRepository(gormDB), guard)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	linksService, err := links.NewService(links.NewRepository(gormDB), guard, cfg.Links)
	if err != nil {
		logg.Error(context.Background(), "failed to create links service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			AuthGate:      authGate,
			HTTPMetrics:   httpMetrics,
			Users:         usersService,
			Businesses:    businessesService,
			Products:      productsService,
			Orders:        ordersService,
			Customers:     customersService,
			Links:         linksService,
			Notifications: notificationsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
