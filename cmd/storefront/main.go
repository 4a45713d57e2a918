package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tiendamasiva/storefront-service/internal/config"
	"github.com/tiendamasiva/storefront-service/internal/events"
	"github.com/tiendamasiva/storefront-service/internal/handlers"
	"github.com/tiendamasiva/storefront-service/internal/metrics"
	"github.com/tiendamasiva/storefront-service/internal/repository"
	"github.com/tiendamasiva/storefront-service/internal/server"
	"github.com/tiendamasiva/storefront-service/internal/service"
	"github.com/tiendamasiva/storefront-service/internal/session"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	log.SetFormatter(&log.JSONFormatter{})
	logger := log.WithField("service", "storefront-service")

	logger.WithField("port", cfg.Server.Port).Info("starting storefront-service")

	db, err := initDatabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	if err := repository.RunMigrations(db); err != nil {
		logger.WithError(err).Fatal("migrations failed")
	}

	productRepo := repository.NewPostgresProductRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)
	orderRepo := repository.NewPostgresOrderRepository(db)

	sessions := session.NewRedisStore(cfg.Redis, cfg.Session.TTL)
	defer sessions.Close()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka)
	}
	defer publisher.Close()

	checkoutMetrics := metrics.NewCheckoutMetrics()

	catalogService := service.NewCatalogService(productRepo, cfg)
	cartService := service.NewCartService(productRepo)
	couponEngine := service.NewCouponEngine(cfg.Discounts)
	checkoutService := service.NewCheckoutService(productRepo, orderRepo, cartService, publisher, checkoutMetrics, cfg)
	accountService := service.NewAccountService(userRepo)
	orderQueryService := service.NewOrderQueryService(orderRepo)
	dashboardService := service.NewDashboardService(userRepo, orderRepo)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := accountService.EnsureAdmin(bootCtx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminPassword); err != nil {
		logger.WithError(err).Fatal("admin bootstrap failed")
	}
	bootCancel()

	h := handlers.NewHandlers(
		catalogService,
		cartService,
		couponEngine,
		checkoutService,
		accountService,
		orderQueryService,
		dashboardService,
		sessions,
		cfg,
	)
	h.AddReadiness("postgres", handlers.PingerFunc(db.PingContext))
	h.AddReadiness("redis", sessions)

	srv := server.New(h, cfg)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}

	logger.Info("server exited")
}

func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	}).Info("database connected")

	return db, nil
}
