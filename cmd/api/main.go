package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"campus-preorder/internal/cart"
	"campus-preorder/internal/client"
	"campus-preorder/internal/clock"
	"campus-preorder/internal/config"
	"campus-preorder/internal/guard"
	"campus-preorder/internal/logger"
	"campus-preorder/internal/middleware"
	"campus-preorder/internal/repository"
	"campus-preorder/internal/server"
	"campus-preorder/internal/service"
	"campus-preorder/internal/worker"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, "campus-preorder", cfg.Environment.Name)
	if err := run(cfg, log); err != nil {
		log.Error("service stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if cfg.Auth.JWTSecret == "" && !cfg.Environment.IsDevelopment() {
		return errors.New("AUTH_JWT_SECRET is required outside development")
	}
	if err := cfg.Reconciler.Validate(); err != nil {
		return err
	}

	location, err := cfg.Checkout.Location()
	if err != nil {
		return err
	}
	clk := clock.Real{Location: location}

	db, err := client.InitDBClient(cfg.Database, log)
	if err != nil {
		return err
	}

	var (
		carts       cart.Store
		submitGuard guard.Guard
	)
	if cfg.Redis.Enabled() {
		rdb, err := client.InitRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		carts = cart.NewRedisStore(rdb, cfg.Redis.CartTTL)
		submitGuard = guard.NewRedisGuard(rdb)
	} else {
		log.Warn("REDIS_ADDR not set, carts and submit locks are kept in process")
		carts = cart.NewMemoryStore()
		submitGuard = guard.NewMemoryGuard()
	}

	gateway := client.NewPaymentGateway(cfg.BrainTree, log)

	catalogRepo := repository.NewCatalogRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	orphanRepo := repository.NewOrphanRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	orderService := service.NewOrderService(orderRepo, paymentRepo, orphanRepo, carts, gateway, clk, log)
	catalogService := service.NewCatalogService(catalogRepo, vendorRepo, menuRepo)

	if cfg.Checkout.SeedReferenceData {
		if err := catalogService.SeedReferenceData(ctx); err != nil {
			return err
		}
	}

	srv := server.NewServer(server.Services{
		Catalog:  catalogService,
		Cart:     service.NewCartService(carts, menuRepo, vendorRepo),
		Checkout: service.NewCheckoutService(catalogRepo, vendorRepo, menuRepo, carts, orderService, submitGuard, cfg.Checkout.SubmitLockTTL, clk, log),
		Order:    orderService,
		Vendor:   service.NewVendorService(vendorRepo, menuRepo, orderRepo, log),
		Admin:    service.NewAdminService(vendorRepo, profileRepo, log),
		User:     service.NewUserService(profileRepo),
	}, middleware.AuthConfig{
		Secret:            cfg.Auth.JWTSecret,
		RoleLookupTimeout: cfg.Auth.RoleLookupTimeout,
		Development:       cfg.Environment.IsDevelopment(),
	}, log)

	reconciler := worker.NewReconciler(orderRepo, orphanRepo, cfg.Reconciler.Interval, cfg.Reconciler.BatchSize, log)
	reconcilerDone := make(chan struct{})
	go func() {
		defer close(reconcilerDone)
		reconciler.Run(ctx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", slog.String("addr", cfg.HTTP.Addr()))
		if err := srv.Start(cfg.HTTP.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("signal received, starting graceful shutdown")
	case err := <-serverErr:
		stop()
		<-reconcilerDone
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	<-reconcilerDone
	log.Info("shutdown complete")
	return nil
}
