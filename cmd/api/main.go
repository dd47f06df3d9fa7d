package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sndrush/booking-api/internal/app"
	"github.com/sndrush/booking-api/internal/clock"
	"github.com/sndrush/booking-api/internal/config"
	"github.com/sndrush/booking-api/internal/notify"
	"github.com/sndrush/booking-api/internal/storage/postgres"
	"github.com/sndrush/booking-api/internal/sweep"
	transporthttp "github.com/sndrush/booking-api/internal/transport/http"
	"github.com/sndrush/booking-api/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()
	cfg := config.FromEnv(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	repo := postgres.NewReservationRepository(pool)
	clk := clock.NewSystem()
	notifier := notify.LogSender{Logger: logger}

	var bookingOpts []app.BookingServiceOption
	if cfg.DepositPercent > 0 {
		bookingOpts = append(bookingOpts, app.WithDepositPercent(cfg.DepositPercent))
	}
	if cfg.TokenTTL > 0 {
		bookingOpts = append(bookingOpts, app.WithTokenTTL(cfg.TokenTTL))
	}
	bookingSvc := app.NewBookingService(repo, clk, notifier, bookingOpts...)

	var lifecycleOpts []app.LifecycleServiceOption
	if !cfg.SecurityDeposit.IsZero() {
		lifecycleOpts = append(lifecycleOpts, app.WithSecurityDeposit(cfg.SecurityDeposit))
	}
	lifecycleSvc := app.NewLifecycleService(repo, clk, notifier, lifecycleOpts...)

	var accessOpts []app.AccessServiceOption
	if cfg.TokenTTL > 0 {
		accessOpts = append(accessOpts, app.WithAccessTokenTTL(cfg.TokenTTL))
	}
	accessSvc := app.NewAccessService(repo, clk, accessOpts...)

	handler := transporthttp.NewRouter(transporthttp.RouterConfig{
		Bookings:     bookingSvc,
		Reservations: transporthttp.NewReservationHandlers(accessSvc, lifecycleSvc),
		Payments:     lifecycleSvc,
		Admin:        transporthttp.NewAdminHandlers(repo, lifecycleSvc, accessSvc, lifecycleSvc),
		AdminKey:     cfg.AdminKey,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       logger,
	})

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sweepOpts []sweep.Option
	if cfg.SweepInterval > 0 {
		sweepOpts = append(sweepOpts, sweep.WithInterval(cfg.SweepInterval))
	}
	if cfg.SweepMaxAge > 0 {
		sweepOpts = append(sweepOpts, sweep.WithMaxAge(cfg.SweepMaxAge))
	}
	sweeper := sweep.New(repo, clk, sweepOpts...)
	go func() {
		if err := sweeper.Run(stopCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("sweeper stopped: %v", err)
		}
	}()

	log.Printf("api listening on %s", cfg.ListenAddr)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
