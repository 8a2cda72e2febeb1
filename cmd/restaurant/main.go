package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Skotchmaster/restaurant/internal/config"
	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/httpserver"
	"github.com/Skotchmaster/restaurant/internal/receipt"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/search"
	"github.com/Skotchmaster/restaurant/internal/service"
	pkgdb "github.com/Skotchmaster/restaurant/pkg/db"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/metrics"
	loggingmw "github.com/Skotchmaster/restaurant/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("notice: .env not loaded: %v", err)
	}

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Environment, cfg.ServiceName)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		logger.Fatalw("db_open_failed", "driver", cfg.DBDriver, "error", err)
	}

	r := repo.New(db)
	if err := r.Migrate(ctx); err != nil {
		cancel()
		logger.Fatalw("db_migrate_failed", "error", err)
	}
	cancel()

	publisher := newPublisher(cfg, logger)
	defer func() { _ = publisher.Close() }()

	store, err := newReceiptStore(cfg)
	if err != nil {
		logger.Fatalw("receipt_store_failed", "error", err)
	}

	users := &service.UserService{
		Repo:             r,
		Events:           publisher,
		AccessSecret:     cfg.JWTAccessSecret,
		RefreshSecret:    cfg.JWTRefreshSecret,
		AccessTTL:        cfg.AccessTokenTTL,
		RefreshTTL:       cfg.RefreshTokenTTL,
		AllowAdminSignup: cfg.AllowAdminSignup,
	}
	if cfg.AdminEmail != "" {
		if err := users.EnsureAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatalw("bootstrap_admin_failed", "email", cfg.AdminEmail, "error", err)
		}
	}

	menu := &service.MenuService{Repo: r}
	if ix := newMenuIndex(cfg, logger); ix != nil {
		menu.Index = ix
		reindexCtx, reindexCancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), time.Minute)
		if _, err := menu.Reindex(reindexCtx); err != nil {
			logger.Warnw("menu_reindex_failed", "index", cfg.ESIndex, "error", err)
		}
		reindexCancel()
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metrics.NewHTTPMetrics(cfg.ServiceName).Middleware())
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
		}))
	} else {
		e.Use(echomw.CORS())
	}

	httpserver.Register(e, &httpserver.Deps{
		Users:    &httpserver.UserHTTP{Svc: users},
		Bookings: &httpserver.BookingHTTP{Svc: &service.BookingService{Repo: r, Events: publisher, MaxPerUser: cfg.MaxBookingsPerUser}},
		Tables:   &httpserver.TableHTTP{Svc: &service.TableService{Repo: r}},
		Menu:     &httpserver.MenuHTTP{Svc: menu},
		Orders: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:     r,
			Events:   publisher,
			Renderer: receipt.Renderer{Compress: true},
			Store:    store,
		}},
		JWTSecret: cfg.JWTAccessSecret,
		Refresher: users,
		Ready:     r.Ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Infow("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("listen_failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("shutdown_failed", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Infow("server_stopped")
}

func newPublisher(cfg *config.Config, logger *zap.SugaredLogger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Infow("kafka_disabled", "reason", "KAFKA_BROKERS not set")
		return events.Nop{}
	}
	logger.Infow("kafka_enabled", "brokers", cfg.KafkaBrokers)
	return events.NewProducer(cfg.KafkaBrokers)
}

func newReceiptStore(cfg *config.Config) (receipt.Store, error) {
	if cfg.ReceiptsS3Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return receipt.NewS3StoreFromEnv(ctx, cfg.ReceiptsS3Bucket, cfg.ReceiptsS3Prefix)
	}
	return receipt.NewFileStore(cfg.ReceiptsDir)
}

// newMenuIndex returns nil when search is not configured or unreachable; menu search then uses the database.
func newMenuIndex(cfg *config.Config, logger *zap.SugaredLogger) *search.Index {
	if cfg.ESURL == "" {
		return nil
	}
	client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword, nil)
	if err != nil {
		logger.Warnw("elasticsearch_unavailable", "url", cfg.ESURL, "error", err)
		return nil
	}
	ix := &search.Index{ES: client, Name: cfg.ESIndex}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ix.EnsureIndex(ctx); err != nil {
		logger.Warnw("elasticsearch_index_failed", "index", cfg.ESIndex, "error", err)
		return nil
	}
	return ix
}
