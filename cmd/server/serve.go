package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/cinebook/internal/catalog"
	"github.com/iliyamo/cinebook/internal/config"
	"github.com/iliyamo/cinebook/internal/database"
	"github.com/iliyamo/cinebook/internal/handler"
	"github.com/iliyamo/cinebook/internal/middleware"
	"github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/router"
	"github.com/iliyamo/cinebook/internal/service"
)

var withConsumer bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&withConsumer, "with-consumer", false,
		"also run the booking.confirmed consumer in this process")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", "showtimes", cat.Len(), "locations", len(cat.Locations()))

	// Redis also backs the limiter and the cache; without it they pass through.
	rdb, err := config.NewRedisClient(cfg.Redis)
	if err != nil {
		if cfg.StoreDriver == config.StoreRedis {
			return err
		}
		logger.Warn("redis unavailable; rate limit and cache disabled", "error", err)
	}

	store, err := openStore(ctx, cfg, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return err
	}
	defer store.Close()
	if rdb != nil && cfg.StoreDriver != config.StoreRedis {
		defer rdb.Close()
	}

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		amqpPub := service.NewAMQPPublisher(cfg.RabbitURL)
		defer amqpPub.Close()
		publisher = amqpPub
	}

	svc := service.NewBookingService(cat, store, service.Options{
		SeedFraction: cfg.SeedFraction,
		Publisher:    publisher,
		Logger:       logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterStatic(e, cfg.StaticDir)
	router.RegisterCatalog(e, handler.NewCatalogHandler(cat), middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterBooking(e, handler.NewBookingHandler(svc), middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	if cfg.AdminEnabled() {
		router.RegisterAuth(e, handler.NewAuthHandler(cfg), handler.NewAdminHandler(svc), cfg.JWTSecret)
	} else {
		logger.Info("operator routes disabled; set JWT_SECRET and ADMIN_PASSWORD_HASH to enable")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if withConsumer {
		g.Go(func() error { return runConsumer(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadCatalog(c config.Config) (*catalog.Catalog, error) {
	if c.CatalogFile != "" {
		return catalog.Load(c.CatalogFile)
	}
	return catalog.Default()
}

// openStore builds the availability store selected by STORE_DRIVER.
func openStore(ctx context.Context, c config.Config, rdb *redis.Client) (repository.AvailabilityStore, error) {
	switch c.StoreDriver {
	case config.StoreRedis:
		return repository.NewRedisAvailability(rdb), nil
	case config.StoreMySQL:
		db, err := database.Open(c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return repository.NewMySQLAvailability(db), nil
	case config.StoreMemory:
		logger.Warn("memory store selected; bookings are lost on restart")
		return repository.NewMemoryAvailability(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
}

// runConsumer appends confirmed bookings to the booking log until ctx ends.
func runConsumer(ctx context.Context) error {
	bl := queue.NewBookingLog(cfg.BookingLogPath)
	logger.Info("booking consumer started", "queue", queue.BookingQueueName, "log", bl.Path())
	err := queue.NewConsumer(cfg.RabbitURL, bl.HandleMessage, logger).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
