package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/satheeshds/invoicing/cache"
	"github.com/satheeshds/invoicing/config"
	"github.com/satheeshds/invoicing/db"
	"github.com/satheeshds/invoicing/handlers"
	"github.com/satheeshds/invoicing/mongodb"
	"github.com/satheeshds/invoicing/observability"
	"github.com/satheeshds/invoicing/service"
	"github.com/satheeshds/invoicing/store"
	"github.com/satheeshds/invoicing/store/memory"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.AppAddr = addr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address, overrides APP_ADDR")
}

// backend is an opened storage backend.
type backend struct {
	invoices store.InvoiceStore
	pool     store.SerialPool
	close    func()
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		return &backend{invoices: memory.NewInvoices(), pool: memory.NewPool(), close: func() {}}, nil

	case config.BackendMongo:
		database, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		disconnect := func() {
			if err := database.Client().Disconnect(context.Background()); err != nil {
				logger.Warn("mongodb disconnect failed", "error", err)
			}
		}
		if err := mongodb.EnsureIndexes(ctx, database); err != nil {
			disconnect()
			return nil, err
		}
		return &backend{
			invoices: mongodb.NewInvoicesDAO(database),
			pool:     mongodb.NewSerialsDAO(database),
			close:    disconnect,
		}, nil

	default:
		pool, err := db.Open(ctx, cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &backend{
			invoices: db.NewInvoices(pool),
			pool:     db.NewSerialPool(pool),
			close:    pool.Close,
		}, nil
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	defer be.close()

	metrics := observability.NewMetrics()
	opts := []service.Option{service.WithLogger(logger), service.WithMetrics(metrics)}

	statsCache, err := cache.Connect(ctx, cfg.RedisAddr, cfg.StatsCacheTTL)
	if err != nil {
		// The cache is optional; run without it.
		logger.Warn("stats cache unavailable", "addr", cfg.RedisAddr, "error", err)
	}
	if statsCache != nil {
		defer statsCache.Close()
		opts = append(opts, service.WithCache(statsCache))
	}

	svc := service.NewInvoices(be.invoices, be.pool, service.Config{
		StorageTimeout:        cfg.StorageTimeout,
		RecomputeOnFullUpdate: cfg.RecomputeOnFullUpdate,
	}, opts...)

	router := handlers.NewRouter(handlers.NewAPI(svc, logger), metrics, logger, handlers.RouterOptions{
		RequestTimeout:     cfg.AppRequestTimeout,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		SSLRedirect:        cfg.AppSSLRedirect,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "address", cfg.AppAddr, "store", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
