package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/config"
	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/infra/memory"
	"archetype-quiz-service/internal/infra/postgres"
	infraredis "archetype-quiz-service/internal/infra/redis"
	"archetype-quiz-service/internal/infra/sqlite"
	"archetype-quiz-service/internal/kvstore"
	"archetype-quiz-service/internal/logging"
	transport "archetype-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the archetype service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Log.Level != "" && !verbose && os.Getenv("LOG_LEVEL") == "" {
		l, err := logging.New(cfg.Log.Level, false)
		if err != nil {
			return err
		}
		logger = l
		logging.Install(l)
	}
	if err := content.Validate(); err != nil {
		return fmt.Errorf("content tables: %w", err)
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := cfg.RedisTTL()

	store, closeStore, err := openStore(ctx, cfg, redisClient, redisTTL)
	if err != nil {
		return err
	}
	defer closeStore()

	var registry app.PlayRegistry
	if redisClient != nil {
		registry = infraredis.NewPlayRegistry(redisClient, 10*time.Minute)
	} else {
		registry = memory.NewPlayRegistry()
	}

	svc := app.New(store, app.Options{
		PaymentURLs: map[domain.Product]string{
			domain.ProductReport:  cfg.Payment.ReportURL,
			domain.ProductBrain:   cfg.Payment.BrainURL,
			domain.ProductQuantum: cfg.Payment.QuantumURL,
		},
		ConfirmWait: config.TTLDuration(cfg.Delivery.ConfirmWait, app.DefaultConfirmWait),
	})
	plays := app.NewPlayService(svc, registry)
	wsHandler := transport.NewWSHandler(svc, plays, content.ParseDifficulty(cfg.Game.Difficulty))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(svc, wsHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		zap.L().Info("starting archetype service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		zap.L().Info("shutting down server")
	case <-ctx.Done():
		zap.L().Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openStore picks the first configured backend: postgres, redis, sqlite,
// then memory. Durable SQL backends get a read-through cache in front.
func openStore(ctx context.Context, cfg config.Config, redisClient *redis.Client, redisTTL time.Duration) (kvstore.Store, func(), error) {
	cacheTTL := config.TTLDuration(cfg.Store.CacheTTL, time.Minute)
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		zap.L().Info("using postgres store")
		return memory.NewCachedStore(postgres.NewStore(pool), cacheTTL), pool.Close, nil
	case redisClient != nil:
		zap.L().Info("using redis store", zap.String("addr", cfg.Redis.Addr))
		return infraredis.NewStore(redisClient, redisTTL), func() {}, nil
	case cfg.SQLite.Path != "":
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		zap.L().Info("using sqlite store", zap.String("path", cfg.SQLite.Path))
		return memory.NewCachedStore(db, cacheTTL), func() { _ = db.Close() }, nil
	default:
		zap.L().Warn("no durable store configured, progress lives in memory")
		return memory.NewStore(), func() {}, nil
	}
}
