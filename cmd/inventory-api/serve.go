package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sirpyerre/inventory-api/internal/api"
	"github.com/sirpyerre/inventory-api/internal/core/ports"
	"github.com/sirpyerre/inventory-api/internal/core/service"
	"github.com/sirpyerre/inventory-api/internal/infrastructure/db/memory"
	mongodb "github.com/sirpyerre/inventory-api/internal/infrastructure/db/mongo"
	"github.com/sirpyerre/inventory-api/internal/infrastructure/db/postgres"
	redisdb "github.com/sirpyerre/inventory-api/internal/infrastructure/db/redis"
	inhttp "github.com/sirpyerre/inventory-api/internal/infrastructure/http"
	"github.com/sirpyerre/inventory-api/internal/infrastructure/http/handlers"
	"github.com/sirpyerre/inventory-api/internal/infrastructure/queue"
	"github.com/sirpyerre/inventory-api/internal/pkg/config"
	"github.com/sirpyerre/inventory-api/pkg/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// stores bundles the repositories selected by STORE_DRIVER.
type stores struct {
	accounts ports.AccountRepository
	items    ports.ItemRepository
	pingers  map[string]handlers.Pinger
	closers  []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "inventory-api",
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		idem = redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		st.pingers["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	} else {
		log.Info().Msg("REDIS_ADDR not set, Idempotency-Key header is ignored")
	}

	method, err := service.SigningMethodByName(cfg.Auth.SigningMethod)
	if err != nil {
		return err
	}
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL,
		service.WithSigningMethod(method),
		service.WithIssuer(cfg.Auth.Issuer),
	)

	// The pool outlives the HTTP server so in-flight logins can finish
	// during graceful shutdown.
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool := queue.NewHashPool(cfg.Auth.HashWorkers, service.NewBcryptHasher(cfg.Auth.BcryptCost), logger.Component("hash_pool"))
	pool.Start(poolCtx)

	authSvc := service.NewAuthService(st.accounts, pool, tokens, logger.Component("auth"))
	if err := authSvc.Prime(ctx); err != nil {
		return fmt.Errorf("prime auth service: %w", err)
	}
	itemSvc := service.NewItemService(st.items, idem, logger.Component("items"))

	e := api.NewRouter(api.Dependencies{
		Auth:        authSvc,
		Items:       itemSvc,
		Tokens:      tokens,
		Readiness:   st.pingers,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger.Component("http"),
	})
	srv := inhttp.NewServer(e, ":"+cfg.Port, cfg.ShutdownTimeout, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stopPool()
		return srv.Run(gctx)
	})
	g.Go(func() error {
		pool.Wait()
		return nil
	})

	log.Info().
		Str("env", cfg.Env).
		Str("store", cfg.StoreDriver).
		Str("signing_method", cfg.Auth.SigningMethod).
		Msg("inventory api starting")

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{pingers: map[string]handlers.Pinger{}}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = db.Close() })
		st.accounts = postgres.NewAccountRepository(db)
		st.items = postgres.NewItemRepository(db)
		st.pingers["postgres"] = pingerFromDB(db)

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Disconnect(context.Background()) })
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			st.close()
			return nil, err
		}
		st.accounts = mongodb.NewAccountRepository(db)
		st.items = mongodb.NewItemRepository(db)
		st.pingers["mongodb"] = handlers.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		})

	case config.DriverMemory:
		mem := memory.NewStore()
		st.accounts = mem.Accounts()
		st.items = mem.Items()
		log.Warn().Msg("using in-memory store, data is lost on restart")
	}

	log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")
	return st, nil
}

func pingerFromDB(db *sql.DB) handlers.Pinger {
	return handlers.PingFunc(db.PingContext)
}
