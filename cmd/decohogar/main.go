package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"decohogar/internal/auth"
	"decohogar/internal/cache"
	"decohogar/internal/config"
	"decohogar/internal/http/handlers"
	applog "decohogar/internal/log"
	"decohogar/internal/repos"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lg, err := applog.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	applog.Set(lg)
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, lg, cfg); err != nil {
		lg.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, lg *zap.Logger, cfg *config.Config) error {
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	store := repos.NewStore(db)

	if cfg.Seed {
		seeded, err := repos.SeedCatalog(ctx, store)
		if err != nil {
			return err
		}
		lg.Info("catalog seed", zap.Bool("inserted", seeded))
	}

	var carts cache.CartCache = cache.Nop{}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = client.Close() }()
		rc := cache.NewRedisCache(client, cfg.Redis.TTL)
		if err := rc.Ping(ctx); err != nil {
			// The cache is optional; carts are read from SQLite until Redis answers.
			lg.Warn("redis unavailable, cart cache degraded", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		carts = rc
	}

	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	deps := handlers.NewDeps(store, auth.NewHasher(cfg.Hash.Iterations), tokens, carts)
	app := handlers.NewApp(deps, handlers.AppConfig{
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RateLimit:    handlers.Limit{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window},
		LoginLimit:   handlers.Limit{Max: cfg.LoginLimit.Max, Window: cfg.LoginLimit.Window},
	})

	errc := make(chan error, 1)
	go func() {
		lg.Info("listening", zap.String("addr", cfg.Addr))
		errc <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}
	lg.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
