// Package app wires configuration, stores, and the HTTP router together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/db"
	httpx "github.com/geocoder89/taskhub/internal/http"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/redisclient"
	"github.com/geocoder89/taskhub/internal/repo/memory"
	"github.com/geocoder89/taskhub/internal/repo/mongodb"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/geocoder89/taskhub/internal/revocation"
	"github.com/geocoder89/taskhub/internal/service"
	"github.com/gin-gonic/gin"
)

const connectAttempts = 5

type App struct {
	Router *gin.Engine
	Health *handlers.HealthHandler

	closers []func(context.Context) error
}

type stores struct {
	users service.UserStore
	tasks service.TaskStore
	ping  handlers.PingFunc
}

// New connects the configured backends and builds the router.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (*App, error) {
	a := &App{}

	st, err := a.openStores(ctx, cfg, log, prom)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	revoked, redisPing, err := a.openRevocation(ctx, cfg, log)
	if err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}

	checks := map[string]handlers.PingFunc{"store": st.ping}
	if redisPing != nil {
		checks["redis"] = redisPing
	}
	a.Health = handlers.NewHealthHandler(checks)

	a.Router = httpx.NewRouter(log, httpx.Deps{
		Config:   cfg,
		Accounts: service.NewAccounts(st.users),
		Tasks:    service.NewTasks(st.tasks),
		Tokens:   auth.NewManager(cfg.JWTSecret, cfg.JWTTTL),
		Revoked:  revoked,
		Prom:     prom,
		Health:   a.Health,
	})

	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return stores{
			users: memory.NewUsersRepo(),
			tasks: memory.NewTasksRepo(),
		}, nil

	case config.DriverMongo:
		var client *mongodb.Client
		err := retry(ctx, log, "mongo", connectAttempts, func(ctx context.Context) error {
			var e error
			client, e = mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
			return e
		})
		if err != nil {
			return stores{}, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, client.Close)

		if err := mongodb.EnsureIndexes(ctx, client.Database()); err != nil {
			return stores{}, fmt.Errorf("ensure mongo indexes: %w", err)
		}

		return stores{
			users: mongodb.NewUsersRepo(client.Database(), prom),
			tasks: mongodb.NewTasksRepo(client.Database(), prom),
			ping:  client.Ping,
		}, nil

	case config.DriverPostgres:
		var pool postgres.PgxPool
		err := retry(ctx, log, "postgres", connectAttempts, func(ctx context.Context) error {
			p, e := db.NewPool(ctx, cfg.DBURL)
			if e != nil {
				return e
			}
			pool = p
			return nil
		})
		if err != nil {
			return stores{}, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error {
			pool.Close()
			return nil
		})

		return stores{
			users: postgres.NewUsersRepo(pool, prom),
			tasks: postgres.NewTasksRepo(pool, prom),
			ping:  pool.Ping,
		}, nil
	}

	return stores{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func (a *App) openRevocation(ctx context.Context, cfg config.Config, log *slog.Logger) (revocation.Store, handlers.PingFunc, error) {
	if cfg.RedisAddr == "" {
		if cfg.Env == "prod" {
			log.Warn("REDIS_ADDR not set; revoked tokens are only tracked by this process")
		}
		return revocation.NewMemoryStore(), nil, nil
	}

	rc := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	a.closers = append(a.closers, func(context.Context) error { return rc.Close() })

	if err := retry(ctx, log, "redis", connectAttempts, rc.Ping); err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	return revocation.NewRedisStore(rc.Raw(), "taskhub"), rc.Ping, nil
}

// Close releases backend connections in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errList []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errList = append(errList, err)
		}
	}
	a.closers = nil
	return errors.Join(errList...)
}

// Migrate prepares the configured store's schema.
func Migrate(ctx context.Context, cfg config.Config) error {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return db.Migrate(ctx, cfg.DBURL)

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close(context.Background()) }()

		return mongodb.EnsureIndexes(ctx, client.Database())

	case config.DriverMemory:
		return nil
	}

	return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
