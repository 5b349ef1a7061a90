// @title           Accounts API
// @version         1.0
// @description     Account registration, session tokens and role-gated catalog access.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/storefront/accounts-api/internal/api"
	"github.com/storefront/accounts-api/internal/api/handler"
	"github.com/storefront/accounts-api/internal/core/domain"
	"github.com/storefront/accounts-api/internal/core/ports"
	"github.com/storefront/accounts-api/internal/core/security"
	"github.com/storefront/accounts-api/internal/core/service"
	"github.com/storefront/accounts-api/internal/infrastructure/config"
	"github.com/storefront/accounts-api/internal/infrastructure/db/memory"
	mongodb "github.com/storefront/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/storefront/accounts-api/internal/infrastructure/db/redis"
	"github.com/storefront/accounts-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "accounts-api: %v\n", err)
		os.Exit(1)
	}
}

// stores groups the persistence adapters selected by STORE_DRIVER.
type stores struct {
	credentials ports.CredentialStore
	products    ports.ProductRepository
	locker      ports.Locker
	checks      map[string]handler.DependencyCheck
	close       func(context.Context)
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts-api",
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(context.WithoutCancel(ctx))

	hasher, err := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return err
	}

	registry := service.NewRoleRegistry(st.credentials, logger.Component("roles"))
	bootstrapper := service.NewBootstrapper(registry, st.credentials, hasher, st.locker, seedAccounts(cfg.Seed), logger.Component("bootstrap"))
	if err := bootstrapper.Run(ctx); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Auth:     service.NewAuthService(st.credentials, hasher, tokens, logger.Component("auth")),
		Accounts: service.NewAccountService(st.credentials),
		Products: service.NewProductService(st.products, logger.Component("products")),
		Checks:   st.checks,
		Log:      logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return &stores{
			credentials: memory.NewCredentialStore(),
			products:    memory.NewProductStore(),
			checks:      map[string]handler.DependencyCheck{},
			close:       func(context.Context) {},
		}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	accounts := mongodb.NewAccountRepository(db)
	products := mongodb.NewProductRepository(db)
	if err := mongodb.EnsureIndexes(ctx, accounts, products); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	st := &stores{
		credentials: accounts,
		products:    products,
		checks:      map[string]handler.DependencyCheck{"mongodb": mongodb.Ping(db)},
	}

	var rdb *goredis.Client
	if cfg.Redis.Enabled && cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		st.locker = redisdb.NewLocker(rdb)
		st.checks["redis"] = redisdb.Ping(rdb)
	}

	st.close = func(ctx context.Context) {
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
		}
		if err := client.Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}
	return st, nil
}

func seedAccounts(cfg config.SeedConfig) []service.SeedAccount {
	if !cfg.DefaultAccounts {
		return nil
	}
	return []service.SeedAccount{
		{Username: cfg.AdminUsername, Email: cfg.AdminEmail, Password: cfg.AdminPassword, Role: domain.RoleAdmin},
		{Username: cfg.UserUsername, Email: cfg.UserEmail, Password: cfg.UserPassword, Role: domain.RoleUser},
	}
}
