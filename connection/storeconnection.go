package connection

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"

	"todochat/apperr"
	"todochat/config"
	"todochat/repository"
)

// OpenTaskStore returns the repository selected by cfg.Driver. Missing
// credentials fail with a ConfigurationError before any network call; the
// firestore client and the pgx pool both connect lazily.
//
// The returned close function releases the store's connections.
func OpenTaskStore(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (repository.TaskRepository, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("using in-memory task store, tasks are lost on exit")
		return repository.NewMemoryStore(), func() {}, nil
	}

	if cfg.URL == "" {
		return nil, nil, &apperr.ConfigurationError{Message: "Missing STORE_URL environment variable. Please check your .env file."}
	}
	if cfg.Credential == "" {
		return nil, nil, &apperr.ConfigurationError{Message: "Missing STORE_CREDENTIAL environment variable. Please check your .env file."}
	}

	switch cfg.Driver {
	case config.DriverFirestore:
		return openFirestore(ctx, cfg, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, nil, &apperr.ConfigurationError{Message: fmt.Sprintf("unknown store driver %q", cfg.Driver)}
	}
}

func openFirestore(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (repository.TaskRepository, func(), error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.URL}, option.WithCredentialsFile(cfg.Credential))
	if err != nil {
		return nil, nil, &apperr.ConfigurationError{Message: fmt.Sprintf("error initializing firebase app: %v", err)}
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, &apperr.ConfigurationError{Message: fmt.Sprintf("error getting Firestore client: %v", err)}
	}

	store := repository.NewFirestoreStore(client)
	logger.Info("firestore task store ready", "project", cfg.URL)
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing firestore client", "err", err)
		}
	}, nil
}

func openPostgres(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (repository.TaskRepository, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, nil, &apperr.ConfigurationError{Message: fmt.Sprintf("parse STORE_URL: %v", err)}
	}
	poolCfg.ConnConfig.Password = cfg.Credential

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, &apperr.ConfigurationError{Message: fmt.Sprintf("create postgres pool: %v", err)}
	}

	store := repository.NewPostgresStore(pool)
	if cfg.Migrate {
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
	}
	logger.Info("postgres task store ready", "host", poolCfg.ConnConfig.Host, "database", poolCfg.ConnConfig.Database)
	return store, store.Close, nil
}
