package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"quiz-builder/internal/app"
	"quiz-builder/internal/config"
	"quiz-builder/internal/infra/memory"
	pgstore "quiz-builder/internal/infra/postgres"
	redisstore "quiz-builder/internal/infra/redis"
	sqlitestore "quiz-builder/internal/infra/sqlite"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// loadConfig reads the config file; the default path may be absent.
func loadConfig(path string) (config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.Load("")
		}
	}
	return config.Load(path)
}

// storage is the set of repositories selected by the config plus whatever
// must be closed on shutdown.
type storage struct {
	docs     app.DocumentRepository
	sessions app.SessionRepository
	closers  []func() error
}

func (s *storage) Close() error {
	var errs error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, s.closers[i]())
	}
	return errs
}

func openStorage(ctx context.Context, cfg config.Config, log *zap.Logger) (*storage, error) {
	st := &storage{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		st.closers = append(st.closers, redisClient.Close)
	}

	var backend app.DocumentRepository
	switch cfg.Storage.Driver {
	case "memory":
		st.docs = memory.NewDocumentRepository()
	case "redis":
		backend = redisstore.NewDocumentRepository(redisClient)
	case "postgres":
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, multierr.Append(err, st.Close())
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("connect postgres: %w", err), st.Close())
		}
		st.closers = append(st.closers, func() error { pool.Close(); return nil })
		backend = pgstore.NewDocumentRepository(pool)
	case "sqlite":
		repo, err := sqlitestore.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, multierr.Append(err, st.Close())
		}
		st.closers = append(st.closers, repo.Close)
		backend = repo
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if backend != nil {
		st.docs = memory.NewCachedRepository(backend, config.TTLDuration(cfg.Storage.CacheTTL, 5*time.Minute))
	}

	if redisClient != nil {
		st.sessions = redisstore.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute), log)
	} else {
		st.sessions = memory.NewSessionStore()
	}
	log.Info("storage ready", zap.String("driver", cfg.Storage.Driver), zap.Bool("redis_sessions", redisClient != nil))
	return st, nil
}
