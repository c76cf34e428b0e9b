// Package store opens the website store named by the configured database URL.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/homescreen/homescreen/internal/config"
	"github.com/homescreen/homescreen/internal/domain"
	"github.com/homescreen/homescreen/internal/logger"
	redisconn "github.com/homescreen/homescreen/internal/redis"
	"github.com/homescreen/homescreen/internal/store/memory"
	redisstore "github.com/homescreen/homescreen/internal/store/redis"
	"github.com/homescreen/homescreen/internal/store/sqlstore"
)

// Handle is a website store the application owns: it can be probed and closed.
type Handle interface {
	domain.WebsiteStore
	Ping(ctx context.Context) error
	Close() error
}

// Backend identifies a storage implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendMySQL  Backend = "mysql"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// ParseBackend returns the backend selected by the scheme of rawURL.
func ParseBackend(rawURL string) (Backend, error) {
	scheme, _, ok := strings.Cut(rawURL, "://")
	if !ok {
		return "", fmt.Errorf("database_url %q has no scheme", config.RedactURL(rawURL))
	}
	switch strings.ToLower(scheme) {
	case "sqlite", "sqlite3":
		return BackendSQLite, nil
	case "mysql":
		return BackendMySQL, nil
	case "redis", "rediss":
		return BackendRedis, nil
	case "memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unsupported database_url scheme %q", scheme)
	}
}

// sqlitePath extracts the file path from sqlite://<path>.
func sqlitePath(rawURL string) string {
	_, path, _ := strings.Cut(rawURL, "://")
	return path
}

// Open connects to the configured backend. SQL backends are migrated
// before the handle is returned.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Handle, error) {
	backend, err := ParseBackend(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log = log.Named("store")
	log.Info("opening website store", logger.String("backend", string(backend)))

	switch backend {
	case BackendSQLite:
		db, err := sqlstore.OpenSQLite(sqlitePath(cfg.DatabaseURL))
		if err != nil {
			return nil, err
		}
		if err := sqlstore.Migrate(db, sqlstore.DialectSQLite, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlstore.New(db, sqlstore.DialectSQLite), nil

	case BackendMySQL:
		db, err := sqlstore.OpenMySQL(cfg.DatabaseURL, sqlstore.PoolOptions{
			MaxOpenConns:    cfg.SQL.MaxOpenConns,
			ConnMaxLifetime: cfg.SQL.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := sqlstore.Migrate(db, sqlstore.DialectMySQL, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlstore.New(db, sqlstore.DialectMySQL), nil

	case BackendRedis:
		client, err := redisconn.New(ctx, redisconn.OptionsFromConfig(cfg.DatabaseURL, cfg.Redis), log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client, redisstore.DefaultKeyPrefix), nil

	default:
		log.Warn("using in-memory store, websites are lost on restart")
		return memory.New(), nil
	}
}

// Migrate brings the schema of a SQL backend up to date. Other backends
// have no schema and are left untouched.
func Migrate(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	backend, err := ParseBackend(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if backend != BackendSQLite && backend != BackendMySQL {
		log.Info("backend has no schema, nothing to migrate", logger.String("backend", string(backend)))
		return nil
	}

	h, err := Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	return h.Close()
}
