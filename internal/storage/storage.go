// Package storage opens the configured message backend and brings its schema up to date.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/and161185/motd/internal/config"
	"github.com/and161185/motd/internal/migrate"
	"github.com/and161185/motd/internal/repository"
	badgerrepo "github.com/and161185/motd/internal/repository/badger"
	"github.com/and161185/motd/internal/repository/postgres"
	"github.com/and161185/motd/internal/repository/sqlite"
)

// Open returns a ready MessageRepository for cfg.Store. The caller owns it
// and must Close it.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.MessageRepository, error) {
	log = log.With(zap.String("store", cfg.Store))

	switch cfg.Store {
	case config.StorePostgres:
		if err := migratePostgres(ctx, cfg.DSN, log); err != nil {
			return nil, err
		}
		db, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("postgres pool: %w", err)
		}
		return postgres.NewMessageRepo(db), nil

	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		n, err := migrate.Up(ctx, db, migrate.SQLite)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("migrations applied", zap.Int("count", n), zap.String("path", cfg.DSN))
		return sqlite.NewMessageRepo(db), nil

	case config.StoreBadger:
		r, err := badgerrepo.Open(cfg.DSN, log)
		if err != nil {
			return nil, err
		}
		if cfg.DSN == "" {
			log.Warn("badger running in memory; messages are lost on exit")
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func migratePostgres(ctx context.Context, dsn string, log *zap.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := migrate.Up(ctx, db, migrate.Postgres)
	if err != nil {
		return err
	}
	log.Info("migrations applied", zap.Int("count", n))
	return nil
}
