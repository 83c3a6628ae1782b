// Package sqlite stores messages in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/and161185/motd/internal/model"
	"github.com/and161185/motd/internal/repository"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// MessageRepo implements MessageRepository using SQLite.
type MessageRepo struct {
	db        *sql.DB
	writeLock *sync.Mutex // sqlite allows a single writer at a time
}

var _ repository.MessageRepository = (*MessageRepo)(nil)

// connPragmas must reach every pooled connection, so they travel in the DSN.
var connPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// DSN turns a file path into a modernc DSN carrying connPragmas.
func DSN(path string) string {
	q := make([]string, 0, len(connPragmas))
	for _, p := range connPragmas {
		q = append(q, "_pragma="+p)
	}
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(q, "&")
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// Open opens (or creates) the database file at path. The schema is applied
// separately by the migrate package.
// An in-memory database exists per connection, so the pool is pinned to one.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if isMemory(path) {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// NewMessageRepo wraps an open database handle.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db, writeLock: new(sync.Mutex)}
}

// Append inserts a row. AUTOINCREMENT keeps ids from being reused after deletes
// or rolled back inserts.
func (r *MessageRepo) Append(ctx context.Context, text, creator string) (model.Message, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO motd (text, creator, created_at) VALUES (?, ?, ?)",
		text, creator, now.UnixMicro(),
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("insert motd: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, fmt.Errorf("last insert id: %w", err)
	}
	return model.Message{
		ID:        id,
		Text:      text,
		Creator:   creator,
		CreatedAt: time.UnixMicro(now.UnixMicro()).UTC(),
	}, nil
}

// ScanAll returns all messages ordered by id.
func (r *MessageRepo) ScanAll(ctx context.Context) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, text, creator, created_at FROM motd ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("select motd: %w", err)
	}
	defer rows.Close()

	out := []model.Message{}
	for rows.Next() {
		var (
			m  model.Message
			us int64
		)
		if err := rows.Scan(&m.ID, &m.Text, &m.Creator, &us); err != nil {
			return nil, fmt.Errorf("scan motd: %w", err)
		}
		m.CreatedAt = time.UnixMicro(us).UTC()
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate motd: %w", err)
	}
	return out, nil
}

// Close closes the database handle.
func (r *MessageRepo) Close() error {
	return r.db.Close()
}
