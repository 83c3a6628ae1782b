package postgres

import (
	"context"
	"time"

	"github.com/and161185/motd/internal/model"
	"github.com/and161185/motd/internal/repository"
)

// MessageRepo implements MessageRepository using PostgreSQL.
type MessageRepo struct{ db *DB }

var _ repository.MessageRepository = (*MessageRepo)(nil)

// NewMessageRepo constructs a message repository.
func NewMessageRepo(db *DB) *MessageRepo { return &MessageRepo{db: db} }

// Append inserts a row; id comes from an identity column and is never reused,
// even when the surrounding statement fails.
func (r *MessageRepo) Append(ctx context.Context, text, creator string) (model.Message, error) {
	const q = `INSERT INTO motd (text, creator) VALUES ($1, $2) RETURNING id, created_at`
	m := model.Message{Text: text, Creator: creator}
	var ts time.Time
	if err := r.db.Pool.QueryRow(ctx, q, text, creator).Scan(&m.ID, &ts); err != nil {
		return model.Message{}, err
	}
	m.CreatedAt = ts.UTC()
	return m, nil
}

// ScanAll returns all messages ordered by id.
func (r *MessageRepo) ScanAll(ctx context.Context) ([]model.Message, error) {
	const q = `
SELECT id, text, creator, created_at
FROM motd
ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err = rows.Scan(&m.ID, &m.Text, &m.Creator, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.CreatedAt = m.CreatedAt.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// Close closes the pool.
func (r *MessageRepo) Close() error {
	r.db.Close()
	return nil
}
