// Package badger stores messages in an embedded badger key-value store.
package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/and161185/motd/internal/convert"
	"github.com/and161185/motd/internal/model"
	"github.com/and161185/motd/internal/repository"
)

const (
	msgPrefix = "motd:"
	seqKey    = "seq:motd"
	// ids leased from the sequence per disk write; unused leases are skipped
	// after a restart, never handed out twice.
	seqBandwidth = 100
)

// MessageRepo implements MessageRepository on badger.
// Keys are "motd:{id padded to 20 digits}" so a prefix scan yields id order.
type MessageRepo struct {
	db  *badger.DB
	seq *badger.Sequence
	log *zap.Logger
}

var _ repository.MessageRepository = (*MessageRepo)(nil)

// Open opens the store in dir. An empty dir opens an in-memory store.
func Open(dir string, log *zap.Logger) (*MessageRepo, error) {
	opts := badger.DefaultOptions(dir).WithLogger(NewLogger(log))
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	r, err := NewMessageRepo(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// NewMessageRepo wraps an open badger DB. The repo takes ownership of db.
func NewMessageRepo(db *badger.DB, log *zap.Logger) (*MessageRepo, error) {
	seq, err := db.GetSequence([]byte(seqKey), seqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	return &MessageRepo{db: db, seq: seq, log: log}, nil
}

func key(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", msgPrefix, id))
}

// Append stores a new message under the next sequence id.
func (r *MessageRepo) Append(ctx context.Context, text, creator string) (model.Message, error) {
	if err := ctx.Err(); err != nil {
		return model.Message{}, err
	}
	n, err := r.seq.Next()
	if err != nil {
		return model.Message{}, fmt.Errorf("next id: %w", err)
	}
	m := model.Message{
		ID:        int64(n) + 1, // sequences start at 0
		Text:      text,
		Creator:   creator,
		CreatedAt: time.Now().UTC(),
	}
	val, err := convert.MarshalMessage(m)
	if err != nil {
		return model.Message{}, err
	}
	if err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(m.ID), val)
	}); err != nil {
		return model.Message{}, fmt.Errorf("store message: %w", err)
	}
	return m, nil
}

// ScanAll returns every stored message in id order.
func (r *MessageRepo) ScanAll(ctx context.Context) ([]model.Message, error) {
	out := []model.Message{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(msgPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			err := item.Value(func(v []byte) error {
				m, err := convert.UnmarshalMessage(v)
				if err != nil {
					return fmt.Errorf("decode %s: %w", item.Key(), err)
				}
				out = append(out, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases unused sequence ids and closes the DB.
func (r *MessageRepo) Close() error {
	if err := r.seq.Release(); err != nil {
		r.log.Warn("release sequence", zap.Error(err))
	}
	return r.db.Close()
}
