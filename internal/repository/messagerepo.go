// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/motd/internal/model"
)

// MessageRepository is an append-only message table.
// Implementations must be safe for concurrent use and must never reuse an id.
type MessageRepository interface {
	// Append durably stores a message and returns it with id and createdAt set.
	Append(ctx context.Context, text, creator string) (model.Message, error)
	// ScanAll returns every stored message in ascending id order.
	ScanAll(ctx context.Context) ([]model.Message, error)
	// Close releases the backend handle.
	Close() error
}
