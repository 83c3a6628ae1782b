// Package requestid generates and validates per-request correlation ids.
package requestid

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

const (
	// Header is the HTTP header carrying the id.
	Header = "X-Request-Id"
	// MetadataKey is the gRPC metadata key carrying the id.
	MetadataKey = "x-request-id"

	maxLen = 128
)

type ctxKey struct{}

// New returns a fresh time-ordered id.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Must(uuid.NewV4()).String()
	}
	return id.String()
}

// FromOrNew keeps a caller-supplied id when it is short printable ASCII,
// otherwise it generates one.
func FromOrNew(in string) string {
	if in == "" || len(in) > maxLen {
		return New()
	}
	for i := 0; i < len(in); i++ {
		if in[i] < 0x21 || in[i] > 0x7e {
			return New()
		}
	}
	return in
}

// With stores id in ctx.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From returns the id stored in ctx, or "".
func From(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
