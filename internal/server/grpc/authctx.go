package grpcserver

import "context"

type ctxKey string

const userIDKey ctxKey = "motd.userID"

// userSlot lets a handler report the authenticated writer back to the
// interceptor that created it.
type userSlot struct{ id string }

func withUserSlot(ctx context.Context) (context.Context, *userSlot) {
	slot := &userSlot{}
	return context.WithValue(ctx, userIDKey, slot), slot
}

// SetUserID records the authenticated userid if ctx carries a slot.
func SetUserID(ctx context.Context, id string) {
	if slot, ok := ctx.Value(userIDKey).(*userSlot); ok {
		slot.id = id
	}
}

// UserIDFromCtx returns the userid recorded with SetUserID.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	slot, ok := ctx.Value(userIDKey).(*userSlot)
	if !ok || slot.id == "" {
		return "", false
	}
	return slot.id, true
}
