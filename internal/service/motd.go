package service

import (
	"context"
	"time"

	"github.com/and161185/motd/internal/errs"
	"github.com/and161185/motd/internal/model"
)

// MotdService is the transport-agnostic read/write API.
type MotdService interface {
	// ReadMotd returns a random message; ok is false when the store is empty.
	ReadMotd(ctx context.Context) (m model.Message, ok bool, err error)
	// WriteMotd authenticates userID with code and appends text.
	WriteMotd(ctx context.Context, userID, code, text string) (model.Message, error)
}

// Picker chooses one message from a scan result.
type Picker interface {
	Pick(msgs []model.Message) (model.Message, bool)
}

type MotdServiceImpl struct {
	auth  AuthService
	store MessageStore
	pick  Picker
	now   func() time.Time
}

// NewMotdService wires the read and write paths. A nil now uses time.Now.
func NewMotdService(auth AuthService, store MessageStore, pick Picker, now func() time.Time) *MotdServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &MotdServiceImpl{auth: auth, store: store, pick: pick, now: now}
}

// ReadMotd scans the store and picks one message uniformly at random.
func (s *MotdServiceImpl) ReadMotd(ctx context.Context) (model.Message, bool, error) {
	msgs, err := s.store.ScanAll(ctx)
	if err != nil {
		return model.Message{}, false, err
	}
	m, ok := s.pick.Pick(msgs)
	return m, ok, nil
}

// WriteMotd samples the clock once, verifies credentials, then appends.
// Any rejection is reported as errs.ErrInvalidCredentials.
func (s *MotdServiceImpl) WriteMotd(ctx context.Context, userID, code, text string) (model.Message, error) {
	v := s.auth.Verify(userID, code, s.now())
	if !v.OK() {
		return model.Message{}, errs.ErrInvalidCredentials
	}
	return s.store.Append(ctx, text, v.UserID)
}
