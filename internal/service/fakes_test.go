package service

import (
	"context"
	"sync"
	"time"

	"github.com/and161185/motd/internal/model"
	"github.com/and161185/motd/internal/repository"
)

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	msgs   []model.Message

	appendErr error
	scanErr   error
	scanNil   bool

	appendCalls int
}

var _ repository.MessageRepository = (*fakeRepo)(nil)

func (f *fakeRepo) Append(_ context.Context, text, creator string) (model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	f.nextID++ // consumed even on failure
	if f.appendErr != nil {
		return model.Message{}, f.appendErr
	}
	m := model.Message{ID: f.nextID, Text: text, Creator: creator, CreatedAt: time.Now().UTC()}
	f.msgs = append(f.msgs, m)
	return m, nil
}

func (f *fakeRepo) ScanAll(_ context.Context) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	if f.scanNil {
		return nil, nil
	}
	return append([]model.Message{}, f.msgs...), nil
}

func (f *fakeRepo) Close() error { return nil }

type fakeCreds map[string]string

func (f fakeCreds) Lookup(id string) (string, bool) {
	s, ok := f[id]
	return s, ok
}

type recordingVerifier struct {
	mu      sync.Mutex
	secrets []string
	nows    []time.Time
	result  bool
}

func (r *recordingVerifier) Verify(secret, _ string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets = append(r.secrets, secret)
	r.nows = append(r.nows, now)
	return r.result
}

type firstPicker struct{}

func (firstPicker) Pick(msgs []model.Message) (model.Message, bool) {
	if len(msgs) == 0 {
		return model.Message{}, false
	}
	return msgs[0], true
}
