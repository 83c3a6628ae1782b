package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/motd/internal/migrate"
)

func newRepo(t *testing.T) *MessageRepo {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "motd.db"))
	require.NoError(t, err)
	_, err = migrate.Up(ctx, db, migrate.SQLite)
	require.NoError(t, err)
	r := NewMessageRepo(db)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestMessageRepo_EmptyScan(t *testing.T) {
	r := newRepo(t)

	out, err := r.ScanAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestMessageRepo_AppendThenScan(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	a, err := r.Append(ctx, "first", "alice")
	require.NoError(t, err)
	b, err := r.Append(ctx, "second", "bob")
	require.NoError(t, err)
	require.Greater(t, b.ID, a.ID)
	require.False(t, a.CreatedAt.IsZero())

	out, err := r.ScanAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{a.ID, b.ID}, []int64{out[0].ID, out[1].ID})
	require.Equal(t, "second", out[1].Text)
	require.Equal(t, "bob", out[1].Creator)
	require.True(t, a.CreatedAt.Equal(out[0].CreatedAt))
}

func TestMessageRepo_IDsNotReusedAfterFailure(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	a, err := r.Append(ctx, "one", "alice")
	require.NoError(t, err)

	// The check constraint rejects empty text.
	_, err = r.Append(ctx, "", "alice")
	require.Error(t, err)

	_, err = r.db.ExecContext(ctx, "DELETE FROM motd WHERE id = ?", a.ID)
	require.NoError(t, err)

	b, err := r.Append(ctx, "two", "alice")
	require.NoError(t, err)
	require.Greater(t, b.ID, a.ID)
}

func TestMessageRepo_ConcurrentAppends(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Append(ctx, "msg", "alice")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	out, err := r.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, n)
	seen := map[int64]bool{}
	for _, m := range out {
		require.False(t, seen[m.ID])
		seen[m.ID] = true
	}
}

func TestMessageRepo_ScansDuringAppends(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	const (
		writers = 4
		perW    = 50
		readers = 8
	)
	var (
		done       atomic.Bool
		scanErrs   atomic.Int64
		appendErrs = make(chan error, writers*perW)
		wgW, wgR   sync.WaitGroup
	)
	for i := 0; i < readers; i++ {
		wgR.Add(1)
		go func() {
			defer wgR.Done()
			for !done.Load() {
				if _, err := r.ScanAll(ctx); err != nil {
					scanErrs.Add(1)
				}
			}
		}()
	}
	for i := 0; i < writers; i++ {
		wgW.Add(1)
		go func() {
			defer wgW.Done()
			for j := 0; j < perW; j++ {
				if _, err := r.Append(ctx, "msg", "alice"); err != nil {
					appendErrs <- err
				}
			}
		}()
	}
	wgW.Wait()
	done.Store(true)
	wgR.Wait()
	close(appendErrs)

	for err := range appendErrs {
		require.NoError(t, err)
	}
	require.Zero(t, scanErrs.Load())

	out, err := r.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, writers*perW)
}

func TestOpen_InMemorySharesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	_, err = migrate.Up(ctx, db, migrate.SQLite)
	require.NoError(t, err)
	r := NewMessageRepo(db)
	t.Cleanup(func() { _ = r.Close() })

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Append(ctx, "m", "bob"); err != nil {
				errs <- err
				return
			}
			_, err := r.ScanAll(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	out, err := r.ScanAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 8)
}

func TestDSN(t *testing.T) {
	require.Equal(t,
		"file:/tmp/motd.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		DSN("/tmp/motd.db"))
	require.Equal(t,
		"file:motd.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		DSN("file:motd.db?mode=rwc"))
}
