package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestMessageRepo_Append_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMessageRepo(db)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO motd \(text, creator\) VALUES \(\$1, \$2\) RETURNING id, created_at`).
		WithArgs("hello", "alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), ts))

	m, err := r.Append(context.Background(), "hello", "alice")
	require.NoError(t, err)
	require.Equal(t, int64(7), m.ID)
	require.Equal(t, "hello", m.Text)
	require.Equal(t, "alice", m.Creator)
	require.True(t, ts.Equal(m.CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepo_Append_Err(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMessageRepo(db)

	mock.ExpectQuery(`INSERT INTO motd`).
		WithArgs("hello", "alice").
		WillReturnError(errors.New("conn reset"))

	_, err := r.Append(context.Background(), "hello", "alice")
	require.Error(t, err)
}

func TestMessageRepo_ScanAll(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMessageRepo(db)

	ts := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "text", "creator", "created_at"}).
		AddRow(int64(1), "first", "alice", ts).
		AddRow(int64(2), "second", "bob", ts)
	mock.ExpectQuery(`SELECT id, text, creator, created_at FROM motd ORDER BY id ASC`).
		WillReturnRows(rows)

	out, err := r.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "first", out[0].Text)
	require.Equal(t, "bob", out[1].Creator)
	require.Less(t, out[0].ID, out[1].ID)
}

func TestMessageRepo_ScanAll_Empty(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMessageRepo(db)

	mock.ExpectQuery(`SELECT id, text, creator, created_at FROM motd ORDER BY id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "text", "creator", "created_at"}))

	out, err := r.ScanAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestMessageRepo_ScanAll_QueryErr(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMessageRepo(db)

	mock.ExpectQuery(`SELECT id, text, creator, created_at FROM motd`).
		WillReturnError(errors.New("q-fail"))

	_, err := r.ScanAll(context.Background())
	require.Error(t, err)
}

func TestMessageRepo_ScanAll_RowErr(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewMessageRepo(db)

	rows := pgxmock.NewRows([]string{"id", "text", "creator", "created_at"}).
		AddRow(int64(1), "first", "alice", time.Now()).
		RowError(0, errors.New("row0"))
	mock.ExpectQuery(`SELECT id, text, creator, created_at FROM motd`).
		WillReturnRows(rows)

	_, err := r.ScanAll(context.Background())
	require.Error(t, err)
}

func TestMessageRepo_Close(t *testing.T) {
	db, mock := newDB(t)
	r := NewMessageRepo(db)

	mock.ExpectClose()
	require.NoError(t, r.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}
