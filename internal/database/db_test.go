package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeRows struct{}

func (fakeRows) Close()                                       {}
func (fakeRows) Err() error                                   { return nil }
func (fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (fakeRows) Next() bool                                   { return false }
func (fakeRows) Scan(dest ...any) error                       { return nil }
func (fakeRows) Values() ([]any, error)                       { return nil, nil }
func (fakeRows) RawValues() [][]byte                          { return nil }
func (fakeRows) Conn() *pgx.Conn                              { return nil }

func TestFakeDB(t *testing.T) {
	db := &FakeDB{}
	require.Panics(t, func() { db.Exec(context.Background(), "", nil) })
	require.Panics(t, func() { db.Query(context.Background(), "") })
	require.Panics(t, func() { db.QueryRow(context.Background(), "") })
	require.Panics(t, func() { db.Begin(context.Background()) })
	require.Panics(t, func() { db.Ping(context.Background()) })
	db.Close()

	execCalled := false
	queryCalled := false
	rowCalled := false
	beginCalled := false
	pingCalled := false
	closeCalled := false

	db.ExecFn = func(ctx context.Context, s string, args ...any) (pgconn.CommandTag, error) {
		execCalled = true
		return pgconn.CommandTag{}, errors.New("e")
	}
	db.QueryFn = func(ctx context.Context, s string, args ...any) (pgx.Rows, error) {
		queryCalled = true
		return fakeRows{}, nil
	}
	db.QueryRowFn = func(ctx context.Context, s string, args ...any) pgx.Row {
		rowCalled = true
		return pgx.Row(fakeRows{})
	}
	db.BeginFn = func(ctx context.Context) (pgx.Tx, error) {
		beginCalled = true
		return &FakeTx{}, nil
	}
	db.PingFn = func(ctx context.Context) error { pingCalled = true; return nil }
	db.CloseFn = func() { closeCalled = true }

	_, err := db.Exec(context.Background(), "sql")
	require.Error(t, err)
	_, err = db.Query(context.Background(), "sql")
	require.NoError(t, err)
	_ = db.QueryRow(context.Background(), "sql")
	_, err = db.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Ping(context.Background()))
	db.Close()
	require.True(t, execCalled)
	require.True(t, queryCalled)
	require.True(t, rowCalled)
	require.True(t, beginCalled)
	require.True(t, pingCalled)
	require.True(t, closeCalled)
}

func TestFakeTxWithBeginFunc(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		tx := &FakeTx{ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 1"), nil
		}}
		db := &FakeDB{BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil }}
		err := pgx.BeginFunc(context.Background(), db, func(tx pgx.Tx) error {
			_, err := tx.Exec(context.Background(), "DELETE FROM x")
			return err
		})
		require.NoError(t, err)
		require.True(t, tx.Committed)
		require.False(t, tx.RolledBack)
	})

	t.Run("rollback", func(t *testing.T) {
		tx := &FakeTx{}
		db := &FakeDB{BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil }}
		err := pgx.BeginFunc(context.Background(), db, func(pgx.Tx) error { return errors.New("step") })
		require.EqualError(t, err, "step")
		require.False(t, tx.Committed)
		require.True(t, tx.RolledBack)
	})

	t.Run("commit error", func(t *testing.T) {
		tx := &FakeTx{CommitFn: func(context.Context) error { return errors.New("commit") }}
		db := &FakeDB{BeginFn: func(context.Context) (pgx.Tx, error) { return tx, nil }}
		err := pgx.BeginFunc(context.Background(), db, func(pgx.Tx) error { return nil })
		require.EqualError(t, err, "commit")
		require.False(t, tx.Committed)
	})

	t.Run("unimplemented", func(t *testing.T) {
		tx := &FakeTx{}
		require.Panics(t, func() { tx.Exec(context.Background(), "") })
		require.Panics(t, func() { tx.Query(context.Background(), "") })
		require.Panics(t, func() { tx.QueryRow(context.Background(), "") })
	})
}
