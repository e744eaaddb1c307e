package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"tasktracker/internal/apperror"
	"tasktracker/internal/database"
	"tasktracker/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func userVals(u model.User) []any {
	return []any{u.ID, u.Username, u.PasswordHash, u.Age, u.CanBeContacted, u.CanDataBeShared, u.IsSuperuser, u.CreatedTime}
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sample := model.User{ID: 1, Username: "alice", PasswordHash: "h", Age: 30, CanBeContacted: true, CreatedTime: now}

	t.Run("get by id", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			require.Equal(t, []any{1}, args)
			return &fakeRow{vals: userVals(sample)}
		}}
		got, err := GetUserByID(ctx, db, 1)
		require.NoError(t, err)
		require.Equal(t, sample, *got)
	})

	t.Run("get by id missing", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{scanErr: pgx.ErrNoRows}
		}}
		_, err := GetUserByID(ctx, db, 9)
		require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("get by username", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			require.Equal(t, []any{"alice"}, args)
			return &fakeRow{vals: userVals(sample)}
		}}
		got, err := GetUserByUsername(ctx, db, "alice")
		require.NoError(t, err)
		require.Equal(t, 1, got.ID)
	})

	t.Run("create", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{vals: []any{7, now}}
		}}
		u, err := CreateUser(ctx, db, &model.User{Username: "bob", Age: 15})
		require.NoError(t, err)
		require.Equal(t, 7, u.ID)
		require.Equal(t, now, u.CreatedTime)
	})

	t.Run("create duplicate", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{scanErr: &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}}
		}}
		_, err := CreateUser(ctx, db, &model.User{Username: "bob"})
		require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("update", func(t *testing.T) {
		changed := sample
		changed.Age = 31
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			require.Equal(t, []any{"alice", "h", 31, true, false, 1}, args)
			return &fakeRow{vals: userVals(changed)}
		}}
		got, err := UpdateUser(ctx, db, &changed)
		require.NoError(t, err)
		require.Equal(t, 31, got.Age)
	})

	t.Run("list", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row { return countRow(2) },
			QueryFn: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
				require.Equal(t, []any{20, 0}, args)
				second := sample
				second.ID = 2
				return &fakeRows{data: [][]any{userVals(sample), userVals(second)}}, nil
			},
		}
		users, count, err := ListUsers(ctx, db, NewPage(1, 0))
		require.NoError(t, err)
		require.Equal(t, 2, count)
		require.Len(t, users, 2)
		require.Equal(t, 2, users[1].ID)
	})

	t.Run("list errors", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return &fakeRow{scanErr: errors.New("count")}
		}}
		_, _, err := ListUsers(ctx, db, NewPage(1, 0))
		require.Error(t, err)

		db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return countRow(1) }
		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) { return nil, errors.New("query") }
		_, _, err = ListUsers(ctx, db, NewPage(1, 0))
		require.Error(t, err)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &fakeRows{data: [][]any{userVals(sample)}, scanErr: errors.New("scan")}, nil
		}
		_, _, err = ListUsers(ctx, db, NewPage(1, 0))
		require.Error(t, err)

		db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) {
			return &fakeRows{err: errors.New("rows")}, nil
		}
		_, _, err = ListUsers(ctx, db, NewPage(1, 0))
		require.Error(t, err)
	})

	t.Run("ensure superuser", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			require.Equal(t, []any{"admin", "h", 18}, args)
			return &fakeRow{vals: []any{5}}
		}}
		id, err := EnsureSuperuser(ctx, db, "admin", "h", 18)
		require.NoError(t, err)
		require.Equal(t, 5, id)

		db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return &fakeRow{scanErr: errors.New("x")} }
		_, err = EnsureSuperuser(ctx, db, "admin", "h", 18)
		require.Error(t, err)
	})
}
