package store

import (
	"context"
	"fmt"

	"tasktracker/internal/database"
	"tasktracker/internal/model"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, password_hash, age, can_be_contacted, can_data_be_shared, is_superuser, created_time`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Age,
		&u.CanBeContacted,
		&u.CanDataBeShared,
		&u.IsSuperuser,
		&u.CreatedTime,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, q database.Querier, userID int) (*model.User, error) {
	u, err := scanUser(q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	))
	if err != nil {
		return nil, translate("GetUserByID", err, "User not found.")
	}
	return u, nil
}

func GetUserByUsername(ctx context.Context, q database.Querier, username string) (*model.User, error) {
	u, err := scanUser(q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	))
	if err != nil {
		return nil, translate("GetUserByUsername", err, "User not found.")
	}
	return u, nil
}

func CreateUser(ctx context.Context, q database.Querier, u *model.User) (*model.User, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, age, can_be_contacted, can_data_be_shared, is_superuser)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_time`,
		u.Username,
		u.PasswordHash,
		u.Age,
		u.CanBeContacted,
		u.CanDataBeShared,
		u.IsSuperuser,
	)
	if err := row.Scan(&u.ID, &u.CreatedTime); err != nil {
		return nil, translate("CreateUser", err, "User not found.")
	}
	return u, nil
}

// UpdateUser 以單一 UPDATE 寫入個人資料與密碼哈希，不含 is_superuser
func UpdateUser(ctx context.Context, q database.Querier, u *model.User) (*model.User, error) {
	updated, err := scanUser(q.QueryRow(ctx,
		`UPDATE users
		 SET username = $1, password_hash = $2, age = $3, can_be_contacted = $4, can_data_be_shared = $5
		 WHERE id = $6
		 RETURNING `+userColumns,
		u.Username,
		u.PasswordHash,
		u.Age,
		u.CanBeContacted,
		u.CanDataBeShared,
		u.ID,
	))
	if err != nil {
		return nil, translate("UpdateUser", err, "User not found.")
	}
	return updated, nil
}

func ListUsers(ctx context.Context, q database.Querier, page Page) ([]model.User, int, error) {
	var count int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	rows, err := q.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListUsers: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	return users, count, nil
}

// EnsureSuperuser 建立管理者帳號；帳號已存在時只將其提升為管理者
func EnsureSuperuser(ctx context.Context, q database.Querier, username, passwordHash string, age int) (int, error) {
	var id int
	err := q.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, age, is_superuser)
		 VALUES ($1, $2, $3, TRUE)
		 ON CONFLICT (username) DO UPDATE SET is_superuser = TRUE
		 RETURNING id`,
		username, passwordHash, age,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("EnsureSuperuser: %w", err)
	}
	return id, nil
}
