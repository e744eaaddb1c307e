package store

import (
	"errors"
	"fmt"
	"math"

	"tasktracker/internal/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page 列表查詢的分頁範圍
type Page struct {
	Limit  int
	Offset int
}

// Unpaged 不分頁，用於專案詳情內嵌的 contributor 列表
var Unpaged = Page{Limit: math.MaxInt32}

// NewPage 由 1-based 頁碼與每頁筆數建立 Page，超出範圍時套用預設值
func NewPage(page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	return Page{Limit: size, Offset: (page - 1) * size}
}

// 已知 unique constraint 對應的錯誤訊息
var conflictMessages = map[string]string{
	"users_username_key":            "A user with that username already exists.",
	"contributors_user_project_key": "This user is already a contributor of the project.",
}

// translate 將 pgx / PostgreSQL 錯誤轉成 apperror，並加上函式名稱
func translate(op string, err error, notFound string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperror.Wrap(apperror.KindNotFound, notFound, err))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			msg, ok := conflictMessages[pgErr.ConstraintName]
			if !ok {
				msg = "Duplicate record."
			}
			return fmt.Errorf("%s: %w", op, apperror.Wrap(apperror.KindConflict, msg, err))
		case "23503":
			return fmt.Errorf("%s: %w", op, apperror.Wrap(apperror.KindNotFound, "Referenced record does not exist.", err))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
