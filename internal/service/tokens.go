package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tasktracker/internal/apperror"
	"tasktracker/internal/database"
	"tasktracker/internal/tokenstore"
)

// TokenTTL access / refresh token 的有效期間
type TokenTTL struct {
	Access  time.Duration
	Refresh time.Duration
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Login 以帳號密碼換取 access 與 refresh token
func Login(ctx context.Context, db database.DB, tokens tokenstore.Store, username, password string, ttl TokenTTL) (*TokenPair, error) {
	user, err := getUserByUsername(ctx, db, username)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := AuthenticateUser(ctx, *user, password); err != nil {
		return nil, err
	}

	access, err := IssueAccessToken(*user, ttl.Access)
	if err != nil {
		return nil, fmt.Errorf("Login: %w", err)
	}
	refresh, err := IssueRefreshToken(ctx, tokens, user.ID, user.IsSuperuser, ttl.Refresh)
	if err != nil {
		return nil, fmt.Errorf("Login: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: int(ttl.Access.Seconds())}, nil
}

// Refresh 以 refresh token 換發新的 token 組。舊 token 在讀取時即被作廢，
// 同一個 token 併發換發時只有一個會成功。使用者已被刪除時回傳 ErrInvalidRefreshToken。
func Refresh(ctx context.Context, db database.DB, tokens tokenstore.Store, refreshToken string, ttl TokenTTL) (*TokenPair, error) {
	data, err := ConsumeRefreshToken(ctx, tokens, refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := getUserByID(ctx, db, data.UserID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	access, err := IssueAccessToken(*user, ttl.Access)
	if err != nil {
		return nil, fmt.Errorf("Refresh: %w", err)
	}
	next, err := IssueRefreshToken(ctx, tokens, user.ID, user.IsSuperuser, ttl.Refresh)
	if err != nil {
		return nil, fmt.Errorf("Refresh: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: next, ExpiresIn: int(ttl.Access.Seconds())}, nil
}

// IsAuthError 登入或 refresh 失敗應回應 401 的錯誤
func IsAuthError(err error) bool {
	return AuthErrorMessage(err) != ""
}

// AuthErrorMessage 回傳對外的 401 訊息 (不含包裝前綴)；非驗證錯誤回傳空字串
func AuthErrorMessage(err error) string {
	for _, target := range []error{ErrInvalidCredentials, ErrInvalidRefreshToken} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return ""
}
