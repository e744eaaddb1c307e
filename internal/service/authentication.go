// File: internal/service/authentication.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"tasktracker/internal/model"
	"tasktracker/internal/tokenstore"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const refreshTokenPrefix = "refresh_token:"

var (
	randRead        = rand.Read
	jsonMarshal     = json.Marshal
	jsonUnmarshal   = json.Unmarshal
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims

	// jwtSecret 預設讀 JWT_SECRET，啟動時可由設定檔覆寫
	jwtSecret = func() string { return os.Getenv("JWT_SECRET") }
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// UseJWTSecret 改用固定的簽章金鑰
func UseJWTSecret(secret string) {
	jwtSecret = func() string { return secret }
}

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID      int  `json:"user_id"`
	IsSuperuser bool `json:"is_superuser"`
	jwt.RegisteredClaims
}

// RefreshTokenData 存在 Redis 中、對應 refresh token 的資料
type RefreshTokenData struct {
	UserID      int  `json:"user_id"`
	IsSuperuser bool `json:"is_superuser"`
}

// AuthenticateUser 比對使用者密碼
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret := jwtSecret()
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET not set")
	}

	now := timeNow()
	claims := CustomClaims{
		UserID:      user.ID,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret := jwtSecret()
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// IssueRefreshToken 產生隨機 refresh token 並連同使用者資料存入 Redis
func IssueRefreshToken(ctx context.Context, tokens tokenstore.Store, userID int, isSuperuser bool, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("IssueRefreshToken: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	data, err := jsonMarshal(RefreshTokenData{UserID: userID, IsSuperuser: isSuperuser})
	if err != nil {
		return "", fmt.Errorf("IssueRefreshToken: %w", err)
	}
	if err := tokens.Set(ctx, refreshTokenPrefix+token, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("IssueRefreshToken: %w", err)
	}
	return token, nil
}

// ConsumeRefreshToken 以 GETDEL 取出並作廢 refresh token，同一個 token 只能成功一次；
// 不存在或過期回傳 ErrInvalidRefreshToken
func ConsumeRefreshToken(ctx context.Context, tokens tokenstore.Store, token string) (*RefreshTokenData, error) {
	val, err := tokens.GetDel(ctx, refreshTokenPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, fmt.Errorf("ConsumeRefreshToken: %w", err)
	}
	var data RefreshTokenData
	if err := jsonUnmarshal(val, &data); err != nil {
		return nil, fmt.Errorf("ConsumeRefreshToken: %w", err)
	}
	return &data, nil
}
