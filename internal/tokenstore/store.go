// Package tokenstore 保存 refresh token 與其對應的使用者資料 (Redis)
package tokenstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store 定義 refresh token 存取介面
// ttl <= 0 表示不設過期
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	// GetDel 原子地讀取並刪除，同一個 key 只有一個呼叫者能取得值
	GetDel(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

type FakeStore struct {
	GetFn    func(ctx context.Context, key string) *redis.StringCmd
	GetDelFn func(ctx context.Context, key string) *redis.StringCmd
	SetFn    func(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	DelFn    func(ctx context.Context, keys ...string) *redis.IntCmd
	CloseFn  func() error
}

func (f *FakeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.GetFn != nil {
		return f.GetFn(ctx, key)
	}
	panic("unexpected Get")
}

func (f *FakeStore) GetDel(ctx context.Context, key string) *redis.StringCmd {
	if f.GetDelFn != nil {
		return f.GetDelFn(ctx, key)
	}
	panic("unexpected GetDel")
}

func (f *FakeStore) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.SetFn != nil {
		return f.SetFn(ctx, key, value, expiration)
	}
	panic("unexpected Set")
}

func (f *FakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.DelFn != nil {
		return f.DelFn(ctx, keys...)
	}
	panic("unexpected Del")
}

// Close 未設定時為 no-op
func (f *FakeStore) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}
