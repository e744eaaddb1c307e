package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/config"
	"tasktracker/internal/database"
	"tasktracker/internal/service"
	"tasktracker/internal/tokenstore"
)

func restoreGlobals() {
	loadConfig = config.Load
	newPgxPool = database.NewPgxPool
	newTokenStore = tokenstore.NewRedisClient
	runMigrationsFn = database.RunMigrations
	bootstrapSuperuser = service.BootstrapSuperuser
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownServer = func(ctx context.Context, e *echo.Echo) error { return e.Shutdown(ctx) }
	exitFunc = func(code int) {}
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:        ":0",
		DatabaseURL:     "db",
		Redis:           config.RedisConfig{Addr: "127", Password: "pw", DB: 1},
		JWTSecret:       "secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Log:             config.LogConfig{Level: "error", Format: "text"},
		ShutdownTimeout: time.Second,
	}
}

// stubInfra 將所有外部相依替換為不做事的假物件
func stubInfra(cfg *config.Config) {
	loadConfig = func(string) (*config.Config, error) { return cfg, nil }
	newPgxPool = func(context.Context, string) (database.DB, error) { return &database.FakeDB{}, nil }
	newTokenStore = func(context.Context, string, string, int) (tokenstore.Store, error) {
		return &tokenstore.FakeStore{}, nil
	}
	runMigrationsFn = func(string) error { return nil }
	bootstrapSuperuser = func(context.Context, database.DB, string, string) (int, error) { return 1, nil }
	startServer = func(*echo.Echo, string) error { return nil }
	shutdownServer = func(context.Context, *echo.Echo) error { return nil }
}

func TestCustomValidator(t *testing.T) {
	cv := newValidator()
	type s struct {
		Name string `json:"display_name" validate:"required"`
	}
	require.NoError(t, cv.Validate(&s{Name: "ok"}))

	err := cv.Validate(&s{})
	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Equal(t, "display_name", vErrs[0].Field())
}

func TestRunSuccess(t *testing.T) {
	t.Cleanup(restoreGlobals)
	cfg := testConfig()
	cfg.Superuser = config.SuperuserConfig{Username: "admin", Password: "pw"}
	stubInfra(cfg)

	called := make(map[string]bool)
	t.Setenv("CONFIG_FILE", "conf.yaml")
	loadConfig = func(path string) (*config.Config, error) {
		require.Equal(t, "conf.yaml", path)
		return cfg, nil
	}
	newPgxPool = func(_ context.Context, url string) (database.DB, error) {
		called["pgx"] = true
		require.Equal(t, "db", url)
		return &database.FakeDB{CloseFn: func() { called["dbClose"] = true }}, nil
	}
	newTokenStore = func(_ context.Context, addr, pwd string, db int) (tokenstore.Store, error) {
		called["redis"] = true
		require.Equal(t, "127", addr)
		require.Equal(t, "pw", pwd)
		require.Equal(t, 1, db)
		return &tokenstore.FakeStore{CloseFn: func() error { called["redisClose"] = true; return nil }}, nil
	}
	runMigrationsFn = func(string) error { called["migrate"] = true; return nil }
	bootstrapSuperuser = func(_ context.Context, _ database.DB, username, password string) (int, error) {
		called["superuser"] = true
		require.Equal(t, "admin", username)
		require.Equal(t, "pw", password)
		return 1, nil
	}
	startServer = func(_ *echo.Echo, addr string) error {
		called["start"] = true
		require.Equal(t, ":0", addr)
		return nil
	}
	shutdownServer = func(context.Context, *echo.Echo) error { called["shutdown"] = true; return nil }

	require.NoError(t, run(context.Background()))
	for _, k := range []string{"pgx", "redis", "migrate", "superuser", "start", "shutdown", "dbClose", "redisClose"} {
		require.True(t, called[k], k)
	}
}

func TestRunSkipsSuperuserWhenUnset(t *testing.T) {
	t.Cleanup(restoreGlobals)
	stubInfra(testConfig())
	bootstrapSuperuser = func(context.Context, database.DB, string, string) (int, error) {
		t.Fatal("bootstrap should not run")
		return 0, nil
	}
	require.NoError(t, run(context.Background()))
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name  string
		setup func()
	}{
		{"config", func() {
			loadConfig = func(string) (*config.Config, error) { return nil, errors.New("config") }
		}},
		{"db", func() {
			newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("db") }
		}},
		{"redis", func() {
			newTokenStore = func(context.Context, string, string, int) (tokenstore.Store, error) {
				return nil, errors.New("redis")
			}
		}},
		{"migrate", func() { runMigrationsFn = func(string) error { return errors.New("migrate") } }},
		{"superuser", func() {
			cfg := testConfig()
			cfg.Superuser = config.SuperuserConfig{Username: "admin", Password: "pw"}
			loadConfig = func(string) (*config.Config, error) { return cfg, nil }
			bootstrapSuperuser = func(context.Context, database.DB, string, string) (int, error) {
				return 0, errors.New("bootstrap")
			}
		}},
		{"start", func() { startServer = func(*echo.Echo, string) error { return errors.New("start") } }},
		{"shutdown", func() {
			shutdownServer = func(context.Context, *echo.Echo) error { return errors.New("shutdown") }
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Cleanup(restoreGlobals)
			stubInfra(testConfig())
			tc.setup()
			require.Error(t, run(context.Background()))
		})
	}
}

func TestRunGracefulShutdown(t *testing.T) {
	t.Cleanup(restoreGlobals)
	stubInfra(testConfig())

	stopped := make(chan struct{})
	startServer = func(*echo.Echo, string) error {
		<-stopped
		return http.ErrServerClosed
	}
	shutdownServer = func(ctx context.Context, _ *echo.Echo) error {
		_, ok := ctx.Deadline()
		require.True(t, ok)
		close(stopped)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestNewServer(t *testing.T) {
	t.Cleanup(restoreGlobals)
	e := newServer(testConfig(), &database.FakeDB{}, &tokenstore.FakeStore{}, testConfig().Logger())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(`{"age":20}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"username"`)
	require.Contains(t, rec.Body.String(), `"password_confirm"`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "tasktracker_http_requests_total")
}

func TestMainExit(t *testing.T) {
	t.Cleanup(restoreGlobals)
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	loadConfig = func(string) (*config.Config, error) { return nil, errors.New("fail") }
	main()
	require.Equal(t, 1, exitCode)
}

func TestMainSuccess(t *testing.T) {
	t.Cleanup(restoreGlobals)
	stubInfra(testConfig())
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	main()
	require.Equal(t, 0, exitCode)
}
