package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"strings"

	"tasktracker/internal/config"
	"tasktracker/internal/database"
	"tasktracker/internal/metrics"
	"tasktracker/internal/middleware"
	"tasktracker/internal/router"
	"tasktracker/internal/service"
	"tasktracker/internal/tokenstore"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// newValidator 欄位錯誤使用 json 名稱回報
func newValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

var (
	loadConfig         = config.Load
	newPgxPool         = database.NewPgxPool
	newTokenStore      = tokenstore.NewRedisClient
	runMigrationsFn    = database.RunMigrations
	bootstrapSuperuser = service.BootstrapSuperuser
	startServer        = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownServer     = func(ctx context.Context, e *echo.Echo) error { return e.Shutdown(ctx) }
	exitFunc           = os.Exit
)

// newServer 建立 echo 實例並掛上中介層與路由
func newServer(cfg *config.Config, db database.DB, tokens tokenstore.Store, logger *logrus.Logger) *echo.Echo {
	m := metrics.New(prometheus.NewRegistry())

	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Metrics(m))

	router.Setup(e, db, tokens, service.TokenTTL{
		Access:  cfg.AccessTokenTTL,
		Refresh: cfg.RefreshTokenTTL,
	}, m)
	return e
}

func run(ctx context.Context) error {
	cfg, err := loadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}
	logger := cfg.Logger()
	logrus.SetLevel(logger.GetLevel())
	logrus.SetFormatter(logger.Formatter)
	service.UseJWTSecret(cfg.JWTSecret)

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	tokens, err := newTokenStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer tokens.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	if cfg.Superuser.Username != "" {
		id, err := bootstrapSuperuser(ctx, db, cfg.Superuser.Username, cfg.Superuser.Password)
		if err != nil {
			return fmt.Errorf("建立管理者失敗: %w", err)
		}
		logger.WithField("user_id", id).Info("superuser ready")
	}

	e := newServer(cfg, db, tokens, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		logger.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := startServer(e, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, done := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer done()
		logger.Info("shutting down")
		return shutdownServer(sctx, e)
	})
	return g.Wait()
}
