// Package config 讀取服務設定：預設值 → YAML 檔 → 環境變數 (含 .env)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr        string          `yaml:"http_addr"`
	DatabaseURL     string          `yaml:"database_url"`
	Redis           RedisConfig     `yaml:"redis"`
	JWTSecret       string          `yaml:"jwt_secret"`
	AccessTokenTTL  time.Duration   `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration   `yaml:"refresh_token_ttl"`
	Log             LogConfig       `yaml:"log"`
	Superuser       SuperuserConfig `yaml:"superuser"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SuperuserConfig 啟動時建立的管理者帳號，Username 為空則略過
type SuperuserConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

var (
	loadDotenv = godotenv.Load
	readFile   = os.ReadFile
)

func defaults() *Config {
	return &Config{
		HTTPAddr:        ":8080",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Log:             LogConfig{Level: "info", Format: "text"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load 依序套用預設值、YAML 檔 (path 為空則略過) 與環境變數，最後驗證
func Load(path string) (*Config, error) {
	if err := loadDotenv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("Load: .env: %w", err)
	}

	cfg := defaults()
	if path != "" {
		raw, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("Load: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("Load: %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Superuser.Username, "SUPERUSER_USERNAME")
	setString(&c.Superuser.Password, "SUPERUSER_PASSWORD")

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("無效的 REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	for key, dst := range map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":  &c.AccessTokenTTL,
		"REFRESH_TOKEN_TTL": &c.RefreshTokenTTL,
		"SHUTDOWN_TIMEOUT":  &c.ShutdownTimeout,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("無效的 %s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL 未設定"))
	}
	if c.Redis.Addr == "" {
		errs = append(errs, errors.New("REDIS_ADDR 未設定"))
	}
	if c.Redis.DB < 0 {
		errs = append(errs, errors.New("REDIS_DB 不可為負數"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET 未設定"))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTL 必須大於 0"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT 必須大於 0"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT 只接受 text 或 json: %q", c.Log.Format))
	}
	if c.Superuser.Username != "" && c.Superuser.Password == "" {
		errs = append(errs, errors.New("SUPERUSER_PASSWORD 未設定"))
	}
	return errors.Join(errs...)
}

// Logger 依設定建立 logrus logger
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
