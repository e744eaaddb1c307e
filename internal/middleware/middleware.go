package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tasktracker/internal/api"
	"tasktracker/internal/authz"
	"tasktracker/internal/metrics"
	"tasktracker/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

const ContextUserKey = "user"

var verifyAccessToken = service.VerifyAccessToken

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="api"`)
	return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: msg})
}

func extractClaims(c echo.Context) (*service.CustomClaims, string) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, "Authentication credentials were not provided."
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, "invalid authorization header format"
	}
	claims, err := verifyAccessToken(parts[1])
	if err != nil {
		return nil, "Given token not valid for any token type"
	}
	return claims, ""
}

// RequireAuth 驗證 Bearer access token，並把 claims 存入 context
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, msg := extractClaims(c)
		if claims == nil {
			return unauthorized(c, msg)
		}
		c.Set(ContextUserKey, claims)
		return next(c)
	}
}

// CallerFrom 取得目前請求的呼叫者；未驗證時回傳零值 (ID 為 0，所有授權都會拒絕)
func CallerFrom(c echo.Context) authz.Caller {
	claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
	if !ok || claims == nil {
		return authz.Caller{}
	}
	return authz.Caller{ID: claims.UserID, IsSuperuser: claims.IsSuperuser}
}

// RequestLogger 以 logrus 記錄每個請求
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
				"caller":  CallerFrom(c).ID,
			})
			switch {
			case v.Error != nil:
				entry.WithError(v.Error).Error("request failed")
			case v.Status >= http.StatusInternalServerError:
				entry.Error("request")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}

// Metrics 以路由樣板 (c.Path) 為標籤記錄請求數與耗時
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
