// File: internal/handler/auth/auth.go
package auth

import (
	"net/http"

	"tasktracker/internal/api"
	"tasktracker/internal/database"
	"tasktracker/internal/service"
	"tasktracker/internal/tokenstore"

	"github.com/labstack/echo/v4"
)

var (
	signup  = service.Signup
	login   = service.Login
	refresh = service.Refresh
)

func tokenResponse(p *service.TokenPair) api.TokenResponse {
	return api.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    p.ExpiresIn,
	}
}

// SignupHandler 註冊新使用者
// @Summary     Sign up
// @Description 建立一般使用者帳號；年齡需滿 15 歲，password_confirm 必須與 password 相同
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.SignupRequest true "註冊資料"
// @Success     201  {object} model.User
// @Failure     400  {object} api.ErrorResponse
// @Failure     409  {object} api.ErrorResponse
// @Router      /signup [post]
func SignupHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SignupRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		user, err := signup(c.Request().Context(), db, service.SignupInput{
			Username:        req.Username,
			Password:        req.Password,
			PasswordConfirm: req.PasswordConfirm,
			Age:             req.Age,
			CanBeContacted:  req.CanBeContacted,
			CanDataBeShared: req.CanDataBeShared,
		})
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, user)
	}
}

// LoginHandler 使用 Username/Password 驗證並回傳 access 與 refresh token
// @Summary     登入使用者
// @Description 使用 Username 與 Password 進行驗證，回傳存取令牌與 refresh token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "帳號密碼"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Router      /login [post]
func LoginHandler(db database.DB, tokens tokenstore.Store, ttl service.TokenTTL) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		pair, err := login(c.Request().Context(), db, tokens, req.Username, req.Password, ttl)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, tokenResponse(pair))
	}
}

// RefreshHandler 以 refresh token 換發新的 token 組
// @Summary     Refresh token
// @Description 舊的 refresh token 在換發後失效
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RefreshRequest true "refresh token"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Router      /token/refresh [post]
func RefreshHandler(db database.DB, tokens tokenstore.Store, ttl service.TokenTTL) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		pair, err := refresh(c.Request().Context(), db, tokens, req.RefreshToken, ttl)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, tokenResponse(pair))
	}
}
