package users

import (
	"net/http"

	"tasktracker/internal/api"
	"tasktracker/internal/database"
	"tasktracker/internal/middleware"
	"tasktracker/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	listUsers  = service.ListUsers
	getUser    = service.GetUser
	updateUser = service.UpdateUser
	deleteUser = service.DeleteUser
)

// ListUsersHandler 列出使用者；非管理者取得空列表
// @Summary     List users
// @Tags        users
// @Produce     json
// @Param       page      query    int false "頁碼 (從 1 起算)"
// @Param       page_size query    int false "每頁筆數 (預設 20，最多 100)"
// @Success     200       {object} api.Page[model.User]
// @Failure     401       {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := api.ParsePage(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		users, count, err := listUsers(c.Request().Context(), db, middleware.CallerFrom(c), page)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewPage(users, count))
	}
}

// GetUserHandler 取得使用者資料 (本人或管理者)
// @Summary     Get a user by ID
// @Tags        users
// @Produce     json
// @Param       user_id path     int true "使用者 ID"
// @Success     200     {object} model.User
// @Failure     403     {object} api.ErrorResponse
// @Failure     404     {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := api.PathID(c, "user_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		user, err := getUser(c.Request().Context(), db, middleware.CallerFrom(c), id)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}

// UpdateUserHandler 更新使用者資料；PUT 與 PATCH 皆可只帶要修改的欄位
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       user_id path     int                   true "使用者 ID"
// @Param       body    body     api.UpdateUserRequest true "要修改的欄位"
// @Success     200     {object} model.User
// @Failure     400     {object} api.ErrorResponse
// @Failure     403     {object} api.ErrorResponse
// @Failure     404     {object} api.ErrorResponse
// @Failure     409     {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [put]
// @Router      /users/{user_id} [patch]
func UpdateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := api.PathID(c, "user_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.UpdateUserRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		user, err := updateUser(c.Request().Context(), db, middleware.CallerFrom(c), id, api.UpdateAction(c), service.UserPatch{
			Username:        req.Username,
			Password:        req.Password,
			Age:             req.Age,
			CanBeContacted:  req.CanBeContacted,
			CanDataBeShared: req.CanDataBeShared,
		})
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler 刪除使用者，連同其專案、issue、留言與 contributor 紀錄
// @Summary     Delete a user
// @Tags        users
// @Param       user_id path int true "使用者 ID"
// @Success     204     "No Content"
// @Failure     403     {object} api.ErrorResponse
// @Failure     404     {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{user_id} [delete]
func DeleteUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := api.PathID(c, "user_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		if err := deleteUser(c.Request().Context(), db, middleware.CallerFrom(c), id); err != nil {
			return api.WriteError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
