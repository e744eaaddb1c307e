package api

import (
	"errors"
	"net/http"
	"strconv"

	"tasktracker/internal/apperror"
	"tasktracker/internal/authz"
	"tasktracker/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// PathID 解析正整數路徑參數，格式不符視為找不到
func PathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("Not found.")
	}
	return id, nil
}

// PathIDs 依序解析多個路徑參數
func PathIDs(c echo.Context, names ...string) ([]int, error) {
	ids := make([]int, len(names))
	for i, name := range names {
		id, err := PathID(c, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// ParsePage 讀取 page (從 1 起算) 與 page_size
func ParsePage(c echo.Context) (store.Page, error) {
	page, size := 1, 0
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return store.Page{}, apperror.Field("page", "Invalid page.")
		}
		page = n
	}
	if v := c.QueryParam("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return store.Page{}, apperror.Field("page_size", "Invalid page size.")
		}
		size = n
	}
	return store.NewPage(page, size), nil
}

// QueryInt 選用的整數查詢參數，未提供時回傳 nil
func QueryInt(c echo.Context, name string) (*int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, apperror.Field(name, "A valid integer is required.")
	}
	return &n, nil
}

// Decode 綁定並驗證請求本文；驗證器回傳的非欄位錯誤也視為 400
func Decode(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return BindError(err)
	}
	if err := c.Validate(req); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return err
		}
		return apperror.Validation(err.Error(), nil)
	}
	return nil
}

// UpdateAction PUT 為完整更新，PATCH 為部分更新
func UpdateAction(c echo.Context) authz.Action {
	if c.Request().Method == http.MethodPatch {
		return authz.ActionPartialUpdate
	}
	return authz.ActionUpdate
}
