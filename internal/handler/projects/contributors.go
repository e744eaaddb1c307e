// File: internal/handler/projects/contributors.go
package projects

import (
	"net/http"

	"tasktracker/internal/api"
	"tasktracker/internal/authz"
	"tasktracker/internal/database"
	"tasktracker/internal/middleware"
	"tasktracker/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	listContributors  = service.ListContributors
	getContributor    = service.GetContributor
	addContributor    = service.AddContributor
	updateContributor = service.UpdateContributor
	removeContributor = service.RemoveContributor
)

// ListContributorsHandler 列出專案的 contributors
// @Summary     List contributors
// @Tags        contributors
// @Produce     json
// @Param       project_id path     int true  "專案 ID"
// @Param       page       query    int false "頁碼"
// @Param       page_size  query    int false "每頁筆數"
// @Success     200        {object} api.Page[model.Contributor]
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/users [get]
func ListContributorsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectID, err := api.PathID(c, "project_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		page, err := api.ParsePage(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		cs, count, err := listContributors(c.Request().Context(), db, middleware.CallerFrom(c), projectID, page)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewPage(cs, count))
	}
}

// AddContributorHandler 作者將使用者加入專案
// @Summary     Add a contributor
// @Tags        contributors
// @Accept      json
// @Produce     json
// @Param       project_id path     int                    true "專案 ID"
// @Param       body       body     api.ContributorRequest true "使用者"
// @Success     201        {object} model.Contributor
// @Failure     400        {object} api.ErrorResponse
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Failure     409        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/users [post]
func AddContributorHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectID, err := api.PathID(c, "project_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.ContributorRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		contributor, err := addContributor(c.Request().Context(), db, middleware.CallerFrom(c), projectID, req.User)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, contributor)
	}
}

// GetContributorHandler
// @Summary     Get a contributor
// @Tags        contributors
// @Produce     json
// @Param       project_id     path     int true "專案 ID"
// @Param       contributor_id path     int true "contributor ID"
// @Success     200            {object} model.Contributor
// @Failure     403            {object} api.ErrorResponse
// @Failure     404            {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/users/{contributor_id} [get]
func GetContributorHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ids, err := api.PathIDs(c, "project_id", "contributor_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		contributor, err := getContributor(c.Request().Context(), db, middleware.CallerFrom(c), ids[0], ids[1])
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, contributor)
	}
}

// UpdateContributorHandler 將 contributor 紀錄改指向另一位使用者；PATCH 省略 user 時不變更
// @Summary     Update a contributor
// @Tags        contributors
// @Accept      json
// @Produce     json
// @Param       project_id     path     int                    true "專案 ID"
// @Param       contributor_id path     int                    true "contributor ID"
// @Param       body           body     api.ContributorRequest true "使用者"
// @Success     200            {object} model.Contributor
// @Failure     400            {object} api.ErrorResponse
// @Failure     403            {object} api.ErrorResponse
// @Failure     404            {object} api.ErrorResponse
// @Failure     409            {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/users/{contributor_id} [put]
// @Router      /projects/{project_id}/users/{contributor_id} [patch]
func UpdateContributorHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ids, err := api.PathIDs(c, "project_id", "contributor_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		action := api.UpdateAction(c)
		var userID int
		if action == authz.ActionPartialUpdate {
			var req api.ContributorPatchRequest
			if err := api.Decode(c, &req); err != nil {
				return api.WriteError(c, err)
			}
			userID = req.User
		} else {
			var req api.ContributorRequest
			if err := api.Decode(c, &req); err != nil {
				return api.WriteError(c, err)
			}
			userID = req.User
		}
		contributor, err := updateContributor(c.Request().Context(), db, middleware.CallerFrom(c), ids[0], ids[1], action, userID)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, contributor)
	}
}

// RemoveContributorHandler 作者移除 contributor；作者本身不可移除
// @Summary     Remove a contributor
// @Tags        contributors
// @Param       project_id     path int true "專案 ID"
// @Param       contributor_id path int true "contributor ID"
// @Success     204            "No Content"
// @Failure     400            {object} api.ErrorResponse
// @Failure     403            {object} api.ErrorResponse
// @Failure     404            {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/users/{contributor_id} [delete]
func RemoveContributorHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ids, err := api.PathIDs(c, "project_id", "contributor_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		if err := removeContributor(c.Request().Context(), db, middleware.CallerFrom(c), ids[0], ids[1]); err != nil {
			return api.WriteError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
