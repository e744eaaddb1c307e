// File: internal/handler/issues/issues.go
package issues

import (
	"net/http"

	"tasktracker/internal/api"
	"tasktracker/internal/database"
	"tasktracker/internal/middleware"
	"tasktracker/internal/model"
	"tasktracker/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

var (
	listIssues  = service.ListIssues
	createIssue = service.CreateIssue
	getIssue    = service.GetIssue
	updateIssue = service.UpdateIssue
	deleteIssue = service.DeleteIssue
)

func issueInput(req api.IssueRequest) service.IssueInput {
	in := service.IssueInput{
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee.Value,
		AssigneeSet: req.Assignee.Set,
	}
	if req.Tag != nil {
		in.Tag = lo.ToPtr(model.IssueTag(*req.Tag))
	}
	if req.Priority != nil {
		in.Priority = lo.ToPtr(model.IssuePriority(*req.Priority))
	}
	if req.Status != nil {
		in.Status = lo.ToPtr(model.IssueStatus(*req.Status))
	}
	return in
}

// ListIssuesHandler 列出專案的 issue (限 contributor)
// @Summary     List issues
// @Tags        issues
// @Produce     json
// @Param       project_id path     int true  "專案 ID"
// @Param       page       query    int false "頁碼"
// @Param       page_size  query    int false "每頁筆數"
// @Success     200        {object} api.Page[model.Issue]
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues [get]
func ListIssuesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectID, err := api.PathID(c, "project_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		page, err := api.ParsePage(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		list, count, err := listIssues(c.Request().Context(), db, middleware.CallerFrom(c), projectID, page)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewPage(list, count))
	}
}

// CreateIssueHandler 建立 issue；assignee 必須是專案的 contributor
// @Summary     Create an issue
// @Tags        issues
// @Accept      json
// @Produce     json
// @Param       project_id path     int              true "專案 ID"
// @Param       body       body     api.IssueRequest true "issue 資料"
// @Success     201        {object} model.Issue
// @Failure     400        {object} api.ErrorResponse
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues [post]
func CreateIssueHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectID, err := api.PathID(c, "project_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.IssueRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		issue, err := createIssue(c.Request().Context(), db, middleware.CallerFrom(c), projectID, issueInput(req))
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, issue)
	}
}

// GetIssueHandler
// @Summary     Get an issue
// @Tags        issues
// @Produce     json
// @Param       project_id path     int true "專案 ID"
// @Param       issue_id   path     int true "issue ID"
// @Success     200        {object} model.Issue
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues/{issue_id} [get]
func GetIssueHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ids, err := api.PathIDs(c, "project_id", "issue_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		issue, err := getIssue(c.Request().Context(), db, middleware.CallerFrom(c), ids[0], ids[1])
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, issue)
	}
}

// UpdateIssueHandler 只有 issue 作者可修改；"assignee": null 會清除指派
// @Summary     Update an issue
// @Tags        issues
// @Accept      json
// @Produce     json
// @Param       project_id path     int              true "專案 ID"
// @Param       issue_id   path     int              true "issue ID"
// @Param       body       body     api.IssueRequest true "issue 資料"
// @Success     200        {object} model.Issue
// @Failure     400        {object} api.ErrorResponse
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues/{issue_id} [put]
// @Router      /projects/{project_id}/issues/{issue_id} [patch]
func UpdateIssueHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ids, err := api.PathIDs(c, "project_id", "issue_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.IssueRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		issue, err := updateIssue(c.Request().Context(), db, middleware.CallerFrom(c), ids[0], ids[1], api.UpdateAction(c), issueInput(req))
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, issue)
	}
}

// DeleteIssueHandler 刪除 issue 與其留言
// @Summary     Delete an issue
// @Tags        issues
// @Param       project_id path int true "專案 ID"
// @Param       issue_id   path int true "issue ID"
// @Success     204        "No Content"
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues/{issue_id} [delete]
func DeleteIssueHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ids, err := api.PathIDs(c, "project_id", "issue_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		if err := deleteIssue(c.Request().Context(), db, middleware.CallerFrom(c), ids[0], ids[1]); err != nil {
			return api.WriteError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
