// File: internal/handler/projects/projects.go
package projects

import (
	"net/http"

	"tasktracker/internal/api"
	"tasktracker/internal/database"
	"tasktracker/internal/middleware"
	"tasktracker/internal/model"
	"tasktracker/internal/service"

	"github.com/labstack/echo/v4"
)

var (
	createProject = service.CreateProject
	listProjects  = service.ListProjects
	getProject    = service.GetProject
	updateProject = service.UpdateProject
	deleteProject = service.DeleteProject
)

func projectInput(req api.ProjectRequest) service.ProjectInput {
	in := service.ProjectInput{Title: req.Title, Description: req.Description}
	if req.Type != nil {
		t := model.ProjectType(*req.Type)
		in.Type = &t
	}
	return in
}

// ListProjectsHandler 列出呼叫者為作者或 contributor 的專案
// @Summary     List projects
// @Tags        projects
// @Produce     json
// @Param       user_id   query    int false "只列出該使用者參與的專案"
// @Param       page      query    int false "頁碼 (從 1 起算)"
// @Param       page_size query    int false "每頁筆數"
// @Success     200       {object} api.Page[model.Project]
// @Failure     401       {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects [get]
func ListProjectsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := api.ParsePage(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		userFilter, err := api.QueryInt(c, "user_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		projects, count, err := listProjects(c.Request().Context(), db, middleware.CallerFrom(c), userFilter, page)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewPage(projects, count))
	}
}

// CreateProjectHandler 建立專案，呼叫者成為作者與第一位 contributor
// @Summary     Create a project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       body body     api.ProjectRequest true "專案資料"
// @Success     201  {object} model.Project
// @Failure     400  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects [post]
func CreateProjectHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ProjectRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		p, err := createProject(c.Request().Context(), db, middleware.CallerFrom(c), projectInput(req))
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, p)
	}
}

// GetProjectHandler 取得專案與其 contributors
// @Summary     Get a project
// @Tags        projects
// @Produce     json
// @Param       project_id path     int true "專案 ID"
// @Success     200        {object} service.ProjectDetail
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id} [get]
func GetProjectHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := api.PathID(c, "project_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		detail, err := getProject(c.Request().Context(), db, middleware.CallerFrom(c), id)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, detail)
	}
}

// UpdateProjectHandler 只有作者可修改；PUT 需帶 title 與 type
// @Summary     Update a project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       project_id path     int                true "專案 ID"
// @Param       body       body     api.ProjectRequest true "專案資料"
// @Success     200        {object} model.Project
// @Failure     400        {object} api.ErrorResponse
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id} [put]
// @Router      /projects/{project_id} [patch]
func UpdateProjectHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := api.PathID(c, "project_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.ProjectRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		p, err := updateProject(c.Request().Context(), db, middleware.CallerFrom(c), id, api.UpdateAction(c), projectInput(req))
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, p)
	}
}

// DeleteProjectHandler 刪除專案，連同其 contributors、issue 與留言
// @Summary     Delete a project
// @Tags        projects
// @Param       project_id path int true "專案 ID"
// @Success     204        "No Content"
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id} [delete]
func DeleteProjectHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := api.PathID(c, "project_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		if err := deleteProject(c.Request().Context(), db, middleware.CallerFrom(c), id); err != nil {
			return api.WriteError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
