// File: internal/handler/issues/comments.go
package issues

import (
	"net/http"

	"tasktracker/internal/api"
	"tasktracker/internal/apperror"
	"tasktracker/internal/database"
	"tasktracker/internal/middleware"
	"tasktracker/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var (
	listComments  = service.ListComments
	createComment = service.CreateComment
	getComment    = service.GetComment
	updateComment = service.UpdateComment
	deleteComment = service.DeleteComment
)

// commentPath 解析 project_id、issue_id 與 UUID 格式的 comment_id
func commentPath(c echo.Context) (projectID, issueID int, commentID string, err error) {
	ids, err := api.PathIDs(c, "project_id", "issue_id")
	if err != nil {
		return 0, 0, "", err
	}
	id, err := uuid.Parse(c.Param("comment_id"))
	if err != nil {
		return 0, 0, "", apperror.NotFound("Not found.")
	}
	return ids[0], ids[1], id.String(), nil
}

// ListCommentsHandler
// @Summary     List comments of an issue
// @Tags        comments
// @Produce     json
// @Param       project_id path     int true  "專案 ID"
// @Param       issue_id   path     int true  "issue ID"
// @Param       page       query    int false "頁碼"
// @Param       page_size  query    int false "每頁筆數"
// @Success     200        {object} api.Page[model.Comment]
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues/{issue_id}/comments [get]
func ListCommentsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ids, err := api.PathIDs(c, "project_id", "issue_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		page, err := api.ParsePage(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		list, count, err := listComments(c.Request().Context(), db, middleware.CallerFrom(c), ids[0], ids[1], page)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, api.NewPage(list, count))
	}
}

// CreateCommentHandler
// @Summary     Comment on an issue
// @Tags        comments
// @Accept      json
// @Produce     json
// @Param       project_id path     int                true "專案 ID"
// @Param       issue_id   path     int                true "issue ID"
// @Param       body       body     api.CommentRequest true "留言內容"
// @Success     201        {object} model.Comment
// @Failure     400        {object} api.ErrorResponse
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues/{issue_id}/comments [post]
func CreateCommentHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ids, err := api.PathIDs(c, "project_id", "issue_id")
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.CommentRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		cm, err := createComment(c.Request().Context(), db, middleware.CallerFrom(c), ids[0], ids[1], service.CommentInput{Text: req.Text})
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusCreated, cm)
	}
}

// GetCommentHandler
// @Summary     Get a comment
// @Tags        comments
// @Produce     json
// @Param       project_id path     int    true "專案 ID"
// @Param       issue_id   path     int    true "issue ID"
// @Param       comment_id path     string true "留言 UUID"
// @Success     200        {object} model.Comment
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues/{issue_id}/comments/{comment_id} [get]
func GetCommentHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectID, issueID, commentID, err := commentPath(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		cm, err := getComment(c.Request().Context(), db, middleware.CallerFrom(c), projectID, issueID, commentID)
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, cm)
	}
}

// UpdateCommentHandler 只有留言作者可修改
// @Summary     Update a comment
// @Tags        comments
// @Accept      json
// @Produce     json
// @Param       project_id path     int                true "專案 ID"
// @Param       issue_id   path     int                true "issue ID"
// @Param       comment_id path     string             true "留言 UUID"
// @Param       body       body     api.CommentRequest true "留言內容"
// @Success     200        {object} model.Comment
// @Failure     400        {object} api.ErrorResponse
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues/{issue_id}/comments/{comment_id} [put]
// @Router      /projects/{project_id}/issues/{issue_id}/comments/{comment_id} [patch]
func UpdateCommentHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectID, issueID, commentID, err := commentPath(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		var req api.CommentRequest
		if err := api.Decode(c, &req); err != nil {
			return api.WriteError(c, err)
		}
		cm, err := updateComment(c.Request().Context(), db, middleware.CallerFrom(c), projectID, issueID, commentID, api.UpdateAction(c), service.CommentInput{Text: req.Text})
		if err != nil {
			return api.WriteError(c, err)
		}
		return c.JSON(http.StatusOK, cm)
	}
}

// DeleteCommentHandler
// @Summary     Delete a comment
// @Tags        comments
// @Param       project_id path int    true "專案 ID"
// @Param       issue_id   path int    true "issue ID"
// @Param       comment_id path string true "留言 UUID"
// @Success     204        "No Content"
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /projects/{project_id}/issues/{issue_id}/comments/{comment_id} [delete]
func DeleteCommentHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectID, issueID, commentID, err := commentPath(c)
		if err != nil {
			return api.WriteError(c, err)
		}
		if err := deleteComment(c.Request().Context(), db, middleware.CallerFrom(c), projectID, issueID, commentID); err != nil {
			return api.WriteError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
