package issues

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tasktracker/internal/api"
	"tasktracker/internal/apperror"
	"tasktracker/internal/authz"
	"tasktracker/internal/database"
	"tasktracker/internal/middleware"
	"tasktracker/internal/model"
	"tasktracker/internal/service"
	"tasktracker/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type okValidator struct{}

func (okValidator) Validate(any) error { return nil }

func restore() {
	listIssues = service.ListIssues
	createIssue = service.CreateIssue
	getIssue = service.GetIssue
	updateIssue = service.UpdateIssue
	deleteIssue = service.DeleteIssue
	listComments = service.ListComments
	createComment = service.CreateComment
	getComment = service.GetComment
	updateComment = service.UpdateComment
	deleteComment = service.DeleteComment
}

func newCtx(method, target, body string, caller int, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = okValidator{}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	c.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: caller})
	return c, rec
}

func TestIssueInput(t *testing.T) {
	title, tag, status := "t", "BUG", "FINISHED"
	in := issueInput(api.IssueRequest{Title: &title, Tag: &tag, Status: &status})
	require.Equal(t, "t", *in.Title)
	require.Equal(t, model.TagBug, *in.Tag)
	require.Equal(t, model.StatusFinished, *in.Status)
	require.Nil(t, in.Priority)
	require.False(t, in.AssigneeSet)
}

func TestListIssuesHandler(t *testing.T) {
	t.Cleanup(restore)
	listIssues = func(_ context.Context, _ database.DB, caller authz.Caller, projectID int, _ store.Page) ([]model.Issue, int, error) {
		if caller.ID != 1 {
			return nil, 0, apperror.Permission("You do not have permission to perform this action.")
		}
		return []model.Issue{{ID: 3, ProjectID: projectID, Title: "crash", AuthorUsername: "alice"}}, 1, nil
	}

	c, rec := newCtx(http.MethodGet, "/projects/5/issues", "", 2, "project_id", "5")
	require.NoError(t, ListIssuesHandler(nil)(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newCtx(http.MethodGet, "/projects/5/issues", "", 1, "project_id", "5")
	require.NoError(t, ListIssuesHandler(nil)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"author":"alice"`)
	require.Contains(t, rec.Body.String(), `"project":5`)
}

func TestCreateIssueHandler(t *testing.T) {
	t.Run("assignee not a contributor", func(t *testing.T) {
		t.Cleanup(restore)
		createIssue = func(_ context.Context, _ database.DB, _ authz.Caller, _ int, in service.IssueInput) (*model.Issue, error) {
			require.True(t, in.AssigneeSet)
			require.Equal(t, 4, *in.Assignee)
			return nil, apperror.Field("assignee", "Assignee must be a contributor of the project.")
		}
		c, rec := newCtx(http.MethodPost, "/projects/5/issues", `{"title":"x","tag":"BUG","priority":"LOW","assignee":4}`, 1, "project_id", "5")
		require.NoError(t, CreateIssueHandler(nil)(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `"assignee"`)
	})

	t.Run("created", func(t *testing.T) {
		t.Cleanup(restore)
		createIssue = func(_ context.Context, _ database.DB, caller authz.Caller, projectID int, in service.IssueInput) (*model.Issue, error) {
			require.Equal(t, model.PriorityHigh, *in.Priority)
			return &model.Issue{ID: 8, ProjectID: projectID, AuthorID: caller.ID, Status: model.StatusToDo, Priority: *in.Priority}, nil
		}
		c, rec := newCtx(http.MethodPost, "/projects/5/issues", `{"title":"x","tag":"BUG","priority":"HIGH"}`, 1, "project_id", "5")
		require.NoError(t, CreateIssueHandler(nil)(c))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"TO_DO"`)
		require.Contains(t, rec.Body.String(), `"assignee":null`)
	})
}

func TestGetIssueHandler(t *testing.T) {
	t.Cleanup(restore)
	getIssue = func(_ context.Context, _ database.DB, _ authz.Caller, projectID, issueID int) (*model.Issue, error) {
		if projectID != 5 {
			return nil, apperror.NotFound("Issue not found.")
		}
		return &model.Issue{ID: issueID, ProjectID: projectID}, nil
	}

	c, rec := newCtx(http.MethodGet, "/projects/6/issues/3", "", 1, "project_id", "6", "issue_id", "3")
	require.NoError(t, GetIssueHandler(nil)(c))
	require.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = newCtx(http.MethodGet, "/projects/5/issues/3", "", 1, "project_id", "5", "issue_id", "3")
	require.NoError(t, GetIssueHandler(nil)(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateIssueHandler(t *testing.T) {
	t.Cleanup(restore)
	var got service.IssueInput
	updateIssue = func(_ context.Context, _ database.DB, _ authz.Caller, projectID, issueID int, action authz.Action, in service.IssueInput) (*model.Issue, error) {
		require.Equal(t, authz.ActionPartialUpdate, action)
		got = in
		return &model.Issue{ID: issueID, ProjectID: projectID, AssigneeID: in.Assignee}, nil
	}

	c, rec := newCtx(http.MethodPatch, "/projects/5/issues/3", `{"assignee":null}`, 1, "project_id", "5", "issue_id", "3")
	require.NoError(t, UpdateIssueHandler(nil)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, got.AssigneeSet)
	require.Nil(t, got.Assignee)

	c, rec = newCtx(http.MethodPatch, "/projects/5/issues/3", `{"status":"IN_PROGRESS"}`, 1, "project_id", "5", "issue_id", "3")
	require.NoError(t, UpdateIssueHandler(nil)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, got.AssigneeSet)
	require.Equal(t, model.StatusInProgress, *got.Status)
}

func TestDeleteIssueHandler(t *testing.T) {
	t.Cleanup(restore)
	deleteIssue = func(_ context.Context, _ database.DB, caller authz.Caller, _, _ int) error {
		if caller.ID != 1 {
			return apperror.Permission("You do not have permission to perform this action.")
		}
		return nil
	}

	c, rec := newCtx(http.MethodDelete, "/projects/5/issues/3", "", 2, "project_id", "5", "issue_id", "3")
	require.NoError(t, DeleteIssueHandler(nil)(c))
	require.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newCtx(http.MethodDelete, "/projects/5/issues/3", "", 1, "project_id", "5", "issue_id", "3")
	require.NoError(t, DeleteIssueHandler(nil)(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
