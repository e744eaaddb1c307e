// Package service 實作各資源的業務流程：解析路徑上的資源、執行兩階段授權，
// 通過後才呼叫 store。呼叫者 (authz.Caller) 一律由參數明確傳入。
package service

import (
	"context"
	"fmt"
	"strings"

	"tasktracker/internal/apperror"
	"tasktracker/internal/authz"
	"tasktracker/internal/database"
	"tasktracker/internal/model"
	"tasktracker/internal/store"

	"github.com/sirupsen/logrus"
)

// store 函式，測試時可覆寫
var (
	getUserByID         = store.GetUserByID
	getUserByUsername   = store.GetUserByUsername
	createUser          = store.CreateUser
	updateUser          = store.UpdateUser
	listUsers           = store.ListUsers
	deleteUserCascade   = store.DeleteUserCascade
	ensureSuperuser     = store.EnsureSuperuser
	getProjectByID      = store.GetProjectByID
	isContributor       = store.IsContributor
	createProject       = store.CreateProjectWithAuthor
	listProjectsForUser = store.ListProjectsForUser
	updateProject       = store.UpdateProject
	deleteProject       = store.DeleteProject
	listContributors    = store.ListContributors
	getContributor      = store.GetContributor
	createContributor   = store.CreateContributor
	updateContributor   = store.UpdateContributor
	deleteContributor   = store.DeleteContributor
	listIssues          = store.ListIssues
	getIssue            = store.GetIssue
	createIssue         = store.CreateIssue
	updateIssue         = store.UpdateIssue
	deleteIssue         = store.DeleteIssue
	listComments        = store.ListComments
	getComment          = store.GetComment
	createComment       = store.CreateComment
	updateComment       = store.UpdateComment
	deleteComment       = store.DeleteComment
)

const (
	msgPermissionDenied = "You do not have permission to perform this action."
	maxTitleLength      = 100
)

func deny(caller authz.Caller, action authz.Action, kind authz.Kind, id any) error {
	logrus.WithFields(logrus.Fields{
		"caller": caller.ID,
		"action": action,
		"kind":   kind,
		"target": id,
	}).Debug("permission denied")
	return apperror.Permission(msgPermissionDenied)
}

// projectScope 路徑上的專案與呼叫者在其中的關係
type projectScope struct {
	project  *model.Project
	standing authz.Standing
}

// resolveProject 載入專案 (不存在為 404) 並計算 Standing，再執行集合層授權
func resolveProject(ctx context.Context, db database.DB, caller authz.Caller, projectID int, action authz.Action, kind authz.Kind) (*projectScope, error) {
	p, err := getProjectByID(ctx, db, projectID)
	if err != nil {
		return nil, err
	}
	member, err := isContributor(ctx, db, p.ID, caller.ID)
	if err != nil {
		return nil, err
	}
	scope := &projectScope{
		project:  p,
		standing: authz.Standing{ProjectID: p.ID, AuthorID: p.AuthorID, Contributor: member},
	}
	if !authz.AllowCollection(caller, action, kind, scope.standing) {
		return nil, deny(caller, action, kind, projectID)
	}
	return scope, nil
}

func validateTitle(field, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return apperror.Field(field, "This field may not be blank.")
	}
	if len([]rune(title)) > maxTitleLength {
		return apperror.Field(field, fmt.Sprintf("Ensure this field has no more than %d characters.", maxTitleLength))
	}
	return nil
}

// mergeFields 合併多個欄位驗證錯誤；全部為 nil 時回傳 nil
func mergeFields(errs ...error) error {
	fields := map[string]string{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		e, ok := err.(*apperror.Error)
		if !ok || e.Kind != apperror.KindValidation {
			return err
		}
		for k, v := range e.Fields {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperror.Validation("Invalid input.", fields)
}

func requiredField(field string) error {
	return apperror.Field(field, "This field is required.")
}
