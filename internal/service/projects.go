package service

import (
	"context"

	"tasktracker/internal/apperror"
	"tasktracker/internal/authz"
	"tasktracker/internal/database"
	"tasktracker/internal/model"
	"tasktracker/internal/store"
)

// ProjectInput nil 欄位表示未提供
type ProjectInput struct {
	Title       *string
	Description *string
	Type        *model.ProjectType
}

// ProjectDetail 專案與其 contributors
type ProjectDetail struct {
	model.Project
	Contributors []model.Contributor `json:"contributors"`
}

func validateProjectType(t model.ProjectType) error {
	if !t.Valid() {
		return apperror.Field("type", `"`+string(t)+`" is not a valid choice.`)
	}
	return nil
}

// applyProjectInput full 為 true 時 title 與 type 為必填
func applyProjectInput(p *model.Project, in ProjectInput, full bool) error {
	var titleErr, typeErr error
	switch {
	case in.Title != nil:
		titleErr = validateTitle("title", *in.Title)
		p.Title = *in.Title
	case full:
		titleErr = requiredField("title")
	}
	switch {
	case in.Type != nil:
		typeErr = validateProjectType(*in.Type)
		p.Type = *in.Type
	case full:
		typeErr = requiredField("type")
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	return mergeFields(titleErr, typeErr)
}

// CreateProject 作者同時成為 contributor
func CreateProject(ctx context.Context, db database.DB, caller authz.Caller, in ProjectInput) (*model.Project, error) {
	if !authz.AllowCollection(caller, authz.ActionCreate, authz.KindProject, authz.Standing{}) {
		return nil, deny(caller, authz.ActionCreate, authz.KindProject, nil)
	}
	p := &model.Project{AuthorID: caller.ID}
	if err := applyProjectInput(p, in, true); err != nil {
		return nil, err
	}
	return createProject(ctx, db, p)
}

// ListProjects 呼叫者為作者或 contributor 的專案；
// userFilter 指定其他使用者時回傳空集合
func ListProjects(ctx context.Context, db database.DB, caller authz.Caller, userFilter *int, page store.Page) ([]model.Project, int, error) {
	if userFilter != nil && *userFilter != caller.ID {
		return []model.Project{}, 0, nil
	}
	return listProjectsForUser(ctx, db, caller.ID, page)
}

func loadProject(ctx context.Context, db database.DB, caller authz.Caller, projectID int, action authz.Action) (*projectScope, error) {
	scope, err := resolveProject(ctx, db, caller, projectID, action, authz.KindProject)
	if err != nil {
		return nil, err
	}
	if !authz.AllowObject(caller, action, authz.KindProject, scope.standing, authz.Project(scope.project)) {
		return nil, deny(caller, action, authz.KindProject, projectID)
	}
	return scope, nil
}

func GetProject(ctx context.Context, db database.DB, caller authz.Caller, projectID int) (*ProjectDetail, error) {
	scope, err := loadProject(ctx, db, caller, projectID, authz.ActionRetrieve)
	if err != nil {
		return nil, err
	}
	contributors, _, err := listContributors(ctx, db, projectID, store.Unpaged)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: *scope.project, Contributors: contributors}, nil
}

// UpdateProject action 為 update (完整) 或 partial_update
func UpdateProject(ctx context.Context, db database.DB, caller authz.Caller, projectID int, action authz.Action, in ProjectInput) (*model.Project, error) {
	scope, err := loadProject(ctx, db, caller, projectID, action)
	if err != nil {
		return nil, err
	}
	p := *scope.project
	if err := applyProjectInput(&p, in, action == authz.ActionUpdate); err != nil {
		return nil, err
	}
	return updateProject(ctx, db, &p)
}

func DeleteProject(ctx context.Context, db database.DB, caller authz.Caller, projectID int) error {
	if _, err := loadProject(ctx, db, caller, projectID, authz.ActionDestroy); err != nil {
		return err
	}
	return deleteProject(ctx, db, projectID)
}
