package service

import (
	"context"

	"tasktracker/internal/apperror"
	"tasktracker/internal/authz"
	"tasktracker/internal/database"
	"tasktracker/internal/model"
	"tasktracker/internal/store"
)

// IssueInput nil 欄位表示未提供；AssigneeSet 區分「未提供」與「設為 null」
type IssueInput struct {
	Title       *string
	Description *string
	Tag         *model.IssueTag
	Priority    *model.IssuePriority
	Status      *model.IssueStatus
	Assignee    *int
	AssigneeSet bool
}

func invalidChoice(field, value string) error {
	return apperror.Field(field, `"`+value+`" is not a valid choice.`)
}

// applyIssueInput full 為 true 時 title、tag、priority 為必填
func applyIssueInput(i *model.Issue, in IssueInput, full bool) error {
	var errs []error
	switch {
	case in.Title != nil:
		errs = append(errs, validateTitle("title", *in.Title))
		i.Title = *in.Title
	case full:
		errs = append(errs, requiredField("title"))
	}
	switch {
	case in.Tag != nil:
		if !in.Tag.Valid() {
			errs = append(errs, invalidChoice("tag", string(*in.Tag)))
		}
		i.Tag = *in.Tag
	case full:
		errs = append(errs, requiredField("tag"))
	}
	switch {
	case in.Priority != nil:
		if !in.Priority.Valid() {
			errs = append(errs, invalidChoice("priority", string(*in.Priority)))
		}
		i.Priority = *in.Priority
	case full:
		errs = append(errs, requiredField("priority"))
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			errs = append(errs, invalidChoice("status", string(*in.Status)))
		}
		i.Status = *in.Status
	}
	if in.Description != nil {
		i.Description = *in.Description
	}
	if in.AssigneeSet {
		i.AssigneeID = in.Assignee
	}
	return mergeFields(errs...)
}

// validateAssignee 指派對象必須是同專案的 contributor；store 寫入時會再檢查一次
func validateAssignee(ctx context.Context, db database.DB, projectID int, assignee *int) error {
	if assignee == nil {
		return nil
	}
	ok, err := isContributor(ctx, db, projectID, *assignee)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Field("assignee", store.AssigneeNotContributor)
	}
	return nil
}

func ListIssues(ctx context.Context, db database.DB, caller authz.Caller, projectID int, page store.Page) ([]model.Issue, int, error) {
	if _, err := resolveProject(ctx, db, caller, projectID, authz.ActionList, authz.KindIssue); err != nil {
		return nil, 0, err
	}
	return listIssues(ctx, db, projectID, page)
}

func CreateIssue(ctx context.Context, db database.DB, caller authz.Caller, projectID int, in IssueInput) (*model.Issue, error) {
	if _, err := resolveProject(ctx, db, caller, projectID, authz.ActionCreate, authz.KindIssue); err != nil {
		return nil, err
	}
	i := &model.Issue{ProjectID: projectID, AuthorID: caller.ID, Status: model.StatusToDo}
	if err := applyIssueInput(i, in, true); err != nil {
		return nil, err
	}
	if err := validateAssignee(ctx, db, projectID, i.AssigneeID); err != nil {
		return nil, err
	}
	return createIssue(ctx, db, i)
}

func loadIssue(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int, action authz.Action) (*projectScope, *model.Issue, error) {
	scope, err := resolveProject(ctx, db, caller, projectID, action, authz.KindIssue)
	if err != nil {
		return nil, nil, err
	}
	i, err := getIssue(ctx, db, projectID, issueID)
	if err != nil {
		return nil, nil, err
	}
	if !authz.AllowObject(caller, action, authz.KindIssue, scope.standing, authz.Issue(i)) {
		return nil, nil, deny(caller, action, authz.KindIssue, issueID)
	}
	return scope, i, nil
}

func GetIssue(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int) (*model.Issue, error) {
	_, i, err := loadIssue(ctx, db, caller, projectID, issueID, authz.ActionRetrieve)
	return i, err
}

// UpdateIssue 只有 issue 作者可修改；指派對象重新檢查
func UpdateIssue(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int, action authz.Action, in IssueInput) (*model.Issue, error) {
	_, current, err := loadIssue(ctx, db, caller, projectID, issueID, action)
	if err != nil {
		return nil, err
	}
	i := *current
	if err := applyIssueInput(&i, in, action == authz.ActionUpdate); err != nil {
		return nil, err
	}
	if in.AssigneeSet {
		if err := validateAssignee(ctx, db, projectID, i.AssigneeID); err != nil {
			return nil, err
		}
	}
	return updateIssue(ctx, db, &i)
}

func DeleteIssue(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int) error {
	if _, _, err := loadIssue(ctx, db, caller, projectID, issueID, authz.ActionDestroy); err != nil {
		return err
	}
	return deleteIssue(ctx, db, projectID, issueID)
}
