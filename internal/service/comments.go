package service

import (
	"context"
	"strings"

	"tasktracker/internal/apperror"
	"tasktracker/internal/authz"
	"tasktracker/internal/database"
	"tasktracker/internal/model"
	"tasktracker/internal/store"
)

type CommentInput struct {
	Text *string
}

func commentText(in CommentInput) (string, error) {
	if in.Text == nil {
		return "", requiredField("text")
	}
	if strings.TrimSpace(*in.Text) == "" {
		return "", apperror.Field("text", "This field may not be blank.")
	}
	return *in.Text, nil
}

// resolveIssue 載入路徑上的 issue；issue 不屬於該專案時為 404
func resolveIssue(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int, action authz.Action) (*projectScope, *model.Issue, error) {
	scope, err := resolveProject(ctx, db, caller, projectID, action, authz.KindComment)
	if err != nil {
		return nil, nil, err
	}
	i, err := getIssue(ctx, db, projectID, issueID)
	if err != nil {
		return nil, nil, err
	}
	return scope, i, nil
}

func ListComments(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int, page store.Page) ([]model.Comment, int, error) {
	if _, _, err := resolveIssue(ctx, db, caller, projectID, issueID, authz.ActionList); err != nil {
		return nil, 0, err
	}
	return listComments(ctx, db, issueID, page)
}

func CreateComment(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int, in CommentInput) (*model.Comment, error) {
	if _, _, err := resolveIssue(ctx, db, caller, projectID, issueID, authz.ActionCreate); err != nil {
		return nil, err
	}
	text, err := commentText(in)
	if err != nil {
		return nil, err
	}
	return createComment(ctx, db, &model.Comment{Text: text, IssueID: issueID, AuthorID: caller.ID})
}

func loadComment(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int, commentID string, action authz.Action) (*model.Comment, error) {
	scope, _, err := resolveIssue(ctx, db, caller, projectID, issueID, action)
	if err != nil {
		return nil, err
	}
	cm, err := getComment(ctx, db, issueID, commentID)
	if err != nil {
		return nil, err
	}
	if !authz.AllowObject(caller, action, authz.KindComment, scope.standing, authz.Comment(cm, projectID)) {
		return nil, deny(caller, action, authz.KindComment, commentID)
	}
	return cm, nil
}

func GetComment(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int, commentID string) (*model.Comment, error) {
	return loadComment(ctx, db, caller, projectID, issueID, commentID, authz.ActionRetrieve)
}

// UpdateComment 只有留言作者可修改，text 為唯一可改欄位
func UpdateComment(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int, commentID string, action authz.Action, in CommentInput) (*model.Comment, error) {
	cm, err := loadComment(ctx, db, caller, projectID, issueID, commentID, action)
	if err != nil {
		return nil, err
	}
	if in.Text == nil && action == authz.ActionPartialUpdate {
		return cm, nil
	}
	text, err := commentText(in)
	if err != nil {
		return nil, err
	}
	cm.Text = text
	return updateComment(ctx, db, cm)
}

func DeleteComment(ctx context.Context, db database.DB, caller authz.Caller, projectID, issueID int, commentID string) error {
	if _, err := loadComment(ctx, db, caller, projectID, issueID, commentID, authz.ActionDestroy); err != nil {
		return err
	}
	return deleteComment(ctx, db, issueID, commentID)
}
