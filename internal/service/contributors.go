package service

import (
	"context"

	"tasktracker/internal/apperror"
	"tasktracker/internal/authz"
	"tasktracker/internal/database"
	"tasktracker/internal/model"
	"tasktracker/internal/store"
)

const msgAuthorContributor = "The project author cannot be removed from its contributors."

func ListContributors(ctx context.Context, db database.DB, caller authz.Caller, projectID int, page store.Page) ([]model.Contributor, int, error) {
	if _, err := resolveProject(ctx, db, caller, projectID, authz.ActionList, authz.KindContributor); err != nil {
		return nil, 0, err
	}
	return listContributors(ctx, db, projectID, page)
}

func loadContributor(ctx context.Context, db database.DB, caller authz.Caller, projectID, contributorID int, action authz.Action) (*projectScope, *model.Contributor, error) {
	scope, err := resolveProject(ctx, db, caller, projectID, action, authz.KindContributor)
	if err != nil {
		return nil, nil, err
	}
	c, err := getContributor(ctx, db, projectID, contributorID)
	if err != nil {
		return nil, nil, err
	}
	if !authz.AllowObject(caller, action, authz.KindContributor, scope.standing, authz.Contributor(c)) {
		return nil, nil, deny(caller, action, authz.KindContributor, contributorID)
	}
	return scope, c, nil
}

func GetContributor(ctx context.Context, db database.DB, caller authz.Caller, projectID, contributorID int) (*model.Contributor, error) {
	_, c, err := loadContributor(ctx, db, caller, projectID, contributorID, authz.ActionRetrieve)
	return c, err
}

// ensureUserExists 目標使用者不存在時回傳 user 欄位的驗證錯誤
func ensureUserExists(ctx context.Context, db database.DB, userID int) error {
	if userID <= 0 {
		return requiredField("user")
	}
	if _, err := getUserByID(ctx, db, userID); err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.Field("user", "Invalid pk - object does not exist.")
		}
		return err
	}
	return nil
}

// AddContributor 重複加入同一使用者回傳 Conflict
func AddContributor(ctx context.Context, db database.DB, caller authz.Caller, projectID, userID int) (*model.Contributor, error) {
	if _, err := resolveProject(ctx, db, caller, projectID, authz.ActionCreate, authz.KindContributor); err != nil {
		return nil, err
	}
	if err := ensureUserExists(ctx, db, userID); err != nil {
		return nil, err
	}
	return createContributor(ctx, db, projectID, userID)
}

// UpdateContributor 將紀錄改指向另一個使用者；作者本身的紀錄不可移動。
// userID 為 0 時 PATCH 不變更，PUT 回傳欄位必填錯誤
func UpdateContributor(ctx context.Context, db database.DB, caller authz.Caller, projectID, contributorID int, action authz.Action, userID int) (*model.Contributor, error) {
	scope, c, err := loadContributor(ctx, db, caller, projectID, contributorID, action)
	if err != nil {
		return nil, err
	}
	if userID == 0 {
		if action == authz.ActionPartialUpdate {
			return c, nil
		}
		return nil, requiredField("user")
	}
	if userID == c.UserID {
		return c, nil
	}
	if c.UserID == scope.project.AuthorID {
		return nil, apperror.Field("user", msgAuthorContributor)
	}
	if err := ensureUserExists(ctx, db, userID); err != nil {
		return nil, err
	}
	return updateContributor(ctx, db, projectID, contributorID, userID)
}

func RemoveContributor(ctx context.Context, db database.DB, caller authz.Caller, projectID, contributorID int) error {
	scope, c, err := loadContributor(ctx, db, caller, projectID, contributorID, authz.ActionDestroy)
	if err != nil {
		return err
	}
	if c.UserID == scope.project.AuthorID {
		return apperror.Validation(msgAuthorContributor, nil)
	}
	return deleteContributor(ctx, db, projectID, contributorID)
}
