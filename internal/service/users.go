package service

import (
	"context"
	"fmt"

	"tasktracker/internal/apperror"
	"tasktracker/internal/authz"
	"tasktracker/internal/database"
	"tasktracker/internal/model"
	"tasktracker/internal/store"

	"github.com/sirupsen/logrus"
)

var msgMinimumAge = fmt.Sprintf("Users must be at least %d years old.", model.MinimumAge)

type SignupInput struct {
	Username        string
	Password        string
	PasswordConfirm string
	Age             int
	CanBeContacted  bool
	CanDataBeShared bool
}

// UserPatch nil 欄位表示不修改
type UserPatch struct {
	Username        *string
	Password        *string
	Age             *int
	CanBeContacted  *bool
	CanDataBeShared *bool
}

// bcrypt 只接受 72 bytes 以內的密碼
const maxPasswordBytes = 72

func validatePassword(password string) error {
	if password == "" {
		return apperror.Field("password", "This field may not be blank.")
	}
	if len(password) > maxPasswordBytes {
		return apperror.Field("password", fmt.Sprintf("Ensure this field has no more than %d bytes.", maxPasswordBytes))
	}
	return nil
}

func validateAge(age int) error {
	if age < model.MinimumAge {
		return apperror.Field("age", msgMinimumAge)
	}
	return nil
}

// Signup 建立一般使用者帳號
func Signup(ctx context.Context, db database.DB, in SignupInput) (*model.User, error) {
	var confirmErr error
	if in.Password != in.PasswordConfirm {
		confirmErr = apperror.Field("password_confirm", "Passwords must match.")
	}
	if err := mergeFields(validateAge(in.Age), validatePassword(in.Password), confirmErr); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("Signup: %w", err)
	}
	return createUser(ctx, db, &model.User{
		Username:        in.Username,
		PasswordHash:    hash,
		Age:             in.Age,
		CanBeContacted:  in.CanBeContacted,
		CanDataBeShared: in.CanDataBeShared,
	})
}

// ListUsers 非管理者取得空集合
func ListUsers(ctx context.Context, db database.DB, caller authz.Caller, page store.Page) ([]model.User, int, error) {
	if !authz.CanListUsers(caller) {
		return []model.User{}, 0, nil
	}
	return listUsers(ctx, db, page)
}

func loadUser(ctx context.Context, db database.DB, caller authz.Caller, userID int, action authz.Action) (*model.User, error) {
	u, err := getUserByID(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	if !authz.Allow(caller, action, authz.KindUser, authz.Standing{}, authz.User(u)) {
		return nil, deny(caller, action, authz.KindUser, userID)
	}
	return u, nil
}

func GetUser(ctx context.Context, db database.DB, caller authz.Caller, userID int) (*model.User, error) {
	return loadUser(ctx, db, caller, userID, authz.ActionRetrieve)
}

// UpdateUser 先驗證並完成密碼哈希，再以單一 UPDATE 寫入；任何驗證失敗都不會修改資料。
// 年齡下限在更新時同樣適用
func UpdateUser(ctx context.Context, db database.DB, caller authz.Caller, userID int, action authz.Action, in UserPatch) (*model.User, error) {
	u, err := loadUser(ctx, db, caller, userID, action)
	if err != nil {
		return nil, err
	}

	var ageErr, passwordErr error
	if in.Age != nil {
		ageErr = validateAge(*in.Age)
	}
	if in.Password != nil {
		passwordErr = validatePassword(*in.Password)
	}
	if err := mergeFields(ageErr, passwordErr); err != nil {
		return nil, err
	}

	if in.Password != nil {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("UpdateUser: %w", err)
		}
		u.PasswordHash = hash
	}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if in.CanBeContacted != nil {
		u.CanBeContacted = *in.CanBeContacted
	}
	if in.CanDataBeShared != nil {
		u.CanDataBeShared = *in.CanDataBeShared
	}
	return updateUser(ctx, db, u)
}

// DeleteUser 連同使用者的專案、issue、留言與 contributor 紀錄一併刪除
func DeleteUser(ctx context.Context, db database.DB, caller authz.Caller, userID int) error {
	if _, err := loadUser(ctx, db, caller, userID, authz.ActionDestroy); err != nil {
		return err
	}
	report, err := deleteUserCascade(ctx, db, userID)
	if err != nil {
		return err
	}
	fields := logrus.Fields{"user_id": userID, "caller": caller.ID}
	for step, n := range report {
		fields[step] = n
	}
	logrus.WithFields(fields).Info("user deleted")
	return nil
}

// BootstrapSuperuser 依設定建立或提升管理者帳號
func BootstrapSuperuser(ctx context.Context, db database.DB, username, password string) (int, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("BootstrapSuperuser: %w", err)
	}
	return ensureSuperuser(ctx, db, username, hash, model.MinimumAge)
}
