// File: internal/model/user.go
package model

import "time"

// MinimumAge 註冊與更新時允許的最低年齡
const MinimumAge = 15

type User struct {
	ID              int       `db:"id" json:"id"`
	Username        string    `db:"username" json:"username"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	Age             int       `db:"age" json:"age"`
	CanBeContacted  bool      `db:"can_be_contacted" json:"can_be_contacted"`
	CanDataBeShared bool      `db:"can_data_be_shared" json:"can_data_be_shared"`
	IsSuperuser     bool      `db:"is_superuser" json:"is_superuser"`
	CreatedTime     time.Time `db:"created_time" json:"created_time"`
}
