// File: internal/model/contributor.go
package model

import "time"

// Contributor 使用者與專案的關聯，(user_id, project_id) 唯一
type Contributor struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user"`
	ProjectID    int       `db:"project_id" json:"project"`
	DateJoined   time.Time `db:"date_joined" json:"date_joined"`
	Username     string    `db:"username" json:"username"`
	ProjectTitle string    `db:"project_title" json:"project_title"`
}
