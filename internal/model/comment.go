// File: internal/model/comment.go
package model

import "time"

type Comment struct {
	ID             string    `db:"id" json:"id"`
	Text           string    `db:"text" json:"text"`
	IssueID        int       `db:"issue_id" json:"issue"`
	AuthorID       int       `db:"author_id" json:"author_id"`
	AuthorUsername string    `db:"author_username" json:"author"`
	CreatedTime    time.Time `db:"created_time" json:"created_time"`
}
