// File: internal/model/project.go
package model

import "time"

type ProjectType string

const (
	ProjectTypeBackEnd  ProjectType = "back-end"
	ProjectTypeFrontEnd ProjectType = "front-end"
	ProjectTypeIOS      ProjectType = "ios"
	ProjectTypeAndroid  ProjectType = "android"
)

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeBackEnd, ProjectTypeFrontEnd, ProjectTypeIOS, ProjectTypeAndroid:
		return true
	}
	return false
}

type Project struct {
	ID          int         `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description string      `db:"description" json:"description"`
	Type        ProjectType `db:"type" json:"type"`
	AuthorID    int         `db:"author_id" json:"author"`
	CreatedTime time.Time   `db:"created_time" json:"created_time"`
}
