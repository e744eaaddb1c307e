// File: internal/model/issue.go
package model

import "time"

type IssueTag string

const (
	TagBug     IssueTag = "BUG"
	TagFeature IssueTag = "FEATURE"
	TagTask    IssueTag = "TASK"
)

func (t IssueTag) Valid() bool {
	return t == TagBug || t == TagFeature || t == TagTask
}

type IssuePriority string

const (
	PriorityLow    IssuePriority = "LOW"
	PriorityMedium IssuePriority = "MEDIUM"
	PriorityHigh   IssuePriority = "HIGH"
)

func (p IssuePriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type IssueStatus string

const (
	StatusToDo       IssueStatus = "TO_DO"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusFinished   IssueStatus = "FINISHED"
)

func (s IssueStatus) Valid() bool {
	return s == StatusToDo || s == StatusInProgress || s == StatusFinished
}

type Issue struct {
	ID             int           `db:"id" json:"id"`
	Title          string        `db:"title" json:"title"`
	Description    string        `db:"description" json:"description"`
	Tag            IssueTag      `db:"tag" json:"tag"`
	Priority       IssuePriority `db:"priority" json:"priority"`
	Status         IssueStatus   `db:"status" json:"status"`
	ProjectID      int           `db:"project_id" json:"project"`
	AuthorID       int           `db:"author_id" json:"author_id"`
	AuthorUsername string        `db:"author_username" json:"author"`
	AssigneeID     *int          `db:"assignee_id" json:"assignee"`
	CreatedTime    time.Time     `db:"created_time" json:"created_time"`
}
