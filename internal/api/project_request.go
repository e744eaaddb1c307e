// File: internal/api/project_request.go
package api

// swagger:model api.ProjectRequest
type ProjectRequest struct {
	Title       *string `json:"title" form:"title" validate:"omitempty,max=100" example:"Mobile app"`
	Description *string `json:"description" form:"description" example:"Next release"`
	Type        *string `json:"type" form:"type" validate:"omitempty,oneof=back-end front-end ios android" example:"back-end"`
}

// swagger:model api.ContributorRequest
type ContributorRequest struct {
	User int `json:"user" form:"user" validate:"required,gt=0" example:"2"`
}

// ContributorPatchRequest PATCH 時 user 可省略，省略則不變更
// swagger:model api.ContributorPatchRequest
type ContributorPatchRequest struct {
	User int `json:"user" form:"user" validate:"omitempty,gt=0" example:"2"`
}

// swagger:model api.IssueRequest
type IssueRequest struct {
	Title       *string     `json:"title" form:"title" validate:"omitempty,max=100" example:"Crash on login"`
	Description *string     `json:"description" form:"description" example:"Steps to reproduce"`
	Tag         *string     `json:"tag" form:"tag" example:"BUG"`
	Priority    *string     `json:"priority" form:"priority" example:"HIGH"`
	Status      *string     `json:"status" form:"status" example:"TO_DO"`
	Assignee    NullableInt `json:"assignee" form:"assignee" swaggertype:"integer" example:"2"`
}

// swagger:model api.CommentRequest
type CommentRequest struct {
	Text *string `json:"text" form:"text" example:"Reproduced on iOS 17"`
}
