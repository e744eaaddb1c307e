// File: internal/api/signup_request.go
package api

// swagger:model api.SignupRequest
type SignupRequest struct {
	Username        string `json:"username" form:"username" validate:"required,max=150" example:"alice"`
	Password        string `json:"password" form:"password" validate:"required" example:"Secret123!"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required" example:"Secret123!"`
	Age             int    `json:"age" form:"age" validate:"gte=0" example:"20"`
	CanBeContacted  bool   `json:"can_be_contacted" form:"can_be_contacted" example:"false"`
	CanDataBeShared bool   `json:"can_data_be_shared" form:"can_data_be_shared" example:"false"`
}

// UpdateUserRequest 未提供的欄位不變 (PUT 與 PATCH 相同)
// swagger:model api.UpdateUserRequest
type UpdateUserRequest struct {
	Username        *string `json:"username" form:"username" validate:"omitempty,max=150" example:"alice"`
	Password        *string `json:"password" form:"password" example:"NewSecret123!"`
	Age             *int    `json:"age" form:"age" validate:"omitempty,gte=0" example:"21"`
	CanBeContacted  *bool   `json:"can_be_contacted" form:"can_be_contacted" example:"true"`
	CanDataBeShared *bool   `json:"can_data_be_shared" form:"can_data_be_shared" example:"false"`
}
