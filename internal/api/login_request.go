package api

// swagger:model api.LoginRequest
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required" example:"alice"`
	Password string `json:"password" form:"password" validate:"required" example:"Secret123!"`
}

// swagger:model api.RefreshRequest
type RefreshRequest struct {
	RefreshToken string `json:"refresh" form:"refresh" validate:"required" example:"..."`
}
