// File: internal/api/response.go
package api

// ErrorResponse 全域錯誤響應模型
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	// message 錯誤描述
	Message string `json:"message" example:"You do not have permission to perform this action."`
	// fields 欄位層級的驗證錯誤
	Fields map[string]string `json:"fields,omitempty"`
}

// swagger:model api.TokenResponse
type TokenResponse struct {
	AccessToken  string `json:"access" example:"..."`
	RefreshToken string `json:"refresh" example:"..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int    `json:"expires_in" example:"3600"`
}

// Page 列表回應
type Page[T any] struct {
	Count   int `json:"count" example:"1"`
	Results []T `json:"results"`
}

func NewPage[T any](results []T, count int) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Count: count, Results: results}
}
