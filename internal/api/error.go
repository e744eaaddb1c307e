// File: internal/api/error.go
package api

import (
	"errors"
	"fmt"
	"net/http"

	"tasktracker/internal/apperror"
	"tasktracker/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const msgInternal = "internal server error"

// errorObserver 每次錯誤回應時以 kind 呼叫，預設不做事
var errorObserver = func(kind string) {}

// ObserveErrors 註冊錯誤回應的觀察者 (例如 metrics)
func ObserveErrors(fn func(kind string)) {
	errorObserver = fn
}

var statusByKind = map[apperror.Kind]int{
	apperror.KindValidation: http.StatusBadRequest,
	apperror.KindPermission: http.StatusForbidden,
	apperror.KindNotFound:   http.StatusNotFound,
	apperror.KindConflict:   http.StatusConflict,
}

// WriteError 將 service / validator 錯誤轉為 JSON 回應
func WriteError(c echo.Context, err error) error {
	var (
		appErr  *apperror.Error
		vErrs   validator.ValidationErrors
		httpErr *echo.HTTPError
	)
	switch {
	case service.IsAuthError(err):
		errorObserver("unauthorized")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: service.AuthErrorMessage(err)})

	case errors.As(err, &vErrs):
		errorObserver(apperror.KindValidation.String())
		fields := lo.SliceToMap(vErrs, func(fe validator.FieldError) (string, string) {
			return fe.Field(), validationMessage(fe)
		})
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid input.", Fields: fields})

	case errors.As(err, &appErr):
		if status, ok := statusByKind[appErr.Kind]; ok {
			errorObserver(appErr.Kind.String())
			return c.JSON(status, ErrorResponse{Message: appErr.Message, Fields: appErr.Fields})
		}

	case errors.As(err, &httpErr):
		errorObserver(http.StatusText(httpErr.Code))
		return c.JSON(httpErr.Code, ErrorResponse{Message: fmt.Sprint(httpErr.Message)})
	}

	errorObserver(apperror.KindInternal.String())
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"uri":    c.Request().RequestURI,
	}).Error("unhandled error")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: msgInternal})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// BindError 請求本文無法解析
func BindError(err error) error {
	return apperror.Validation("Malformed request body.", map[string]string{"body": err.Error()})
}
