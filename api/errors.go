// Package api 对外 HTTP 接口：系列目录、模板目录与 PDF 生成。
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError 统一的错误响应体。
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError 400。
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError 400，指明出错字段。
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("字段校验失败: %s", field),
	}
}

// NewUpstreamError 502，上游数据源不可用。
func NewUpstreamError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadGateway,
		Code:    "UPSTREAM_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewInternalError 500。
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// ErrorHandler 统一错误处理，挂到 e.HTTPErrorHandler。
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "服务内部错误",
			Details: err.Error(),
		}
	}

	c.JSON(apiErr.Status, apiErr)
}
