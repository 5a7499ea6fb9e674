package api

import (
	"errors"
	"net/http"
	"time"
)

type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "unauthorized"}
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "not found"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "internal server error"}
	ErrDeviceRequired = &AppError{Code: http.StatusBadRequest, Message: "device id required"}
	ErrValidation     = &AppError{Code: http.StatusBadRequest, Message: "validation error"}
)

func NewBadRequestError(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: msg}
}

func NewValidationError(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

// QuotaExceededError rejects a chat message when the free-tier daily
// allowance is spent. It carries everything the client needs to render a
// "try again at <time>" state instead of a generic failure.
type QuotaExceededError struct {
	ResetAt   time.Time
	IsPremium bool
}

func (e *QuotaExceededError) Error() string {
	return "daily message limit exceeded"
}

type quotaExceededBody struct {
	Error             string    `json:"error"`
	Code              string    `json:"code"`
	RemainingMessages int       `json:"remaining_messages"`
	ResetAt           time.Time `json:"reset_at"`
	IsPremium         bool      `json:"is_premium"`
}

func HandleError(w http.ResponseWriter, err error) {
	var quotaErr *QuotaExceededError
	if errors.As(err, &quotaErr) {
		writeJSON(w, http.StatusTooManyRequests, quotaExceededBody{
			Error:             quotaErr.Error(),
			Code:              "MESSAGE_LIMIT_EXCEEDED",
			RemainingMessages: 0,
			ResetAt:           quotaErr.ResetAt,
			IsPremium:         quotaErr.IsPremium,
		})
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		JSONErrorMessage(w, appErr.Code, appErr.Message)
		return
	}
	JSONErrorMessage(w, http.StatusInternalServerError, "internal server error")
}
