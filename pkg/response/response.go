package response

import (
	"errors"
	"net/http"

	"vims/pkg/apperror"
)

// Response is the standard API envelope returned by every handler.
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success wraps data in a success envelope.
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error wraps an error message in an error envelope.
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// FromError maps a service error to the envelope plus the HTTP status
// implied by its apperror category. Uncategorized errors map to 500.
func FromError(err error) (int, Response) {
	code := http.StatusInternalServerError
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperror.KindNotFound:
			code = http.StatusNotFound
		case apperror.KindValidation:
			code = http.StatusBadRequest
		case apperror.KindPermission:
			code = http.StatusForbidden
		case apperror.KindConflict:
			code = http.StatusConflict
		}
	}
	return code, Error(code, err.Error())
}
