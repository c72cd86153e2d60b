package connect

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx answer from the platform.
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

// ErrorResponse is the platform's error envelope.
type ErrorResponse struct {
	Code   string   `json:"error_code"`
	Errors []string `json:"errors"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("connect api error: %s (status: %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("connect api error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
