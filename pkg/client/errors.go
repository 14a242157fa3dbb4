package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError carries the HTTP status and the server's detail message for a
// non-2xx response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
}

// parseAPIError extracts the detail from an error body, tolerating the
// `detail`, `error`, and `message` keys; a missing or unparseable body
// falls back to a generic message.
func parseAPIError(status int, raw []byte) *APIError {
	var body struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	detail := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Detail != "":
			detail = body.Detail
		case body.Error != "":
			detail = body.Error
		case body.Message != "":
			detail = body.Message
		}
	}
	if detail == "" {
		detail = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Status: status, Detail: detail}
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

// IsConflict reports whether err is an APIError with status 409.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 409
}
