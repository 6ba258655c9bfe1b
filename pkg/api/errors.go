package api

import (
	"fmt"
	"net/http"
)

// Error is the standard error shape surfaced by every handler.
type Error struct {
	// HTTP status code (e.g., 400, 408, 500)
	Code int
	// Safe message for the client
	Message string
	// Original error for internal logging, never serialized
	Log error
	// Extra fields merged into the JSON body (e.g. taskId on timeouts)
	Fields map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Log
}

// Body builds the JSON payload for the client.
func (e *Error) Body() map[string]interface{} {
	body := map[string]interface{}{"error": e.Message}
	for k, v := range e.Fields {
		body[k] = v
	}
	return body
}

// ConfigError reports a missing provider setting. It is a 500 because the
// caller cannot fix it, but the message points an admin at the settings UI.
func ConfigError(vendor, setting string) *Error {
	return &Error{
		Code:    http.StatusInternalServerError,
		Message: fmt.Sprintf("%s %s not configured. Please configure it in AI Provider Settings.", vendor, setting),
	}
}

// ValidationError reports a bad request body before any network call.
func ValidationError(detail string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: detail}
}

// ValidationFieldsError carries per-field messages from the validator.
func ValidationFieldsError(fields map[string]string) *Error {
	return &Error{
		Code:    http.StatusBadRequest,
		Message: "One or more fields failed validation",
		Fields:  map[string]interface{}{"fields": fields},
	}
}

// VendorError propagates an upstream failure with the vendor's own status
// code and best-effort message.
func VendorError(vendor string, status int, message string, err error) *Error {
	if message == "" {
		message = fmt.Sprintf("%s API error", vendor)
	}
	return &Error{Code: status, Message: message, Log: err}
}

// TimeoutError reports an exhausted poll budget; the task id is returned so
// the caller can resume polling out-of-band.
func TimeoutError(taskID string) *Error {
	return &Error{
		Code:    http.StatusRequestTimeout,
		Message: "Video generation timed out, still processing",
		Fields:  map[string]interface{}{"taskId": taskID},
	}
}

// InternalError is the catch-all for unexpected failures.
func InternalError(msg string, err error) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: msg, Log: err}
}

// NotFoundError creates a standard 404 error.
func NotFoundError(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}
