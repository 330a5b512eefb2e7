package errcodes

import (
	"fmt"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// Forbidden returns a 403 error with a message indicating the action is
// forbidden.
func Forbidden(action string) error {
	return &Error{
		http.StatusForbidden,
		action + " is not allowed.",
		"forbidden",
	}
}

// Unauthorized returns a 401 error with the given message.
func Unauthorized(msg string) error {
	return &Error{
		http.StatusUnauthorized,
		msg,
		"unauthorized",
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " not found.",
		"not_found",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		http.StatusUnsupportedMediaType,
		"Unsupported Media Type",
		"unsupported_media_type",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		fmt.Sprintf("Unknown Parameter %q", param),
		"unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_type_error",
	}
}

// ValidationError reports bad input shape or range, e.g. an out-of-range
// patient age or a dangling foreign key reference.
func ValidationError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_error",
	}
}

// ConstraintError reports a uniqueness or foreign-key violation surfaced by
// the local or remote store.
func ConstraintError(msg string) error {
	return &Error{
		http.StatusConflict,
		msg,
		"constraint_error",
	}
}

// ConnectivityError reports that the remote store's network is unreachable.
// Sync passes abort cleanly with this; queued mutations stay pending.
func ConnectivityError() error {
	return &Error{
		http.StatusServiceUnavailable,
		"Remote store is unreachable.",
		"connectivity_error",
	}
}

// RemoteAPIError reports a remote store failure other than a constraint or
// connectivity problem.
func RemoteAPIError(msg string) error {
	return &Error{
		http.StatusBadGateway,
		msg,
		"remote_api_error",
	}
}

// SyncDisabled reports that a sync operation was requested while the global
// sync toggle is off.
func SyncDisabled() error {
	return &Error{
		http.StatusConflict,
		"Sync is disabled.",
		"sync_disabled",
	}
}

// SyncInProgress reports that a sync pass is already running. Only one pass
// runs at a time; concurrent triggers are rejected rather than queued.
func SyncInProgress() error {
	return &Error{
		http.StatusConflict,
		"A sync pass is already running.",
		"sync_in_progress",
	}
}

func MalformedPayload() error {
	return &Error{
		http.StatusBadRequest,
		"Malformed Payload",
		"malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		http.StatusBadRequest,
		"Request body can't be empty.",
		"empty_request_body",
	}
}
