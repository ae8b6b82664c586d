package errors

import "net/http"

// Kind classifies service errors so handlers can map them to HTTP codes
// without inspecting message strings.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindInvalidState
	KindInternal
)

// ServiceError is the error type every service operation returns on failure.
type ServiceError struct {
	Kind    Kind
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// StatusCode maps the error kind to its HTTP status.
func (e *ServiceError) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *ServiceError   { return &ServiceError{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *ServiceError     { return &ServiceError{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *ServiceError     { return &ServiceError{Kind: KindConflict, Message: msg} }
func Forbidden(msg string) *ServiceError    { return &ServiceError{Kind: KindForbidden, Message: msg} }
func InvalidState(msg string) *ServiceError { return &ServiceError{Kind: KindInvalidState, Message: msg} }
func Internal(msg string) *ServiceError     { return &ServiceError{Kind: KindInternal, Message: msg} }

// IsKind reports whether err is a ServiceError of the given kind.
func IsKind(err error, kind Kind) bool {
	se, ok := err.(*ServiceError)
	return ok && se.Kind == kind
}
