package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure. Kinds map 1:1 onto HTTP status codes and
// are serialized verbatim in the response envelope.
type Kind string

const (
	Validation      Kind = "ValidationError"
	Authentication  Kind = "AuthenticationError"
	Authorization   Kind = "AuthorizationError"
	NotFound        Kind = "NotFoundError"
	UpstreamParse   Kind = "UpstreamParseError"
	UpstreamService Kind = "UpstreamServiceError"
	Persistence     Kind = "PersistenceError"
)

// Status returns the HTTP status code for the kind
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case UpstreamParse, UpstreamService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified API error
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// envelope is the wire format for failures: {"error": kind, "message": text}
type envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Write serializes err as a JSON error envelope. Unclassified errors become
// opaque 500s so internal details never leak to clients.
func Write(w http.ResponseWriter, err error) {
	kind := Kind("InternalError")
	message := "Internal Server Error"
	status := http.StatusInternalServerError

	var apiErr *Error
	if errors.As(err, &apiErr) {
		kind = apiErr.Kind
		message = apiErr.Message
		status = apiErr.Kind.Status()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: string(kind), Message: message})
}
