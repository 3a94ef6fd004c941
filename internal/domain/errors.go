package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrSecretNotFound = errors.New("secret not found")

	// ErrUnauthenticated means no credential is present or the server rejected a fresh one.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrSessionExpired means the refresh credential itself was rejected.
	ErrSessionExpired          = errors.New("session expired")
	ErrTransientNetworkFailure = errors.New("transient network failure")
	ErrValidationFailure       = errors.New("validation failure")
	ErrServerFailure           = errors.New("server failure")

	ErrItemNotFound        = errors.New("item not found")
	ErrUnknownMutationKind = errors.New("unknown mutation kind")
	ErrWorkflowNotFound    = errors.New("workflow definition not found")
	ErrControllerClosed    = errors.New("controller closed")
)

type ErrorKind string

const (
	ErrorKindUnauthenticated  ErrorKind = "unauthenticated"
	ErrorKindSessionExpired   ErrorKind = "session_expired"
	ErrorKindTransientNetwork ErrorKind = "transient_network_failure"
	ErrorKindValidation       ErrorKind = "validation_failure"
	ErrorKindServer           ErrorKind = "server_failure"
)

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrorKindUnauthenticated:
		return ErrUnauthenticated
	case ErrorKindSessionExpired:
		return ErrSessionExpired
	case ErrorKindTransientNetwork:
		return ErrTransientNetworkFailure
	case ErrorKindValidation:
		return ErrValidationFailure
	case ErrorKindServer:
		return ErrServerFailure
	default:
		return nil
	}
}

// RequestError carries the failure class of a request together with the
// server status and body, which validation failures surface verbatim.
type RequestError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RequestError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel := e.Kind.sentinel(); sentinel != nil {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func NewTransientError(err error) error {
	return &RequestError{Kind: ErrorKindTransientNetwork, Err: err}
}

// ErrorForStatus classifies a non-2xx response. It returns nil for 2xx codes.
func ErrorForStatus(statusCode int, body []byte) error {
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return nil
	}

	text := strings.TrimSpace(string(body))
	switch {
	case statusCode == http.StatusUnauthorized:
		return &RequestError{Kind: ErrorKindUnauthenticated, StatusCode: statusCode, Body: text}
	case statusCode >= http.StatusInternalServerError:
		return &RequestError{Kind: ErrorKindServer, StatusCode: statusCode, Body: text}
	case statusCode >= http.StatusBadRequest:
		return &RequestError{Kind: ErrorKindValidation, StatusCode: statusCode, Body: text}
	default:
		return &RequestError{Kind: ErrorKindServer, StatusCode: statusCode, Body: text}
	}
}
