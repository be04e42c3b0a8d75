package api

import (
	"errors"
	"fmt"
)

// Kind classifies gateway failures.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidRequest is a malformed endpoint or target; valid input never causes it.
	KindInvalidRequest
	// KindTransport covers connectivity failures and timeouts.
	KindTransport
	// KindDecoding means the response did not have the expected shape.
	KindDecoding
	// KindUnauthorized is an expired, invalid or missing credential.
	KindUnauthorized
	// KindServer is a non-2xx answer, carrying the backend's message when it sent one.
	KindServer
	// KindNotFound means the entity id is unknown to the backend.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid request"
	case KindTransport:
		return "transport failure"
	case KindDecoding:
		return "decoding failure"
	case KindUnauthorized:
		return "unauthorized"
	case KindServer:
		return "server error"
	case KindNotFound:
		return "not found"
	}
	return "unknown error"
}

// Error is returned by every Client operation.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

// Sentinels for errors.Is; only the Kind is compared.
var (
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	ErrTransport      = &Error{Kind: KindTransport}
	ErrDecoding       = &Error{Kind: KindDecoding}
	ErrUnauthorized   = &Error{Kind: KindUnauthorized}
	ErrServer         = &Error{Kind: KindServer}
	ErrNotFound       = &Error{Kind: KindNotFound}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// UserMessage is what a caller should show: the backend's message verbatim
// when it sent one, otherwise a message for the category.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Message != "" && (apiErr.Kind == KindServer || apiErr.Kind == KindNotFound) {
		return apiErr.Message
	}
	switch apiErr.Kind {
	case KindInvalidRequest:
		return "Invalid URL"
	case KindTransport:
		return "Network error, check your connection and try again"
	case KindDecoding:
		return "Unexpected response from the server"
	case KindUnauthorized:
		return "Unauthorized - please log in again"
	case KindNotFound:
		return "Not found"
	case KindServer:
		if apiErr.Status != 0 {
			return fmt.Sprintf("Server error: HTTP %d", apiErr.Status)
		}
		return "Server error"
	}
	return apiErr.Error()
}
