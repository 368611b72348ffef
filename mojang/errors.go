package mojang

import (
	"errors"
	"fmt"
	"net/http"
)

// Preconditions rejected before any network I/O.
var (
	ErrTooManyNames    = errors.New("at most 10 names per batch lookup")
	ErrInvalidUsername = errors.New("usernames are 3 to 16 ASCII characters")
)

// Error is returned for any request that ends on a non-2xx status, including
// retry exhaustion. Status holds the last observed HTTP status, or 0 when the
// transport itself failed. Detail carries the server-provided error message
// when the error body could be parsed.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	switch {
	case e.Status == 0:
		return "mojang: " + e.Detail
	case e.Detail == "":
		return fmt.Sprintf("mojang: HTTP %d", e.Status)
	default:
		return fmt.Sprintf("mojang: HTTP %d: %s", e.Status, e.Detail)
	}
}

// MalformedResponseError is returned when the server answered 2xx but the
// body did not have the documented shape. It unwraps to an *Error with
// Status 200, so a single errors.As target of *Error catches both kinds.
type MalformedResponseError struct {
	Detail string
}

func (e *MalformedResponseError) Error() string {
	return "mojang: malformed response: " + e.Detail
}

func (e *MalformedResponseError) Unwrap() error {
	return &Error{Status: http.StatusOK, Detail: e.Detail}
}

func malformedf(format string, v ...any) *MalformedResponseError {
	return &MalformedResponseError{Detail: fmt.Sprintf(format, v...)}
}
