package apiclient

import (
	"errors"
	"fmt"
)

var (
	ErrMissingBaseURL = errors.New("apiclient: base URL is required")
	ErrInvalidBaseURL = errors.New("apiclient: base URL is invalid")
	ErrEncodeBody     = errors.New("apiclient: failed to encode request body")
)

// Error is the classified outcome of a failed request.
type Error struct {
	Kind    Kind
	Code    int    // panel API response code, 0 when the request never reached a verdict
	Message string // server-supplied message when available
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("apiclient: %s (code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("apiclient: %s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// AsError extracts the classified transport error from err, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
