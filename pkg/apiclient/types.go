package apiclient

import (
	"context"
	"encoding/json"
)

// Kind classifies a failed request outcome.
type Kind string

const (
	// KindAuthInvalid means the session is no longer valid. The client tears the
	// session down as a side effect; callers should not retry.
	KindAuthInvalid Kind = "auth_invalid"
	// KindValidation means the server rejected the request content (e.g. an
	// invalid coupon). The caller's input is preserved for correction.
	KindValidation Kind = "validation"
	// KindTransient means the request never produced a server verdict (network
	// failure, timeout). Safe to retry.
	KindTransient Kind = "transient"
	// KindServerError means an unexpected server-side failure.
	KindServerError Kind = "server_error"
)

// Request describes a single outbound panel API call.
type Request struct {
	Method string
	Path   string
	Body   any // marshaled to JSON when non-nil
	Headers map[string]string
	// SkipErrorNotification suppresses the user-visible failure notification.
	// Auth-invalid session teardown fires regardless of this flag.
	SkipErrorNotification bool
}

// envelope is the panel API response wrapper. Code 200 marks success even when
// the HTTP status differs.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// TokenSource is a read-only view of the session credential.
type TokenSource interface {
	Token() (string, bool)
}

// Notifier receives user-visible transient notifications for failed requests.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }
