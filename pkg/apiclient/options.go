package apiclient

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/purchasekit/pkg/i18n"
)

// Option configures a Client instance.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Useful for custom
// transports, proxies, or testing.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource sets the read-only credential source used to annotate every
// request with the session token.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		c.tokens = src
	}
}

// WithAuthInvalidHandler sets the session teardown side effect fired on
// auth-invalid responses. Typically (*session.Manager).Destroy, which
// guarantees the teardown runs exactly once per session.
func WithAuthInvalidHandler(fn func()) Option {
	return func(c *Client) {
		c.onAuthInvalid = fn
	}
}

// WithNotifier sets the sink for user-visible failure notifications.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithTranslator sets the translator used to localize failure notifications by
// response code.
func WithTranslator(t *i18n.Translator) Option {
	return func(c *Client) {
		c.translator = t
	}
}

// WithLanguage sets the language used for notification lookups.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.lang = lang
		}
	}
}

// WithLogger sets the structured logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithAuthInvalidCodes replaces the set of response codes treated as session
// invalidation. Defaults to the panel API's fixed set.
func WithAuthInvalidCodes(codes ...int) Option {
	return func(c *Client) {
		if len(codes) == 0 {
			return
		}
		c.authInvalidCodes = make(map[int]struct{}, len(codes))
		for _, code := range codes {
			c.authInvalidCodes[code] = struct{}{}
		}
	}
}
