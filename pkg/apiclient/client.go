package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/purchasekit/pkg/i18n"
	"github.com/dmitrymomot/purchasekit/pkg/logger"
)

// Config holds transport configuration loaded from the environment.
type Config struct {
	BaseURL string        `env:"PANEL_API_URL,required"`
	Timeout time.Duration `env:"PANEL_API_TIMEOUT" envDefault:"15s"`
}

// successCode is the envelope code the panel API uses for successful calls.
const successCode = 200

// genericFailureMessage is the last-resort notification text when neither a
// translation nor a server message is available.
const genericFailureMessage = "Request failed. Please try again later."

// Client is the single chokepoint for all panel API calls. It injects the
// session credential, annotates requests with a correlation ID, classifies
// every response into a success payload or a typed failure, and performs the
// auth-invalid session teardown side effect.
type Client struct {
	baseURL          *url.URL
	httpClient       *http.Client
	tokens           TokenSource
	onAuthInvalid    func()
	notifier         Notifier
	translator       *i18n.Translator
	lang             string
	log              *slog.Logger
	authInvalidCodes map[int]struct{}
}

// New creates a panel API client from the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, ErrInvalidBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		lang: i18n.DefaultLanguage,
		log:  slog.New(slog.DiscardHandler),
		// Session-invalidation codes defined by the panel API.
		authInvalidCodes: map[int]struct{}{
			40002: {}, 40003: {}, 40004: {}, 40005: {},
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do executes a request and returns the envelope data payload on success.
// Failures are returned as *Error with a Kind from the taxonomy; unless the
// request sets SkipErrorNotification, a user-visible notification is emitted
// for every failure. Auth-invalid responses additionally fire the session
// teardown handler regardless of the flag.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	httpReq, reqID, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// The request never produced a server verdict.
		outcome := &Error{Kind: KindTransient, Message: err.Error()}
		c.report(ctx, req, reqID, outcome)
		return nil, outcome
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		outcome := &Error{Kind: KindTransient, Message: err.Error()}
		c.report(ctx, req, reqID, outcome)
		return nil, outcome
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Code == 0 {
		outcome := &Error{
			Kind:    KindServerError,
			Message: http.StatusText(resp.StatusCode),
		}
		c.report(ctx, req, reqID, outcome)
		return nil, outcome
	}

	if env.Code == successCode {
		c.log.DebugContext(ctx, "panel request succeeded",
			logger.Component("apiclient"),
			logger.Path(req.Path),
			logger.RequestID(reqID),
		)
		return env.Data, nil
	}

	outcome := &Error{Kind: c.classify(env.Code), Code: env.Code, Message: env.Message}
	c.report(ctx, req, reqID, outcome)
	return nil, outcome
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, string, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", ErrEncodeBody
		}
		bodyReader = bytes.NewReader(raw)
	}

	// The query string must not be joined as a path segment or it gets escaped.
	path, rawQuery, _ := strings.Cut(req.Path, "?")
	target := c.baseURL.JoinPath(strings.TrimPrefix(path, "/"))
	target.RawQuery = rawQuery
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), bodyReader)
	if err != nil {
		return nil, "", &Error{Kind: KindTransient, Message: err.Error()}
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			httpReq.Header.Set("Authorization", token)
		}
	}

	reqID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", reqID)

	return httpReq, reqID, nil
}

func (c *Client) classify(code int) Kind {
	if _, ok := c.authInvalidCodes[code]; ok {
		return KindAuthInvalid
	}
	if code >= 40000 && code < 50000 {
		return KindValidation
	}
	return KindServerError
}

// report applies failure side effects: session teardown for auth-invalid
// outcomes, a user-visible notification for everything else.
func (c *Client) report(ctx context.Context, req Request, reqID string, outcome *Error) {
	c.log.WarnContext(ctx, "panel request failed",
		logger.Component("apiclient"),
		logger.Path(req.Path),
		logger.RequestID(reqID),
		logger.Code(outcome.Code),
		logger.Error(outcome),
	)

	if outcome.Kind == KindAuthInvalid {
		if c.onAuthInvalid != nil {
			c.onAuthInvalid()
		}
		return
	}

	if req.SkipErrorNotification || c.notifier == nil {
		return
	}
	c.notifier.Notify(ctx, c.failureMessage(outcome))
}

// failureMessage resolves the notification text: translated code first, then
// the server-supplied message, then a generic fallback.
func (c *Client) failureMessage(outcome *Error) string {
	if c.translator != nil && outcome.Code != 0 {
		if msg, ok := c.translator.T(c.lang, strconv.Itoa(outcome.Code)); ok {
			return msg
		}
	}
	if outcome.Message != "" {
		return outcome.Message
	}
	return genericFailureMessage
}
