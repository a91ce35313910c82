package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/purchasekit/pkg/apiclient"
	"github.com/dmitrymomot/purchasekit/pkg/i18n"
	"github.com/dmitrymomot/purchasekit/pkg/session"
)

type capturedNotification struct {
	messages []string
}

func (n *capturedNotification) Notify(_ context.Context, message string) {
	n.messages = append(n.messages, message)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL}, opts...)
	require.NoError(t, err)
	return client
}

func TestDoSuccess(t *testing.T) {
	sess := session.New()
	require.NoError(t, sess.Start("tok-1"))

	var gotAuth, gotReqID, gotContentType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"code":200,"message":"ok","data":{"order_no":"A123"}}`))
	}, apiclient.WithTokenSource(sess))

	data, err := client.Do(context.Background(), apiclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/user/order",
		Body:   map[string]any{"subscribe_id": 1},
	})
	require.NoError(t, err)

	var payload struct {
		OrderNo string `json:"order_no"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "A123", payload.OrderNo)
	assert.Equal(t, "tok-1", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "application/json", gotContentType)
}

func TestDoValidationFailure(t *testing.T) {
	notifier := &capturedNotification{}
	tr, err := i18n.NewTranslator(i18n.MapSource{"en": {"40001": "Invalid coupon code"}})
	require.NoError(t, err)

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":40001,"message":"coupon not found"}`))
	}, apiclient.WithNotifier(notifier), apiclient.WithTranslator(tr))

	_, err = client.Do(context.Background(), apiclient.Request{Method: http.MethodPost, Path: "/v1/user/order/pre"})
	require.Error(t, err)

	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apiclient.KindValidation, apiErr.Kind)
	assert.Equal(t, 40001, apiErr.Code)

	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "Invalid coupon code", notifier.messages[0])
}

func TestDoNotificationFallbackToServerMessage(t *testing.T) {
	notifier := &capturedNotification{}
	tr, err := i18n.NewTranslator(i18n.MapSource{"en": {"40001": "Invalid coupon code"}})
	require.NoError(t, err)

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":41000,"message":"plan sold out"}`))
	}, apiclient.WithNotifier(notifier), apiclient.WithTranslator(tr))

	_, err = client.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/v1/user/subscribe/list"})
	require.Error(t, err)
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "plan sold out", notifier.messages[0])
}

func TestDoNotificationGenericFallback(t *testing.T) {
	notifier := &capturedNotification{}
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":50000}`))
	}, apiclient.WithNotifier(notifier))

	_, err := client.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/v1/user/info"})
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindServerError))
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "Request failed. Please try again later.", notifier.messages[0])
}

func TestDoSkipErrorNotification(t *testing.T) {
	notifier := &capturedNotification{}
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":50000,"message":"boom"}`))
	}, apiclient.WithNotifier(notifier))

	_, err := client.Do(context.Background(), apiclient.Request{
		Method:                http.MethodGet,
		Path:                  "/v1/user/info",
		SkipErrorNotification: true,
	})
	require.Error(t, err)
	assert.Empty(t, notifier.messages)
}

func TestDoAuthInvalidTeardown(t *testing.T) {
	notifier := &capturedNotification{}
	var teardownCount int
	sess := session.New(session.WithDestroyHook(func() { teardownCount++ }))
	require.NoError(t, sess.Start("tok-1"))

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":40002,"message":"token expired"}`))
	},
		apiclient.WithTokenSource(sess),
		apiclient.WithAuthInvalidHandler(sess.Destroy),
		apiclient.WithNotifier(notifier),
	)

	// Teardown fires regardless of the notification flag, and only once for the
	// same session even across repeated auth-invalid responses.
	_, err := client.Do(context.Background(), apiclient.Request{
		Method:                http.MethodGet,
		Path:                  "/v1/user/info",
		SkipErrorNotification: true,
	})
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindAuthInvalid))

	_, err = client.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/v1/user/info"})
	require.Error(t, err)

	assert.Equal(t, 1, teardownCount)
	assert.False(t, sess.Active())
	// Auth-invalid failures never produce a notification.
	assert.Empty(t, notifier.messages)
}

func TestDoTransientFailure(t *testing.T) {
	notifier := &capturedNotification{}
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL}, apiclient.WithNotifier(notifier))
	require.NoError(t, err)

	_, err = client.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/v1/user/info"})
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindTransient))
	assert.Len(t, notifier.messages, 1)
}

func TestDoNonEnvelopeResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := client.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/v1/user/info"})
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindServerError))
}

func TestDoWithoutSessionOmitsAuthorization(t *testing.T) {
	var gotAuth string
	sess := session.New()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"code":200,"data":null}`))
	}, apiclient.WithTokenSource(sess))

	_, err := client.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/v1/public/plans"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestNewValidation(t *testing.T) {
	_, err := apiclient.New(apiclient.Config{})
	assert.ErrorIs(t, err, apiclient.ErrMissingBaseURL)

	_, err = apiclient.New(apiclient.Config{BaseURL: "://bad"})
	assert.ErrorIs(t, err, apiclient.ErrInvalidBaseURL)
}

func TestWithAuthInvalidCodes(t *testing.T) {
	var teardown int
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":40099,"message":"revoked"}`))
	},
		apiclient.WithAuthInvalidCodes(40099),
		apiclient.WithAuthInvalidHandler(func() { teardown++ }),
	)

	_, err := client.Do(context.Background(), apiclient.Request{Method: http.MethodGet, Path: "/v1/user/info"})
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindAuthInvalid))
	assert.Equal(t, 1, teardown)
}
