package purchase_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/purchasekit/pkg/apiclient"
	"github.com/dmitrymomot/purchasekit/pkg/purchase"
)

type notificationSink struct {
	messages []string
}

func (n *notificationSink) Notify(_ context.Context, message string) {
	n.messages = append(n.messages, message)
}

func newPanelAPI(t *testing.T, handler http.HandlerFunc, opts ...apiclient.Option) *purchase.PanelAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL}, opts...)
	require.NoError(t, err)
	return purchase.NewPanelAPI(client)
}

func TestFetchQuoteMapsResponse(t *testing.T) {
	var gotBody map[string]any
	api := newPanelAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/user/order/pre", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		_, _ = w.Write([]byte(`{"code":200,"data":{
			"unit_price":1000,"quantity":3,"discount":500,"amount":2500,
			"currency":"USD","coupon_applied":true}}`))
	})

	sel := purchase.Selection{PlanID: 7, Quantity: 3, Coupon: "SAVE10", Payment: 2}
	quote, err := api.FetchQuote(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, sel.Key(), quote.Key)
	assert.Equal(t, int64(1000), quote.UnitPrice.Amount)
	assert.Equal(t, 3, quote.Quantity)
	assert.Equal(t, int64(500), quote.Discount.Amount)
	assert.Equal(t, int64(2500), quote.Total.Amount)
	assert.Equal(t, "USD", quote.Total.Currency)
	assert.True(t, quote.CouponApplied)

	assert.Equal(t, float64(7), gotBody["subscribe_id"])
	assert.Equal(t, float64(3), gotBody["quantity"])
	assert.Equal(t, "SAVE10", gotBody["coupon"])
	assert.Equal(t, float64(2), gotBody["payment"])
}

// Quote fetch failures feed the flow's staleness handling, so they must not
// trigger the transport's user-visible notification.
func TestFetchQuoteSuppressesNotification(t *testing.T) {
	sink := &notificationSink{}
	api := newPanelAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":40001,"message":"coupon not found"}`))
	}, apiclient.WithNotifier(sink))

	_, err := api.FetchQuote(context.Background(), purchase.Selection{PlanID: 1, Quantity: 1})
	require.Error(t, err)
	assert.True(t, apiclient.IsKind(err, apiclient.KindValidation))
	assert.Empty(t, sink.messages)
}

func TestPlaceOrder(t *testing.T) {
	api := newPanelAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/user/order", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":200,"data":{"order_no":"ORD-42"}}`))
	})

	ref, err := api.PlaceOrder(context.Background(), purchase.Selection{PlanID: 1, Quantity: 1, Payment: 3})
	require.NoError(t, err)
	assert.Equal(t, "ORD-42", ref.OrderNo)
}

// Submission failures surface through the transport notification, once per
// attempt.
func TestPlaceOrderNotifiesOnFailure(t *testing.T) {
	sink := &notificationSink{}
	api := newPanelAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":50000,"message":"payment channel unavailable"}`))
	}, apiclient.WithNotifier(sink))

	_, err := api.PlaceOrder(context.Background(), purchase.Selection{PlanID: 1, Quantity: 1, Payment: 3})
	require.Error(t, err)
	require.Len(t, sink.messages, 1)
	assert.Equal(t, "payment channel unavailable", sink.messages[0])
}

func TestPlaceOrderEmptyReference(t *testing.T) {
	api := newPanelAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"data":{}}`))
	})

	_, err := api.PlaceOrder(context.Background(), purchase.Selection{PlanID: 1, Quantity: 1, Payment: 3})
	assert.ErrorIs(t, err, purchase.ErrEmptyOrderReference)
}

func TestNewPanelAPIRequiresClient(t *testing.T) {
	assert.Panics(t, func() { purchase.NewPanelAPI(nil) })
}
