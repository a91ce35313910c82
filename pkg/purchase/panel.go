package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/purchasekit/pkg/apiclient"
)

// Panel API endpoints for the purchase flow.
const (
	pathOrderPreview = "/v1/user/order/pre"
	pathOrderCreate  = "/v1/user/order"
)

var ErrEmptyOrderReference = errors.New("purchase: server returned no order reference")

// PanelAPI implements QuoteSource and OrderPlacer over the panel transport.
type PanelAPI struct {
	client *apiclient.Client
}

// NewPanelAPI creates the panel-backed pricing and order source.
// Panics if client is nil to fail fast during initialization.
func NewPanelAPI(client *apiclient.Client) *PanelAPI {
	if client == nil {
		panic("purchase: apiclient is required")
	}
	return &PanelAPI{client: client}
}

// purchaseOrderRequest is the wire shape shared by the preview and the final
// order endpoints.
type purchaseOrderRequest struct {
	SubscribeID int64  `json:"subscribe_id"`
	Quantity    int    `json:"quantity"`
	Coupon      string `json:"coupon,omitempty"`
	Payment     int64  `json:"payment"`
}

type orderPreviewResponse struct {
	UnitPrice     int64  `json:"unit_price"`
	Quantity      int    `json:"quantity"`
	Discount      int64  `json:"discount"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	CouponApplied bool   `json:"coupon_applied"`
}

func requestFromSelection(sel Selection) purchaseOrderRequest {
	return purchaseOrderRequest{
		SubscribeID: sel.PlanID,
		Quantity:    sel.Quantity,
		Coupon:      sel.Coupon,
		Payment:     sel.Payment,
	}
}

// FetchQuote asks the pricing service for an authoritative quote. Fetch
// failures are absorbed into the flow's staleness handling, so the transport's
// user-visible notification is suppressed here.
func (p *PanelAPI) FetchQuote(ctx context.Context, sel Selection) (*Quote, error) {
	data, err := p.client.Do(ctx, apiclient.Request{
		Method:                http.MethodPost,
		Path:                  pathOrderPreview,
		Body:                  requestFromSelection(sel),
		SkipErrorNotification: true,
	})
	if err != nil {
		return nil, err
	}

	var resp orderPreviewResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}

	return &Quote{
		Key:           sel.Key(),
		UnitPrice:     Money{Amount: resp.UnitPrice, Currency: resp.Currency},
		Quantity:      resp.Quantity,
		Discount:      Money{Amount: resp.Discount, Currency: resp.Currency},
		Total:         Money{Amount: resp.Amount, Currency: resp.Currency},
		CouponApplied: resp.CouponApplied,
	}, nil
}

// PlaceOrder submits the purchase. Submission failures are surfaced to the
// user once per attempt through the transport's notification hook.
func (p *PanelAPI) PlaceOrder(ctx context.Context, sel Selection) (*OrderRef, error) {
	data, err := p.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   pathOrderCreate,
		Body:   requestFromSelection(sel),
	})
	if err != nil {
		return nil, err
	}

	var ref OrderRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	if ref.OrderNo == "" {
		return nil, ErrEmptyOrderReference
	}
	return &ref, nil
}
