package purchase

import (
	"context"
)

// QuoteSource fetches an authoritative price quote for a selection from the
// remote pricing service. Implementations should not retry: the flow's retry
// opportunity is the next selection change.
type QuoteSource interface {
	FetchQuote(ctx context.Context, sel Selection) (*Quote, error)
}

// OrderPlacer submits the final purchase and returns the server-issued order
// reference for the payment step.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, sel Selection) (*OrderRef, error)
}
