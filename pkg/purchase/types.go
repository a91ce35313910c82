package purchase

import (
	"fmt"
	"time"
)

// PaymentUnset marks a selection with no payment method chosen yet. Payment
// choice is required for submission but never affects pricing.
const PaymentUnset int64 = -1

// Selection holds the user's in-progress purchase choices. It is replaced
// field-by-field through SelectionPatch and is not persisted across sessions.
type Selection struct {
	PlanID   int64
	Quantity int
	Coupon   string
	Payment  int64
}

// Key derives the price-relevant subset of the selection. Payment method is
// deliberately excluded: two selections differing only in payment method share
// the same quote.
func (s Selection) Key() QuoteKey {
	return QuoteKey{PlanID: s.PlanID, Quantity: s.Quantity, Coupon: s.Coupon}
}

// SelectionPatch updates individual selection fields. Nil fields are left
// unchanged.
type SelectionPatch struct {
	PlanID   *int64
	Quantity *int
	Coupon   *string
	Payment  *int64
}

func (p SelectionPatch) apply(s Selection) Selection {
	if p.PlanID != nil {
		s.PlanID = *p.PlanID
	}
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
	if p.Coupon != nil {
		s.Coupon = *p.Coupon
	}
	if p.Payment != nil {
		s.Payment = *p.Payment
	}
	return s
}

// QuoteKey identifies the pricing-relevant subset of a selection. Quotes are
// cached and fetch responses matched by this key.
type QuoteKey struct {
	PlanID   int64
	Quantity int
	Coupon   string
}

// String renders a stable representation, used for external cache keying.
func (k QuoteKey) String() string {
	return fmt.Sprintf("plan:%d:qty:%d:coupon:%s", k.PlanID, k.Quantity, k.Coupon)
}

// Money represents a monetary amount in the smallest currency unit.
// For example, $10.99 USD would be Amount: 1099, Currency: "USD".
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Quote is an authoritative priced response for a selection subset. Immutable
// once constructed; a changed selection produces a new quote.
type Quote struct {
	Key           QuoteKey  `json:"key"`
	UnitPrice     Money     `json:"unit_price"`
	Quantity      int       `json:"quantity"`
	Discount      Money     `json:"discount"`
	Total         Money     `json:"total"`
	CouponApplied bool      `json:"coupon_applied"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// OrderRef is the server-issued reference handed to the payment step after a
// successful submission.
type OrderRef struct {
	OrderNo string `json:"order_no"`
}

// QuoteView is the externally observable pricing state.
//
// Quote is nil only before the first successful fetch of the session; after
// that it always holds the best-known quote, falling back to cached entries
// when a refresh fails. Stale marks a fallback publish whose price may be
// outdated; Errored marks that the most recent fetch for the current selection
// failed.
type QuoteView struct {
	Quote   *Quote
	Loading bool
	Stale   bool
	Errored bool
}
