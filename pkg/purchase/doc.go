// Package purchase implements order pricing and purchase orchestration for a
// panel subscription purchase flow.
//
// A Flow tracks the user's in-progress selection (plan, quantity, coupon,
// payment method) and keeps an authoritative price quote in sync with it. Each
// selection change issues a keyed fetch against the remote pricing service;
// responses for superseded selections are discarded by key comparison rather
// than request cancellation, which guarantees the published quote always
// reflects the most recently issued selection regardless of network resolution
// order.
//
// Failed quote refreshes never blank the view. The flow falls back to the
// cached quote for the exact key, then to the most recent quote for any key,
// and publishes it with staleness and error flags so the UI can show the last
// known price with a soft "may be outdated" indicator. Failures are not
// retried automatically; re-applying the same selection is the manual retry.
//
// The final submission is guarded: at most one purchase request is in flight
// at a time, a duplicate Submit call is a silent no-op, and submission requires
// a previously published quote.
//
// # Quote caching
//
// QuoteCache implementations:
//
//   - MemoryCache: unbounded per-session map (default). Purchase flows are
//     short-lived, so entries are never evicted.
//   - BoundedCache: LRU eviction for longer-lived embedders.
//   - RedisCache: shared cache for multi-instance frontends; every Redis
//     failure degrades to a cache miss.
//
// # Usage
//
//	api := purchase.NewPanelAPI(client)
//	flow := purchase.NewFlow(api, api,
//		purchase.WithSelection(purchase.Selection{
//			PlanID:   plan.ID,
//			Quantity: 1,
//			Payment:  purchase.PaymentUnset,
//		}),
//	)
//
//	unsubscribe := flow.Subscribe(render)
//	defer unsubscribe()
//
//	flow.OnSelectionChanged(ctx, purchase.SelectionPatch{Quantity: ptr(3)})
//
//	ref, err := flow.Submit(ctx)
//	if err != nil {
//		// surface failure; selection stays intact for retry
//	}
//	if ref != nil {
//		// route the user to the payment step with ref.OrderNo
//	}
package purchase
