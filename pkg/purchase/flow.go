package purchase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/purchasekit/pkg/logger"
)

// Flow orchestrates pricing and submission for one purchase dialog session.
//
// Every selection change re-derives the quote from the remote pricing service.
// In-flight fetches are never cancelled; each response carries the key it was
// issued for and is applied only if that key still matches the current
// selection when the response arrives, so the published quote always reflects
// the most recently issued selection (last-issued-wins). Failed refreshes fall
// back to cached quotes instead of blanking the view, and the final submission
// is serialized so at most one purchase request is ever in flight.
type Flow struct {
	quotes QuoteSource
	orders OrderPlacer
	cache  QuoteCache
	log    *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	selection   Selection
	currentKey  QuoteKey
	view        QuoteView
	submitting  bool
	subscribers map[int]func(QuoteView)
	nextSubID   int
}

// FlowOption configures a Flow instance.
type FlowOption func(*Flow)

// WithCache replaces the default in-memory quote cache.
func WithCache(cache QuoteCache) FlowOption {
	return func(f *Flow) {
		if cache != nil {
			f.cache = cache
		}
	}
}

// WithLogger sets the structured logger. Defaults to a discard logger.
func WithLogger(log *slog.Logger) FlowOption {
	return func(f *Flow) {
		if log != nil {
			f.log = log
		}
	}
}

// WithSelection sets the initial selection, e.g. the plan the user opened the
// dialog with. Quantity below 1 is normalized to 1.
func WithSelection(sel Selection) FlowOption {
	return func(f *Flow) {
		if sel.Quantity < 1 {
			sel.Quantity = 1
		}
		f.selection = sel
	}
}

// WithClock overrides the time source used to stamp fetched quotes.
func WithClock(now func() time.Time) FlowOption {
	return func(f *Flow) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFlow creates a purchase flow. Panics if quotes or orders is nil to fail
// fast during initialization.
func NewFlow(quotes QuoteSource, orders OrderPlacer, opts ...FlowOption) *Flow {
	if quotes == nil {
		panic("purchase: QuoteSource is required")
	}
	if orders == nil {
		panic("purchase: OrderPlacer is required")
	}

	f := &Flow{
		quotes:      quotes,
		orders:      orders,
		cache:       NewMemoryCache(),
		log:         slog.New(slog.DiscardHandler),
		now:         time.Now,
		selection:   Selection{Quantity: 1, Payment: PaymentUnset},
		subscribers: make(map[int]func(QuoteView)),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.currentKey = f.selection.Key()
	return f
}

// Selection returns a snapshot of the current selection.
func (f *Flow) Selection() Selection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selection
}

// QuoteView returns a snapshot of the current pricing state.
func (f *Flow) QuoteView() QuoteView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

// Subscribe registers an observer for pricing state changes and returns an
// unsubscribe function. Observers are called synchronously after each publish,
// outside the flow lock.
func (f *Flow) Subscribe(fn func(QuoteView)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSubID
	f.nextSubID++
	f.subscribers[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subscribers, id)
	}
}

// OnSelectionChanged merges the patch into the current selection and issues a
// quote fetch for the resulting key. The loading flag is raised synchronously,
// before the fetch can resolve.
//
// An unchanged selection still re-issues the fetch: resubmitting the same
// choices is the user's manual retry after a transient failure.
func (f *Flow) OnSelectionChanged(ctx context.Context, patch SelectionPatch) (Selection, error) {
	if patch.Quantity != nil && *patch.Quantity < 1 {
		return f.Selection(), ErrInvalidQuantity
	}

	f.mu.Lock()
	f.selection = patch.apply(f.selection)
	sel := f.selection
	key := sel.Key()
	f.currentKey = key

	f.view.Loading = true
	f.view.Stale = f.view.Quote != nil && f.view.Quote.Key != key
	view := f.view
	subs := f.subscribersLocked()
	f.mu.Unlock()

	f.notify(subs, view)

	go f.fetch(ctx, sel, key)

	return sel, nil
}

// fetch resolves one quote request and applies it under the key-match rule.
func (f *Flow) fetch(ctx context.Context, sel Selection, key QuoteKey) {
	quote, err := f.quotes.FetchQuote(ctx, sel)

	f.mu.Lock()
	if key != f.currentKey {
		f.mu.Unlock()
		f.log.DebugContext(ctx, "discarded quote response for superseded selection",
			logger.Component("purchase"),
			slog.String("key", key.String()),
		)
		return
	}

	if err == nil {
		quote.Key = key
		quote.FetchedAt = f.now().UTC()
		f.cache.Put(ctx, quote)
		f.view = QuoteView{Quote: quote}
	} else {
		// Exact-key fallback first, then the most recent quote for any key.
		// Better a plausibly-wrong price with a staleness flag than none.
		fallback, ok := f.cache.Get(ctx, key)
		if !ok {
			fallback, ok = f.cache.Latest(ctx)
		}
		f.view = QuoteView{Quote: fallback, Stale: ok, Errored: true}
	}
	view := f.view
	subs := f.subscribersLocked()
	f.mu.Unlock()

	if err != nil {
		f.log.WarnContext(ctx, "quote refresh failed, serving cached price",
			logger.Component("purchase"),
			slog.String("key", key.String()),
			slog.Bool("fallback_available", view.Quote != nil),
			logger.Error(err),
		)
	}
	f.notify(subs, view)
}

// Submit commits the purchase with the current selection.
//
// At most one submission is in flight at a time: a second call while the first
// is pending is silently ignored and returns (nil, nil) without contacting the
// transport. Submission requires that a quote has been published, so the user
// never commits against an unknown price. On failure the selection and cache
// are left untouched for a retry.
func (f *Flow) Submit(ctx context.Context) (*OrderRef, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		f.log.DebugContext(ctx, "ignored submit while another submission is in flight",
			logger.Component("purchase"))
		return nil, nil
	}
	if f.view.Quote == nil {
		f.mu.Unlock()
		return nil, ErrQuoteNotReady
	}
	f.submitting = true
	sel := f.selection
	f.mu.Unlock()

	ref, err := f.orders.PlaceOrder(ctx, sel)

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	if err != nil {
		f.log.WarnContext(ctx, "purchase submission failed",
			logger.Component("purchase"),
			logger.Error(err),
		)
		return nil, err
	}

	f.log.InfoContext(ctx, "purchase submitted",
		logger.Component("purchase"),
		slog.String("order_no", ref.OrderNo),
	)
	return ref, nil
}

// Submitting reports whether a purchase submission is currently in flight.
func (f *Flow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func (f *Flow) subscribersLocked() []func(QuoteView) {
	subs := make([]func(QuoteView), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func (f *Flow) notify(subs []func(QuoteView), view QuoteView) {
	for _, fn := range subs {
		fn(view)
	}
}
