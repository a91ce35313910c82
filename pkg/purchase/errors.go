package purchase

import "errors"

var (
	ErrInvalidQuantity = errors.New("purchase quantity must be at least 1")
	ErrQuoteNotReady   = errors.New("no price quote has been shown for this selection")
)
