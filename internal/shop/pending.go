package shop

import (
	"fmt"

	"crochethub/internal/kv"
	"crochethub/internal/model"
)

// PendingCheckout is the write-ahead marker around the multi-key
// checkout write. The marker carries the assembled order; it is
// written before the history append and removed only after the
// post-append clears, so recovery can tell an interrupted checkout
// from a clean shutdown.
type PendingCheckout struct {
	store kv.Store
}

func NewPendingCheckout(store kv.Store) *PendingCheckout {
	return &PendingCheckout{store: store}
}

func (p *PendingCheckout) Write(order model.Order) error {
	if err := saveJSON(p.store, KeyCheckoutPending, order); err != nil {
		return fmt.Errorf("write pending marker: %w", err)
	}
	return nil
}

// Read returns the marked order if a well-formed marker is present.
// A malformed marker reads as absent; it will be cleared by recovery.
func (p *PendingCheckout) Read() (model.Order, bool, error) {
	order, outcome, err := loadJSON[model.Order](p.store, KeyCheckoutPending)
	if err != nil {
		return model.Order{}, false, fmt.Errorf("read pending marker: %w", err)
	}
	if outcome != OutcomeRestored || order.OrderID == "" {
		return model.Order{}, false, nil
	}
	return order, true, nil
}

func (p *PendingCheckout) Clear() error {
	if err := p.store.Delete(KeyCheckoutPending); err != nil {
		return fmt.Errorf("clear pending marker: %w", err)
	}
	return nil
}

// Present reports whether the marker key exists at all, well-formed
// or not.
func (p *PendingCheckout) Present() (bool, error) {
	_, ok, err := p.store.Get(KeyCheckoutPending)
	if err != nil {
		return false, fmt.Errorf("check pending marker: %w", err)
	}
	return ok, nil
}
