package shop

import (
	"fmt"

	"github.com/rs/zerolog"

	"crochethub/internal/kv"
	"crochethub/internal/model"
)

// OrderHistory is the append-only log of finalized orders. Insertion
// order is chronological order; there is no removal operation. Orders
// appended here are owned by the log and never handed back for
// mutation.
type OrderHistory struct {
	store  kv.Store
	log    zerolog.Logger
	orders []model.Order
}

func NewOrderHistory(store kv.Store, log zerolog.Logger) *OrderHistory {
	return &OrderHistory{store: store, log: log}
}

func (h *OrderHistory) Restore() (RestoreOutcome, error) {
	orders, outcome, err := loadJSON[[]model.Order](h.store, KeyOrderHistory)
	if err != nil {
		return outcome, fmt.Errorf("restore order history: %w", err)
	}
	if outcome == OutcomeRestored {
		h.orders = orders
	} else {
		h.orders = nil
	}
	return outcome, nil
}

// Append reads the persisted log fresh, appends the order and writes
// the whole log back.
func (h *OrderHistory) Append(order model.Order) error {
	current, _, err := loadJSON[[]model.Order](h.store, KeyOrderHistory)
	if err != nil {
		return fmt.Errorf("append order: %w", err)
	}
	current = append(current, order)
	if err := saveJSON(h.store, KeyOrderHistory, current); err != nil {
		return fmt.Errorf("append order: %w", err)
	}
	h.orders = current
	h.log.Debug().Str("order_id", order.OrderID).Int("orders", len(current)).Msg("order appended to history")
	return nil
}

// Orders returns a copy of the log.
func (h *OrderHistory) Orders() []model.Order {
	out := make([]model.Order, len(h.orders))
	copy(out, h.orders)
	return out
}

func (h *OrderHistory) Len() int { return len(h.orders) }

// Reload re-reads the log from the store, for verification read-back.
// A malformed persisted log is an error here, not a fallback: the
// caller is confirming a write it just made.
func (h *OrderHistory) Reload() ([]model.Order, error) {
	raw, ok, err := h.store.Get(KeyOrderHistory)
	if err != nil {
		return nil, fmt.Errorf("reload order history: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("reload order history: key absent")
	}
	orders, outcome, err := loadJSON[[]model.Order](h.store, KeyOrderHistory)
	if err != nil {
		return nil, fmt.Errorf("reload order history: %w", err)
	}
	if outcome != OutcomeRestored {
		return nil, fmt.Errorf("reload order history: malformed log (%d bytes)", len(raw))
	}
	return orders, nil
}
