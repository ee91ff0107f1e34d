package shop

import (
	"fmt"

	"github.com/rs/zerolog"

	"crochethub/internal/kv"
	"crochethub/internal/model"
)

// CartLedger is the in-memory ordered cart, mirrored into the kv
// store on every mutation. Order is insertion order.
type CartLedger struct {
	store  kv.Store
	log    zerolog.Logger
	items  []model.CartItem
	nextID int64
}

func NewCartLedger(store kv.Store, log zerolog.Logger) *CartLedger {
	return &CartLedger{store: store, log: log, nextID: 1}
}

// Restore adopts the persisted cart if it decodes to a well-formed
// sequence, otherwise starts empty. The id counter is seeded past the
// largest restored id so fresh adds can never collide.
func (c *CartLedger) Restore() (RestoreOutcome, error) {
	items, outcome, err := loadJSON[[]model.CartItem](c.store, KeyCart)
	if err != nil {
		return outcome, fmt.Errorf("restore cart: %w", err)
	}
	if outcome == OutcomeRestored {
		c.items = items
	} else {
		c.items = nil
	}
	c.nextID = 1
	for _, it := range c.items {
		if it.ID >= c.nextID {
			c.nextID = it.ID + 1
		}
	}
	return outcome, nil
}

// Add appends a new item and persists the full sequence.
func (c *CartLedger) Add(name string, price float64) (model.CartItem, error) {
	if price < 0 {
		return model.CartItem{}, fmt.Errorf("add %q: negative price", name)
	}
	item := model.CartItem{ID: c.nextID, Name: name, Price: price}
	c.nextID++
	c.items = append(c.items, item)
	if err := c.persist(); err != nil {
		return model.CartItem{}, fmt.Errorf("add %q: %w", name, err)
	}
	return item, nil
}

// Remove deletes the first item with the given id; no-op if absent.
func (c *CartLedger) Remove(id int64) error {
	for i, it := range c.items {
		if it.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			if err := c.persist(); err != nil {
				return fmt.Errorf("remove %d: %w", id, err)
			}
			return nil
		}
	}
	c.log.Debug().Int64("id", id).Msg("cart remove: no such item")
	return nil
}

// Items returns a copy of the current sequence in insertion order.
func (c *CartLedger) Items() []model.CartItem {
	return model.CloneItems(c.items)
}

func (c *CartLedger) Count() int { return len(c.items) }

// Total sums unit prices; 0 for an empty cart.
func (c *CartLedger) Total() float64 {
	return model.SumPrices(c.items)
}

// SnapshotAndClear returns a deep copy of the sequence and resets the
// live cart to empty, removing the persisted key. Used only by
// checkout.
func (c *CartLedger) SnapshotAndClear() ([]model.CartItem, error) {
	snap := model.CloneItems(c.items)
	c.items = nil
	if err := c.store.Delete(KeyCart); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	return snap, nil
}

// Flush persists the current sequence. Per-mutation persistence makes
// this redundant for correctness; it runs once more at session end.
func (c *CartLedger) Flush() error {
	if err := c.persist(); err != nil {
		return fmt.Errorf("flush cart: %w", err)
	}
	return nil
}

func (c *CartLedger) persist() error {
	items := c.items
	if items == nil {
		items = []model.CartItem{}
	}
	return saveJSON(c.store, KeyCart, items)
}
