// Package recovery validates every persisted key at startup and
// resolves an interrupted checkout. It must run to completion before
// any other component operation.
package recovery

import (
	"fmt"

	"github.com/rs/zerolog"

	"crochethub/internal/metrics"
	"crochethub/internal/shop"
)

// Validator walks the tracked keys through their typed stores. Any
// malformed or mistyped value falls back to the component default;
// nothing here is fatal except storage I/O failure.
type Validator struct {
	cart     *shop.CartLedger
	delivery *shop.DeliveryStore
	discount *shop.DiscountState
	history  *shop.OrderHistory
	reviews  *shop.ReviewBook
	gallery  *shop.Gallery
	pending  *shop.PendingCheckout
	log      zerolog.Logger
	metrics  *metrics.Registry
}

func NewValidator(
	cart *shop.CartLedger,
	delivery *shop.DeliveryStore,
	discount *shop.DiscountState,
	history *shop.OrderHistory,
	reviews *shop.ReviewBook,
	gallery *shop.Gallery,
	pending *shop.PendingCheckout,
	log zerolog.Logger,
	reg *metrics.Registry,
) *Validator {
	return &Validator{
		cart:     cart,
		delivery: delivery,
		discount: discount,
		history:  history,
		reviews:  reviews,
		gallery:  gallery,
		pending:  pending,
		log:      log,
		metrics:  reg,
	}
}

// Run restores all components and then inspects the pending-checkout
// marker.
func (v *Validator) Run() error {
	restores := []struct {
		key string
		fn  func() (shop.RestoreOutcome, error)
	}{
		{shop.KeyOrderHistory, v.history.Restore},
		{shop.KeyCart, v.cart.Restore},
		{shop.KeyDeliveryData, v.delivery.Restore},
		{shop.KeyDiscountCoupon, v.discount.Restore},
		{shop.KeyReviews, v.reviews.Restore},
		{shop.KeyGallery, v.gallery.Restore},
	}
	for _, r := range restores {
		outcome, err := r.fn()
		if err != nil {
			return fmt.Errorf("recovery: %w", err)
		}
		switch outcome {
		case shop.OutcomeRestored:
			v.metrics.RecoveryRestored.WithLabelValues(r.key).Inc()
		case shop.OutcomeDefaulted:
			v.metrics.RecoveryDefaulted.WithLabelValues(r.key).Inc()
			v.log.Warn().Str("key", r.key).Msg("malformed persisted value, reset to default")
		}
	}

	if err := v.resolvePending(); err != nil {
		return fmt.Errorf("recovery: %w", err)
	}
	return nil
}

// resolvePending completes or rolls back a checkout that was cut off
// between the history append and the transient-state clears.
func (v *Validator) resolvePending() error {
	present, err := v.pending.Present()
	if err != nil {
		return err
	}
	if !present {
		return nil
	}

	order, ok, err := v.pending.Read()
	if err != nil {
		return err
	}
	if !ok {
		v.log.Warn().Msg("malformed pending-checkout marker, discarding")
		return v.pending.Clear()
	}

	if v.orderInHistory(order.OrderID) {
		// The append landed; finish the clears the crash skipped.
		if _, err := v.cart.SnapshotAndClear(); err != nil {
			return err
		}
		if err := v.delivery.Clear(); err != nil {
			return err
		}
		if err := v.discount.Clear(); err != nil {
			return err
		}
		if err := v.pending.Clear(); err != nil {
			return err
		}
		v.log.Info().Str("order_id", order.OrderID).Msg("completed interrupted checkout")
		return nil
	}

	// The append never landed: drop the marker, keep cart, delivery
	// and discount so the user can retry.
	if err := v.pending.Clear(); err != nil {
		return err
	}
	v.log.Info().Str("order_id", order.OrderID).Msg("rolled back interrupted checkout")
	return nil
}

func (v *Validator) orderInHistory(orderID string) bool {
	for _, o := range v.history.Orders() {
		if o.OrderID == orderID {
			return true
		}
	}
	return false
}
