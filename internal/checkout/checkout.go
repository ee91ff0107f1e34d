// Package checkout turns the live cart, delivery profile and discount
// token into an immutable order, with a write-ahead marker and a
// read-back verification around the multi-key write.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"crochethub/internal/kv"
	"crochethub/internal/metrics"
	"crochethub/internal/model"
	"crochethub/internal/shop"
)

var (
	// ErrEmptyCart rejects checkout before any state is touched.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrNoDelivery rejects checkout until a delivery profile exists;
	// callers direct the user to delivery entry.
	ErrNoDelivery = errors.New("checkout: no delivery profile")
	// ErrVerifyFailed means the appended order could not be observed on
	// read-back. Transient state is left intact so the user can retry.
	ErrVerifyFailed = errors.New("checkout: order write verification failed")
)

// OrderIDPrefix is the fixed literal in front of every order id.
const OrderIDPrefix = "ORD-"

const orderDateFormat = "January 2, 2006 3:04 PM"

// Coordinator runs the checkout sequence. All dependencies are
// injected once at construction.
type Coordinator struct {
	cart     *shop.CartLedger
	delivery *shop.DeliveryStore
	discount *shop.DiscountState
	history  *shop.OrderHistory
	pending  *shop.PendingCheckout
	store    kv.Store
	log      zerolog.Logger
	metrics  *metrics.Registry

	now func() time.Time
}

func NewCoordinator(
	cart *shop.CartLedger,
	delivery *shop.DeliveryStore,
	discount *shop.DiscountState,
	history *shop.OrderHistory,
	pending *shop.PendingCheckout,
	store kv.Store,
	log zerolog.Logger,
	reg *metrics.Registry,
) *Coordinator {
	return &Coordinator{
		cart:     cart,
		delivery: delivery,
		discount: discount,
		history:  history,
		pending:  pending,
		store:    store,
		log:      log,
		metrics:  reg,
		now:      time.Now,
	}
}

// PlaceOrder runs the full checkout sequence synchronously.
//
// The pending marker is written before the history append and removed
// only after the post-verification clears. A crash in between leaves
// a marker the recovery pass can resolve; a verification failure
// drops the marker and keeps all transient state for retry.
func (c *Coordinator) PlaceOrder() (model.Order, error) {
	start := c.now()

	if c.cart.Count() == 0 {
		c.metrics.CheckoutRejected.WithLabelValues("empty_cart").Inc()
		return model.Order{}, ErrEmptyCart
	}
	profile, ok := c.delivery.Get()
	if !ok {
		c.metrics.CheckoutRejected.WithLabelValues("no_delivery").Inc()
		return model.Order{}, ErrNoDelivery
	}

	subtotal := c.cart.Total()
	token := c.discount.Get()
	finalTotal, _, label := model.ApplyDiscount(subtotal, token)

	order := model.Order{
		OrderID:    newOrderID(start),
		OrderDate:  start.Format(orderDateFormat),
		Items:      c.cart.Items(),
		Subtotal:   model.Round2(subtotal),
		Discount:   label,
		FinalTotal: finalTotal,
		Delivery:   profile,
	}

	prevLen := c.history.Len()
	if err := c.pending.Write(order); err != nil {
		return model.Order{}, fmt.Errorf("place order: %w", err)
	}
	if err := c.history.Append(order); err != nil {
		// Append never happened; the marker has nothing to resolve.
		if cerr := c.pending.Clear(); cerr != nil {
			c.log.Error().Err(cerr).Msg("orphaned pending marker after failed append")
		}
		return model.Order{}, fmt.Errorf("place order: %w", err)
	}

	if err := c.verifyAppend(order.OrderID, prevLen); err != nil {
		c.metrics.CheckoutVerifyFailures.Inc()
		c.log.Error().Err(err).Str("order_id", order.OrderID).Msg("order verification failed, keeping cart and delivery for retry")
		if cerr := c.pending.Clear(); cerr != nil {
			c.log.Error().Err(cerr).Msg("failed to drop pending marker after verify failure")
		}
		return model.Order{}, fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}

	// The order is durable; clear transient state. If any clear fails
	// the marker stays behind and recovery finishes the job.
	if _, err := c.cart.SnapshotAndClear(); err != nil {
		return order, fmt.Errorf("place order %s: %w", order.OrderID, err)
	}
	if err := c.delivery.Clear(); err != nil {
		return order, fmt.Errorf("place order %s: %w", order.OrderID, err)
	}
	if err := c.discount.Clear(); err != nil {
		return order, fmt.Errorf("place order %s: %w", order.OrderID, err)
	}
	c.verifyCleared()
	if err := c.pending.Clear(); err != nil {
		return order, fmt.Errorf("place order %s: %w", order.OrderID, err)
	}

	c.metrics.CheckoutCompleted.Inc()
	c.metrics.CheckoutLatencySec.Observe(c.now().Sub(start).Seconds())
	c.log.Info().
		Str("order_id", order.OrderID).
		Float64("subtotal", order.Subtotal).
		Float64("final_total", order.FinalTotal).
		Str("discount", order.Discount).
		Int("items", len(order.Items)).
		Msg("order placed")
	return order, nil
}

func (c *Coordinator) verifyAppend(orderID string, prevLen int) error {
	orders, err := c.history.Reload()
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return fmt.Errorf("order history empty after append")
	}
	if len(orders) != prevLen+1 {
		return fmt.Errorf("order history length %d, want %d", len(orders), prevLen+1)
	}
	if orders[len(orders)-1].OrderID != orderID {
		return fmt.Errorf("order %s not at tail of history", orderID)
	}
	return nil
}

// verifyCleared re-checks that the cart and delivery keys are gone.
// Log-only: the order is already durable.
func (c *Coordinator) verifyCleared() {
	for _, key := range []string{shop.KeyCart, shop.KeyDeliveryData} {
		_, ok, err := c.store.Get(key)
		if err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("post-checkout absence check failed")
			continue
		}
		if ok {
			c.log.Warn().Str("key", key).Msg("key still present after checkout clear")
		}
	}
}

func newOrderID(t time.Time) string {
	return fmt.Sprintf("%s%d-%s", OrderIDPrefix, t.UnixMilli(), uuid.NewString()[:8])
}
