package recovery

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"crochethub/internal/kv"
	"crochethub/internal/metrics"
	"crochethub/internal/model"
	"crochethub/internal/shop"
)

type env struct {
	store    kv.Store
	cart     *shop.CartLedger
	delivery *shop.DeliveryStore
	discount *shop.DiscountState
	history  *shop.OrderHistory
	reviews  *shop.ReviewBook
	gallery  *shop.Gallery
	pending  *shop.PendingCheckout
	val      *Validator
}

func newEnv(store kv.Store) *env {
	log := zerolog.Nop()
	e := &env{
		store:    store,
		cart:     shop.NewCartLedger(store, log),
		delivery: shop.NewDeliveryStore(store, log),
		discount: shop.NewDiscountState(store, log),
		history:  shop.NewOrderHistory(store, log),
		reviews:  shop.NewReviewBook(store, log),
		gallery:  shop.NewGallery(store, log),
		pending:  shop.NewPendingCheckout(store),
	}
	e.val = NewValidator(e.cart, e.delivery, e.discount, e.history, e.reviews, e.gallery, e.pending, log, metrics.NewRegistry())
	return e
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func profile() model.DeliveryProfile {
	return model.DeliveryProfile{
		FullName: "Amna Khan", Phone: "0300-1111111", Email: "amna@example.com",
		HomeAddress: "7 Yarn Street", Province: "Sindh", City: "Karachi",
		Payment: model.PaymentAdvanceCash,
	}
}

func order(id string) model.Order {
	return model.Order{
		OrderID:    id,
		OrderDate:  "August 31, 2026 1:05 PM",
		Items:      []model.CartItem{{ID: 1, Name: "Coaster", Price: 500}},
		Subtotal:   500,
		Discount:   "None",
		FinalTotal: 500,
		Delivery:   profile(),
	}
}

func TestRun_FreshStoreDefaults(t *testing.T) {
	e := newEnv(kv.NewMemoryStore())
	require.NoError(t, e.val.Run())

	require.Equal(t, 0, e.cart.Count())
	require.Equal(t, 0, e.history.Len())
	_, ok := e.delivery.Get()
	require.False(t, ok)
	require.Equal(t, model.DiscountNone, e.discount.Get())
	require.Empty(t, e.reviews.Reviews())
	require.Empty(t, e.gallery.Images())
}

func TestRun_RestoresWellFormedState(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(shop.KeyCart, mustJSON(t, []model.CartItem{{ID: 7, Name: "Beanie", Price: 800}})))
	require.NoError(t, store.Set(shop.KeyOrderHistory, mustJSON(t, []model.Order{order("ORD-1-aaaa")})))
	require.NoError(t, store.Set(shop.KeyDeliveryData, mustJSON(t, profile())))
	require.NoError(t, store.Set(shop.KeyDiscountCoupon, []byte("10% OFF")))
	require.NoError(t, store.Set(shop.KeyReviews, mustJSON(t, []model.Review{{Name: "Sara", Text: "Lovely", Rating: 5}})))
	require.NoError(t, store.Set(shop.KeyGallery, mustJSON(t, []string{"data:image/png;base64,AAAA"})))

	e := newEnv(store)
	require.NoError(t, e.val.Run())

	require.Equal(t, 1, e.cart.Count())
	require.Equal(t, 1, e.history.Len())
	p, ok := e.delivery.Get()
	require.True(t, ok)
	require.Equal(t, "Amna Khan", p.FullName)
	require.Equal(t, model.DiscountTenPercent, e.discount.Get())
	require.Len(t, e.reviews.Reviews(), 1)
	require.Len(t, e.gallery.Images(), 1)
}

func TestRun_MalformedValuesFallBackPerKey(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(shop.KeyCart, []byte(`{{{`)))
	require.NoError(t, store.Set(shop.KeyOrderHistory, []byte(`"not a list"`)))
	require.NoError(t, store.Set(shop.KeyDeliveryData, []byte(`[]`)))
	require.NoError(t, store.Set(shop.KeyDiscountCoupon, []byte(`80% OFF`)))
	// Reviews stay intact; one bad key must not poison its neighbors.
	require.NoError(t, store.Set(shop.KeyReviews, mustJSON(t, []model.Review{{Name: "Sara", Text: "Lovely", Rating: 5}})))

	e := newEnv(store)
	require.NoError(t, e.val.Run())

	require.Equal(t, 0, e.cart.Count())
	require.Equal(t, 0, e.history.Len())
	_, ok := e.delivery.Get()
	require.False(t, ok)
	require.Equal(t, model.DiscountNone, e.discount.Get())
	require.Len(t, e.reviews.Reviews(), 1)
}

func TestRun_CompletesInterruptedCheckout(t *testing.T) {
	store := kv.NewMemoryStore()
	done := order("ORD-9-ffff")
	// Crash happened after the append but before the clears: history
	// holds the order, transients are still populated, marker present.
	require.NoError(t, store.Set(shop.KeyOrderHistory, mustJSON(t, []model.Order{done})))
	require.NoError(t, store.Set(shop.KeyCart, mustJSON(t, done.Items)))
	require.NoError(t, store.Set(shop.KeyDeliveryData, mustJSON(t, profile())))
	require.NoError(t, store.Set(shop.KeyDiscountCoupon, []byte("10% OFF")))
	require.NoError(t, store.Set(shop.KeyCheckoutPending, mustJSON(t, done)))

	e := newEnv(store)
	require.NoError(t, e.val.Run())

	require.Equal(t, 1, e.history.Len())
	require.Equal(t, 0, e.cart.Count())
	_, ok := e.delivery.Get()
	require.False(t, ok)
	require.Equal(t, model.DiscountNone, e.discount.Get())

	for _, key := range []string{shop.KeyCart, shop.KeyDeliveryData, shop.KeyDiscountCoupon, shop.KeyCheckoutPending} {
		_, present, err := store.Get(key)
		require.NoError(t, err)
		require.False(t, present, "key %s should be cleared", key)
	}
}

func TestRun_RollsBackUnlandedCheckout(t *testing.T) {
	store := kv.NewMemoryStore()
	unlanded := order("ORD-9-ffff")
	// Crash happened before the append landed: marker present but the
	// order is nowhere in history.
	require.NoError(t, store.Set(shop.KeyCart, mustJSON(t, unlanded.Items)))
	require.NoError(t, store.Set(shop.KeyDeliveryData, mustJSON(t, profile())))
	require.NoError(t, store.Set(shop.KeyCheckoutPending, mustJSON(t, unlanded)))

	e := newEnv(store)
	require.NoError(t, e.val.Run())

	require.Equal(t, 0, e.history.Len())
	require.Equal(t, 1, e.cart.Count(), "cart kept for retry")
	_, ok := e.delivery.Get()
	require.True(t, ok, "delivery kept for retry")

	_, present, err := store.Get(shop.KeyCheckoutPending)
	require.NoError(t, err)
	require.False(t, present, "marker dropped")
}

func TestRun_DiscardsMalformedMarker(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(shop.KeyCart, mustJSON(t, []model.CartItem{{ID: 1, Name: "Coaster", Price: 500}})))
	require.NoError(t, store.Set(shop.KeyCheckoutPending, []byte(`%%%`)))

	e := newEnv(store)
	require.NoError(t, e.val.Run())

	require.Equal(t, 1, e.cart.Count())
	_, present, err := store.Get(shop.KeyCheckoutPending)
	require.NoError(t, err)
	require.False(t, present)
}
