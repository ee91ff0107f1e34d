package shop

import (
	"github.com/rs/zerolog"

	"crochethub/internal/model"
)

// Summary is the persistence status report logged at startup.
type Summary struct {
	CartItems     int
	Orders        int
	DeliverySaved bool
	Discount      model.DiscountToken
	Reviews       int
	GalleryImages int
}

func NewSummary(cart *CartLedger, orders *OrderHistory, delivery *DeliveryStore, discount *DiscountState, reviews *ReviewBook, gallery *Gallery) Summary {
	_, saved := delivery.Get()
	return Summary{
		CartItems:     cart.Count(),
		Orders:        orders.Len(),
		DeliverySaved: saved,
		Discount:      discount.Get(),
		Reviews:       len(reviews.Reviews()),
		GalleryImages: len(gallery.Images()),
	}
}

// Log writes the summary as a single structured event.
func (s Summary) Log(log zerolog.Logger) {
	log.Info().
		Int("cart_items", s.CartItems).
		Int("orders", s.Orders).
		Bool("delivery_saved", s.DeliverySaved).
		Str("discount", string(s.Discount)).
		Int("reviews", s.Reviews).
		Int("gallery_images", s.GalleryImages).
		Msg("persistence status")
}
