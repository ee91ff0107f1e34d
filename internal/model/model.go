package model

import (
	"fmt"
	"strings"
)

// CartItem is a single cart line. Field names match the persisted
// JSON shape under the "cart" key.
type CartItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// DiscountToken is the two-valued coupon indicator earned by the
// external mini-game. The wire values are what the game writes under
// the "discountCoupon" key; an absent key means DiscountNone.
type DiscountToken string

const (
	DiscountNone       DiscountToken = "none"
	DiscountTenPercent DiscountToken = "10% OFF"
)

// Valid reports whether the token is one of the known values.
func (t DiscountToken) Valid() bool {
	return t == DiscountNone || t == DiscountTenPercent
}

// Label returns the display/persisted discount label used on orders.
func (t DiscountToken) Label() string {
	if t == DiscountTenPercent {
		return "10%"
	}
	return "None"
}

// Payment method tags as stored in DeliveryProfile.Payment.
const (
	PaymentCreditCard  = "creditCard"
	PaymentEasyPaisa   = "easyPaisa"
	PaymentJazzCash    = "jazzCash"
	PaymentAdvanceCash = "advanceCash"
)

// CardDetails is the creditCard sub-record.
type CardDetails struct {
	Number string `json:"cardNumber"`
	Holder string `json:"cardHolder"`
	Expiry string `json:"expiryDate"`
	CVV    string `json:"cvv"`
}

// DeliveryProfile is the single shipping/payment record stored under
// the "deliveryData" key. Exactly one payment-specific sub-record may
// be populated and it must match the Payment tag.
type DeliveryProfile struct {
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	HomeAddress string `json:"homeAddress"`
	AltAddress  string `json:"altAddress,omitempty"`
	AltPhone    string `json:"altPhone,omitempty"`
	Province    string `json:"province"`
	City        string `json:"city"`
	Payment     string `json:"payment"`

	Card           *CardDetails `json:"card,omitempty"`
	EasyPaisaPhone string       `json:"easyPaisaPhone,omitempty"`
	JazzCashPhone  string       `json:"jazzCashPhone,omitempty"`
}

// Validate checks required fields and the payment sub-record
// invariant. It operates on already-typed values only; collecting
// them out of whatever surface produced them is not this package's
// concern.
func (p DeliveryProfile) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"fullName", p.FullName},
		{"phone", p.Phone},
		{"email", p.Email},
		{"homeAddress", p.HomeAddress},
		{"province", p.Province},
		{"city", p.City},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("delivery profile: missing %s", r.field)
		}
	}

	switch p.Payment {
	case PaymentCreditCard:
		if p.Card == nil {
			return fmt.Errorf("delivery profile: creditCard requires card details")
		}
		if p.Card.Number == "" || p.Card.Holder == "" || p.Card.Expiry == "" || p.Card.CVV == "" {
			return fmt.Errorf("delivery profile: incomplete card details")
		}
		if p.EasyPaisaPhone != "" || p.JazzCashPhone != "" {
			return fmt.Errorf("delivery profile: wallet fields set for creditCard")
		}
	case PaymentEasyPaisa:
		if p.EasyPaisaPhone == "" {
			return fmt.Errorf("delivery profile: easyPaisa requires a wallet phone")
		}
		if p.Card != nil || p.JazzCashPhone != "" {
			return fmt.Errorf("delivery profile: mismatched payment fields for easyPaisa")
		}
	case PaymentJazzCash:
		if p.JazzCashPhone == "" {
			return fmt.Errorf("delivery profile: jazzCash requires a wallet phone")
		}
		if p.Card != nil || p.EasyPaisaPhone != "" {
			return fmt.Errorf("delivery profile: mismatched payment fields for jazzCash")
		}
	case PaymentAdvanceCash:
		// Partial-upfront policy is informational only.
		if p.Card != nil || p.EasyPaisaPhone != "" || p.JazzCashPhone != "" {
			return fmt.Errorf("delivery profile: advanceCash takes no payment sub-fields")
		}
	default:
		return fmt.Errorf("delivery profile: unknown payment method %q", p.Payment)
	}
	return nil
}

// Clone returns a deep copy of the profile.
func (p DeliveryProfile) Clone() DeliveryProfile {
	out := p
	if p.Card != nil {
		card := *p.Card
		out.Card = &card
	}
	return out
}

// Order is the immutable record appended to the order history at
// checkout. Items and Delivery are deep copies taken at finalize
// time; once appended the order is owned by the history alone.
type Order struct {
	OrderID    string          `json:"orderId"`
	OrderDate  string          `json:"orderDate"`
	Items      []CartItem      `json:"items"`
	Subtotal   float64         `json:"subtotal"`
	Discount   string          `json:"discount"`
	FinalTotal float64         `json:"finalTotal"`
	Delivery   DeliveryProfile `json:"delivery"`
}

// Review is a customer review stored under the "reviews" key.
type Review struct {
	Name   string `json:"name"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// Validate checks the review fields.
func (r Review) Validate() error {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("review: name and text are required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("review: rating %d out of range", r.Rating)
	}
	return nil
}

// CloneItems deep-copies a cart item sequence.
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}
