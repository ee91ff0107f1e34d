package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validProfile() DeliveryProfile {
	return DeliveryProfile{
		FullName:    "Amna Khan",
		Phone:       "0300-1111111",
		Email:       "amna@example.com",
		HomeAddress: "7 Yarn Street",
		Province:    "Sindh",
		City:        "Karachi",
		Payment:     PaymentAdvanceCash,
	}
}

func TestDeliveryProfile_Validate(t *testing.T) {
	t.Run("advance cash needs no sub-fields", func(t *testing.T) {
		require.NoError(t, validProfile().Validate())
	})

	t.Run("missing required field", func(t *testing.T) {
		p := validProfile()
		p.City = "  "
		require.Error(t, p.Validate())
	})

	t.Run("credit card requires full card details", func(t *testing.T) {
		p := validProfile()
		p.Payment = PaymentCreditCard
		require.Error(t, p.Validate())

		p.Card = &CardDetails{Number: "4111111111111111", Holder: "Amna Khan", Expiry: "12/27"}
		require.Error(t, p.Validate())

		p.Card.CVV = "123"
		require.NoError(t, p.Validate())
	})

	t.Run("wallet methods require their phone", func(t *testing.T) {
		p := validProfile()
		p.Payment = PaymentEasyPaisa
		require.Error(t, p.Validate())
		p.EasyPaisaPhone = "0300-2222222"
		require.NoError(t, p.Validate())

		q := validProfile()
		q.Payment = PaymentJazzCash
		q.JazzCashPhone = "0301-3333333"
		require.NoError(t, q.Validate())
	})

	t.Run("sub-record must match the tag", func(t *testing.T) {
		p := validProfile()
		p.Payment = PaymentEasyPaisa
		p.EasyPaisaPhone = "0300-2222222"
		p.JazzCashPhone = "0301-3333333"
		require.Error(t, p.Validate())

		q := validProfile()
		q.Card = &CardDetails{Number: "4", Holder: "x", Expiry: "1/1", CVV: "000"}
		require.Error(t, q.Validate())
	})

	t.Run("unknown payment method", func(t *testing.T) {
		p := validProfile()
		p.Payment = "cheque"
		require.Error(t, p.Validate())
	})

	t.Run("optional fields may be empty", func(t *testing.T) {
		p := validProfile()
		p.AltAddress = ""
		p.AltPhone = ""
		require.NoError(t, p.Validate())
	})
}

func TestDeliveryProfile_CloneIsDeep(t *testing.T) {
	p := validProfile()
	p.Payment = PaymentCreditCard
	p.Card = &CardDetails{Number: "4111", Holder: "A", Expiry: "1/1", CVV: "1"}

	c := p.Clone()
	c.Card.Number = "9999"
	require.Equal(t, "4111", p.Card.Number)
}

func TestDiscountToken(t *testing.T) {
	require.True(t, DiscountNone.Valid())
	require.True(t, DiscountTenPercent.Valid())
	require.False(t, DiscountToken("50% OFF").Valid())

	require.Equal(t, "10%", DiscountTenPercent.Label())
	require.Equal(t, "None", DiscountNone.Label())
	require.Equal(t, "None", DiscountToken("garbage").Label())
}

func TestReview_Validate(t *testing.T) {
	require.NoError(t, Review{Name: "Sara", Text: "Lovely scarf", Rating: 5}.Validate())
	require.Error(t, Review{Name: "", Text: "x", Rating: 3}.Validate())
	require.Error(t, Review{Name: "Sara", Text: " ", Rating: 3}.Validate())
	require.Error(t, Review{Name: "Sara", Text: "x", Rating: 0}.Validate())
	require.Error(t, Review{Name: "Sara", Text: "x", Rating: 6}.Validate())
}

func TestCloneItems_Independent(t *testing.T) {
	items := []CartItem{{ID: 1, Name: "Coaster", Price: 500}}
	clone := CloneItems(items)
	clone[0].Price = 1
	require.Equal(t, 500.0, items[0].Price)
}
