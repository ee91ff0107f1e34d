package model

import "github.com/shopspring/decimal"

var tenPercent = decimal.NewFromFloat(0.10)

// Round2 rounds to two decimal places, the policy used for both
// display and persisted order totals.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// SumPrices totals a cart item sequence without accumulating binary
// float error.
func SumPrices(items []CartItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price))
	}
	f, _ := sum.Float64()
	return f
}

// ApplyDiscount computes the final total for a subtotal and token.
// For the ten-percent token: discount = round2(S*0.10),
// final = round2(S - discount). Any other token leaves the subtotal
// untouched.
func ApplyDiscount(subtotal float64, token DiscountToken) (final, discountAmount float64, label string) {
	if token != DiscountTenPercent {
		return subtotal, 0, token.Label()
	}
	s := decimal.NewFromFloat(subtotal)
	d := s.Mul(tenPercent).Round(2)
	f := s.Sub(d).Round(2)
	discountAmount, _ = d.Float64()
	final, _ = f.Float64()
	return final, discountAmount, token.Label()
}
