package shop

import (
	"fmt"

	"github.com/rs/zerolog"

	"crochethub/internal/kv"
	"crochethub/internal/model"
)

// DiscountState is the single coupon slot. The token is written by
// the external game outcome and consumed by checkout; this store
// never judges how it was earned. The wire format is the raw token
// string, not JSON.
type DiscountState struct {
	store kv.Store
	log   zerolog.Logger
	token model.DiscountToken
}

func NewDiscountState(store kv.Store, log zerolog.Logger) *DiscountState {
	return &DiscountState{store: store, log: log, token: model.DiscountNone}
}

func (d *DiscountState) Restore() (RestoreOutcome, error) {
	raw, ok, err := d.store.Get(KeyDiscountCoupon)
	if err != nil {
		return OutcomeAbsent, fmt.Errorf("restore discount: %w", err)
	}
	if !ok {
		d.token = model.DiscountNone
		return OutcomeAbsent, nil
	}
	token := model.DiscountToken(raw)
	if !token.Valid() {
		d.token = model.DiscountNone
		return OutcomeDefaulted, nil
	}
	d.token = token
	return OutcomeRestored, nil
}

func (d *DiscountState) Set(token model.DiscountToken) error {
	if !token.Valid() {
		return fmt.Errorf("set discount: unknown token %q", token)
	}
	if err := d.store.Set(KeyDiscountCoupon, []byte(token)); err != nil {
		return fmt.Errorf("set discount: %w", err)
	}
	d.token = token
	d.log.Info().Str("token", string(token)).Msg("discount coupon stored")
	return nil
}

// Get returns the current token, DiscountNone when unset.
func (d *DiscountState) Get() model.DiscountToken { return d.token }

func (d *DiscountState) Clear() error {
	if err := d.store.Delete(KeyDiscountCoupon); err != nil {
		return fmt.Errorf("clear discount: %w", err)
	}
	d.token = model.DiscountNone
	d.log.Debug().Msg("discount coupon cleared")
	return nil
}
