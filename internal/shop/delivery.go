package shop

import (
	"fmt"

	"github.com/rs/zerolog"

	"crochethub/internal/kv"
	"crochethub/internal/model"
)

// DeliveryStore is the single shipping/payment slot, replaced
// wholesale by the address-entry flow and cleared by checkout.
// Callers validate the profile before handing it over.
type DeliveryStore struct {
	store   kv.Store
	log     zerolog.Logger
	profile *model.DeliveryProfile
}

func NewDeliveryStore(store kv.Store, log zerolog.Logger) *DeliveryStore {
	return &DeliveryStore{store: store, log: log}
}

func (d *DeliveryStore) Restore() (RestoreOutcome, error) {
	profile, outcome, err := loadJSON[model.DeliveryProfile](d.store, KeyDeliveryData)
	if err != nil {
		return outcome, fmt.Errorf("restore delivery: %w", err)
	}
	// A decoded-but-blank profile is as useless as a malformed one:
	// adopting it would let checkout ship to nobody.
	if outcome == OutcomeRestored && profile == (model.DeliveryProfile{}) {
		outcome = OutcomeDefaulted
	}
	if outcome == OutcomeRestored {
		d.profile = &profile
	} else {
		d.profile = nil
	}
	return outcome, nil
}

func (d *DeliveryStore) Set(profile model.DeliveryProfile) error {
	if err := saveJSON(d.store, KeyDeliveryData, profile); err != nil {
		return fmt.Errorf("set delivery: %w", err)
	}
	p := profile.Clone()
	d.profile = &p
	d.log.Debug().Str("city", profile.City).Str("payment", profile.Payment).Msg("delivery profile saved")
	return nil
}

func (d *DeliveryStore) Get() (model.DeliveryProfile, bool) {
	if d.profile == nil {
		return model.DeliveryProfile{}, false
	}
	return d.profile.Clone(), true
}

func (d *DeliveryStore) Clear() error {
	if err := d.store.Delete(KeyDeliveryData); err != nil {
		return fmt.Errorf("clear delivery: %w", err)
	}
	d.profile = nil
	d.log.Debug().Msg("delivery profile cleared")
	return nil
}
