// Package shop holds the typed stores behind the storefront state:
// one store per persisted key, each mirroring every mutation into the
// underlying kv store and decoding fail-closed on reload.
package shop

import (
	"bytes"
	"encoding/json"

	"crochethub/internal/kv"
)

// Persisted keys, one flat namespace.
const (
	KeyCart            = "cart"
	KeyDiscountCoupon  = "discountCoupon"
	KeyDeliveryData    = "deliveryData"
	KeyOrderHistory    = "orderHistory"
	KeyReviews         = "reviews"
	KeyGallery         = "gallery"
	KeyCheckoutPending = "checkoutPending"
)

// RestoreOutcome classifies what a typed store found on startup.
type RestoreOutcome string

const (
	// OutcomeAbsent means the key was not present; the default applies.
	OutcomeAbsent RestoreOutcome = "absent"
	// OutcomeRestored means a well-formed value was adopted.
	OutcomeRestored RestoreOutcome = "restored"
	// OutcomeDefaulted means the value was present but malformed or of
	// the wrong shape; the store fell back to its default.
	OutcomeDefaulted RestoreOutcome = "defaulted"
)

// loadJSON is the one decode path for JSON-encoded entities. A decode
// or shape failure yields the zero value with OutcomeDefaulted; only
// storage I/O failures surface as errors. A literal null decodes into
// any target without error, so it is rejected here rather than
// restored as a phantom zero value.
func loadJSON[T any](store kv.Store, key string) (T, RestoreOutcome, error) {
	var zero T
	raw, ok, err := store.Get(key)
	if err != nil {
		return zero, OutcomeAbsent, err
	}
	if !ok {
		return zero, OutcomeAbsent, nil
	}
	if isJSONNull(raw) {
		return zero, OutcomeDefaulted, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, OutcomeDefaulted, nil
	}
	return v, OutcomeRestored, nil
}

func isJSONNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func saveJSON(store kv.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(key, b)
}
