package shop

import (
	"fmt"

	"github.com/rs/zerolog"

	"crochethub/internal/kv"
	"crochethub/internal/model"
)

// ReviewBook is the persisted customer review list.
type ReviewBook struct {
	store   kv.Store
	log     zerolog.Logger
	reviews []model.Review
}

func NewReviewBook(store kv.Store, log zerolog.Logger) *ReviewBook {
	return &ReviewBook{store: store, log: log}
}

func (r *ReviewBook) Restore() (RestoreOutcome, error) {
	reviews, outcome, err := loadJSON[[]model.Review](r.store, KeyReviews)
	if err != nil {
		return outcome, fmt.Errorf("restore reviews: %w", err)
	}
	if outcome == OutcomeRestored {
		r.reviews = reviews
	} else {
		r.reviews = nil
	}
	return outcome, nil
}

func (r *ReviewBook) Add(review model.Review) error {
	if err := review.Validate(); err != nil {
		return err
	}
	r.reviews = append(r.reviews, review)
	if err := saveJSON(r.store, KeyReviews, r.reviews); err != nil {
		return fmt.Errorf("add review: %w", err)
	}
	r.log.Debug().Str("name", review.Name).Int("rating", review.Rating).Msg("review added")
	return nil
}

func (r *ReviewBook) Reviews() []model.Review {
	out := make([]model.Review, len(r.reviews))
	copy(out, r.reviews)
	return out
}
