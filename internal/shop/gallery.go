package shop

import (
	"fmt"

	"github.com/rs/zerolog"

	"crochethub/internal/kv"
)

// Gallery is the persisted list of uploaded image data tokens.
type Gallery struct {
	store  kv.Store
	log    zerolog.Logger
	images []string
}

func NewGallery(store kv.Store, log zerolog.Logger) *Gallery {
	return &Gallery{store: store, log: log}
}

func (g *Gallery) Restore() (RestoreOutcome, error) {
	images, outcome, err := loadJSON[[]string](g.store, KeyGallery)
	if err != nil {
		return outcome, fmt.Errorf("restore gallery: %w", err)
	}
	if outcome == OutcomeRestored {
		g.images = images
	} else {
		g.images = nil
	}
	return outcome, nil
}

func (g *Gallery) Add(token string) error {
	if token == "" {
		return fmt.Errorf("add image: empty token")
	}
	g.images = append(g.images, token)
	if err := saveJSON(g.store, KeyGallery, g.images); err != nil {
		return fmt.Errorf("add image: %w", err)
	}
	g.log.Debug().Int("images", len(g.images)).Msg("gallery image added")
	return nil
}

func (g *Gallery) Images() []string {
	out := make([]string, len(g.images))
	copy(out, g.images)
	return out
}
