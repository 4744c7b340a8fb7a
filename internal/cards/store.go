package cards

import (
	"context"
	"encoding/json"
	"fmt"

	"linkcards/internal/syncstore"
)

const (
	keyCards      = "cards"
	keyCategories = "categories"
)

// Store reads and writes the two synchronized collections. Every save
// overwrites its collection in full.
type Store struct {
	kv syncstore.KV
}

func NewStore(kv syncstore.KV) *Store {
	return &Store{kv: kv}
}

// Load returns the stored cards and categories. Missing cards load as an empty
// list; a missing or empty category list loads as DefaultCategories.
func (s *Store) Load(ctx context.Context) ([]Card, []string, error) {
	data, err := s.kv.Get(ctx, keyCards, keyCategories)
	if err != nil {
		return nil, nil, fmt.Errorf("load state: %w", err)
	}

	cards := []Card{}
	if raw, ok := data[keyCards]; ok {
		var stored []Card
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, nil, fmt.Errorf("decode cards: %w", err)
		}
		if stored != nil {
			cards = stored
		}
	}

	categories := DefaultCategories()
	if raw, ok := data[keyCategories]; ok {
		var stored []string
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, nil, fmt.Errorf("decode categories: %w", err)
		}
		if len(stored) > 0 {
			categories = stored
		}
	}

	return cards, categories, nil
}

// SaveCards overwrites the stored card list.
func (s *Store) SaveCards(ctx context.Context, cards []Card) error {
	if cards == nil {
		cards = []Card{}
	}
	if err := s.kv.Set(ctx, map[string]any{keyCards: cards}); err != nil {
		return fmt.Errorf("save cards: %w", err)
	}
	return nil
}

// SaveCategories overwrites the stored category list.
func (s *Store) SaveCategories(ctx context.Context, categories []string) error {
	if categories == nil {
		categories = []string{}
	}
	if err := s.kv.Set(ctx, map[string]any{keyCategories: categories}); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}
