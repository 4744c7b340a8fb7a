package cards

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcards/internal/syncstore"
)

func TestStoreLoadExtensionData(t *testing.T) {
	ctx := context.Background()
	kv := syncstore.NewMemory()
	require.NoError(t, kv.Set(ctx, map[string]any{
		"cards": json.RawMessage(`[{"id":1712000000000,"title":"Repo","url":"https://github.com/o/r",` +
			`"category":"Work","pinned":true,"createdAt":1712000000000}]`),
		"categories": json.RawMessage(`["Work","Reading"]`),
	}))

	cards, categories, err := NewStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Card{{
		ID:        1712000000000,
		Title:     "Repo",
		URL:       "https://github.com/o/r",
		Category:  "Work",
		Pinned:    true,
		CreatedAt: 1712000000000,
	}}, cards)
	assert.Equal(t, []string{"Work", "Reading"}, categories)
}

func TestStoreLoadEmptyCategoriesUsesDefaults(t *testing.T) {
	ctx := context.Background()
	kv := syncstore.NewMemory()
	require.NoError(t, kv.Set(ctx, map[string]any{"categories": []string{}, "cards": nil}))

	cards, categories, err := NewStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
	assert.Equal(t, DefaultCategories(), categories)
}

func TestStoreLoadRejectsCorruptData(t *testing.T) {
	ctx := context.Background()
	kv := syncstore.NewMemory()
	require.NoError(t, kv.Set(ctx, map[string]any{"cards": "not a list"}))

	_, _, err := NewStore(kv).Load(ctx)
	assert.Error(t, err)
}

func TestStoreSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	kv := syncstore.NewMemory()
	s := NewStore(kv)

	require.NoError(t, s.SaveCards(ctx, []Card{{ID: 1}, {ID: 2}}))
	require.NoError(t, s.SaveCards(ctx, []Card{{ID: 3}}))
	require.NoError(t, s.SaveCategories(ctx, []string{"A"}))

	cards, categories, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Card{{ID: 3}}, cards)
	assert.Equal(t, []string{"A"}, categories)

	raw, err := kv.Get(ctx, "cards")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":3,"title":"","url":"","category":"","pinned":false,"createdAt":0}]`, string(raw["cards"]))
}
