package cards

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcards/internal/browser"
	"linkcards/internal/syncstore"
)

// failingKV loads nothing and fails every write.
type failingKV struct{}

func (failingKV) Get(context.Context, ...string) (map[string]json.RawMessage, error) {
	return map[string]json.RawMessage{}, nil
}

func (failingKV) Set(context.Context, map[string]any) error {
	return errors.New("quota exceeded")
}

func newTestBoard(t *testing.T) (*Board, *syncstore.Memory) {
	t.Helper()
	kv := syncstore.NewMemory()
	b := NewBoard(NewStore(kv))
	require.NoError(t, b.Load(context.Background()))
	return b, kv
}

func fixedClock(b *Board, ms int64) {
	b.now = func() time.Time { return time.UnixMilli(ms) }
}

func TestBoardLoadDefaults(t *testing.T) {
	b, _ := newTestBoard(t)
	s := b.Snapshot()
	assert.Empty(t, s.Cards)
	assert.Equal(t, DefaultCategories(), s.Categories)
}

func TestBoardSaveTab(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBoard(t)
	fixedClock(b, 1_700_000_000_000)

	card, added, err := b.SaveTab(ctx, browser.Tab{URL: "https://github.com/org/repo", Title: "repo"})
	require.NoError(t, err)
	require.True(t, added)
	assert.Equal(t, Card{
		ID:        1_700_000_000_000,
		Title:     "repo",
		URL:       "https://github.com/org/repo",
		Category:  "Work",
		CreatedAt: 1_700_000_000_000,
	}, card)

	_, added, err = b.SaveTab(ctx, browser.Tab{Title: "no url"})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, b.Snapshot().Cards, 1)
}

func TestBoardAddManual(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBoard(t)

	card, added, err := b.AddManual(ctx, ManualInput{Title: "  ", URL: " example.com ", Category: "Personal"})
	require.NoError(t, err)
	require.True(t, added)
	assert.Equal(t, "https://example.com", card.URL)
	assert.Equal(t, "https://example.com", card.Title)
	assert.Equal(t, "Personal", card.Category)
	assert.False(t, card.Pinned)

	card, _, err = b.AddManual(ctx, ManualInput{URL: "figma.com/file/x"})
	require.NoError(t, err)
	assert.Equal(t, ManualDefaultCategory, card.Category, "manual entries never infer")

	_, added, err = b.AddManual(ctx, ManualInput{Title: "empty", URL: "   "})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, b.Snapshot().Cards, 2)
}

func TestBoardIDsDoNotCollide(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBoard(t)
	fixedClock(b, 42)

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		card, _, err := b.AddManual(ctx, ManualInput{URL: "example.com"})
		require.NoError(t, err)
		assert.False(t, seen[card.ID], "duplicate id %d", card.ID)
		seen[card.ID] = true
		assert.Equal(t, int64(42), card.CreatedAt)
	}
}

func TestBoardIDsSkipLoadedCards(t *testing.T) {
	ctx := context.Background()
	kv := syncstore.NewMemory()
	require.NoError(t, NewStore(kv).SaveCards(ctx, []Card{{ID: 500, URL: "https://a"}}))

	b := NewBoard(NewStore(kv))
	require.NoError(t, b.Load(ctx))
	fixedClock(b, 100)

	card, _, err := b.AddManual(ctx, ManualInput{URL: "b.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(501), card.ID)
}

func TestBoardDeleteCard(t *testing.T) {
	ctx := context.Background()
	b, kv := newTestBoard(t)

	var ids []int64
	for _, u := range []string{"a.com", "b.com", "c.com"} {
		c, _, err := b.AddManual(ctx, ManualInput{URL: u, Category: "Work"})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	_, err := b.TogglePin(ctx, ids[2])
	require.NoError(t, err)
	before := b.Snapshot().Cards

	require.NoError(t, b.DeleteCard(ctx, ids[1]))

	after := b.Snapshot().Cards
	require.Len(t, after, 2)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[1])
	assert.True(t, after[1].Pinned)

	assert.ErrorIs(t, b.DeleteCard(ctx, ids[1]), ErrCardNotFound)

	// the store holds the same list
	stored, _, err := NewStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, after, stored)
}

func TestBoardTogglePin(t *testing.T) {
	ctx := context.Background()
	b, kv := newTestBoard(t)

	c, _, err := b.AddManual(ctx, ManualInput{URL: "a.com"})
	require.NoError(t, err)

	got, err := b.TogglePin(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Pinned)

	stored, _, err := NewStore(kv).Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Pinned)

	got, err = b.TogglePin(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.Pinned)

	_, err = b.TogglePin(ctx, 999)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestBoardAddCategory(t *testing.T) {
	ctx := context.Background()
	b, kv := newTestBoard(t)

	added, err := b.AddCategory(ctx, "Reading")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = b.AddCategory(ctx, " Reading ")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = b.AddCategory(ctx, "   ")
	require.NoError(t, err)
	assert.False(t, added)

	count := 0
	for _, c := range b.Categories() {
		if c == "Reading" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	_, stored, err := NewStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, append(DefaultCategories(), "Reading"), stored)
}

func TestBoardRemoveCategoryKeepsCards(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBoard(t)

	_, _, err := b.AddManual(ctx, ManualInput{URL: "figma.com/file/1", Category: "Figma"})
	require.NoError(t, err)
	_, _, err = b.AddManual(ctx, ManualInput{URL: "github.com/x", Category: "Work"})
	require.NoError(t, err)

	require.NoError(t, b.RemoveCategory(ctx, "Figma"))

	assert.NotContains(t, b.Categories(), "Figma")
	assert.Len(t, b.Snapshot().Cards, 2)

	groups := b.Groups(Query{})
	require.Len(t, groups, 2)
	assert.Equal(t, "Work", groups[0].Category)
	assert.Equal(t, "Figma", groups[1].Category, "orphaned group comes after listed ones")
	assert.Len(t, groups[1].Cards, 1)
}

func TestBoardRemoveAllCategoriesReloadsDefaults(t *testing.T) {
	ctx := context.Background()
	b, kv := newTestBoard(t)
	for _, c := range DefaultCategories() {
		require.NoError(t, b.RemoveCategory(ctx, c))
	}
	assert.Empty(t, b.Categories())

	reloaded := NewBoard(NewStore(kv))
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, DefaultCategories(), reloaded.Categories())
}

func TestBoardKeepsMutationWhenWriteFails(t *testing.T) {
	ctx := context.Background()
	b := NewBoard(NewStore(failingKV{}))
	require.NoError(t, b.Load(ctx))

	card, added, err := b.AddManual(ctx, ManualInput{URL: "a.com"})
	assert.Error(t, err)
	assert.True(t, added)
	assert.Equal(t, []Card{card}, b.Snapshot().Cards)
}

func TestBoardSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBoard(t)
	_, _, err := b.AddManual(ctx, ManualInput{URL: "a.com"})
	require.NoError(t, err)

	s := b.Snapshot()
	s.Cards[0].Title = "changed"
	s.Categories[0] = "changed"

	assert.NotEqual(t, "changed", b.Snapshot().Cards[0].Title)
	assert.NotEqual(t, "changed", b.Categories()[0])
}
