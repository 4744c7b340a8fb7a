package cards

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"linkcards/internal/browser"
)

var ErrCardNotFound = errors.New("card not found")

// Board owns the application state. Every mutation changes the in-memory
// state first and then writes the affected collection in full; the returned
// error only reports the write, the in-memory change is kept either way.
// Writes happen under the state lock so the store always ends up with the
// latest state.
type Board struct {
	store *Store
	now   func() time.Time

	mu     sync.Mutex
	state  State
	lastID int64
}

func NewBoard(store *Store) *Board {
	return &Board{
		store: store,
		now:   time.Now,
		state: State{Cards: []Card{}, Categories: DefaultCategories()},
	}
}

// Load replaces the in-memory state with the stored one.
func (b *Board) Load(ctx context.Context) error {
	cards, categories, err := b.store.Load(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = State{Cards: cards, Categories: categories}
	for _, c := range cards {
		b.lastID = max(b.lastID, c.ID)
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (b *Board) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Cards:      slices.Clone(b.state.Cards),
		Categories: slices.Clone(b.state.Categories),
	}
}

// Groups runs the render pipeline over the current state.
func (b *Board) Groups(q Query) []Group {
	return BuildGroups(b.Snapshot(), q)
}

// SaveTab adds the given browser tab with an inferred category. A tab without
// a URL is ignored and reported as not added.
func (b *Board) SaveTab(ctx context.Context, tab browser.Tab) (Card, bool, error) {
	if tab.URL == "" {
		return Card{}, false, nil
	}
	card, err := b.addCard(ctx, tab.Title, tab.URL, InferCategory(tab.URL))
	return card, true, err
}

// AddManual adds a hand-entered link. The URL is normalized; an empty URL is
// ignored. The title defaults to the URL and the category to ManualDefaultCategory.
func (b *Board) AddManual(ctx context.Context, in ManualInput) (Card, bool, error) {
	url := NormalizeURL(strings.TrimSpace(in.URL))
	if url == "" {
		return Card{}, false, nil
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = url
	}
	category := in.Category
	if category == "" {
		category = ManualDefaultCategory
	}

	card, err := b.addCard(ctx, title, url, category)
	return card, true, err
}

func (b *Board) addCard(ctx context.Context, title, url, category string) (Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	card := Card{
		ID:        b.nextID(now),
		Title:     title,
		URL:       url,
		Category:  category,
		Pinned:    false,
		CreatedAt: now.UnixMilli(),
	}
	b.state.Cards = append(b.state.Cards, card)
	return card, b.store.SaveCards(ctx, b.state.Cards)
}

// nextID returns a millisecond timestamp, bumped past the last issued id so
// two cards created within the same millisecond never share one.
func (b *Board) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return id
}

// Card returns the card with the given id.
func (b *Board) Card(id int64) (Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		return Card{}, ErrCardNotFound
	}
	return b.state.Cards[i], nil
}

// DeleteCard removes the card with the given id.
func (b *Board) DeleteCard(ctx context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return ErrCardNotFound
	}
	b.state.Cards = slices.Delete(b.state.Cards, i, i+1)
	return b.store.SaveCards(ctx, b.state.Cards)
}

// TogglePin flips the pinned flag of the card with the given id and returns the updated card.
func (b *Board) TogglePin(ctx context.Context, id int64) (Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return Card{}, ErrCardNotFound
	}
	b.state.Cards[i].Pinned = !b.state.Cards[i].Pinned
	return b.state.Cards[i], b.store.SaveCards(ctx, b.state.Cards)
}

func (b *Board) indexOf(id int64) int {
	return slices.IndexFunc(b.state.Cards, func(c Card) bool { return c.ID == id })
}

// Categories returns the current category list.
func (b *Board) Categories() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.state.Categories)
}

// AddCategory appends name unless it is empty or already present.
func (b *Board) AddCategory(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)

	b.mu.Lock()
	defer b.mu.Unlock()

	if name == "" || slices.Contains(b.state.Categories, name) {
		return false, nil
	}
	b.state.Categories = append(b.state.Categories, name)
	return true, b.store.SaveCategories(ctx, b.state.Categories)
}

// RemoveCategory drops name from the category list. Cards that reference it
// are left untouched and render as an orphaned group.
func (b *Board) RemoveCategory(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.Categories = slices.DeleteFunc(b.state.Categories, func(c string) bool { return c == name })
	return b.store.SaveCategories(ctx, b.state.Categories)
}
