package cards

// Card is a saved link. Field names match the stored JSON so existing
// extension data loads unchanged.
type Card struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Category  string `json:"category"`
	Pinned    bool   `json:"pinned"`
	CreatedAt int64  `json:"createdAt"` // unix millis
}

// State is the full in-memory application state mirrored to the store.
type State struct {
	Cards      []Card   `json:"cards"`
	Categories []string `json:"categories"`
}

// Group is one rendered category block.
type Group struct {
	Category string `json:"category"`
	Cards    []Card `json:"cards"`
}

// Query represents the current search text and category filter selection.
type Query struct {
	Search   string // case-insensitive substring of title or url
	Category string // "" or FilterAll disables the filter
}

// ManualInput is the input for adding a link by hand
type ManualInput struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
}

const (
	// FilterAll is the filter selection that matches every category.
	FilterAll = "all"

	// FallbackCategory groups cards whose category is empty.
	FallbackCategory = "Other"

	// ManualDefaultCategory is preselected in the manual add form.
	ManualDefaultCategory = "Work"

	EmptyMessage = "No cards yet. Save current tab or add a custom link."
	NoTitle      = "(No title)"
)

// DefaultCategories is used when the store holds no category list.
func DefaultCategories() []string {
	return []string{"Tickets", "Figma", "Work", "Daily Tools", "Personal", "Other"}
}

// CategoryOf returns the grouping label of c.
func CategoryOf(c Card) string {
	if c.Category == "" {
		return FallbackCategory
	}
	return c.Category
}

// DisplayTitle returns the title shown for c.
func DisplayTitle(c Card) string {
	if c.Title == "" {
		return NoTitle
	}
	return c.Title
}
