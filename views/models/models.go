package models

// CardView represents a card for template rendering
type CardView struct {
	ID     string
	Title  string
	URL    string
	Pinned bool
}

// GroupView represents one category block for template rendering
type GroupView struct {
	Category   string
	CountLabel string
	Cards      []CardView
}

// CategoriesView holds what the three category-dependent regions need
type CategoriesView struct {
	Names []string
	// Filter is the selected filter option ("all" or a category)
	Filter string
	// ManualDefault is preselected in the manual add select
	ManualDefault string
}

// PopupView represents the whole popup page
type PopupView struct {
	Groups       []GroupView
	EmptyMessage string
	Categories   CategoriesView
	Query        string
	// Tab is the active tab the popup was opened for, if known
	TabURL   string
	TabTitle string
	// BrowserAttached switches "open" from a plain link to a server call
	BrowserAttached bool
}
