package cards

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"linkcards/internal/browser"
	"linkcards/views/components"
	"linkcards/views/models"
	"linkcards/views/pages"
)

var ErrInvalidID = errors.New("invalid card ID")

type Handler struct {
	board     *Board
	browser   browser.Browser
	clipboard browser.Clipboard
	render    *Renderer
	log       *zap.Logger
}

func NewHandler(board *Board, b browser.Browser, clip browser.Clipboard, log *zap.Logger) *Handler {
	return &Handler{
		board:     board,
		browser:   b,
		clipboard: clip,
		render:    NewRenderer(),
		log:       log,
	}
}

// Register mounts the web UI and the JSON API on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	// REST API endpoints
	mux.HandleFunc("GET /api/cards", h.ListCards)
	mux.HandleFunc("POST /api/cards", h.CreateCard)
	mux.HandleFunc("POST /api/cards/current", h.CreateCurrentCard)
	mux.HandleFunc("DELETE /api/cards/{id}", h.DeleteCardAPI)
	mux.HandleFunc("POST /api/cards/{id}/pin", h.TogglePinAPI)
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("POST /api/categories", h.CreateCategory)
	mux.HandleFunc("DELETE /api/categories/{name}", h.DeleteCategoryAPI)

	// HTMX web UI
	mux.HandleFunc("GET /{$}", h.PopupPage)
	mux.HandleFunc("GET /fragments/cards", h.CardsFragment)
	mux.HandleFunc("POST /cards/current", h.SaveCurrentTab)
	mux.HandleFunc("POST /cards", h.AddManualCard)
	mux.HandleFunc("POST /cards/{id}/pin", h.TogglePin)
	mux.HandleFunc("DELETE /cards/{id}", h.DeleteCard)
	mux.HandleFunc("POST /cards/{id}/open", h.OpenCard)
	mux.HandleFunc("POST /cards/{id}/copy", h.CopyCard)
	mux.HandleFunc("POST /categories", h.AddCategory)
	mux.HandleFunc("DELETE /categories/{name}", h.RemoveCategory)
	mux.HandleFunc("GET /export", h.ExportPage)
	mux.HandleFunc("GET /export.md", h.ExportMarkdown)
}

// --- REST API Handlers ---

// ListCards handles GET /api/cards
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	groups := h.board.Groups(queryFrom(r))
	if groups == nil {
		groups = []Group{}
	}
	h.jsonResponse(w, groups, http.StatusOK)
}

// CreateCard handles POST /api/cards
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var input ManualInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	card, added, err := h.board.AddManual(r.Context(), input)
	if !added {
		h.jsonError(w, "url is required", http.StatusBadRequest)
		return
	}
	h.logPersist("create card", err)
	h.jsonResponse(w, card, http.StatusCreated)
}

// CreateCurrentCard handles POST /api/cards/current. The body may carry the
// tab; without one the attached browser is asked.
func (h *Handler) CreateCurrentCard(w http.ResponseWriter, r *http.Request) {
	var tab browser.Tab
	if err := json.NewDecoder(r.Body).Decode(&tab); err != nil && !errors.Is(err, io.EOF) {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	card, added, err := h.saveTab(r, tab)
	if !added {
		h.jsonError(w, browser.ErrNoActiveTab.Error(), http.StatusNotFound)
		return
	}
	h.logPersist("save current tab", err)
	h.jsonResponse(w, card, http.StatusCreated)
}

// DeleteCardAPI handles DELETE /api/cards/{id}
func (h *Handler) DeleteCardAPI(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = h.board.DeleteCard(r.Context(), id)
	if errors.Is(err, ErrCardNotFound) {
		h.jsonError(w, "card not found", http.StatusNotFound)
		return
	}
	h.logPersist("delete card", err)
	w.WriteHeader(http.StatusNoContent)
}

// TogglePinAPI handles POST /api/cards/{id}/pin
func (h *Handler) TogglePinAPI(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	card, err := h.board.TogglePin(r.Context(), id)
	if errors.Is(err, ErrCardNotFound) {
		h.jsonError(w, "card not found", http.StatusNotFound)
		return
	}
	h.logPersist("toggle pin", err)
	h.jsonResponse(w, card, http.StatusOK)
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, h.board.Categories(), http.StatusOK)
}

type categoryInput struct {
	Name string `json:"name"`
}

type categoryResult struct {
	Added      bool     `json:"added"`
	Categories []string `json:"categories"`
}

// CreateCategory handles POST /api/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	added, err := h.board.AddCategory(r.Context(), input.Name)
	h.logPersist("add category", err)
	h.jsonResponse(w, categoryResult{Added: added, Categories: h.board.Categories()}, http.StatusOK)
}

// DeleteCategoryAPI handles DELETE /api/categories/{name}
func (h *Handler) DeleteCategoryAPI(w http.ResponseWriter, r *http.Request) {
	h.logPersist("remove category", h.board.RemoveCategory(r.Context(), r.PathValue("name")))
	w.WriteHeader(http.StatusNoContent)
}

// --- HTMX Web Handlers ---

// PopupPage handles GET /. ?url= and ?title= describe the tab the popup was
// opened for.
func (h *Handler) PopupPage(w http.ResponseWriter, r *http.Request) {
	q := queryFrom(r)
	state := h.board.Snapshot()
	q.Category = effectiveFilter(state.Categories, q.Category)

	view := models.PopupView{
		Groups:          groupsToViews(BuildGroups(state, q)),
		EmptyMessage:    EmptyMessage,
		Categories:      categoriesView(state.Categories, q.Category),
		Query:           q.Search,
		TabURL:          r.URL.Query().Get("url"),
		TabTitle:        r.URL.Query().Get("title"),
		BrowserAttached: h.browserAttached(),
	}
	h.renderHTML(w, r, pages.PopupPage(view))
}

// CardsFragment handles GET /fragments/cards (HTMX partial)
func (h *Handler) CardsFragment(w http.ResponseWriter, r *http.Request) {
	h.renderCards(w, r)
}

// SaveCurrentTab handles POST /cards/current
func (h *Handler) SaveCurrentTab(w http.ResponseWriter, r *http.Request) {
	tab := browser.Tab{URL: r.FormValue("url"), Title: r.FormValue("title")}
	_, _, err := h.saveTab(r, tab)
	h.logPersist("save current tab", err)
	h.renderCards(w, r)
}

// AddManualCard handles POST /cards
func (h *Handler) AddManualCard(w http.ResponseWriter, r *http.Request) {
	input := ManualInput{
		Title:    r.FormValue("title"),
		URL:      r.FormValue("url"),
		Category: r.FormValue("manualCategory"),
	}
	_, added, err := h.board.AddManual(r.Context(), input)
	if !added {
		noSwap(w)
		return
	}
	h.logPersist("add manual card", err)
	w.Header().Set("HX-Trigger", "card-added")
	h.renderCards(w, r)
}

// TogglePin handles POST /cards/{id}/pin
func (h *Handler) TogglePin(w http.ResponseWriter, r *http.Request) {
	if id, err := parseID(r); err == nil {
		_, err := h.board.TogglePin(r.Context(), id)
		h.logPersist("toggle pin", ignoreNotFound(err))
	}
	h.renderCards(w, r)
}

// DeleteCard handles DELETE /cards/{id}
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if id, err := parseID(r); err == nil {
		h.logPersist("delete card", ignoreNotFound(h.board.DeleteCard(r.Context(), id)))
	}
	h.renderCards(w, r)
}

// OpenCard handles POST /cards/{id}/open
func (h *Handler) OpenCard(w http.ResponseWriter, r *http.Request) {
	if card, ok := h.cardFromPath(r); ok {
		if err := h.browser.OpenTab(r.Context(), card.URL); err != nil {
			h.log.Warn("open tab failed", zap.String("url", card.URL), zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// CopyCard handles POST /cards/{id}/copy
func (h *Handler) CopyCard(w http.ResponseWriter, r *http.Request) {
	if card, ok := h.cardFromPath(r); ok {
		if err := h.clipboard.WriteText(card.URL); err != nil {
			h.log.Error("clipboard failed", zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCategory handles POST /categories. Only the category regions are
// rebuilt; the cards are left as they are.
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	added, err := h.board.AddCategory(r.Context(), r.FormValue("name"))
	if !added {
		noSwap(w)
		return
	}
	h.logPersist("add category", err)
	w.Header().Set("HX-Trigger", "category-added")

	categories := h.board.Categories()
	filter := effectiveFilter(categories, r.FormValue("category"))
	h.renderHTML(w, r, components.CategoryRegions(categoriesView(categories, filter)))
}

// noSwap answers a rejected form submission: the page, including what the
// user typed, stays as it is.
func noSwap(w http.ResponseWriter) {
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(http.StatusNoContent)
}

// RemoveCategory handles DELETE /categories/{name}. Grouping depends on the
// category list, so the cards are rebuilt too.
func (h *Handler) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	h.logPersist("remove category", h.board.RemoveCategory(r.Context(), r.PathValue("name")))

	q := queryFrom(r)
	state := h.board.Snapshot()
	q.Category = effectiveFilter(state.Categories, q.Category)

	groups := groupsToViews(BuildGroups(state, q))
	h.renderHTML(w, r, templ.Join(
		components.CategoryRegions(categoriesView(state.Categories, q.Category)),
		components.CardsContainer(groups, EmptyMessage, h.browserAttached(), true),
	))
}

// ExportMarkdown handles GET /export.md
func (h *Handler) ExportMarkdown(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="links.md"`)
	fmt.Fprint(w, Markdown(h.board.Groups(queryFrom(r))))
}

// ExportPage handles GET /export
func (h *Handler) ExportPage(w http.ResponseWriter, r *http.Request) {
	rendered, err := h.render.HTML(Markdown(h.board.Groups(queryFrom(r))))
	if err != nil {
		h.log.Error("failed to render export", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.renderHTML(w, r, pages.ExportPage(rendered))
}

// --- Helper methods ---

// saveTab saves tab, asking the attached browser when tab has no URL. A
// missing tab is a silent no-op.
func (h *Handler) saveTab(r *http.Request, tab browser.Tab) (Card, bool, error) {
	if tab.URL == "" {
		active, err := h.browser.ActiveTab(r.Context())
		if err != nil {
			h.log.Debug("no active tab", zap.Error(err))
			return Card{}, false, nil
		}
		tab = active
	}
	return h.board.SaveTab(r.Context(), tab)
}

func (h *Handler) cardFromPath(r *http.Request) (Card, bool) {
	id, err := parseID(r)
	if err != nil {
		return Card{}, false
	}
	card, err := h.board.Card(id)
	if err != nil {
		return Card{}, false
	}
	return card, true
}

func (h *Handler) renderCards(w http.ResponseWriter, r *http.Request) {
	q := queryFrom(r)
	groups := groupsToViews(h.board.Groups(q))
	h.renderHTML(w, r, components.CardGroups(groups, EmptyMessage, h.browserAttached()))
}

func (h *Handler) renderHTML(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.log.Error("failed to render", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (h *Handler) browserAttached() bool {
	_, none := h.browser.(browser.None)
	return !none
}

// logPersist logs a failed store write. Writes are best effort and never
// reported to the user.
func (h *Handler) logPersist(op string, err error) {
	if err != nil {
		h.log.Error("failed to persist", zap.String("op", op), zap.Error(err))
	}
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrCardNotFound) {
		return nil
	}
	return err
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, r.PathValue("id"))
	}
	return id, nil
}

func queryFrom(r *http.Request) Query {
	return Query{
		Search:   r.FormValue("q"),
		Category: r.FormValue("category"),
	}
}

// effectiveFilter keeps the selected filter while it still names a category.
func effectiveFilter(categories []string, selected string) string {
	if selected != "" && slices.Contains(categories, selected) {
		return selected
	}
	return FilterAll
}

// --- View model converters ---

func categoriesView(categories []string, filter string) models.CategoriesView {
	return models.CategoriesView{
		Names:         categories,
		Filter:        filter,
		ManualDefault: ManualDefaultCategory,
	}
}

func groupsToViews(groups []Group) []models.GroupView {
	views := make([]models.GroupView, len(groups))
	for i, g := range groups {
		cards := make([]models.CardView, len(g.Cards))
		for j, c := range g.Cards {
			cards[j] = models.CardView{
				ID:     strconv.FormatInt(c.ID, 10),
				Title:  DisplayTitle(c),
				URL:    c.URL,
				Pinned: c.Pinned,
			}
		}
		views[i] = models.GroupView{
			Category:   g.Category,
			CountLabel: CountLabel(len(g.Cards)),
			Cards:      cards,
		}
	}
	return views
}
