package cards

import (
	"fmt"
	"sort"
	"strings"
)

// Filter returns the cards matching q, in their original order.
func Filter(all []Card, q Query) []Card {
	search := strings.ToLower(q.Search)
	out := make([]Card, 0, len(all))
	for _, c := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Title), search) &&
			!strings.Contains(strings.ToLower(c.URL), search) {
			continue
		}
		if q.Category != "" && q.Category != FilterAll && CategoryOf(c) != q.Category {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SortCards orders pinned cards first, then newest first. The sort is stable.
func SortCards(list []Card) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Pinned != list[j].Pinned {
			return list[i].Pinned
		}
		return list[i].CreatedAt > list[j].CreatedAt
	})
}

// GroupByCategory groups sorted cards. Groups follow order first; categories
// missing from order are appended in first-encountered order.
func GroupByCategory(list []Card, order []string) []Group {
	byCat := make(map[string][]Card)
	var seen []string
	for _, c := range list {
		cat := CategoryOf(c)
		if _, ok := byCat[cat]; !ok {
			seen = append(seen, cat)
		}
		byCat[cat] = append(byCat[cat], c)
	}

	groups := make([]Group, 0, len(byCat))
	placed := make(map[string]bool, len(byCat))
	for _, cat := range order {
		if items, ok := byCat[cat]; ok && !placed[cat] {
			groups = append(groups, Group{Category: cat, Cards: items})
			placed[cat] = true
		}
	}
	for _, cat := range seen {
		if !placed[cat] {
			groups = append(groups, Group{Category: cat, Cards: byCat[cat]})
			placed[cat] = true
		}
	}
	return groups
}

// BuildGroups runs the whole render pipeline over s. An empty result means
// the placeholder should be shown.
func BuildGroups(s State, q Query) []Group {
	filtered := Filter(s.Cards, q)
	if len(filtered) == 0 {
		return nil
	}
	SortCards(filtered)
	return GroupByCategory(filtered, s.Categories)
}

// CountLabel renders the group header count.
func CountLabel(n int) string {
	if n == 1 {
		return "1 link"
	}
	return fmt.Sprintf("%d links", n)
}
