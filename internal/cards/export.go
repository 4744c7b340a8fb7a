package cards

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

var titleEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, "\n", " ")

var destEscaper = strings.NewReplacer("<", "%3C", ">", "%3E", "\n", "")

// Markdown renders groups as a markdown document: one section per category
// and one list item per card, pinned cards marked with a pin.
func Markdown(groups []Group) string {
	var b strings.Builder
	b.WriteString("# Links\n")
	if len(groups) == 0 {
		b.WriteString("\n" + EmptyMessage + "\n")
		return b.String()
	}
	for _, g := range groups {
		fmt.Fprintf(&b, "\n## %s\n\n", titleEscaper.Replace(g.Category))
		for _, c := range g.Cards {
			b.WriteString("- ")
			if c.Pinned {
				b.WriteString("📌 ")
			}
			fmt.Fprintf(&b, "[%s](<%s>)\n", titleEscaper.Replace(DisplayTitle(c)), destEscaper.Replace(c.URL))
		}
	}
	return b.String()
}

// Renderer converts exported markdown to HTML. Raw HTML in the input is not
// passed through.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{md: goldmark.New()}
}

func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
