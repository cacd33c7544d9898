package bar

import (
	"strings"

	"golang.org/x/text/width"
)

const ellipsis = "..."

// Label is a text template with %token% placeholders.
type Label struct {
	template string
	text     string
	// MaxLen limits the rendered width in cells; 0 means unlimited.
	MaxLen int
}

func NewLabel(template string, maxLen int) *Label {
	return &Label{template: template, text: template, MaxLen: maxLen}
}

// Reset restores all tokens.
func (l *Label) Reset() {
	l.text = l.template
}

// Replace substitutes every occurrence of token.
func (l *Label) Replace(token, value string) {
	l.text = strings.ReplaceAll(l.text, token, value)
}

func (l *Label) String() string {
	return Truncate(l.text, l.MaxLen)
}

// Truncate shortens s to at most maxLen display cells, ending it with an
// ellipsis when anything was cut. East Asian wide runes take two cells.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || Width(s) <= maxLen {
		return s
	}
	limit := maxLen - len(ellipsis)
	if limit <= 0 {
		return ellipsis[:maxLen]
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := runeWidth(r)
		if w+rw > limit {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	b.WriteString(ellipsis)
	return b.String()
}

// Width returns the number of cells s occupies on a terminal-like bar.
func Width(s string) int {
	w := 0
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
