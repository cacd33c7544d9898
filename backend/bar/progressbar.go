package bar

import "strings"

type ProgressBar struct {
	Width     int
	Fill      string
	Indicator string
	Empty     string
}

// Output renders pct (clamped to 0..100) as Width cells.
func (p ProgressBar) Output(pct int) string {
	pct = min(max(pct, 0), 100)
	if p.Width <= 0 {
		return ""
	}
	filled := p.Width * pct / 100
	var b strings.Builder
	b.WriteString(strings.Repeat(p.Fill, filled))
	empty := p.Width - filled
	if p.Indicator != "" && empty > 0 {
		b.WriteString(p.Indicator)
		empty--
	}
	b.WriteString(strings.Repeat(p.Empty, empty))
	return b.String()
}

// IconSet maps icon names to their rendered text.
type IconSet struct {
	icons map[string]string
}

func NewIconSet() *IconSet {
	return &IconSet{icons: make(map[string]string)}
}

func (s *IconSet) Add(name, icon string) {
	s.icons[name] = icon
}

// Get returns the named icon, or an empty string if none was added.
func (s *IconSet) Get(name string) string {
	return s.icons[name]
}

func (s *IconSet) Has(name string) bool {
	_, ok := s.icons[name]
	return ok
}
