package bar

import "strings"

// Item is either a <tag> placeholder or literal text of a format.
type Item struct {
	Tag  string
	Text string
}

// Format is a parsed format string such as "<icon-prev> <toggle> <label-song>".
type Format struct {
	Items []Item
}

// ParseFormat splits s into tags and literal text. A '<' that does not
// open a well-formed tag is kept as text.
func ParseFormat(s string) Format {
	var f Format
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			f.Items = append(f.Items, Item{Text: text.String()})
			text.Reset()
		}
	}
	for len(s) > 0 {
		start := strings.IndexByte(s, '<')
		if start < 0 {
			text.WriteString(s)
			break
		}
		text.WriteString(s[:start])
		s = s[start:]
		end := strings.IndexByte(s, '>')
		if end < 0 || !validTag(s[1:end]) {
			text.WriteByte('<')
			s = s[1:]
			continue
		}
		flush()
		f.Items = append(f.Items, Item{Tag: s[:end+1]})
		s = s[end+1:]
	}
	flush()
	return f
}

// Has reports whether the format contains tag.
func (f Format) Has(tag string) bool {
	for _, it := range f.Items {
		if it.Tag == tag {
			return true
		}
	}
	return false
}

func validTag(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}
	return true
}
