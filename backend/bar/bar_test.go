package bar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	f := ParseFormat("<icon-prev> <toggle> <icon-next>  <label-song> a<b <nope!> x>")
	assert.Equal(t, []Item{
		{Tag: "<icon-prev>"},
		{Text: " "},
		{Tag: "<toggle>"},
		{Text: " "},
		{Tag: "<icon-next>"},
		{Text: "  "},
		{Tag: "<label-song>"},
		{Text: " a<b <nope!> x>"},
	}, f.Items)
	assert.True(t, f.Has("<toggle>"))
	assert.False(t, f.Has("<label-time>"))

	assert.Empty(t, ParseFormat("").Items)
	assert.Equal(t, []Item{{Tag: "<label-offline>"}}, ParseFormat("<label-offline>").Items)
}

func TestLabel(t *testing.T) {
	l := NewLabel("%artist% - %title%", 0)
	l.Replace("%artist%", "Artist")
	l.Replace("%title%", "Title")
	assert.Equal(t, "Artist - Title", l.String())

	l.Reset()
	assert.Equal(t, "%artist% - %title%", l.String())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 0, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, ".."},
		{"日本語の歌", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	p := ProgressBar{Width: 10, Fill: "=", Indicator: "|", Empty: "-"}
	tests := []struct {
		pct  int
		want string
	}{
		{0, "|---------"},
		{50, "=====|----"},
		{100, "=========="},
		{150, "=========="},
		{-3, "|---------"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Output(tt.pct), "Output(%d)", tt.pct)
	}
	assert.Equal(t, "", ProgressBar{}.Output(50))
}

func TestPolybarBuilder(t *testing.T) {
	b := &PolybarBuilder{CommandPrefix: "mprisbar -command "}
	b.Node("[")
	b.Cmd(MouseLeft, "mprisplay", "P")
	b.Cmd(MouseLeft, "mprisnext", "")
	b.Node("]")
	assert.Equal(t, "[%{A1:mprisbar -command mprisplay:}P%{A}]", b.String())

	b.Reset()
	b.Cmd(MouseRight, "a:b", "x")
	assert.Equal(t, `%{A3:mprisbar -command a\:b:}x%{A}`, b.String())

	plain := &PolybarBuilder{PlainText: true}
	plain.Cmd(MouseLeft, "mprisplay", "P")
	assert.Equal(t, "P", plain.String())
}
