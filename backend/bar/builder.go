package bar

import (
	"fmt"
	"strings"
)

type MouseButton int

const (
	MouseLeft MouseButton = iota + 1
	MouseMiddle
	MouseRight
	ScrollUp
	ScrollDown
)

// PolybarBuilder renders a line of output with polybar action tags.
type PolybarBuilder struct {
	// CommandPrefix is prepended to every command identifier, turning it
	// into the shell command polybar runs on click.
	CommandPrefix string
	// PlainText drops click actions, for output read by a human.
	PlainText bool

	sb strings.Builder
}

// Node appends text verbatim.
func (b *PolybarBuilder) Node(text string) {
	b.sb.WriteString(text)
}

// Cmd appends icon wrapped in an action that runs cmd when clicked with button.
func (b *PolybarBuilder) Cmd(button MouseButton, cmd string, icon string) {
	if icon == "" {
		return
	}
	if b.PlainText {
		b.sb.WriteString(icon)
		return
	}
	fmt.Fprintf(&b.sb, "%%{A%d:%s:}%s%%{A}", button, escapeAction(b.CommandPrefix+cmd), icon)
}

func (b *PolybarBuilder) String() string {
	return b.sb.String()
}

func (b *PolybarBuilder) Reset() {
	b.sb.Reset()
}

// colons terminate the command of an action tag
func escapeAction(cmd string) string {
	return strings.ReplaceAll(cmd, ":", `\:`)
}
