// Package statusline renders the mark indicator shown in the editor status
// line.
package statusline

import (
	"strings"

	"github.com/go-ports/bufmark/internal/editor"
	"github.com/go-ports/bufmark/internal/markstore"
)

// Style names the highlight groups and the neutral indicator.
type Style struct {
	Current  string // group for the mark of the current buffer
	Other    string // group for marks of other buffers
	Unmarked string // shown when the current buffer has no mark
}

// DefaultStyle returns the built-in style.
func DefaultStyle() Style {
	return Style{
		Current:  "BufMarkCurrent",
		Other:    "BufMarkOther",
		Unmarked: "[-]",
	}
}

// Render builds a Neovim statusline fragment: one segment per mark, the
// current buffer's mark in the Current group, the others in the Other group,
// and the neutral indicator when the current buffer is unmarked.
func Render(marks []markstore.Mark, current string, style Style) string {
	var b strings.Builder
	marked := false
	for _, m := range marks {
		group := style.Other
		if editor.SamePath(m.Path, current) {
			group = style.Current
			marked = true
		}
		writeSegment(&b, group, " "+escape(m.Char)+" ")
	}
	if !marked && style.Unmarked != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(escape(style.Unmarked))
	}
	return b.String()
}

func writeSegment(b *strings.Builder, group, text string) {
	if group == "" {
		b.WriteString(text)
		return
	}
	b.WriteString("%#")
	b.WriteString(group)
	b.WriteByte('#')
	b.WriteString(text)
	b.WriteString("%*")
}

// escape doubles '%' so labels are not read as statusline items.
func escape(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
