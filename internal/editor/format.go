package editor

import (
	"fmt"
	"unicode/utf8"
)

// Format is an inline emphasis a subitem selection can be wrapped in
type Format string

const (
	FormatBold   Format = "bold"
	FormatItalic Format = "italic"
	FormatCode   Format = "code"
)

var formatMarkers = map[Format]string{
	FormatBold:   "**",
	FormatItalic: "_",
	FormatCode:   "`",
}

const msgSelectText = "Selecione um texto para formatar"

// Selection is a half-open range of rune offsets, like a text input's
// selectionStart/selectionEnd.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Wrap surrounds the selected runes of text with the markers for format. An
// empty selection is rejected and text is returned unchanged.
func Wrap(text string, sel Selection, format Format) (string, Selection, error) {
	marker, ok := formatMarkers[format]
	if !ok {
		return text, sel, invalid(fmt.Sprintf("unknown format %q", format))
	}

	runes := []rune(text)
	if sel.Start < 0 || sel.End > len(runes) || sel.Start > sel.End {
		return text, sel, invalid(fmt.Sprintf("selection %d-%d out of range", sel.Start, sel.End))
	}
	if sel.Start == sel.End {
		return text, sel, invalid(msgSelectText)
	}

	selected := string(runes[sel.Start:sel.End])
	wrapped := marker + selected + marker
	out := string(runes[:sel.Start]) + wrapped + string(runes[sel.End:])

	return out, Selection{Start: sel.Start, End: sel.Start + utf8.RuneCountInString(wrapped)}, nil
}
