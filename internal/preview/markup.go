package preview

import "strings"

// SpanKind is the emphasis applied to a run of subitem text
type SpanKind string

const (
	SpanPlain  SpanKind = "plain"
	SpanBold   SpanKind = "bold"
	SpanItalic SpanKind = "italic"
	SpanCode   SpanKind = "code"
)

// Span is one run of text with a single emphasis. Text never carries the
// delimiters and is not escaped.
type Span struct {
	Kind SpanKind
	Text string
}

type delimiter struct {
	open string
	kind SpanKind
}

// Order matters: at a given position bold wins over italic, italic over code.
var delimiters = []delimiter{
	{"**", SpanBold},
	{"_", SpanItalic},
	{"`", SpanCode},
}

// ParseMarkup splits text into spans, scanning left to right. A delimiter opens a
// span only when the same delimiter closes it later on the same line with at
// least one character in between; the nearest such closer is used. Spans never
// nest, so markers inside a span are kept as literal text.
func ParseMarkup(text string) []Span {
	var spans []Span
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Kind: SpanPlain, Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(text); {
		matched := false
		for _, d := range delimiters {
			content, ok := closeAt(text, i, d.open)
			if !ok {
				continue
			}
			flush()
			spans = append(spans, Span{Kind: d.kind, Text: content})
			i += len(d.open)*2 + len(content)
			matched = true
			break
		}
		if !matched {
			plain.WriteByte(text[i])
			i++
		}
	}
	flush()

	return spans
}

// closeAt reports the content of a span opened by delim at position i.
// Delimiters are ASCII, so byte offsets never split a multi-byte rune.
func closeAt(text string, i int, delim string) (string, bool) {
	if !strings.HasPrefix(text[i:], delim) {
		return "", false
	}
	start := i + len(delim)
	if start >= len(text) {
		return "", false
	}
	// content needs at least one byte, so search past it
	rel := strings.Index(text[start+1:], delim)
	if rel < 0 {
		return "", false
	}
	content := text[start : start+1+rel]
	if strings.ContainsAny(content, "\r\n") {
		return "", false
	}
	return content, true
}
