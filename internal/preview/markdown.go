package preview

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/microcosm-cc/bluemonday"

	"quotebuilder/internal/domain/models"
)

// markdownExporter converts the export HTML to markdown in two stages:
// sanitize with a UGC policy, then convert.
type markdownExporter struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

func newMarkdownExporter() *markdownExporter {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.Table())

	return &markdownExporter{
		policy:    bluemonday.UGCPolicy(),
		converter: conv,
	}
}

func (e *markdownExporter) convert(html string) (string, error) {
	sanitized := e.policy.Sanitize(html)

	markdown, err := e.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown) + "\n", nil
}

// RenderMarkdown returns the document as markdown, for pasting into e-mails and
// issue trackers.
func (r *Renderer) RenderMarkdown(doc *models.Document) (string, error) {
	html, err := r.execute("export", doc)
	if err != nil {
		return "", err
	}
	return r.markdown.convert(html)
}
