package desktop

import (
	"fmt"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

// htmlDocumentRenderer prepares inline HTML for storage as a document:
// the markup is sanitized, and a plain-text excerpt is derived from its
// markdown rendering. Safe for concurrent use.
type htmlDocumentRenderer struct {
	policy    *bluemonday.Policy
	converter *md.Converter
}

func newHTMLDocumentRenderer() *htmlDocumentRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()

	return &htmlDocumentRenderer{
		policy:    policy,
		converter: md.NewConverter("", true, nil),
	}
}

// Render returns the sanitized HTML and an excerpt of at most maxRunes runes
func (r *htmlDocumentRenderer) Render(content string, maxRunes int) (string, string, error) {
	sanitized := r.policy.Sanitize(content)

	markdown, err := r.converter.ConvertString(sanitized)
	if err != nil {
		return "", "", fmt.Errorf("convert html to markdown: %w", err)
	}

	return sanitized, excerpt(markdown, maxRunes), nil
}

// excerpt collapses whitespace and truncates to maxRunes runes
func excerpt(text string, maxRunes int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	return string([]rune(text)[:maxRunes])
}
