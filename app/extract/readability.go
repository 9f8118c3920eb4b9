package extract

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

func init() {
	Register("readability", func() Extractor { return &Readability{} })
}

// Readability extracts the main article content using a boilerplate-removal
// heuristic (link density, class name scoring, etc.).
type Readability struct{}

func (e *Readability) Extract(body string, pageURL *url.URL) Readable {
	article, err := readability.FromReader(strings.NewReader(body), pageURL)

	if err != nil || article.TextContent == "" {
		// Readability couldn't parse the document. Instead, use a
		// simpler heuristic to find text content.
		return Readable{Text: textOf(body)}
	}

	text := article.TextContent
	if t := textOf(article.Content); t != "" {
		// Re-derive the text from the content markup to get spaces
		// between elements.
		text = t
	}

	return Readable{
		Title:   strings.TrimSpace(article.Title),
		Content: article.Content,
		Text:    text,
	}
}

func (e *Readability) Describe() string {
	return "Readability"
}
