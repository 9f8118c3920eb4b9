package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func init() {
	Register("plain", func() Extractor { return &Plain{} })
}

// noiseSelectors are elements removed before plain extraction. They
// contribute no meaningful content to the page text.
var noiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "svg", "form",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// Plain keeps the whole page body, stripping only navigation and other
// noise elements. Useful for pages where the readability heuristic
// discards too much.
type Plain struct{}

func (e *Plain) Extract(body string, pageURL *url.URL) Readable {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Readable{Text: textOf(body)}
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var content string
	for _, tag := range []string{"main", "article", "body"} {
		sel := doc.Find(tag)
		if sel.Length() > 0 {
			content, _ = goquery.OuterHtml(sel.First())
			break
		}
	}

	return Readable{
		Title:   title,
		Content: content,
		Text:    textOf(content),
	}
}

func (e *Plain) Describe() string {
	return "Plain text with noise elements stripped"
}
