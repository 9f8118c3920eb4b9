package source

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta is page metadata discovered by markup introspection, independent of
// any extractor. It feeds the title fallback chain during document assembly.
type Meta struct {
	// Content of the <title> element.
	Title string
	// Open Graph title property, if present.
	OGTitle string
	// Content of the description meta tag, if present.
	Description string
}

// ParseMeta inspects page markup for title and meta tags. Parse failure is
// treated as "no metadata available", never as an error.
func ParseMeta(body string) Meta {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Meta{}
	}

	meta := Meta{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		meta.OGTitle = strings.TrimSpace(og)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		meta.Description = strings.TrimSpace(desc)
	}

	return meta
}
