// Package source turns raw fetch results into typed sources based on
// their content type. A Source owns the raw bytes of one fetch and is
// serializable for archival.
package source

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// Source is a tagged union over the supported source variants. Exactly one
// variant is set. The JSON form is keyed by the variant name, e.g.
// {"Page": {...}}, which is also the archive snapshot format.
type Source struct {
	Page *Page `json:"Page,omitempty"`
}

// URL returns the effective URL the source was fetched from.
func (s Source) URL() string {
	if s.Page != nil {
		return s.Page.URL
	}
	return ""
}

// Page is the content of a fetched web page.
type Page struct {
	// HTTP headers with which the page was returned.
	Headers http.Header `json:"headers"`
	// Raw body of the page.
	Body string `json:"body"`
	// URL from which the page was returned, after redirects.
	URL string `json:"url"`
}

// Meta runs light markup introspection over the page body. It never fails;
// malformed markup yields an empty Meta.
func (p *Page) Meta() Meta {
	return ParseMeta(p.Body)
}

// UnsupportedTypeError reports a content type that no source variant
// recognizes.
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("content type %q is not supported", e.MIME)
}

// NotImplementedError reports a recognized content type whose source
// variant has not been built yet.
type NotImplementedError struct {
	Variant string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%v sources are not implemented yet", e.Variant)
}

// Build constructs a Source from a raw fetch result, dispatching on the
// effective content type.
func Build(effectiveURL string, headers http.Header, body string, contentType string) (Source, error) {
	mediatype, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return Source{}, &UnsupportedTypeError{MIME: contentType}
	}

	switch {
	case mediatype == "text/html" || mediatype == "application/xhtml+xml":
		return Source{Page: &Page{Headers: headers, Body: body, URL: effectiveURL}}, nil
	case strings.HasPrefix(mediatype, "image/"):
		return Source{}, &NotImplementedError{Variant: "image"}
	case strings.HasPrefix(mediatype, "video/"):
		return Source{}, &NotImplementedError{Variant: "video"}
	default:
		return Source{}, &UnsupportedTypeError{MIME: mediatype}
	}
}
