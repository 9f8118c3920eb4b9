// Package extract turns raw page markup into human-readable content.
// Extractors are pure functions of their input and are registered under a
// string tag so that a chosen extraction strategy can be persisted with
// URL preferences and reconstructed later.
package extract

import (
	"fmt"
	"net/url"
	"sort"

	"golang.org/x/exp/maps"
)

// Readable is the human-readable extract of a page.
type Readable struct {
	// Best-guess title. Empty when the extractor could not find one.
	Title string
	// Cleaned markup of the main content.
	Content string
	// Plain text derived from Content.
	Text string
}

// Extractor extracts content and metadata from page markup. Implementations
// must not perform I/O; the page URL is input, used only to resolve
// relative references.
type Extractor interface {
	Extract(body string, pageURL *url.URL) Readable

	// Describe returns a human-readable description of the extractor,
	// including any interesting settings.
	Describe() string
}

// DefaultName is the extractor used when neither configuration nor URL
// preferences select one.
const DefaultName = "readability"

var registry = map[string]func() Extractor{}

// Register makes an extractor available under the given tag.
func Register(name string, factory func() Extractor) {
	registry[name] = factory
}

// New constructs the extractor registered under `name`.
func New(name string) (Extractor, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown extractor: %v", name)
	}
	return factory(), nil
}

// Names returns all registered extractor tags, sorted.
func Names() []string {
	names := maps.Keys(registry)
	sort.Strings(names)
	return names
}

// Selection is a serializable reference to a registered extractor. It is
// stored alongside URL preferences.
type Selection struct {
	Name string `json:"extractor"`
}

// New constructs the selected extractor.
func (s Selection) New() (Extractor, error) {
	return New(s.Name)
}
