// Package preferences resolves per-URL overrides. Preferences are stored
// as rows of (glob pattern, value) where the value is either the literal
// "blacklist" or a JSON-encoded Preferences object.
package preferences

import (
	"encoding/json"
	"fmt"

	"github.com/pagekeep/pagekeep/app/extract"
)

// Preferences are URL-specific overrides, merged over global defaults.
type Preferences struct {
	// Overrides the content type reported by the server.
	ContentType string `json:"content_type,omitempty"`
	// Selects the extractor for matching URLs.
	Extract *extract.Selection `json:"extract,omitempty"`
	// Tags added to every document ingested from matching URLs.
	Tags []string `json:"tags,omitempty"`
}

// Blacklist is the stored sentinel value marking matching URLs as
// forbidden. A pattern row is either a blacklist or a preference set,
// never both.
const Blacklist = "blacklist"

// Encode renders preferences as their stored representation.
func Encode(p *Preferences) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding preferences: %w", err)
	}
	return string(data), nil
}

// Row is one stored pattern with its raw value.
type Row struct {
	Pattern string
	Value   string
}

// CorruptRowError reports a preference row whose value could not be
// decoded. Corrupt preference data is a data-integrity problem and must be
// distinguishable from a merely missing row.
type CorruptRowError struct {
	Pattern string
	Err     error
}

func (e *CorruptRowError) Error() string {
	return fmt.Sprintf("preferences for pattern %q are in an invalid format: %v", e.Pattern, e.Err)
}

func (e *CorruptRowError) Unwrap() error {
	return e.Err
}
