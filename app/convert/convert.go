// Package convert renders page markup as Markdown. Two converters exist:
// a built-in library converter and one that shells out to pandoc.
package convert

import (
	"context"
	"errors"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ErrNotInstalled reports that an external conversion tool is missing from
// the system, as opposed to the tool running and failing.
var ErrNotInstalled = errors.New("conversion tool is not installed")

// Converter renders markup as Markdown.
type Converter interface {
	Convert(ctx context.Context, markup string) (string, error)
}

// New constructs the converter selected by configuration.
func New(name string) (Converter, error) {
	switch name {
	case "library", "":
		return &Library{}, nil
	case "pandoc":
		return &Pandoc{}, nil
	default:
		return nil, fmt.Errorf("unknown converter: %v", name)
	}
}

// Library converts markup in-process.
type Library struct{}

func (c *Library) Convert(ctx context.Context, markup string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(markup)
	if err != nil {
		return "", fmt.Errorf("converting markup to markdown: %w", err)
	}
	return markdown, nil
}
