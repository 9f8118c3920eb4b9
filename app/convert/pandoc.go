package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Pandoc converts markup by piping it through the pandoc executable, which
// has to be installed on the system.
type Pandoc struct {
	// Command overrides the executable name. Defaults to "pandoc".
	Command string
}

func (c *Pandoc) Convert(ctx context.Context, markup string) (string, error) {
	command := c.Command
	if command == "" {
		command = "pandoc"
	}

	if _, err := exec.LookPath(command); err != nil {
		return "", fmt.Errorf("%q: %w", command, ErrNotInstalled)
	}

	cmd := exec.CommandContext(ctx, command,
		"-f", "html",
		"-t", "markdown_strict-raw_html",
		"--wrap=none",
		"--reference-links",
	)
	cmd.Stdin = strings.NewReader(markup)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Distinguish a missing executable (raced away since LookPath)
		// from a conversion failure.
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%q: %w", command, ErrNotInstalled)
		}
		return "", fmt.Errorf("%v failed: %v: %w", command, strings.TrimSpace(stderr.String()), err)
	}

	return out.String(), nil
}
