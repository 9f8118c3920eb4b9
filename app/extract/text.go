package extract

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

var nonTextElements = []string{"head", "meta", "script", "style", "noscript", "object", "svg"}

// getText walks an HTML node and returns its text content with spaces
// between elements, which plain node text concatenation would omit.
func getText(node *html.Node) string {
	text := ""

	if node.FirstChild != nil {
		if !slices.Contains(nonTextElements, node.Data) {
			text += getText(node.FirstChild) + " "
		}
	}

	if node.Type == html.TextNode {
		text += node.Data + " "
	}

	if node.NextSibling != nil {
		text += getText(node.NextSibling) + " "
	}

	return strings.TrimSpace(text)
}

// textOf parses markup and returns its text content. Returns "" for
// markup that cannot be parsed at all.
func textOf(markup string) string {
	node, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return getText(node)
}
