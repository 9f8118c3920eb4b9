// Package export renders stored documents into external formats.
package export

import (
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/pagekeep/pagekeep/app/document"
)

// PDF writes a document as a PDF file at `path`. The rich Markdown
// representation is used when present, the plain text otherwise.
func PDF(doc *document.Document, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, doc.Title, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, "Source: "+doc.URL, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	body := doc.Content.PlainText()
	markdown := false
	if webpage, ok := doc.Content.(*document.WebPage); ok && webpage.RichText != nil {
		body = *webpage.RichText
		markdown = true
	}

	if markdown {
		renderMarkdown(pdf, body)
	} else {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5.5, body, "", "L", false)
	}

	return pdf.OutputFileAndClose(path)
}

// renderMarkdown lays out Markdown line by line: headings in larger bold
// type, fenced code in a monospaced block, everything else as paragraphs.
func renderMarkdown(pdf *gofpdf.Fpdf, markdown string) {
	inCodeBlock := false

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}

		if inCodeBlock {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, line, "", "L", true)
			continue
		}

		if level := headingLevel(trimmed); level > 0 {
			size := 16 - float64(level)*1.5
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 7, strings.TrimSpace(trimmed[level:]), "", "L", false)
			pdf.Ln(1)
			continue
		}

		pdf.SetFont("Helvetica", "", 11)
		if trimmed == "" {
			pdf.Ln(3)
			continue
		}
		pdf.MultiCell(0, 5.5, line, "", "L", false)
	}
}

func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) || line[level] != ' ' {
		return 0
	}
	return level
}
