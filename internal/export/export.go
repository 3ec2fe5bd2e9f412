// Package export turns final CV text into downloadable document bytes.
package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
)

// Page layout constants for PDF rendering.
const (
	pdfMargin     = 40.0 // points
	pdfFontSize   = 11.0
	pdfLineHeight = 14.0
	pdfWrapWidth  = 90 // characters per line before wrapping
)

// fontFile is loaded when present so Vietnamese text renders correctly;
// without it the built-in Helvetica is used.
const fontFile = "DejaVuSans.ttf"

// Docx renders the text as a Word document, one paragraph per line.
func Docx(text string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()
	for _, line := range strings.Split(text, "\n") {
		doc.AddParagraph().AddText(line)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing docx: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF renders the text as an A4 PDF: fixed-width word wrap, one cell per
// line, paginating when vertical space is exhausted.
func PDF(text string) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(true, pdfMargin)

	family := "Helvetica"
	if _, err := os.Stat(fontFile); err == nil {
		doc.AddUTF8Font("DejaVu", "", fontFile)
		family = "DejaVu"
	}

	doc.AddPage()
	doc.SetFont(family, "", pdfFontSize)

	for _, line := range WrapText(text, pdfWrapWidth) {
		doc.CellFormat(0, pdfLineHeight, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// WrapText splits each paragraph at word boundaries so no line exceeds
// width characters, keeping a blank line after every paragraph.
func WrapText(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		cur := ""
		for _, word := range strings.Fields(paragraph) {
			trial := word
			if cur != "" {
				trial = cur + " " + word
			}
			if len([]rune(trial)) > width {
				lines = append(lines, cur)
				cur = word
			} else {
				cur = trial
			}
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		lines = append(lines, "")
	}
	return lines
}
