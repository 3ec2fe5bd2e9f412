// Package extract pulls plain text out of uploaded CV/JD files.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// Text extracts text from an uploaded file based on its extension:
// .txt/.md as UTF-8 text, .docx and .pdf through their parsers, anything
// else as raw decoded bytes. A failure yields an inline Vietnamese note
// instead of an error; callers treat the result as already-decoded input.
func Text(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		return string(data)
	case ".docx":
		text, err := docxText(data)
		if err != nil {
			return extractionFailure(err)
		}
		return text
	case ".pdf":
		text, err := pdfText(data)
		if err != nil {
			return extractionFailure(err)
		}
		return text
	default:
		return string(data)
	}
}

func extractionFailure(err error) string {
	return fmt.Sprintf("Không trích xuất được văn bản từ tệp: %v", err)
}

func docxText(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			lines = append(lines, fmt.Sprint(item))
		}
	}
	return strings.Join(lines, "\n"), nil
}

func pdfText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("parsing pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parsing pdf: %w", err)
	}

	r, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return string(raw), nil
}
