package extract

import (
	"strings"
	"testing"

	"github.com/lamnguyen/cvstudio/internal/export"
)

func TestTextPlainFiles(t *testing.T) {
	tests := []struct {
		filename string
		data     string
	}{
		{"cv.txt", "plain text CV"},
		{"cv.md", "# Markdown CV"},
		{"CV.TXT", "upper-case extension"},
		{"notes", "no extension at all"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := Text(tt.filename, []byte(tt.data)); got != tt.data {
				t.Errorf("Text() = %q, want raw content", got)
			}
		})
	}
}

func TestTextDocxRoundTrip(t *testing.T) {
	data, err := export.Docx("Nguyen Van A\nBackend Developer")
	if err != nil {
		t.Fatalf("building docx fixture: %v", err)
	}

	got := Text("cv.docx", data)
	if !strings.Contains(got, "Nguyen Van A") {
		t.Errorf("extracted text missing name:\n%q", got)
	}
	if !strings.Contains(got, "Backend Developer") {
		t.Errorf("extracted text missing title:\n%q", got)
	}
}

func TestTextCorruptDocx(t *testing.T) {
	got := Text("cv.docx", []byte("this is not a zip archive"))
	if !strings.Contains(got, "Không trích xuất được văn bản") {
		t.Errorf("Text() = %q, want inline extraction failure note", got)
	}
}

func TestTextCorruptPDF(t *testing.T) {
	got := Text("cv.pdf", []byte("%PDF-garbage"))
	if !strings.Contains(got, "Không trích xuất được văn bản") {
		t.Errorf("Text() = %q, want inline extraction failure note", got)
	}
}
