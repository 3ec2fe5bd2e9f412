package export

import (
	"bytes"
	"strings"
	"testing"
)

func TestDocxNonEmpty(t *testing.T) {
	data, err := Docx("Nguyen Van A\nBackend Developer\n\nSkills: Go, Python")
	if err != nil {
		t.Fatalf("Docx: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty docx output")
	}
	// DOCX is a zip archive.
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("docx output does not start with zip magic: % x", data[:4])
	}
}

func TestPDFNonEmpty(t *testing.T) {
	data, err := PDF("Nguyen Van A\nBackend Developer")
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("pdf output missing header: % x", data[:8])
	}
}

func TestWrapText(t *testing.T) {
	lines := WrapText("one two three four five", 10)

	for _, line := range lines {
		if len([]rune(line)) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	// Paragraph text survives the wrap.
	joined := strings.Join(lines, " ")
	for _, word := range []string{"one", "two", "three", "four", "five"} {
		if !strings.Contains(joined, word) {
			t.Errorf("wrapped output lost %q", word)
		}
	}
	// Each paragraph ends with a blank spacer line.
	if lines[len(lines)-1] != "" {
		t.Errorf("last line = %q, want blank spacer", lines[len(lines)-1])
	}
}

func TestWrapTextLongWord(t *testing.T) {
	long := strings.Repeat("x", 30)
	lines := WrapText(long, 10)

	// A word longer than the width is never split.
	found := false
	for _, line := range lines {
		if line == long {
			found = true
		}
	}
	if !found {
		t.Errorf("overlong word should stay on its own line, got %v", lines)
	}
}

func TestWrapTextEmptyParagraphs(t *testing.T) {
	lines := WrapText("a\n\nb", 10)
	want := []string{"a", "", "", "b", ""}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}
