package assistant

import (
	"strings"
	"testing"

	"github.com/lamnguyen/cvstudio/internal/profile"
)

func TestContextInfoEmpty(t *testing.T) {
	if got := ContextInfo(profile.UserProfile{}, ""); got != "" {
		t.Errorf("ContextInfo(empty) = %q, want empty addendum", got)
	}
}

func TestContextInfoFields(t *testing.T) {
	p := profile.UserProfile{
		FullName: "Nguyen Van A",
		Skills:   []string{"Go", "Python"},
	}
	got := ContextInfo(p, "Backend Developer role")

	if !strings.Contains(got, "Nguyen Van A") {
		t.Errorf("missing name:\n%s", got)
	}
	if !strings.Contains(got, "Go, Python") {
		t.Errorf("missing skills:\n%s", got)
	}
	if !strings.Contains(got, "Backend Developer role...") {
		t.Errorf("missing JD excerpt:\n%s", got)
	}
}

func TestContextInfoTruncatesJD(t *testing.T) {
	// Multibyte text must be cut on rune boundaries.
	jd := strings.Repeat("ế", 300)
	got := ContextInfo(profile.UserProfile{}, jd)

	if strings.Count(got, "ế") != 200 {
		t.Errorf("JD excerpt has %d runes, want 200", strings.Count(got, "ế"))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("excerpt should end with ellipsis: %q", got)
	}
	if strings.Contains(got, "�") {
		t.Error("excerpt contains a broken rune")
	}
}
