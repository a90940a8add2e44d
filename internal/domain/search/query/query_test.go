package query

import (
	"strings"
	"testing"
)

func TestNew_Normalized(t *testing.T) {
	q, err := New("  React NATIVE ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Normalized() != "react native" {
		t.Errorf("Normalized() = %q", q.Normalized())
	}
	if q.Text() != "  React NATIVE " {
		t.Errorf("Text() = %q, raw text should be kept", q.Text())
	}
}

func TestQuery_Emptiness(t *testing.T) {
	tests := []struct {
		text, category      string
		blank, empty, hasCat bool
	}{
		{"", "", true, true, false},
		{"   \t", "", true, true, false},
		{"", "AI/ML", true, false, true},
		{"go", "", false, false, false},
	}
	for _, tc := range tests {
		q, err := New(tc.text, tc.category)
		if err != nil {
			t.Fatalf("New(%q, %q): %v", tc.text, tc.category, err)
		}
		if q.IsBlank() != tc.blank || q.IsEmpty() != tc.empty || q.HasCategory() != tc.hasCat {
			t.Errorf("New(%q, %q): blank=%v empty=%v hasCat=%v",
				tc.text, tc.category, q.IsBlank(), q.IsEmpty(), q.HasCategory())
		}
	}
}

func TestNew_TooLong(t *testing.T) {
	_, err := New(strings.Repeat("x", MaxLength+1), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "too long") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_InvalidUTF8(t *testing.T) {
	if _, err := New("\xff\xfe", ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestFrom_SkipsChecks(t *testing.T) {
	long := strings.Repeat("x", MaxLength+1)
	q := From(long, "Web")
	if q.Text() != long || q.Category() != "Web" {
		t.Errorf("From = %q/%q", q.Text(), q.Category())
	}
	if From("\xff", "").IsBlank() {
		t.Error("invalid UTF-8 text reported blank")
	}
}
