package ui

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"multitool/internal/models"
)

func TestCompressionPercent(t *testing.T) {
	cases := []struct {
		ratio float64
		want  string
	}{
		{0, "0.0%"},
		{0.1234, "12.3%"},
		{0.5, "50.0%"},
		{1, "100.0%"},
	}
	for _, c := range cases {
		if got := CompressionPercent(c.ratio); got != c.want {
			t.Errorf("CompressionPercent(%v) = %q, want %q", c.ratio, got, c.want)
		}
	}
}

func TestPathSuggestions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "A.PDF", "notes.txt", ".hidden.pdf"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "papers"), 0o700); err != nil {
		t.Fatal(err)
	}

	sep := string(filepath.Separator)
	got := PathSuggestions(dir + sep)
	want := []string{dir + sep + "papers" + sep, dir + sep + "A.PDF", dir + sep + "b.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PathSuggestions = %v, want %v", got, want)
	}

	if got := PathSuggestions(dir + sep + "b"); !reflect.DeepEqual(got, []string{dir + sep + "b.pdf"}) {
		t.Fatalf("prefix filter = %v", got)
	}
	if got := PathSuggestions(""); got != nil {
		t.Fatalf("empty input = %v", got)
	}
}

func TestCycleWraps(t *testing.T) {
	if got := cycle(models.SummaryLengths, models.SummaryLengthLong); got != models.SummaryLengthShort {
		t.Fatalf("cycle wrap = %q", got)
	}
	if got := cycle(models.MaxTokenPresets, 999); got != models.MaxTokenPresets[0] {
		t.Fatalf("unknown value should restart, got %d", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Fatalf("short = %q", got)
	}
	if got := TruncateRunes("hello world", 6); got != "hello…" {
		t.Fatalf("long = %q", got)
	}
	if got := TruncateRunes("日本語テキスト", 5); got != "日本…" {
		t.Fatalf("wide = %q", got)
	}
}

func TestPhaseLabels(t *testing.T) {
	for s := models.UploadPending; s <= models.UploadFailed; s++ {
		if PhaseLabel(s) == "" {
			t.Errorf("no label for %s", s)
		}
	}
}
