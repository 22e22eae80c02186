package sanitize

import (
	"strings"
	"testing"
	"testing/quick"
)

func TestNormalizeDropsShortAndCaseDuplicates(t *testing.T) {
	in := "Short.\n\nThis paragraph is definitely long enough.\n\nThis Paragraph IS Definitely Long Enough."
	want := "This paragraph is definitely long enough."
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeTrimsBeforeComparing(t *testing.T) {
	in := "   The quick brown fox jumps over.  \n\n\tthe quick brown fox jumps over.\n\n"
	got := Normalize(in)
	if got != "The quick brown fox jumps over." {
		t.Fatalf("Normalize() = %q", got)
	}
}

func TestNormalizeLengthBoundary(t *testing.T) {
	exact := strings.Repeat("a", MinParagraphLen)
	longer := strings.Repeat("b", MinParagraphLen+1)
	got := Normalize(exact + "\n\n" + longer)
	if got != longer {
		t.Fatalf("Normalize() = %q, want only the %d-char paragraph", got, MinParagraphLen+1)
	}
}

func TestNormalizeCountsCharactersNotBytes(t *testing.T) {
	// 15 two-byte runes: 30 bytes but only 15 characters.
	short := strings.Repeat("é", 15)
	if got := Normalize(short); got != "" {
		t.Fatalf("Normalize(%q) = %q, want empty", short, got)
	}
}

func TestNormalizePreservesOrder(t *testing.T) {
	paras := []string{
		"Third paragraph in the alphabet is zeta.",
		"First paragraph mentions alpha and beta.",
		"Second paragraph is all about gamma rays.",
	}
	in := strings.Join([]string{paras[0], "tiny", paras[1], paras[0], paras[2]}, "\n\n")
	want := strings.Join(paras, "\n\n")
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\n\n", " \t\n\n  \n"} {
		if got := Normalize(in); got != "" {
			t.Fatalf("Normalize(%q) = %q, want empty", in, got)
		}
	}
}

func TestNormalizeKeepsSingleLineBreaks(t *testing.T) {
	in := "Line one of a longer paragraph\nline two continues it."
	if got := Normalize(in); got != in {
		t.Fatalf("Normalize() = %q, want input unchanged", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	prop := func(s string) bool {
		once := Normalize(s)
		return Normalize(once) == once
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 500}); err != nil {
		t.Fatal(err)
	}

	structured := func(parts []string) bool {
		s := strings.Join(parts, "\n\n")
		once := Normalize(s)
		return Normalize(once) == once
	}
	if err := quick.Check(structured, &quick.Config{MaxCount: 500}); err != nil {
		t.Fatal(err)
	}
}
