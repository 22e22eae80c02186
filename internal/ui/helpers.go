package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"multitool/internal/models"
	"multitool/internal/styles"
)

// ExpandPath resolves a leading "~" to the home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// PathSuggestions lists directories and PDFs that complete value. Each entry
// starts with value itself so the text input can offer it inline.
func PathSuggestions(value string) []string {
	if value == "" {
		return nil
	}
	dir, prefix := filepath.Split(ExpandPath(value))
	if !strings.HasSuffix(value, prefix) {
		return nil
	}
	typedDir := value[:len(value)-len(prefix)]
	searchDir := dir
	if searchDir == "" {
		searchDir = "."
	}

	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil
	}

	var dirs, files []string
	lowerPrefix := strings.ToLower(prefix)
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(name), lowerPrefix) {
			continue
		}
		switch {
		case entry.IsDir():
			dirs = append(dirs, typedDir+name+string(filepath.Separator))
		case strings.EqualFold(filepath.Ext(name), ".pdf"):
			files = append(files, typedDir+name)
		}
	}
	return sortAndLimitSuggestions(dirs, files)
}

// sortAndLimitSuggestions puts directories first, each group alphabetical
func sortAndLimitSuggestions(dirs, files []string) []string {
	byName := func(list []string) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i]) < strings.ToLower(list[j])
		})
	}
	byName(dirs)
	byName(files)

	suggestions := append(dirs, files...)
	if len(suggestions) > 10 {
		suggestions = suggestions[:10]
	}
	return suggestions
}

func WrappedLineCount(value string, width int) int {
	if width <= 0 {
		return 1
	}
	lines := strings.Split(value, "\n")
	if len(lines) == 0 {
		return 1
	}
	count := 0
	for _, line := range lines {
		w := runewidth.StringWidth(line)
		if w == 0 {
			count++
			continue
		}
		count += (w-1)/width + 1
	}
	return count
}

// TruncateRunes shortens s to at most max display cells, ending in an ellipsis.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return runewidth.Truncate(s, max, "…")
}

func FormatUserMessage(content string, width int) string {
	label := styles.UserLabelStyle.Render("YOU")
	msg := styles.UserMsgStyle.Width(max(width-4, 10)).Render(content)
	return fmt.Sprintf("%s\n%s", label, msg)
}

func FormatAIMessage(content string) string {
	label := styles.AiLabelStyle.Render("AI")
	msg := styles.AiMsgStyle.Render(content)
	return fmt.Sprintf("%s\n%s", label, msg)
}

// FormatStats is the line shown under a finished summary.
func FormatStats(res models.SummaryResult) string {
	parts := []string{
		fmt.Sprintf("Original: %d chars", res.OriginalLength),
		fmt.Sprintf("Summary: %d chars", res.SummaryLength),
		"Compression: " + CompressionPercent(res.CompressionRatio),
	}
	if res.StrategyUsed != "" {
		parts = append(parts, "Strategy: "+res.StrategyUsed)
	}
	return strings.Join(parts, "  •  ")
}

// CompressionPercent renders a 0..1 ratio as a percentage with one decimal.
func CompressionPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// PhaseLabel is the progress text for an upload job status.
func PhaseLabel(s models.UploadStatus) string {
	switch s {
	case models.UploadPending:
		return "Ready"
	case models.UploadUploading:
		return "Uploading file..."
	case models.UploadUploaded:
		return "Upload complete"
	case models.UploadProcessing:
		return "Analyzing PDF with AI..."
	case models.UploadCompleted:
		return "Summary ready"
	case models.UploadFailed:
		return "Failed"
	}
	return s.String()
}

func TemperatureLabel(t float64) string {
	for _, p := range models.TemperaturePresets {
		if p.Value == t {
			return fmt.Sprintf("%s (%.1f)", p.Label, t)
		}
	}
	return fmt.Sprintf("%.1f", t)
}

// cycle returns the element after cur in list, wrapping around. Unknown
// values restart at the first element.
func cycle[T comparable](list []T, cur T) T {
	for i, v := range list {
		if v == cur {
			return list[(i+1)%len(list)]
		}
	}
	return list[0]
}

func temperatureValues() []float64 {
	out := make([]float64, len(models.TemperaturePresets))
	for i, p := range models.TemperaturePresets {
		out[i] = p.Value
	}
	return out
}
