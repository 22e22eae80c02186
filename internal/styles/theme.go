package styles

import (
	"github.com/charmbracelet/lipgloss"

	"multitool/internal/models"
)

// Theme defines a complete color scheme for the application
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	BgSurface  lipgloss.Color
	BgElevated lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	Border lipgloss.Color
}

var DarkTheme = Theme{
	Primary:   lipgloss.Color("#818CF8"), // Indigo 400
	Secondary: lipgloss.Color("#22D3EE"), // Cyan 400
	Accent:    lipgloss.Color("#F472B6"), // Pink 400

	BgSurface:  lipgloss.Color("#141419"),
	BgElevated: lipgloss.Color("#1E1E2A"),

	TextPrimary:   lipgloss.Color("#F1F5F9"), // Slate 100
	TextSecondary: lipgloss.Color("#94A3B8"), // Slate 400
	TextMuted:     lipgloss.Color("#64748B"), // Slate 500

	Success: lipgloss.Color("#34D399"), // Emerald 400
	Warning: lipgloss.Color("#FBBF24"), // Amber 400
	Error:   lipgloss.Color("#FB7185"), // Rose 400
	Info:    lipgloss.Color("#60A5FA"), // Blue 400

	Border: lipgloss.Color("#27272A"),
}

var LightTheme = Theme{
	Primary:   lipgloss.Color("#4F46E5"), // Indigo 600
	Secondary: lipgloss.Color("#0891B2"), // Cyan 600
	Accent:    lipgloss.Color("#DB2777"), // Pink 600

	BgSurface:  lipgloss.Color("#FFFFFF"),
	BgElevated: lipgloss.Color("#F4F4F5"),

	TextPrimary:   lipgloss.Color("#18181B"), // Zinc 900
	TextSecondary: lipgloss.Color("#52525B"), // Zinc 600
	TextMuted:     lipgloss.Color("#A1A1AA"), // Zinc 400

	Success: lipgloss.Color("#10B981"),
	Warning: lipgloss.Color("#F59E0B"),
	Error:   lipgloss.Color("#EF4444"),
	Info:    lipgloss.Color("#3B82F6"),

	Border: lipgloss.Color("#E4E4E7"),
}

// CurrentTheme holds the active theme (set at runtime based on terminal)
var CurrentTheme = DarkTheme

type Adaptive = lipgloss.AdaptiveColor

var (
	FgPrimary   = Adaptive{Light: string(LightTheme.Primary), Dark: string(DarkTheme.Primary)}
	FgSecondary = Adaptive{Light: string(LightTheme.TextSecondary), Dark: string(DarkTheme.TextSecondary)}
	FgMuted     = Adaptive{Light: string(LightTheme.TextMuted), Dark: string(DarkTheme.TextMuted)}
	FgError     = Adaptive{Light: string(LightTheme.Error), Dark: string(DarkTheme.Error)}
	FgSuccess   = Adaptive{Light: string(LightTheme.Success), Dark: string(DarkTheme.Success)}
	FgWarning   = Adaptive{Light: string(LightTheme.Warning), Dark: string(DarkTheme.Warning)}
	BorderColor = Adaptive{Light: string(LightTheme.Border), Dark: string(DarkTheme.Border)}
)

var toolColors = map[models.ToolID]lipgloss.Color{
	models.ToolPDFSummarizer:   lipgloss.Color("#F472B6"), // Pink
	models.ToolKeywordDetector: lipgloss.Color("#FBBF24"), // Amber
	models.ToolTextAnalyzer:    lipgloss.Color("#22D3EE"), // Cyan
	models.ToolAIChat:          lipgloss.Color("#A78BFA"), // Purple
}

// ToolColor is the accent used for a tool's card and detail header.
func ToolColor(id models.ToolID) lipgloss.Color {
	if c, ok := toolColors[id]; ok {
		return c
	}
	return CurrentTheme.Primary
}

// InitTheme sets the current theme based on terminal background
func InitTheme() {
	if lipgloss.HasDarkBackground() {
		CurrentTheme = DarkTheme
	} else {
		CurrentTheme = LightTheme
	}
}
