package styles

import "github.com/charmbracelet/lipgloss"

var (
	ContentWidth = 54
	CardWidth    = 34
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FgPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(FgMuted).
			Italic(true)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2).
			Width(CardWidth)

	CardTitleStyle = lipgloss.NewStyle().Bold(true)

	CardDescStyle = lipgloss.NewStyle().
			Foreground(FgSecondary)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	SoonBadgeStyle = lipgloss.NewStyle().
			Foreground(FgMuted).
			Italic(true)

	UserLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#90CAF9")).
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	UserMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E0E0E0"}).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#90CAF9"))

	AiLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#A78BFA")).
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	AiMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E0E0E0"}).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#A78BFA"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(FgError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(FgSuccess).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(FgWarning).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(FgMuted).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCC80")).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(FgSecondary).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(BorderColor).
			PaddingTop(0)

	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FgPrimary).
			Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(FgPrimary).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(FgPrimary).
			Width(ContentWidth).
			MarginBottom(1)

	ModalItemStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Width(ContentWidth)

	HintColor = lipgloss.Color("#545454")

	HintStyle = lipgloss.NewStyle().Foreground(HintColor)
)
