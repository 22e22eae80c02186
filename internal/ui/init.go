package ui

import (
	"database/sql"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"multitool/internal/launcher"
	"multitool/internal/logging"
	"multitool/internal/session"
	"multitool/internal/styles"
)

// Deps are the collaborators the UI drives. Launcher may be nil when the
// backend is managed elsewhere (the -demo flag).
type Deps struct {
	Controller *session.Controller
	Backend    launcher.Prober
	Launcher   Ensurer
	DB         *sql.DB
	Logger     *slog.Logger
}

func InitialModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}

	ti := textinput.New()
	ti.Placeholder = "Path to a PDF file"
	ti.Prompt = "❯ "
	ti.CharLimit = 1024
	ti.ShowSuggestions = true
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	ti.PlaceholderStyle = styles.HintStyle

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Prompt = "❯ "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 6
	ta.SetHeight(2)
	ta.SetWidth(80)
	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	ta.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB")).Bold(true)
	ta.FocusedStyle.Placeholder = styles.HintStyle
	ta.BlurredStyle.Placeholder = styles.HintStyle
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#B39DDB"))

	return Model{
		Controller: deps.Controller,
		Backend:    deps.Backend,
		Launcher:   deps.Launcher,
		DB:         deps.DB,
		Logger:     deps.Logger,
		Checking:   true,
		PathInput:  ti,
		ChatInput:  ta,
		Spinner:    sp,
		Viewport:   viewport.New(60, 15),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		m.checkBackend(),
	)
}

func NewProgram(deps Deps) *tea.Program {
	styles.InitTheme()
	m := InitialModel(deps)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	m.Program = p
	return p
}
