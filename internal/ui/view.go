package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"multitool/internal/models"
	"multitool/internal/session"
	"multitool/internal/styles"
	"multitool/internal/tools"
)

func (m *Model) RenderBanner() string {
	switch {
	case m.Checking:
		return m.Spinner.View() + " Checking AI backend..."
	case m.Readiness.Healthy:
		line := styles.SuccessStyle.Render("● Connected to AI Backend")
		if !m.Readiness.Health.ModelLoaded && m.Readiness.Health.Status != "" {
			line += "  " + styles.WarningStyle.Render("(model not loaded)")
		}
		return line
	default:
		warning := m.Readiness.Warning
		if warning == "" {
			warning = "Backend Not Available. Please start the Python server."
		}
		return styles.WarningStyle.Render("▲ "+warning) + styles.HintStyle.Render("  ^R retry")
	}
}

func (m *Model) RenderCard(t tools.Tool, selected bool) string {
	accent := styles.ToolColor(t.ID)
	title := styles.CardTitleStyle.Foreground(accent).Render(t.Icon + "  " + t.Name)
	desc := styles.CardDescStyle.Render(t.Description)

	var badge string
	if t.Available() {
		badge = styles.BadgeStyle.Background(accent).Render("Open")
	} else {
		badge = styles.SoonBadgeStyle.Render("Coming soon")
	}

	card := styles.CardStyle.Width(styles.CardWidth)
	if selected {
		card = card.BorderForeground(accent).BorderStyle(lipgloss.ThickBorder())
	}
	return card.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", desc, "", badge))
}

func (m *Model) RenderGrid() string {
	var rows []string
	for i := 0; i < len(tools.Definitions); i += GridColumns {
		var cards []string
		for j := i; j < i+GridColumns && j < len(tools.Definitions); j++ {
			cards = append(cards, m.RenderCard(tools.Definitions[j], j == m.GridIdx))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	intro := styles.SubtitleStyle.Render("Choose a tool to get started")
	return lipgloss.JoinVertical(lipgloss.Center, intro, "", lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) RenderDetail(s *session.ToolSession) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(styles.ToolColor(s.Tool.ID)).
		Render(s.Tool.Icon + "  " + s.Tool.Name)
	desc := styles.SubtitleStyle.Render(s.Tool.Description)

	var body string
	switch s.Tool.Kind {
	case tools.KindUpload:
		body = m.RenderSummarizer(s)
	case tools.KindChat:
		body = m.RenderChat(s)
	default:
		body = m.RenderPlaceholder()
	}
	return lipgloss.JoinVertical(lipgloss.Left, heading, desc, "", body)
}

func (m *Model) RenderPlaceholder() string {
	box := styles.ModalStyle.Width(min(ModalWidth, m.contentWidth())).Align(lipgloss.Center).Render(
		lipgloss.JoinVertical(lipgloss.Center,
			styles.TitleStyle.Render("🚧 Coming soon"),
			"",
			styles.HintStyle.Render("This tool is not available yet. Press Esc to go back."),
		),
	)
	return box
}

func (m *Model) RenderSummarizer(s *session.ToolSession) string {
	width := m.contentWidth()
	input := styles.InputBoxStyle.Width(width - 2).Render(m.PathInput.View())

	settings := fmt.Sprintf("%s%s   %s%s",
		styles.LabelStyle.Render("Length"), styles.ValueStyle.Render(s.Summary.Length),
		styles.LabelStyle.Render("Strategy"), styles.ValueStyle.Render(s.Summary.Strategy),
	)

	var status string
	switch {
	case m.Busy:
		status = m.Spinner.View() + " " + PhaseLabel(m.Phase)
	case m.JobErr != "":
		status = styles.ErrorStyle.Render("✗ " + m.JobErr)
	case m.Summary != nil:
		status = styles.SuccessStyle.Render("✓ " + PhaseLabel(models.UploadCompleted))
	default:
		status = styles.HintStyle.Render(fmt.Sprintf("Enter a path (Tab completes) and press Enter. Max %d MB.", s.Pipeline.MaxSize()>>20))
	}

	return lipgloss.JoinVertical(lipgloss.Left, input, settings, "", status, "", m.Viewport.View())
}

func (m *Model) RenderChat(s *session.ToolSession) string {
	width := m.contentWidth()
	cfg := s.Chat.Settings()
	settings := fmt.Sprintf("%s%s   %s%s",
		styles.LabelStyle.Render("Max tokens"), styles.ValueStyle.Render(fmt.Sprint(cfg.MaxTokens)),
		styles.LabelStyle.Render("Temperature"), styles.ValueStyle.Render(TemperatureLabel(cfg.Temperature)),
	)

	inputStyle := styles.InputBoxStyle.Width(width - 2)
	if m.ChatPending {
		inputStyle = inputStyle.BorderForeground(styles.FgMuted)
	}
	input := inputStyle.Render(m.ChatInput.View())

	return lipgloss.JoinVertical(lipgloss.Left, m.Viewport.View(), "", settings, input)
}

func (m *Model) renderMarkdown(md string) string {
	if m.Renderer == nil {
		return md
	}
	out, err := m.Renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// UpdateViewport rebuilds the scrollable area of the active tool.
func (m *Model) UpdateViewport() {
	s := m.Controller.Active()
	if s == nil {
		return
	}
	switch s.Tool.Kind {
	case tools.KindUpload:
		if m.Summary == nil {
			m.Viewport.SetContent("")
			return
		}
		stats := styles.StatsStyle.Width(m.Viewport.Width).Render(FormatStats(*m.Summary))
		hint := styles.HintStyle.Render("^Y copy • ^O save as " + SummaryFile)
		m.Viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, m.renderMarkdown(m.Summary.SummaryText), "", stats, hint))

	case tools.KindChat:
		parts := []string{FormatAIMessage(m.renderMarkdown(ChatGreeting))}
		for _, msg := range s.Chat.History() {
			if msg.Role == models.RoleUser {
				parts = append(parts, FormatUserMessage(msg.Content, m.Viewport.Width))
			} else {
				parts = append(parts, FormatAIMessage(m.renderMarkdown(msg.Content)))
			}
		}
		if m.ChatPending {
			parts = append(parts, styles.AiLabelStyle.Render("AI")+"\n"+m.Spinner.View()+" Thinking...")
		}
		m.Viewport.SetContent(strings.Join(parts, "\n\n"))
		m.Viewport.GotoBottom()
	}
}

func (m *Model) RenderShortcutsModal() string {
	title := styles.ModalTitleStyle.Render("Keyboard Shortcuts")

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"←↑↓→ / hjkl", "Move between tools"},
		{"Enter / 1-4", "Open tool"},
		{"Esc", "Back to tools"},
		{"Tab", "Complete file path"},
		{"Ctrl+L", "Cycle summary length / reply length"},
		{"Ctrl+T", "Cycle strategy / temperature"},
		{"Ctrl+Y", "Copy summary"},
		{"Ctrl+O", "Save summary as " + SummaryFile},
		{"Ctrl+R", "Re-check AI backend"},
		{"Ctrl+S", "View Shortcuts (this menu)"},
		{"Ctrl+C", "Quit Application"},
	}

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFCC80")).
		Bold(true).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#E0E0E0"})

	var items []string
	for _, s := range shortcuts {
		line := fmt.Sprintf("%s %s", keyStyle.Render(s.key), descStyle.Render(s.desc))
		items = append(items, styles.ModalItemStyle.Render(line))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, items...))
	hint := lipgloss.NewStyle().
		Foreground(styles.HintColor).
		Width(styles.ContentWidth).
		PaddingTop(1).
		Render("Esc/Enter: close")

	return lipgloss.JoinVertical(lipgloss.Left, content, hint)
}

func (m *Model) RenderBottomBar() string {
	badgeText, badgeColor := "TOOLS", lipgloss.Color("#81D4FA")
	hints := "←↑↓→ move • Enter open • q quit"
	if s := m.Controller.Active(); s != nil {
		badgeText, badgeColor = strings.ToUpper(s.Tool.Name), styles.ToolColor(s.Tool.ID)
		switch s.Tool.Kind {
		case tools.KindUpload:
			hints = "Enter summarize • ^L length • ^T strategy • Esc back"
		case tools.KindChat:
			hints = "Enter send • ^L tokens • ^T temperature • Esc back"
		default:
			hints = "Esc back"
		}
	}
	badge := styles.BadgeStyle.Background(badgeColor).Render(TruncateRunes(badgeText, 24))

	var notice string
	if m.Notice != "" {
		style := styles.SuccessStyle
		if m.NoticeErr {
			style = styles.ErrorStyle
		}
		notice = style.Render(TruncateRunes(m.Notice, max(10, m.WindowWidth/2)))
	}

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, badge, "  ", notice)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Center,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render(hints),
		"  ",
		lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Render("Help: ^S"),
	)

	availableWidth := m.WindowWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide) - 2
	if availableWidth < 0 {
		availableWidth = 0
	}
	spacer := strings.Repeat(" ", availableWidth)

	bar := lipgloss.JoinHorizontal(lipgloss.Center, leftSide, spacer, rightSide)

	return lipgloss.NewStyle().
		Width(m.WindowWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(0, 1).
		Render(bar)
}

func (m *Model) View() string {
	var body string
	if s := m.Controller.Active(); s != nil && m.Controller.State() == models.ViewDetail {
		body = m.RenderDetail(s)
	} else {
		body = m.RenderGrid()
	}

	page := lipgloss.JoinVertical(lipgloss.Center,
		styles.TitleStyle.Render("MULTI-TOOL AI"),
		m.RenderBanner(),
		"",
		body,
	)
	mainArea := lipgloss.PlaceHorizontal(m.WindowWidth, lipgloss.Center, page)
	bodyHeight := max(0, m.WindowHeight-2)
	mainArea = lipgloss.PlaceVertical(bodyHeight, lipgloss.Top, mainArea)

	content := lipgloss.JoinVertical(lipgloss.Left, mainArea, m.RenderBottomBar())

	if m.ShortcutsOpen {
		modal := styles.ModalStyle.Width(ModalWidth).Render(m.RenderShortcutsModal())
		return lipgloss.Place(m.WindowWidth, m.WindowHeight, lipgloss.Center, lipgloss.Center, modal)
	}

	return content
}
