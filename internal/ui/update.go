package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"multitool/internal/chat"
	"multitool/internal/db"
	"multitool/internal/errinfo"
	"multitool/internal/launcher"
	"multitool/internal/models"
	"multitool/internal/session"
	"multitool/internal/styles"
	"multitool/internal/tools"
	"multitool/internal/upload"
)

const (
	MaxContentWidth = 100
	noticeTTL       = 4 * time.Second
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var spCmd tea.Cmd
		m.Spinner, spCmd = m.Spinner.Update(msg)
		if m.ChatPending {
			m.UpdateViewport()
		}
		return m, spCmd

	case tea.WindowSizeMsg:
		m.WindowWidth = msg.Width
		m.WindowHeight = msg.Height
		styles.CardWidth = min(34, max(20, (msg.Width-8)/GridColumns-2))

		glamourStyle := "dark"
		if !lipgloss.HasDarkBackground() {
			glamourStyle = "light"
		}
		m.Renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath(glamourStyle),
			glamour.WithWordWrap(m.contentWidth()-6),
		)
		m.updateLayout()
		m.UpdateViewport()
		return m, nil

	case BackendStatusMsg:
		m.Checking = false
		m.Readiness = msg.Readiness
		return m, nil

	case UploadPhaseMsg:
		if !m.live(msg.SessionID, "upload phase") {
			return m, nil
		}
		m.Phase = msg.Status
		return m, nil

	case UploadDoneMsg:
		if !m.live(msg.SessionID, "upload result") {
			return m, nil
		}
		m.finishUpload(msg)
		return m, nil

	case ChatAppendMsg:
		if !m.live(msg.SessionID, "chat message") {
			return m, nil
		}
		m.UpdateViewport()
		return m, nil

	case ChatDoneMsg:
		if !m.live(msg.SessionID, "chat reply") {
			return m, nil
		}
		m.ChatPending = false
		m.UpdateViewport()
		focus := m.ChatInput.Focus()
		if msg.Err != nil {
			return m, tea.Batch(focus, m.setNotice(m.chatErrorText(msg.Err), true))
		}
		return m, focus

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.Notice = ""
			m.NoticeErr = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.ShortcutsOpen {
		switch msg.String() {
		case "esc", "enter", "?", "ctrl+s":
			m.ShortcutsOpen = false
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlS:
		m.ShortcutsOpen = true
		return m, nil
	case tea.KeyCtrlR:
		if m.Checking {
			return m, nil
		}
		m.Checking = true
		return m, m.checkBackend()
	}

	active := m.Controller.Active()
	if m.Controller.State() == models.ViewGrid || active == nil {
		return m.updateGrid(msg)
	}
	if msg.Type == tea.KeyEsc {
		m.returnToGrid()
		return m, nil
	}

	switch active.Tool.Kind {
	case tools.KindUpload:
		return m.updateSummarizer(msg, active)
	case tools.KindChat:
		return m.updateChat(msg, active)
	}
	return m, nil
}

func (m *Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(tools.Definitions)
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		if m.GridIdx%GridColumns > 0 {
			m.GridIdx--
		}
	case "right", "l":
		if m.GridIdx%GridColumns < GridColumns-1 && m.GridIdx+1 < n {
			m.GridIdx++
		}
	case "up", "k":
		if m.GridIdx >= GridColumns {
			m.GridIdx -= GridColumns
		}
	case "down", "j":
		if m.GridIdx+GridColumns < n {
			m.GridIdx += GridColumns
		}
	case "tab":
		m.GridIdx = (m.GridIdx + 1) % n
	case "shift+tab":
		m.GridIdx = (m.GridIdx + n - 1) % n
	case "enter", " ":
		return m, m.openTool(tools.Definitions[m.GridIdx].ID)
	default:
		if len(msg.Runes) == 1 {
			if i := int(msg.Runes[0] - '1'); i >= 0 && i < n {
				m.GridIdx = i
				return m, m.openTool(tools.Definitions[i].ID)
			}
		}
	}
	return m, nil
}

func (m *Model) openTool(id models.ToolID) tea.Cmd {
	s, err := m.Controller.SelectTool(id)
	if err != nil {
		m.Logger.Warn("select tool failed", "tool", id, "err", err)
		return m.setNotice(err.Error(), true)
	}
	m.resetDetail(s)

	switch s.Tool.Kind {
	case tools.KindUpload:
		m.ChatInput.Blur()
		m.PathInput.SetValue(m.initialPath())
		m.PathInput.CursorEnd()
		m.refreshSuggestions()
		return m.PathInput.Focus()
	case tools.KindChat:
		sessionID, p := s.ID, m.Program
		s.Chat.OnAppend(func(msg models.ChatMessage) {
			if p != nil {
				p.Send(ChatAppendMsg{SessionID: sessionID, Message: msg})
			}
		})
		m.PathInput.Blur()
		m.ChatInput.Reset()
		return m.ChatInput.Focus()
	}
	return nil
}

// resetDetail clears everything the previous session left on screen.
func (m *Model) resetDetail(s *session.ToolSession) {
	m.SessionID = s.ID
	m.Phase = models.UploadPending
	m.Busy = false
	m.JobErr = ""
	m.Summary = nil
	m.ChatPending = false
	m.Notice = ""
	m.NoticeErr = false
	m.Viewport.GotoTop()
	m.updateLayout()
	m.UpdateViewport()
}

func (m *Model) returnToGrid() {
	m.Controller.ReturnToGrid()
	m.PathInput.Blur()
	m.ChatInput.Blur()
	m.SessionID = ""
	m.Busy = false
	m.ChatPending = false
	m.Summary = nil
	m.JobErr = ""
	m.Notice = ""
	m.Viewport.SetContent("")
}

// live reports whether a result belongs to the session on screen. Results
// from abandoned sessions are logged and dropped.
func (m *Model) live(sessionID, what string) bool {
	if m.Controller.IsLive(sessionID) {
		return true
	}
	m.Logger.Debug("dropping result for closed session", "kind", what, "session", sessionID)
	return false
}

func (m *Model) initialPath() string {
	if m.DB == nil {
		return ""
	}
	dir := db.LastUploadDir(m.DB)
	if dir == "" {
		return ""
	}
	return strings.TrimSuffix(dir, string(filepath.Separator)) + string(filepath.Separator)
}

func (m *Model) refreshSuggestions() {
	m.PathInput.SetSuggestions(PathSuggestions(m.PathInput.Value()))
}

func (m *Model) updateSummarizer(msg tea.KeyMsg, s *session.ToolSession) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.submitSummary(s)
	case "ctrl+l":
		m.cycleSummary(s, true)
		return m, nil
	case "ctrl+t":
		m.cycleSummary(s, false)
		return m, nil
	case "ctrl+y":
		return m, m.copySummary()
	case "ctrl+o":
		return m, m.saveSummary()
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var vpCmd tea.Cmd
		m.Viewport, vpCmd = m.Viewport.Update(msg)
		return m, vpCmd
	}

	var tiCmd tea.Cmd
	before := m.PathInput.Value()
	m.PathInput, tiCmd = m.PathInput.Update(msg)
	if m.PathInput.Value() != before {
		m.refreshSuggestions()
	}
	return m, tiCmd
}

// submitSummary checks the chosen file locally and, when it passes, starts
// the pipeline in the background. Nothing is sent while a job is in flight.
func (m *Model) submitSummary(s *session.ToolSession) tea.Cmd {
	if m.Busy || s.Pipeline.Busy() {
		return nil
	}
	m.JobErr = ""

	path := ExpandPath(strings.TrimSpace(m.PathInput.Value()))
	if info, err := os.Stat(path); path == "" || (err == nil && info.IsDir()) {
		// nothing chosen yet; report it the way the pipeline does
		m.JobErr = errinfo.UserMessage(s.Tool.ID, s.Pipeline.Validate(upload.NewJob(nil)))
		return nil
	}
	current := s.Job()
	if current == nil || current.File() == nil || current.File().Path != path {
		f, err := upload.FileFromPath(path)
		if err != nil {
			m.Logger.Debug("file not usable", "path", path, "err", err)
			m.JobErr = fmt.Sprintf("Cannot read %s: %v", filepath.Base(path), unwrapPathError(err))
			return nil
		}
		if _, err := s.ChooseFile(f); err != nil {
			m.JobErr = err.Error()
			return nil
		}
	}

	job, err := s.NextJob()
	if err != nil {
		m.JobErr = err.Error()
		return nil
	}
	if err := s.Pipeline.Validate(job); err != nil {
		m.JobErr = errinfo.UserMessage(s.Tool.ID, err)
		return nil
	}

	if m.DB != nil {
		if err := db.SetLastUploadDir(m.DB, filepath.Dir(job.File().Path)); err != nil {
			m.Logger.Warn("remember upload dir", "err", err)
		}
	}
	m.Busy = true
	m.Summary = nil
	m.Phase = job.Status()
	m.UpdateViewport()
	return m.runSummary(s, job)
}

func (m *Model) runSummary(s *session.ToolSession, job *upload.Job) tea.Cmd {
	sessionID, p, pipeline, settings := s.ID, m.Program, s.Pipeline, s.Summary
	return func() tea.Msg {
		err := pipeline.Submit(context.Background(), job, settings, func(_ *upload.Job, st models.UploadStatus) {
			if p != nil {
				p.Send(UploadPhaseMsg{SessionID: sessionID, Status: st})
			}
		})
		return UploadDoneMsg{SessionID: sessionID, Job: job, Err: err}
	}
}

func (m *Model) finishUpload(msg UploadDoneMsg) {
	m.Busy = false
	s := m.Controller.Active()
	if msg.Err != nil {
		m.JobErr = errinfo.UserMessage(s.Tool.ID, msg.Err)
		m.UpdateViewport()
		return
	}
	m.Phase = msg.Job.Status()
	if res, ok := msg.Job.Result(); ok {
		m.Summary = &res
	} else {
		m.JobErr = errinfo.UserMessage(s.Tool.ID, msg.Job.Err())
	}
	m.Viewport.GotoTop()
	m.UpdateViewport()
}

func (m *Model) cycleSummary(s *session.ToolSession, length bool) {
	next := s.Summary
	if length {
		next.Length = cycle(models.SummaryLengths, next.Length)
	} else {
		next.Strategy = cycle(models.SummaryStrategies, next.Strategy)
	}
	s.Summary = next
	m.Controller.RememberSummary(next)
	if m.DB != nil {
		if err := db.SaveSummarySettings(m.DB, next); err != nil {
			m.Logger.Warn("save summary settings", "err", err)
		}
	}
}

func (m *Model) copySummary() tea.Cmd {
	if m.Summary == nil {
		return nil
	}
	if err := clipboard.WriteAll(m.Summary.SummaryText); err != nil {
		m.Logger.Warn("clipboard write failed", "err", err)
		return m.setNotice("Copy failed: "+err.Error(), true)
	}
	return m.setNotice("Summary copied to clipboard", false)
}

func (m *Model) saveSummary() tea.Cmd {
	if m.Summary == nil {
		return nil
	}
	path, err := filepath.Abs(SummaryFile)
	if err != nil {
		path = SummaryFile
	}
	if err := os.WriteFile(path, []byte(m.Summary.SummaryText+"\n"), 0o644); err != nil {
		m.Logger.Warn("save summary failed", "path", path, "err", err)
		return m.setNotice("Save failed: "+err.Error(), true)
	}
	return m.setNotice("Saved to "+path, false)
}

func (m *Model) updateChat(msg tea.KeyMsg, s *session.ToolSession) (tea.Model, tea.Cmd) {
	if isNewlineShortcut(msg) {
		if !m.ChatPending {
			m.ChatInput.InsertString("\n")
			m.updateLayout()
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		return m, m.sendChat(s)
	case "ctrl+l":
		return m, m.cycleChat(s, true)
	case "ctrl+t":
		return m, m.cycleChat(s, false)
	case "pgup", "pgdown":
		var vpCmd tea.Cmd
		m.Viewport, vpCmd = m.Viewport.Update(msg)
		return m, vpCmd
	}

	if m.ChatPending {
		return m, nil
	}
	var taCmd tea.Cmd
	m.ChatInput, taCmd = m.ChatInput.Update(msg)
	m.updateLayout()
	return m, taCmd
}

func (m *Model) sendChat(s *session.ToolSession) tea.Cmd {
	if m.ChatPending || s.Chat.Pending() {
		return nil
	}
	text := m.ChatInput.Value()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	m.ChatInput.Reset()
	m.ChatInput.Blur()
	m.ChatPending = true
	m.updateLayout()
	m.UpdateViewport()

	sessionID, conv := s.ID, s.Chat
	return func() tea.Msg {
		_, err := conv.Send(context.Background(), text)
		return ChatDoneMsg{SessionID: sessionID, Err: err}
	}
}

func (m *Model) chatErrorText(err error) string {
	if errors.Is(err, chat.ErrPending) {
		return "Please wait for the current reply."
	}
	return errinfo.UserMessage(models.ToolAIChat, err)
}

func (m *Model) cycleChat(s *session.ToolSession, tokens bool) tea.Cmd {
	next := s.Chat.Settings()
	if tokens {
		next.MaxTokens = cycle(models.MaxTokenPresets, next.MaxTokens)
	} else {
		next.Temperature = cycle(temperatureValues(), next.Temperature)
	}
	if err := s.Chat.SetSettings(next); err != nil {
		return m.setNotice(errinfo.UserMessage(models.ToolAIChat, err), true)
	}
	m.Controller.RememberChat(next)
	if m.DB != nil {
		if err := db.SaveChatSettings(m.DB, next); err != nil {
			m.Logger.Warn("save chat settings", "err", err)
		}
	}
	return nil
}

func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.Notice = text
	m.NoticeErr = isErr
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

// checkBackend runs the readiness check off the UI loop.
func (m *Model) checkBackend() tea.Cmd {
	ensure, probe, logger := m.Launcher, m.Backend, m.Logger
	return func() tea.Msg {
		if probe == nil {
			return BackendStatusMsg{Readiness: launcher.Readiness{Warning: "No AI backend configured."}}
		}
		if ensure != nil {
			return BackendStatusMsg{Readiness: ensure.Ensure(context.Background(), probe)}
		}
		health, err := probe.Health(context.Background())
		if err != nil {
			logger.Warn("backend health check failed", "err", err)
			return BackendStatusMsg{Readiness: launcher.Readiness{Warning: "Backend Not Available. Please start the Python server."}}
		}
		return BackendStatusMsg{Readiness: launcher.Readiness{Healthy: true, Health: health}}
	}
}

func isNewlineShortcut(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "shift+enter", "shift+return", "ctrl+j", "ctrl+enter", "alt+enter":
		return true
	default:
		return false
	}
}

func (m *Model) contentWidth() int {
	w := m.WindowWidth - 4
	if w > MaxContentWidth {
		w = MaxContentWidth
	}
	if w < 30 {
		w = 30
	}
	return w
}

// updateLayout sizes the inputs and gives the rest of the screen to the viewport.
func (m *Model) updateLayout() {
	if m.WindowWidth == 0 || m.WindowHeight == 0 {
		return
	}
	width := m.contentWidth()
	m.Viewport.Width = width
	m.PathInput.Width = width - 6

	// header (title, banner, tool heading) and bottom bar
	reserved := 8
	if s := m.Controller.Active(); s != nil {
		switch s.Tool.Kind {
		case tools.KindUpload:
			reserved += 7
		case tools.KindChat:
			inputWidth := width - 4
			lineCount := WrappedLineCount(m.ChatInput.Value(), inputWidth-2)
			lineCount = max(1, min(lineCount, m.ChatInput.MaxHeight))
			m.ChatInput.SetWidth(inputWidth)
			m.ChatInput.SetHeight(lineCount)
			reserved += m.ChatInput.Height() + 4
		}
	}
	m.Viewport.Height = max(5, m.WindowHeight-reserved)
}

func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
