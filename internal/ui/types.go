package ui

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"multitool/internal/launcher"
	"multitool/internal/models"
	"multitool/internal/session"
	"multitool/internal/upload"
)

const (
	ModalWidth   = 60
	GridColumns  = 2
	SummaryFile  = "summary.txt"
	ChatGreeting = "Hello! I'm your AI assistant. How can I help you today?"
)

// Ensurer brings the backend up and reports its readiness.
type Ensurer interface {
	Ensure(ctx context.Context, p launcher.Prober) launcher.Readiness
}

// BackendStatusMsg carries the outcome of a readiness check.
type BackendStatusMsg struct {
	Readiness launcher.Readiness
}

// UploadPhaseMsg reports a job status change for the session that started it.
type UploadPhaseMsg struct {
	SessionID string
	Status    models.UploadStatus
}

// UploadDoneMsg arrives once Pipeline.Submit returns.
type UploadDoneMsg struct {
	SessionID string
	Job       *upload.Job
	Err       error
}

// ChatAppendMsg reports a history append in a chat session.
type ChatAppendMsg struct {
	SessionID string
	Message   models.ChatMessage
}

// ChatDoneMsg arrives once Session.Send returns.
type ChatDoneMsg struct {
	SessionID string
	Err       error
}

type clearNoticeMsg struct{ seq int }

type Model struct {
	Controller *session.Controller
	Backend    launcher.Prober
	Launcher   Ensurer
	DB         *sql.DB
	Logger     *slog.Logger

	Readiness launcher.Readiness
	Checking  bool

	GridIdx       int
	ShortcutsOpen bool

	// Detail state for the active session; reset on every selection.
	SessionID   string
	Phase       models.UploadStatus
	Busy        bool
	JobErr      string
	Summary     *models.SummaryResult
	ChatPending bool
	Notice      string
	NoticeErr   bool
	noticeSeq   int

	Viewport  viewport.Model
	PathInput textinput.Model
	ChatInput textarea.Model
	Spinner   spinner.Model
	Renderer  *glamour.TermRenderer

	WindowWidth  int
	WindowHeight int
	Program      *tea.Program
}
