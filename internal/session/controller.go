// Package session owns which tool is active and the state that belongs to it.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"multitool/internal/chat"
	"multitool/internal/models"
	"multitool/internal/tools"
	"multitool/internal/upload"
)

var ErrUnknownTool = errors.New("session: unknown tool")

// Backend is everything a tool session may call.
type Backend interface {
	upload.Backend
	chat.Generator
}

// ToolSession is the live state of one opened tool. Exactly one of Pipeline
// and Chat is set, or neither for placeholder tools.
type ToolSession struct {
	ID      string
	Tool    tools.Tool
	Started time.Time

	Pipeline *upload.Pipeline
	Summary  models.SummarySettings
	job      *upload.Job

	Chat *chat.Session
}

// Job is the current upload job, nil before a file is chosen.
func (s *ToolSession) Job() *upload.Job { return s.job }

// ChooseFile replaces the current job with a fresh Pending one for f.
func (s *ToolSession) ChooseFile(f upload.File) (*upload.Job, error) {
	if s.Pipeline == nil {
		return nil, fmt.Errorf("%s does not take files", s.Tool.Name)
	}
	if s.Pipeline.Busy() {
		return nil, upload.ErrInFlight
	}
	s.job = upload.NewJob(&f)
	return s.job, nil
}

// NextJob returns the job a submit should run: the current one when still
// Pending, otherwise a new job for the same file so a finished attempt can be
// re-triggered without rewinding its status.
func (s *ToolSession) NextJob() (*upload.Job, error) {
	if s.Pipeline == nil {
		return nil, fmt.Errorf("%s does not take files", s.Tool.Name)
	}
	if s.job == nil {
		return upload.NewJob(nil), nil
	}
	if s.Pipeline.Busy() {
		return nil, upload.ErrInFlight
	}
	if s.job.Status() != models.UploadPending {
		s.job = upload.NewJob(s.job.File())
	}
	return s.job, nil
}

type Options struct {
	MaxUploadSize int64
	Summary       models.SummarySettings
	Chat          models.ChatSettings
	Logger        *slog.Logger
}

// Controller is the Grid / Detail(tool) state machine. It is driven from a
// single goroutine (the UI loop) and is not safe for concurrent use.
type Controller struct {
	backend Backend
	opts    Options
	logger  *slog.Logger

	state  models.ViewState
	active *ToolSession
}

func NewController(b Backend, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Summary == (models.SummarySettings{}) {
		opts.Summary = models.DefaultSummarySettings()
	}
	if opts.Chat == (models.ChatSettings{}) {
		opts.Chat = models.DefaultChatSettings()
	}
	return &Controller{backend: b, opts: opts, logger: opts.Logger, state: models.ViewGrid}
}

func (c *Controller) State() models.ViewState { return c.state }

// Active is the live session, nil on the grid.
func (c *Controller) Active() *ToolSession { return c.active }

// SelectTool opens id. Selecting while another tool is open first returns to
// the grid, so nothing from the previous session survives.
func (c *Controller) SelectTool(id models.ToolID) (*ToolSession, error) {
	tool, err := tools.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, id)
	}
	if c.state == models.ViewDetail {
		c.ReturnToGrid()
	}

	s := &ToolSession{
		ID:      uuid.NewString(),
		Tool:    tool,
		Started: time.Now(),
	}
	switch tool.Kind {
	case tools.KindUpload:
		s.Pipeline = upload.NewPipeline(c.backend, c.opts.MaxUploadSize, c.logger)
		s.Summary = c.opts.Summary
	case tools.KindChat:
		s.Chat = chat.NewSession(c.backend, c.opts.Chat, c.logger)
	}

	c.active = s
	c.state = models.ViewDetail
	c.logger.Debug("tool selected", "tool", id, "session", s.ID)
	return s, nil
}

// ReturnToGrid discards the active session. Calls still running for it
// finish on their own; their results fail IsLive and are dropped.
func (c *Controller) ReturnToGrid() {
	if c.active != nil {
		c.logger.Debug("session closed", "tool", c.active.Tool.ID, "session", c.active.ID,
			"age", time.Since(c.active.Started).Round(time.Millisecond))
	}
	c.active = nil
	c.state = models.ViewGrid
}

// IsLive reports whether sessionID is the session currently shown.
func (c *Controller) IsLive(sessionID string) bool {
	return c.active != nil && c.active.ID == sessionID
}

// RememberSummary and RememberChat update the defaults used by new sessions.
func (c *Controller) RememberSummary(s models.SummarySettings) { c.opts.Summary = s }

func (c *Controller) RememberChat(s models.ChatSettings) { c.opts.Chat = s }

func (c *Controller) Defaults() (models.SummarySettings, models.ChatSettings) {
	return c.opts.Summary, c.opts.Chat
}
