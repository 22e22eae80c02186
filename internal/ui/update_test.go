package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"multitool/internal/backend"
	"multitool/internal/models"
	"multitool/internal/session"
	"multitool/internal/upload"
)

type fakeBackend struct {
	uploads   atomic.Int32
	summaries atomic.Int32
	generates atomic.Int32
	summary   string
}

func (f *fakeBackend) UploadFile(ctx context.Context, name, ct string, r io.Reader) (backend.UploadResult, error) {
	f.uploads.Add(1)
	_, _ = io.Copy(io.Discard, r)
	return backend.UploadResult{FilePath: "/srv/" + name, Filename: name}, nil
}

func (f *fakeBackend) SummarizePDF(ctx context.Context, req backend.SummarizeRequest) (backend.SummarizeResponse, error) {
	f.summaries.Add(1)
	return backend.SummarizeResponse{
		Success:          true,
		Summary:          f.summary,
		OriginalLength:   1000,
		SummaryLength:    123,
		CompressionRatio: 0.123,
		StrategyUsed:     req.SummaryStrategy,
	}, nil
}

func (f *fakeBackend) Generate(ctx context.Context, req backend.GenerateRequest) (backend.GenerateResponse, error) {
	f.generates.Add(1)
	return backend.GenerateResponse{Success: true, Response: "pong: " + req.Prompt}, nil
}

func newTestModel(t *testing.T, b *fakeBackend, opts session.Options) *Model {
	t.Helper()
	m := InitialModel(Deps{Controller: session.NewController(b, opts)})
	m.WindowWidth, m.WindowHeight = 120, 40
	m.updateLayout()
	return &m
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestGridNavigation(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, session.Options{})

	steps := []struct {
		msg  tea.KeyMsg
		want int
	}{
		{key(tea.KeyLeft), 0},
		{key(tea.KeyRight), 1},
		{key(tea.KeyRight), 1},
		{key(tea.KeyDown), 3},
		{runes("h"), 2},
		{runes("k"), 0},
		{key(tea.KeyUp), 0},
		{key(tea.KeyTab), 1},
	}
	for i, step := range steps {
		press(m, step.msg)
		if m.GridIdx != step.want {
			t.Fatalf("step %d (%s): GridIdx = %d, want %d", i, step.msg, m.GridIdx, step.want)
		}
	}
	if m.Controller.State() != models.ViewGrid {
		t.Fatal("navigation must not open a tool")
	}
}

func TestEnterOpensSelectedToolAndEscReturns(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, session.Options{})

	press(m, key(tea.KeyDown), key(tea.KeyRight), key(tea.KeyEnter))
	s := m.Controller.Active()
	if s == nil || s.Tool.ID != models.ToolAIChat {
		t.Fatalf("active = %+v, want chat", s)
	}
	if m.SessionID != s.ID {
		t.Fatalf("SessionID = %q, want %q", m.SessionID, s.ID)
	}

	press(m, key(tea.KeyEsc))
	if m.Controller.State() != models.ViewGrid || m.Controller.Active() != nil {
		t.Fatal("Esc should return to the grid")
	}
}

func TestPlaceholderShowsComingSoon(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, session.Options{})
	press(m, runes("2"))
	if got := m.Controller.Active().Tool.ID; got != models.ToolKeywordDetector {
		t.Fatalf("active = %s", got)
	}
	if !strings.Contains(m.View(), "Coming soon") {
		t.Fatal("placeholder view should say Coming soon")
	}
}

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSummarizeFlow(t *testing.T) {
	b := &fakeBackend{summary: "The report covers quarterly revenue growth.\n\nok\n\nthe report covers quarterly revenue growth."}
	m := newTestModel(t, b, session.Options{})
	press(m, runes("1"))

	m.PathInput.SetValue(writeFile(t, "report.pdf", 64))
	cmd := press(m, key(tea.KeyEnter))
	if cmd == nil || !m.Busy {
		t.Fatal("Enter with a valid file should start the pipeline")
	}
	if again := press(m, key(tea.KeyEnter)); again != nil {
		t.Fatal("submit must be disabled while a job is in flight")
	}

	done, ok := cmd().(UploadDoneMsg)
	if !ok {
		t.Fatal("pipeline command should report UploadDoneMsg")
	}
	press(m, done)

	if m.Busy || m.Summary == nil {
		t.Fatalf("busy=%v summary=%v err=%q", m.Busy, m.Summary, m.JobErr)
	}
	if m.Summary.SummaryText != "The report covers quarterly revenue growth." {
		t.Fatalf("summary = %q", m.Summary.SummaryText)
	}
	if m.Phase != models.UploadCompleted {
		t.Fatalf("phase = %s", m.Phase)
	}
	if b.uploads.Load() != 1 || b.summaries.Load() != 1 {
		t.Fatalf("uploads=%d summaries=%d", b.uploads.Load(), b.summaries.Load())
	}
}

func TestOversizeFileNeverUploads(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(t, b, session.Options{MaxUploadSize: 1 << 20})
	press(m, runes("1"))

	m.PathInput.SetValue(writeFile(t, "big.pdf", 2<<20))
	if cmd := press(m, key(tea.KeyEnter)); cmd != nil {
		t.Fatal("oversize file must be rejected before any request")
	}
	if !strings.Contains(m.JobErr, "maximum") {
		t.Fatalf("JobErr = %q", m.JobErr)
	}
	if b.uploads.Load() != 0 {
		t.Fatal("no upload should have been attempted")
	}
	if job := m.Controller.Active().Job(); job == nil || job.Status() != models.UploadPending {
		t.Fatal("rejected job should stay Pending")
	}
}

func TestEmptyPathAsksForFile(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, session.Options{})
	press(m, runes("1"))
	m.PathInput.SetValue("   ")
	if cmd := press(m, key(tea.KeyEnter)); cmd != nil {
		t.Fatal("nothing to submit")
	}
	if m.JobErr != "Please select a PDF file first." {
		t.Fatalf("JobErr = %q", m.JobErr)
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, session.Options{})
	press(m, runes("1"))
	old := m.SessionID

	press(m, key(tea.KeyEsc), runes("1"))
	if m.SessionID == old {
		t.Fatal("reselecting must create a new session")
	}

	press(m,
		UploadPhaseMsg{SessionID: old, Status: models.UploadProcessing},
		UploadDoneMsg{SessionID: old, Job: upload.NewJob(nil), Err: errors.New("late failure")},
	)
	if m.Phase != models.UploadPending || m.JobErr != "" || m.Summary != nil {
		t.Fatalf("stale messages leaked: phase=%s err=%q", m.Phase, m.JobErr)
	}

	press(m, ChatDoneMsg{SessionID: old}, ChatAppendMsg{SessionID: old})
	if m.ChatPending {
		t.Fatal("unexpected chat state")
	}
}

func TestChatSendAndReply(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(t, b, session.Options{})
	press(m, runes("4"))

	m.ChatInput.SetValue("hello")
	cmd := press(m, key(tea.KeyEnter))
	if cmd == nil || !m.ChatPending {
		t.Fatal("Enter should send the message")
	}
	if m.ChatInput.Value() != "" {
		t.Fatal("input should be cleared after sending")
	}
	m.ChatInput.SetValue("second")
	if again := press(m, key(tea.KeyEnter)); again != nil {
		t.Fatal("sending must be disabled while a reply is pending")
	}

	press(m, cmd())
	if m.ChatPending {
		t.Fatal("pending should clear once the reply arrives")
	}
	history := m.Controller.Active().Chat.History()
	if len(history) != 2 || history[0].Role != models.RoleUser || history[1].Content != "pong: hello" {
		t.Fatalf("history = %+v", history)
	}
	if b.generates.Load() != 1 {
		t.Fatalf("generate calls = %d", b.generates.Load())
	}
}

func TestChatSettingsCycle(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, session.Options{})
	press(m, runes("4"))
	chat := m.Controller.Active().Chat

	press(m, key(tea.KeyCtrlL))
	if got := chat.Settings().MaxTokens; got != 512 {
		t.Fatalf("max tokens = %d, want 512", got)
	}
	press(m, key(tea.KeyCtrlT))
	if got := chat.Settings().Temperature; got != 1.0 {
		t.Fatalf("temperature = %v, want 1.0", got)
	}
	if _, c := m.Controller.Defaults(); c != chat.Settings() {
		t.Fatalf("controller defaults %+v not updated", c)
	}
}
