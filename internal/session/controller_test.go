package session

import (
	"context"
	"errors"
	"io"
	"testing"

	"multitool/internal/backend"
	"multitool/internal/models"
	"multitool/internal/upload"
)

type stubBackend struct{}

func (stubBackend) UploadFile(ctx context.Context, name, ct string, r io.Reader) (backend.UploadResult, error) {
	return backend.UploadResult{FilePath: "/up/" + name}, nil
}

func (stubBackend) SummarizePDF(ctx context.Context, req backend.SummarizeRequest) (backend.SummarizeResponse, error) {
	return backend.SummarizeResponse{Success: true, Summary: "A reasonably long summary paragraph."}, nil
}

func (stubBackend) Generate(ctx context.Context, req backend.GenerateRequest) (backend.GenerateResponse, error) {
	return backend.GenerateResponse{Success: true, Response: "pong"}, nil
}

func TestInitialStateIsGrid(t *testing.T) {
	c := NewController(stubBackend{}, Options{})
	if c.State() != models.ViewGrid || c.Active() != nil {
		t.Fatalf("state = %s, active = %v", c.State(), c.Active())
	}
}

func TestSelectToolBuildsToolState(t *testing.T) {
	c := NewController(stubBackend{}, Options{})

	s, err := c.SelectTool(models.ToolPDFSummarizer)
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != models.ViewDetail || s.Pipeline == nil || s.Chat != nil {
		t.Fatalf("summarizer session = %+v", s)
	}
	if s.Summary != models.DefaultSummarySettings() {
		t.Fatalf("summary settings = %+v", s.Summary)
	}

	c.ReturnToGrid()
	s, err = c.SelectTool(models.ToolAIChat)
	if err != nil {
		t.Fatal(err)
	}
	if s.Chat == nil || s.Pipeline != nil {
		t.Fatalf("chat session = %+v", s)
	}

	c.ReturnToGrid()
	s, err = c.SelectTool(models.ToolKeywordDetector)
	if err != nil {
		t.Fatal(err)
	}
	if s.Chat != nil || s.Pipeline != nil {
		t.Fatal("placeholder tools own no session state")
	}
}

func TestReturnToGridDiscardsSession(t *testing.T) {
	c := NewController(stubBackend{}, Options{})
	s, _ := c.SelectTool(models.ToolAIChat)
	if _, err := s.Chat.Send(context.Background(), "ping"); err != nil {
		t.Fatal(err)
	}

	c.ReturnToGrid()
	if c.State() != models.ViewGrid || c.Active() != nil {
		t.Fatal("return to grid must leave no active session")
	}
	if c.IsLive(s.ID) {
		t.Fatal("discarded session must not be live")
	}

	again, _ := c.SelectTool(models.ToolAIChat)
	if len(again.Chat.History()) != 0 {
		t.Fatal("history leaked into a new session")
	}
}

func TestDirectDetailToDetailIsImplicitReturn(t *testing.T) {
	c := NewController(stubBackend{}, Options{})
	first, _ := c.SelectTool(models.ToolPDFSummarizer)
	if _, err := first.ChooseFile(upload.FileFromBytes("a.pdf", "application/pdf", []byte("x"))); err != nil {
		t.Fatal(err)
	}

	second, err := c.SelectTool(models.ToolAIChat)
	if err != nil {
		t.Fatal(err)
	}
	if c.IsLive(first.ID) || !c.IsLive(second.ID) {
		t.Fatal("only the newly selected session may be live")
	}
	if second.Pipeline != nil || second.Job() != nil {
		t.Fatal("upload state leaked across tools")
	}
	if first.ID == second.ID {
		t.Fatal("sessions must get distinct ids")
	}
}

func TestSelectUnknownToolKeepsState(t *testing.T) {
	c := NewController(stubBackend{}, Options{})
	_, err := c.SelectTool("nope")
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("err = %v, want ErrUnknownTool", err)
	}
	if c.State() != models.ViewGrid {
		t.Fatal("failed selection must not leave the grid")
	}
}

func TestNextJobReplacesFinishedJob(t *testing.T) {
	c := NewController(stubBackend{}, Options{})
	s, _ := c.SelectTool(models.ToolPDFSummarizer)
	first, _ := s.ChooseFile(upload.FileFromBytes("a.pdf", "application/pdf", []byte("x")))

	job, err := s.NextJob()
	if err != nil || job != first {
		t.Fatalf("NextJob = %p, %v; want the pending job", job, err)
	}
	if err := s.Pipeline.Submit(context.Background(), job, s.Summary, nil); err != nil {
		t.Fatal(err)
	}
	if job.Status() != models.UploadCompleted {
		t.Fatalf("status = %s", job.Status())
	}

	retry, err := s.NextJob()
	if err != nil {
		t.Fatal(err)
	}
	if retry == first || retry.Status() != models.UploadPending || retry.File().Name != "a.pdf" {
		t.Fatal("re-trigger must use a fresh pending job for the same file")
	}
}

func TestChooseFileRejectedOnChat(t *testing.T) {
	c := NewController(stubBackend{}, Options{})
	s, _ := c.SelectTool(models.ToolAIChat)
	if _, err := s.ChooseFile(upload.FileFromBytes("a.pdf", "", nil)); err == nil {
		t.Fatal("chat sessions take no files")
	}
}
