package errinfo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"multitool/internal/backend"
	"multitool/internal/models"
)

func TestClassify(t *testing.T) {
	netErr := &backend.NetworkError{Endpoint: "/generate", Err: errors.New("connection refused")}
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("file", "missing"), KindValidation},
		{"network", netErr, KindNetwork},
		{"http", &backend.HTTPError{Status: 500}, KindHTTP},
		{"logical", &backend.LogicalError{Message: "parse failed"}, KindLogical},
		{"upload wraps http", &backend.UploadError{Filename: "a.pdf", Err: &backend.HTTPError{Status: 413}}, KindHTTP},
		{"upload wraps network", &backend.UploadError{Filename: "a.pdf", Err: netErr}, KindNetwork},
		{"fmt wrapped", fmt.Errorf("step: %w", &backend.LogicalError{}), KindLogical},
		{"canceled", context.Canceled, KindCanceled},
		{"other", errors.New("boom"), KindUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("%s: Classify() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestUserMessageChatTemplatesDiffer(t *testing.T) {
	backendErr := UserMessage(models.ToolAIChat, &backend.LogicalError{Message: "model not loaded"})
	unreachable := UserMessage(models.ToolAIChat, &backend.NetworkError{Err: errors.New("dial tcp")})

	if backendErr != "Sorry, I encountered an error: model not loaded" {
		t.Fatalf("unexpected backend error text %q", backendErr)
	}
	if !strings.Contains(unreachable, "trouble connecting") {
		t.Fatalf("unexpected unreachable text %q", unreachable)
	}
	if backendErr == unreachable {
		t.Fatal("templates must differ")
	}
}

func TestUserMessagePDFShowsBackendMessageVerbatim(t *testing.T) {
	got := UserMessage(models.ToolPDFSummarizer, &backend.LogicalError{Message: "parse failed"})
	if got != "parse failed" {
		t.Fatalf("UserMessage() = %q, want %q", got, "parse failed")
	}
}

func TestUserMessageIncludesHTTPDetail(t *testing.T) {
	err := &backend.UploadError{Filename: "x.pdf", Err: &backend.HTTPError{Status: 400, Detail: "Only PDF files are supported"}}
	got := UserMessage(models.ToolPDFSummarizer, err)
	want := "Failed to process PDF: Only PDF files are supported (HTTP 400)"
	if got != want {
		t.Fatalf("UserMessage() = %q, want %q", got, want)
	}
}

func TestUserMessageNeverLeaksRawError(t *testing.T) {
	raw := errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
	for _, tool := range []models.ToolID{models.ToolAIChat, models.ToolPDFSummarizer} {
		got := UserMessage(tool, &backend.NetworkError{Err: raw})
		if strings.Contains(got, "dial tcp") {
			t.Fatalf("%s: message leaks transport error: %q", tool, got)
		}
	}
}
