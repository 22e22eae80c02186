package demo

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"multitool/internal/backend"
	"multitool/internal/errinfo"
	"multitool/internal/models"
	"multitool/internal/upload"
)

const article = `Go programs compile to a single static binary. This makes deployment simple.
The garbage collector is tuned for low latency rather than throughput. Goroutines are cheap to create.
Channels let goroutines communicate without sharing memory. Interfaces are satisfied implicitly.
The standard library covers networking, encoding and testing. Tooling is part of the distribution.`

func newDemo(t *testing.T, opts Options) *backend.Client {
	t.Helper()
	if opts.UploadDir == "" {
		opts.UploadDir = t.TempDir()
	}
	srv, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return backend.NewClient(ts.URL, nil)
}

func TestHealth(t *testing.T) {
	client := newDemo(t, Options{})
	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != "healthy" || !status.ModelLoaded {
		t.Fatalf("status = %+v", status)
	}
}

func TestPipelineAgainstDemo(t *testing.T) {
	client := newDemo(t, Options{})
	p := upload.NewPipeline(client, upload.DefaultMaxSize, nil)
	f := upload.FileFromBytes("article.txt", "text/plain", []byte(article))
	job := upload.NewJob(&f)

	if err := p.Submit(context.Background(), job, models.SummarySettings{Length: "short", Strategy: "balanced_extraction"}, nil); err != nil {
		t.Fatal(err)
	}
	res, ok := job.Result()
	if !ok {
		t.Fatalf("job ended %s: %v", job.Status(), job.Err())
	}
	if strings.Contains(res.SummaryText, "Summary complete.") {
		t.Fatal("noise trailer should be sanitized away")
	}
	if strings.Count(strings.ToLower(res.SummaryText), "single static binary") != 1 {
		t.Fatalf("restated paragraph should be deduplicated: %q", res.SummaryText)
	}
	if res.StrategyUsed != "balanced_extraction" || res.CompressionRatio <= 0 || res.CompressionRatio >= 1 {
		t.Fatalf("stats = %+v", res)
	}
}

func TestSummarizeUnknownPathIsLogicalFailure(t *testing.T) {
	client := newDemo(t, Options{})
	res, err := client.SummarizePDF(context.Background(), backend.SummarizeRequest{FilePath: "/etc/passwd"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Error != "File not found" {
		t.Fatalf("res = %+v", res)
	}
}

func TestModelUnloadedIs503(t *testing.T) {
	client := newDemo(t, Options{ModelUnloaded: true})
	_, err := client.Generate(context.Background(), backend.GenerateRequest{Prompt: "hi", MaxTokens: 8, Temperature: 0.7})
	if errinfo.Classify(err) != errinfo.KindHTTP {
		t.Fatalf("err = %v, want HTTP error", err)
	}
	msg := errinfo.UserMessage(models.ToolAIChat, err)
	if !strings.Contains(msg, "Model not loaded") {
		t.Fatalf("message = %q", msg)
	}
}

func TestGenerateCapsWords(t *testing.T) {
	client := newDemo(t, Options{})
	res, err := client.Generate(context.Background(), backend.GenerateRequest{Prompt: "tell me everything", MaxTokens: 3, Temperature: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || len(strings.Fields(res.Response)) != 3 {
		t.Fatalf("res = %+v", res)
	}
}

func TestExtractTextFromSimplePDF(t *testing.T) {
	pdf := "%PDF-1.4\n1 0 obj<<>>stream\nBT /F1 12 Tf (Hello from a \\(tiny\\) PDF.) Tj ET\nBT [(Second) -250 ( line.)] TJ ET\nendstream\n%%EOF"
	got := ExtractText([]byte(pdf))
	want := "Hello from a (tiny) PDF.\nSecond line."
	if got != want {
		t.Fatalf("ExtractText = %q, want %q", got, want)
	}
}

func TestSummarizeKeyPoints(t *testing.T) {
	summary, strategy := Summarize(article, "short", "key_points")
	if strategy != "key_points" || !strings.HasPrefix(summary, "• ") {
		t.Fatalf("summary = %q (%s)", summary, strategy)
	}
}
