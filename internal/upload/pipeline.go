// Package upload drives a chosen file through upload and summarization.
package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"multitool/internal/backend"
	"multitool/internal/errinfo"
	"multitool/internal/models"
	"multitool/internal/sanitize"
)

// DefaultMaxSize is the client-side ceiling checked before any upload.
const DefaultMaxSize int64 = 50 << 20

var (
	// ErrInFlight means another job of the same pipeline is still running.
	ErrInFlight = errors.New("upload: a job is already in flight")
	// ErrJobStarted means the job already left Pending; make a new one to retry.
	ErrJobStarted = errors.New("upload: job was already submitted")
)

// Backend is the part of the backend client the pipeline needs.
type Backend interface {
	UploadFile(ctx context.Context, filename, contentType string, r io.Reader) (backend.UploadResult, error)
	SummarizePDF(ctx context.Context, req backend.SummarizeRequest) (backend.SummarizeResponse, error)
}

// Observer is told about every status change, in order, outside any lock.
type Observer func(job *Job, status models.UploadStatus)

type Pipeline struct {
	backend Backend
	maxSize int64
	logger  *slog.Logger

	mu       sync.Mutex
	inFlight bool
}

func NewPipeline(b Backend, maxSize int64, logger *slog.Logger) *Pipeline {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{backend: b, maxSize: maxSize, logger: logger}
}

func (p *Pipeline) MaxSize() int64 { return p.maxSize }

// Busy reports whether a job is between Uploading and its terminal state.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Validate checks the job's file locally. It never touches the network.
func (p *Pipeline) Validate(job *Job) error {
	f := job.File()
	if f == nil {
		return errinfo.Validation("file", "Please select a PDF file first.")
	}
	if f.Size > p.maxSize {
		return errinfo.Validation("file", "File is %.1f MB; the maximum is %d MB.", f.SizeMB(), p.maxSize>>20)
	}
	return nil
}

// Submit runs job to a terminal state. It returns an error only when the job
// could not be started (validation, in-flight, already submitted). Backend
// failures end the job in Failed and are available from job.Err.
func (p *Pipeline) Submit(ctx context.Context, job *Job, settings models.SummarySettings, observe Observer) error {
	if err := p.Validate(job); err != nil {
		return err
	}
	if job.Status() != models.UploadPending {
		return ErrJobStarted
	}

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return ErrInFlight
	}
	p.inFlight = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	notify := func(s models.UploadStatus) {
		if observe != nil {
			observe(job, s)
		}
	}

	if err := job.advance(models.UploadUploading); err != nil {
		return err
	}
	notify(models.UploadUploading)

	file := job.File()
	remote, err := p.upload(ctx, file)
	if err != nil {
		p.logger.Warn("upload failed", "file", file.Name, "err", err)
		return p.failed(job, err, notify)
	}
	if err := job.recordUpload(remote); err != nil {
		return err
	}
	notify(models.UploadUploaded)

	if err := job.advance(models.UploadProcessing); err != nil {
		return err
	}
	notify(models.UploadProcessing)

	res, err := p.backend.SummarizePDF(ctx, backend.SummarizeRequest{
		FilePath:        remote,
		SummaryLength:   settings.Length,
		SummaryStrategy: settings.Strategy,
	})
	if err != nil {
		p.logger.Warn("summarize failed", "file", file.Name, "err", err)
		return p.failed(job, err, notify)
	}
	if !res.Success {
		return p.failed(job, &backend.LogicalError{Endpoint: backend.EndpointSummarize, Message: res.Error}, notify)
	}
	if res.Summary == "" {
		return p.failed(job, &backend.LogicalError{Endpoint: backend.EndpointSummarize}, notify)
	}

	text := sanitize.Normalize(res.Summary)
	if text == "" {
		return p.failed(job, &backend.LogicalError{
			Endpoint: backend.EndpointSummarize,
			Message:  "The summary contained no readable content.",
		}, notify)
	}
	result := models.SummaryResult{
		Success:          true,
		SummaryText:      text,
		OriginalLength:   res.OriginalLength,
		SummaryLength:    res.SummaryLength,
		CompressionRatio: res.CompressionRatio,
		StrategyUsed:     res.StrategyUsed,
	}
	if err := job.complete(result); err != nil {
		return err
	}
	p.logger.Debug("summary ready", "file", file.Name, "raw_len", len(res.Summary), "clean_len", len(text))
	notify(models.UploadCompleted)
	return nil
}

func (p *Pipeline) upload(ctx context.Context, f *File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", &backend.UploadError{Filename: f.Name, Err: err}
	}
	defer rc.Close()

	res, err := p.backend.UploadFile(ctx, f.Name, f.Type, rc)
	if err != nil {
		var upErr *backend.UploadError
		if !errors.As(err, &upErr) {
			err = &backend.UploadError{Filename: f.Name, Err: err}
		}
		return "", err
	}
	return res.FilePath, nil
}

func (p *Pipeline) failed(job *Job, cause error, notify func(models.UploadStatus)) error {
	if err := job.fail(cause); err != nil {
		return err
	}
	notify(models.UploadFailed)
	return nil
}
