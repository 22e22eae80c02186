package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/openai/openai-go/v3/option"
)

const (
	EndpointHealth    = "/health"
	EndpointUpload    = "/upload_file"
	EndpointSummarize = "/summarize_pdf"
	EndpointGenerate  = "/generate"

	// UploadField is the single multipart field the backend reads.
	UploadField = "file"
)

type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type UploadResult struct {
	FilePath string `json:"file_path"`
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

type SummarizeRequest struct {
	FilePath        string `json:"file_path"`
	SummaryLength   string `json:"summary_length,omitempty"`
	SummaryStrategy string `json:"summary_strategy,omitempty"`
}

type SummarizeResponse struct {
	Success          bool    `json:"success"`
	Summary          string  `json:"summary,omitempty"`
	OriginalLength   int     `json:"original_length,omitempty"`
	SummaryLength    int     `json:"summary_length,omitempty"`
	CompressionRatio float64 `json:"compression_ratio,omitempty"`
	StrategyUsed     string  `json:"strategy_used,omitempty"`
	Error            string  `json:"error,omitempty"`
}

type GenerateRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type GenerateResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Health is the liveness probe. Any 2xx counts as alive; the body is decoded
// on a best-effort basis.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var raw []byte
	if err := c.do(ctx, http.MethodGet, EndpointHealth, nil, &raw); err != nil {
		return HealthStatus{}, err
	}
	var status HealthStatus
	_ = json.Unmarshal(raw, &status)
	return status, nil
}

// UploadFile streams r to /upload_file as a multipart form with a single
// "file" field. Any failure comes back as *UploadError.
func (c *Client) UploadFile(ctx context.Context, filename, contentType string, r io.Reader) (UploadResult, error) {
	body, formType, err := multipartBody(filename, contentType, r)
	if err != nil {
		return UploadResult{}, &UploadError{Filename: filename, Err: err}
	}

	var res UploadResult
	err = c.do(ctx, http.MethodPost, EndpointUpload, nil, &res, option.WithRequestBody(formType, body))
	if err != nil {
		return UploadResult{}, &UploadError{Filename: filename, Err: err}
	}
	if res.FilePath == "" {
		return UploadResult{}, &UploadError{Filename: filename, Err: fmt.Errorf("response has no file_path")}
	}
	return res, nil
}

// SummarizePDF runs the backend summarizer on a previously uploaded file.
// success:false is returned as-is; callers decide how to surface it.
func (c *Client) SummarizePDF(ctx context.Context, req SummarizeRequest) (SummarizeResponse, error) {
	var res SummarizeResponse
	if err := c.Call(ctx, http.MethodPost, EndpointSummarize, req, &res); err != nil {
		return SummarizeResponse{}, err
	}
	return res, nil
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	var res GenerateResponse
	if err := c.Call(ctx, http.MethodPost, EndpointGenerate, req, &res); err != nil {
		return GenerateResponse{}, err
	}
	return res, nil
}

func multipartBody(filename, contentType string, r io.Reader) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, UploadField, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
