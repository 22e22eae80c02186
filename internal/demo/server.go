// Package demo is a small in-process stand-in for the Python AI backend. It
// serves the same HTTP contract with an extractive summarizer and an echo
// chat model so the launcher can run without the real backend.
package demo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	ErrParseRequest = errors.New("failed to parse request")
	ErrSaveUpload   = errors.New("file upload failed")
)

const detailModelNotLoaded = "Model not loaded"

type Options struct {
	// UploadDir receives uploaded files. Defaults to <tmp>/multi-tool-ai.
	UploadDir string
	// Latency is added to /summarize_pdf and /generate.
	Latency time.Duration
	// ModelUnloaded makes the model endpoints answer 503.
	ModelUnloaded bool
	Logger        *slog.Logger
}

type Server struct {
	opts   Options
	engine *gin.Engine
}

func New(opts Options) (*Server, error) {
	if opts.UploadDir == "" {
		opts.UploadDir = filepath.Join(os.TempDir(), "multi-tool-ai")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(opts.UploadDir, 0o700); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{opts: opts}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	r.GET("/health", s.health)
	r.POST("/upload_file", s.uploadFile)

	model := r.Group("")
	model.Use(s.requireModel(), s.latency())
	{
		model.POST("/summarize_pdf", s.summarizePDF)
		model.POST("/generate", s.generate)
	}

	s.engine = r
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.engine }

// Serve answers on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Start listens on a free loopback port and returns the base URL.
func (s *Server) Start(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	go func() {
		if err := s.Serve(ctx, ln); err != nil {
			s.opts.Logger.Error("demo backend stopped", "err", err)
		}
	}()
	return "http://" + ln.Addr().String(), nil
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.opts.Logger.Debug("demo request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) requireModel() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.ModelUnloaded {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorResponse{Detail: detailModelNotLoaded})
			return
		}
		c.Next()
	}
}

func (s *Server) latency() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.Latency <= 0 {
			c.Next()
			return
		}
		select {
		case <-time.After(s.opts.Latency):
			c.Next()
		case <-c.Request.Context().Done():
			c.Abort()
		}
	}
}

func (s *Server) health(c *gin.Context) {
	status := "healthy"
	if s.opts.ModelUnloaded {
		status = "model_not_loaded"
	}
	c.JSON(http.StatusOK, healthResponse{
		Status:      status,
		ModelLoaded: !s.opts.ModelUnloaded,
		TempDir:     s.opts.UploadDir,
	})
}

func (s *Server) uploadFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		s.opts.Logger.Debug(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Detail: "field 'file' is required"})
		return
	}

	name := filepath.Base(fh.Filename)
	dst := filepath.Join(s.opts.UploadDir, uuid.NewString()+"_"+name)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		s.opts.Logger.Error(ErrSaveUpload.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Detail: ErrSaveUpload.Error() + ": " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		Success:  true,
		FilePath: dst,
		Filename: name,
		Size:     fh.Size,
	})
}

func (s *Server) summarizePDF(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Detail: ErrParseRequest.Error()})
		return
	}
	if req.FilePath == "" {
		c.JSON(http.StatusOK, summarizeResponse{Error: "file_path is required"})
		return
	}
	if !s.ownsPath(req.FilePath) {
		c.JSON(http.StatusOK, summarizeResponse{Error: "File not found"})
		return
	}
	data, err := os.ReadFile(req.FilePath)
	if err != nil {
		c.JSON(http.StatusOK, summarizeResponse{Error: "File not found"})
		return
	}

	text := ExtractText(data)
	if text == "" {
		c.JSON(http.StatusOK, summarizeResponse{Error: "No text could be extracted from the PDF"})
		return
	}
	summary, strategy := Summarize(text, req.SummaryLength, req.SummaryStrategy)
	if summary == "" {
		c.JSON(http.StatusOK, summarizeResponse{Error: "Generated summary is too short"})
		return
	}

	c.JSON(http.StatusOK, summarizeResponse{
		Success:          true,
		Summary:          summary,
		OriginalLength:   len(text),
		SummaryLength:    len(summary),
		CompressionRatio: float64(len(summary)) / float64(len(text)),
		StrategyUsed:     strategy,
	})
}

func (s *Server) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{Detail: ErrParseRequest.Error()})
		return
	}
	if req.Temperature < 0 || req.Temperature > 1 {
		c.JSON(http.StatusOK, generateResponse{Error: "temperature must be between 0.0 and 1.0"})
		return
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = 256
	}
	c.JSON(http.StatusOK, generateResponse{Success: true, Response: Reply(req.Prompt, req.MaxTokens)})
}

func (s *Server) ownsPath(p string) bool {
	rel, err := filepath.Rel(s.opts.UploadDir, filepath.Clean(p))
	return err == nil && rel != "." && filepath.IsLocal(rel)
}
