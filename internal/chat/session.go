// Package chat holds a single conversation with the backend's /generate
// endpoint. At most one request is outstanding per session.
package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"multitool/internal/backend"
	"multitool/internal/errinfo"
	"multitool/internal/models"
)

var ErrPending = errors.New("chat: waiting for the previous reply")

type Generator interface {
	Generate(ctx context.Context, req backend.GenerateRequest) (backend.GenerateResponse, error)
}

// Session is an append-only message history plus the pending gate.
type Session struct {
	gen    Generator
	logger *slog.Logger

	mu       sync.Mutex
	settings models.ChatSettings
	history  []models.ChatMessage
	pending  bool
	onAppend func(models.ChatMessage)
}

func NewSession(gen Generator, settings models.ChatSettings, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{gen: gen, settings: settings, logger: logger}
}

// OnAppend registers fn to be called (outside the lock) for every message
// added to the history, in order.
func (s *Session) OnAppend(fn func(models.ChatMessage)) {
	s.mu.Lock()
	s.onAppend = fn
	s.mu.Unlock()
}

func (s *Session) Settings() models.ChatSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) SetSettings(cfg models.ChatSettings) error {
	if err := validateSettings(cfg); err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = cfg
	s.mu.Unlock()
	return nil
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// History returns a copy of the messages so far.
func (s *Session) History() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// Send appends text as a user message, asks the backend for a reply and
// appends the reply (or a readable error) as an assistant message, which is
// returned. Only local problems are returned as errors: empty input, bad
// settings, or ErrPending when a reply is still outstanding. In those cases
// nothing is appended and no request is made.
func (s *Session) Send(ctx context.Context, text string) (models.ChatMessage, error) {
	prompt := strings.TrimSpace(text)
	if prompt == "" {
		return models.ChatMessage{}, errinfo.Validation("message", "Please enter a message.")
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrPending
	}
	settings := s.settings
	if err := validateSettings(settings); err != nil {
		s.mu.Unlock()
		return models.ChatMessage{}, err
	}
	s.pending = true
	user, notify := s.appendLocked(models.RoleUser, prompt)
	s.mu.Unlock()
	notify(user)

	res, err := s.gen.Generate(ctx, backend.GenerateRequest{
		Prompt:      prompt,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	})

	var content string
	switch {
	case err != nil:
		s.logger.Warn("chat generate failed", "err", err)
		content = errinfo.UserMessage(models.ToolAIChat, err)
	case !res.Success:
		content = errinfo.UserMessage(models.ToolAIChat, &backend.LogicalError{Endpoint: backend.EndpointGenerate, Message: res.Error})
	default:
		content = res.Response
	}

	s.mu.Lock()
	reply, notify := s.appendLocked(models.RoleAssistant, content)
	s.pending = false
	s.mu.Unlock()
	notify(reply)
	return reply, nil
}

func (s *Session) appendLocked(role, content string) (models.ChatMessage, func(models.ChatMessage)) {
	msg := models.ChatMessage{Role: role, Content: content, Sequence: len(s.history)}
	s.history = append(s.history, msg)
	fn := s.onAppend
	if fn == nil {
		fn = func(models.ChatMessage) {}
	}
	return msg, fn
}

func validateSettings(cfg models.ChatSettings) error {
	if cfg.MaxTokens <= 0 {
		return errinfo.Validation("max_tokens", "max tokens must be positive, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return errinfo.Validation("temperature", "temperature must be between 0.0 and 1.0, got %.2f", cfg.Temperature)
	}
	return nil
}
