// Package launcher starts the local AI backend process and waits for its
// /health endpoint. Every failure here degrades to a warning for the UI.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"multitool/internal/backend"
	"multitool/internal/config"
)

var (
	ErrNotConfigured = errors.New("launcher: no backend command configured")
	errExited        = errors.New("backend process exited")
)

type Prober interface {
	Health(ctx context.Context) (backend.HealthStatus, error)
}

// Readiness is the outcome of Ensure, shown as the backend status banner.
type Readiness struct {
	Healthy bool
	Health  backend.HealthStatus
	Started bool
	Command string
	Warning string
}

type Launcher struct {
	cfg    config.Backend
	logger *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	argv   []string
	exited chan struct{}
}

func New(cfg config.Backend, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.ReadyAttempts == 0 {
		cfg.ReadyAttempts = config.DefaultReadyAttempts
	}
	if cfg.ReadyDelay <= 0 {
		cfg.ReadyDelay = config.DefaultReadyDelay
	}
	return &Launcher{cfg: cfg, logger: logger}
}

// Start runs the first configured command that can be started. It is a no-op
// when a process is already running.
func (l *Launcher) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cmd != nil {
		return nil
	}
	if len(l.cfg.Commands) == 0 {
		return ErrNotConfigured
	}

	var errs []error
	for _, argv := range l.cfg.Commands {
		if len(argv) == 0 {
			continue
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Dir = l.cfg.Dir
		if err := cmd.Start(); err != nil {
			l.logger.Debug("backend command failed to start", "cmd", argv, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", argv[0], err))
			continue
		}

		exited := make(chan struct{})
		go func() {
			err := cmd.Wait()
			l.logger.Info("backend process exited", "cmd", argv, "err", err)
			close(exited)
		}()
		l.cmd, l.argv, l.exited = cmd, argv, exited
		l.logger.Info("backend process started", "cmd", argv, "pid", cmd.Process.Pid)
		return nil
	}
	return fmt.Errorf("launcher: no backend command could be started: %w", errors.Join(errs...))
}

// Running reports whether a started process is still alive.
func (l *Launcher) Running() bool {
	l.mu.Lock()
	exited := l.exited
	l.mu.Unlock()
	if exited == nil {
		return false
	}
	select {
	case <-exited:
		return false
	default:
		return true
	}
}

// WaitReady polls /health until it succeeds, the attempts run out, the
// context ends, or the started process dies.
func (l *Launcher) WaitReady(ctx context.Context, p Prober) (backend.HealthStatus, error) {
	return l.poll(ctx, p, l.cfg.ReadyAttempts)
}

func (l *Launcher) poll(ctx context.Context, p Prober, attempts uint) (backend.HealthStatus, error) {
	l.mu.Lock()
	exited := l.exited
	l.mu.Unlock()

	return retry.DoWithData(
		func() (backend.HealthStatus, error) {
			if exited != nil {
				select {
				case <-exited:
					return backend.HealthStatus{}, retry.Unrecoverable(errExited)
				default:
				}
			}
			return p.Health(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(l.cfg.ReadyDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			l.logger.Debug("backend not ready", "attempt", n+1, "err", err)
		}),
	)
}

// Ensure starts the backend if configured and reports whether it is healthy.
// It never fails; problems come back as Readiness.Warning.
func (l *Launcher) Ensure(ctx context.Context, p Prober) Readiness {
	var r Readiness
	startErr := l.Start()

	attempts := uint(1)
	switch {
	case startErr == nil:
		r.Started = true
		l.mu.Lock()
		r.Command = strings.Join(l.argv, " ")
		l.mu.Unlock()
		attempts = l.cfg.ReadyAttempts
	case errors.Is(startErr, ErrNotConfigured):
		l.logger.Warn("backend start hook not configured")
	default:
		l.logger.Warn("backend start failed", "err", startErr)
	}

	health, err := l.poll(ctx, p, attempts)
	if err == nil {
		r.Healthy = true
		r.Health = health
		return r
	}

	l.logger.Warn("backend not available", "err", err)
	switch {
	case errors.Is(startErr, ErrNotConfigured):
		r.Warning = "Backend not running and no start command is configured. Start the Python server manually."
	case startErr != nil:
		r.Warning = "Could not start the AI backend. Please start the Python server manually."
	case errors.Is(err, errExited):
		r.Warning = "The AI backend exited during startup. Check the backend logs."
	default:
		r.Warning = "Backend Not Available. Please start the Python server."
	}
	return r
}

// Stop kills the started process, if any, and waits briefly for it to exit.
func (l *Launcher) Stop() error {
	l.mu.Lock()
	cmd, exited := l.cmd, l.exited
	l.cmd, l.argv, l.exited = nil, nil, nil
	l.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	select {
	case <-exited:
		return nil
	default:
	}
	if err := cmd.Process.Kill(); err != nil {
		return err
	}
	select {
	case <-exited:
	case <-time.After(3 * time.Second):
		return errors.New("launcher: backend process did not exit")
	}
	return nil
}
