package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"multitool/internal/backend"
	"multitool/internal/config"
	"multitool/internal/db"
	"multitool/internal/demo"
	"multitool/internal/launcher"
	"multitool/internal/logging"
	"multitool/internal/models"
	"multitool/internal/session"
	"multitool/internal/ui"
)

func main() {
	demoMode := flag.Bool("demo", false, "serve a stand-in AI backend in-process")
	debug := flag.Bool("debug", false, "write debug logs under the config directory")
	backendURL := flag.String("backend", "", "AI backend base URL (overrides config)")
	writeConfig := flag.Bool("write-config", false, "write the effective config to config.yaml and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}
	if *demoMode {
		cfg.Demo = true
	}
	if *backendURL != "" {
		cfg.BackendURL = *backendURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	}
	if *writeConfig {
		if err := config.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(filepath.Join(cfg.Dir, "config.yaml"))
		return
	}

	if err := run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	fl, err := logging.NewFileLogger(cfg.Dir, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	defer fl.Close()
	logger := fl.Logger
	logger.Info("starting", "backend_url", cfg.BackendURL, "demo", cfg.Demo, "config_dir", cfg.Dir)

	summary, chat := models.DefaultSummarySettings(), models.DefaultChatSettings()
	prefs, err := db.OpenPrefsDB(cfg.Dir)
	if err != nil {
		logger.Warn("preferences unavailable", "err", err)
		prefs = nil
	} else {
		defer prefs.Close()
		if s, err := db.LoadSummarySettings(prefs); err == nil {
			summary = s
		}
		if c, err := db.LoadChatSettings(prefs); err == nil {
			chat = c
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		proc    *launcher.Launcher
		ensurer ui.Ensurer
	)
	if cfg.Demo {
		srv, err := demo.New(demo.Options{Latency: 800 * time.Millisecond, Logger: logger})
		if err != nil {
			return fmt.Errorf("demo backend: %w", err)
		}
		url, err := srv.Start(ctx)
		if err != nil {
			return fmt.Errorf("demo backend: %w", err)
		}
		cfg.BackendURL = url
	} else {
		proc = launcher.New(cfg.Backend, logger)
		ensurer = proc
		defer func() {
			if err := proc.Stop(); err != nil {
				logger.Warn("stopping backend", "err", err)
			}
		}()
	}

	client := backend.NewClient(cfg.BackendURL, logger)
	controller := session.NewController(client, session.Options{
		MaxUploadSize: cfg.MaxUploadBytes(),
		Summary:       summary,
		Chat:          chat,
		Logger:        logger,
	})

	p := ui.NewProgram(ui.Deps{
		Controller: controller,
		Backend:    client,
		Launcher:   ensurer,
		DB:         prefs,
		Logger:     logger,
	})
	_, err = p.Run()
	return err
}
