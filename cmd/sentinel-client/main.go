package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"sentinel/internal/api"
	"sentinel/internal/config"
	"sentinel/internal/session"
	"sentinel/internal/tui"
	"sentinel/internal/util"
)

func main() {
	cfgPath := flag.String("config", "", "path to sentinel YAML config")
	flag.Parse()

	path := *cfgPath
	if path == "" {
		path = os.Getenv("SENTINEL_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The client owns the terminal, so all logging goes to a file.
	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = fmt.Sprintf("/tmp/sentinel-client-%s.log", time.Now().Format("2006-01-02"))
	}
	logFile, err := util.OpenLogFile(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, logFile)
	util.SetDefault(logger)

	guard := session.NewGuard(cfg.Client.CredentialPath)
	timeout := time.Duration(cfg.Client.RequestTimeoutSec) * time.Second
	client := api.NewClient(cfg.Client.BaseURL, timeout, guard, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = util.Retry(ctx, 3, time.Second, func() error {
		probe, probeCancel := context.WithTimeout(ctx, timeout)
		defer probeCancel()
		return client.Health(probe)
	})
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "backend unreachable at %s: %v\n", cfg.Client.BaseURL, err)
		os.Exit(1)
	}
	logger.Info("backend reachable", "base_url", cfg.Client.BaseURL)

	p := tea.NewProgram(tui.New(cfg, client, guard, logger),
		tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
