package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentinel/internal/config"
	"sentinel/internal/httpapi"
	"sentinel/internal/store"
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

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	util.SetDefault(logger)

	st, err := store.NewSQLiteStore(cfg.Server.SQLitePath)
	if err != nil {
		logger.Error("opening store", "path", cfg.Server.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := httpapi.NewWorker(cfg, st, logger)
	if err := worker.Seed(ctx); err != nil {
		logger.Error("seeding replay source", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(cfg, st, worker, logger)
	if err := srv.Bootstrap(ctx); err != nil {
		logger.Error("bootstrapping admin user", "error", err)
		os.Exit(1)
	}

	go worker.Run(ctx)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutCtx)
	}()

	logger.Info("sentinel-server listening", "addr", cfg.Server.Addr, "db", cfg.Server.SQLitePath)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("sentinel-server stopped")
}
