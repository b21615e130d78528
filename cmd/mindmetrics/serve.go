package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mindmetrics/internal/analysis"
	"github.com/fyrsmithlabs/mindmetrics/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve entries, reports, and metrics over HTTP",
	Long: `Run the local HTTP API. Endpoints:

  GET  /health
  GET  /metrics
  GET  /api/v1/report
  GET  /api/v1/entries
  POST /api/v1/entries

The report is cached and recomputed when the store changes, including
changes made by another mindmetrics process.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	server, err := httpapi.NewServer(st, analysis.New(cfg.Analysis, logger), logger, httpapi.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.WatchStore(ctx, cfg.Store.Path); err != nil {
			logger.Warn("store watcher stopped", zap.Error(err))
		}
	}()

	return server.Start(ctx)
}
