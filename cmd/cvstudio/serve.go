package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lamnguyen/cvstudio/internal/assistant"
	"github.com/lamnguyen/cvstudio/internal/config"
	"github.com/lamnguyen/cvstudio/internal/cvtools"
	"github.com/lamnguyen/cvstudio/internal/llm"
	"github.com/lamnguyen/cvstudio/internal/logger"
	"github.com/lamnguyen/cvstudio/internal/server"
	"github.com/lamnguyen/cvstudio/internal/storage/memory"
)

var portFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CV Studio web server",
	Long: `Start the CV Studio HTTP server with REST API and WebSocket support.

API endpoints are under /api. Sessions live in memory and are lost on
restart.

Examples:
  cvstudio serve
  cvstudio serve --port 9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if modelFlag != "" {
		cfg.LLM.Model = modelFlag
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	store := memory.New()

	client := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	a := assistant.New(client, cvtools.NewRegistry(), log)

	coalescer := assistant.NewCoalescer(a.Chat, assistant.CoalescerConfig{
		BatchSize: cfg.Chat.BatchSize,
		MaxWait:   cfg.Chat.MaxWait,
	}, log)

	port := cfg.Server.Port
	if portFlag > 0 {
		port = portFlag
	}

	srv := server.New(cfg, store, a, coalescer, log)

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Warn("shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Start(port); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
