package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taskflowhq/taskflow/common/version"
	"github.com/taskflowhq/taskflow/internal/chat"
	"github.com/taskflowhq/taskflow/internal/config"
	"github.com/taskflowhq/taskflow/internal/observability"
	"github.com/taskflowhq/taskflow/internal/oracle"
	"github.com/taskflowhq/taskflow/internal/reminder"
	"github.com/taskflowhq/taskflow/internal/server"
	"github.com/taskflowhq/taskflow/internal/store"
)

func main() {
	fmt.Printf("TaskFlow\n")
	fmt.Printf("Version: %s\n", version.Version)
	fmt.Printf("Commit: %s\n", version.GitCommit)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Println()

	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	observability.Setup(cfg.LogLevel, cfg.LogFormat)

	st, err := store.New(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	// Without an API key the gateway gets no provider and every chat turn
	// uses the deterministic interpreter.
	var provider oracle.Provider
	if cfg.Oracle.APIKey != "" {
		provider = oracle.NewProvider(oracle.Config{
			APIKey:  cfg.Oracle.APIKey,
			BaseURL: cfg.Oracle.BaseURL,
			Model:   cfg.Oracle.Model,
		})
		slog.Info("oracle enabled", "model", cfg.Oracle.Model)
	} else {
		slog.Info("no oracle API key set, chat runs on the local interpreter")
	}
	gateway := oracle.NewGateway(provider, oracle.GatewayConfig{
		Timeout:          cfg.Oracle.Timeout,
		RateLimit:        cfg.Oracle.RateLimit,
		DailyTokenBudget: cfg.Oracle.DailyTokenBudget,
	})

	engine := chat.NewEngine(gateway)
	sessions := chat.NewSessions(cfg.Session.TTL, cfg.Session.MaxHistory)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Reminder.Enabled {
		scanner := reminder.New(st, cfg.Reminder.Interval, cfg.Reminder.Lookahead, nil)
		go scanner.Run(ctx)
	}

	srv := server.New(server.Config{
		Addr:          cfg.ListenAddr,
		OracleEnabled: provider != nil,
	}, st, engine, sessions)

	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
	defer srv.Stop()

	<-ctx.Done()
	slog.Info("shutting down")
}
