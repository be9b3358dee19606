package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andy6609/username-relay/internal/admin"
	"github.com/andy6609/username-relay/internal/chat"
	"github.com/andy6609/username-relay/internal/config"
	"github.com/andy6609/username-relay/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// flags win over the environment
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "relay listen address")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "metrics listen address, empty to disable")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogOutput)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	srv := chat.NewServer(chat.Options{
		Addr:         cfg.Addr,
		MaxSessions:  cfg.MaxSessions,
		MaxFrameSize: cfg.MaxFrameSize,
		WriteTimeout: cfg.WriteTimeout,
	}, logger)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer srv.Stop()

	var adminSrv *http.Server
	if cfg.MetricsAddr != "" {
		adminSrv = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: admin.NewRouter(srv.Registry()),
		}
		go func() {
			logger.Info("admin server started", "addr", cfg.MetricsAddr)
			if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("admin server error", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if adminSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := adminSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("admin shutdown error", "error", err)
		}
	}
	return nil
}
