package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finxan/ai-service/internal/api"
	"github.com/finxan/ai-service/internal/server"
	"github.com/finxan/ai-service/internal/usage"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket API",
	Long:  `Starts the inventory assistant HTTP API, including the chat, analytics and insights routers, the websocket chat endpoint and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("host") {
			cfg.Host = serveHost
		}
		logger := newLogger(cfg)

		rt, err := buildRuntime(cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := server.New(server.Config{
			Host:     cfg.Host,
			Port:     cfg.Port,
			AllowAll: cfg.AllowAllOrigins,
		}, logger, rt.metrics)

		api.New(rt.svc, api.Options{
			Version: Version,
			Timeout: cfg.Timeout(),
			Logger:  logger,
			Ledger:  rt.ledger,
		}).RegisterRoutes(srv.Router())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if rt.ledger != nil {
			go rt.ledger.KeepPruned(ctx, cfg.Retention(), usage.PruneInterval, logger)
		}

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown failed", slog.Any("error", err))
			}
		}()

		logger.Info("starting finxan ai service",
			slog.String("version", Version),
			slog.String("provider", string(cfg.Provider)),
			slog.String("model", cfg.Model),
			slog.String("usage_db", cfg.UsageDB),
			slog.Int("usage_retention_days", cfg.UsageRetention),
		)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "host to bind (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
