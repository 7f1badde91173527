package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/finxan/ai-service/internal/chat"
	"github.com/finxan/ai-service/internal/config"
	"github.com/finxan/ai-service/internal/db"
	"github.com/finxan/ai-service/internal/gateway"
	"github.com/finxan/ai-service/internal/llm"
	"github.com/finxan/ai-service/internal/logging"
	"github.com/finxan/ai-service/internal/metrics"
	"github.com/finxan/ai-service/internal/usage"
)

// loadConfig loads .env, the config file and env overrides, then validates.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `finxan-ai init` to create a config file", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout stays free for command output and
// the MCP protocol.
func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// runtime holds the long-lived components shared by serve, ask and mcp.
type runtime struct {
	svc     *chat.Service
	metrics *metrics.Metrics
	ledger  *usage.Store
	db      *db.DB
}

func (rt *runtime) Close() error {
	if rt.db != nil {
		return rt.db.Close()
	}
	return nil
}

// buildRuntime wires config into provider, gateway, metrics, ledger and the
// chat service. A missing backend key is fatal here, before anything serves.
func buildRuntime(cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(cfg.ProviderConfig())
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	mode, err := chat.ParseMode(cfg.DefaultMode)
	if err != nil {
		return nil, err
	}

	rt := &runtime{metrics: metrics.New("finxan")}
	opts := []chat.Option{
		chat.WithLogger(logger),
		chat.WithMetrics(rt.metrics),
		chat.WithDefaultMode(mode),
		chat.WithModel(cfg.Model),
	}

	if cfg.UsageDB != "" {
		database, err := db.Open(cfg.UsageDB)
		if err != nil {
			return nil, fmt.Errorf("opening usage ledger: %w", err)
		}
		rt.db = database
		rt.ledger = usage.NewStore(database)
		opts = append(opts, chat.WithLedger(rt.ledger))
	}

	gw := gateway.New(provider, cfg.Model, rt.metrics)
	rt.svc = chat.NewService(gw, opts...)

	logger.Debug("runtime ready",
		slog.String("provider", provider.Name()),
		slog.String("model", cfg.Model),
		slog.Bool("usage_ledger", rt.ledger != nil),
	)
	return rt, nil
}
