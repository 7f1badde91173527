package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	mcpserver "github.com/finxan/ai-service/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the inventory assistant as the ask_inventory_assistant and compose_inventory_prompt tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		rt, err := buildRuntime(cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		mcpserver.Version = Version

		logger.Info("finxan-ai MCP server started on stdio", slog.String("model", cfg.Model))
		return mcpserver.NewServer(rt.svc).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
