package cmd

import (
	"github.com/spf13/cobra"

	"github.com/finxan/ai-service/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "finxan-ai",
	Short: "AI inventory assistant for the Finxan platform",
	Long: `finxan-ai answers natural-language questions about a user's inventory.
Each request carries the inventory context it should be answered from; the
service renders it into a strict, fact-only prompt and forwards it to a
generative backend.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
