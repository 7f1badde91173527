package cmd

import (
	"github.com/spf13/cobra"

	"github.com/finxan/ai-service/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the service configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the backend provider, model, port and usage ledger, and writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
