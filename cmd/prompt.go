package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finxan/ai-service/internal/chat"
)

var promptContextFile string

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system prompt composed for an inventory context",
	Long:  `Renders the system prompt the assistant would receive for the given context. No backend call is made and no API key is needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readContextFile(promptContextFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), chat.ComposePrompt(raw))
		return nil
	},
}

func init() {
	promptCmd.Flags().StringVar(&promptContextFile, "context", "", "inventory context JSON file")
	rootCmd.AddCommand(promptCmd)
}
