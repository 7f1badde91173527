package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finxan/ai-service/internal/chat"
	"github.com/finxan/ai-service/internal/conversation"
	"github.com/finxan/ai-service/internal/inventory"
)

var (
	askContextFile string
	askHistoryFile string
	askMode        string
	askJSON        bool
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask the inventory assistant one question",
	Long:  `Runs a single message through the same pipeline the HTTP API uses and prints the reply.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		mode, err := chat.ParseMode(askMode)
		if err != nil {
			return err
		}

		raw, err := readContextFile(askContextFile)
		if err != nil {
			return err
		}

		var history []conversation.Turn
		if askHistoryFile != "" {
			data, err := os.ReadFile(askHistoryFile)
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}
			if err := json.Unmarshal(data, &history); err != nil {
				return fmt.Errorf("parsing history %s: %w", askHistoryFile, err)
			}
		}

		rt, err := buildRuntime(cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		resp, err := rt.svc.Send(cmd.Context(), chat.Request{
			Message:   strings.Join(args, " "),
			Context:   raw,
			History:   history,
			SessionID: "cli",
			Mode:      mode,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if askJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		fmt.Fprintln(out, resp.Response)
		return nil
	},
}

// readContextFile parses an inventory context JSON file. An empty path
// means no context.
func readContextFile(path string) (inventory.Raw, error) {
	if path == "" {
		return inventory.Raw{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return inventory.Raw{}, fmt.Errorf("reading context: %w", err)
	}
	return inventory.Parse(data), nil
}

func init() {
	askCmd.Flags().StringVar(&askContextFile, "context", "", "inventory context JSON file")
	askCmd.Flags().StringVar(&askHistoryFile, "history", "", "conversation history JSON file")
	askCmd.Flags().StringVar(&askMode, "mode", "", "conversation mode: chat or prompt (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	rootCmd.AddCommand(askCmd)
}
