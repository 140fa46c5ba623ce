package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shopassist/internal/model"
)

var extractTurns []string

var extractCmd = &cobra.Command{
	Use:   "extract <message>",
	Short: "Print the search intent extracted from a message",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringArrayVarP(&extractTurns, "turn", "t", nil, "prior conversation turn as role:content (repeatable, oldest first)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	turns, err := parseTurns(extractTurns)
	if err != nil {
		return err
	}

	eng, err := newEngine(stderrOf(cmd))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	intent := eng.extractor.Extract(cmd.Context(), strings.Join(args, " "), turns)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(intent)
}

func parseTurns(raw []string) ([]model.ConversationTurn, error) {
	turns := make([]model.ConversationTurn, 0, len(raw))
	for _, r := range raw {
		role, content, ok := strings.Cut(r, ":")
		role = strings.TrimSpace(role)
		if !ok || (role != "user" && role != "assistant") {
			return nil, fmt.Errorf("invalid turn %q: want user:<text> or assistant:<text>", r)
		}
		turns = append(turns, model.ConversationTurn{Role: role, Content: strings.TrimSpace(content)})
	}
	return turns, nil
}
