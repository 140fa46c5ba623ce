package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shopassist/internal/model"
	"shopassist/internal/service"
)

var (
	rankCatalog string
	rankLimit   int
	rankJSON    bool
	rankTurns   []string
)

var rankCmd = &cobra.Command{
	Use:   "rank <message>",
	Short: "Rank a catalog file against a message",
	Long:  "Runs extraction, filtering, scoring and reply composition against products read from --catalog.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().StringVar(&rankCatalog, "catalog", "", "catalog file, .json or .yaml (required)")
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 0, "number of products to return (default search.top_n)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print the full response as JSON")
	rankCmd.Flags().StringArrayVarP(&rankTurns, "turn", "t", nil, "prior conversation turn as role:content (repeatable, oldest first)")
	rankCmd.MarkFlagRequired("catalog")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	turns, err := parseTurns(rankTurns)
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(rankCatalog)
	if err != nil {
		return err
	}

	eng, err := newEngine(stderrOf(cmd))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	svc := service.NewSearchService(catalog, eng.extractor, eng.ranker, eng.composer, service.SearchOptions{
		TopN:     eng.cfg.Search.TopN,
		MaxLimit: eng.cfg.Search.MaxLimit,
		Logger:   eng.logger,
	})

	resp, err := svc.Chat(cmd.Context(), &model.ChatRequest{
		Message:             strings.Join(args, " "),
		RetailerID:          retailer,
		ConversationContext: turns,
		Limit:               rankLimit,
	})
	if err != nil {
		return err
	}

	if rankJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return printRanking(cmd, resp)
}

func printRanking(cmd *cobra.Command, resp *model.ChatResponse) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, resp.Message)
	if len(resp.Products) == 0 {
		return nil
	}
	fmt.Fprintf(out, "\n%d of %d candidates\n", len(resp.Products), resp.TotalFound)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tID\tTITLE\tPRICE\tMATCHED")
	for _, p := range resp.Products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\n",
			p.RelevanceScore, p.ID, p.Title, p.Price, strings.Join(p.MatchedAttributes, ","))
	}
	return w.Flush()
}
