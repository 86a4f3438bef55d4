package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/app"
	"github.com/ziadkadry99/gitaguide/internal/retrieval"
	"github.com/ziadkadry99/gitaguide/internal/themes"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Retrieve the verses most relevant to a question",
	Long:  `Runs the retrieval pipeline only: theme expansion, vector search, de-duplication and ranking. No model is called.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().Int("limit", retrieval.DefaultMaxResults, "maximum number of results")
	queryCmd.Flags().Int("chapter", 0, "only search verses of this chapter")
	queryCmd.Flags().Bool("context", false, "print the packed model context instead of the ranked list")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	queryText := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	chapter, _ := cmd.Flags().GetInt("chapter")
	contextOnly, _ := cmd.Flags().GetBool("context")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := openApp(ctx, app.Options{NoHistory: true}, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if contextOnly {
		qc, err := a.BuildContext(ctx, queryText, 0)
		if err != nil {
			return fmt.Errorf("building context: %w", err)
		}
		if jsonOutput {
			return printJSON(qc)
		}
		fmt.Printf("Themes: %v\n", themes.Strings(qc.QueryThemes))
		fmt.Printf("Verses: %d\n\n%s\n", qc.TotalVerses, qc.FormattedContext)
		return nil
	}

	var hits []retrieval.Hit
	if chapter > 0 {
		hits, err = a.SearchChapter(ctx, queryText, chapter, limit)
	} else {
		hits, err = a.Retrieve(ctx, queryText, limit)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	if jsonOutput {
		return printJSON(hits)
	}

	printHits(hits)
	return nil
}

func printHits(hits []retrieval.Hit) {
	fmt.Printf("Found %d results:\n\n", len(hits))
	for i, h := range hits {
		fmt.Printf("  %d. [%.1f%%] %s\n", i+1, h.RelevanceScore*100, h.Label())
		fmt.Printf("     Theme: %s\n", h.Theme)
		fmt.Printf("     %s\n\n", truncate(h.Text, 160))
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
