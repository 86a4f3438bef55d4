package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/app"
	"github.com/ziadkadry99/gitaguide/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously asked questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		search, _ := cmd.Flags().GetString("search")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		a, err := openApp(cmd.Context(), app.Options{}, false)
		if err != nil {
			return err
		}
		defer a.Close()
		if a.History == nil {
			return fmt.Errorf("history is disabled: history_db is empty")
		}

		entries, err := a.History.List(cmd.Context(), history.Filter{Kind: kind, Search: search, Limit: limit})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(entries)
		}
		if len(entries) == 0 {
			fmt.Println("No questions asked yet.")
			return nil
		}

		for _, e := range entries {
			status := ""
			if e.Error {
				status = " [failed]"
			}
			fmt.Printf("%s  %-8s %s%s\n", e.AskedAt.Local().Format(time.DateTime), e.Kind, truncate(e.Question, 80), status)
		}

		sum, err := a.History.Summarize(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("\n%d questions, %d failed, %d with disclaimer, ~$%.4f total\n",
			sum.Questions, sum.Errors, sum.Disclaimers, sum.TotalCostUSD)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries")
	historyCmd.Flags().String("kind", "", "only guidance or factual questions")
	historyCmd.Flags().String("search", "", "only questions containing this text")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")
	rootCmd.AddCommand(historyCmd)
}
