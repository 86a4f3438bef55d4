package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/app"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask for guidance grounded in relevant verses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		showVerses, _ := cmd.Flags().GetBool("verses")

		a, err := openApp(cmd.Context(), app.Options{}, true)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Ask(cmd.Context(), question)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(res)
		}

		fmt.Println(res.Response)
		if showVerses && len(res.UsedVerses) > 0 {
			fmt.Println("\nVerses consulted:")
			for _, h := range res.UsedVerses {
				fmt.Printf("  - %s (%s)\n", h.Label(), h.Theme)
			}
		}
		if verbose && !res.Error {
			fmt.Fprintf(os.Stderr, "\n%s question, %d in / %d out tokens, ~$%.4f\n",
				res.Kind, res.InputTokens, res.OutputTokens, res.CostUSD)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().Bool("json", false, "output the full result as JSON")
	askCmd.Flags().Bool("verses", false, "list the verses used as context")
	rootCmd.AddCommand(askCmd)
}
