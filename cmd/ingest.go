package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/app"
	"github.com/ziadkadry99/gitaguide/internal/corpus"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Clean, classify and chunk the raw verse corpus",
	Long:  `Reads the raw verse JSON, cleans each verse, assigns a theme, groups consecutive verses into chunks and writes the processed cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), app.Options{NoHistory: true}, false)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Ingest()
		if err != nil {
			return err
		}

		printStatistics(res.Stats)
		if a.Config.ProcessedPath != "" {
			fmt.Printf("\nProcessed corpus written to %s\n", a.Config.ProcessedPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func printStatistics(st corpus.Statistics) {
	fmt.Printf("Verses:          %d\n", st.TotalVerses)
	fmt.Printf("Chunks:          %d\n", st.TotalChunks)
	fmt.Printf("Chapters:        %d\n", st.TotalChapters)
	fmt.Printf("Avg words/verse: %.1f\n", st.AvgWordsPerVerse)
	if len(st.Themes) > 0 {
		fmt.Println("Themes:")
		for _, t := range st.Themes {
			fmt.Printf("  %-12s %d\n", t, st.ThemeCounts[string(t)])
		}
	}
}
