package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/app"
	"github.com/ziadkadry99/gitaguide/internal/corpus"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus and index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), app.Options{NoHistory: true}, false)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Entries()
		if err != nil {
			return err
		}
		verses, chunks := corpus.Split(entries)
		fmt.Println("Corpus")
		printStatistics(corpus.Stats(verses, chunks))

		fmt.Println("\nIndex")
		if err := a.LoadIndex(cmd.Context()); err != nil {
			if errors.Is(err, vectordb.ErrIndexUnavailable) {
				fmt.Println("  not built; run `gitaguide index`")
				return nil
			}
			return err
		}
		st := a.IndexStats()
		fmt.Printf("  Units:      %d\n", st.UnitCount)
		fmt.Printf("  Generation: %d\n", st.Generation)
		fmt.Printf("  Embeddings: %s\n", st.EmbeddingModel)

		names := make([]string, 0, len(st.ThemeCounts))
		for name := range st.ThemeCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("    %-12s %d\n", name, st.ThemeCounts[name])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
