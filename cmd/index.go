package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/app"
	"github.com/ziadkadry99/gitaguide/internal/logger"
	"github.com/ziadkadry99/gitaguide/internal/progress"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the processed corpus into the vector index",
	Long: `Embeds every verse and chunk in batches and persists the index. The
processed cache is used when present, otherwise the raw corpus is ingested
first. An existing index stays usable until the new one is complete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reset, _ := cmd.Flags().GetBool("reset")

		reporter := progress.NewReporter()
		a, err := openApp(cmd.Context(), app.Options{
			NoHistory: true,
			OnBatch:   progress.BatchFunc(reporter, "Embedding"),
		}, false)
		if err != nil {
			return err
		}
		defer a.Close()

		logger.Section("Indexing")
		logger.Info("embedder: %s", a.Embedder.Name())

		st, err := a.BuildIndex(cmd.Context(), reset)
		reporter.Finish()
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}

		fmt.Printf("Indexed %d units with %s (generation %d)\n", st.UnitCount, st.EmbeddingModel, st.Generation)
		fmt.Printf("Index saved to %s\n", a.Config.IndexDir)
		return nil
	},
}

func init() {
	indexCmd.Flags().Bool("reset", false, "remove the persisted index before rebuilding")
	rootCmd.AddCommand(indexCmd)
}
