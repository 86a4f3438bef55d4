package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/config"
	"github.com/ziadkadry99/gitaguide/internal/logger"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gitaguide",
	Short: "Verse retrieval and guidance from the Bhagavad Gita",
	Long: `gitaguide indexes the verses of the Bhagavad Gita, retrieves the passages
most relevant to a question, and asks a generative model for guidance
grounded in them. It serves the same pipeline over HTTP and to AI agents
via MCP.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
		// API keys may live in .env; a missing file is fine.
		if err := godotenv.Load(); err == nil {
			logger.Debug("loaded .env")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.FileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
