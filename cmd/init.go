package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gitaguide configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the answer and embedding providers and writes a .gitaguide.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
