package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/app"
	"github.com/ziadkadry99/gitaguide/internal/logger"
	mcpserver "github.com/ziadkadry99/gitaguide/internal/mcp"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing verse search and context tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol.
		logger.SetOutput(os.Stderr)

		a, err := openApp(cmd.Context(), app.Options{NoHistory: true}, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.LoadIndex(cmd.Context()); err != nil {
			if !errors.Is(err, vectordb.ErrIndexUnavailable) {
				return err
			}
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "gitaguide MCP server started on stdio (units=%d)\n", a.IndexStats().UnitCount)

		return mcpserver.NewServer(a).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
