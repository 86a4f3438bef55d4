package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/gitaguide/internal/app"
	"github.com/ziadkadry99/gitaguide/internal/server"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON HTTP API",
	Long:  `Serves retrieval, context building and guidance over HTTP. The index is loaded at startup; requests fail with 503 until one has been built.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")

		a, err := openApp(cmd.Context(), app.Options{}, false)
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

		if port == 0 {
			port = a.Config.Server.Port
		}
		srv := server.New(server.Config{
			Port:     port,
			AllowAll: a.Config.Server.AllowAll,
		}, a)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		generation := a.ProviderName()
		if generation == "" {
			generation = "disabled"
		}
		fmt.Fprintf(os.Stderr, "gitaguide server %s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Units indexed: %d\n", a.IndexStats().UnitCount)
		fmt.Fprintf(os.Stderr, "  Generation: %s\n", generation)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}
