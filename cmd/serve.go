package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lennai/lennai/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the content gateway over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(os.Stderr, true, cfg.Level(slog.LevelInfo))

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		gen, err := d.requireGateway()
		if err != nil {
			return err
		}

		addr := cfg.ListenAddr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}
		srv := &http.Server{
			Addr:         addr,
			Handler:      api.NewRouter(api.NewHandler(gen, cfg.QuizDifficulty), cfg.CORSOrigins),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute, // generation can be slow
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("Server starting", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			return nil
		case <-cmd.Context().Done():
		}

		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		slog.Info("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LENNAI_LISTEN_ADDR)")
}
