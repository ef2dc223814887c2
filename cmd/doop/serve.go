package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tectix/doop-lang/internal/config"
	"github.com/tectix/doop-lang/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		dir     string
		port    int
		noBuild bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the documentation and serve it over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			envCfg, err := config.Load()
			if err != nil {
				return err
			}
			if port == 0 {
				port = envCfg.Port
			}

			cfg, err := config.LoadProjectConfig(dir)
			if err != nil {
				return fmt.Errorf("failed to load project config: %w", err)
			}
			docsDir := filepath.Join(dir, cfg.Output.Dir)

			if !noBuild {
				result, _, _, err := compileProject(ctx, dir, nil)
				if err != nil {
					return err
				}
				if err := printDiagnostics(result.Diagnostics, false); err != nil {
					return err
				}
				if result.Diagnostics.HasErrors() {
					return fmt.Errorf("compilation failed with %d error(s)", len(result.Diagnostics.Errors()))
				}
				if _, err := emitAll(result.Graph, cfg, docsDir); err != nil {
					return err
				}
			}

			srv, err := server.NewServer(docsDir)
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:         fmt.Sprintf(":%d", port),
				Handler:      srv.Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown
			done := make(chan bool)
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			go func() {
				<-quit
				log.Info().Msg("server is shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					log.Fatal().Err(err).Msg("could not gracefully shutdown the server")
				}
				close(done)
			}()

			log.Info().Int("port", port).Str("docs", docsDir).Msg("serving documentation")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("could not listen on port %d: %w", port, err)
			}

			<-done
			log.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project root directory")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default DOOP_PORT or 8080)")
	cmd.Flags().BoolVar(&noBuild, "no-build", false, "Serve the existing output directory without rebuilding")

	return cmd
}
