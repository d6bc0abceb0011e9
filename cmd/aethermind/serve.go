package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aethermind/aethermind/internal/api"
	"github.com/aethermind/aethermind/internal/config"
	"github.com/aethermind/aethermind/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the deck API and WebSocket events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}

		return withApp(ctx, func(a *app) error {
			server := api.NewServer(&api.Config{
				Port:           cfg.Server.Port,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				RequestTimeout: config.Duration(cfg.DeckBuilder.BuildTimeout) + 30*time.Second,
			}, a.decks, a.scryfall, logger)
			a.decks.SetPublisher(server.Publisher())

			if err := server.Start(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API server running at http://localhost:%d\n", server.Port())
			fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

			go func() {
				err := config.Watch(ctx, configPath, logger, func(next *config.Config) {
					level, err := logging.ParseLevel(next.Log.Level)
					if err != nil {
						return
					}
					if level != logLevel.Level() {
						logLevel.SetLevel(level)
						logger.Info("Log level changed", zap.String("level", level.String()))
					}
				})
				if err != nil {
					logger.Warn("Config watch stopped", zap.Error(err))
				}
			}()

			<-ctx.Done()
			fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")

			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Error during shutdown", zap.Error(err))
			}
			return nil
		})
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides config)")
}
