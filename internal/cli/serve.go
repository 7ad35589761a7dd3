package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/scout/internal/adapters/gateway"
	"github.com/example/scout/internal/config"
	"github.com/example/scout/internal/db"
	"github.com/example/scout/internal/wire"
)

// restartExitCode tells the process supervisor to start a fresh
// instance instead of treating the exit as a failure.
const restartExitCode = 3

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Connect to the chat gateway and track forwarded game messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			cfg, err := config.LoadConfig(cwd)
			if err != nil {
				return err
			}
			if cfg.GatewayURL == "" {
				return fmt.Errorf("no gateway URL configured (set SCOUT_GATEWAY_URL or .scout/config.json)")
			}
			if cfg.DBPath != "" {
				db.SetPath(cfg.DBPath)
			}

			zapCfg := zap.NewProductionConfig()
			if verbose || cfg.Verbose {
				zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zapCfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := gateway.NewClient(cfg, wire.TrackerService(), wire.ReportService(), logger)
			logger.Info("bot started")

			err = client.Run(ctx)
			db.Close()
			switch {
			case errors.Is(err, gateway.ErrRestartRequested):
				logger.Info("exiting for restart")
				logger.Sync()
				os.Exit(restartExitCode)
				return nil
			case errors.Is(err, context.Canceled):
				logger.Info("shutting down")
				return nil
			default:
				return err
			}
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}
