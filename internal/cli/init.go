package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/scout/internal/config"
)

// InitCmd returns the init command.
func InitCmd() *cobra.Command {
	var gatewayURL string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a .scout/config.json skeleton in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg := &config.Config{
				GatewayURL:     gatewayURL,
				TrustedOrigins: config.DefaultTrustedOrigins,
			}
			if err := config.SaveConfig(cwd, cfg); err != nil {
				return err
			}

			fmt.Println("✓ Wrote .scout/config.json")
			fmt.Println("Set SCOUT_TOKEN in the environment before running serve.")
			return nil
		},
	}

	cmd.Flags().StringVar(&gatewayURL, "gateway-url", "ws://localhost:8080/v1/ws", "chat gateway websocket URL")
	return cmd
}
