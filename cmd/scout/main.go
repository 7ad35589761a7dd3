package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/scout/internal/cli"
	"github.com/example/scout/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "scout",
		Short:   "scout - ChatWars route and quest tracker",
		Version: version.String(),
		Long: `scout classifies forwarded ChatWars status messages and keeps
durable aggregates: discovered map routes by secret code, and
per-player counts of where quest flavor texts were encountered.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.RoutesCmd())
	rootCmd.AddCommand(cli.DumpCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
