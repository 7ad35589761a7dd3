package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/scout/internal/config"
	"github.com/example/scout/internal/db"
	"github.com/example/scout/internal/wire"
)

// RoutesCmd returns the routes command.
func RoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List discovered routes sorted by location name",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyDBPath()

			listings, err := wire.ReportService().ListRoutes(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list routes: %w", err)
			}

			if len(listings) == 0 {
				fmt.Println("No routes recorded")
				return nil
			}

			occupied := color.New(color.FgRed)
			defended := color.New(color.FgYellow)

			fmt.Printf("\n%-8s %-30s %-6s %s\n", "CODE", "NAME", "SEEN", "STATUS")
			fmt.Println("────────────────────────────────────────────────────────────")
			for _, l := range listings {
				fmt.Printf("%-8s %-30s %-6d ", l.Code, l.Name, l.Count)
				if l.Occupied {
					occupied.Print("occupied ")
				}
				if l.Defended {
					defended.Print("defended")
				}
				fmt.Println()
			}
			fmt.Println()

			return nil
		},
	}
}

// applyDBPath points the connection at the configured database before
// first use. Config errors fall back to the default path.
func applyDBPath() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil || cfg.DBPath == "" {
		return
	}
	db.SetPath(cfg.DBPath)
}
