package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/scout/internal/wire"
)

// DumpCmd returns the dump command group.
func DumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump raw aggregate state as JSON for diagnostics",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "routes",
		Short: "Dump the route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyDBPath()
			out, err := wire.ReportService().DumpRoutes(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to dump routes: %w", err)
			}
			fmt.Println(out)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "flavors",
		Short: "Dump the per-player flavor table",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyDBPath()
			out, err := wire.ReportService().DumpFlavors(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to dump flavors: %w", err)
			}
			fmt.Println(out)
			return nil
		},
	})

	return cmd
}
