package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/gptrack/internal/trackdat/fixture"
)

func newFixtureCmd(a *app) *cobra.Command {
	var sections int
	var out string
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Write a synthetic track file for testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sections < 1 {
				return fmt.Errorf("--sections must be at least 1, got %d", sections)
			}
			if err := fixture.WriteFile(a.fs, out, sections); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %d-section synthetic track to %s\n", sections, out)
			return nil
		},
	}
	cmd.Flags().IntVar(&sections, "sections", fixture.DefaultSectionCount, "number of track sections")
	cmd.Flags().StringVarP(&out, "out", "o", "synthetic.dat", "output path")
	return cmd
}
