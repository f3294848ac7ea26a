package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/banshee-data/gptrack/internal/trackdat"
)

func newRacingLineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "racing-line FILE",
		Aliases: []string{"racingline"},
		Short:   "List the computer cars' racing line segments",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, _, err := a.decodeFile(args[0])
			if err != nil {
				return err
			}
			a.renderRacingLine(def.Name, def.RacingLine)
			return nil
		},
	}
}

func (a *app) renderRacingLine(name string, line trackdat.RacingLine) {
	t := newTable(a, fmt.Sprintf("%s racing line (displacement %d)", name, line.Displacement))
	t.AppendHeader(table.Row{"#", "Kind", "Length", "Type", "Correction", "Radius"})
	for i, s := range line.Segments {
		radius := fmt.Sprint(s.Radius)
		if s.Kind == trackdat.SegmentWideRadius {
			radius = fmt.Sprintf("%d / %d", s.HighRadius, s.LowRadius)
		}
		t.AppendRow(table.Row{i, s.Kind.String(), s.Length, fmt.Sprintf("0x%02X", s.Type), s.Correction, radius})
	}
	t.Render()
}
