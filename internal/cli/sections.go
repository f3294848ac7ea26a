package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/banshee-data/gptrack/internal/trackdat"
)

func newSectionsCmd(a *app) *cobra.Command {
	var pit bool
	cmd := &cobra.Command{
		Use:   "sections FILE",
		Short: "List the track sections and their commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, _, err := a.decodeFile(args[0])
			if err != nil {
				return err
			}
			sections, title := def.Sections, def.Name+" sections"
			if pit {
				sections, title = def.PitLane, def.Name+" pit lane"
			}
			a.renderSections(title, sections)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pit, "pit", false, "list the pit lane instead of the main track")
	return cmd
}

func (a *app) renderSections(title string, sections []trackdat.TrackSection) {
	t := newTable(a, title)
	t.AppendHeader(table.Row{"#", "Length", "Curvature", "Height", "Flags", "Verge R/L", "Commands"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	var total float64
	for i, s := range sections {
		total += float64(s.LengthMeters())
		t.AppendRow(table.Row{
			i,
			a.length(float64(s.LengthMeters())),
			s.Curvature,
			s.HeightDelta,
			fmt.Sprintf("0x%04X", s.Flags),
			fmt.Sprintf("%d/%d", s.RightVergeWidth, s.LeftVergeWidth),
			formatCommands(s.Commands),
		})
	}
	t.AppendFooter(table.Row{len(sections), a.length(total)})
	t.Render()
}

func formatCommands(cmds []trackdat.TrackSectionCommand) string {
	return strings.Join(lo.Map(cmds, func(c trackdat.TrackSectionCommand, _ int) string {
		args := lo.Map(c.Args, func(v int16, _ int) string { return fmt.Sprint(v) })
		return fmt.Sprintf("0x%02X(%d; %s)", c.ID, c.Arg0, strings.Join(args, ","))
	}), " ")
}
