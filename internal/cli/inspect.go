package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/trackdat/geometry"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Summarise track files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				def, raw, err := a.decodeFile(path)
				if err != nil {
					return err
				}
				a.renderSummary(path, def, len(raw))
			}
			return nil
		},
	}
}

func newTable(a *app, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleRounded)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func (a *app) renderSummary(path string, def *trackdat.TrackDefinition, size int) {
	wide := lo.CountBy(def.RacingLine.Segments, func(s trackdat.RacingLineSegment) bool {
		return s.Kind == trackdat.SegmentWideRadius
	})
	commandIDs := lo.Uniq(lo.FlatMap(def.Sections, func(s trackdat.TrackSection, _ int) []uint8 {
		return lo.Map(s.Commands, func(c trackdat.TrackSectionCommand, _ int) uint8 { return c.ID })
	}))
	lower, upper := geometry.Bounds(def.Geometry)

	t := newTable(a, def.Name)
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRows([]table.Row{
		{"File", path},
		{"Size", fmt.Sprintf("%d bytes", size)},
		{"Center", fmt.Sprintf("(%d, %d, %d)", def.Center.X, def.Center.Y, def.Center.Z)},
		{"Sections", len(def.Sections)},
		{"Pit lane sections", len(def.PitLane)},
		{"Length", a.length(def.TotalLengthMeters())},
		{"Command IDs", formatIDs(commandIDs)},
		{"Racing line", fmt.Sprintf("%d segments (%d wide), displacement %d", len(def.RacingLine.Segments), wide, def.RacingLine.Displacement)},
		{"Extent X", a.length(float64(upper[0] - lower[0]))},
		{"Extent Z", a.length(float64(upper[2] - lower[2]))},
		{"Closure gap", a.length(float64(geometry.ClosureGap(def.CenterVec(), def.Geometry)))},
		{"Checksum", checksumStatus(def.Checksum)},
	})
	t.Render()

	r := newTable(a, "Regions")
	r.AppendHeader(table.Row{"#", "Region", "Offset", "Length"})
	r.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, reg := range def.Regions {
		r.AppendRow(table.Row{int(reg.ID), reg.Name, fmt.Sprintf("0x%05X", reg.Offset), reg.Length})
	}
	r.Render()
}

func formatIDs(ids []uint8) string {
	if len(ids) == 0 {
		return "-"
	}
	return fmt.Sprintf("% X", ids)
}

func checksumStatus(r trackdat.ChecksumReport) string {
	switch {
	case !r.Checked:
		return fmt.Sprintf("stored 0x%08X (not verified)", r.Stored)
	case r.Verified():
		return fmt.Sprintf("%s ok (0x%08X)", r.Algorithm, r.Stored)
	default:
		return fmt.Sprintf("%s MISMATCH: stored 0x%08X, computed 0x%08X", r.Algorithm, r.Stored, r.Computed)
	}
}
