package cli

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"

	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/trackdat/geometry"
)

// geometryDump is the JSON document written by the geometry command.
type geometryDump struct {
	Name         string                    `json:"name"`
	Center       trackdat.Center           `json:"center"`
	LengthMeters float64                   `json:"length_m"`
	ClosureGap   float32                   `json:"closure_gap_m"`
	BoundsMin    mgl32.Vec3                `json:"bounds_min"`
	BoundsMax    mgl32.Vec3                `json:"bounds_max"`
	Points       geometry.TrackGeometry    `json:"points"`
	Definition   *trackdat.TrackDefinition `json:"definition,omitempty"`
}

func newGeometryCmd(a *app) *cobra.Command {
	var full, compact bool
	cmd := &cobra.Command{
		Use:   "geometry FILE",
		Short: "Print the reconstructed centerline as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, _, err := a.decodeFile(args[0])
			if err != nil {
				return err
			}
			lower, upper := geometry.Bounds(def.Geometry)
			dump := geometryDump{
				Name:         def.Name,
				Center:       def.Center,
				LengthMeters: def.TotalLengthMeters(),
				ClosureGap:   geometry.ClosureGap(def.CenterVec(), def.Geometry),
				BoundsMin:    lower,
				BoundsMax:    upper,
				Points:       def.Geometry,
			}
			if full {
				dump.Definition = def
			}

			enc := json.NewEncoder(a.out)
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(dump)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "include the whole decoded definition")
	cmd.Flags().BoolVar(&compact, "compact", false, "write JSON without indentation")
	return cmd
}
