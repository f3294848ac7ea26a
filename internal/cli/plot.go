package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/gptrack/internal/fsutil"
	"github.com/banshee-data/gptrack/internal/trackplot"
)

func newPlotCmd(a *app) *cobra.Command {
	var out, elevation string
	cmd := &cobra.Command{
		Use:   "plot FILE",
		Short: "Render the track layout (PNG) and elevation profile (HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, _, err := a.decodeFile(args[0])
			if err != nil {
				return err
			}
			if out == "" && elevation == "" {
				out = fsutil.SafeName(def.Name) + "_layout.png"
			}

			if out != "" {
				if !fsutil.HasExt(out, ".png") {
					return fmt.Errorf("layout output must be a .png file, got %q", out)
				}
				var buf bytes.Buffer
				if err := trackplot.WriteLayoutPNG(def, &buf); err != nil {
					return err
				}
				if err := fsutil.WriteOutput(a.fs, out, buf.Bytes()); err != nil {
					return err
				}
				a.logger.Info("wrote layout", zap.String("path", out), zap.Int("bytes", buf.Len()))
				fmt.Fprintf(a.out, "layout: %s\n", out)
			}

			if elevation != "" {
				var buf bytes.Buffer
				if err := trackplot.WriteElevationHTML(def, a.cfg.GetUnits(), &buf); err != nil {
					return err
				}
				if err := fsutil.WriteOutput(a.fs, elevation, buf.Bytes()); err != nil {
					return err
				}
				a.logger.Info("wrote elevation profile", zap.String("path", elevation))
				fmt.Fprintf(a.out, "elevation: %s\n", elevation)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "layout PNG path (default <name>_layout.png)")
	cmd.Flags().StringVar(&elevation, "elevation", "", "elevation profile HTML path")
	return cmd
}
