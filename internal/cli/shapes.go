package cli

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/banshee-data/gptrack/internal/fsutil"
	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/trackdat/shapes"
)

func newShapesCmd(a *app) *cobra.Command {
	var offset, length int
	cmd := &cobra.Command{
		Use:   "shapes FILE",
		Short: "Decode graphical elements from the object shapes region or a byte range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := fsutil.ReadFileLimit(a.fs, args[0], maxTrackFileSize)
			if err != nil {
				return err
			}
			data, err := shapeBytes(raw, cmd.Flags().Changed("offset"), offset, length)
			if err != nil {
				return err
			}

			elems, err := shapes.ParseElements(data)
			a.renderShapes(elems)
			if err != nil {
				return fmt.Errorf("stopped after %d elements: %w", len(elems), err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "start offset of the element list (default: object shapes region)")
	cmd.Flags().IntVar(&length, "length", 0, "number of bytes to decode (default: to end of region or file)")
	return cmd
}

// shapeBytes selects the bytes to decode: the object shapes region unless
// an explicit offset was given.
func shapeBytes(raw []byte, explicit bool, offset, length int) ([]byte, error) {
	data := raw
	if !explicit {
		region, err := trackdat.RawRegion(raw, trackdat.RegionObjectShapes)
		if err != nil {
			return nil, err
		}
		data, offset = region, 0
	}
	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("offset %d outside %d bytes: %w", offset, len(data), trackdat.ErrOffsetOutOfRange)
	}
	data = data[offset:]
	if length > 0 {
		if length > len(data) {
			return nil, fmt.Errorf("length %d exceeds %d available bytes: %w", length, len(data), trackdat.ErrOffsetOutOfRange)
		}
		data = data[:length]
	}
	if len(data) == 0 {
		return nil, errors.New("no object shape bytes to decode")
	}
	return data, nil
}

func (a *app) renderShapes(elems []shapes.Element) {
	t := newTable(a, "Graphical elements")
	t.AppendHeader(table.Row{"#", "Kind", "Flag", "Detail"})
	for i, e := range elems {
		var detail string
		switch e.Kind {
		case shapes.KindLine:
			detail = fmt.Sprintf("vector %d", e.VectorRef)
		case shapes.KindBitmap:
			detail = fmt.Sprintf("bitmap %d at point %d", e.BitmapIndex, e.PointRef)
		case shapes.KindExtendedBitmap:
			detail = fmt.Sprintf("bitmap %d at point %d, extra % X", e.BitmapIndex, e.PointRef, e.Extra[:])
		default:
			detail = fmt.Sprintf("colour %d, sides %v", e.Colour(), e.Sides)
		}
		t.AppendRow(table.Row{i, e.Kind.String(), fmt.Sprintf("0x%02X", e.Flag), detail})
	}
	t.Render()
}
