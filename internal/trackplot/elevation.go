package trackplot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/gptrack/internal/trackdat"
	"github.com/banshee-data/gptrack/internal/units"
)

// AssetsHost serves the echarts javascript for rendered pages.
var AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Profile is the elevation of each section end against distance travelled.
type Profile struct {
	Distance  []float64 // metres from the start line
	Elevation []float64 // metres relative to the track center
	Curvature []int16
}

// ElevationProfile extracts the profile from a decoded definition.
func ElevationProfile(def *trackdat.TrackDefinition) Profile {
	prof := Profile{
		Distance:  make([]float64, len(def.Geometry)),
		Elevation: make([]float64, len(def.Geometry)),
		Curvature: make([]int16, len(def.Geometry)),
	}
	base := float64(def.CenterVec()[1])
	var dist float64
	for i, p := range def.Geometry {
		if i < len(def.Sections) {
			dist += float64(def.Sections[i].LengthMeters())
			prof.Curvature[i] = def.Sections[i].Curvature
		}
		prof.Distance[i] = dist
		prof.Elevation[i] = float64(p.Position[1]) - base
	}
	return prof
}

// WriteElevationHTML renders the elevation and curvature charts as a
// self-contained page. Distances are shown in unit (see internal/units).
func WriteElevationHTML(def *trackdat.TrackDefinition, unit string, w io.Writer) error {
	if !units.IsValid(unit) {
		return fmt.Errorf("invalid units %q, must be one of: %s", unit, units.GetValidUnitsString())
	}
	prof := ElevationProfile(def)

	x := make([]string, len(prof.Distance))
	elevation := make([]opts.LineData, len(prof.Distance))
	curvature := make([]opts.BarData, len(prof.Distance))
	for i := range prof.Distance {
		x[i] = fmt.Sprintf("%.2f", units.ConvertLength(prof.Distance[i], unit))
		elevation[i] = opts.LineData{Value: prof.Elevation[i]}
		curvature[i] = opts.BarData{Value: prof.Curvature[i]}
	}

	title := def.Name
	if title == "" {
		title = "Track"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title + " elevation", Width: "100%", Height: "480px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title + " elevation", Subtitle: fmt.Sprintf("sections=%d", len(prof.Distance))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (" + unit + ")", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Elevation (m)", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(x).AddSeries("elevation", elevation,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "320px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Curvature (raw)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("curvature", curvature)

	page := components.NewPage()
	page.SetAssetsHost(AssetsHost)
	page.PageTitle = title
	page.AddCharts(line, bar)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}
