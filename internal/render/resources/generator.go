// Package resources writes the per-city images placed on scorecards: the
// access indicator chart and, when a basemap source is configured, a basemap.
package resources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// Resource file names within a city's resource directory.
const (
	AccessChartFile = "access.png"
	BasemapFile     = "basemap.png"
)

// Basemap dimensions in pixels.
const (
	BasemapWidth  = 600
	BasemapHeight = 400
)

// BasemapFetcher returns a PNG basemap centred on a location.
type BasemapFetcher interface {
	Basemap(ctx context.Context, lon, lat, zoom float64, width, height int) ([]byte, error)
}

// Generator writes city resources under a root directory.
type Generator struct {
	dir      string
	basemaps BasemapFetcher
	logger   *slog.Logger
}

// NewGenerator creates a Generator. basemaps may be nil, in which case no
// basemap is produced.
func NewGenerator(dir string, basemaps BasemapFetcher, logger *slog.Logger) *Generator {
	return &Generator{dir: dir, basemaps: basemaps, logger: logger}
}

// CityDir returns the resource directory of a city.
func (g *Generator) CityDir(city string) string {
	return filepath.Join(g.dir, city)
}

// GenerateResources writes the city's resources and returns their paths.
func (g *Generator) GenerateResources(ctx context.Context, cc domain.CityContext) ([]string, error) {
	dir := g.CityDir(cc.City)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create resource dir: %w", err)
	}

	var paths []string

	chartPath := filepath.Join(dir, AccessChartFile)
	if err := writeAccessChart(chartPath, cc); err != nil {
		return nil, fmt.Errorf("access chart: %w", err)
	}
	paths = append(paths, chartPath)

	if g.basemaps != nil && cc.Info.HasCoordinates() {
		zoom := cc.Info.Zoom
		if zoom == 0 {
			zoom = 10
		}
		img, err := g.basemaps.Basemap(ctx, cc.Info.Lon, cc.Info.Lat, zoom, BasemapWidth, BasemapHeight)
		if err != nil {
			return nil, fmt.Errorf("basemap: %w", err)
		}
		mapPath := filepath.Join(dir, BasemapFile)
		if err := os.WriteFile(mapPath, img, 0o644); err != nil {
			return nil, fmt.Errorf("write basemap: %w", err)
		}
		paths = append(paths, mapPath)
	}

	g.logger.Debug("resources generated", "city", cc.City, "count", len(paths))
	return paths, nil
}

// accessBars pairs each indicator value with the between-city median. City
// bars are coloured on the batlow map by their percentage.
func accessBars(cc domain.CityContext) []chart.Value {
	median := chart.Style{FillColor: drawing.ColorFromHex("b0b0b0"), StrokeColor: drawing.ColorFromHex("b0b0b0")}
	bars := make([]chart.Value, 0, 2*len(cc.IndicatorNames))
	for _, name := range cc.IndicatorNames {
		v := orZero(cc.Indicators[name])
		c := Batlow(v / 100)
		bars = append(bars,
			chart.Value{Label: name, Value: v, Style: chart.Style{FillColor: c, StrokeColor: c}},
			chart.Value{Label: "median", Value: orZero(cc.Comparisons.P50[name]), Style: median},
		)
	}
	return bars
}

func writeAccessChart(path string, cc domain.CityContext) error {
	bc := chart.BarChart{
		Title:      cc.City,
		Width:      1400,
		Height:     600,
		BarWidth:   40,
		BarSpacing: 60,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: accessBars(cc),
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
