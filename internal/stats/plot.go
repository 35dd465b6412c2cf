package stats

import (
	"fmt"
	"os"
	"strings"

	"spinstack/internal/model"
)

// PlotPoint is one (x, y) sample of a series handed to an external
// plotting consumer.
type PlotPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BuildDeltaPlot maps the sweep series onto
// (depth_fraction, normalized_delta) plot points, in sweep order.
func BuildDeltaPlot(results []model.RunResult) []PlotPoint {
	points := make([]PlotPoint, 0, len(results))
	for _, result := range results {
		points = append(points, PlotPoint{X: result.DepthFraction, Y: result.NormalizedDelta})
	}
	return points
}

// BuildDOSPlot pairs left bin edges with log densities.
func BuildDOSPlot(binEdges, logDensity []float64) ([]PlotPoint, error) {
	if len(binEdges) != len(logDensity) {
		return nil, fmt.Errorf("bin edges and log density lengths differ: %d vs %d", len(binEdges), len(logDensity))
	}
	points := make([]PlotPoint, 0, len(binEdges))
	for i := range binEdges {
		points = append(points, PlotPoint{X: binEdges[i], Y: logDensity[i]})
	}
	return points, nil
}

// WritePlotFile writes a titled whitespace-separated point series, the
// numeric feed consumed by external plotting tools.
func WritePlotFile(path, title string, points []PlotPoint) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", title)
	for _, point := range points {
		fmt.Fprintf(&b, "%g %g\n", point.X, point.Y)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
