package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/ironsheep/colony-counter/internal/colony"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	histFill = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	bandLine = color.RGBA{R: 200, G: 40, B: 40, A: 255}
)

// AreaHistogram plots the area distribution of the low-eccentricity
// candidates of table. When results carry a size band, its bounds are drawn as
// dashed vertical lines.
//
// Returns colony.ErrEmptyCandidateSet when there are no candidates to plot.
func AreaHistogram(table colony.DescriptorTable, eccThreshold float64, results []colony.Result) (*plot.Plot, error) {
	split := colony.SplitByEccentricity(table, eccThreshold)
	if len(split.Low) == 0 {
		return nil, fmt.Errorf("no low-eccentricity regions to plot: %w", colony.ErrEmptyCandidateSet)
	}

	values := make(plotter.Values, len(split.Low))
	for i, p := range split.Low {
		values[i] = float64(table[p].Area)
	}

	bins := max(5, min(50, int(math.Ceil(math.Sqrt(float64(len(values)))))))
	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return nil, fmt.Errorf("failed to build histogram: %w", err)
	}
	hist.FillColor = histFill

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Low-ecc. region areas (eccentricity < %g)", eccThreshold)
	p.X.Label.Text = "Area (px)"
	p.Y.Label.Text = "Regions"
	p.Add(hist)

	peak := 0.0
	for _, b := range hist.Bins {
		peak = math.Max(peak, b.Weight)
	}

	if band := findBand(results); band != nil {
		var line *plotter.Line
		for _, x := range []float64{band.Lower, band.Upper} {
			line, err = plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: peak}})
			if err != nil {
				return nil, fmt.Errorf("failed to build band line: %w", err)
			}
			line.Color = bandLine
			line.Width = vg.Points(1.5)
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(line)
		}
		p.Legend.Add(fmt.Sprintf("band [%.1f, %.1f]", band.Lower, band.Upper), line)
		p.Legend.Top = true
	}
	return p, nil
}

func findBand(results []colony.Result) *colony.Band {
	for _, r := range results {
		if r.Band != nil {
			return r.Band
		}
	}
	return nil
}

// PlotAreaHistogram renders AreaHistogram to path. The image format follows
// the file extension.
func PlotAreaHistogram(path string, table colony.DescriptorTable, eccThreshold float64, results []colony.Result) error {
	p, err := AreaHistogram(table, eccThreshold, results)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram: %w", err)
	}
	return nil
}
