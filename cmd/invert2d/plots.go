package main

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mwscatter/invert2d/grid"
	"github.com/mwscatter/invert2d/inversion"
)

// cellGrid adapts a flat per-cell field to plotter.GridXYZ, with cell
// centres as coordinates.
type cellGrid struct {
	g grid.Grid
	z []float64
}

func (c cellGrid) Dims() (int, int)   { return c.g.J, c.g.I }
func (c cellGrid) Z(j, i int) float64 { return c.z[c.g.Index(i, j)] }
func (c cellGrid) X(j int) float64    { return (float64(j) + 0.5) * c.g.Dx }
func (c cellGrid) Y(i int) float64    { return (float64(i) + 0.5) * c.g.Dy }

func saveHeatMap(path, title string, g grid.Grid, z []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	hm := plotter.NewHeatMap(cellGrid{g: g, z: z}, moreland.SmoothBlueRed().Palette(255))
	p.Add(hm)

	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func saveConvergence(path string, log []inversion.Record) error {
	p := plot.New()
	p.Title.Text = "Convergence"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "log10 cost / log10 gradient norm"
	p.Add(plotter.NewGrid())

	cost := make(plotter.XYs, 0, len(log))
	gnorm := make(plotter.XYs, 0, len(log))
	for k, r := range log {
		if r.Cost > 0 {
			cost = append(cost, plotter.XY{X: float64(k), Y: math.Log10(r.Cost)})
		}
		if r.GradNorm > 0 {
			gnorm = append(gnorm, plotter.XY{X: float64(k), Y: math.Log10(r.GradNorm)})
		}
	}

	costLine, err := plotter.NewLine(cost)
	if err != nil {
		return err
	}
	gradLine, err := plotter.NewLine(gnorm)
	if err != nil {
		return err
	}
	gradLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(costLine, gradLine)
	p.Legend.Add("cost", costLine)
	p.Legend.Add("gradient norm", gradLine)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
