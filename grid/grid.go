// Package grid describes the discretized rectangular investigation domain
// and the background medium it is embedded in.
package grid

import "fmt"

// Grid is an I×J mesh of cells with spacings Dx, Dy. The N = I·J unknowns
// are stored row-major: cell (i,j) maps to flat index i·J + j.
type Grid struct {
	I, J   int
	Dx, Dy float64
}

// New validates the mesh parameters and returns the grid.
func New(i, j int, dx, dy float64) (Grid, error) {
	if i < 1 || j < 1 {
		return Grid{}, fmt.Errorf("grid: dimensions %dx%d must be positive", i, j)
	}
	if dx <= 0 || dy <= 0 {
		return Grid{}, fmt.Errorf("grid: cell sizes dx=%g dy=%g must be positive", dx, dy)
	}
	return Grid{I: i, J: j, Dx: dx, Dy: dy}, nil
}

// N returns the number of cells.
func (g Grid) N() int { return g.I * g.J }

// Area returns the cell area element dS = dx·dy.
func (g Grid) Area() float64 { return g.Dx * g.Dy }

// Index maps cell (i,j) to its flat index.
func (g Grid) Index(i, j int) int { return i*g.J + j }

// SplitParts separates a flat complex field into its real and imaginary
// channels, each a flat I×J field.
func (g Grid) SplitParts(c []complex128) (re, im []float64) {
	if len(c) != g.N() {
		panic(fmt.Sprintf("grid: field length %d does not match %d cells", len(c), g.N()))
	}
	re = make([]float64, len(c))
	im = make([]float64, len(c))
	for k, v := range c {
		re[k] = real(v)
		im[k] = imag(v)
	}
	return re, im
}
