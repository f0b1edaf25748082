package inversion

import (
	"fmt"

	"github.com/mwscatter/invert2d/cmat"
	"github.com/mwscatter/invert2d/grid"
	"github.com/mwscatter/invert2d/scatter"
)

// InitStrategy selects the starting contrast, pseudo-gradient and direction
// of a run. The three analytic strategies are mutually exclusive; a
// warm-start reload is an external concern and not provided here.
type InitStrategy interface {
	// initialize returns the starting contrast c, pseudo-gradient g and
	// direction d. zeroGradLog marks strategies whose first logged
	// gradient norm is recorded as zero because no true gradient exists
	// yet.
	initialize(g grid.Grid, bg grid.Background, ds *scatter.DataSet) (c, g0, d0 []complex128, zeroGradLog bool, err error)
}

// onesFlag is the pseudo-gradient marking "no gradient computed yet". Its
// only role is to make the first conjugate-direction denominator nonzero;
// the first direction is pure steepest descent regardless since d starts
// at zero.
func onesFlag(n int) []complex128 {
	g := make([]complex128, n)
	for k := range g {
		g[k] = 1
	}
	return g
}

// BackgroundStart begins from zero contrast: the domain is assumed to be
// pure background.
type BackgroundStart struct{}

func (BackgroundStart) initialize(g grid.Grid, _ grid.Background, _ *scatter.DataSet) ([]complex128, []complex128, []complex128, bool, error) {
	n := g.N()
	return make([]complex128, n), onesFlag(n), make([]complex128, n), false, nil
}

// BackpropagationStart back-propagates the measured field into the domain
// with the gain that best explains the data through gs alone, then reads an
// initial contrast off the ratio of back-propagated to incident field,
// averaged over sources. This is the default start for real inversions.
type BackpropagationStart struct{}

func (BackpropagationStart) initialize(g grid.Grid, _ grid.Background, ds *scatter.DataSet) ([]complex128, []complex128, []complex128, bool, error) {
	n := g.N()
	_, _, l := ds.Dims()

	gsh := cmat.ConjTranspose(ds.Gs)
	w := cmat.Mul(gsh, ds.Es) // N×L
	gw := cmat.Mul(ds.Gs, w)  // M×L

	den := cmat.Frob2(gw)
	if den == 0 {
		return nil, nil, nil, false, fmt.Errorf("inversion: backpropagation start: measured field is in the null space of gs·gsᴴ")
	}
	gamma := complex(cmat.Frob2(w)/den, 0)

	c := make([]complex128, n)
	for k := 0; k < n; k++ {
		var acc complex128
		for j := 0; j < l; j++ {
			acc += gamma * w.At(k, j) / ds.Ei.At(k, j)
		}
		c[k] = acc / complex(float64(l), 0)
	}
	return c, onesFlag(n), make([]complex128, n), true, nil
}

// ExactStart seeds the run with the known ground-truth permittivity and
// conductivity grids. It exists for algorithm verification only; a real
// inversion has no access to the truth.
type ExactStart struct {
	EpsR  []float64 // flat I×J relative permittivity
	Sigma []float64 // flat I×J conductivity
}

func (s ExactStart) initialize(g grid.Grid, bg grid.Background, _ *scatter.DataSet) ([]complex128, []complex128, []complex128, bool, error) {
	n := g.N()
	if len(s.EpsR) != n || len(s.Sigma) != n {
		return nil, nil, nil, false, fmt.Errorf("inversion: exact start: truth grids have %d/%d cells, domain has %d",
			len(s.EpsR), len(s.Sigma), n)
	}
	c := make([]complex128, n)
	for k := 0; k < n; k++ {
		c[k] = bg.Contrast(s.EpsR[k], s.Sigma[k])
	}
	return c, onesFlag(n), make([]complex128, n), false, nil
}
