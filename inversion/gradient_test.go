package inversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwscatter/invert2d/grid"
	"github.com/mwscatter/invert2d/regularize"
)

// TestGradientMatchesFiniteDifference checks the adjoint-state gradient
// against central differences of the full regularized cost: with
// g = −2·∂J/∂c̄, the partials are ∂J/∂Re(c_k) = −Re(g_k) and
// ∂J/∂Im(c_k) = −Im(g_k).
func TestGradientMatchesFiniteDifference(t *testing.T) {
	cstar := []complex128{0.30 + 0.10i, -0.20 + 0.05i, 0.10 - 0.10i, 0.25 + 0.00i}
	g, ds := synthesize(t, cstar, 2)

	o := Options{
		MaxIter: 1,
		LambdaR: 5e-2, LambdaI: 3e-2,
		DeltaR: 0.2, DeltaI: 0.15,
		Potential: regularize.GemanMcClure{},
	}
	bg := grid.Background{EpsR: 1, Freq: 1e9}
	s, err := New(g, bg, ds, o)
	require.NoError(t, err)

	c := []complex128{0.1 + 0.05i, -0.05 + 0.02i, 0.08 - 0.03i, 0.12 + 0.01i}
	st, err := s.op.Evaluate(c)
	require.NoError(t, err)

	w := regularize.Compute(g, c, o.Potential, o.DeltaR, o.DeltaI)
	grad := gradient(s.op, st, w, s.opts)

	costAt := func(cp []complex128) float64 {
		stp, err := s.op.Evaluate(cp)
		require.NoError(t, err)
		return s.cost(cp, stp)
	}

	h := 1e-6
	for k := range c {
		perturb := func(dre, dim float64) float64 {
			cp := append([]complex128(nil), c...)
			cp[k] += complex(dre, dim)
			return costAt(cp)
		}
		fdRe := (perturb(h, 0) - perturb(-h, 0)) / (2 * h)
		fdIm := (perturb(0, h) - perturb(0, -h)) / (2 * h)

		assert.InDelta(t, -real(grad[k]), fdRe, 1e-4, "Re channel, cell %d", k)
		assert.InDelta(t, -imag(grad[k]), fdIm, 1e-4, "Im channel, cell %d", k)
	}
}
