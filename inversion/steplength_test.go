package inversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mwscatter/invert2d/grid"
	"github.com/mwscatter/invert2d/regularize"
	"github.com/mwscatter/invert2d/scatter"
)

func TestSolveStepIsStationaryPoint(t *testing.T) {
	s := StepSums{
		NormV: 2.5,
		VRho:  1.2 - 0.7i,
		DrDr:  0.8, DrDi: 0.1, DiDi: 0.6,
		CrDr: -0.3, CrDi: 0.2,
		IDiDi: 0.5, IDiDr: -0.15, IDrDr: 0.9,
		CiDi: 0.1, CiDr: -0.25,
	}
	kr, ki := 0.4, 0.7

	alpha, err := SolveStep(s, kr, ki)
	require.NoError(t, err)

	ar, ai := real(alpha), imag(alpha)
	j0 := modelCost(s, kr, ki, ar, ai)

	// The analytic step must improve on standing still and sit at a
	// stationary point of the model.
	assert.Less(t, j0, modelCost(s, kr, ki, 0, 0))

	h := 1e-6
	dr := (modelCost(s, kr, ki, ar+h, ai) - modelCost(s, kr, ki, ar-h, ai)) / (2 * h)
	di := (modelCost(s, kr, ki, ar, ai+h) - modelCost(s, kr, ki, ar, ai-h)) / (2 * h)
	assert.InDelta(t, 0, dr, 1e-8)
	assert.InDelta(t, 0, di, 1e-8)

	// No point of a surrounding grid beats the analytic minimizer.
	for i := -20; i <= 20; i++ {
		for j := -20; j <= 20; j++ {
			pr := ar + float64(i)*0.05
			pi := ai + float64(j)*0.05
			assert.GreaterOrEqual(t, modelCost(s, kr, ki, pr, pi), j0-1e-12)
		}
	}
}

func TestSolveStepSingleCellMatchesBruteForce(t *testing.T) {
	// One-cell domain: the sums come from a real forward evaluation and
	// the closed form must coincide with a nested-grid minimization of
	// the same quadratic model.
	g, err := grid.New(1, 1, 0.01, 0.01)
	require.NoError(t, err)

	ds := &scatter.DataSet{
		Es: mat.NewCDense(1, 1, []complex128{0.8 - 0.3i}),
		Ei: mat.NewCDense(1, 1, []complex128{1 + 0.5i}),
		Gd: mat.NewCDense(1, 1, []complex128{0.1 + 0.05i}),
		Gs: mat.NewCDense(1, 1, []complex128{0.6 - 0.2i}),
	}
	op, err := scatter.NewOperator(ds)
	require.NoError(t, err)

	c := []complex128{0.2 + 0.1i}
	d := []complex128{1 - 0.5i}
	st, err := op.Evaluate(c)
	require.NoError(t, err)

	kr, ki := 0.3, 0.3
	w := regularize.Compute(g, c, regularize.GemanMcClure{}, 0.1, 0.1)
	sums := buildStepSums(op, st, g, c, d, w)

	alpha, err := SolveStep(sums, kr, ki)
	require.NoError(t, err)

	// Three zooming grid passes around an expanding window.
	bestR, bestI := 0.0, 0.0
	span := 4.0
	for pass := 0; pass < 3; pass++ {
		cr, ci := bestR, bestI
		best := modelCost(sums, kr, ki, cr, ci)
		for i := -100; i <= 100; i++ {
			for j := -100; j <= 100; j++ {
				pr := cr + float64(i)*span/100
				pi := ci + float64(j)*span/100
				if v := modelCost(sums, kr, ki, pr, pi); v < best {
					best, bestR, bestI = v, pr, pi
				}
			}
		}
		span /= 50
	}

	assert.InDelta(t, bestR, real(alpha), 1e-3)
	assert.InDelta(t, bestI, imag(alpha), 1e-3)
}

func TestSolveStepRejectsDegenerateModel(t *testing.T) {
	// All energies zero: the Hessian vanishes and the model has no
	// minimizer.
	_, err := SolveStep(StepSums{}, 0.5, 0.5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStep)

	// Indefinite cross coupling: h12 dominates the diagonal.
	s := StepSums{NormV: 0.01, DrDi: -10, IDiDr: 10}
	_, err = SolveStep(s, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidStep)
}
