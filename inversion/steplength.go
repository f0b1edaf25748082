package inversion

import (
	"errors"
	"fmt"

	"github.com/mwscatter/invert2d/cmat"
	"github.com/mwscatter/invert2d/grid"
	"github.com/mwscatter/invert2d/regularize"
	"github.com/mwscatter/invert2d/scatter"
)

// ErrInvalidStep reports that the quadratic model behind the closed-form
// step has a non-positive-definite Hessian, so no analytic minimizer
// exists. The iteration cannot safely use the analytic step.
var ErrInvalidStep = errors.New("inversion: quadratic step model is not positive definite")

// StepSums are the scalar reductions the closed-form step solve consumes.
// Writing the step α = a_r + i·a_i perturbs the real contrast channel by
// a_r·d_r − a_i·d_i and the imaginary channel by a_r·d_i + a_i·d_r, so the
// regularizer contributes weighted-gradient inner products between the
// direction channels and between direction and current contrast, per weight
// channel.
type StepSums struct {
	NormV float64    // Σ_l ‖v_l‖², forward sensitivity energy
	VRho  complex128 // Σ_l v_lᴴ·rho_l

	// real-channel weights b_r:
	DrDr, DrDi, DiDi float64 // ⟨∇d_r,∇d_r⟩, ⟨∇d_r,∇d_i⟩, ⟨∇d_i,∇d_i⟩
	CrDr, CrDi       float64 // ⟨∇c_r,∇d_r⟩, ⟨∇c_r,∇d_i⟩

	// imaginary-channel weights b_i:
	IDiDi, IDiDr, IDrDr float64
	CiDi, CiDr          float64
}

// buildStepSums assembles the reductions for the current iterate: the
// sensitivity field v = gs·LCᵗ·D·LC·ei contracted against itself and
// against the residual, plus the weighted spatial-gradient cross terms
// between direction and contrast.
func buildStepSums(op *scatter.Operator, st *scatter.State, gr grid.Grid,
	c, d []complex128, w *regularize.Weights) StepSums {

	v := op.Sensitivity(st, d)
	m, l := v.Dims()

	var s StepSums
	s.NormV = cmat.Frob2(v)
	for j := 0; j < l; j++ {
		for i := 0; i < m; i++ {
			vv := v.At(i, j)
			s.VRho += complex(real(vv), -imag(vv)) * st.Rho.At(i, j)
		}
	}

	cr, ci := gr.SplitParts(c)
	dr, di := gr.SplitParts(d)

	s.DrDr = regularize.GradDot(gr, w.Br, dr, dr)
	s.DrDi = regularize.GradDot(gr, w.Br, dr, di)
	s.DiDi = regularize.GradDot(gr, w.Br, di, di)
	s.CrDr = regularize.GradDot(gr, w.Br, cr, dr)
	s.CrDi = regularize.GradDot(gr, w.Br, cr, di)

	s.IDiDi = regularize.GradDot(gr, w.Bi, di, di)
	s.IDiDr = regularize.GradDot(gr, w.Bi, di, dr)
	s.IDrDr = regularize.GradDot(gr, w.Bi, dr, dr)
	s.CiDi = regularize.GradDot(gr, w.Bi, ci, di)
	s.CiDr = regularize.GradDot(gr, w.Bi, ci, dr)

	return s
}

// SolveStep returns the complex step minimizing the local quadratic model
// of the regularized cost along the direction: first-order linearization of
// the forward model plus the half-quadratic penalty with frozen weights.
// Stationarity in (a_r, a_i) is a symmetric 2×2 system solved by Cramer's
// rule: two real numerators over the shared determinant denAlpha, which
// must be strictly positive. kr and ki are λ²/δ² per channel.
func SolveStep(s StepSums, kr, ki float64) (complex128, error) {
	h11 := s.NormV + kr*s.DrDr + ki*s.IDiDi
	h22 := s.NormV + kr*s.DiDi + ki*s.IDrDr
	h12 := -kr*s.DrDi + ki*s.IDiDr

	rhsR := real(s.VRho) - kr*s.CrDr - ki*s.CiDi
	rhsI := imag(s.VRho) + kr*s.CrDi - ki*s.CiDr

	denAlpha := h11*h22 - h12*h12
	if h11 <= 0 || denAlpha <= 0 {
		return 0, fmt.Errorf("%w: h11=%g den=%g", ErrInvalidStep, h11, denAlpha)
	}

	numAlphaR := rhsR*h22 - rhsI*h12
	numAlphaI := h11*rhsI - h12*rhsR
	return complex(numAlphaR/denAlpha, numAlphaI/denAlpha), nil
}

// modelCost evaluates the quadratic model SolveStep minimizes, relative to
// the cost at α = 0. Shared by the unit tests and the line-search fallback
// bracket checks.
func modelCost(s StepSums, kr, ki, ar, ai float64) float64 {
	data := -2*(ar*real(s.VRho)+ai*imag(s.VRho)) + (ar*ar+ai*ai)*s.NormV

	// real channel perturbed by ar·dr − ai·di
	regR := kr * (2*(ar*s.CrDr-ai*s.CrDi) +
		ar*ar*s.DrDr - 2*ar*ai*s.DrDi + ai*ai*s.DiDi)
	// imaginary channel perturbed by ar·di + ai·dr
	regI := ki * (2*(ar*s.CiDi+ai*s.CiDr) +
		ar*ar*s.IDiDi + 2*ar*ai*s.IDiDr + ai*ai*s.IDrDr)

	return data + regR + regI
}
