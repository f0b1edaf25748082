package inversion

import (
	"math"

	"github.com/mwscatter/invert2d/cmat"
	"github.com/mwscatter/invert2d/regularize"
	"github.com/mwscatter/invert2d/scatter"
)

// gradient returns g = −(∇J_data + ∇J_reg), one complex scalar per cell.
//
// The data term is the adjoint-state contraction of the residual: with
// P = gs·LCᵗ and u the total field, cell k receives
//
//	2 Σ_l conj(u_kl)·(Pᴴ·rho)_kl
//
// which is the Fréchet derivative of Σ|rho|² through the diagonal contrast,
// summed over sources. The regularization term adds the weighted Laplacians
// of the two channels scaled by 2λ²/δ².
func gradient(op *scatter.Operator, st *scatter.State, w *regularize.Weights, o Options) []complex128 {
	p := cmat.Mul(op.Data().Gs, cmat.Transpose(st.LC))
	wr := cmat.Mul(cmat.ConjTranspose(p), st.Rho) // N×L

	n, l := wr.Dims()
	g := make([]complex128, n)
	kr := o.LambdaR * o.LambdaR / (o.DeltaR * o.DeltaR)
	ki := o.LambdaI * o.LambdaI / (o.DeltaI * o.DeltaI)
	for k := 0; k < n; k++ {
		var acc complex128
		for j := 0; j < l; j++ {
			u := st.U.At(k, j)
			acc += wr.At(k, j) * complex(real(u), -imag(u))
		}
		g[k] = 2*acc + complex(2*kr*w.WLr[k], 2*ki*w.WLi[k])
	}
	return g
}

// gradNorm is the Euclidean norm of a complex field over all cells.
func gradNorm(g []complex128) float64 {
	var sum float64
	for _, v := range g {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}
