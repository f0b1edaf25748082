package regularize

import (
	"math"
	"sync"

	"github.com/mwscatter/invert2d/grid"
)

// Weights carries the per-cell half-quadratic weights and weighted
// Laplacians of the two contrast channels, refreshed once per iteration
// from the current contrast. Weights computed from a previous contrast must
// never be reused: the step-length and gradient linearizations both assume
// they belong to the contrast being expanded around.
type Weights struct {
	Br, Bi   []float64 // per-cell weights for the real / imaginary channel
	WLr, WLi []float64 // weighted Laplacian of each channel
}

// Compute evaluates the weights for the contrast c. The two channels are
// independent and are evaluated concurrently.
func Compute(g grid.Grid, c []complex128, phi Potential, deltaR, deltaI float64) *Weights {
	re, im := g.SplitParts(c)

	w := &Weights{}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.Br = channelWeights(g, re, phi, deltaR)
		w.WLr = weightedLaplacian(g, w.Br, re)
	}()
	go func() {
		defer wg.Done()
		w.Bi = channelWeights(g, im, phi, deltaI)
		w.WLi = weightedLaplacian(g, w.Bi, im)
	}()
	wg.Wait()
	return w
}

// channelWeights evaluates b = φ'(|∇x|/δ)/(2|∇x|/δ) per cell.
func channelWeights(g grid.Grid, x []float64, phi Potential, delta float64) []float64 {
	gx, gy := gradient(g, x)
	b := make([]float64, g.N())
	for k := range b {
		t := math.Hypot(gx[k], gy[k]) / delta
		b[k] = phi.Weight(t)
	}
	return b
}

// gradient computes forward differences with a zero-flux boundary: the
// one-sided difference at the last row/column is taken as zero.
func gradient(g grid.Grid, x []float64) (gx, gy []float64) {
	gx = make([]float64, g.N())
	gy = make([]float64, g.N())
	for i := 0; i < g.I; i++ {
		for j := 0; j < g.J; j++ {
			k := g.Index(i, j)
			if j < g.J-1 {
				gx[k] = (x[g.Index(i, j+1)] - x[k]) / g.Dx
			}
			if i < g.I-1 {
				gy[k] = (x[g.Index(i+1, j)] - x[k]) / g.Dy
			}
		}
	}
	return gx, gy
}

// weightedLaplacian computes div(b·∇x) with the same forward-difference
// fluxes the gradient uses, so penalty gradient and penalty value stay
// consistent.
func weightedLaplacian(g grid.Grid, b, x []float64) []float64 {
	wl := make([]float64, g.N())
	for i := 0; i < g.I; i++ {
		for j := 0; j < g.J; j++ {
			k := g.Index(i, j)

			var fxr, fxl float64 // fluxes across the right and left faces
			if j < g.J-1 {
				fxr = b[k] * (x[g.Index(i, j+1)] - x[k]) / g.Dx
			}
			if j > 0 {
				fxl = b[g.Index(i, j-1)] * (x[k] - x[g.Index(i, j-1)]) / g.Dx
			}

			var fyd, fyu float64 // fluxes across the lower and upper faces
			if i < g.I-1 {
				fyd = b[k] * (x[g.Index(i+1, j)] - x[k]) / g.Dy
			}
			if i > 0 {
				fyu = b[g.Index(i-1, j)] * (x[k] - x[g.Index(i-1, j)]) / g.Dy
			}

			wl[k] = (fxr-fxl)/g.Dx + (fyd-fyu)/g.Dy
		}
	}
	return wl
}

// GradDot returns the weighted inner product of the discrete gradients of
// two fields, Σ_k b_k·(∂x p·∂x q + ∂y p·∂y q)_k. The step-length solve is
// assembled entirely from sums of this form.
func GradDot(g grid.Grid, b, p, q []float64) float64 {
	pgx, pgy := gradient(g, p)
	qgx, qgy := gradient(g, q)
	var sum float64
	for k := range b {
		sum += b[k] * (pgx[k]*qgx[k] + pgy[k]*qgy[k])
	}
	return sum
}

// PhiSum returns Σ_k φ(|∇x|_k/δ), the penalty value of one channel.
func PhiSum(g grid.Grid, x []float64, phi Potential, delta float64) float64 {
	gx, gy := gradient(g, x)
	var sum float64
	for k := range gx {
		sum += phi.Phi(math.Hypot(gx[k], gy[k]) / delta)
	}
	return sum
}
