package inversion

import "math/cmplx"

// direction applies the complex Polak–Ribière update
//
//	d_new = g + [⟨g, g − gLast⟩·dS / ‖gLast‖²] · d
//
// where ⟨a,b⟩ = Σ a·conj(b) and dS is the cell area element. A vanishing
// previous gradient degenerates to pure steepest descent; it must never
// surface as a NaN direction.
func direction(g, gLast, d []complex128, dS float64) []complex128 {
	var num complex128
	var den float64
	for k := range g {
		num += g[k] * cmplx.Conj(g[k]-gLast[k])
		den += real(gLast[k])*real(gLast[k]) + imag(gLast[k])*imag(gLast[k])
	}

	out := make([]complex128, len(g))
	if den == 0 {
		copy(out, g)
		return out
	}

	beta := num * complex(dS/den, 0)
	for k := range g {
		out[k] = g[k] + beta*d[k]
	}
	return out
}
