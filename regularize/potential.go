// Package regularize implements the edge-preserving penalty: concave
// potentials of the contrast's spatial gradient, the half-quadratic weights
// b = φ'(t)/(2t) they induce, and the weighted Laplacian that appears in
// the penalty gradient.
package regularize

// Potential is an edge-preserving potential φ applied to normalized
// gradient magnitudes. Implementations must be quadratic-like near zero and
// may plateau for large arguments. Weight returns φ'(t)/(2t), extended by
// continuity at t = 0.
type Potential interface {
	Phi(t float64) float64
	Weight(t float64) float64
}

// GemanMcClure is the default potential φ(t) = t²/(1+t²): quadratic for
// small gradients, saturating at 1 across material boundaries so edges are
// not penalized away.
type GemanMcClure struct{}

func (GemanMcClure) Phi(t float64) float64 {
	return t * t / (1 + t*t)
}

func (GemanMcClure) Weight(t float64) float64 {
	u := 1 + t*t
	return 1 / (u * u)
}

// Quadratic is the Tikhonov potential φ(t) = t², with unit weights. It
// smooths edges and is kept for comparison runs.
type Quadratic struct{}

func (Quadratic) Phi(t float64) float64 { return t * t }

func (Quadratic) Weight(t float64) float64 { return 1 }
