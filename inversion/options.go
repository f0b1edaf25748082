// Package inversion implements the regularized conjugate-gradient
// reconstruction of a complex contrast field from measured scattered
// fields: adjoint-state gradients, a complex Polak–Ribière direction
// update, a closed-form complex step length and the fixed-budget iteration
// controller that drives them.
package inversion

import (
	"log"

	"github.com/mwscatter/invert2d/regularize"
)

// StepStrategy selects how the step length along the search direction is
// obtained.
type StepStrategy int

const (
	// ClosedForm solves the local quadratic model analytically for a
	// complex step. When the model degenerates the iteration falls back
	// to a golden-section search.
	ClosedForm StepStrategy = iota
	// GoldenSection always line-searches a real step against the true
	// cost function.
	GoldenSection
)

// Options configures one inversion run.
type Options struct {
	MaxIter int // fixed iteration budget, no early exit

	LambdaR, LambdaI float64 // regularization strengths per channel
	DeltaR, DeltaI   float64 // edge-preserving scale per channel

	Potential regularize.Potential
	Step      StepStrategy
	Init      InitStrategy

	Log *log.Logger // per-iteration diagnostics; nil for silent runs
}

// DefaultOptions returns the configuration used for routine runs: the
// backpropagation start, closed-form steps and the Geman–McClure potential
// with equal channel scales.
func DefaultOptions() Options {
	return Options{
		MaxIter:   100,
		LambdaR:   1e-3,
		LambdaI:   1e-3,
		DeltaR:    0.1,
		DeltaI:    0.1,
		Potential: regularize.GemanMcClure{},
		Step:      ClosedForm,
		Init:      BackpropagationStart{},
	}
}
