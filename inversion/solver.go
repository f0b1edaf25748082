package inversion

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/mwscatter/invert2d/grid"
	"github.com/mwscatter/invert2d/regularize"
	"github.com/mwscatter/invert2d/scatter"
)

// RunState is the controller's lifecycle state.
type RunState int

const (
	Initialized RunState = iota
	Iterating
	ConvergedByBudget // terminal: the fixed iteration budget is spent
)

// Record is one convergence-log entry: the regularized cost and the
// gradient norm of an iteration.
type Record struct {
	Cost     float64 `json:"cost"`
	GradNorm float64 `json:"grad_norm"`
}

// Result is the batch output of a run.
type Result struct {
	Contrast []complex128 // final diagonal contrast, N cells
	EpsR     []float64    // retrieved relative permittivity per cell
	Sigma    []float64    // retrieved conductivity per cell, S/m
	Log      []Record     // maxit+1 entries, iteration 0 first
	Elapsed  time.Duration
}

// Solver is the iteration controller: it owns the single mutable
// optimization state (contrast, gradient memory, direction, forward state,
// convergence log) and steps it a fixed number of times.
type Solver struct {
	opts Options
	grid grid.Grid
	bg   grid.Background
	op   *scatter.Operator

	state RunState
}

// New validates the inputs once and returns a solver in the Initialized
// state. Malformed dimensions are rejected here; no iteration runs on bad
// data.
func New(g grid.Grid, bg grid.Background, ds *scatter.DataSet, opts Options) (*Solver, error) {
	op, err := scatter.NewOperator(ds)
	if err != nil {
		return nil, err
	}
	_, n, _ := ds.Dims()
	if n != g.N() {
		return nil, fmt.Errorf("%w: green operators describe %d cells, grid has %d",
			scatter.ErrDimensionMismatch, n, g.N())
	}
	if opts.MaxIter < 1 {
		return nil, fmt.Errorf("inversion: iteration budget %d must be positive", opts.MaxIter)
	}
	if opts.DeltaR <= 0 || opts.DeltaI <= 0 {
		return nil, fmt.Errorf("inversion: edge-preserving scales must be positive")
	}
	if opts.Potential == nil {
		opts.Potential = regularize.GemanMcClure{}
	}
	if opts.Init == nil {
		opts.Init = BackpropagationStart{}
	}
	return &Solver{opts: opts, grid: g, bg: bg, op: op, state: Initialized}, nil
}

// State returns the controller's lifecycle state.
func (s *Solver) State() RunState { return s.state }

// cost evaluates the full regularized cost J = Σ|rho|² + λr²·Σφ(|∇c_r|/δr)
// + λi²·Σφ(|∇c_i|/δi) for a contrast and its forward state.
func (s *Solver) cost(c []complex128, st *scatter.State) float64 {
	re, im := s.grid.SplitParts(c)
	o := s.opts
	return st.DataCost() +
		o.LambdaR*o.LambdaR*regularize.PhiSum(s.grid, re, o.Potential, o.DeltaR) +
		o.LambdaI*o.LambdaI*regularize.PhiSum(s.grid, im, o.Potential, o.DeltaI)
}

// Run executes exactly MaxIter iterations and returns the recovered
// contrast with its convergence log. Any singular forward solve or
// unusable step aborts the run; no partial contrast is returned as a valid
// result.
func (s *Solver) Run() (*Result, error) {
	if s.state != Initialized {
		return nil, errors.New("inversion: solver has already run")
	}
	start := time.Now()
	o := s.opts

	c, g, d, zeroGradLog, err := o.Init.initialize(s.grid, s.bg, s.op.Data())
	if err != nil {
		return nil, err
	}

	st, err := s.op.Evaluate(c)
	if err != nil {
		return nil, fmt.Errorf("inversion: initial forward solve: %w", err)
	}

	records := make([]Record, 0, o.MaxIter+1)
	first := Record{Cost: s.cost(c, st), GradNorm: gradNorm(g)}
	if zeroGradLog {
		first.GradNorm = 0
	}
	records = append(records, first)

	kr := o.LambdaR * o.LambdaR / (o.DeltaR * o.DeltaR)
	ki := o.LambdaI * o.LambdaI / (o.DeltaI * o.DeltaI)

	s.state = Iterating
	for it := 1; it <= o.MaxIter; it++ {
		// Weights must come from the contrast being linearized around.
		w := regularize.Compute(s.grid, c, o.Potential, o.DeltaR, o.DeltaI)

		gNew := gradient(s.op, st, w, o)
		d = direction(gNew, g, d, s.grid.Area())
		g = gNew

		var alpha complex128
		switch o.Step {
		case GoldenSection:
			alpha, err = s.goldenStep(c, d, records[len(records)-1].Cost)
		default:
			alpha, err = SolveStep(buildStepSums(s.op, st, s.grid, c, d, w), kr, ki)
			if errors.Is(err, ErrInvalidStep) {
				if o.Log != nil {
					o.Log.Printf("iteration %d: %v; falling back to golden-section search", it, err)
				}
				alpha, err = s.goldenStep(c, d, records[len(records)-1].Cost)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("inversion: iteration %d: %w", it, err)
		}

		for k := range c {
			c[k] += alpha * d[k]
		}

		st, err = s.op.Evaluate(c)
		if err != nil {
			return nil, fmt.Errorf("inversion: iteration %d: %w", it, err)
		}

		rec := Record{Cost: s.cost(c, st), GradNorm: gradNorm(g)}
		records = append(records, rec)
		if o.Log != nil {
			o.Log.Printf("iteration %d/%d: cost=%.6e grad=%.6e step=%.3e%+.3ei",
				it, o.MaxIter, rec.Cost, rec.GradNorm, real(alpha), imag(alpha))
		}
	}
	s.state = ConvergedByBudget

	re, im := s.grid.SplitParts(c)
	floats.AddConst(s.bg.EpsR, re)
	floats.Scale(-s.bg.Omega()*grid.Eps0*s.bg.EpsR, im)

	return &Result{
		Contrast: c,
		EpsR:     re,
		Sigma:    im,
		Log:      records,
		Elapsed:  time.Since(start),
	}, nil
}
