package scatter

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mwscatter/invert2d/cmat"
)

// Operator evaluates the forward scattering model for the run's data set.
type Operator struct {
	ds *DataSet
}

// NewOperator validates the data set once and returns the forward operator.
func NewOperator(ds *DataSet) (*Operator, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &Operator{ds: ds}, nil
}

// Data returns the operator's immutable data set.
func (op *Operator) Data() *DataSet { return op.ds }

// State holds every quantity derived from one contrast guess. A State is
// immutable after Evaluate returns; the next iteration replaces it wholesale.
type State struct {
	LC  *mat.CDense // total-field operator (I − gd·C)⁻¹, N×N
	U   *mat.CDense // total field LC·ei, N×L
	Rho *mat.CDense // residual es − gs·C·LC·ei, M×L
}

// Evaluate recomputes the total-field operator and residual for the
// diagonal contrast c. The dense solve behind LC is the dominant cost of an
// iteration; a contrast that drives (I − gd·C) singular is a fatal
// condition and propagates as an explicit error.
func (op *Operator) Evaluate(c []complex128) (*State, error) {
	_, n, _ := op.ds.Dims()
	if len(c) != n {
		return nil, fmt.Errorf("%w: contrast has %d cells, domain has %d",
			ErrDimensionMismatch, len(c), n)
	}

	// A = I − gd·C, with the diagonal C applied as column scaling.
	a := cmat.Sub(cmat.Identity(n), cmat.ScaleCols(op.ds.Gd, c))
	lc, err := cmat.Inverse(a)
	if err != nil {
		return nil, fmt.Errorf("scatter: total-field operator: %w", err)
	}

	u := cmat.Mul(lc, op.ds.Ei)
	pred := cmat.Mul(op.ds.Gs, cmat.ScaleRows(c, u))

	return &State{
		LC:  lc,
		U:   u,
		Rho: cmat.Sub(op.ds.Es, pred),
	}, nil
}

// Sensitivity returns v = gs·LCᵗ·D·LC·ei for the diagonal direction d: the
// first-order change of the predicted scattered field per unit step along
// d, one column per source.
func (op *Operator) Sensitivity(st *State, d []complex128) *mat.CDense {
	w := cmat.ScaleRows(d, st.U)
	return cmat.Mul(op.ds.Gs, cmat.Mul(cmat.Transpose(st.LC), w))
}

// DataCost returns the data-fidelity term Σ|rho|² of the cost function.
func (st *State) DataCost() float64 { return cmat.Frob2(st.Rho) }
