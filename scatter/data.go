// Package scatter holds the fixed measurement data of one inversion run and
// the nonlinear forward model that maps a contrast guess to the scattered
// field it would produce at the sensors.
package scatter

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrDimensionMismatch reports inconsistent input tensor shapes.
var ErrDimensionMismatch = errors.New("scatter: inconsistent input dimensions")

// DataSet bundles the fixed inputs of a run: measured scattered fields,
// precomputed incident fields and the two Green operators. All four are
// read-only for the whole inversion.
type DataSet struct {
	Es *mat.CDense // M×L measured scattered field at the sensors
	Ei *mat.CDense // N×L incident field inside the domain
	Gd *mat.CDense // N×N domain-to-domain Green operator
	Gs *mat.CDense // M×N domain-to-sensor Green operator
}

// Dims returns the sensor count M, cell count N and source count L.
func (ds *DataSet) Dims() (m, n, l int) {
	m, l = ds.Es.Dims()
	_, n = ds.Gs.Dims()
	return m, n, l
}

// Validate checks that M, N and L are mutually consistent across the four
// tensors. It runs once at construction; no iteration may execute on
// malformed inputs.
func (ds *DataSet) Validate() error {
	if ds.Es == nil || ds.Ei == nil || ds.Gd == nil || ds.Gs == nil {
		return fmt.Errorf("%w: missing input tensor", ErrDimensionMismatch)
	}
	m, l := ds.Es.Dims()
	ein, eil := ds.Ei.Dims()
	gdr, gdc := ds.Gd.Dims()
	gsm, gsn := ds.Gs.Dims()

	if gdr != gdc {
		return fmt.Errorf("%w: gd is %dx%d, want square", ErrDimensionMismatch, gdr, gdc)
	}
	n := gdr
	if ein != n {
		return fmt.Errorf("%w: ei has %d rows, gd implies N=%d", ErrDimensionMismatch, ein, n)
	}
	if gsn != n {
		return fmt.Errorf("%w: gs has %d columns, gd implies N=%d", ErrDimensionMismatch, gsn, n)
	}
	if gsm != m {
		return fmt.Errorf("%w: gs has %d rows, es implies M=%d", ErrDimensionMismatch, gsm, m)
	}
	if eil != l {
		return fmt.Errorf("%w: ei has %d columns, es implies L=%d", ErrDimensionMismatch, eil, l)
	}
	return nil
}
