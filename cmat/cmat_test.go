package cmat

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMul(t *testing.T) {
	a := mat.NewCDense(2, 3, []complex128{
		1 + 1i, 2, 0 - 1i,
		0, 1 - 1i, 3,
	})
	b := mat.NewCDense(3, 2, []complex128{
		1, 0 + 1i,
		2 - 1i, 1,
		0, 1 + 1i,
	})

	got := Mul(a, b)
	r, c := got.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)

	// Entries checked by hand.
	want := [][]complex128{
		{5 - 1i, 2 + 0i},
		{1 - 3i, 4 + 2i},
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, 0, cmplx.Abs(got.At(i, j)-want[i][j]), 1e-15,
				"product mismatch at (%d,%d)", i, j)
		}
	}

	assert.Panics(t, func() { Mul(a, mat.NewCDense(2, 2, nil)) })
}

func TestInverseRoundTrip(t *testing.T) {
	tol := 1e-12

	a := mat.NewCDense(3, 3, []complex128{
		2 + 1i, 0.3 - 0.2i, 0.1 + 0i,
		-0.4 + 0.5i, 1.5 - 0.3i, 0.2 + 0.1i,
		0.1 - 0.1i, 0.3 + 0.4i, 3 + 0.5i,
	})

	inv, err := Inverse(a)
	require.NoError(t, err)

	prod := Mul(a, inv)
	eye := Identity(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, 0, cmplx.Abs(prod.At(i, j)-eye.At(i, j)), tol,
				"A·A⁻¹ differs from identity at (%d,%d)", i, j)
		}
	}
}

func TestInverseSingular(t *testing.T) {
	// Second row is a complex multiple of the first, so the system is
	// exactly singular.
	a := mat.NewCDense(2, 2, []complex128{
		1 + 1i, 2 - 1i,
		2 + 2i, 4 - 2i,
	})
	_, err := Inverse(a)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestInverseNonSquare(t *testing.T) {
	a := mat.NewCDense(2, 3, nil)
	_, err := Inverse(a)
	require.Error(t, err)
}

func TestTransposes(t *testing.T) {
	a := mat.NewCDense(2, 3, []complex128{
		1 + 2i, 3 - 1i, 0 + 1i,
		-2 + 0i, 1 + 1i, 4 - 3i,
	})

	at := Transpose(a)
	ah := ConjTranspose(a)

	r, c := a.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Equal(t, a.At(i, j), at.At(j, i))
			assert.Equal(t, cmplx.Conj(a.At(i, j)), ah.At(j, i))
		}
	}
}

func TestDiagonalScaling(t *testing.T) {
	a := mat.NewCDense(2, 2, []complex128{
		1, 2,
		3, 4,
	})
	d := []complex128{2 + 0i, 0 + 1i}

	cols := ScaleCols(a, d)
	assert.Equal(t, complex128(2), cols.At(0, 0))
	assert.Equal(t, complex128(2i), cols.At(0, 1))
	assert.Equal(t, complex128(6), cols.At(1, 0))
	assert.Equal(t, complex128(4i), cols.At(1, 1))

	rows := ScaleRows(d, a)
	assert.Equal(t, complex128(2), rows.At(0, 0))
	assert.Equal(t, complex128(4), rows.At(0, 1))
	assert.Equal(t, complex128(3i), rows.At(1, 0))
	assert.Equal(t, complex128(4i), rows.At(1, 1))
}

func TestFrob2(t *testing.T) {
	a := mat.NewCDense(1, 2, []complex128{3 + 4i, 0})
	assert.InDelta(t, 25.0, Frob2(a), 1e-15)
}
