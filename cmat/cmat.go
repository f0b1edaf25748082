// Package cmat provides the dense complex-matrix operations the inversion
// needs on top of gonum: products, diagonal scaling, conjugate transposes,
// Frobenius norms, and inversion of a complex system through its real
// block embedding.
package cmat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular reports that a complex linear system could not be inverted.
var ErrSingular = errors.New("cmat: singular complex system")

// Identity returns the n×n complex identity matrix.
func Identity(n int) *mat.CDense {
	m := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Mul returns a·b as a freshly allocated matrix.
func Mul(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		panic(fmt.Sprintf("cmat: cannot multiply %dx%d by %dx%d", ar, ac, br, bc))
	}
	m := mat.NewCDense(ar, bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < bc; j++ {
			var sum complex128
			for k := 0; k < ac; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			m.Set(i, j, sum)
		}
	}
	return m
}

// Transpose returns the unconjugated transpose of a.
func Transpose(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	m := mat.NewCDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(j, i, a.At(i, j))
		}
	}
	return m
}

// ConjTranspose returns the Hermitian transpose of a.
func ConjTranspose(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	m := mat.NewCDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			m.Set(j, i, complex(real(v), -imag(v)))
		}
	}
	return m
}

// ScaleCols returns a·diag(d): column j of a scaled by d[j].
func ScaleCols(a *mat.CDense, d []complex128) *mat.CDense {
	r, c := a.Dims()
	if len(d) != c {
		panic(fmt.Sprintf("cmat: diagonal length %d does not match %d columns", len(d), c))
	}
	m := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, a.At(i, j)*d[j])
		}
	}
	return m
}

// ScaleRows returns diag(d)·a: row i of a scaled by d[i].
func ScaleRows(d []complex128, a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	if len(d) != r {
		panic(fmt.Sprintf("cmat: diagonal length %d does not match %d rows", len(d), r))
	}
	m := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, d[i]*a.At(i, j))
		}
	}
	return m
}

// Sub returns a − b.
func Sub(a, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		panic(fmt.Sprintf("cmat: dimension mismatch %dx%d vs %dx%d", ar, ac, br, bc))
	}
	m := mat.NewCDense(ar, ac, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			m.Set(i, j, a.At(i, j)-b.At(i, j))
		}
	}
	return m
}

// Frob2 returns the squared Frobenius norm Σ|a_ij|².
func Frob2(a *mat.CDense) float64 {
	r, c := a.Dims()
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			sum += real(v)*real(v) + imag(v)*imag(v)
		}
	}
	return sum
}

// Inverse computes a⁻¹ for a square complex matrix by LU-inverting the real
// 2n×2n block embedding
//
//	[ Re(a)  -Im(a) ]
//	[ Im(a)   Re(a) ]
//
// whose inverse carries Re(a⁻¹) and Im(a⁻¹) in the same block positions.
// A singular or numerically unusable system is reported as ErrSingular.
func Inverse(a *mat.CDense) (*mat.CDense, error) {
	n, c := a.Dims()
	if n != c {
		return nil, fmt.Errorf("cmat: cannot invert %dx%d matrix", n, c)
	}

	b := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := a.At(i, j)
			b.Set(i, j, real(v))
			b.Set(i, n+j, -imag(v))
			b.Set(n+i, j, imag(v))
			b.Set(n+i, n+j, real(v))
		}
	}

	var binv mat.Dense
	if err := binv.Inverse(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	inv := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			inv.Set(i, j, complex(binv.At(i, j), binv.At(n+i, j)))
		}
	}
	return inv, nil
}
