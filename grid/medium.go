package grid

import (
	"math"
	"math/cmplx"
)

// Physical constants (SI).
const (
	Eps0 = 8.8541878128e-12 // vacuum permittivity, F/m
	Mu0  = 1.25663706212e-6 // vacuum permeability, H/m
)

// Background is the homogeneous medium the scatterers are embedded in.
// It is constant for a run.
type Background struct {
	EpsR  float64 // relative permittivity
	Sigma float64 // conductivity, S/m
	Freq  float64 // operating frequency, Hz
}

// Omega returns the angular frequency.
func (b Background) Omega() float64 { return 2 * math.Pi * b.Freq }

// Wavenumber returns the complex background wavenumber
// kb = ω·sqrt(μ0·(ε0·εrb − j·σ/ω)).
func (b Background) Wavenumber() complex128 {
	w := b.Omega()
	eps := complex(Eps0*b.EpsR, -b.Sigma/w)
	return complex(w, 0) * cmplx.Sqrt(complex(Mu0, 0)*eps)
}

// Wavelength returns the background wavelength from the real part of the
// wavenumber.
func (b Background) Wavelength() float64 {
	return 2 * math.Pi / real(b.Wavenumber())
}

// Permittivity converts one cell's complex contrast back to relative
// permittivity.
func (b Background) Permittivity(c complex128) float64 {
	return real(c) + b.EpsR
}

// Conductivity converts one cell's complex contrast back to conductivity.
func (b Background) Conductivity(c complex128) float64 {
	return -b.Omega() * Eps0 * b.EpsR * imag(c)
}

// Contrast is the inverse conversion, used by the exact-start strategy:
// given a cell's true permittivity and conductivity it returns the complex
// contrast relative to the background.
func (b Background) Contrast(epsR, sigma float64) complex128 {
	return complex(epsR-b.EpsR, -sigma/(b.Omega()*Eps0*b.EpsR))
}
