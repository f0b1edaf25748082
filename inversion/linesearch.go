package inversion

import "fmt"

const invPhi = 0.6180339887498949

// goldenStep line-searches a real step along d against the true regularized
// cost, re-evaluating the forward model at every probe. It is the
// derivative-free alternative to the closed-form solve and the fallback
// when the quadratic model degenerates. j0 is the cost at the current
// iterate.
func (s *Solver) goldenStep(c, d []complex128, j0 float64) (complex128, error) {
	eval := func(t float64) (float64, error) {
		ct := make([]complex128, len(c))
		for k := range c {
			ct[k] = c[k] + complex(t, 0)*d[k]
		}
		st, err := s.op.Evaluate(ct)
		if err != nil {
			return 0, fmt.Errorf("line search probe at t=%g: %w", t, err)
		}
		return s.cost(ct, st), nil
	}

	// Expand the bracket until the cost turns back up.
	b := 1e-3
	jPrev := j0
	for i := 0; i < 40; i++ {
		jb, err := eval(b)
		if err != nil {
			return 0, err
		}
		if jb >= jPrev {
			break
		}
		jPrev = jb
		b *= 2
	}

	a := 0.0
	x1 := b - invPhi*(b-a)
	x2 := a + invPhi*(b-a)
	f1, err := eval(x1)
	if err != nil {
		return 0, err
	}
	f2, err := eval(x2)
	if err != nil {
		return 0, err
	}
	for i := 0; i < 60 && b-a > 1e-12*(1+b); i++ {
		if f1 < f2 {
			b, x2, f2 = x2, x1, f1
			x1 = b - invPhi*(b-a)
			if f1, err = eval(x1); err != nil {
				return 0, err
			}
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = a + invPhi*(b-a)
			if f2, err = eval(x2); err != nil {
				return 0, err
			}
		}
	}
	return complex((a+b)/2, 0), nil
}
