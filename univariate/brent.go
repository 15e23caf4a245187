// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package univariate

import "math"

// Brent minimizes a unimodal 𝒇 on [a,b] by Brent's hybrid method.
// Each iteration fits a parabola through the three best-known points
// and takes its vertex only when the trial step
//   - lands strictly inside the bracket,
//   - moves less than half of the second-to-last step, and
//   - keeps a tolerance-wide margin from the bracket edges;
//
// otherwise the iteration falls back to a golden-section step. The
// bracket precondition and the non-convergence contract match
// GoldenSection.
//
// R.P. Brent, 'Algorithms for Minimization without Derivatives',
// Prentice-Hall, 1973. Chapter 5.
func Brent(f Objective, a, b float64, opts *Options) (*Result, error) {
	if err := checkBracket(f, a, b); err != nil {
		return nil, err
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	tol := opt.Tolerance

	// x is the best point, w the second best, v the previous w.
	x := a + invPhi2*(b-a)
	w, v := x, x
	fx := f(x)
	fw, fv := fx, fx
	evals := 1

	var d, e float64 // last step and the one before it

	iter := 0
	for ; iter < opt.MaxIterations && b-a >= tol; iter++ {

		parabolic := false
		if e != zero {
			// Vertex of the parabola through (x,fx), (w,fw), (v,fv).
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = two * (q - r)
			if q > zero {
				p = -p
			}
			q = math.Abs(q)
			if q != zero {
				step := p / q
				u := x + step
				if math.Abs(step) < math.Abs(e)/two && u > a+tol && u < b-tol {
					parabolic = true
					e, d = d, step
				}
			}
		}
		if !parabolic {
			// Golden step into the larger side of the bracket.
			if x < (a+b)/two {
				e = b - x
			} else {
				e = a - x
			}
			d = invPhi2 * e
		}

		// Never probe closer than the tolerance to the best point,
		// but stay inside the bracket.
		u := x + d
		if math.Abs(d) < tol {
			u = math.Min(b, math.Max(a, x+math.Copysign(tol, d)))
		}
		fu := f(u)
		evals++

		if fu <= fx {
			if u < x {
				b = x
			} else {
				a = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, w = w, u
				fv, fw = fw, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}
	}

	return &Result{
		X: x, F: fx,
		Iterations: iter,
		FuncEvals:  evals,
		Converged:  b-a < tol,
	}, nil
}
