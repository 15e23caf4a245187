// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package univariate

import "math"

var invPhi = one / math.Phi               // golden section ratio ≈ 0.618
var invPhi2 = one / (math.Phi * math.Phi) // its square ≈ 0.382

// GoldenSection minimizes a unimodal 𝒇 on the bracket [a,b] by golden
// section search. Two interior points split the bracket at the golden
// ratio; each iteration keeps the sub-interval containing the better
// point and reuses its evaluation, so only one new evaluation of 𝒇 is
// spent per iteration.
//
// The search stops when the bracket width falls below the tolerance
// and returns the better interior point. Exhausting MaxIterations is
// not an error: the current best point is returned with
// Converged=false.
func GoldenSection(f Objective, a, b float64, opts *Options) (*Result, error) {
	if err := checkBracket(f, a, b); err != nil {
		return nil, err
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	x1 := a + invPhi2*(b-a)
	x2 := a + invPhi*(b-a)
	f1, f2 := f(x1), f(x2)
	evals := 2

	iter := 0
	for ; iter < opt.MaxIterations && b-a >= opt.Tolerance; iter++ {
		if f1 < f2 {
			b, x2, f2 = x2, x1, f1
			x1 = a + invPhi2*(b-a)
			f1 = f(x1)
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = a + invPhi*(b-a)
			f2 = f(x2)
		}
		evals++
	}

	res := &Result{
		X: x1, F: f1,
		Iterations: iter,
		FuncEvals:  evals,
		Converged:  b-a < opt.Tolerance,
	}
	if f2 < f1 {
		res.X, res.F = x2, f2
	}
	return res, nil
}
