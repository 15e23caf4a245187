// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package univariate

import (
	"fmt"
	"math"

	"github.com/curioloop/numopt"
)

// second-derivative floor below which the Newton step is undefined
const curvatureFloor = 1e-15

// Newton minimizes 𝒇 from x0 by the update 𝑥 ← 𝑥 - 𝒇′(𝑥)/𝒇″(𝑥).
// Both derivatives are required. Convergence is quadratic near a
// minimum with non-vanishing curvature.
//
// A second derivative below 1e-15 in magnitude at any iterate has no
// safe substitute and fails with ErrNumericalInstability.
func Newton(f Objective, df, ddf Derivative, x0 float64, opts *Options) (*Result, error) {
	switch {
	case f == nil:
		return nil, fmt.Errorf("objective function is required: %w", numopt.ErrInvalidInput)
	case df == nil || ddf == nil:
		return nil, fmt.Errorf("first and second derivatives are required: %w", numopt.ErrInvalidInput)
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	x := x0
	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		d1, d2 := df(x), ddf(x)
		if math.Abs(d2) < curvatureFloor {
			return nil, fmt.Errorf("vanishing second derivative at x=%g: %w", x, numopt.ErrNumericalInstability)
		}
		step := d1 / d2
		x -= step
		if math.Abs(step) < opt.Tolerance || math.Abs(d1) < opt.Tolerance {
			iter++
			converged = true
			break
		}
	}

	return &Result{
		X: x, F: f(x),
		Iterations: iter,
		FuncEvals:  1,
		Converged:  converged,
	}, nil
}
