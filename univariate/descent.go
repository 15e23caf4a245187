// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package univariate

import (
	"fmt"
	"math"

	"github.com/curioloop/numopt"
	"github.com/curioloop/numopt/numdiff"
)

// GradientDescent minimizes 𝒇 from x0 by the fixed-rate update
// 𝑥 ← 𝑥 - η𝒇′(𝑥). When df is nil the derivative is approximated by a
// central difference with step Options.StepSize.
//
// The iteration converges when either the step or the derivative
// magnitude falls below the tolerance.
func GradientDescent(f Objective, df Derivative, x0 float64, opts *Options) (*Result, error) {
	if f == nil {
		return nil, fmt.Errorf("objective function is required: %w", numopt.ErrInvalidInput)
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	evals := 0
	grad := df
	if grad == nil {
		grad = func(x float64) float64 {
			evals += 2
			return numdiff.Derivative(f, x, opt.StepSize)
		}
	}

	x := x0
	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		g := grad(x)
		step := opt.LearningRate * g
		x -= step
		if math.Abs(step) < opt.Tolerance || math.Abs(g) < opt.Tolerance {
			iter++
			converged = true
			break
		}
	}

	evals++
	return &Result{
		X: x, F: f(x),
		Iterations: iter,
		FuncEvals:  evals,
		Converged:  converged,
	}, nil
}
