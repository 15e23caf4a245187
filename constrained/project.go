// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constrained

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/numopt"
	"github.com/curioloop/numopt/multivariate"
)

// ProjectedGradient minimizes 𝒇 over the axis-aligned box given by
// bounds: each iteration takes an unconstrained gradient step and
// clamps every coordinate back into [lowerᵢ, upperᵢ]. The initial
// point is clamped too, so every iterate the objective sees is
// feasible.
//
// The iteration converges when the projected step norm and the
// function change both fall below the tolerance. Only box constraints
// are handled; general constraints need Penalty or the Lagrangian
// solvers.
func ProjectedGradient(f multivariate.Objective, grad multivariate.Gradient, bounds []Bound, x0 []float64, opts *Options) (*Result, error) {
	if err := checkProblem(f, x0); err != nil {
		return nil, err
	}
	n := len(x0)
	if len(bounds) != n {
		return nil, fmt.Errorf("bounds length %d for dimension %d: %w", len(bounds), n, numopt.ErrInvalidInput)
	}
	for i, b := range bounds {
		if b.Lower > b.Upper {
			return nil, fmt.Errorf("bound %d [%g,%g] is empty: %w", i, b.Lower, b.Upper, numopt.ErrInvalidInput)
		}
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	project := func(x []float64) {
		for i, b := range bounds {
			x[i] = math.Min(b.Upper, math.Max(b.Lower, x[i]))
		}
	}

	x := make([]float64, n)
	copy(x, x0)
	project(x)

	c := &counter{f: f, step: opt.StepSize}
	fx := c.eval(x)

	xn := make([]float64, n)

	var gnorm float64
	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		g := c.gradient(grad, x)
		gnorm = floats.Norm(g, 2)

		floats.AddScaledTo(xn, x, -opt.LearningRate, g)
		project(xn)
		fn := c.eval(xn)

		step := floats.Distance(x, xn, 2)
		df := math.Abs(fn - fx)

		copy(x, xn)
		fx = fn

		if step < opt.Tolerance && df < opt.Tolerance {
			iter++
			converged = true
			break
		}
	}

	return &Result{
		X: x, F: fx,
		Iterations: iter,
		FuncEvals:  c.evals,
		GradNorm:   gnorm,
		Converged:  converged,
	}, nil
}
