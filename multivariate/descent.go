// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/numopt/numdiff"
)

// GradientDescent minimizes 𝒇 from x0 by the fixed-rate update
// 𝐱 ← 𝐱 - η∇𝒇(𝐱). With no analytic gradient the fall-back is a
// forward difference, costing one extra evaluation per dimension and
// one for the base point each iteration.
//
// The iteration converges when the step norm or the gradient norm
// falls below the tolerance.
func GradientDescent(f Objective, grad Gradient, x0 []float64, opts *Options) (*Result, error) {
	p, x, opt, err := newProblem(f, grad, x0, opts)
	if err != nil {
		return nil, err
	}
	n := len(x)

	gradient := p.gradient
	if p.grad == nil {
		// Cheaper one-sided probes for the steepest-descent direction.
		xi := make([]float64, n)
		gradient = func(x []float64) []float64 {
			g := make([]float64, n)
			f0 := p.eval(x)
			copy(xi, x)
			for i := 0; i < n; i++ {
				h := opt.StepSize
				if h <= zero {
					h = numdiff.Step(x[i])
				}
				xi[i] = x[i] + h
				g[i] = (p.eval(xi) - f0) / h
				xi[i] = x[i]
			}
			return g
		}
	}

	var gnorm float64
	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		g := gradient(x)
		gnorm = floats.Norm(g, 2)
		floats.AddScaled(x, -opt.LearningRate, g)
		if opt.LearningRate*gnorm < opt.Tolerance || gnorm < opt.Tolerance {
			iter++
			converged = true
			break
		}
	}

	return result(x, p.eval(x), iter, p.evals, gnorm, converged), nil
}
