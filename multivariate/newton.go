// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/numopt/linalg"
	"github.com/curioloop/numopt/numdiff"
)

// pivot floor for singular Newton systems
const pivotFloor = 1e-12

// Newton minimizes 𝒇 by solving the Newton system ∇²𝒇·Δ𝐱 = -∇𝒇 with
// the shared Gaussian-elimination solver each iteration. A nil hess
// falls back to a finite-difference Hessian at O(n²) evaluations per
// iteration.
//
// A numerically singular Hessian does not abort the iteration: the
// solver substitutes a 1e-12 pivot and keeps going, trading accuracy
// of that step for robustness. Convergence is on the gradient norm or
// the step norm.
func Newton(f Objective, grad Gradient, hess Hessian, x0 []float64, opts *Options) (*Result, error) {
	p, x, opt, err := newProblem(f, grad, x0, opts)
	if err != nil {
		return nil, err
	}
	n := len(x)

	hessian := hess
	if hessian == nil {
		hessian = func(x []float64) [][]float64 {
			p.evals += 2*n*n + 1
			return numdiff.Hessian(p.f, x, opt.StepSize)
		}
	}

	rhs := make([]float64, n)

	var gnorm float64
	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		g := p.gradient(x)
		gnorm = floats.Norm(g, 2)
		if gnorm < opt.Tolerance {
			converged = true
			break
		}

		floats.ScaleTo(rhs, -one, g)
		dx, err := linalg.SolveClamped(hessian(x), rhs, pivotFloor)
		if err != nil {
			return nil, err
		}

		floats.Add(x, dx)
		if floats.Norm(dx, 2) < opt.Tolerance {
			iter++
			converged = true
			break
		}
	}

	return result(x, p.eval(x), iter, p.evals, gnorm, converged), nil
}
