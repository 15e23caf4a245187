// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ConjugateGradient minimizes 𝒇 by nonlinear conjugate gradients with
// the Polak-Ribière update
//
//	βₖ = max(0, ∇fₖ₊₁ᵀ(∇fₖ₊₁-∇fₖ) / ∇fₖᵀ∇fₖ)
//
// and a backtracking line search along each direction. The direction
// resets to steepest descent every Options.Restart iterations (default
// n) or whenever the update stops producing a descent direction, which
// guards against degeneracy of the conjugate set.
func ConjugateGradient(f Objective, grad Gradient, x0 []float64, opts *Options) (*Result, error) {
	p, x, opt, err := newProblem(f, grad, x0, opts)
	if err != nil {
		return nil, err
	}
	n := len(x)
	restart := opt.Restart
	if restart == 0 {
		restart = n
	}

	fx := p.eval(x)
	g := p.gradient(x)
	gnorm := floats.Norm(g, 2)

	d := make([]float64, n)
	floats.ScaleTo(d, -one, g)

	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		if gnorm < opt.Tolerance {
			converged = true
			break
		}

		xn, fn, _ := p.search(x, d, g, fx)
		gn := p.gradient(xn)

		gg := floats.Dot(g, g)
		beta := zero
		if gg > zero {
			// Polak-Ribière, clamped at zero to keep descent.
			yg := floats.Dot(gn, gn) - floats.Dot(gn, g)
			beta = math.Max(zero, yg/gg)
		}

		for i := range d {
			d[i] = -gn[i] + beta*d[i]
		}
		if (iter+1)%restart == 0 || floats.Dot(d, gn) >= zero {
			floats.ScaleTo(d, -one, gn)
		}

		x, fx, g = xn, fn, gn
		gnorm = floats.Norm(g, 2)
	}

	return result(x, fx, iter, p.evals, gnorm, converged), nil
}
