// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"gonum.org/v1/gonum/floats"
)

// curvature threshold below which a correction pair is skipped
const curvatureMin = 1e-10

// BFGS minimizes 𝒇 by the quasi-Newton BFGS method. A dense n×n
// approximation Hₖ of the inverse Hessian starts at the identity and
// absorbs each accepted step through the rank-two update
//
//	Hₖ₊₁ = (I - ρsyᵀ)Hₖ(I - ρysᵀ) + ρssᵀ,  ρ = 1/(yᵀs)
//
// with s the step and y the gradient change. A backtracking line
// search governs the step length and the iteration converges on the
// gradient norm.
//
// Pairs with yᵀs ≤ 1e-10 are skipped to keep Hₖ positive definite.
// The penalty and augmented-Lagrangian solvers use BFGS as their inner
// solver; Result.FuncEvals includes every probe so those callers can
// accumulate the total cost.
func BFGS(f Objective, grad Gradient, x0 []float64, opts *Options) (*Result, error) {
	p, x, opt, err := newProblem(f, grad, x0, opts)
	if err != nil {
		return nil, err
	}
	n := len(x)

	fx := p.eval(x)
	g := p.gradient(x)
	gnorm := floats.Norm(g, 2)

	h := identity(n)
	d := make([]float64, n)
	hy := make([]float64, n)

	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		if gnorm < opt.Tolerance {
			converged = true
			break
		}

		// d = -H·g, reset to steepest descent if H lost definiteness.
		for i := 0; i < n; i++ {
			d[i] = -floats.Dot(h[i], g)
		}
		if floats.Dot(d, g) >= zero {
			h = identity(n)
			floats.ScaleTo(d, -one, g)
		}

		xn, fn, _ := p.search(x, d, g, fx)
		gn := p.gradient(xn)

		s := make([]float64, n)
		y := make([]float64, n)
		floats.SubTo(s, xn, x)
		floats.SubTo(y, gn, g)

		if sy := floats.Dot(s, y); sy > curvatureMin {
			rho := one / sy
			for i := 0; i < n; i++ {
				hy[i] = floats.Dot(h[i], y)
			}
			yhy := floats.Dot(y, hy)
			c := rho + rho*rho*yhy
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					h[i][j] += c*s[i]*s[j] - rho*(s[i]*hy[j]+hy[i]*s[j])
				}
			}
		}

		x, fx, g = xn, fn, gn
		gnorm = floats.Norm(g, 2)
	}

	return result(x, fx, iter, p.evals, gnorm, converged), nil
}
