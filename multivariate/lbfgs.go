// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"gonum.org/v1/gonum/floats"
)

// LBFGS minimizes 𝒇 by the limited-memory BFGS method. Instead of the
// dense inverse Hessian of BFGS it keeps only the last m = Options.Memory
// correction pairs (sᵢ, yᵢ) and reconstructs Hₖ·∇f through the
// two-loop recursion in O(mn) memory, with the initial matrix scaled
// by γₖ = sᵀy/yᵀy. Intended for large n; the update rule and the
// convergence contract match BFGS.
func LBFGS(f Objective, grad Gradient, x0 []float64, opts *Options) (*Result, error) {
	p, x, opt, err := newProblem(f, grad, x0, opts)
	if err != nil {
		return nil, err
	}
	n, m := len(x), opt.Memory

	fx := p.eval(x)
	g := p.gradient(x)
	gnorm := floats.Norm(g, 2)

	// Correction history, most recent last.
	var ss, ys [][]float64
	var rhos []float64
	gamma := one

	d := make([]float64, n)
	alpha := make([]float64, 0, m)

	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		if gnorm < opt.Tolerance {
			converged = true
			break
		}

		// Two-loop recursion: d = -Hₖ·g.
		copy(d, g)
		alpha = alpha[:len(ss)]
		for i := len(ss) - 1; i >= 0; i-- {
			alpha[i] = rhos[i] * floats.Dot(ss[i], d)
			floats.AddScaled(d, -alpha[i], ys[i])
		}
		floats.Scale(gamma, d)
		for i := 0; i < len(ss); i++ {
			beta := rhos[i] * floats.Dot(ys[i], d)
			floats.AddScaled(d, alpha[i]-beta, ss[i])
		}
		floats.Scale(-one, d)

		if floats.Dot(d, g) >= zero {
			floats.ScaleTo(d, -one, g)
		}

		xn, fn, _ := p.search(x, d, g, fx)
		gn := p.gradient(xn)

		s := make([]float64, n)
		y := make([]float64, n)
		floats.SubTo(s, xn, x)
		floats.SubTo(y, gn, g)

		if sy := floats.Dot(s, y); sy > curvatureMin {
			yy := floats.Dot(y, y)
			gamma = sy / yy
			ss = append(ss, s)
			ys = append(ys, y)
			rhos = append(rhos, one/sy)
			if len(ss) > m {
				ss, ys, rhos = ss[1:], ys[1:], rhos[1:]
			}
		}

		x, fx, g = xn, fn, gn
		gnorm = floats.Norm(g, 2)
	}

	return result(x, fx, iter, p.evals, gnorm, converged), nil
}
