// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constrained

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/numopt"
	"github.com/curioloop/numopt/linalg"
	"github.com/curioloop/numopt/multivariate"
	"github.com/curioloop/numopt/numdiff"
)

// LagrangeMultipliers solves the equality-constrained problem
//
//	min 𝒇(𝐱)  s.t.  𝒉ⱼ(𝐱) = 0
//
// by Newton iteration on the stacked KKT system
//
//	[ H  Aᵀ ] [Δ𝐱]   [ ∇𝒇 + Aᵀλ ]
//	[ A  0  ] [Δλ] = -[   𝒉(𝐱)   ]
//
// where A is the constraint Jacobian (finite differences) and H is
// approximated by the identity. The identity block is a deliberate
// quasi-Newton simplification: it keeps each iteration cheap and
// stable, but limits the convergence rate on strongly non-quadratic
// objectives compared to a full-Newton KKT solver.
//
// The iteration converges when the Lagrangian-gradient norm and the
// constraint-violation norm fall below the tolerance simultaneously.
// A singular KKT system fails with ErrNumericalInstability; exhausting
// the budget returns the current iterate with Converged=false.
func LagrangeMultipliers(f multivariate.Objective, grad multivariate.Gradient, eqs []Constraint, x0 []float64, opts *Options) (*Result, error) {
	if err := checkProblem(f, x0); err != nil {
		return nil, err
	}
	if err := checkConstraints("equality", eqs); err != nil {
		return nil, err
	}
	if len(eqs) == 0 {
		return nil, fmt.Errorf("at least one equality constraint is required: %w", numopt.ErrInvalidInput)
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	n, m := len(x0), len(eqs)
	if opt.Lambda0 != nil && len(opt.Lambda0) != m {
		return nil, errLambda(len(opt.Lambda0), m)
	}

	x := make([]float64, n)
	copy(x, x0)
	lambda := make([]float64, m)
	if opt.Lambda0 != nil {
		copy(lambda, opt.Lambda0)
	}

	c := &counter{f: f, step: opt.StepSize}
	cfs := make([]func([]float64) float64, m)
	for i, h := range eqs {
		cfs[i] = h
	}

	kkt := make([][]float64, n+m)
	for i := range kkt {
		kkt[i] = make([]float64, n+m)
	}
	rhs := make([]float64, n+m)

	// residual evaluates ∇L = ∇𝒇 + Aᵀλ and 𝒉 at (x,λ) together with
	// the squared KKT residual norm used for step damping.
	residual := func(x, lambda []float64) (gl, h []float64, jac [][]float64, norm2 float64) {
		gl = c.gradient(grad, x)
		jac = numdiff.Jacobian(cfs, x, opt.StepSize)
		h = make([]float64, m)
		for j, eq := range eqs {
			h[j] = eq(x)
			floats.AddScaled(gl, lambda[j], jac[j])
		}
		return gl, h, jac, floats.Dot(gl, gl) + floats.Dot(h, h)
	}

	gl, h, jac, res2 := residual(x, lambda)

	xt := make([]float64, n)
	lt := make([]float64, m)

	var gnorm float64
	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		gnorm = floats.Norm(gl, 2)
		if gnorm < opt.Tolerance && floats.Norm(h, 2) < opt.Tolerance {
			converged = true
			break
		}

		// Assemble [[I,Aᵀ],[A,0]] and the negated residual.
		for i := 0; i < n+m; i++ {
			row := kkt[i]
			for j := range row {
				row[j] = zero
			}
			if i < n {
				row[i] = one
				for j := 0; j < m; j++ {
					row[n+j] = jac[j][i]
				}
				rhs[i] = -gl[i]
			} else {
				copy(row[:n], jac[i-n])
				rhs[i] = -h[i-n]
			}
		}

		delta, err := linalg.Solve(kkt, rhs)
		if err != nil {
			return nil, fmt.Errorf("kkt system: %w", err)
		}

		// The identity block misjudges curvature, so a full step can
		// overshoot; halve until the KKT residual shrinks.
		step := one
		for trial := 0; ; trial++ {
			floats.AddScaledTo(xt, x, step, delta[:n])
			floats.AddScaledTo(lt, lambda, step, delta[n:])
			glt, ht, jact, rt := residual(xt, lt)
			if rt < res2 || trial >= 30 {
				copy(x, xt)
				copy(lambda, lt)
				gl, h, jac, res2 = glt, ht, jact, rt
				break
			}
			step /= two
		}
	}
	return &Result{
		X: x, F: c.eval(x),
		Iterations: iter,
		FuncEvals:  c.evals,
		GradNorm:   gnorm,
		Converged:  converged,
		Lambda:     lambda,
		Violations: h,
	}, nil
}
