// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constrained

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/numopt/multivariate"
	"github.com/curioloop/numopt/numdiff"
)

// Penalty solves the constrained problem
//
//	min 𝒇(𝐱)  s.t.  𝒉ⱼ(𝐱) = 0, 𝒈ᵢ(𝐱) ≤ 0
//
// by the quadratic penalty method: each outer round minimizes
//
//	𝒇(𝐱) + μ·[Σ max(0,𝒈ᵢ(𝐱))² + Σ 𝒉ⱼ(𝐱)²]
//
// with the BFGS inner solver, then multiplies μ by the growth factor.
// The outer loop stops when the worst constraint violation drops below
// the tolerance; exhausting the budget returns Converged=false.
//
// FuncEvals accumulates the evaluations of every inner run, so the
// reported cost covers the whole composition.
func Penalty(f multivariate.Objective, grad multivariate.Gradient, eqs, ineqs []Constraint, x0 []float64, opts *Options) (*Result, error) {
	if err := checkProblem(f, x0); err != nil {
		return nil, err
	}
	if err := checkConstraints("equality", eqs); err != nil {
		return nil, err
	}
	if err := checkConstraints("inequality", ineqs); err != nil {
		return nil, err
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	x := make([]float64, len(x0))
	copy(x, x0)

	mu := opt.Penalty
	evals := 0

	inner := &multivariate.Options{
		MaxIterations: opt.InnerIterations,
		Tolerance:     opt.Tolerance,
		StepSize:      opt.StepSize,
	}

	var viol []float64
	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		merit := penaltyFunc(f, eqs, ineqs, mu)

		res, err := multivariate.BFGS(merit, penaltyGrad(grad, eqs, ineqs, mu, opt.StepSize), x, inner)
		if err != nil {
			return nil, err
		}
		x = res.X
		evals += res.FuncEvals

		viol = violations(eqs, ineqs, x)
		if worst(viol) < opt.Tolerance {
			iter++
			converged = true
			break
		}
		mu *= opt.PenaltyGrowth
	}

	evals++
	return &Result{
		X: x, F: f(x),
		Iterations: iter,
		FuncEvals:  evals,
		Converged:  converged,
		Violations: viol,
	}, nil
}

// penaltyFunc builds the quadratic merit function for one value of μ.
func penaltyFunc(f multivariate.Objective, eqs, ineqs []Constraint, mu float64) multivariate.Objective {
	return func(x []float64) float64 {
		p := zero
		for _, h := range eqs {
			v := h(x)
			p += v * v
		}
		for _, g := range ineqs {
			if v := g(x); v > zero {
				p += v * v
			}
		}
		return f(x) + mu*p
	}
}

// penaltyGrad assembles the merit gradient when the objective gradient
// is analytic, differentiating the constraints by finite differences.
// With no analytic gradient the inner solver approximates the whole
// merit function instead.
func penaltyGrad(grad multivariate.Gradient, eqs, ineqs []Constraint, mu, step float64) multivariate.Gradient {
	if grad == nil {
		return nil
	}
	return func(x []float64) []float64 {
		out := make([]float64, len(x))
		copy(out, grad(x))
		for _, h := range eqs {
			floats.AddScaled(out, two*mu*h(x), numdiff.Gradient(h, x, step))
		}
		for _, g := range ineqs {
			if v := g(x); v > zero {
				floats.AddScaled(out, two*mu*v, numdiff.Gradient(g, x, step))
			}
		}
		return out
	}
}

// AugmentedLagrangian solves the equality-constrained problem
//
//	min 𝒇(𝐱)  s.t.  𝒉ⱼ(𝐱) = 0
//
// by the method of multipliers: each outer round minimizes the
// augmented Lagrangian
//
//	𝒇(𝐱) + Σ λⱼ𝒉ⱼ(𝐱) + (μ/2)·Σ 𝒉ⱼ(𝐱)²
//
// with the BFGS inner solver, then updates λⱼ ← λⱼ + μ·𝒉ⱼ(𝐱). The
// penalty μ grows only when the violation norm fails to shrink to a
// quarter of the previous outer iterate's, so a working multiplier
// estimate is not drowned by an exploding penalty. Inequality
// constraints are out of scope by design; use Penalty for those.
func AugmentedLagrangian(f multivariate.Objective, grad multivariate.Gradient, eqs []Constraint, x0 []float64, opts *Options) (*Result, error) {
	if err := checkProblem(f, x0); err != nil {
		return nil, err
	}
	if err := checkConstraints("equality", eqs); err != nil {
		return nil, err
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	m := len(eqs)
	if opt.Lambda0 != nil && len(opt.Lambda0) != m {
		return nil, errLambda(len(opt.Lambda0), m)
	}

	x := make([]float64, len(x0))
	copy(x, x0)
	lambda := make([]float64, m)
	if opt.Lambda0 != nil {
		copy(lambda, opt.Lambda0)
	}

	mu := opt.Penalty
	evals := 0
	prevViol := math.Inf(1)

	inner := &multivariate.Options{
		MaxIterations: opt.InnerIterations,
		Tolerance:     opt.Tolerance,
		StepSize:      opt.StepSize,
	}

	h := make([]float64, m)
	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		la := auglagFunc(f, eqs, lambda, mu)

		res, err := multivariate.BFGS(la, auglagGrad(grad, eqs, lambda, mu, opt.StepSize), x, inner)
		if err != nil {
			return nil, err
		}
		x = res.X
		evals += res.FuncEvals

		viol := zero
		for j, eq := range eqs {
			h[j] = eq(x)
			viol += h[j] * h[j]
		}
		viol = math.Sqrt(viol)

		for j := range lambda {
			lambda[j] += mu * h[j]
		}

		if viol < opt.Tolerance {
			iter++
			converged = true
			break
		}
		if viol > prevViol/4 {
			mu *= opt.PenaltyGrowth
		}
		prevViol = viol
	}

	evals++
	return &Result{
		X: x, F: f(x),
		Iterations: iter,
		FuncEvals:  evals,
		Converged:  converged,
		Lambda:     lambda,
		Violations: h,
	}, nil
}

// auglagGrad is the analytic-gradient counterpart of penaltyGrad for
// the augmented Lagrangian: ∇𝒇 + Σ (λⱼ + μ𝒉ⱼ)∇𝒉ⱼ.
func auglagGrad(grad multivariate.Gradient, eqs []Constraint, lambda []float64, mu, step float64) multivariate.Gradient {
	if grad == nil {
		return nil
	}
	l := make([]float64, len(lambda))
	copy(l, lambda)
	return func(x []float64) []float64 {
		out := make([]float64, len(x))
		copy(out, grad(x))
		for j, h := range eqs {
			floats.AddScaled(out, l[j]+mu*h(x), numdiff.Gradient(h, x, step))
		}
		return out
	}
}

// auglagFunc builds the augmented Lagrangian for one (λ, μ) pair.
func auglagFunc(f multivariate.Objective, eqs []Constraint, lambda []float64, mu float64) multivariate.Objective {
	l := make([]float64, len(lambda))
	copy(l, lambda) // freeze the multipliers for this round
	return func(x []float64) float64 {
		v := f(x)
		for j, h := range eqs {
			hx := h(x)
			v += l[j]*hx + mu/two*hx*hx
		}
		return v
	}
}
