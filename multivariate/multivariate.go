// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package multivariate minimizes functions 𝒇(𝐱) : ℝⁿ → ℝ without
// constraints: gradient descent, conjugate gradient, quasi-Newton
// (BFGS, L-BFGS), Newton, the derivative-free Nelder-Mead and Powell
// methods, and the stochastic simulated-annealing and
// genetic-algorithm searches.
//
// When no analytic gradient is supplied the methods fall back to
// finite differences from the numdiff package; the probe evaluations
// are included in Result.FuncEvals so composed solvers can report
// their total cost.
package multivariate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/numopt"
	"github.com/curioloop/numopt/numdiff"
)

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
)

// Objective is the function 𝒇(𝐱) : ℝⁿ → ℝ to minimize.
type Objective func(x []float64) float64

// Gradient evaluates ∇𝒇(𝐱) as a fresh n-vector.
type Gradient func(x []float64) []float64

// Hessian evaluates ∇²𝒇(𝐱) as an n×n matrix of row slices.
type Hessian func(x []float64) [][]float64

// Bound is a closed interval for one coordinate.
type Bound struct {
	Lower, Upper float64
}

// Options specifies the stopping and stepping knobs shared by the
// deterministic minimizers. A nil *Options or a zero field selects the
// documented default.
type Options struct {
	// MaxIterations bounds the iteration count. Default 100.
	MaxIterations int
	// Tolerance is the convergence threshold on gradient norm, step
	// norm or simplex spread, depending on the method. Default 1e-10.
	Tolerance float64
	// LearningRate scales the gradient-descent update. Default 0.01.
	LearningRate float64
	// StepSize is the finite-difference step used when the gradient or
	// Hessian argument is omitted. Default ≈1e-8 (√ε scaled by |x|).
	StepSize float64
	// Memory is the number of correction pairs kept by LBFGS.
	// Default 10.
	Memory int
	// Restart is the conjugate-gradient restart interval.
	// Default n, the problem dimension.
	Restart int
}

// Defaults for Options fields left unset.
const (
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-10
	DefaultLearningRate  = 0.01
	DefaultMemory        = 10
)

func (o *Options) normalize() (Options, error) {
	var v Options
	if o != nil {
		v = *o
	}
	switch {
	case v.MaxIterations < 0 || v.Memory < 0 || v.Restart < 0:
		return v, fmt.Errorf("iteration counts must not be negative: %w", numopt.ErrInvalidInput)
	case v.Tolerance < zero || v.LearningRate < zero:
		return v, fmt.Errorf("tolerances must not be negative: %w", numopt.ErrInvalidInput)
	}
	if v.MaxIterations == 0 {
		v.MaxIterations = DefaultMaxIterations
	}
	if v.Tolerance == zero {
		v.Tolerance = DefaultTolerance
	}
	if v.LearningRate == zero {
		v.LearningRate = DefaultLearningRate
	}
	if v.Memory == 0 {
		v.Memory = DefaultMemory
	}
	return v, nil
}

// Result reports the outcome of a multivariate minimization.
type Result struct {
	X          []float64 // Final location.
	F          float64   // Final function value.
	Iterations int       // Number of iterations performed.
	FuncEvals  int       // Number of objective evaluations, probes included.
	GradNorm   float64   // Euclidean norm of the last gradient, when one was computed.
	Converged  bool      // Whether the termination predicate fired before MaxIterations.
}

// problem bundles the objective with its (possibly approximated)
// gradient and counts every objective evaluation.
type problem struct {
	f     Objective
	grad  Gradient
	step  float64
	evals int
}

func newProblem(f Objective, grad Gradient, x0 []float64, opts *Options) (*problem, []float64, Options, error) {
	var opt Options
	if f == nil {
		return nil, nil, opt, fmt.Errorf("objective function is required: %w", numopt.ErrInvalidInput)
	}
	if len(x0) == 0 {
		return nil, nil, opt, fmt.Errorf("initial point must not be empty: %w", numopt.ErrInvalidInput)
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, nil, opt, err
	}
	x := make([]float64, len(x0))
	copy(x, x0)
	if grad != nil {
		if g := grad(x); len(g) != len(x) {
			return nil, nil, opt, fmt.Errorf("gradient length %d for dimension %d: %w", len(g), len(x), numopt.ErrInvalidInput)
		}
	}
	return &problem{f: f, grad: grad, step: opt.StepSize}, x, opt, nil
}

func (p *problem) eval(x []float64) float64 {
	p.evals++
	return p.f(x)
}

// gradient returns the analytic gradient, or a central-difference
// estimate charged as 2n evaluations.
func (p *problem) gradient(x []float64) []float64 {
	if p.grad != nil {
		return p.grad(x)
	}
	p.evals += 2 * len(x)
	return numdiff.Gradient(p.f, x, p.step)
}

// line-search acceptance constant, as in the sufficient-decrease
// condition fₖ₊₁ ≤ fₖ + ɑλₖgₖᵀdₖ
const armijo = 1e-4

// search backtracks from the unit step along direction d until the
// sufficient-decrease condition holds, halving the step each trial.
// It returns the accepted point and value; when no trial succeeds the
// smallest step is returned so the caller can still make progress.
func (p *problem) search(x []float64, d, g []float64, fx float64) (xn []float64, fn, step float64) {
	slope := floats.Dot(g, d)
	xn = make([]float64, len(x))

	step = one
	for trial := 0; ; trial++ {
		floats.AddScaledTo(xn, x, step, d)
		fn = p.eval(xn)
		if fn <= fx+armijo*step*slope || trial >= 50 {
			return
		}
		step /= two
	}
}

// result assembles the report common to all methods.
func result(x []float64, f float64, iter, evals int, gnorm float64, ok bool) *Result {
	return &Result{
		X: x, F: f,
		Iterations: iter,
		FuncEvals:  evals,
		GradNorm:   gnorm,
		Converged:  ok,
	}
}

// identity returns a fresh n×n identity matrix.
func identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = one
	}
	return m
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}
