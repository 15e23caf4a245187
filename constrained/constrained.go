// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package constrained minimizes 𝒇(𝐱) : ℝⁿ → ℝ subject to constraints:
// a quasi-Newton solver on the KKT system for equality constraints,
// penalty and augmented-Lagrangian outer loops around the multivariate
// BFGS solver, the tableau simplex method for linear programs and
// projected gradient descent for box constraints.
//
// Equality constraints are interpreted as 𝒉(𝐱) = 0 and inequality
// constraints as 𝒈(𝐱) ≤ 0.
package constrained

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/numopt"
	"github.com/curioloop/numopt/multivariate"
	"github.com/curioloop/numopt/numdiff"
)

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
	ten  = 10.0
)

// Constraint is one scalar constraint function.
type Constraint func(x []float64) float64

// Bound is a closed interval for one coordinate.
type Bound struct {
	Lower, Upper float64
}

// Options specifies the knobs shared by the constrained solvers. A nil
// *Options or a zero field selects the documented default.
type Options struct {
	// MaxIterations bounds the outer iteration count. Default 100.
	MaxIterations int
	// Tolerance is the convergence threshold on constraint violation
	// and stationarity. Default 1e-6.
	Tolerance float64
	// InnerIterations bounds each inner BFGS run of the penalty and
	// augmented-Lagrangian methods. Default 100.
	InnerIterations int
	// Penalty is the initial penalty coefficient μ. Default 1.
	Penalty float64
	// PenaltyGrowth multiplies μ between outer rounds. Default 10.
	PenaltyGrowth float64
	// LearningRate scales the projected-gradient update. Default 0.01.
	LearningRate float64
	// StepSize is the finite-difference step for gradients and
	// constraint Jacobians. Default ≈1e-8 (√ε scaled by |x|).
	StepSize float64
	// Lambda0 seeds the Lagrange multipliers. Default all-zero.
	Lambda0 []float64
}

// Defaults for Options fields left unset.
const (
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-6
	DefaultPenalty       = 1.0
	DefaultPenaltyGrowth = 10.0
	DefaultLearningRate  = 0.01
)

func (o *Options) normalize() (Options, error) {
	var v Options
	if o != nil {
		v = *o
	}
	switch {
	case v.MaxIterations < 0 || v.InnerIterations < 0:
		return v, fmt.Errorf("iteration counts must not be negative: %w", numopt.ErrInvalidInput)
	case v.Tolerance < zero || v.LearningRate < zero:
		return v, fmt.Errorf("tolerances must not be negative: %w", numopt.ErrInvalidInput)
	case v.Penalty < zero || v.PenaltyGrowth < zero:
		return v, fmt.Errorf("penalty coefficients must not be negative: %w", numopt.ErrInvalidInput)
	case v.PenaltyGrowth != zero && v.PenaltyGrowth <= one:
		return v, fmt.Errorf("penalty growth must exceed 1: %w", numopt.ErrInvalidInput)
	}
	if v.MaxIterations == 0 {
		v.MaxIterations = DefaultMaxIterations
	}
	if v.Tolerance == zero {
		v.Tolerance = DefaultTolerance
	}
	if v.InnerIterations == 0 {
		v.InnerIterations = DefaultMaxIterations
	}
	if v.Penalty == zero {
		v.Penalty = DefaultPenalty
	}
	if v.PenaltyGrowth == zero {
		v.PenaltyGrowth = DefaultPenaltyGrowth
	}
	if v.LearningRate == zero {
		v.LearningRate = DefaultLearningRate
	}
	return v, nil
}

// Result reports the outcome of a constrained minimization.
type Result struct {
	X          []float64 // Final location.
	F          float64   // Final objective value.
	Iterations int       // Number of (outer) iterations performed.
	FuncEvals  int       // Objective evaluations, inner solvers and probes included.
	GradNorm   float64   // Stationarity measure of the last iterate, when one was computed.
	Converged  bool      // Whether the termination predicate fired before MaxIterations.
	Lambda     []float64 // Lagrange multiplier estimates, when the method produces them.
	Violations []float64 // Per-constraint violations at X: 𝒉(𝐱) signed, max(0,𝒈(𝐱)) for inequalities.
}

func errLambda(got, want int) error {
	return fmt.Errorf("lambda0 length %d for %d constraints: %w", got, want, numopt.ErrInvalidInput)
}

func checkProblem(f multivariate.Objective, x0 []float64) error {
	switch {
	case f == nil:
		return fmt.Errorf("objective function is required: %w", numopt.ErrInvalidInput)
	case len(x0) == 0:
		return fmt.Errorf("initial point must not be empty: %w", numopt.ErrInvalidInput)
	}
	return nil
}

func checkConstraints(kind string, cs []Constraint) error {
	for i, c := range cs {
		if c == nil {
			return fmt.Errorf("%s constraint %d is nil: %w", kind, i, numopt.ErrInvalidInput)
		}
	}
	return nil
}

// violations evaluates the combined violation vector at x: equalities
// contribute their signed residual, inequalities their positive part.
func violations(eqs, ineqs []Constraint, x []float64) []float64 {
	v := make([]float64, 0, len(eqs)+len(ineqs))
	for _, h := range eqs {
		v = append(v, h(x))
	}
	for _, g := range ineqs {
		v = append(v, math.Max(zero, g(x)))
	}
	return v
}

// worst returns the largest violation magnitude.
func worst(v []float64) float64 {
	if len(v) == 0 {
		return zero
	}
	return floats.Norm(v, math.Inf(1))
}

// counter counts objective evaluations across a solver run.
type counter struct {
	f     multivariate.Objective
	step  float64
	evals int
}

func (c *counter) eval(x []float64) float64 {
	c.evals++
	return c.f(x)
}

// gradient returns the analytic gradient when grad is non-nil, a
// counted central-difference estimate otherwise.
func (c *counter) gradient(grad multivariate.Gradient, x []float64) []float64 {
	if grad != nil {
		return grad(x)
	}
	c.evals += 2 * len(x)
	return numdiff.Gradient(c.f, x, c.step)
}
