// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package univariate minimizes functions of a single real variable:
// bracketing searches (golden section, Brent) for unimodal functions
// and derivative-driven iterations (gradient descent, Newton).
//
// All entry points are pure functions. Non-convergence within the
// iteration budget is reported through Result.Converged, never as an
// error; errors are reserved for invalid usage and numerical failure.
package univariate

import (
	"fmt"

	"github.com/curioloop/numopt"
)

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
)

// Objective is the function 𝒇(𝑥) : ℝ → ℝ to minimize.
type Objective func(x float64) float64

// Derivative evaluates 𝒇′(𝑥) or 𝒇″(𝑥).
type Derivative func(x float64) float64

// Minimizer is any bracket-based minimizer of this package, accepted
// by Maximize for composition.
type Minimizer func(f Objective, a, b float64, opts *Options) (*Result, error)

// Options specifies the stopping and stepping knobs shared by the
// univariate minimizers. A nil *Options or a zero field selects the
// documented default.
type Options struct {
	// MaxIterations bounds the iteration count. Default 100.
	MaxIterations int
	// Tolerance is the convergence threshold: bracket width for the
	// search methods, step and derivative magnitude for the iterative
	// ones. Default 1e-10.
	Tolerance float64
	// LearningRate scales the gradient-descent update. Default 0.01.
	LearningRate float64
	// StepSize is the finite-difference step used when a derivative
	// argument is omitted. Default ≈1e-8 (√ε scaled by |x|).
	StepSize float64
}

// Defaults for Options fields left unset.
const (
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-10
	DefaultLearningRate  = 0.01
)

func (o *Options) normalize() (Options, error) {
	var v Options
	if o != nil {
		v = *o
	}
	switch {
	case v.MaxIterations < 0:
		return v, fmt.Errorf("max iterations must not be negative: %w", numopt.ErrInvalidInput)
	case v.Tolerance < zero:
		return v, fmt.Errorf("tolerance must not be negative: %w", numopt.ErrInvalidInput)
	case v.LearningRate < zero:
		return v, fmt.Errorf("learning rate must not be negative: %w", numopt.ErrInvalidInput)
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
	return v, nil
}

// Result reports the outcome of a univariate minimization.
type Result struct {
	X          float64 // Final location.
	F          float64 // Final function value.
	Iterations int     // Number of iterations performed.
	FuncEvals  int     // Number of objective evaluations, probes included.
	Converged  bool    // Whether the termination predicate fired before MaxIterations.
}

func checkBracket(f Objective, a, b float64) error {
	switch {
	case f == nil:
		return fmt.Errorf("objective function is required: %w", numopt.ErrInvalidInput)
	case a >= b:
		return fmt.Errorf("bracket [%g,%g] is not increasing: %w", a, b, numopt.ErrInvalidInput)
	}
	return nil
}

// Maximize turns any bracket-based minimizer of this package into a
// maximizer by negating the objective and the returned function value.
// The location is returned unchanged.
func Maximize(f Objective, minimize Minimizer, a, b float64, opts *Options) (*Result, error) {
	if f == nil || minimize == nil {
		return nil, fmt.Errorf("objective and minimizer are required: %w", numopt.ErrInvalidInput)
	}
	res, err := minimize(func(x float64) float64 { return -f(x) }, a, b, opts)
	if err != nil {
		return nil, err
	}
	res.F = -res.F
	return res, nil
}
