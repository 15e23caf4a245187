// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/numopt/univariate"
)

// Powell minimizes 𝒇 without derivatives by successive line
// minimizations. Each cycle minimizes along every direction of the
// current set (initially the coordinate axes) using Brent's univariate
// method, then replaces the direction of largest decrease with the
// total cycle displacement and line-minimizes once along it, so the
// set drifts toward mutually conjugate directions.
//
// The cycle converges when the function decrease over a full sweep
// falls below the tolerance.
//
// M.J.D. Powell, 'An efficient method for finding the minimum of a
// function of several variables without calculating derivatives',
// Computer Journal 7, 1964.
func Powell(f Objective, x0 []float64, opts *Options) (*Result, error) {
	p, x, opt, err := newProblem(f, nil, x0, opts)
	if err != nil {
		return nil, err
	}
	n := len(x)

	dirs := identity(n)
	fx := p.eval(x)

	lineOpts := &univariate.Options{
		MaxIterations: univariate.DefaultMaxIterations,
		Tolerance:     math.Max(opt.Tolerance, 1e-12),
	}

	// minimize along u from x, returning the improved point and value
	xt := make([]float64, n)
	lineMin := func(u []float64, fx float64) float64 {
		g := func(t float64) float64 {
			floats.AddScaledTo(xt, x, t, u)
			return p.eval(xt)
		}
		// Expand the bracket until both ends sit above the center.
		a, b := -one, one
		fa, fb := g(a), g(b)
		for k := 0; k < 30 && fa < fx; k++ {
			a *= two
			fa = g(a)
		}
		for k := 0; k < 30 && fb < fx; k++ {
			b *= two
			fb = g(b)
		}
		res, _ := univariate.Brent(g, a, b, lineOpts) // bracket is valid by construction
		if res.F < fx {
			floats.AddScaled(x, res.X, u)
			return res.F
		}
		return fx
	}

	xPrev := make([]float64, n)
	delta := make([]float64, n)

	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		f0 := fx
		copy(xPrev, x)

		bigDec, bigIdx := zero, 0
		for i, u := range dirs {
			fn := lineMin(u, fx)
			if dec := fx - fn; dec > bigDec {
				bigDec, bigIdx = dec, i
			}
			fx = fn
		}

		if f0-fx < opt.Tolerance {
			iter++
			converged = true
			break
		}

		// Keep the average descent direction of the whole cycle.
		floats.SubTo(delta, x, xPrev)
		if floats.Norm(delta, 2) > zero {
			copy(dirs[bigIdx], delta)
			fx = lineMin(dirs[bigIdx], fx)
		}
	}

	return result(x, fx, iter, p.evals, zero, converged), nil
}
