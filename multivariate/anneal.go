// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/curioloop/numopt"
)

// temperature floor that ends the annealing schedule
const annealFloor = 1e-3

// AnnealOptions configures SimulatedAnnealing.
type AnnealOptions struct {
	Options
	// InitTemp is the starting temperature. Default 100.
	InitTemp float64
	// Cooling is the geometric cooling factor in (0,1). Default 0.95.
	Cooling float64
	// Rand is the pseudo-random source. Required: passing it
	// explicitly keeps runs reproducible and the call side-effect
	// free.
	Rand *rand.Rand
}

func (o *AnnealOptions) normalize() (AnnealOptions, error) {
	if o == nil || o.Rand == nil {
		return AnnealOptions{}, fmt.Errorf("random source is required: %w", numopt.ErrInvalidInput)
	}
	v := *o
	base, err := v.Options.normalize()
	if err != nil {
		return v, err
	}
	v.Options = base
	switch {
	case v.InitTemp < zero || v.Cooling < zero || v.Cooling >= one:
		return v, fmt.Errorf("invalid cooling schedule: %w", numopt.ErrInvalidInput)
	}
	if v.InitTemp == zero {
		v.InitTemp = 100
	}
	if v.Cooling == zero {
		v.Cooling = 0.95
	}
	return v, nil
}

// SimulatedAnnealing minimizes 𝒇 by a stochastic walk that always
// accepts improvements and accepts a worse candidate with probability
// exp(-Δ𝒇/T). Candidates perturb every coordinate by a Gaussian step
// scaled with the current temperature, and T follows the geometric
// schedule Tₖ₊₁ = Cooling·Tₖ.
//
// The best location ever visited is returned. The run counts as
// converged when the schedule reaches its floor before MaxIterations.
func SimulatedAnnealing(f Objective, x0 []float64, opts *AnnealOptions) (*Result, error) {
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	p, x, _, err := newProblem(f, nil, x0, &opt.Options)
	if err != nil {
		return nil, err
	}
	n, rng := len(x), opt.Rand

	fx := p.eval(x)
	best := make([]float64, n)
	copy(best, x)
	fBest := fx

	cand := make([]float64, n)

	temp := opt.InitTemp
	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		if temp < annealFloor {
			converged = true
			break
		}

		scale := math.Sqrt(temp)
		for i := range cand {
			cand[i] = x[i] + scale*rng.NormFloat64()
		}
		fc := p.eval(cand)

		if df := fc - fx; df <= zero || rng.Float64() < math.Exp(-df/temp) {
			copy(x, cand)
			fx = fc
			if fx < fBest {
				copy(best, x)
				fBest = fx
			}
		}

		temp *= opt.Cooling
	}

	return result(best, fBest, iter, p.evals, zero, converged), nil
}
