// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/curioloop/numopt"
)

// generations without improvement before the search declares a plateau
const plateauLimit = 25

// GeneticOptions configures GeneticAlgorithm.
type GeneticOptions struct {
	Options
	// Population is the number of individuals. Default 50.
	Population int
	// CrossoverRate is the probability a child is produced by blend
	// crossover instead of cloning a parent. Default 0.8.
	CrossoverRate float64
	// MutationRate is the per-gene probability of resampling within
	// the bounds. Default 0.1.
	MutationRate float64
	// Rand is the pseudo-random source. Required.
	Rand *rand.Rand
}

func (o *GeneticOptions) normalize() (GeneticOptions, error) {
	if o == nil || o.Rand == nil {
		return GeneticOptions{}, fmt.Errorf("random source is required: %w", numopt.ErrInvalidInput)
	}
	v := *o
	base, err := v.Options.normalize()
	if err != nil {
		return v, err
	}
	v.Options = base
	switch {
	case v.Population < 0:
		return v, fmt.Errorf("population must not be negative: %w", numopt.ErrInvalidInput)
	case v.CrossoverRate < zero || v.CrossoverRate > one:
		return v, fmt.Errorf("crossover rate must lie in [0,1]: %w", numopt.ErrInvalidInput)
	case v.MutationRate < zero || v.MutationRate > one:
		return v, fmt.Errorf("mutation rate must lie in [0,1]: %w", numopt.ErrInvalidInput)
	}
	if v.Population == 0 {
		v.Population = 50
	}
	if v.CrossoverRate == zero {
		v.CrossoverRate = 0.8
	}
	if v.MutationRate == zero {
		v.MutationRate = 0.1
	}
	return v, nil
}

// GeneticAlgorithm minimizes 𝒇 over the box given by bounds with a
// real-coded genetic search: tournament selection, arithmetic blend
// crossover, per-gene uniform mutation within the bounds, and elitism
// (the best individual always survives unchanged).
//
// Iterations are generations. The search converges early when the
// best fitness fails to improve by the tolerance for 25 consecutive
// generations (plateau detection); otherwise it runs the full budget.
func GeneticAlgorithm(f Objective, bounds []Bound, opts *GeneticOptions) (*Result, error) {
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	switch {
	case f == nil:
		return nil, fmt.Errorf("objective function is required: %w", numopt.ErrInvalidInput)
	case len(bounds) == 0:
		return nil, fmt.Errorf("per-dimension bounds are required: %w", numopt.ErrInvalidInput)
	}
	for i, b := range bounds {
		if b.Lower >= b.Upper {
			return nil, fmt.Errorf("bound %d [%g,%g] is empty: %w", i, b.Lower, b.Upper, numopt.ErrInvalidInput)
		}
	}

	n, size, rng := len(bounds), opt.Population, opt.Rand
	p := &problem{f: f, step: opt.StepSize}

	uniform := func(b Bound) float64 {
		return b.Lower + rng.Float64()*(b.Upper-b.Lower)
	}

	pop := make([][]float64, size)
	fit := make([]float64, size)
	for i := range pop {
		ind := make([]float64, n)
		for j, b := range bounds {
			ind[j] = uniform(b)
		}
		pop[i] = ind
		fit[i] = p.eval(ind)
	}

	order := make([]int, size)
	rank := func() {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return fit[order[a]] < fit[order[b]] })
	}

	// Binary tournament on fitness.
	tournament := func() []float64 {
		a, b := rng.Intn(size), rng.Intn(size)
		if fit[b] < fit[a] {
			a = b
		}
		return pop[a]
	}

	rank()
	fBest := fit[order[0]]
	stall := 0

	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		next := make([][]float64, 0, size)
		nextFit := make([]float64, 0, size)

		// Elitism: the best individual survives unchanged.
		elite := make([]float64, n)
		copy(elite, pop[order[0]])
		next = append(next, elite)
		nextFit = append(nextFit, fit[order[0]])

		for len(next) < size {
			p1, p2 := tournament(), tournament()
			child := make([]float64, n)
			if rng.Float64() < opt.CrossoverRate {
				a := rng.Float64()
				for j := range child {
					child[j] = a*p1[j] + (one-a)*p2[j]
				}
			} else {
				copy(child, p1)
			}
			for j, b := range bounds {
				if rng.Float64() < opt.MutationRate {
					child[j] = uniform(b)
				}
				child[j] = clamp(child[j], b.Lower, b.Upper)
			}
			next = append(next, child)
			nextFit = append(nextFit, p.eval(child))
		}

		pop, fit = next, nextFit
		rank()

		if fBest-fit[order[0]] < opt.Tolerance {
			stall++
		} else {
			stall = 0
		}
		fBest = fit[order[0]]

		if stall >= plateauLimit {
			iter++
			converged = true
			break
		}
	}

	return result(pop[order[0]], fBest, iter, p.evals, zero, converged), nil
}
