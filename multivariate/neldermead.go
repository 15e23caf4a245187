// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Nelder-Mead coefficients: reflection, expansion, contraction, shrink.
const (
	nmAlpha = 1.0
	nmGamma = 2.0
	nmBeta  = 0.5
	nmDelta = 0.5
)

// initial simplex displacements, as in the scipy implementation
const (
	nmNonZeroDelta = 0.05
	nmZeroDelta    = 0.00025
)

// NelderMead minimizes 𝒇 without derivatives using a simplex of n+1
// vertices. Each iteration ranks the vertices, reflects the worst
// through the centroid of the rest and chooses reflect, expand,
// contract or shrink by comparing the reflected value against the
// best, second-worst and worst values.
//
// The search terminates when the spread of the vertex function values
// falls below the tolerance.
func NelderMead(f Objective, x0 []float64, opts *Options) (*Result, error) {
	p, x, opt, err := newProblem(f, nil, x0, opts)
	if err != nil {
		return nil, err
	}
	n := len(x)

	// Simplex: x0 plus one perturbed vertex per dimension.
	verts := make([][]float64, n+1)
	fv := make([]float64, n+1)
	verts[0] = x
	for i := 1; i <= n; i++ {
		v := make([]float64, n)
		copy(v, x)
		if v[i-1] != zero {
			v[i-1] *= one + nmNonZeroDelta
		} else {
			v[i-1] = nmZeroDelta
		}
		verts[i] = v
	}
	for i, v := range verts {
		fv[i] = p.eval(v)
	}

	order := make([]int, n+1)
	centroid := make([]float64, n)
	xr := make([]float64, n)
	xe := make([]float64, n)
	xc := make([]float64, n)

	rank := func() {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool { return fv[order[a]] < fv[order[b]] })
	}

	iter, converged := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		rank()
		best, worst := order[0], order[n]
		second := order[n-1]

		if fv[worst]-fv[best] < opt.Tolerance {
			converged = true
			break
		}

		// Centroid of every vertex except the worst.
		for j := range centroid {
			centroid[j] = zero
		}
		for _, i := range order[:n] {
			floats.Add(centroid, verts[i])
		}
		floats.Scale(one/float64(n), centroid)

		// Reflect the worst vertex through the centroid.
		for j := range xr {
			xr[j] = centroid[j] + nmAlpha*(centroid[j]-verts[worst][j])
		}
		fr := p.eval(xr)

		switch {
		case fr < fv[best]:
			// Promising direction: try to expand further.
			for j := range xe {
				xe[j] = centroid[j] + nmGamma*(xr[j]-centroid[j])
			}
			if fe := p.eval(xe); fe < fr {
				copy(verts[worst], xe)
				fv[worst] = fe
			} else {
				copy(verts[worst], xr)
				fv[worst] = fr
			}

		case fr < fv[second]:
			copy(verts[worst], xr)
			fv[worst] = fr

		default:
			// Contract, outside or inside of the centroid.
			if fr < fv[worst] {
				for j := range xc {
					xc[j] = centroid[j] + nmBeta*(xr[j]-centroid[j])
				}
			} else {
				for j := range xc {
					xc[j] = centroid[j] + nmBeta*(verts[worst][j]-centroid[j])
				}
			}
			if fc := p.eval(xc); fc < fv[worst] && fc < fr {
				copy(verts[worst], xc)
				fv[worst] = fc
			} else {
				// Shrink every vertex toward the best.
				for _, i := range order[1:] {
					for j := range verts[i] {
						verts[i][j] = verts[best][j] + nmDelta*(verts[i][j]-verts[best][j])
					}
					fv[i] = p.eval(verts[i])
				}
			}
		}
	}

	rank()
	best := order[0]
	return result(verts[best], fv[best], iter, p.evals, zero, converged), nil
}
