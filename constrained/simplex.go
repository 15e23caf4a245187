// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constrained

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/numopt"
)

// entries below this magnitude are treated as zero during pivoting
const pivotEps = 1e-10

// Simplex solves the linear program
//
//	min 𝐜ᵀ𝐱  s.t.  A𝐱 ≤ 𝐛, 𝐱 ≥ 0
//
// with the dense tableau method. Slack variables extend the system to
// [A|I|𝐛] with the identity as the initial basis, and the appended
// objective row carries 𝐜 directly (minimizing 𝐜ᵀ𝐱 as maximization of
// -𝐜ᵀ𝐱). Pivot selection is deterministic:
//
//   - entering variable: most negative objective-row coefficient,
//     first found on ties;
//   - leaving variable: minimum ratio over positive pivot-column
//     entries, first found on ties.
//
// The tableau is optimal when no negative objective coefficient
// remains. When a negative column admits no leaving row the program is
// unbounded below, reported as the sentinel X=[+Inf,...], F=-Inf with
// Converged=false rather than an error.
//
// Every entry of 𝐛 must be non-negative so the slack identity is a
// feasible starting basis; a negative entry is rejected as invalid
// input (no two-phase initialization is performed).
func Simplex(c []float64, a [][]float64, b []float64, opts *Options) (*Result, error) {
	n, m := len(c), len(a)
	switch {
	case n == 0:
		return nil, fmt.Errorf("objective coefficients are required: %w", numopt.ErrInvalidInput)
	case m == 0 || len(b) != m:
		return nil, fmt.Errorf("constraint rows %d and bounds %d must match: %w", m, len(b), numopt.ErrInvalidInput)
	}
	for i, row := range a {
		if len(row) != n {
			return nil, fmt.Errorf("constraint row %d has %d coefficients, want %d: %w", i, len(row), n, numopt.ErrInvalidInput)
		}
	}
	for i, v := range b {
		if v < zero {
			return nil, fmt.Errorf("bound %d is negative; the slack basis requires 𝐛 ≥ 0: %w", i, numopt.ErrInvalidInput)
		}
	}
	opt, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	// Tableau: m constraint rows [A|I|b] plus the objective row.
	cols := n + m + 1
	tab := make([][]float64, m+1)
	for i := 0; i < m; i++ {
		row := make([]float64, cols)
		copy(row, a[i])
		row[n+i] = one
		row[cols-1] = b[i]
		tab[i] = row
	}
	obj := make([]float64, cols)
	copy(obj, c)
	tab[m] = obj

	// basis[i] is the variable index owning constraint row i.
	basis := make([]int, m)
	for i := range basis {
		basis[i] = n + i
	}

	iter, optimal := 0, false
	for ; iter < opt.MaxIterations; iter++ {
		// Entering column: most negative objective coefficient.
		enter := -1
		for j := 0; j < cols-1; j++ {
			if obj[j] < -pivotEps && (enter < 0 || obj[j] < obj[enter]) {
				enter = j
			}
		}
		if enter < 0 {
			optimal = true
			break
		}

		// Leaving row: minimum ratio over positive column entries.
		leave := -1
		ratio := math.Inf(1)
		for i := 0; i < m; i++ {
			if tab[i][enter] > pivotEps {
				if r := tab[i][cols-1] / tab[i][enter]; r < ratio {
					ratio, leave = r, i
				}
			}
		}
		if leave < 0 {
			// Unbounded: the objective decreases without limit.
			x := make([]float64, n)
			for j := range x {
				x[j] = math.Inf(1)
			}
			return &Result{
				X: x, F: math.Inf(-1),
				Iterations: iter,
				Converged:  false,
			}, nil
		}

		// Pivot: normalize the leaving row, eliminate the column.
		pivot := tab[leave][enter]
		floats.Scale(one/pivot, tab[leave])
		for i := 0; i <= m; i++ {
			if i == leave {
				continue
			}
			if f := tab[i][enter]; f != zero {
				floats.AddScaled(tab[i], -f, tab[leave])
			}
		}
		basis[leave] = enter
	}

	x := make([]float64, n)
	for i, v := range basis {
		if v < n {
			x[v] = tab[i][cols-1]
		}
	}
	return &Result{
		X: x, F: floats.Dot(c, x),
		Iterations: iter,
		Converged:  optimal,
	}, nil
}
