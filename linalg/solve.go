// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linalg provides the dense linear-algebra primitives shared by
// the optimization packages: Gaussian elimination with partial pivoting
// and a tridiagonal (Thomas) solver.
//
// Matrices are slices of row slices. Inputs are never mutated: every
// solver works on a private copy of the system.
package linalg

import (
	"fmt"
	"math"

	"github.com/curioloop/numopt"
)

const (
	zero = 0.0
	one  = 1.0
)

// Solve computes x such that a·x = b using Gaussian elimination with
// partial pivoting. The matrix must be square and match len(b).
//
// A pivot of exactly zero after row exchange means the system is
// singular and yields ErrNumericalInstability. Callers that prefer
// regularization over failure should use SolveClamped.
func Solve(a [][]float64, b []float64) ([]float64, error) {
	m, v, err := checkSystem(a, b)
	if err != nil {
		return nil, err
	}
	if err = eliminate(m, v, zero); err != nil {
		return nil, err
	}
	return backSubstitute(m, v), nil
}

// SolveClamped is Solve with pivot regularization: any pivot whose
// magnitude falls below floor is replaced by ±floor before division, so
// the elimination always completes. The result for a genuinely singular
// system is one of its least-surprising solutions, not an error.
//
// The multivariate Newton solver relies on this policy to step through
// iterates where the Hessian is numerically singular.
func SolveClamped(a [][]float64, b []float64, floor float64) ([]float64, error) {
	m, v, err := checkSystem(a, b)
	if err != nil {
		return nil, err
	}
	if floor <= zero {
		floor = 1e-12
	}
	_ = eliminate(m, v, floor) // cannot fail with a positive floor
	return backSubstitute(m, v), nil
}

// checkSystem validates shapes and copies the system so the caller's
// data stays untouched.
func checkSystem(a [][]float64, b []float64) ([][]float64, []float64, error) {
	n := len(a)
	switch {
	case n == 0:
		return nil, nil, fmt.Errorf("empty system: %w", numopt.ErrInvalidInput)
	case len(b) != n:
		return nil, nil, fmt.Errorf("rhs length %d for %d equations: %w", len(b), n, numopt.ErrInvalidInput)
	}
	m := make([][]float64, n)
	for i, row := range a {
		if len(row) != n {
			return nil, nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), n, numopt.ErrInvalidInput)
		}
		m[i] = make([]float64, n)
		copy(m[i], row)
	}
	v := make([]float64, n)
	copy(v, b)
	return m, v, nil
}

// eliminate reduces the system to upper-triangular form in place.
// With floor > 0 small pivots are clamped instead of rejected.
func eliminate(m [][]float64, v []float64, floor float64) error {
	n := len(m)
	for k := 0; k < n; k++ {
		// Partial pivoting: bring the largest remaining entry of the
		// column onto the diagonal.
		p := k
		for i := k + 1; i < n; i++ {
			if math.Abs(m[i][k]) > math.Abs(m[p][k]) {
				p = i
			}
		}
		if p != k {
			m[k], m[p] = m[p], m[k]
			v[k], v[p] = v[p], v[k]
		}

		pivot := m[k][k]
		if math.Abs(pivot) <= floor {
			if floor <= zero {
				return fmt.Errorf("singular system at pivot %d: %w", k, numopt.ErrNumericalInstability)
			}
			pivot = math.Copysign(floor, pivot)
			m[k][k] = pivot
		}

		for i := k + 1; i < n; i++ {
			f := m[i][k] / pivot
			if f == zero {
				continue
			}
			m[i][k] = zero
			for j := k + 1; j < n; j++ {
				m[i][j] -= f * m[k][j]
			}
			v[i] -= f * v[k]
		}
	}
	return nil
}

func backSubstitute(m [][]float64, v []float64) []float64 {
	n := len(m)
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := v[i]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}
	return x
}
