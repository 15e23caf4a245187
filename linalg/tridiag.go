// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"fmt"
	"math"

	"github.com/curioloop/numopt"
)

// SolveTridiag solves a tridiagonal system with the Thomas algorithm.
// The system has diag on the main diagonal, sub below it and sup above
// it, so len(sub) == len(sup) == len(diag)-1.
//
// The forward sweep has no pivoting: a vanishing reduced pivot yields
// ErrNumericalInstability. Diagonally dominant systems (the usual case
// for spline and discretized-ODE collaborators) never trigger it.
func SolveTridiag(sub, diag, sup, b []float64) ([]float64, error) {
	n := len(diag)
	switch {
	case n == 0:
		return nil, fmt.Errorf("empty system: %w", numopt.ErrInvalidInput)
	case len(sub) != n-1 || len(sup) != n-1:
		return nil, fmt.Errorf("band lengths %d/%d for order %d: %w", len(sub), len(sup), n, numopt.ErrInvalidInput)
	case len(b) != n:
		return nil, fmt.Errorf("rhs length %d for order %d: %w", len(b), n, numopt.ErrInvalidInput)
	}

	c := make([]float64, n) // reduced superdiagonal
	d := make([]float64, n) // reduced rhs

	if math.Abs(diag[0]) == zero {
		return nil, fmt.Errorf("zero pivot at row 0: %w", numopt.ErrNumericalInstability)
	}
	if n == 1 {
		return []float64{b[0] / diag[0]}, nil
	}
	c[0] = sup[0] / diag[0]
	d[0] = b[0] / diag[0]

	for i := 1; i < n; i++ {
		pivot := diag[i] - sub[i-1]*c[i-1]
		if math.Abs(pivot) == zero {
			return nil, fmt.Errorf("zero pivot at row %d: %w", i, numopt.ErrNumericalInstability)
		}
		if i < n-1 {
			c[i] = sup[i] / pivot
		}
		d[i] = (b[i] - sub[i-1]*d[i-1]) / pivot
	}

	x := make([]float64, n)
	x[n-1] = d[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = d[i] - c[i]*x[i+1]
	}
	return x, nil
}
