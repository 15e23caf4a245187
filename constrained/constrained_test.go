// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constrained

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curioloop/numopt"
)

// min x²+y² s.t. x+y=1, optimum (0.5,0.5) with multiplier λ=-1.
var (
	circleObj  = func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] }
	circleGrad = func(x []float64) []float64 { return []float64{2 * x[0], 2 * x[1]} }
	lineEq     = func(x []float64) float64 { return x[0] + x[1] - 1 }
)

func TestLagrangeMultipliers(t *testing.T) {
	res, err := LagrangeMultipliers(circleObj, circleGrad, []Constraint{lineEq}, []float64{0, 0}, &Options{Tolerance: 1e-8})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, []float64{0.5, 0.5}, res.X, 1e-6)
	require.InDelta(t, 0.5, res.F, 1e-6)
	require.InDelta(t, -1, res.Lambda[0], 1e-5)
	require.InDelta(t, 0, res.Violations[0], 1e-7)

	// Exhaustion is a partial result, not an error.
	short, err := LagrangeMultipliers(circleObj, circleGrad, []Constraint{lineEq}, []float64{5, -3}, &Options{MaxIterations: 1, Tolerance: 1e-12})
	require.NoError(t, err)
	require.False(t, short.Converged)
	require.Equal(t, 1, short.Iterations)

	_, err = LagrangeMultipliers(circleObj, circleGrad, nil, []float64{0, 0}, nil)
	require.ErrorIs(t, err, numopt.ErrInvalidInput)

	_, err = LagrangeMultipliers(circleObj, circleGrad, []Constraint{lineEq}, []float64{0, 0}, &Options{Lambda0: []float64{1, 2}})
	require.ErrorIs(t, err, numopt.ErrInvalidInput)
}

func TestPenaltyEquality(t *testing.T) {
	res, err := Penalty(circleObj, circleGrad, []Constraint{lineEq}, nil, []float64{0, 0}, nil)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, []float64{0.5, 0.5}, res.X, 1e-4)
	require.InDelta(t, 0.5, res.F, 1e-4)
	require.Less(t, worst(res.Violations), DefaultTolerance)
	require.Greater(t, res.FuncEvals, res.Iterations) // inner costs are accumulated
}

func TestPenaltyInequality(t *testing.T) {
	// min (x-2)²+(y-2)² s.t. x+y ≤ 2 → optimum (1,1).
	f := func(x []float64) float64 {
		return (x[0]-2)*(x[0]-2) + (x[1]-2)*(x[1]-2)
	}
	ineq := Constraint(func(x []float64) float64 { return x[0] + x[1] - 2 })

	res, err := Penalty(f, nil, nil, []Constraint{ineq}, []float64{0, 0}, nil)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, []float64{1, 1}, res.X, 1e-3)
	require.LessOrEqual(t, ineq(res.X), DefaultTolerance)
}

func TestAugmentedLagrangian(t *testing.T) {
	res, err := AugmentedLagrangian(circleObj, circleGrad, []Constraint{lineEq}, []float64{0, 0}, nil)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, []float64{0.5, 0.5}, res.X, 1e-4)
	require.InDelta(t, 0.5, res.F, 1e-4)
	require.InDelta(t, -1, res.Lambda[0], 1e-3)

	// The finite-difference path agrees with the analytic one.
	fd, err := AugmentedLagrangian(circleObj, nil, []Constraint{lineEq}, []float64{0, 0}, nil)
	require.NoError(t, err)
	require.True(t, fd.Converged)
	require.InDeltaSlice(t, res.X, fd.X, 1e-4)
}

func TestSimplex(t *testing.T) {
	// max x+y s.t. x+y ≤ 4, 2x+y ≤ 6 → vertex (2,2), value 4.
	res, err := Simplex(
		[]float64{-1, -1},
		[][]float64{{1, 1}, {2, 1}},
		[]float64{4, 6},
		nil)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, []float64{2, 2}, res.X, 1e-9)
	require.InDelta(t, -4, res.F, 1e-9)
}

func TestSimplexUnbounded(t *testing.T) {
	// max x s.t. -x ≤ 0: no constraint caps x.
	res, err := Simplex([]float64{-1}, [][]float64{{-1}}, []float64{0}, nil)
	require.NoError(t, err)
	require.False(t, res.Converged)
	require.True(t, math.IsInf(res.X[0], 1))
	require.True(t, math.IsInf(res.F, -1))
}

func TestSimplexSlackOptimum(t *testing.T) {
	// Non-negative costs: the origin is already optimal.
	res, err := Simplex([]float64{1, 2}, [][]float64{{1, 1}}, []float64{5}, nil)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, []float64{0, 0}, res.X, 1e-12)
	require.Zero(t, res.F)
	require.Zero(t, res.Iterations)
}

func TestSimplexInvalid(t *testing.T) {
	_, err := Simplex(nil, [][]float64{{1}}, []float64{1}, nil)
	require.ErrorIs(t, err, numopt.ErrInvalidInput)

	_, err = Simplex([]float64{1}, [][]float64{{1, 2}}, []float64{1}, nil)
	require.ErrorIs(t, err, numopt.ErrInvalidInput)

	// Negative bound: the slack basis would start infeasible.
	_, err = Simplex([]float64{-1}, [][]float64{{1}}, []float64{-1}, nil)
	require.ErrorIs(t, err, numopt.ErrInvalidInput)
}

func TestProjectedGradient(t *testing.T) {
	bounds := []Bound{{0, 1}, {-1, 1}}

	// Unconstrained optimum (3,-2) sits outside the box; the clamped
	// optimum is (1,-1). Every point the objective sees must already
	// be inside the box.
	f := func(x []float64) float64 {
		for i, b := range bounds {
			if x[i] < b.Lower || x[i] > b.Upper {
				t.Fatal("infeasible evaluation", x)
			}
		}
		return (x[0]-3)*(x[0]-3) + (x[1]+2)*(x[1]+2)
	}
	grad := func(x []float64) []float64 {
		return []float64{2 * (x[0] - 3), 2 * (x[1] + 2)}
	}

	res, err := ProjectedGradient(f, grad, bounds, []float64{5, 5}, &Options{
		MaxIterations: 500, Tolerance: 1e-9, LearningRate: 0.1,
	})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, []float64{1, -1}, res.X, 1e-6)

	_, err = ProjectedGradient(f, grad, bounds[:1], []float64{0, 0}, nil)
	require.ErrorIs(t, err, numopt.ErrInvalidInput)
}
