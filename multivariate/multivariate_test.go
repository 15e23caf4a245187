// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package multivariate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/numopt"
)

// quadratic builds f(𝐱) = ½𝐱ᵀA𝐱 - 𝐛ᵀ𝐱 with its analytic gradient and
// Hessian. The unique minimizer of a PD system solves A𝐱 = 𝐛.
func quadratic(a *mat.Dense, b []float64) (Objective, Gradient, Hessian) {
	n := len(b)
	bv := mat.NewVecDense(n, b)

	f := func(x []float64) float64 {
		xv := mat.NewVecDense(n, x)
		var ax mat.VecDense
		ax.MulVec(a, xv)
		return 0.5*mat.Dot(xv, &ax) - mat.Dot(bv, xv)
	}
	g := func(x []float64) []float64 {
		var ax mat.VecDense
		ax.MulVec(a, mat.NewVecDense(n, x))
		grad := make([]float64, n)
		for i := range grad {
			grad[i] = ax.AtVec(i) - b[i]
		}
		return grad
	}
	h := func(x []float64) [][]float64 {
		hes := make([][]float64, n)
		for i := range hes {
			hes[i] = make([]float64, n)
			for j := range hes[i] {
				hes[i][j] = a.At(i, j)
			}
		}
		return hes
	}
	return f, g, h
}

var (
	quadA = mat.NewDense(2, 2, []float64{3, 1, 1, 2})
	quadB = []float64{1, 1}
	quadX = []float64{0.2, 0.4} // solves A·x = b
)

func rosenbrock(x []float64) float64 {
	a := 1 - x[0]
	b := x[1] - x[0]*x[0]
	return a*a + 100*b*b
}

func TestBFGSQuadratic(t *testing.T) {
	f, g, _ := quadratic(quadA, quadB)
	opts := &Options{MaxIterations: 200, Tolerance: 1e-9}

	analytic, err := BFGS(f, g, []float64{-3, 5}, opts)
	require.NoError(t, err)
	require.True(t, analytic.Converged)
	require.InDeltaSlice(t, quadX, analytic.X, 1e-7)
	require.Less(t, analytic.GradNorm, 1e-9)
	require.LessOrEqual(t, analytic.Iterations, opts.MaxIterations)

	// The finite-difference run agrees to within the probe step.
	approx, err := BFGS(f, nil, []float64{-3, 5}, opts)
	require.NoError(t, err)
	require.True(t, approx.Converged)
	require.InDeltaSlice(t, analytic.X, approx.X, 1e-6)
	require.Greater(t, approx.FuncEvals, analytic.FuncEvals)
}

func TestLBFGSQuadratic(t *testing.T) {
	// A 6-dimensional strictly diagonally dominant PD system.
	n := 6
	raw := make([]float64, n*n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		raw[i*n+i] = 10 + float64(i)
		if i+1 < n {
			raw[i*n+i+1] = 1
			raw[(i+1)*n+i] = 1
		}
		b[i] = float64(i + 1)
	}
	a := mat.NewDense(n, n, raw)
	f, g, _ := quadratic(a, b)

	var want mat.VecDense
	require.NoError(t, want.SolveVec(a, mat.NewVecDense(n, b)))

	res, err := LBFGS(f, g, make([]float64, n), &Options{MaxIterations: 300, Tolerance: 1e-9, Memory: 4})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, want.RawVector().Data, res.X, 1e-6)
}

func TestConjugateGradientQuadratic(t *testing.T) {
	f, g, _ := quadratic(quadA, quadB)

	res, err := ConjugateGradient(f, g, []float64{4, -2}, &Options{MaxIterations: 200, Tolerance: 1e-9})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, quadX, res.X, 1e-6)
}

func TestGradientDescentQuadratic(t *testing.T) {
	f, g, _ := quadratic(quadA, quadB)
	opts := &Options{MaxIterations: 5000, Tolerance: 1e-9, LearningRate: 0.1}

	res, err := GradientDescent(f, g, []float64{2, 2}, opts)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, quadX, res.X, 1e-6)

	// Forward-difference fallback lands on the same minimizer.
	approx, err := GradientDescent(f, nil, []float64{2, 2}, &Options{
		MaxIterations: 5000, Tolerance: 1e-6, LearningRate: 0.1, StepSize: 1e-7,
	})
	require.NoError(t, err)
	require.True(t, approx.Converged)
	require.InDeltaSlice(t, quadX, approx.X, 1e-4)
}

func TestNewtonQuadratic(t *testing.T) {
	f, g, h := quadratic(quadA, quadB)

	// Newton solves a PD quadratic in a single step.
	res, err := Newton(f, g, h, []float64{9, -7}, &Options{Tolerance: 1e-10})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.LessOrEqual(t, res.Iterations, 2)
	require.InDeltaSlice(t, quadX, res.X, 1e-8)

	// Finite-difference Hessian fallback.
	res, err = Newton(f, g, nil, []float64{9, -7}, &Options{MaxIterations: 50, Tolerance: 1e-8})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, quadX, res.X, 1e-5)
}

func TestNewtonSingularHessian(t *testing.T) {
	// f = (x+y)² has a singular Hessian everywhere; the clamped solve
	// must keep stepping instead of failing.
	f := func(x []float64) float64 { d := x[0] + x[1]; return d * d }
	g := func(x []float64) []float64 { d := 2 * (x[0] + x[1]); return []float64{d, d} }
	h := func(x []float64) [][]float64 { return [][]float64{{2, 2}, {2, 2}} }

	res, err := Newton(f, g, h, []float64{1, 2}, &Options{MaxIterations: 20, Tolerance: 1e-6})
	require.NoError(t, err)
	require.False(t, math.IsNaN(res.F))
}

func TestNelderMeadRosenbrock(t *testing.T) {
	res, err := NelderMead(rosenbrock, []float64{-1.2, 1}, &Options{MaxIterations: 2000, Tolerance: 1e-12})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, []float64{1, 1}, res.X, 1e-3)
	require.Less(t, res.F, 1e-6)
}

func TestNelderMeadSpread(t *testing.T) {
	f, _, _ := quadratic(quadA, quadB)
	res, err := NelderMead(f, []float64{1, 1}, &Options{MaxIterations: 500, Tolerance: 1e-10})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, quadX, res.X, 1e-4)
}

func TestPowellQuadratic(t *testing.T) {
	f, _, _ := quadratic(quadA, quadB)
	res, err := Powell(f, []float64{3, -3}, &Options{MaxIterations: 100, Tolerance: 1e-10})
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.InDeltaSlice(t, quadX, res.X, 1e-4)
}

func TestInvalidInputs(t *testing.T) {
	f, g, _ := quadratic(quadA, quadB)

	_, err := BFGS(nil, nil, []float64{0, 0}, nil)
	require.ErrorIs(t, err, numopt.ErrInvalidInput)

	_, err = BFGS(f, g, nil, nil)
	require.ErrorIs(t, err, numopt.ErrInvalidInput)

	_, err = GradientDescent(f, g, []float64{0, 0}, &Options{MaxIterations: -1})
	require.ErrorIs(t, err, numopt.ErrInvalidInput)

	_, err = Powell(f, []float64{0, 0}, &Options{Tolerance: -1})
	require.ErrorIs(t, err, numopt.ErrInvalidInput)

	// A gradient whose length disagrees with x is a usage error, not a panic.
	short := func(x []float64) []float64 { return []float64{x[0]} }
	_, err = BFGS(f, short, []float64{0, 0}, nil)
	require.ErrorIs(t, err, numopt.ErrInvalidInput)
}

func TestNonConvergenceReported(t *testing.T) {
	f, g, _ := quadratic(quadA, quadB)

	res, err := BFGS(f, g, []float64{100, -100}, &Options{MaxIterations: 2, Tolerance: 1e-14})
	require.NoError(t, err)
	require.False(t, res.Converged)
	require.Equal(t, 2, res.Iterations)
	require.False(t, floats.HasNaN(res.X))
}
