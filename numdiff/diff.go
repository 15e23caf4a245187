// Package numdiff estimates derivatives of scalar-valued functions by
// finite differences. The optimization packages fall back to it
// whenever an analytic gradient, Hessian or constraint Jacobian is not
// supplied.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
package numdiff

import "math"

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Central use the second order accuracy central difference.
	Central Method = iota
	// Forward use the first order accuracy forward difference.
	Forward
)

// Step returns the absolute step used for first-order differences at x
// when the caller does not provide one: h = √ε·max(1,|x|).
func Step(x float64) float64 {
	return sqrtEps * math.Max(1, math.Abs(x))
}

// step2 is the second-order analogue built from the cube root of ε.
func step2(x float64) float64 {
	return cubeEps * math.Max(1, math.Abs(x))
}

// Derivative estimates f′(x) with a central difference of step h.
// A non-positive h selects the default step.
func Derivative(f func(float64) float64, x, h float64) float64 {
	if h <= 0 {
		h = Step(x)
	}
	return (f(x+h) - f(x-h)) / (2 * h)
}

// DerivativeAt estimates f′(x) with the requested method. Forward
// saves one evaluation per call at the cost of one order of accuracy.
func DerivativeAt(f func(float64) float64, x, h float64, m Method) float64 {
	if m == Forward {
		if h <= 0 {
			h = Step(x)
		}
		return (f(x+h) - f(x)) / h
	}
	return Derivative(f, x, h)
}

// Second estimates f″(x) with the three-point central formula.
func Second(f func(float64) float64, x, h float64) float64 {
	if h <= 0 {
		h = step2(x)
	}
	return (f(x+h) - 2*f(x) + f(x-h)) / (h * h)
}

// Gradient estimates ∇f(x) per dimension with central differences.
// The cost is 2n evaluations of f.
func Gradient(f func([]float64) float64, x []float64, h float64) []float64 {
	n := len(x)
	g := make([]float64, n)
	xi := make([]float64, n)
	copy(xi, x)
	for i := 0; i < n; i++ {
		hi := h
		if hi <= 0 {
			hi = Step(x[i])
		}
		xi[i] = x[i] + hi
		fp := f(xi)
		xi[i] = x[i] - hi
		fm := f(xi)
		xi[i] = x[i]
		g[i] = (fp - fm) / (2 * hi)
	}
	return g
}

// Hessian estimates ∇²f(x) with central second differences. The
// off-diagonal entries use the four-point cross formula and the result
// is symmetrized, costing O(n²) evaluations of f.
func Hessian(f func([]float64) float64, x []float64, h float64) [][]float64 {
	n := len(x)
	hes := make([][]float64, n)
	for i := range hes {
		hes[i] = make([]float64, n)
	}

	xi := make([]float64, n)
	copy(xi, x)
	f0 := f(x)

	for i := 0; i < n; i++ {
		hi := h
		if hi <= 0 {
			hi = step2(x[i])
		}

		xi[i] = x[i] + hi
		fp := f(xi)
		xi[i] = x[i] - hi
		fm := f(xi)
		xi[i] = x[i]
		hes[i][i] = (fp - 2*f0 + fm) / (hi * hi)

		for j := i + 1; j < n; j++ {
			hj := h
			if hj <= 0 {
				hj = step2(x[j])
			}

			xi[i], xi[j] = x[i]+hi, x[j]+hj
			fpp := f(xi)
			xi[j] = x[j] - hj
			fpm := f(xi)
			xi[i] = x[i] - hi
			fmm := f(xi)
			xi[j] = x[j] + hj
			fmp := f(xi)
			xi[i], xi[j] = x[i], x[j]

			v := (fpp - fpm - fmp + fmm) / (4 * hi * hj)
			hes[i][j], hes[j][i] = v, v
		}
	}
	return hes
}

// Jacobian estimates the m×n Jacobian of a list of scalar functions,
// one row per function. Constraint solvers use it for the constraint
// normals when analytic derivatives are absent.
func Jacobian(fs []func([]float64) float64, x []float64, h float64) [][]float64 {
	jac := make([][]float64, len(fs))
	for i, f := range fs {
		jac[i] = Gradient(f, x, h)
	}
	return jac
}
