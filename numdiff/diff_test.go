package numdiff

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestDerivative(t *testing.T) {

	f := math.Sin
	for _, x := range []float64{-2, -0.5, 0, 1, 3} {
		d := Derivative(f, x, 0)
		if math.Abs(d-math.Cos(x)) > 1e-7 {
			t.Fatal("central derivative off at", x, d)
		}
		d = DerivativeAt(f, x, 0, Forward)
		if math.Abs(d-math.Cos(x)) > 1e-5 {
			t.Fatal("forward derivative off at", x, d)
		}
	}

	// Explicit step must be used verbatim.
	var lo, hi float64
	probe := func(x float64) float64 {
		if lo == 0 || x < lo {
			lo = x
		}
		if hi == 0 || x > hi {
			hi = x
		}
		return x * x
	}
	_ = Derivative(probe, 1, 1e-4)
	if math.Abs(hi-1-1e-4) > 1e-12 || math.Abs(1-lo-1e-4) > 1e-12 {
		t.Fatal("explicit step not honored", lo, hi)
	}
}

func TestSecond(t *testing.T) {

	f := func(x float64) float64 { return math.Exp(x) }
	for _, x := range []float64{-1, 0, 0.5, 2} {
		d := Second(f, x, 0)
		if math.Abs(d-math.Exp(x)) > 1e-5*math.Exp(x) {
			t.Fatal("second derivative off at", x, d)
		}
	}
}

func TestGradient(t *testing.T) {

	// f = x·sin(y) + x³
	f := func(v []float64) float64 { return v[0]*math.Sin(v[1]) + v[0]*v[0]*v[0] }
	x := []float64{1.2, -0.7}
	want := []float64{math.Sin(x[1]) + 3*x[0]*x[0], x[0] * math.Cos(x[1])}

	g := Gradient(f, x, 0)
	switch {
	case !floats.EqualApprox(g, want, 1e-6):
		t.Fatal("unexpected gradient", g, want)
	case x[0] != 1.2 || x[1] != -0.7:
		t.Fatal("input mutated")
	}
}

func TestHessian(t *testing.T) {

	// Quadratic with known constant Hessian [[4,1],[1,6]].
	f := func(v []float64) float64 {
		return 2*v[0]*v[0] + v[0]*v[1] + 3*v[1]*v[1]
	}
	h := Hessian(f, []float64{0.3, -1.1}, 0)

	want := [][]float64{{4, 1}, {1, 6}}
	for i := range want {
		if !floats.EqualApprox(h[i], want[i], 1e-4) {
			t.Fatal("unexpected hessian row", i, h[i])
		}
	}
	if h[0][1] != h[1][0] {
		t.Fatal("hessian not symmetric")
	}
}

func TestJacobian(t *testing.T) {

	fs := []func([]float64) float64{
		func(v []float64) float64 { return v[0] + 2*v[1] },
		func(v []float64) float64 { return v[0] * v[1] },
	}
	x := []float64{2, 3}
	jac := Jacobian(fs, x, 0)

	switch {
	case len(jac) != 2:
		t.Fatal("unexpected rows")
	case !floats.EqualApprox(jac[0], []float64{1, 2}, 1e-6):
		t.Fatal("unexpected row 0", jac[0])
	case !floats.EqualApprox(jac[1], []float64{3, 2}, 1e-6):
		t.Fatal("unexpected row 1", jac[1])
	}
}
