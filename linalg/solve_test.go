// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/numopt"
)

func TestSolve(t *testing.T) {

	a := [][]float64{
		{2, 1, -1},
		{-3, -1, 2},
		{-2, 1, 2},
	}
	b := []float64{8, -11, -3}

	x, err := Solve(a, b)
	switch {
	case err != nil:
		t.Fatal(err)
	case !floats.EqualApprox(x, []float64{2, 3, -1}, 1e-12):
		t.Fatal("unexpected solution", x)
	case a[0][0] != 2 || b[0] != 8:
		t.Fatal("inputs mutated")
	}

	// Cross-check an asymmetric 4x4 against the gonum dense solver.
	raw := []float64{
		4, -2, 1, 3,
		1, 5, -1, 2,
		2, 1, 6, -1,
		-1, 3, 2, 7,
	}
	a4 := [][]float64{raw[0:4], raw[4:8], raw[8:12], raw[12:16]}
	b4 := []float64{1, -2, 3, 0.5}

	x4, err := Solve(a4, b4)
	if err != nil {
		t.Fatal(err)
	}

	var ref mat.VecDense
	if err = ref.SolveVec(mat.NewDense(4, 4, raw), mat.NewVecDense(4, b4)); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(x4, ref.RawVector().Data, 1e-10) {
		t.Fatal("disagrees with reference solver", x4, ref.RawVector().Data)
	}
}

func TestSolveSingular(t *testing.T) {

	a := [][]float64{
		{1, 2},
		{2, 4},
	}
	b := []float64{3, 6}

	if _, err := Solve(a, b); !errors.Is(err, numopt.ErrNumericalInstability) {
		t.Fatal("expected instability error, got", err)
	}

	// The clamped variant must complete and return finite values.
	x, err := SolveClamped(a, b, 1e-12)
	switch {
	case err != nil:
		t.Fatal(err)
	case math.IsNaN(x[0]) || math.IsInf(x[0], 0):
		t.Fatal("non-finite clamped solution", x)
	}
}

func TestSolveInvalid(t *testing.T) {

	cases := []struct {
		a [][]float64
		b []float64
	}{
		{nil, nil},
		{[][]float64{{1, 2}}, []float64{1}},         // non-square
		{[][]float64{{1, 0}, {0, 1}}, []float64{1}}, // rhs mismatch
	}
	for i, c := range cases {
		if _, err := Solve(c.a, c.b); !errors.Is(err, numopt.ErrInvalidInput) {
			t.Fatal("case", i, "expected invalid input, got", err)
		}
	}
}

func TestSolveTridiag(t *testing.T) {

	//  [ 2 -1  0 ]   [1]
	//  [-1  2 -1 ] x=[0]
	//  [ 0 -1  2 ]   [1]
	sub := []float64{-1, -1}
	diag := []float64{2, 2, 2}
	sup := []float64{-1, -1}
	b := []float64{1, 0, 1}

	x, err := SolveTridiag(sub, diag, sup, b)
	switch {
	case err != nil:
		t.Fatal(err)
	case !floats.EqualApprox(x, []float64{1, 1, 1}, 1e-12):
		t.Fatal("unexpected solution", x)
	}

	// Order 1 has empty bands and must reduce to a scalar division.
	x1, err := SolveTridiag(nil, []float64{2}, nil, []float64{4})
	switch {
	case err != nil:
		t.Fatal(err)
	case len(x1) != 1 || x1[0] != 2:
		t.Fatal("unexpected order-1 solution", x1)
	}
	if _, err = SolveTridiag(nil, []float64{0}, nil, []float64{4}); !errors.Is(err, numopt.ErrNumericalInstability) {
		t.Fatal("expected instability, got", err)
	}

	if _, err = SolveTridiag(sub, diag, sup, []float64{1}); !errors.Is(err, numopt.ErrInvalidInput) {
		t.Fatal("expected invalid input, got", err)
	}
	if _, err = SolveTridiag([]float64{1}, []float64{0, 1}, []float64{1}, []float64{1, 1}); !errors.Is(err, numopt.ErrNumericalInstability) {
		t.Fatal("expected instability, got", err)
	}
}
