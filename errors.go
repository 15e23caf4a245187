// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numopt provides classical numerical optimization algorithms
// as stateless pure functions: univariate search, multivariate
// unconstrained minimization and constrained minimization.
//
// The algorithm families live in the sub-packages univariate,
// multivariate and constrained. They share the dense linear solver in
// linalg and the finite-difference provider in numdiff.
//
// Every call is independent: no global state is read or written, and
// stochastic methods take their pseudo-random source explicitly.
package numopt

import "errors"

// Failure classes shared by all algorithm packages.
// Wrap with fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrInvalidInput reports a usage error (bad bracket, nil required
	// function, dimension mismatch). Detected before iteration begins.
	ErrInvalidInput = errors.New("numopt: invalid input")

	// ErrNumericalInstability reports a numerical pathology with no safe
	// continuation (zero second derivative, singular linear system).
	ErrNumericalInstability = errors.New("numopt: numerical instability")
)
