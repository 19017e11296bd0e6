// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_box01(tst *testing.T) {

	chk.PrintTitle("box01")

	b := Box{L: 10}

	chk.Scalar(tst, "wrap(11,10)", 1e-15, b.ApplyBoundary(New(11, -1, 5)).X, 1)
	chk.Scalar(tst, "wrap(-1,10)", 1e-15, b.ApplyBoundary(New(11, -1, 5)).Y, 9)
	chk.Scalar(tst, "wrap(5,10)", 1e-15, b.ApplyBoundary(New(11, -1, 5)).Z, 5)

	// minimum image distance across the periodic boundary
	a := New(0.5, 0, 0)
	c := New(9.5, 0, 0)
	chk.Scalar(tst, "periodic distance", 1e-15, b.Distance(a, c), 1)
}

func Test_box02(tst *testing.T) {

	chk.PrintTitle("box02")

	b := Box{L: 10}
	a := New(9.9, 5, 5)
	ref := New(0.1, 5, 5)
	tr := b.CyclicTranspose(a, ref)
	chk.Scalar(tst, "transposed.X", 1e-15, tr.X, -0.1)
}
