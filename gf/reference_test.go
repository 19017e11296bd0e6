// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf

import (
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_reference01(tst *testing.T) {

	chk.PrintTitle("reference01")

	rng := rand.New(rand.NewSource(99))
	r := Reference{}

	for i := 0; i < 1000; i++ {
		dt, kind := r.DetermineSingleEvent(1e-12, 1e-8, 0, 0, 0, rng)
		if dt < 0 {
			tst.Fatalf("negative dt sampled")
		}
		radius := r.DrawSingleRadius(1e-12, 1e-8, 0, 0, dt, kind, rng)
		if radius < 0 || radius > 1e-8 {
			tst.Fatalf("radius %v out of [0,a]", radius)
		}
		if kind != SingleEscape && kind != SingleReaction {
			tst.Fatalf("unexpected kind %v", kind)
		}
	}
}

func Test_reference02(tst *testing.T) {

	chk.PrintTitle("reference02 pair")

	rng := rand.New(rand.NewSource(7))
	r := Reference{}
	sigma, a := 5e-9, 3e-8

	for i := 0; i < 1000; i++ {
		dt, kind := r.DeterminePairEvent(2e-12, a, sigma, sigma, 1e3, rng)
		iv := r.DrawPairIV(2e-12, a, sigma, sigma, dt, kind, rng)
		if iv < sigma-1e-15 || iv > a+1e-15 {
			tst.Fatalf("iv %v out of [sigma,a]", iv)
		}
	}
}
