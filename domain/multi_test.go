// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/geom"
)

func Test_fireMulti_diffusesWithoutEscaping(tst *testing.T) {

	chk.PrintTitle("FireMulti: a tight cluster diffuses without reacting or escaping")

	env, w := newTestEnv(1e-6)
	center := geom.New(5e-7, 5e-7, 5e-7)
	d1 := addBareSingle(env, w, center)
	addBareSingle(env, w, geom.Add(center, geom.New(1.01e-8, 0, 0)))
	addBareSingle(env, w, geom.Add(center, geom.New(-1.01e-8, 0, 0)))

	multi := MakeNewDomain(env, 1e-9, d1)
	if multi.Kind != Multi {
		tst.Fatalf("setup failed: expected Multi, got %s", multi.Kind)
	}
	multi.Dt = 1e-15 // tiny BD step: displacement must stay well inside the member shells

	res := FireMulti(env, multi)
	if res.HasReaction {
		tst.Fatalf("no reaction rule was configured; none should have fired")
	}
	if res.HasEscape {
		tst.Fatalf("a 1e-15s step should never carry a member out of its shell")
	}
	chk.Int(tst, "members unchanged", len(multi.Members), 3)
}

func Test_multiHasEscaped_detectsOutOfShellMember(tst *testing.T) {

	chk.PrintTitle("multiHasEscaped flags a member placed outside every shell")

	env, w := newTestEnv(1e-6)
	center := geom.New(5e-7, 5e-7, 5e-7)
	d1 := addBareSingle(env, w, center)
	addBareSingle(env, w, geom.Add(center, geom.New(1.01e-8, 0, 0)))
	addBareSingle(env, w, geom.Add(center, geom.New(-1.01e-8, 0, 0)))

	multi := MakeNewDomain(env, 1e-9, d1)
	if multi.Kind != Multi {
		tst.Fatalf("setup failed: expected Multi, got %s", multi.Kind)
	}

	// Forcibly move a member far outside its shell.
	w.UpdateParticle(multi.Members[0], geom.Add(center, geom.New(1e-7, 0, 0)))

	if !multiHasEscaped(w, env.Shells, multi) {
		tst.Fatalf("expected escape to be detected")
	}
}
