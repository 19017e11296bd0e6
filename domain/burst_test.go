// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package domain

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/geom"
)

func Test_burstDomain_single(tst *testing.T) {

	chk.PrintTitle("BurstDomain resolves a NonInteractionSingle back to a bare Single")

	env, w := newTestEnv(1e-6)
	d := addBareSingle(env, w, geom.New(5e-7, 5e-7, 5e-7))
	grown := MakeNewDomain(env, 0, d)

	out := BurstDomain(env.World, env.Reg, env.Shells, env.Queue, env.Sampler, env.Rng, 1e-3, grown)
	if len(out) != 1 {
		tst.Fatalf("expected exactly one resulting Single, got %d", len(out))
	}
	if out[0].Kind != NonInteractionSingle {
		tst.Fatalf("expected NonInteractionSingle, got %s", out[0].Kind)
	}
	if _, ok := env.Reg.Lookup(grown.Id); ok {
		tst.Fatalf("bursted domain should have been removed from the registry")
	}
	if _, ok := w.Get(d.Particle); !ok {
		tst.Fatalf("bursting must not remove the particle itself")
	}
}

func Test_burstDomain_pair(tst *testing.T) {

	chk.PrintTitle("BurstDomain resolves a Pair back into two bare Singles")

	env, w := newTestEnv(1e-6)
	d1 := addBareSingle(env, w, geom.New(5e-7, 5e-7, 5e-7))
	addBareSingle(env, w, geom.New(5e-7+1.05e-8, 5e-7, 5e-7))

	pair := MakeNewDomain(env, 1e-9, d1)
	if pair.Kind != Pair {
		tst.Fatalf("setup failed: expected Pair, got %s", pair.Kind)
	}

	out := BurstDomain(env.World, env.Reg, env.Shells, env.Queue, env.Sampler, env.Rng, 2e-9, pair)
	if len(out) != 2 {
		tst.Fatalf("expected two resulting Singles, got %d", len(out))
	}
	chk.Int(tst, "particles remaining in world", w.NumParticles(), 2)
}
