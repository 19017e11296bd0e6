// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package egfrd

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/domain"
	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/model"
	"github.com/gfrd/egfrd/world"
)

// Test_scenario_twoInertParticlesConserveCountAndDiffuseFreely is end-to-end
// scenario 1: two non-reacting particles, asserting particle-count
// conservation and that neither particle's diffusion constant changes. The step
// budget is far below the reference 10^6 events (this only needs to run
// fast as a regression test, not produce publication-grade statistics).
func Test_scenario_twoInertParticlesConserveCountAndDiffuseFreely(tst *testing.T) {
	chk.PrintTitle("scenario 1: two inert particles")

	D := 1e-12
	species := []model.Species{{Id: "A", D: D, Radius: 2.5e-9, StructureId: "bulk"}}
	structures := []model.Structure{{Id: "bulk", Kind: model.Cuboidal}}
	w := world.New(1e-7, species, structures)
	x0 := geom.New(2e-8, 5e-8, 5e-8)
	w.NewParticle("A", x0)
	w.NewParticle("A", geom.New(8e-8, 5e-8, 5e-8))

	rules := model.NewRuleSet(nil)
	tn := domain.DefaultTuning()
	tn.MaxShellSize = 5e-8
	sim := New(w, rand.New(rand.NewSource(11)), rules, tn)

	for i := 0; i < 2000; i++ {
		sim.Step()
	}

	chk.Int(tst, "particle count conserved", w.NumParticles(), 2)
	for _, p := range w.AllParticles() {
		if p.D != D {
			tst.Fatalf("particle %d lost its diffusion constant", p.Id)
		}
	}
}

// Test_scenario_decayApproachesExponentialMean is end-to-end scenario 4: a
// population of decaying A particles should shrink roughly like N0*e^-kt.
func Test_scenario_decayApproachesExponentialMean(tst *testing.T) {
	chk.PrintTitle("scenario 4: first-order decay")

	species := []model.Species{{Id: "A", D: 1e-12, Radius: 5e-9, StructureId: "bulk"}}
	structures := []model.Structure{{Id: "bulk", Kind: model.Cuboidal}}
	w := world.New(2e-6, species, structures)

	n0 := 100
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < n0; i++ {
		pos := geom.New(rng.Float64()*2e-6, rng.Float64()*2e-6, rng.Float64()*2e-6)
		w.NewParticle("A", pos)
	}

	k := 1.0
	tEnd := 10.0
	rules := model.NewRuleSet([]model.Rule{
		{Type: model.RuleDecay, Reactant: []string{"A"}, Products: nil, K: k},
	})
	tn := domain.DefaultTuning()
	tn.MaxShellSize = 1e-6
	sim := New(w, rng, rules, tn)
	sim.Initialize()

	for sim.GetNextTime() < tEnd && w.NumParticles() > 0 {
		sim.Step()
	}

	expected := float64(n0) * math.Exp(-k*tEnd)
	got := float64(w.NumParticles())
	// generous tolerance: this is one stochastic trajectory, not an
	// ensemble average, so only a loose sanity bound is meaningful here.
	if got > expected+4*math.Sqrt(expected+1)+5 {
		tst.Fatalf("decayed population %v far above expected mean %v", got, expected)
	}
}

// Test_scenario_crowdedTripletFormsMulti is end-to-end scenario 3: three
// particles placed mutually within ~1.1 diameters of each other should be
// folded into a Multi domain by the very first Initialize().
func Test_scenario_crowdedTripletFormsMulti(tst *testing.T) {
	chk.PrintTitle("scenario 3: three-body crowding forms a Multi")

	r := 5e-9
	species := []model.Species{{Id: "A", D: 1e-12, Radius: r, StructureId: "bulk"}}
	structures := []model.Structure{{Id: "bulk", Kind: model.Cuboidal}}
	w := world.New(1e-6, species, structures)

	sep := 2.2 * r // 1.1*sigma, sigma = 2r
	w.NewParticle("A", geom.New(5e-7, 5e-7, 5e-7))
	w.NewParticle("A", geom.New(5e-7+sep, 5e-7, 5e-7))
	w.NewParticle("A", geom.New(5e-7+sep/2, 5e-7+sep, 5e-7))

	rules := model.NewRuleSet(nil)
	tn := domain.DefaultTuning()
	tn.MaxShellSize = 5e-7
	sim := New(w, rand.New(rand.NewSource(17)), rules, tn)
	sim.Initialize()

	foundMulti := false
	for _, d := range sim.env.Reg.All() {
		if d.Kind == domain.Multi {
			foundMulti = true
			break
		}
	}
	if !foundMulti {
		tst.Fatalf("expected at least one Multi domain among a crowded triplet")
	}
}

// Test_scenario_surfaceProximityFormsInteractionSingle is end-to-end
// scenario 5: a bulk particle placed close to a planar surface should be
// wrapped in an InteractionSingle on the first step.
func Test_scenario_surfaceProximityFormsInteractionSingle(tst *testing.T) {
	chk.PrintTitle("scenario 5: surface proximity forms an InteractionSingle")

	r := 5e-9
	species := []model.Species{{Id: "A", D: 1e-12, Radius: r, StructureId: "bulk"}}
	structures := []model.Structure{
		{Id: "bulk", Kind: model.Cuboidal},
		{
			Id: "membrane", Kind: model.Planar,
			Origin: geom.New(5e-7, 5e-7, 5e-7),
			UnitX:  geom.New(1, 0, 0),
			UnitY:  geom.New(0, 1, 0),
			Normal: geom.New(0, 0, 1),
			HalfExX: 4e-7, HalfExY: 4e-7,
		},
	}
	w := world.New(1e-6, species, structures)
	w.NewParticle("A", geom.New(5e-7, 5e-7, 5e-7+2*r))

	rules := model.NewRuleSet(nil)
	tn := domain.DefaultTuning()
	tn.MaxShellSize = 5e-7
	sim := New(w, rand.New(rand.NewSource(19)), rules, tn)
	sim.Initialize()

	foundInteraction := false
	for _, d := range sim.env.Reg.All() {
		if d.Kind == domain.InteractionSingle {
			foundInteraction = true
			break
		}
	}
	if !foundInteraction {
		tst.Fatalf("expected an InteractionSingle to be constructed near the planar surface")
	}
}

// Test_law_burstIdempotence is the "burst idempotence" law: bursting a
// freshly-reset single must not move its particle.
func Test_law_burstIdempotence(tst *testing.T) {
	chk.PrintTitle("law: bursting a freshly reset single is idempotent")

	species := []model.Species{{Id: "A", D: 1e-12, Radius: 5e-9, StructureId: "bulk"}}
	structures := []model.Structure{{Id: "bulk", Kind: model.Cuboidal}}
	w := world.New(1e-6, species, structures)
	w.NewParticle("A", geom.New(5e-7, 5e-7, 5e-7))

	rules := model.NewRuleSet(nil)
	sim := New(w, rand.New(rand.NewSource(23)), rules, newTestTuning(1e-6))
	sim.Initialize()

	before, _ := w.Get(1)
	for _, d := range sim.env.Reg.All() {
		domain.BurstDomain(sim.env.World, sim.env.Reg, sim.env.Shells, sim.env.Queue, sim.env.Sampler, sim.env.Rng, sim.t, d)
	}
	after, _ := w.Get(1)

	if before.Pos != after.Pos {
		tst.Fatalf("bursting a freshly reset single moved it: %v -> %v", before.Pos, after.Pos)
	}
}

// Test_law_stopLeavesNoOversizedShells is the "stop consistency" law: after
// Stop(t), no shell remains larger than its owning particle's radius (every
// domain has been reduced to a bare, just-burst single).
func Test_law_stopLeavesNoOversizedShells(tst *testing.T) {
	chk.PrintTitle("law: stop consistency bursts every domain down to bare shells")

	species := []model.Species{{Id: "A", D: 1e-12, Radius: 5e-9, StructureId: "bulk"}}
	structures := []model.Structure{{Id: "bulk", Kind: model.Cuboidal}}
	w := world.New(1e-6, species, structures)
	w.NewParticle("A", geom.New(3e-7, 5e-7, 5e-7))
	w.NewParticle("A", geom.New(7e-7, 5e-7, 5e-7))

	rules := model.NewRuleSet(nil)
	sim := New(w, rand.New(rand.NewSource(29)), rules, newTestTuning(1e-6))
	sim.Initialize()

	for i := 0; i < 5; i++ {
		sim.Step()
	}
	mid := (sim.t + sim.GetNextTime()) / 2
	sim.Stop(mid)

	for _, p := range w.AllParticles() {
		inside := false
		for _, sh := range sim.env.Shells.All() {
			owner, ok := sim.env.Reg.Owner(sh.Id)
			if ok && owner.Particle == p.Id && sh.Size() <= p.Radius+1e-12 {
				inside = true
			}
		}
		if !inside {
			tst.Fatalf("particle %d has no minimal (radius-sized) shell after Stop", p.Id)
		}
	}
}
