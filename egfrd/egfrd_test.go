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

func newTestTuning(boxL float64) domain.Tuning {
	tn := domain.DefaultTuning()
	tn.MaxShellSize = boxL / 2
	return tn
}

func Test_simulator_freeDiffusionConservesParticles(tst *testing.T) {

	chk.PrintTitle("egfrd: free diffusion conserves particle count")

	species := []model.Species{{Id: "A", D: 1e-12, Radius: 5e-9, StructureId: "bulk"}}
	structures := []model.Structure{{Id: "bulk", Kind: model.Cuboidal}}
	w := world.New(1e-6, species, structures)
	w.NewParticle("A", geom.New(2e-7, 5e-7, 5e-7))
	w.NewParticle("A", geom.New(8e-7, 5e-7, 5e-7))

	rules := model.NewRuleSet(nil)
	sim := New(w, rand.New(rand.NewSource(1)), rules, newTestTuning(1e-6))

	for i := 0; i < 100; i++ {
		sim.Step()
	}

	chk.Int(tst, "particle count", w.NumParticles(), 2)
	if sim.Stats().StepCount != 100 {
		tst.Fatalf("expected 100 recorded steps, got %d", sim.Stats().StepCount)
	}
}

func Test_simulator_unimolecularDecayRemovesParticle(tst *testing.T) {

	chk.PrintTitle("egfrd: a fast decay rule eventually removes its reactant")

	species := []model.Species{{Id: "A", D: 1e-12, Radius: 5e-9, StructureId: "bulk"}}
	structures := []model.Structure{{Id: "bulk", Kind: model.Cuboidal}}
	w := world.New(1e-6, species, structures)
	w.NewParticle("A", geom.New(5e-7, 5e-7, 5e-7))

	rules := model.NewRuleSet([]model.Rule{
		{Type: model.RuleDecay, Reactant: []string{"A"}, Products: nil, K: 1e8},
	})
	sim := New(w, rand.New(rand.NewSource(2)), rules, newTestTuning(1e-6))

	for i := 0; i < 500 && w.NumParticles() > 0; i++ {
		sim.Step()
	}

	chk.Int(tst, "particles after decay", w.NumParticles(), 0)
	if sim.Stats().ReactionCount < 1 {
		tst.Fatalf("expected at least one reaction to have fired")
	}
	ok, rec := sim.LastReaction()
	if !ok || rec.Reactant1 == 0 {
		tst.Fatalf("LastReaction did not record the decay")
	}
}

func Test_simulator_bindingReactionProducesSingleProduct(tst *testing.T) {

	chk.PrintTitle("egfrd: two touching reactive particles bind into one product")

	species := []model.Species{
		{Id: "A", D: 1e-12, Radius: 5e-9, StructureId: "bulk"},
		{Id: "B", D: 1e-12, Radius: 5e-9, StructureId: "bulk"},
		{Id: "C", D: 1e-12, Radius: 5e-9, StructureId: "bulk"},
	}
	structures := []model.Structure{{Id: "bulk", Kind: model.Cuboidal}}
	w := world.New(1e-6, species, structures)
	w.NewParticle("A", geom.New(5e-7, 5e-7, 5e-7))
	w.NewParticle("B", geom.New(5e-7+1.05e-8, 5e-7, 5e-7))

	rules := model.NewRuleSet([]model.Rule{
		{Type: model.RuleBinding, Reactant: []string{"A", "B"}, Products: []string{"C"}, K: 1e30},
	})
	sim := New(w, rand.New(rand.NewSource(3)), rules, newTestTuning(1e-6))

	for i := 0; i < 500 && sim.Stats().ReactionCount == 0; i++ {
		sim.Step()
	}

	if sim.Stats().ReactionCount < 1 {
		tst.Fatalf("expected the binding reaction to have fired within the step budget")
	}
	chk.Int(tst, "particles after binding", w.NumParticles(), 1)
	for _, p := range w.AllParticles() {
		if p.SpeciesId != "C" {
			tst.Fatalf("expected the surviving particle to be species C, got %q", p.SpeciesId)
		}
	}
}

func Test_simulator_resetRebuildsDomainsWithoutMovingParticles(tst *testing.T) {

	chk.PrintTitle("egfrd: Reset rebuilds the domain set from current positions")

	species := []model.Species{{Id: "A", D: 1e-12, Radius: 5e-9, StructureId: "bulk"}}
	structures := []model.Structure{{Id: "bulk", Kind: model.Cuboidal}}
	w := world.New(1e-6, species, structures)
	w.NewParticle("A", geom.New(3e-7, 5e-7, 5e-7))
	w.NewParticle("A", geom.New(7e-7, 5e-7, 5e-7))

	rules := model.NewRuleSet(nil)
	sim := New(w, rand.New(rand.NewSource(4)), rules, newTestTuning(1e-6))

	for i := 0; i < 10; i++ {
		sim.Step()
	}
	before := w.NumParticles()

	sim.Reset()

	chk.Int(tst, "particle count unchanged by reset", w.NumParticles(), before)
	if math.IsInf(sim.GetNextTime(), 1) {
		tst.Fatalf("expected a finite next event time after reset")
	}

	// the rebuilt domain set must still be steppable.
	sim.Step()
}
