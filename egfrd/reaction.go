// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package egfrd

import (
	"math"
	"math/rand"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/domain"
	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/model"
	"github.com/gfrd/egfrd/shell"
	"github.com/gfrd/egfrd/world"
)

// drawRule picks one rule from rules with probability proportional to its
// rate constant, mirroring original_source/egfrd.py's draw_reaction_rule
// (a single roulette-wheel draw over the reactant's applicable rules).
// rules is assumed non-empty and every rule has K>0 (a rule with K==0 would
// never have been selected to fire in the first place).
func drawRule(rules []model.Rule, rng *rand.Rand) model.Rule {
	total := 0.0
	for _, r := range rules {
		total += r.K
	}
	x := rng.Float64() * total
	for _, r := range rules {
		x -= r.K
		if x < 0 {
			return r
		}
	}
	return rules[len(rules)-1]
}

// randomDirectionOnStructure draws a unit vector consistent with the
// particle's confining structure: full 3D for the bulk, in-plane for a
// PlanarSurface, and the two axis directions for a CylindricalSurface —
// mirroring how original_source/egfrd.py's structure-aware "random vector"
// helpers keep surface-bound species confined to their structure when
// placing reaction products.
func randomDirectionOnStructure(st *model.Structure, rng *rand.Rand) geom.Vec3 {
	switch st.Kind {
	case model.Planar:
		theta := 2 * math.Pi * rng.Float64()
		return geom.Add(geom.Scale(math.Cos(theta), st.UnitX), geom.Scale(math.Sin(theta), st.UnitY))
	case model.Cylindrical:
		if rng.Float64() < 0.5 {
			return st.Normal
		}
		return geom.Scale(-1, st.Normal)
	default:
		v := geom.New(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64())
		n := geom.Norm(v)
		if n < 1e-300 {
			return geom.Vec3{X: 1}
		}
		return geom.Scale(1/n, v)
	}
}

// recordReaction stores the just-fired reaction as the simulator's
// LastReaction, mirroring original_source/egfrd.py's self.last_reaction.
func (s *Simulator) recordReaction(rule model.Rule, r1, r2 world.ParticleId, products []world.ParticleId) {
	s.lastRx = &ReactionRecord{Rule: rule, Reactant1: r1, Reactant2: r2, Products: products}
}

// applyMonoReaction executes a drawn rule with a single reactant p: it
// removes p and creates 0, 1, or 2 products at/around its current
// position, mirroring the product-placement half of
// original_source/egfrd.py's fire_single_reaction. A two-product
// (unbinding) rule retries placement up to
// env.Tuning.DissociationRetryMoves times before reporting ok=false,
// leaving p untouched. Shared by fireSingleReaction and fireMulti's
// unimolecular-reaction case.
func (s *Simulator) applyMonoReaction(p world.Particle, rule model.Rule) (products []world.ParticleId, ok bool) {
	switch len(rule.Products) {
	case 0:
		s.env.World.RemoveParticle(p.Id)
		return nil, true

	case 1:
		s.env.World.RemoveParticle(p.Id)
		np := s.env.World.NewParticle(rule.Products[0], p.Pos)
		return []world.ParticleId{np.Id}, true

	default:
		sp1 := s.env.World.GetSpecies(rule.Products[0])
		sp2 := s.env.World.GetSpecies(rule.Products[1])
		sep := sp1.Radius + sp2.Radius
		st := s.env.World.GetStructure(p.StructureId)

		var pos1, pos2 geom.Vec3
		found := false
		for tries := s.env.Tuning.DissociationRetryMoves; tries > 0; tries-- {
			dir := randomDirectionOnStructure(st, s.env.Rng)
			half := geom.Scale(sep/2, dir)
			pos1 = s.env.World.ApplyBoundary(geom.Add(p.Pos, half))
			pos2 = s.env.World.ApplyBoundary(geom.Sub(p.Pos, half))
			if !s.env.World.CheckOverlap(pos1, sp1.Radius, p.Id) && !s.env.World.CheckOverlap(pos2, sp2.Radius, p.Id) {
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}

		s.env.World.RemoveParticle(p.Id)
		np1 := s.env.World.NewParticle(rule.Products[0], pos1)
		np2 := s.env.World.NewParticle(rule.Products[1], pos2)
		return []world.ParticleId{np1.Id, np2.Id}, true
	}
}

// fireSingleReaction draws and applies one monomolecular reaction for p,
// mirroring fire_single_reaction of original_source/egfrd.py. It returns
// ErrNoSpace if the drawn rule has two products (unbinding) and no
// non-overlapping placement for both can be found; the caller is then
// responsible for reinstating p's domain unchanged via
// rejectSingleReaction instead of committing the reaction.
func (s *Simulator) fireSingleReaction(p world.Particle) error {
	rules := s.env.Rules.ForSpecies(p.SpeciesId)
	if len(rules) == 0 {
		chk.Panic("egfrd: fireSingleReaction called for %q with no monomolecular rule", p.SpeciesId)
	}
	rule := drawRule(rules, s.env.Rng)

	products, ok := s.applyMonoReaction(p, rule)
	if !ok {
		return ErrNoSpace
	}
	for _, pid := range products {
		domain.SpawnSingle(s.env, s.t, pid)
	}
	s.recordReaction(rule, p.Id, 0, products)
	return nil
}

// rejectSingleReaction reinstates a single whose drawn reaction failed to
// find space for its products (spec.md §7's sole recoverable condition):
// the particle keeps the position fireSingle already committed via
// propagateSingle, the shell it last occupied is reinserted unchanged, and
// a fresh event is drawn from the particle's new offset within it,
// mirroring original_source/egfrd.py's reject_single_reaction.
func (s *Simulator) rejectSingleReaction(d *domain.Domain, p world.Particle, sh shell.Shell) {
	s.stats.RejectionCount++

	s.env.Shells.Insert(sh)
	r0 := s.env.World.Distance(p.Pos, sh.Center)
	kReact := domain.ReactionRateFor(s.env.Rules, p.SpeciesId)
	dt, kind := s.env.Sampler.DetermineSingleEvent(p.D, sh.Size(), r0, p.Radius, kReact, s.env.Rng)

	d.R0 = r0
	d.Dt = dt
	d.EventKind = kind
	d.LastTime = s.t
	d.Event = s.env.Queue.Push(s.t+dt, d.Id)
	s.env.Reg.Add(d)
}
