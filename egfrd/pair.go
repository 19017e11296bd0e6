// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package egfrd

import (
	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/domain"
	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/gf"
	"github.com/gfrd/egfrd/shell"
	"github.com/gfrd/egfrd/world"
)

// propagatePair draws both the inter-particle separation reached by d's
// already determined (Dt, EventKind) and the centre of mass's own
// diffusive displacement over tau, then recombines them into each
// particle's new position. The centre of mass diffuses with the reduced
// constant D1*D2/(D1+D2) (CalculatePairCoM's D2/D1-weighted average turns
// the two independent particle diffusions into one effective one), in a
// direction drawn consistently with the pair's shared structure so a
// surface-confined Pair's CoM does not leave its structure mid-move.
func (s *Simulator) propagatePair(d *domain.Domain, p1, p2 world.Particle, sh shell.Shell, tau float64) (world.Particle, world.Particle) {
	oldCom := sh.Center
	d12 := p1.D + p2.D
	sigma := p1.Radius + p2.Radius

	iv := s.env.Sampler.DrawPairIV(d12, sh.Size(), d.PairR0, sigma, d.Dt, d.EventKind, s.env.Rng)
	ivDir := radialDirection(s.env.World.Box, oldCom, p1.Pos)

	dCoM := p1.D * p2.D / d12
	comR := s.env.Sampler.DrawCoMRadius(dCoM, tau, s.env.Rng)
	comDir := randomDirectionOnStructure(s.env.World.GetStructure(p1.StructureId), s.env.Rng)
	com := s.env.World.ApplyBoundary(geom.Add(oldCom, geom.Scale(comR, comDir)))

	p1.Pos = s.env.World.ApplyBoundary(geom.Add(com, geom.Scale(iv*p2.D/d12, ivDir)))
	p2.Pos = s.env.World.ApplyBoundary(geom.Add(com, geom.Scale(-iv*p1.D/d12, ivDir)))
	return p1, p2
}

// firePair implements fire_pair of spec.md §4.9/original_source/egfrd.py
// for a Pair domain whose event was just popped from the queue. The
// gf.Sampler used here only ever commits a Pair to IV_REACTION or
// IV_ESCAPE at construction time (gf.Reference.DeterminePairEvent never
// returns a single-reaction or separate centre-of-mass-escape kind for a
// Pair), so those are the only two cases handled.
func (s *Simulator) firePair(d *domain.Domain) {
	p1, ok1 := s.env.World.Get(d.Particle1)
	p2, ok2 := s.env.World.Get(d.Particle2)
	if !ok1 || !ok2 {
		chk.Panic("egfrd: pair %d references a missing particle", d.Id)
	}
	sh, _ := s.env.Shells.Get(d.ShellId)

	if d.EventKind == gf.IVReaction {
		newP1, newP2 := s.propagatePair(d, p1, p2, sh, d.Dt)
		com := world.CalculatePairCoM(newP1.Pos, newP2.Pos, p1.D, p2.D)

		rules := s.env.Rules.ForPair(p1.SpeciesId, p2.SpeciesId)
		if len(rules) == 0 {
			chk.Panic("egfrd: pair reaction fired for %q+%q with no bimolecular rule", p1.SpeciesId, p2.SpeciesId)
		}
		rule := drawRule(rules, s.env.Rng)

		s.env.Reg.Remove(d.Id)
		s.env.Shells.Remove(d.ShellId)
		s.env.World.RemoveParticle(p1.Id)
		s.env.World.RemoveParticle(p2.Id)

		var products []world.ParticleId
		if len(rule.Products) == 1 {
			np := s.env.World.NewParticle(rule.Products[0], com)
			domain.SpawnSingle(s.env, s.t, np.Id)
			products = []world.ParticleId{np.Id}
		}
		s.recordReaction(rule, p1.Id, p2.Id, products)
		s.stats.ReactionCount++
		return
	}

	// IV_ESCAPE: the inter-particle vector left the pair's shell; propagate
	// both particles to their new positions and break the pair back up
	// into two freshly-constructed singles.
	newP1, newP2 := s.propagatePair(d, p1, p2, sh, d.Dt)
	s.env.World.UpdateParticle(d.Particle1, newP1.Pos)
	s.env.World.UpdateParticle(d.Particle2, newP2.Pos)

	s.env.Reg.Remove(d.Id)
	s.env.Shells.Remove(d.ShellId)

	domain.SpawnSingle(s.env, s.t, d.Particle1)
	domain.SpawnSingle(s.env, s.t, d.Particle2)
}
