// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package egfrd

import (
	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/domain"
	"github.com/gfrd/egfrd/gf"
	"github.com/gfrd/egfrd/world"
)

// fireMulti implements fire_multi of original_source/egfrd.py for a Multi
// domain whose event was just popped from the queue: it advances the
// Multi one fixed BD step via domain.FireMulti, applies whatever reaction
// that step produced, and either breaks the Multi up into fresh singles
// (break_up_multi, when any event occurred) or reschedules it unchanged
// (when the step was a plain diffusion tick).
func (s *Simulator) fireMulti(d *domain.Domain) {
	res := domain.FireMulti(s.env, d)

	if !res.HasReaction && !res.HasEscape {
		s.rescheduleMulti(d)
		return
	}

	var products []world.ParticleId

	if res.HasReaction {
		switch res.Kind {
		case gf.MultiUnimolecularReaction:
			p, ok := s.env.World.Get(res.Reactant1)
			if !ok {
				chk.Panic("egfrd: multi %d unimolecular reaction references missing particle %d", d.Id, res.Reactant1)
			}
			rules := s.env.Rules.ForSpecies(p.SpeciesId)
			if len(rules) == 0 {
				chk.Panic("egfrd: multi %d unimolecular reaction fired for %q with no rule", d.Id, p.SpeciesId)
			}
			rule := drawRule(rules, s.env.Rng)
			placed, ok := s.applyMonoReaction(p, rule)
			if !ok {
				// No room for the products this tick: treat it as a plain
				// diffusion step and let the Multi try again later.
				s.rescheduleMulti(d)
				return
			}
			products = placed
			s.recordReaction(rule, p.Id, 0, products)

		case gf.MultiBimolecularReaction:
			p1, ok1 := s.env.World.Get(res.Reactant1)
			p2, ok2 := s.env.World.Get(res.Reactant2)
			if !ok1 || !ok2 {
				chk.Panic("egfrd: multi %d bimolecular reaction references a missing particle", d.Id)
			}
			rules := s.env.Rules.ForPair(p1.SpeciesId, p2.SpeciesId)
			if len(rules) == 0 {
				chk.Panic("egfrd: multi %d bimolecular reaction fired for %q+%q with no rule", d.Id, p1.SpeciesId, p2.SpeciesId)
			}
			rule := drawRule(rules, s.env.Rng)
			mid := world.CalculatePairCoM(p1.Pos, p2.Pos, p1.D, p2.D)

			s.env.World.RemoveParticle(p1.Id)
			s.env.World.RemoveParticle(p2.Id)
			if len(rule.Products) == 1 {
				np := s.env.World.NewParticle(rule.Products[0], mid)
				products = []world.ParticleId{np.Id}
			}
			s.recordReaction(rule, p1.Id, p2.Id, products)
		}
		s.stats.ReactionCount++
	}

	s.breakUpMulti(d, products)
}

// breakUpMulti dissolves multi into one freshly-constructed bare single per
// surviving member plus one per newly created product, mirroring
// break_up_multi of original_source/egfrd.py.
func (s *Simulator) breakUpMulti(d *domain.Domain, products []world.ParticleId) {
	s.env.Reg.Remove(d.Id)
	for _, sid := range d.MemberShells {
		s.env.Shells.Remove(sid)
	}
	for _, pid := range d.Members {
		if _, ok := s.env.World.Get(pid); ok {
			domain.SpawnSingle(s.env, s.t, pid)
		}
	}
	for _, pid := range products {
		domain.SpawnSingle(s.env, s.t, pid)
	}
}

// rescheduleMulti draws a fresh BD time step for multi and pushes its next
// event, for the "no event took place" branch of fire_multi.
func (s *Simulator) rescheduleMulti(d *domain.Domain) {
	d.Dt = domain.CalculateBDDt(s.env.World, s.env.Tuning, d.Members)
	d.LastTime = s.t
	d.EventKind = gf.MultiDiffusion
	d.Event = s.env.Queue.Push(s.t+d.Dt, d.Id)
}
