// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package egfrd

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/domain"
	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/gf"
	"github.com/gfrd/egfrd/world"
)

// radialDirection returns the unit vector from center to x, falling back
// to a fixed axis when x coincides with center (a particle that has not
// moved since its shell was made).
func radialDirection(b geom.Box, center, x geom.Vec3) geom.Vec3 {
	d := b.CyclicTranspose(x, center)
	v := geom.Sub(d, center)
	n := geom.Norm(v)
	if n < 1e-300 {
		return geom.Vec3{X: 1}
	}
	return geom.Scale(1/n, v)
}

// orthogonalDirection returns a unit vector perpendicular to axis, pointing
// from the axis line through origin towards x, falling back to an
// arbitrary perpendicular when x lies exactly on the axis.
func orthogonalDirection(b geom.Box, origin, axis, x geom.Vec3) geom.Vec3 {
	d := b.CyclicTranspose(x, origin)
	v := geom.Sub(d, origin)
	along := geom.Dot(v, axis)
	perp := geom.Sub(v, geom.Scale(along, axis))
	n := geom.Norm(perp)
	if n < 1e-300 {
		helper := geom.Vec3{X: 1}
		if math.Abs(axis.X) > 0.9 {
			helper = geom.Vec3{Y: 1}
		}
		perp = geom.Sub(helper, geom.Scale(geom.Dot(helper, axis), axis))
		n = geom.Norm(perp)
	}
	return geom.Scale(1/n, perp)
}

// fireSingle implements fire_single of spec.md §4.5 for a NonInteractionSingle
// or InteractionSingle domain whose event was just popped from the queue.
func (s *Simulator) fireSingle(d *domain.Domain) {
	if math.IsInf(d.Dt, 1) {
		// never rescheduled; the domain stays registered, owning its
		// particle, but drops out of the scheduler (matches
		// original_source/egfrd.py's documented fire_single early return).
		d.Event = 0
		return
	}

	p, ok := s.env.World.Get(d.Particle)
	if !ok {
		chk.Panic("egfrd: single %d references missing particle %d", d.Id, d.Particle)
	}

	// SINGLE_REACTION and IV_INTERACTION both propagate, remove the
	// domain, then hand the particle to the reaction network (spec.md
	// §4.5 steps 2 and 4 are the same code path).
	if d.EventKind == gf.SingleReaction || d.EventKind == gf.IVInteraction {
		sh, _ := s.env.Shells.Get(d.ShellId)
		s.propagateSingle(d, p)
		s.env.Reg.Remove(d.Id)
		s.env.Shells.Remove(d.ShellId)
		p, _ = s.env.World.Get(d.Particle)
		if err := s.fireSingleReaction(p); err != nil {
			s.rejectSingleReaction(d, p, sh)
			return
		}
		s.stats.ReactionCount++
		return
	}

	if p.D == 0 {
		sh, _ := s.env.Shells.Get(d.ShellId)
		kReact := domain.ReactionRateFor(s.env.Rules, p.SpeciesId)
		dt, kind := s.env.Sampler.DetermineSingleEvent(p.D, sh.Size(), d.R0, p.Radius, kReact, s.env.Rng)
		d.Dt = dt
		d.EventKind = kind
		d.LastTime = s.t
		d.Event = s.env.Queue.Push(s.t+dt, d.Id)
		return
	}

	s.propagateSingle(d, p)

	if d.Kind == domain.InteractionSingle {
		// SingleEscape here means the particle left to the bulk side of
		// the straddling cylinder (dzRight): replace the InteractionSingle
		// with a fresh bulk NonInteractionSingle.
		moved, _ := s.env.World.Get(d.Particle)
		s.env.Reg.Remove(d.Id)
		s.env.Shells.Remove(d.ShellId)
		domain.SpawnSingle(s.env, s.t, moved.Id)
		return
	}

	reenterConstructor(s.env, s.t, d)
}

// propagateSingle commits the particle's new position for d's already
// drawn (Dt, EventKind), per propagate_single of original_source/egfrd.py.
func (s *Simulator) propagateSingle(d *domain.Domain, p world.Particle) {
	sh, ok := s.env.Shells.Get(d.ShellId)
	if !ok {
		return
	}

	var newPos geom.Vec3
	switch d.Kind {
	case domain.InteractionSingle:
		radial, axial := s.env.Sampler.DrawInteractionPosition(p.D, sh.Radius, d.DzLeft, d.DzRight, d.Dt, d.EventKind, s.env.Rng)
		dir := orthogonalDirection(s.env.World.Box, sh.Center, sh.UnitZ, p.Pos)
		newPos = geom.Add(sh.Center, geom.Add(geom.Scale(axial, sh.UnitZ), geom.Scale(radial, dir)))
	default:
		r := s.env.Sampler.DrawSingleRadius(p.D, sh.Radius, d.R0, p.Radius, d.Dt, d.EventKind, s.env.Rng)
		dir := radialDirection(s.env.World.Box, sh.Center, p.Pos)
		newPos = geom.Add(sh.Center, geom.Scale(r, dir))
	}
	newPos = s.env.World.ApplyBoundary(newPos)
	s.env.World.UpdateParticle(d.Particle, newPos)
}
