// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package egfrd implements the top-level orchestrator of spec.md §2/§6:
// the Simulator owns the event queue, shell container, domain registry,
// world and propagator, and drives the `step`/`stop` control flow that
// dispatches each popped event to its `fire_*` handler, mirroring
// fem.FEM's "own every subsystem, drive one loop" shape adapted from a
// multi-stage FE time loop to a single-stage event loop.
package egfrd

import (
	"errors"
	"math"
	"math/rand"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/domain"
	"github.com/gfrd/egfrd/gf"
	"github.com/gfrd/egfrd/model"
	"github.com/gfrd/egfrd/queue"
	"github.com/gfrd/egfrd/shell"
	"github.com/gfrd/egfrd/world"
)

// ErrNoSpace is returned, unwrapped, by reaction-product placement when no
// non-overlapping position can be found after domain.Tuning's configured
// number of retries. It is the sole recoverable, simulation-level error of
// spec.md §7; every other error is a panic via gosl/chk.
var ErrNoSpace = errors.New("egfrd: no space for reaction product")

// MaxZeroDtMultiplier and MaxZeroDtFloor bound how many consecutive
// zero-dt steps are tolerated before the simulator treats the run as a
// numerical live-lock (spec.md §4.11).
const (
	MaxZeroDtMultiplier = 3
	MaxZeroDtFloor      = 10000
)

// ReactionRecord captures the outcome of the most recently fired reaction,
// mirroring egfrd.py's self.last_reaction tuple (spec.md §7 "Supplemented
// features").
type ReactionRecord struct {
	Rule      model.Rule
	Reactant1 world.ParticleId
	Reactant2 world.ParticleId // zero if unimolecular
	Products  []world.ParticleId
}

// Stats bundles the statistics counters spec.md §6/§7 names, plus the
// per-event-kind histogram supplemented from egfrd.py's self.single_steps/
// self.pair_steps/self.multi_steps counters.
type Stats struct {
	StepCount     int
	ReactionCount int
	RejectionCount int
	ZeroDtStreak  int
	ByKind        map[gf.Kind]int
}

// Simulator is the exposed API of spec.md §6/SPEC_FULL.md §8.
type Simulator struct {
	env *domain.Env

	t       float64
	dirty   bool
	stats   Stats
	lastRx  *ReactionRecord

	ndiv int // shell container grid resolution, fixed at New time
}

// New returns a Simulator over world w, seeded RNG rng, reaction network
// rules, and the given tuning thresholds. The domain set is empty until
// Initialize is called (or lazily on the first Step).
func New(w *world.World, rng *rand.Rand, rules *model.RuleSet, tuning domain.Tuning) *Simulator {
	if w == nil || rng == nil || rules == nil {
		chk.Panic("egfrd: New requires non-nil world, rng and rules")
	}
	ndiv := 8
	if tuning.MaxShellSize > 0 {
		if n := int(w.Box.L / tuning.MaxShellSize); n > ndiv {
			ndiv = n
		}
	}
	s := &Simulator{
		env: &domain.Env{
			World:   w,
			Reg:     domain.NewRegistry(),
			Shells:  shell.NewContainer(w.Box, ndiv),
			Queue:   queue.New(),
			Rules:   rules,
			Sampler: gf.Reference{},
			Rng:     rng,
			Tuning:  tuning,
		},
		dirty: true,
		stats: Stats{ByKind: make(map[gf.Kind]int)},
		ndiv:  ndiv,
	}
	return s
}

// Initialize builds the initial domain set from every particle currently
// in the world, in ascending particle-id order (spec.md §9's determinism
// requirement).
func (s *Simulator) Initialize() {
	for _, p := range s.env.World.AllParticles() {
		domain.SpawnSingle(s.env, s.t, p.Id)
	}
	s.dirty = false
}

// Reset discards the current domain set and rebuilds it from the world's
// present particle positions, without changing the simulator's current
// time. Used when the world has been mutated externally between runs.
func (s *Simulator) Reset() {
	for _, d := range s.env.Reg.All() {
		if d.Event != 0 {
			s.env.Queue.Remove(d.Event)
		}
		s.env.Reg.Remove(d.Id)
		switch d.Kind {
		case domain.Multi:
			for _, sid := range d.MemberShells {
				s.env.Shells.Remove(sid)
			}
		default:
			s.env.Shells.Remove(d.ShellId)
		}
	}
	s.Initialize()
}

// GetNextTime returns the scheduled time of the next event, or +Inf if the
// queue is empty.
func (s *Simulator) GetNextTime() float64 {
	_, t, _, ok := s.env.Queue.Peek()
	if !ok {
		return math.Inf(1)
	}
	return t
}

// Stats returns a snapshot of the run's statistics counters.
func (s *Simulator) Stats() Stats {
	cp := s.stats
	cp.ByKind = make(map[gf.Kind]int, len(s.stats.ByKind))
	for k, v := range s.stats.ByKind {
		cp.ByKind[k] = v
	}
	return cp
}

// LastReaction returns the most recently fired reaction, if any has
// occurred yet.
func (s *Simulator) LastReaction() (bool, ReactionRecord) {
	if s.lastRx == nil {
		return false, ReactionRecord{}
	}
	return true, *s.lastRx
}

// Step executes exactly one eGFRD event: pops the earliest event,
// dispatches it to the matching fire_* handler, and advances the
// simulator's time to the event's time. Panics (invariant violation) if
// the queue is empty or runs dry mid-step, or if too many consecutive
// zero-dt steps occur (spec.md §4.11).
func (s *Simulator) Step() {
	if s.dirty {
		s.Initialize()
	}
	if s.env.Queue.Len() == 0 {
		chk.Panic("egfrd: Step called with no events in scheduler")
	}

	_, t, did := s.env.Queue.Pop()
	s.t = t

	d, ok := s.env.Reg.Lookup(did)
	if !ok {
		chk.Panic("egfrd: popped event references unknown domain %d", did)
	}

	kind := d.EventKind // the handlers below may overwrite d.EventKind with the next draw
	switch d.Kind {
	case domain.NonInteractionSingle, domain.InteractionSingle:
		s.fireSingle(d)
	case domain.Pair:
		s.firePair(d)
	case domain.Multi:
		s.fireMulti(d)
	}

	s.stats.StepCount++
	s.stats.ByKind[kind]++

	if s.env.Queue.Len() == 0 {
		chk.Panic("egfrd: zero events left after step")
	}

	next := s.GetNextTime()
	dt := next - s.t
	if dt == 0 {
		s.stats.ZeroDtStreak++
		zeroDtCap := MaxZeroDtMultiplier * s.env.Queue.Len()
		if zeroDtCap < MaxZeroDtFloor {
			zeroDtCap = MaxZeroDtFloor
		}
		if s.stats.ZeroDtStreak > zeroDtCap {
			chk.Panic("egfrd: too many consecutive zero-dt steps (t=%v): numerical live-lock", s.t)
		}
	} else {
		s.stats.ZeroDtStreak = 0
	}
}

// Stop bursts every scheduled domain so that every particle's position is
// well defined at wall time t. t must lie in [sim.t, next event time]; any
// other value is a user error (spec.md §7).
func (s *Simulator) Stop(t float64) {
	next := s.GetNextTime()
	if t < s.t || t > next {
		chk.Panic("egfrd: Stop(%v) outside valid range [%v, %v]", t, s.t, next)
	}
	for _, d := range s.env.Reg.All() {
		domain.BurstDomain(s.env.World, s.env.Reg, s.env.Shells, s.env.Queue, s.env.Sampler, s.env.Rng, t, d)
	}
	s.t = t
}

// reenterConstructor re-pushes a placeholder event for d (whose own event
// was just popped by Step) so domain.MakeNewDomain's internal bookkeeping,
// which assumes the domain's event is still live until it removes or
// updates it, stays consistent.
func reenterConstructor(env *domain.Env, now float64, d *domain.Domain) *domain.Domain {
	d.Event = env.Queue.Push(now, d.Id)
	return domain.MakeNewDomain(env, now, d)
}
