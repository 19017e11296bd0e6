// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package world implements the "World adapter" external collaborator of
// spec.md §2/§6: a periodic box of particles with CRUD, distance and
// overlap queries. It is consumed by domain/egfrd exactly as spec.md §6
// describes, and is provided here as a concrete (not mocked) default since
// no third-party particle-storage library was retrievable for this domain.
package world

import (
	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/model"
)

// ParticleId identifies a particle; never reused within a run.
type ParticleId uint64

// Particle is a point particle of finite radius, per spec.md §3.
type Particle struct {
	Id          ParticleId
	Pos         geom.Vec3
	Radius      float64
	D           float64
	SpeciesId   string
	StructureId string
}

// World owns the periodic box, the particle table and the structure table.
type World struct {
	Box        geom.Box
	species    map[string]model.Species
	structures map[string]model.Structure
	particles  map[ParticleId]Particle
	nextId     ParticleId
}

// New returns an empty World for a cubic cell of side L.
func New(l float64, species []model.Species, structures []model.Structure) *World {
	w := &World{
		Box:        geom.Box{L: l},
		species:    make(map[string]model.Species),
		structures: make(map[string]model.Structure),
		particles:  make(map[ParticleId]Particle),
	}
	for _, s := range species {
		w.species[s.Id] = s
	}
	for _, s := range structures {
		w.structures[s.Id] = s
	}
	return w
}

// GetSpecies looks up species data by id; panics if unknown (user error,
// caught at scenario-load time).
func (w *World) GetSpecies(id string) model.Species {
	sp, ok := w.species[id]
	if !ok {
		chk.Panic("world: unknown species %q", id)
	}
	return sp
}

// GetStructure looks up structure data by id.
func (w *World) GetStructure(id string) *model.Structure {
	st, ok := w.structures[id]
	if !ok {
		chk.Panic("world: unknown structure %q", id)
	}
	return &st
}

// Structures returns every structure, the bulk CuboidalRegion included;
// the Constructor's closest-surface search skips the bulk itself.
func (w *World) Structures() []model.Structure {
	out := make([]model.Structure, 0, len(w.structures))
	for _, s := range w.structures {
		out = append(out, s)
	}
	return out
}

// NewParticle creates and stores a new particle at pos, returning it.
func (w *World) NewParticle(speciesId string, pos geom.Vec3) Particle {
	sp := w.GetSpecies(speciesId)
	w.nextId++
	p := Particle{
		Id:          w.nextId,
		Pos:         pos,
		Radius:      sp.Radius,
		D:           sp.D,
		SpeciesId:   speciesId,
		StructureId: sp.StructureId,
	}
	w.particles[p.Id] = p
	return p
}

// RemoveParticle deletes a particle by id.
func (w *World) RemoveParticle(id ParticleId) {
	delete(w.particles, id)
}

// UpdateParticle overwrites the stored particle's position; every other
// field is left as it is.
func (w *World) UpdateParticle(id ParticleId, pos geom.Vec3) {
	p, ok := w.particles[id]
	if !ok {
		chk.Panic("world: update of unknown particle %d", id)
	}
	p.Pos = pos
	w.particles[id] = p
}

// Get returns the particle by id.
func (w *World) Get(id ParticleId) (Particle, bool) {
	p, ok := w.particles[id]
	return p, ok
}

// NumParticles returns the number of particles currently in the world.
func (w *World) NumParticles() int { return len(w.particles) }

// AllParticles returns all particles ordered by ascending Id, matching
// spec.md §9's "initial particle insertion must be sorted by particle-id"
// determinism requirement.
func (w *World) AllParticles() []Particle {
	out := make([]Particle, 0, len(w.particles))
	for _, p := range w.particles {
		out = append(out, p)
	}
	// simple insertion sort by Id: particle counts in a single protective
	// domain run are small (tens to low thousands), so O(n^2) worst case
	// is not a concern and avoids importing sort for one call site.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Id < out[j-1].Id; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Distance returns the periodic minimum-image distance between two points.
func (w *World) Distance(a, b geom.Vec3) float64 { return w.Box.Distance(a, b) }

// ApplyBoundary wraps a point into the primary periodic image.
func (w *World) ApplyBoundary(x geom.Vec3) geom.Vec3 { return w.Box.ApplyBoundary(x) }

// CyclicTranspose returns the periodic image of x closest to ref.
func (w *World) CyclicTranspose(x, ref geom.Vec3) geom.Vec3 { return w.Box.CyclicTranspose(x, ref) }

// CheckOverlap reports whether a sphere (center, radius) overlaps any
// particle other than those in ignore.
func (w *World) CheckOverlap(center geom.Vec3, radius float64, ignore ...ParticleId) bool {
	skip := make(map[ParticleId]bool, len(ignore))
	for _, id := range ignore {
		skip[id] = true
	}
	for _, p := range w.particles {
		if skip[p.Id] {
			continue
		}
		if w.Distance(center, p.Pos) < radius+p.Radius {
			return true
		}
	}
	return false
}

// CalculatePairCoM returns the D-weighted centre of mass of a pair, per
// spec.md §4.7 ("the pair's centre is the mass-weighted
// (D2*p1+D1*p2)/(D1+D2)").
func CalculatePairCoM(p1, p2 geom.Vec3, d1, d2 float64) geom.Vec3 {
	d12 := d1 + d2
	return geom.Scale(1/d12, geom.Add(geom.Scale(d2, p1), geom.Scale(d1, p2)))
}
