// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shell implements the protective-domain geometry: the tagged
// Sphere/Cylinder Shell variant and the spatial Container ("Shell
// container" component of spec.md §2) that answers radius-bounded
// neighbour queries under 3D periodic distance.
package shell

import (
	"math"

	"github.com/gfrd/egfrd/geom"
)

// Kind tags which variant a Shell holds.
type Kind int

const (
	SphereKind Kind = iota
	CylinderKind
)

// Id identifies a shell; never reused within a run.
type Id uint64

// DomainId identifies the owning domain; defined here (rather than in
// package domain) so shell and domain can reference each other by id
// without an import cycle, per spec.md §9's "id-and-lookup, never embed
// owning pointers in both directions" guidance.
type DomainId uint64

// Shell is the tagged Sphere|Cylinder variant of spec.md §3.
type Shell struct {
	Id       Id
	Owner    DomainId
	Kind     Kind
	Center   geom.Vec3
	Radius   float64   // Sphere: radius. Cylinder: disc radius (dr).
	UnitZ    geom.Vec3  // Cylinder only: axis direction (unit length)
	HalfLen  float64    // Cylinder only: half-length along UnitZ
}

// NewSphere returns a spherical shell.
func NewSphere(id Id, owner DomainId, center geom.Vec3, radius float64) Shell {
	return Shell{Id: id, Owner: owner, Kind: SphereKind, Center: center, Radius: radius}
}

// NewCylinder returns a cylindrical shell.
func NewCylinder(id Id, owner DomainId, center, unitZ geom.Vec3, radius, halfLen float64) Shell {
	return Shell{Id: id, Owner: owner, Kind: CylinderKind, Center: center, UnitZ: unitZ, Radius: radius, HalfLen: halfLen}
}

// Size returns the shell's "size" in the sense spec.md §4.8 uses for
// Miedema's algorithm: the sphere radius, or, for any cylinder, its
// half-length.
func (s Shell) Size() float64 {
	if s.Kind == SphereKind {
		return s.Radius
	}
	return s.HalfLen
}

// DistanceToPoint returns the minimum-image distance from point x to the
// surface of the shell (negative if x is inside it), using box b for the
// periodic transpose.
func (s Shell) DistanceToPoint(b geom.Box, x geom.Vec3) float64 {
	c := b.CyclicTranspose(s.Center, x)
	switch s.Kind {
	case SphereKind:
		return geom.Norm(geom.Sub(x, c)) - s.Radius
	default:
		d := geom.Sub(x, c)
		along := geom.Dot(d, s.UnitZ)
		radial := geom.Norm(geom.Sub(d, geom.Scale(along, s.UnitZ)))
		dz := math.Abs(along) - s.HalfLen
		dr := radial - s.Radius
		// outside along whichever axis is violated; if inside both, the
		// (negative) distance to the nearer face is reported.
		if dz > 0 && dr > 0 {
			return math.Hypot(dz, dr)
		}
		return math.Max(dz, dr)
	}
}

// Contains reports whether x lies strictly inside the shell with at least
// margin clearance to the boundary (spec.md §3 invariant 4).
func (s Shell) Contains(b geom.Box, x geom.Vec3, margin float64) bool {
	return s.DistanceToPoint(b, x) <= -margin
}

// CenterDistance returns the minimum-image distance between two shells'
// centers. The result ignores shape; callers compare it against the shells'
// Size() themselves.
func CenterDistance(b geom.Box, a, c Shell) float64 {
	return b.Distance(a.Center, c.Center)
}
