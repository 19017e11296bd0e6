// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "github.com/gfrd/egfrd/geom"

// StructureKind tags which Structure variant a Structure value holds.
type StructureKind int

const (
	Cuboidal   StructureKind = iota // the 3D bulk region
	Planar                          // a 2D rectangle embedded in 3D (membrane)
	Cylindrical                     // a 1D axis embedded in 3D (rod/filament)
)

// Structure is the tagged variant of spec.md §3: CuboidalRegion,
// PlanarSurface, CylindricalSurface. Structures are immutable during a run.
type Structure struct {
	Id   string
	Kind StructureKind

	// PlanarSurface fields
	Origin  geom.Vec3 // origin of the plane / axis
	UnitX   geom.Vec3 // in-plane unit vector 1 (Planar only)
	UnitY   geom.Vec3 // in-plane unit vector 2 (Planar only)
	Normal  geom.Vec3 // unit normal (Planar) / unit-z (Cylindrical)
	HalfExX float64   // half-extent along UnitX (Planar)
	HalfExY float64   // half-extent along UnitY (Planar)

	// CylindricalSurface fields
	Radius     float64 // rod radius (Cylindrical only)
	HalfLength float64 // rod half-length (Cylindrical only)
}

// IsBulk reports whether this structure is the 3D CuboidalRegion.
func (s *Structure) IsBulk() bool { return s.Kind == Cuboidal }

// ProjectedPoint projects pos onto the structure's axis/plane and returns
// the projection and the (signed, for Planar/Cylindrical) distance along
// the structure's normal. Callers must cyclic-transpose pos into the same
// periodic image as s.Origin first (spec.md §4.8).
func (s *Structure) ProjectedPoint(pos geom.Vec3) (proj geom.Vec3, signedDist float64) {
	switch s.Kind {
	case Planar:
		d := geom.Sub(pos, s.Origin)
		signedDist = geom.Dot(d, s.Normal)
		proj = geom.Sub(pos, geom.Scale(signedDist, s.Normal))
		return proj, signedDist
	case Cylindrical:
		d := geom.Sub(pos, s.Origin)
		along := geom.Dot(d, s.Normal)
		proj = geom.Add(s.Origin, geom.Scale(along, s.Normal))
		radial := geom.Norm(geom.Sub(pos, proj))
		return proj, radial
	default:
		return pos, 0
	}
}
