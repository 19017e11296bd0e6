// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom provides 3D vector arithmetic and periodic-box helpers for
// particles living in a cubic simulation cell.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or displacement in ℝ³.
type Vec3 = r3.Vec

// New returns the vector (x, y, z).
func New(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns a+b.
func Add(a, b Vec3) Vec3 { return r3.Add(a, b) }

// Sub returns a-b.
func Sub(a, b Vec3) Vec3 { return r3.Sub(a, b) }

// Scale returns a*s.
func Scale(s float64, a Vec3) Vec3 { return r3.Scale(s, a) }

// Dot returns a·b.
func Dot(a, b Vec3) float64 { return r3.Dot(a, b) }

// Norm returns |a|.
func Norm(a Vec3) float64 { return r3.Norm(a) }

// Box is a cubic periodic simulation cell of side L, origin at (0,0,0).
type Box struct {
	L float64 // side length
}

// ApplyBoundary wraps x into [0, L) on each axis.
func (b Box) ApplyBoundary(x Vec3) Vec3 {
	return New(wrap(x.X, b.L), wrap(x.Y, b.L), wrap(x.Z, b.L))
}

func wrap(v, l float64) float64 {
	v = math.Mod(v, l)
	if v < 0 {
		v += l
	}
	return v
}

// CyclicTranspose returns the periodic image of x that is closest to ref;
// i.e. translates x by multiples of L on each axis so that (x-ref) is
// minimal in absolute value. Used before any routine that needs x and ref
// in the same (non-wrapped) frame, e.g. projecting onto a surface axis.
func (b Box) CyclicTranspose(x, ref Vec3) Vec3 {
	return New(
		transposeAxis(x.X, ref.X, b.L),
		transposeAxis(x.Y, ref.Y, b.L),
		transposeAxis(x.Z, ref.Z, b.L),
	)
}

func transposeAxis(v, ref, l float64) float64 {
	d := v - ref
	if d > l/2 {
		return v - l
	}
	if d < -l/2 {
		return v + l
	}
	return v
}

// Distance returns the minimum-image periodic distance between a and b.
func (b Box) Distance(a, c Vec3) float64 {
	return Norm(Sub(b.CyclicTranspose(a, c), c))
}
