// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/geom"
)

// cellKey is the integer cell index of a point for a grid of cellSize
// cubes, wrapped modulo ndiv on each axis (see cellKeyOf).
type cellKey [3]int

// Container is a uniform periodic cell list indexing shells by id,
// supporting insert/update/remove and `NeighborsWithin` radius queries
// (spec.md §4.2). The grid side count is chosen so a cell's diagonal
// exceeds the largest admissible shell, per spec.md's sizing guidance;
// here it is simply configured by the caller (egfrd.Simulator) from the
// box size and the configured max shell size.
type Container struct {
	box      geom.Box
	ndiv     int
	cellSize float64
	cells    map[cellKey][]Id
	shells   map[Id]Shell
}

// NewContainer returns an empty Container for box b with ndiv cells per
// axis (ndiv>=1).
func NewContainer(b geom.Box, ndiv int) *Container {
	if ndiv < 1 {
		ndiv = 1
	}
	return &Container{
		box:      b,
		ndiv:     ndiv,
		cellSize: b.L / float64(ndiv),
		cells:    make(map[cellKey][]Id),
		shells:   make(map[Id]Shell),
	}
}

func (c *Container) cellKeyOf(x geom.Vec3) cellKey {
	w := c.box.ApplyBoundary(x)
	ix := int(w.X / c.cellSize)
	iy := int(w.Y / c.cellSize)
	iz := int(w.Z / c.cellSize)
	return cellKey{clampMod(ix, c.ndiv), clampMod(iy, c.ndiv), clampMod(iz, c.ndiv)}
}

func clampMod(i, n int) int {
	i = i % n
	if i < 0 {
		i += n
	}
	if i >= n {
		i = n - 1
	}
	return i
}

// Insert adds or moves a shell (re-inserting the same id with different
// geometry is explicitly supported, per spec.md §4.2).
func (c *Container) Insert(s Shell) {
	if old, ok := c.shells[s.Id]; ok {
		c.removeFromCell(old)
	}
	c.shells[s.Id] = s
	key := c.cellKeyOf(s.Center)
	c.cells[key] = append(c.cells[key], s.Id)
}

// Remove deletes a shell by id.
func (c *Container) Remove(id Id) {
	s, ok := c.shells[id]
	if !ok {
		return
	}
	c.removeFromCell(s)
	delete(c.shells, id)
}

func (c *Container) removeFromCell(s Shell) {
	key := c.cellKeyOf(s.Center)
	list := c.cells[key]
	for i, id := range list {
		if id == s.Id {
			c.cells[key] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Get returns the shell by id.
func (c *Container) Get(id Id) (Shell, bool) {
	s, ok := c.shells[id]
	return s, ok
}

// Len returns the number of shells stored.
func (c *Container) Len() int { return len(c.shells) }

// All returns every stored shell, in unspecified order.
func (c *Container) All() []Shell {
	out := make([]Shell, 0, len(c.shells))
	for _, s := range c.shells {
		out = append(out, s)
	}
	return out
}

// Neighbor is one result of a NeighborsWithin query.
type Neighbor struct {
	Id       Id
	Distance float64 // center-to-point periodic distance
}

// NeighborsWithin returns every shell whose center lies within radius of
// point, excluding ids in ignore. The search sweeps the minimal set of
// grid cells covering the query ball plus periodic images.
func (c *Container) NeighborsWithin(point geom.Vec3, radius float64, ignore map[Id]bool) []Neighbor {
	if radius < 0 {
		chk.Panic("shell: negative query radius %v", radius)
	}
	reach := int(radius/c.cellSize) + 1
	center := c.cellKeyOf(point)
	seen := make(map[Id]bool)
	var out []Neighbor
	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			for dz := -reach; dz <= reach; dz++ {
				key := cellKey{
					clampMod(center[0]+dx, c.ndiv),
					clampMod(center[1]+dy, c.ndiv),
					clampMod(center[2]+dz, c.ndiv),
				}
				for _, id := range c.cells[key] {
					if seen[id] || (ignore != nil && ignore[id]) {
						continue
					}
					seen[id] = true
					s := c.shells[id]
					d := c.box.Distance(point, s.Center)
					if d <= radius {
						out = append(out, Neighbor{Id: id, Distance: d})
					}
				}
			}
		}
	}
	return out
}

// Closest returns the nearest shell to point (excluding ignore), and
// whether any shell exists at all.
func (c *Container) Closest(point geom.Vec3, ignore map[Id]bool) (Neighbor, bool) {
	best := Neighbor{}
	found := false
	for id, s := range c.shells {
		if ignore != nil && ignore[id] {
			continue
		}
		d := c.box.Distance(point, s.Center)
		if !found || d < best.Distance {
			best = Neighbor{Id: id, Distance: d}
			found = true
		}
	}
	return best, found
}
