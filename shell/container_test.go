// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/geom"
)

func Test_container01(tst *testing.T) {

	chk.PrintTitle("container01")

	b := geom.Box{L: 100}
	c := NewContainer(b, 10)

	s1 := NewSphere(1, 1, geom.New(2, 10, 10), 2)
	s2 := NewSphere(2, 2, geom.New(7, 10, 10), 2)
	s3 := NewSphere(3, 3, geom.New(98, 10, 10), 2) // near periodic wrap of s1

	c.Insert(s1)
	c.Insert(s2)
	c.Insert(s3)
	chk.Int(tst, "len", c.Len(), 3)

	neigh := c.NeighborsWithin(geom.New(2, 10, 10), 6, nil)
	if len(neigh) != 3 {
		tst.Fatalf("expected 3 neighbours within 6 (including periodic wrap), got %d", len(neigh))
	}

	c.Remove(2)
	chk.Int(tst, "len after remove", c.Len(), 2)

	// move s1
	s1moved := NewSphere(1, 1, geom.New(50, 50, 50), 2)
	c.Insert(s1moved)
	neigh2 := c.NeighborsWithin(geom.New(2, 10, 10), 6, nil)
	if len(neigh2) != 1 {
		tst.Fatalf("expected only s3 near (2,10,10) after moving s1, got %d", len(neigh2))
	}
}
