// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/model"
)

func Test_world01(tst *testing.T) {

	chk.PrintTitle("world01")

	species := []model.Species{
		{Id: "A", D: 1e-12, Radius: 2.5e-9, StructureId: "bulk"},
	}
	structures := []model.Structure{
		{Id: "bulk", Kind: model.Cuboidal},
	}
	w := New(1e-7, species, structures)

	p1 := w.NewParticle("A", geom.New(1e-8, 1e-8, 1e-8))
	p2 := w.NewParticle("A", geom.New(2e-8, 1e-8, 1e-8))

	chk.Int(tst, "num particles", w.NumParticles(), 2)

	d := w.Distance(p1.Pos, p2.Pos)
	chk.Scalar(tst, "distance", 1e-20, d, 1e-8)

	if w.CheckOverlap(p1.Pos, p1.Radius, p1.Id) {
		tst.Fatalf("p2 is far enough from p1 that no overlap should be reported")
	}
	if !w.CheckOverlap(p1.Pos, d, p1.Id) {
		tst.Fatalf("a sphere reaching all the way to p2 should overlap it")
	}

	w.RemoveParticle(p1.Id)
	chk.Int(tst, "num particles after removal", w.NumParticles(), 1)

	all := w.AllParticles()
	chk.Int(tst, "remaining id", int(all[0].Id), int(p2.Id))
}
