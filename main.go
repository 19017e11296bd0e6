// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/rand"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/gfrd/egfrd/domain"
	"github.com/gfrd/egfrd/egfrd"
	"github.com/gfrd/egfrd/model"
	"github.com/gfrd/egfrd/world"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".json", true)
	verbose := io.ArgToBool(1, true)

	// message
	if verbose {
		io.PfWhite("\negfrd -- enhanced Green's Function Reaction Dynamics\n\n")
		io.Pf("Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")

		io.Pf("\n%v\n", io.ArgsTable(
			"scenario filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// scenario
	sc, err := model.LoadScenario(fnamepath)
	if err != nil {
		chk.Panic("failed to load scenario:\n%v", err)
	}

	// world and reaction network
	w := world.New(sc.BoxLength, sc.Species, sc.Structures)
	for _, pl := range sc.Particles {
		w.NewParticle(pl.Species, pl.Pos)
	}
	rules := model.NewRuleSet(sc.Rules)

	// tuning
	tuning := domain.DefaultTuning()
	if sc.Tuning != nil {
		applyTuningOverrides(&tuning, sc.Tuning)
	}

	// run
	rng := rand.New(rand.NewSource(sc.Seed))
	sim := egfrd.New(w, rng, rules, tuning)
	sim.Initialize()

	for sim.GetNextTime() < sc.TEnd {
		sim.Step()
	}
	sim.Stop(sc.TEnd)

	// summary
	if verbose {
		st := sim.Stats()
		io.Pf("\nfinal time ............ %v\n", sc.TEnd)
		io.Pf("particles remaining ... %v\n", w.NumParticles())
		io.Pf("steps .................. %v\n", st.StepCount)
		io.Pf("reactions .............. %v\n", st.ReactionCount)
		io.Pf("rejections ............. %v\n", st.RejectionCount)
	}
}

// applyTuningOverrides copies every non-zero field of o into tn, leaving
// domain.DefaultTuning()'s value in place wherever the scenario file left a
// field unset.
func applyTuningOverrides(tn *domain.Tuning, o *model.TuningOverrides) {
	if o.MultiShellFactor != 0 {
		tn.MultiShellFactor = o.MultiShellFactor
	}
	if o.SingleShellFactor != 0 {
		tn.SingleShellFactor = o.SingleShellFactor
	}
	if o.Safety != 0 {
		tn.Safety = o.Safety
	}
	if o.SinglesBetterFactor != 0 {
		tn.SinglesBetterFactor = o.SinglesBetterFactor
	}
	if o.DissociationRetryMoves != 0 {
		tn.DissociationRetryMoves = o.DissociationRetryMoves
	}
	if o.DtHardcoreMin != 0 {
		tn.DtHardcoreMin = o.DtHardcoreMin
	}
	if o.BDStepSizeFactor != 0 {
		tn.BDStepSizeFactor = o.BDStepSizeFactor
	}
	if o.MaxShellSize != 0 {
		tn.MaxShellSize = o.MaxShellSize
	}
}
