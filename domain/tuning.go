// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package domain implements the domain variants of spec.md §3 (Single,
// InteractionSingle, Pair, Multi), their Registry, and the Constructor
// decision procedure (make_new_domain) that decides which kind of domain
// to build around a particle at any given moment.
package domain

// Tuning collects the configurable thresholds used throughout domain
// construction, grounded on original_source/egfrd.py's class-level
// constants (MULTI_SHELL_FACTOR, SINGLE_SHELL_FACTOR, SAFETY) and the
// undocumented 1.3 factor inside calculate_simplepair_shell_size.
type Tuning struct {
	// MultiShellFactor scales a bare particle's radius into its Multi
	// horizon: neighbors closer than radius*MultiShellFactor force the
	// particle into (or keep it out of) a Multi domain.
	MultiShellFactor float64

	// SingleShellFactor scales a bare particle's radius into the search
	// horizon used while looking for a NonInteractionSingle partner or a
	// nearby surface to interact with.
	SingleShellFactor float64

	// Safety divides shell sizes that would otherwise touch an obstacle
	// exactly, to keep floating point error from producing an
	// overlapping shell.
	Safety float64

	// SinglesBetterFactor is the extra margin required before two
	// particles are judged better off paired than left as two Singles
	// (calculate_simplepair_shell_size's un-named 1.3 constant).
	SinglesBetterFactor float64

	// DissociationRetryMoves bounds how many placements are tried for the
	// two products of an unbinding reaction before the reaction reports
	// NoSpace, and how many BD displacements a Multi member tries before
	// it stays where it is for that step.
	DissociationRetryMoves int

	// DtHardcoreMin floors the Multi's BD time step; zero disables the
	// floor (the BD step is then whatever CalculateBDDt returns).
	DtHardcoreMin float64

	// BDStepSizeFactor scales the fixed BD step calculated from the
	// fastest/smallest species in a Multi (Multi.calculate_bd_dt).
	BDStepSizeFactor float64

	// MaxShellSize bounds any single shell's size, normally set by the
	// simulator from the world's box length (spec.md invariant 5).
	MaxShellSize float64
}

// DefaultTuning returns the thresholds used by the reference scenarios of
// spec.md §8.
func DefaultTuning() Tuning {
	return Tuning{
		MultiShellFactor:       1.05,
		SingleShellFactor:      2.0,
		Safety:                 1 + 1e-5,
		SinglesBetterFactor:    1.3,
		DissociationRetryMoves: 100,
		DtHardcoreMin:          0,
		BDStepSizeFactor:       0.1,
		MaxShellSize:           1.0,
	}
}
