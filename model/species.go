// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model holds the species table, reaction rule network, and
// structure (surface) definitions that parametrise a run. It is the
// "Model" external collaborator of the simulation core (consumed, not
// reimplemented: species/reaction parsing proper is out of scope).
package model

// Species describes one particle type.
type Species struct {
	Id          string  // species identifier
	D           float64 // diffusion constant
	Radius      float64 // particle radius
	StructureId string  // structure this species lives on/in
}

// RuleType tags the kind of reaction a Rule represents.
type RuleType int

const (
	RuleDecay    RuleType = iota // A -> 0 or 1 products
	RuleBinding                  // A + B -> C
	RuleUnbind                   // A -> B + C
)

// Rule is one mono- or bi-molecular reaction rule.
type Rule struct {
	Type     RuleType
	Reactant []string // one or two species ids
	Products []string // zero, one or two species ids
	K        float64  // rate constant (s^-1 for mono-, m^3/s for bi-molecular)
}

// RuleSet indexes rules by reactant signature for O(1) lookup, mirroring
// the "reaction rules queryable by (species_id) or (species_id,species_id)"
// contract of spec.md §6.
type RuleSet struct {
	mono map[string][]Rule
	bi   map[[2]string][]Rule
}

// NewRuleSet builds a RuleSet from a flat rule list.
func NewRuleSet(rules []Rule) *RuleSet {
	rs := &RuleSet{
		mono: make(map[string][]Rule),
		bi:   make(map[[2]string][]Rule),
	}
	for _, r := range rules {
		switch len(r.Reactant) {
		case 1:
			rs.mono[r.Reactant[0]] = append(rs.mono[r.Reactant[0]], r)
		case 2:
			key := biKey(r.Reactant[0], r.Reactant[1])
			rs.bi[key] = append(rs.bi[key], r)
		}
	}
	return rs
}

// ForSpecies returns the monomolecular rules applicable to a single species.
func (rs *RuleSet) ForSpecies(species string) []Rule {
	return rs.mono[species]
}

// ForPair returns the bimolecular rules applicable to an (unordered) pair
// of species.
func (rs *RuleSet) ForPair(a, b string) []Rule {
	return rs.bi[biKey(a, b)]
}

func biKey(a, b string) [2]string {
	if a <= b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
