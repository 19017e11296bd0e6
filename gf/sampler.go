// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf declares the analytic Green's-function propagator contract
// of spec.md §4.4/§6 (an external collaborator: the exact first-passage
// math for free/radial/planar/cylindrical diffusion is out of scope for
// this spec) and supplies one concrete, closed-form reference
// implementation sufficient to drive the end-to-end scenarios of
// spec.md §8.
package gf

import "math/rand"

// Kind enumerates the event kinds a Sampler may report, per spec.md §4.4.
type Kind int

const (
	SingleEscape Kind = iota
	SingleReaction
	IVEscape
	IVReaction
	IVInteraction
	ComEscape
	BurstKind
	MultiDiffusion
	MultiUnimolecularReaction
	MultiBimolecularReaction
	MultiEscape
)

func (k Kind) String() string {
	switch k {
	case SingleEscape:
		return "SINGLE_ESCAPE"
	case SingleReaction:
		return "SINGLE_REACTION"
	case IVEscape:
		return "IV_ESCAPE"
	case IVReaction:
		return "IV_REACTION"
	case IVInteraction:
		return "IV_INTERACTION"
	case ComEscape:
		return "COM_ESCAPE"
	case BurstKind:
		return "BURST"
	case MultiDiffusion:
		return "MULTI_DIFFUSION"
	case MultiUnimolecularReaction:
		return "MULTI_UNIMOLECULAR_REACTION"
	case MultiBimolecularReaction:
		return "MULTI_BIMOLECULAR_REACTION"
	case MultiEscape:
		return "MULTI_ESCAPE"
	default:
		return "UNKNOWN"
	}
}

// Sampler is the propagator interface of spec.md §4.4. Domains are
// expressed to it only through their radial geometry (shell size `a`,
// starting radial offset `r0`, reaction radius `sigma`) so that `gf`
// never needs to import package `domain`; the caller picks the 3D
// direction for whatever radial magnitude the Sampler returns.
type Sampler interface {
	// DetermineSingleEvent samples the first-exit-vs-first-reaction time
	// for a single particle of diffusion constant d confined to a shell
	// of size a, starting at radial offset r0, with reaction radius sigma
	// and intrinsic rate kReact (kReact<=0 disables SINGLE_REACTION).
	DetermineSingleEvent(d, a, r0, sigma, kReact float64, rng *rand.Rand) (dt float64, kind Kind)

	// DrawSingleRadius returns the radial position reached at time dt
	// given the already-determined event kind (spec.md §4.4's
	// draw_new_position, late-bound to the event already drawn).
	DrawSingleRadius(d, a, r0, sigma, dt float64, kind Kind, rng *rand.Rand) (r float64)

	// DeterminePairEvent samples the inter-particle-vector event for a
	// Pair's relative coordinate: diffusion constant d12=D1+D2, shell
	// size a, starting separation r0, contact distance sigma, reaction
	// rate kReact.
	DeterminePairEvent(d12, a, r0, sigma, kReact float64, rng *rand.Rand) (dt float64, kind Kind)

	// DrawIVEventType re-samples the IV event type at firing time from
	// the distribution conditional on having survived to dt (spec.md
	// §4.4: "draw_iv_event_type(r0) at event firing time, late binding").
	DrawIVEventType(d12, a, r0, sigma float64, rng *rand.Rand) Kind

	// DrawPairIV returns the inter-particle separation reached at time dt.
	DrawPairIV(d12, a, r0, sigma, dt float64, kind Kind, rng *rand.Rand) (r float64)

	// DrawCoMRadius returns the radial displacement of a Pair's centre of
	// mass (pure free diffusion with diffusion constant dCoM) after time
	// tau.
	DrawCoMRadius(dCoM, tau float64, rng *rand.Rand) (r float64)

	// DetermineInteractionEvent samples the first event for an
	// InteractionSingle's straddling cylinder: dr is the radial escape
	// distance, dzLeft the distance to the surface (IV_INTERACTION on
	// arrival), dzRight the distance back into the bulk (SINGLE_ESCAPE on
	// arrival); kReact is the single's own intrinsic decay rate.
	DetermineInteractionEvent(d, dr, dzLeft, dzRight, kReact float64, rng *rand.Rand) (dt float64, kind Kind)

	// DrawInteractionPosition returns the radial and (signed, +dzRight
	// side positive) axial coordinate reached at time dt.
	DrawInteractionPosition(d, dr, dzLeft, dzRight, dt float64, kind Kind, rng *rand.Rand) (radial, axial float64)

	// BurstRadius returns the radial position reached after elapsed time
	// tau, conditioned on the particle NOT having reached either bound
	// of its shell (burst always stops a domain early, before whichever
	// event it was scheduled for). Used by domain.BurstDomain.
	BurstRadius(d, a, r0, sigma, tau float64, rng *rand.Rand) (r float64)
}
