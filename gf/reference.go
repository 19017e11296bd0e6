// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Reference is a closed-form Sampler adequate to drive the end-to-end
// scenarios of spec.md §8. It approximates each protective domain's exact
// escape-time distribution by its leading diffusion mode (first-passage
// rate ≈ D·(π/L)² for a domain of half-width/size L), which is the
// standard textbook approximation; the true eGFRD propagator library uses
// the exact infinite-series Green's functions, explicitly out of scope
// here (spec.md §1).
type Reference struct{}

// escapeRate returns the leading-mode first-passage rate for a particle of
// diffusion constant d confined to a region of size l (sphere radius,
// annulus width, or cylinder half-extent).
func escapeRate(d, l float64) float64 {
	if l <= 0 {
		return math.Inf(1)
	}
	return d * math.Pi * math.Pi / (l * l)
}

func expDraw(rate float64, rng *rand.Rand) float64 {
	if rate <= 0 {
		return math.Inf(1)
	}
	return distuv.Exponential{Rate: rate, Src: rng}.Rand()
}

// clampRadial clamps a magnitude into [lo, hi).
func clampRadial(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v >= hi {
		return math.Nextafter(hi, lo)
	}
	return v
}

func (Reference) DetermineSingleEvent(d, a, r0, sigma, kReact float64, rng *rand.Rand) (dt float64, kind Kind) {
	tEscape := expDraw(escapeRate(d, a-r0), rng)
	tReact := expDraw(kReact, rng)
	if tReact < tEscape {
		return tReact, SingleReaction
	}
	return tEscape, SingleEscape
}

func (Reference) DrawSingleRadius(d, a, r0, sigma, dt float64, kind Kind, rng *rand.Rand) float64 {
	if kind == SingleEscape {
		return a
	}
	if math.IsInf(dt, 1) || dt == 0 {
		return r0
	}
	sd := math.Sqrt(2 * d * dt)
	r := math.Abs(r0 + distuv.Normal{Mu: 0, Sigma: sd, Src: rng}.Rand())
	return clampRadial(r, 0, a)
}

func (Reference) DeterminePairEvent(d12, a, r0, sigma, kReact float64, rng *rand.Rand) (dt float64, kind Kind) {
	tEscape := expDraw(escapeRate(d12, a-r0), rng)
	tReact := expDraw(kReact, rng)
	if tReact < tEscape {
		return tReact, IVReaction
	}
	return tEscape, IVEscape
}

func (r Reference) DrawIVEventType(d12, a, r0, sigma float64, rng *rand.Rand) Kind {
	// Late-bound re-sample at firing time. The reaction clock is passed a
	// zero rate, so only the escape clock runs and the result is always
	// IVEscape.
	_, kind := r.DeterminePairEvent(d12, a, r0, sigma, 0, rng)
	return kind
}

func (Reference) DrawPairIV(d12, a, r0, sigma, dt float64, kind Kind, rng *rand.Rand) float64 {
	if kind == IVEscape {
		return a
	}
	if kind == IVReaction {
		return sigma
	}
	if math.IsInf(dt, 1) || dt == 0 {
		return r0
	}
	sd := math.Sqrt(2 * d12 * dt)
	r := math.Abs(r0 + distuv.Normal{Mu: 0, Sigma: sd, Src: rng}.Rand())
	return clampRadial(r, sigma, a)
}

func (Reference) BurstRadius(d, a, r0, sigma, tau float64, rng *rand.Rand) float64 {
	if tau <= 0 {
		return r0
	}
	sd := math.Sqrt(2 * d * tau)
	r := math.Abs(r0 + distuv.Normal{Mu: 0, Sigma: sd, Src: rng}.Rand())
	lo := 0.0
	if sigma > 0 {
		lo = sigma
	}
	return clampRadial(r, lo, a)
}

func (Reference) DrawCoMRadius(dCoM, tau float64, rng *rand.Rand) float64 {
	if dCoM <= 0 || tau <= 0 {
		return 0
	}
	sd := math.Sqrt(2 * dCoM * tau)
	return math.Abs(distuv.Normal{Mu: 0, Sigma: sd, Src: rng}.Rand())
}

func (Reference) DetermineInteractionEvent(d, dr, dzLeft, dzRight, kReact float64, rng *rand.Rand) (dt float64, kind Kind) {
	tRadial := expDraw(escapeRate(d, dr), rng)
	tLeft := expDraw(escapeRate(d, dzLeft), rng)
	tRight := expDraw(escapeRate(d, dzRight), rng)
	tReact := expDraw(kReact, rng)

	dt = tRadial
	kind = SingleEscape
	if tLeft < dt {
		dt, kind = tLeft, IVInteraction
	}
	if tRight < dt {
		dt, kind = tRight, SingleEscape
	}
	if tReact < dt {
		dt, kind = tReact, SingleReaction
	}
	return dt, kind
}

func (Reference) DrawInteractionPosition(d, dr, dzLeft, dzRight, dt float64, kind Kind, rng *rand.Rand) (radial, axial float64) {
	switch kind {
	case IVInteraction:
		return 0, -dzLeft
	case SingleEscape:
		return 0, dzRight
	default:
		if math.IsInf(dt, 1) || dt == 0 {
			return 0, 0
		}
		sd := math.Sqrt(2 * d * dt)
		radial = clampRadial(math.Abs(distuv.Normal{Mu: 0, Sigma: sd, Src: rng}.Rand()), 0, dr)
		axial = clampRadial(distuv.Normal{Mu: 0, Sigma: sd, Src: rng}.Rand(), -dzLeft, dzRight)
		return radial, axial
	}
}
