package domain

import (
	"math"

	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/gf"
	"github.com/gfrd/egfrd/shell"
	"github.com/gfrd/egfrd/world"
)

// CalculateBDDt implements Multi.calculate_bd_dt: a fixed Brownian
// Dynamics step sized from the fastest-diffusing, smallest member so that
// even that particle cannot tunnel past a same-size neighbor within one
// step.
func CalculateBDDt(w *world.World, tn Tuning, members []world.ParticleId) float64 {
	dMax := 0.0
	radiusMin := math.Inf(1)
	for _, pid := range members {
		p, ok := w.Get(pid)
		if !ok {
			continue
		}
		if p.D > dMax {
			dMax = p.D
		}
		if p.Radius < radiusMin {
			radiusMin = p.Radius
		}
	}
	if dMax <= 0 || math.IsInf(radiusMin, 1) {
		return tn.DtHardcoreMin
	}
	dt := tn.BDStepSizeFactor * (radiusMin * 2) * (radiusMin * 2) / (2 * dMax)
	if dt < tn.DtHardcoreMin {
		dt = tn.DtHardcoreMin
	}
	return dt
}

// MultiStepResult reports what happened during one Multi BD step, for the
// caller to decide whether the Multi should be re-scheduled as is, or
// dissolved back into Singles/Pairs (spec.md §4.9).
type MultiStepResult struct {
	Kind      gf.Kind
	Reactant1 world.ParticleId
	Reactant2 world.ParticleId // zero if the reaction (if any) was unimolecular
	HasReaction bool
	HasEscape   bool
}

// reactionLengthFor returns the overlap cushion used while testing
// bimolecular reactions and shell escape, a small fraction of the
// smallest member radius (original_source/multi.py computes this from
// the network rules' reaction volumes; the closed-form reaction-rate
// network used here instead derives it from geometry alone).
func reactionLengthFor(w *world.World, members []world.ParticleId) float64 {
	minR := math.Inf(1)
	for _, pid := range members {
		if p, ok := w.Get(pid); ok && p.Radius < minR {
			minR = p.Radius
		}
	}
	if math.IsInf(minR, 1) {
		return 0
	}
	return 0.1 * minR
}

// FireMulti advances every member of multi by one fixed BD step
// (retrying a rejected placement up to tn.DissociationRetryMoves times
// before giving up on that particular move), stops at and reports the
// first unimolecular or bimolecular reaction that fires (the caller
// applies it), and otherwise reports whether any member has left every
// one of the Multi's shells.
func FireMulti(env *Env, multi *Domain) MultiStepResult {
	dt := multi.Dt
	now := multi.LastTime + multi.Dt
	res := MultiStepResult{Kind: gf.MultiDiffusion}
	reactionLength := reactionLengthFor(env.World, multi.Members)

	ownShells := make(map[shell.Id]bool, len(multi.MemberShells))
	for _, sid := range multi.MemberShells {
		ownShells[sid] = true
	}

	for _, pid := range multi.Members {
		p, ok := env.World.Get(pid)
		if !ok {
			continue
		}

		if rate := reactionRateFor(env.Rules, p.SpeciesId); rate > 0 {
			if env.Rng.Float64() < 1-math.Exp(-rate*dt) {
				res.HasReaction = true
				res.Kind = gf.MultiUnimolecularReaction
				res.Reactant1 = pid
				return res
			}
		}

		sd := math.Sqrt(2 * p.D * dt)
		attempt := func() geom.Vec3 {
			return geom.Add(p.Pos, geom.New(
				sd*env.Rng.NormFloat64(),
				sd*env.Rng.NormFloat64(),
				sd*env.Rng.NormFloat64(),
			))
		}

		newPos := attempt()
		tries := env.Tuning.DissociationRetryMoves
		for tries > 0 && env.World.CheckOverlap(newPos, p.Radius-reactionLength, pid) {
			newPos = attempt()
			tries--
		}
		if env.World.CheckOverlap(newPos, p.Radius-reactionLength, pid) {
			continue // every attempt overlapped: the member stays put this step
		}
		newPos = env.World.ApplyBoundary(newPos)

		burstVolume(env, now, newPos, p.Radius, ownShells)
		env.World.UpdateParticle(pid, newPos)
	}

	// bimolecular reactions: any pair of distinct species within contact
	// distance (plus cushion) and named in a binding rule reacts.
	for i := 0; i < len(multi.Members); i++ {
		p1, ok1 := env.World.Get(multi.Members[i])
		if !ok1 {
			continue
		}
		for j := i + 1; j < len(multi.Members); j++ {
			p2, ok2 := env.World.Get(multi.Members[j])
			if !ok2 {
				continue
			}
			rules := env.Rules.ForPair(p1.SpeciesId, p2.SpeciesId)
			if len(rules) == 0 {
				continue
			}
			if env.World.Distance(p1.Pos, p2.Pos) > p1.Radius+p2.Radius+reactionLength {
				continue
			}
			res.HasReaction = true
			res.Kind = gf.MultiBimolecularReaction
			res.Reactant1 = p1.Id
			res.Reactant2 = p2.Id
			return res
		}
	}

	res.HasEscape = multiHasEscaped(env.World, env.Shells, multi)
	if res.HasEscape {
		res.Kind = gf.MultiEscape
	}
	return res
}

// burstVolume clears every other (non-Multi) domain whose shell would end
// up containing a member particle at its freshly committed dest, so the
// commit below can never leave two live shells overlapping — the Multi
// equivalent of the Constructor's own burst-before-grow step, required
// because a BD move is only checked against other particles' hard cores
// (CheckOverlap above), never against the larger shells those particles
// may currently be occupying. Multi shells are left alone since they are
// the one domain kind the overlap invariant explicitly allows to overlap
// each other.
func burstVolume(env *Env, now float64, dest geom.Vec3, radius float64, ownShells map[shell.Id]bool) {
	// query radius: shell centers can sit up to the largest possible
	// shell size away from dest and still reach it, so pad the search
	// generously rather than assuming every nearby shell is small.
	hits := env.Shells.NeighborsWithin(dest, radius+env.Tuning.MaxShellSize, ownShells)
	seen := map[shell.DomainId]bool{}
	for _, h := range hits {
		owner, ok := env.Reg.Owner(h.Id)
		if !ok || owner.Kind == Multi || seen[owner.Id] {
			continue
		}
		seen[owner.Id] = true
		sh, ok := env.Shells.Get(h.Id)
		if ok && sh.Contains(env.World.Box, dest, -radius) {
			BurstDomain(env.World, env.Reg, env.Shells, env.Queue, env.Sampler, env.Rng, now, owner)
		}
	}
}

// multiHasEscaped reports whether any member particle has left every
// shell belonging to multi.
func multiHasEscaped(w *world.World, sc *shell.Container, multi *Domain) bool {
	for _, pid := range multi.Members {
		p, ok := w.Get(pid)
		if !ok {
			continue
		}
		inside := false
		for _, sid := range multi.MemberShells {
			sh, ok := sc.Get(sid)
			if !ok {
				continue
			}
			if sh.Contains(w.Box, p.Pos, 0) {
				inside = true
				break
			}
		}
		if !inside {
			return true
		}
	}
	return false
}
