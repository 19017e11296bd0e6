package domain

import (
	"math/rand"
	"sort"

	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/gf"
	"github.com/gfrd/egfrd/model"
	"github.com/gfrd/egfrd/queue"
	"github.com/gfrd/egfrd/shell"
	"github.com/gfrd/egfrd/world"
)

// Env bundles the collaborators the Constructor needs, so its functions
// read as close as practical to original_source/egfrd.py's
// make_new_domain/try_pair/try_interaction/form_multi while staying
// dependency-injected rather than reaching for globals.
type Env struct {
	World   *world.World
	Reg     *Registry
	Shells  *shell.Container
	Queue   *queue.Queue
	Rules   *model.RuleSet
	Sampler gf.Sampler
	Rng     *rand.Rand
	Tuning  Tuning
}

// UpdateSingle grows (or shrinks) a bare NonInteractionSingle's shell to
// the largest size available given its surroundings, then draws its next
// event, implementing original_source/egfrd.py's update_single.
func UpdateSingle(env *Env, d *Domain, now float64) {
	p, ok := env.World.Get(d.Particle)
	if !ok {
		return
	}

	closest, dist := closestOtherDomain(env.World, env.Reg, env.Shells, p.Pos, []shell.DomainId{d.Id}, p.StructureId)

	var newSize float64
	if closest != nil && closest.Kind == NonInteractionSingle {
		cp, _ := env.World.Get(closest.Particle)
		csh, _ := env.Shells.Get(closest.ShellId)
		distToClosest := env.World.Distance(p.Pos, csh.Center)
		newSize = CalculateSingleShellSize(p, cp, distToClosest, dist, env.Tuning)
	} else {
		newSize = dist / env.Tuning.Safety
		if newSize < p.Radius {
			newSize = p.Radius
		}
	}
	if newSize > env.Tuning.MaxShellSize {
		newSize = env.Tuning.MaxShellSize
	}

	env.Shells.Insert(shell.NewSphere(d.ShellId, shell.DomainId(d.Id), p.Pos, newSize))

	dt, kind := env.Sampler.DetermineSingleEvent(p.D, newSize, 0, p.Radius, reactionRateFor(env.Rules, p.SpeciesId), env.Rng)
	d.Dt = dt
	d.EventKind = kind
	d.R0 = 0
	d.LastTime = now
	env.Queue.Update(d.Event, now+dt)
}

// ReactionRateFor returns the total unimolecular decay rate for a species,
// summing every monomolecular rule that names it as reactant. Exported for
// use by egfrd's fire_single handler when redrawing an immobile single's
// next event.
func ReactionRateFor(rules *model.RuleSet, speciesId string) float64 {
	return reactionRateFor(rules, speciesId)
}

func reactionRateFor(rules *model.RuleSet, speciesId string) float64 {
	if rules == nil {
		return 0
	}
	total := 0.0
	for _, r := range rules.ForSpecies(speciesId) {
		total += r.K
	}
	return total
}

// MakeNewDomain implements original_source/egfrd.py's make_new_domain: it
// decides, for a bare single particle just placed in the world, whether
// to pair it with a neighbor, let it interact with a nearby surface,
// fold it (and any close neighbors) into a Multi, or simply grow its own
// shell as a standalone NonInteractionSingle — and performs whichever
// choice is made, returning the resulting domain.
func MakeNewDomain(env *Env, now float64, single *Domain) *Domain {
	p, ok := env.World.Get(single.Particle)
	if !ok {
		return single
	}

	// query radius: the container query works on raw center distances, so
	// pad it by a generous allowance for the neighbor's own radius.
	reactionHorizon := p.Radius * env.Tuning.SingleShellFactor
	ignore := map[shell.Id]bool{single.ShellId: true}
	hits := env.Shells.NeighborsWithin(p.Pos, reactionHorizon+4*p.Radius, ignore)

	seen := map[shell.DomainId]bool{single.Id: true}
	var partners []*Domain
	var dists []float64 // distance from p's center to each partner's shell surface
	for _, h := range hits {
		owner, ok := env.Reg.Owner(h.Id)
		if !ok || seen[owner.Id] {
			continue
		}
		seen[owner.Id] = true

		if owner.Kind == Multi {
			sh, _ := env.Shells.Get(h.Id)
			partners = append(partners, owner)
			dists = append(dists, h.Distance-sh.Size())
			continue
		}
		if owner.LastTime == now {
			continue // already freshly reset this instant; not a candidate partner
		}
		bursted := BurstDomain(env.World, env.Reg, env.Shells, env.Queue, env.Sampler, env.Rng, now, owner)
		for _, b := range bursted {
			bp, _ := env.World.Get(b.Particle)
			partners = append(partners, b)
			dists = append(dists, env.World.Distance(p.Pos, bp.Pos)-bp.Radius) // a bare single's shell is its particle's radius
		}
	}
	sortPartnersByDistance(partners, dists)

	closestSurface, surfaceDist := closestSurface(env.World, p)
	var closestPartnerDist float64 = posInf
	if len(partners) > 0 {
		closestPartnerDist = dists[0]
	}
	multiHorizon := p.Radius * env.Tuning.MultiShellFactor

	// The Pair horizon uses the sum of both particles' radii (spec.md
	// §4.6/§4.7; original_source/egfrd.py:999-1001's
	// pair_horizon = (single_radius + closest_domain...radius) *
	// SINGLE_SHELL_FACTOR), not just p's own radius.
	pairCandidate := len(partners) > 0 && partners[0].Kind == NonInteractionSingle
	pairHorizon := reactionHorizon
	if pairCandidate {
		partnerP, _ := env.World.Get(partners[0].Particle)
		pairHorizon = (p.Radius + partnerP.Radius) * env.Tuning.SingleShellFactor
	}

	if pairCandidate && closestPartnerDist < pairHorizon {
		if d := tryPair(env, now, single, partners[0], partners[1:]); d != nil {
			return d
		}
	} else if closestSurface != nil && surfaceDist < closestPartnerDist && surfaceDist < reactionHorizon &&
		env.World.GetStructure(p.StructureId).IsBulk() {
		// original_source/egfrd.py:1007 gates interaction formation on the
		// particle itself being a spherical (bulk) single; a single already
		// living on a surface does not try to interact with another one.
		if d := tryInteraction(env, now, single, closestSurface, surfaceDist); d != nil {
			return d
		}
	}

	if closestPartnerDist > multiHorizon && surfaceDist > multiHorizon {
		UpdateSingle(env, single, now)
		return single
	}
	return formMulti(env, now, single, partners, dists)
}

const posInf = 1e300

func sortPartnersByDistance(partners []*Domain, dists []float64) {
	idx := make([]int, len(partners))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return dists[idx[i]] < dists[idx[j]] })
	op := append([]*Domain(nil), partners...)
	od := append([]float64(nil), dists...)
	for i, j := range idx {
		partners[i] = op[j]
		dists[i] = od[j]
	}
}

// closestSurface returns the non-bulk structure nearest to p and the
// (unsigned) distance from p's current position to it, ignoring p's own
// structure if p already sits on a surface.
func closestSurface(w *world.World, p world.Particle) (*model.Structure, float64) {
	var best *model.Structure
	bestDist := posInf
	for _, s := range w.Structures() {
		if s.IsBulk() || s.Id == p.StructureId {
			continue
		}
		_, signed := s.ProjectedPoint(p.Pos)
		d := signed
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			sc := s
			best, bestDist = &sc, d
		}
	}
	return best, bestDist
}

// tryPair implements try_pair: attempt to replace single and partner with
// a Pair domain; returns nil (leaving both domains untouched, already
// bursted) if no Pair makes sense.
func tryPair(env *Env, now float64, single, partner *Domain, burst []*Domain) *Domain {
	p1, _ := env.World.Get(single.Particle)
	p2, _ := env.World.Get(partner.Particle)
	if p1.StructureId != p2.StructureId {
		return nil
	}

	com, r0, size, ok := CalculateSimplePairShellSize(env.World, env.Tuning, env.Reg, env.Shells, p1, p2, single.Id, partner.Id, burst)
	if !ok {
		return nil
	}

	id := env.Reg.NewId()
	sid := shell.Id(id)
	env.Shells.Insert(shell.NewSphere(sid, shell.DomainId(id), com, size))

	sigma := p1.Radius + p2.Radius
	d12 := p1.D + p2.D
	kReact := reactionRateForPair(env.Rules, p1.SpeciesId, p2.SpeciesId)
	dt, kind := env.Sampler.DeterminePairEvent(d12, size, r0, sigma, kReact, env.Rng)

	env.Queue.Remove(single.Event)
	env.Queue.Remove(partner.Event)
	env.Reg.Remove(single.Id)
	env.Reg.Remove(partner.Id)
	env.Shells.Remove(single.ShellId)
	env.Shells.Remove(partner.ShellId)

	ev := env.Queue.Push(now+dt, shell.DomainId(id))
	d := &Domain{
		Id:        shell.DomainId(id),
		Kind:      Pair,
		Event:     ev,
		LastTime:  now,
		Dt:        dt,
		EventKind: kind,
		Particle1: single.Particle,
		Particle2: partner.Particle,
		ShellId:   sid,
		PairR0:    r0,
	}
	env.Reg.Add(d)
	return d
}

func reactionRateForPair(rules *model.RuleSet, s1, s2 string) float64 {
	if rules == nil {
		return 0
	}
	total := 0.0
	for _, r := range rules.ForPair(s1, s2) {
		total += r.K
	}
	return total
}

// tryInteraction implements try_interaction: attempt to build an
// InteractionSingle straddling cylinder around single and surf; returns
// nil if the minimal cylinder cannot be carved out clear of other shells.
func tryInteraction(env *Env, now float64, single *Domain, surf *model.Structure, particleDistance float64) *Domain {
	p, _ := env.World.Get(single.Particle)
	projected, signed := surf.ProjectedPoint(p.Pos)
	orientation := surf.Normal
	if signed < 0 {
		orientation = geom.Scale(-1, orientation)
	}

	minDr, minDzL, minDzR := minCylinder(p.Radius)
	maxSearch := env.Tuning.MaxShellSize
	dr, dzLeft, dzRight := calculateMaxCylinder(env.World.Box, env.Shells, env.Reg, single.ShellId,
		projected, orientation, maxSearch, maxSearch, maxSearch, surf.Kind == model.Cylindrical, particleDistance, maxSearch)

	if dr < minDr || dzLeft < minDzL || dzRight < minDzR {
		return nil
	}

	id := env.Reg.NewId()
	sid := shell.Id(id)
	center := geom.Add(projected, geom.Scale((dzRight-dzLeft)/2, orientation))
	halfLen := (dzLeft + dzRight) / 2
	env.Shells.Insert(shell.NewCylinder(sid, shell.DomainId(id), center, orientation, dr, halfLen))

	kReact := reactionRateFor(env.Rules, p.SpeciesId)
	dt, kind := env.Sampler.DetermineInteractionEvent(p.D, dr, dzLeft, dzRight, kReact, env.Rng)

	env.Queue.Remove(single.Event)
	env.Reg.Remove(single.Id)
	env.Shells.Remove(single.ShellId)

	ev := env.Queue.Push(now+dt, shell.DomainId(id))
	d := &Domain{
		Id:        shell.DomainId(id),
		Kind:      InteractionSingle,
		Event:     ev,
		LastTime:  now,
		Dt:        dt,
		EventKind: kind,
		Particle:  single.Particle,
		ShellId:   sid,
		SurfaceId: surf.Id,
		DzLeft:    dzLeft,
		DzRight:   dzRight,
	}
	env.Reg.Add(d)
	return d
}

// formMulti implements form_multi: fold single, and any of its candidate
// neighbors within the Multi horizon, into one Multi domain (reusing an
// existing neighboring Multi rather than creating a second one when
// possible).
func formMulti(env *Env, now float64, single *Domain, neighbors []*Domain, dists []float64) *Domain {
	p, _ := env.World.Get(single.Particle)
	minShell := p.Radius * env.Tuning.MultiShellFactor

	var inReach []*Domain
	for i, n := range neighbors {
		if dists[i] <= minShell {
			inReach = append(inReach, n)
		}
	}

	var multi *Domain
	rest := inReach
	if len(inReach) > 0 && inReach[0].Kind == Multi {
		multi = inReach[0]
		rest = inReach[1:]
	} else {
		id := env.Reg.NewId()
		multi = &Domain{Id: shell.DomainId(id), Kind: Multi, LastEvent: gf.MultiDiffusion}
		env.Reg.Add(multi)
	}

	env.Queue.Remove(single.Event)
	addToMulti(env, multi, single)
	env.Reg.Remove(single.Id)

	for _, n := range rest {
		addDomainToMulti(env, multi, n)
	}

	scheduleMulti(env, now, multi)
	return multi
}

// addToMulti folds a single bare particle into multi's member list with a
// shell sized to its Multi horizon.
func addToMulti(env *Env, multi *Domain, single *Domain) {
	p, ok := env.World.Get(single.Particle)
	if !ok {
		return
	}
	id := env.Reg.NewId()
	sid := shell.Id(id)
	env.Shells.Insert(shell.NewSphere(sid, shell.DomainId(multi.Id), p.Pos, p.Radius*env.Tuning.MultiShellFactor))
	env.Shells.Remove(single.ShellId)
	multi.Members = append(multi.Members, single.Particle)
	multi.MemberShells = append(multi.MemberShells, sid)
}

// addDomainToMulti absorbs one neighboring domain into multi: a Single is
// folded in directly, a Multi's members are merged wholesale, and any other
// kind is left untouched. It does not search the absorbed particles' own
// neighborhoods for further domains to absorb.
func addDomainToMulti(env *Env, multi *Domain, d *Domain) {
	switch d.Kind {
	case NonInteractionSingle, InteractionSingle:
		env.Queue.Remove(d.Event)
		env.Reg.Remove(d.Id)
		addToMulti(env, multi, d)
	case Multi:
		if d.Id == multi.Id {
			return
		}
		env.Queue.Remove(d.Event)
		for i, pid := range d.Members {
			sid := d.MemberShells[i]
			sh, ok := env.Shells.Get(sid)
			if !ok {
				continue
			}
			newId := env.Reg.NewId()
			newSid := shell.Id(newId)
			env.Shells.Insert(shell.NewSphere(newSid, shell.DomainId(multi.Id), sh.Center, sh.Radius))
			env.Shells.Remove(sid)
			multi.Members = append(multi.Members, pid)
			multi.MemberShells = append(multi.MemberShells, newSid)
		}
		env.Reg.Remove(d.Id)
	}
}

// scheduleMulti sizes the Multi's fixed BD time step from its member
// species (Multi.calculate_bd_dt) and (re)schedules its event.
func scheduleMulti(env *Env, now float64, multi *Domain) {
	dt := CalculateBDDt(env.World, env.Tuning, multi.Members)
	multi.LastTime = now
	multi.Dt = dt
	if multi.Event != 0 {
		env.Queue.Update(multi.Event, now+dt)
	} else {
		multi.Event = env.Queue.Push(now+dt, multi.Id)
	}
	env.Reg.Add(multi)
}
