package domain

import (
	"math"
	"math/rand"

	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/gf"
	"github.com/gfrd/egfrd/model"
	"github.com/gfrd/egfrd/queue"
	"github.com/gfrd/egfrd/shell"
	"github.com/gfrd/egfrd/world"
)

// radialDirection returns the unit vector from center to x, or an
// arbitrary fixed axis if x sits exactly on center (degenerate case that
// only arises for a particle that has not moved since its shell was
// made).
func radialDirection(b geom.Box, center, x geom.Vec3) geom.Vec3 {
	d := b.CyclicTranspose(x, center)
	v := geom.Sub(d, center)
	n := geom.Norm(v)
	if n < 1e-300 {
		return geom.Vec3{X: 1}
	}
	return geom.Scale(1/n, v)
}

// isotropicDirectionOnStructure draws a unit vector consistent with st: full
// 3D for the bulk, in-plane for a PlanarSurface, and either axis direction
// for a CylindricalSurface. Kept in this package (rather than shared with
// egfrd.randomDirectionOnStructure, which draws the same distributions) so
// BurstDomain's Pair case can diffuse a centre of mass without domain
// importing egfrd.
func isotropicDirectionOnStructure(st *model.Structure, rng *rand.Rand) geom.Vec3 {
	switch st.Kind {
	case model.Planar:
		theta := 2 * math.Pi * rng.Float64()
		return geom.Add(geom.Scale(math.Cos(theta), st.UnitX), geom.Scale(math.Sin(theta), st.UnitY))
	case model.Cylindrical:
		if rng.Float64() < 0.5 {
			return st.Normal
		}
		return geom.Scale(-1, st.Normal)
	default:
		v := geom.New(rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64())
		n := geom.Norm(v)
		if n < 1e-300 {
			return geom.Vec3{X: 1}
		}
		return geom.Scale(1/n, v)
	}
}

// bareSingle creates and schedules a fresh NonInteractionSingle whose
// shell is exactly the particle's own radius, the minimal domain a burst
// or a Multi decomposition resolves into before the Constructor has had a
// chance to grow it (mirrors original_source/egfrd.py's burst_single
// immediately followed by determine_next_event on the bare shell).
func bareSingle(w *world.World, reg *Registry, sc *shell.Container, q *queue.Queue,
	sampler gf.Sampler, rng *rand.Rand, now float64, pid world.ParticleId) *Domain {

	p, ok := w.Get(pid)
	if !ok {
		return nil
	}

	id := reg.NewId()
	sid := shell.Id(id) // shell ids and domain ids share the same counter space here; both are scoped per-Registry/Container instance so this stays unique.
	sh := shell.NewSphere(sid, shell.DomainId(id), p.Pos, p.Radius)
	sc.Insert(sh)

	dt, kind := sampler.DetermineSingleEvent(p.D, p.Radius, 0, 0, 0, rng)
	ev := q.Push(now+dt, shell.DomainId(id))

	d := &Domain{
		Id:        shell.DomainId(id),
		Kind:      NonInteractionSingle,
		Event:     ev,
		LastTime:  now,
		Dt:        dt,
		EventKind: kind,
		Particle:  pid,
		ShellId:   sid,
	}
	reg.Add(d)
	return d
}

// BurstDomain resolves d to its particles' current positions at time now
// (which must be <= d.LastTime+d.Dt) and replaces it with one bare
// NonInteractionSingle per particle, per spec.md §4.5's "Burst" operation.
// d is removed from reg/sc/q as a side effect; the caller must not use it
// again afterwards.
func BurstDomain(w *world.World, reg *Registry, sc *shell.Container, q *queue.Queue,
	sampler gf.Sampler, rng *rand.Rand, now float64, d *Domain) []*Domain {

	tau := now - d.LastTime
	if tau < 0 {
		tau = 0
	}

	var result []*Domain

	switch d.Kind {
	case NonInteractionSingle, InteractionSingle:
		p, ok := w.Get(d.Particle)
		if ok {
			sh, _ := sc.Get(d.ShellId)
			dir := radialDirection(w.Box, sh.Center, p.Pos)
			r := sampler.BurstRadius(p.D, sh.Size(), d.R0, 0, tau, rng)
			newPos := w.ApplyBoundary(geom.Add(sh.Center, geom.Scale(r, dir)))
			w.UpdateParticle(d.Particle, newPos)
		}
		q.Remove(d.Event)
		reg.Remove(d.Id)
		sc.Remove(d.ShellId)
		if single := bareSingle(w, reg, sc, q, sampler, rng, now, d.Particle); single != nil {
			result = append(result, single)
		}

	case Pair:
		p1, ok1 := w.Get(d.Particle1)
		p2, ok2 := w.Get(d.Particle2)
		sh, _ := sc.Get(d.ShellId)
		if ok1 && ok2 {
			d12 := p1.D + p2.D
			iv := sampler.BurstRadius(d12, sh.Size(), d.PairR0, p1.Radius+p2.Radius, tau, rng)
			oldCom := world.CalculatePairCoM(p1.Pos, p2.Pos, p1.D, p2.D)
			ivDir := radialDirection(w.Box, oldCom, p1.Pos)

			dCoM := p1.D * p2.D / d12
			comR := sampler.DrawCoMRadius(dCoM, tau, rng)
			comDir := isotropicDirectionOnStructure(w.GetStructure(p1.StructureId), rng)
			com := w.ApplyBoundary(geom.Add(oldCom, geom.Scale(comR, comDir)))

			newPos1 := w.ApplyBoundary(geom.Add(com, geom.Scale(iv*p2.D/d12, ivDir)))
			newPos2 := w.ApplyBoundary(geom.Add(com, geom.Scale(-iv*p1.D/d12, ivDir)))
			w.UpdateParticle(d.Particle1, newPos1)
			w.UpdateParticle(d.Particle2, newPos2)
		}
		q.Remove(d.Event)
		reg.Remove(d.Id)
		sc.Remove(d.ShellId)
		if s1 := bareSingle(w, reg, sc, q, sampler, rng, now, d.Particle1); s1 != nil {
			result = append(result, s1)
		}
		if s2 := bareSingle(w, reg, sc, q, sampler, rng, now, d.Particle2); s2 != nil {
			result = append(result, s2)
		}

	case Multi:
		members := append([]world.ParticleId(nil), d.Members...)
		q.Remove(d.Event)
		reg.Remove(d.Id)
		for _, sid := range d.MemberShells {
			sc.Remove(sid)
		}
		for _, pid := range members {
			if single := bareSingle(w, reg, sc, q, sampler, rng, now, pid); single != nil {
				result = append(result, single)
			}
		}
	}

	return result
}
