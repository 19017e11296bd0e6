package domain

import "github.com/gfrd/egfrd/world"

// SpawnSingle creates a bare NonInteractionSingle for a particle that was
// just placed in the world (initial insertion, a reaction product, or a
// Pair/Multi breakup result) and immediately runs it through MakeNewDomain,
// so a freshly placed particle is sized and possibly paired/interacted/
// folded into a Multi in one step rather than sitting as a minimal bare
// single until its own first event fires. original_source/egfrd.py's
// create_single only sizes the single (via a lighter initial shell calc)
// without re-running make_new_domain; running the full Constructor here
// instead is a deliberate simplification so every entry point that places
// a particle goes through the same decision procedure.
func SpawnSingle(env *Env, now float64, pid world.ParticleId) *Domain {
	bare := bareSingle(env.World, env.Reg, env.Shells, env.Queue, env.Sampler, env.Rng, now, pid)
	if bare == nil {
		return nil
	}
	return MakeNewDomain(env, now, bare)
}
