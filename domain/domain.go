package domain

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/gfrd/egfrd/gf"
	"github.com/gfrd/egfrd/queue"
	"github.com/gfrd/egfrd/shell"
	"github.com/gfrd/egfrd/world"
)

// Kind tags which of the four domain variants a Domain value holds,
// following the tagged-variant-plus-dispatch style of fem.Elem/msolid's
// EPmodel registry rather than four separate concrete types, since the
// Constructor and the egfrd.Simulator both need to branch on kind far
// more often than they need per-kind method sets.
type Kind int

const (
	NonInteractionSingle Kind = iota
	InteractionSingle
	Pair
	Multi
)

func (k Kind) String() string {
	switch k {
	case NonInteractionSingle:
		return "NonInteractionSingle"
	case InteractionSingle:
		return "InteractionSingle"
	case Pair:
		return "Pair"
	case Multi:
		return "Multi"
	default:
		return "Unknown"
	}
}

// Domain is one protective domain of spec.md §3: a scheduled event plus the
// shell(s) and particle(s) it owns. Only the fields relevant to Kind are
// populated; the rest are left at their zero value.
type Domain struct {
	Id    shell.DomainId
	Kind  Kind
	Event queue.Id

	LastTime  float64 // simulation time the domain was last (re)scheduled from
	Dt        float64 // sampled event time; the domain fires at LastTime+Dt
	EventKind gf.Kind

	// NonInteractionSingle / InteractionSingle
	Particle world.ParticleId
	ShellId  shell.Id
	R0       float64 // radial offset sampled for the last draw

	// InteractionSingle only
	SurfaceId       string
	DzLeft, DzRight float64 // distance from the surface projection to each cap of the straddling cylinder, per spec.md §4.8

	// Pair
	Particle1, Particle2 world.ParticleId
	PairR0                float64 // inter-particle separation when the Pair was formed
	ReactingSingle        world.ParticleId // which particle reacts first, for IV_REACTION

	// Multi
	Members      []world.ParticleId
	MemberShells []shell.Id
	LastEvent    gf.Kind
}

// ShellSize returns the size of the domain's primary shell (sphere radius
// or cylinder half-length, per shell.Shell.Size) used by the Constructor's
// neighbor-exclusion logic. Multi domains report the radius of their
// largest member shell.
func (d *Domain) ShellSize(sc *shell.Container) float64 {
	switch d.Kind {
	case Multi:
		max := 0.0
		for _, id := range d.MemberShells {
			if sh, ok := sc.Get(id); ok && sh.Size() > max {
				max = sh.Size()
			}
		}
		return max
	default:
		if sh, ok := sc.Get(d.ShellId); ok {
			return sh.Size()
		}
		return 0
	}
}

// Registry owns every live Domain, indexed both by its own id and by the
// ids of the shells it owns (spec.md §4.3).
type Registry struct {
	domains       map[shell.DomainId]*Domain
	shellToDomain map[shell.Id]shell.DomainId
	nextId        shell.DomainId
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		domains:       make(map[shell.DomainId]*Domain),
		shellToDomain: make(map[shell.Id]shell.DomainId),
	}
}

// NewId allocates a fresh domain id without registering anything yet.
func (r *Registry) NewId() shell.DomainId {
	r.nextId++
	return r.nextId
}

// Add registers d and every shell id it currently owns.
func (r *Registry) Add(d *Domain) {
	r.domains[d.Id] = d
	switch d.Kind {
	case Multi:
		utl.IntAssert(len(d.MemberShells), len(d.Members))
		for _, sid := range d.MemberShells {
			r.shellToDomain[sid] = d.Id
		}
	default:
		r.shellToDomain[d.ShellId] = d.Id
	}
}

// Remove unregisters a domain and every shell id it owned.
func (r *Registry) Remove(id shell.DomainId) {
	d, ok := r.domains[id]
	if !ok {
		return
	}
	switch d.Kind {
	case Multi:
		for _, sid := range d.MemberShells {
			delete(r.shellToDomain, sid)
		}
	default:
		delete(r.shellToDomain, d.ShellId)
	}
	delete(r.domains, id)
}

// Get returns the domain registered under id, panicking if unknown: the
// caller is expected to already hold a valid id (spec.md invariant 1).
func (r *Registry) Get(id shell.DomainId) *Domain {
	d, ok := r.domains[id]
	if !ok {
		chk.Panic("domain: unknown domain id %d", id)
	}
	return d
}

// Lookup is the non-panicking form of Get.
func (r *Registry) Lookup(id shell.DomainId) (*Domain, bool) {
	d, ok := r.domains[id]
	return d, ok
}

// Owner returns the domain owning shell id, if any.
func (r *Registry) Owner(sid shell.Id) (*Domain, bool) {
	id, ok := r.shellToDomain[sid]
	if !ok {
		return nil, false
	}
	return r.domains[id], true
}

// Len returns how many domains are currently registered.
func (r *Registry) Len() int { return len(r.domains) }

// All returns every registered domain, in no particular order.
func (r *Registry) All() []*Domain {
	out := make([]*Domain, 0, len(r.domains))
	for _, d := range r.domains {
		out = append(out, d)
	}
	return out
}
