// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package egfrd

import (
	"fmt"

	"github.com/gfrd/egfrd/domain"
	"github.com/gfrd/egfrd/geom"
	"github.com/gfrd/egfrd/shell"
	"github.com/gfrd/egfrd/world"
)

// Check executes every debug-mode consistency invariant of spec.md §8 and
// returns the first violation found, or nil if all hold. It is O(n^2) in
// the number of shells and is meant for tests and development builds, not
// a production hot loop.
func (s *Simulator) Check() error {
	domains := s.env.Reg.All()

	if err := s.checkEventTimes(domains); err != nil {
		return err
	}
	if err := s.checkShellOverlap(); err != nil {
		return err
	}
	if err := s.checkParticlesInsideShells(domains); err != nil {
		return err
	}
	if err := s.checkPopulationCounts(domains); err != nil {
		return err
	}
	if err := s.checkEventQueueConsistency(domains); err != nil {
		return err
	}
	return s.checkMultiConnectivity(domains)
}

// checkEventTimes is invariant 1: every domain's own scheduled event lies
// at or after the current simulation time.
func (s *Simulator) checkEventTimes(domains []*domain.Domain) error {
	for _, d := range domains {
		if d.Event == 0 {
			continue // Dt==Inf: deliberately dropped out of the scheduler
		}
		fireTime := d.LastTime + d.Dt
		if fireTime < s.t-1e-9 {
			return fmt.Errorf("egfrd: domain %d's own event time %v precedes sim time %v", d.Id, fireTime, s.t)
		}
	}
	return nil
}

// checkShellOverlap is invariant 2: shells of distinct non-Multi domains
// never overlap. The test is exact for sphere/sphere pairs and a
// conservative (center-distance-minus-extents) bound for any pair
// involving a cylinder.
func (s *Simulator) checkShellOverlap() error {
	shells := s.env.Shells.All()
	for i := 0; i < len(shells); i++ {
		oi, oki := s.env.Reg.Owner(shells[i].Id)
		if !oki || oi.Kind == domain.Multi {
			continue
		}
		for j := i + 1; j < len(shells); j++ {
			oj, okj := s.env.Reg.Owner(shells[j].Id)
			if !okj || oj.Kind == domain.Multi || oi.Id == oj.Id {
				continue
			}
			dist := shell.CenterDistance(s.env.World.Box, shells[i], shells[j])
			if dist < shells[i].Size()+shells[j].Size()-1e-9 {
				return fmt.Errorf("egfrd: shell %d (domain %d) overlaps shell %d (domain %d)",
					shells[i].Id, oi.Id, shells[j].Id, oj.Id)
			}
		}
	}
	return nil
}

// checkParticlesInsideShells is invariant 3: every particle lies strictly
// inside at least one shell of its owning domain.
func (s *Simulator) checkParticlesInsideShells(domains []*domain.Domain) error {
	for _, d := range domains {
		pids, sids := domainMembers(d)
		for _, pid := range pids {
			p, ok := s.env.World.Get(pid)
			if !ok {
				return fmt.Errorf("egfrd: domain %d references missing particle %d", d.Id, pid)
			}
			inside := false
			for _, sid := range sids {
				if sh, ok := s.env.Shells.Get(sid); ok && sh.Contains(s.env.World.Box, p.Pos, p.Radius) {
					inside = true
					break
				}
			}
			if !inside {
				return fmt.Errorf("egfrd: particle %d is not strictly inside any shell of domain %d", pid, d.Id)
			}
		}
	}
	return nil
}

// checkPopulationCounts is invariants 4 and 5: the particle and shell
// counts summed over every domain match the World's and Container's own
// counts.
func (s *Simulator) checkPopulationCounts(domains []*domain.Domain) error {
	totalParticles, totalShells := 0, 0
	for _, d := range domains {
		pids, sids := domainMembers(d)
		totalParticles += len(pids)
		totalShells += len(sids)
	}
	if totalParticles != s.env.World.NumParticles() {
		return fmt.Errorf("egfrd: %d particles registered across domains, %d in world", totalParticles, s.env.World.NumParticles())
	}
	if totalShells != s.env.Shells.Len() {
		return fmt.Errorf("egfrd: %d shells registered across domains, %d in container", totalShells, s.env.Shells.Len())
	}
	return nil
}

// checkEventQueueConsistency is invariant 6: every domain's live event is
// actually present in the queue.
func (s *Simulator) checkEventQueueConsistency(domains []*domain.Domain) error {
	for _, d := range domains {
		if d.Event == 0 {
			continue
		}
		if _, ok := s.env.Queue.DomainOf(d.Event); !ok {
			return fmt.Errorf("egfrd: domain %d's event %d is not in the queue", d.Id, d.Event)
		}
	}
	return nil
}

// checkMultiConnectivity is invariant 7: every Multi's shells form one
// connected cluster (each shell overlaps at least one other member shell).
func (s *Simulator) checkMultiConnectivity(domains []*domain.Domain) error {
	for _, d := range domains {
		if d.Kind != domain.Multi {
			continue
		}
		if !multiIsConnected(s.env.Shells, s.env.World.Box, d) {
			return fmt.Errorf("egfrd: multi %d's shells are not all mutually connected", d.Id)
		}
	}
	return nil
}

// domainMembers returns the particle and shell ids owned by d, regardless
// of which Kind it is.
func domainMembers(d *domain.Domain) ([]world.ParticleId, []shell.Id) {
	switch d.Kind {
	case domain.Pair:
		return []world.ParticleId{d.Particle1, d.Particle2}, []shell.Id{d.ShellId}
	case domain.Multi:
		return append([]world.ParticleId(nil), d.Members...), append([]shell.Id(nil), d.MemberShells...)
	default:
		return []world.ParticleId{d.Particle}, []shell.Id{d.ShellId}
	}
}

func multiIsConnected(sc *shell.Container, box geom.Box, d *domain.Domain) bool {
	if len(d.MemberShells) <= 1 {
		return true
	}
	shells := make([]shell.Shell, 0, len(d.MemberShells))
	for _, sid := range d.MemberShells {
		if sh, ok := sc.Get(sid); ok {
			shells = append(shells, sh)
		}
	}
	if len(shells) <= 1 {
		return true
	}
	visited := make([]bool, len(shells))
	stack := []int{0}
	visited[0] = true
	count := 1
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for j := range shells {
			if visited[j] {
				continue
			}
			if shell.CenterDistance(box, shells[i], shells[j]) <= shells[i].Size()+shells[j].Size() {
				visited[j] = true
				count++
				stack = append(stack, j)
			}
		}
	}
	return count == len(shells)
}
