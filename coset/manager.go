/*
Package coset implements coset management (a pool of active/inactive
coset identifiers with recycling) and Todd-Coxeter coset enumeration
(HLT and Felsch strategies, table standardization) on top of it.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package coset

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/semigroups"
	"github.com/npillmayer/semigroups/unionfind"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// Undefined marks an absent coset.
const Undefined = semigroups.Undefined

// Coset 0 is the identity class and is never freed.
const Identity = 0

// Manager maintains the active-coset doubly linked list, the free-list,
// and the union-find-style "identified_with" forwarding array described
// in spec §4.2. Everything else in package coset references cosets only
// as integer indices into this arena — it is the sole owner of the coset id space (spec §9,
// "cyclic ownership").
type Manager struct {
	forward, backward []int // active-list links
	identifiedWith     []int // Undefined if not identified away
	active, defined, killed int
	freeHead          int
	lastActive        int
	capacity          int
}

// NewManager creates a manager with coset 0 already active.
func NewManager() *Manager {
	m := &Manager{freeHead: Undefined, lastActive: Identity}
	m.growTo(1)
	m.identifiedWith[Identity] = Identity
	m.active = 1
	m.defined = 1
	return m
}

func (m *Manager) growTo(n int) {
	for m.capacity < n {
		m.forward = append(m.forward, Undefined)
		m.backward = append(m.backward, Undefined)
		m.identifiedWith = append(m.identifiedWith, Undefined)
		m.capacity++
	}
}

// AddActiveCosets grows capacity by k, pushing the new ids onto the
// active list immediately after the current last-active coset.
func (m *Manager) AddActiveCosets(k int) {
	for i := 0; i < k; i++ {
		m.newActiveCosetAt(m.capacity)
	}
}

// AddFreeCosets grows capacity by k, pushing the new ids onto the
// free-list.
func (m *Manager) AddFreeCosets(k int) {
	for i := 0; i < k; i++ {
		c := m.capacity
		m.growTo(c + 1)
		m.pushFree(c)
	}
}

func (m *Manager) pushFree(c int) {
	m.forward[c] = m.freeHead
	m.freeHead = c
}

func (m *Manager) newActiveCosetAt(c int) {
	m.growTo(c + 1)
	m.identifiedWith[c] = c
	m.forward[m.lastActive] = c
	m.backward[c] = m.lastActive
	m.forward[c] = Undefined
	m.lastActive = c
	m.active++
	m.defined++
}

// NewActiveCoset pops the free-list head (or grows capacity), splices it
// into the active list just after the current last-active coset, and
// returns it.
func (m *Manager) NewActiveCoset() int {
	var c int
	if m.freeHead != Undefined {
		c = m.freeHead
		m.freeHead = m.forward[c]
	} else {
		c = m.capacity
		m.growTo(c + 1)
	}
	m.identifiedWith[c] = c
	m.forward[m.lastActive] = c
	m.backward[c] = m.lastActive
	m.forward[c] = Undefined
	m.lastActive = c
	m.active++
	m.defined++
	tracer().Debugf("coset: new active coset %d", c)
	return c
}

// UnionCosets merges max into min (min < max): unlinks max from the
// active list, pushes it onto the free-list, sets identifiedWith[max] =
// min, decrements active, increments killed.
func (m *Manager) UnionCosets(min, max int) {
	if min >= max {
		panic("coset: UnionCosets requires min < max")
	}
	prev, next := m.backward[max], m.forward[max]
	if prev != Undefined {
		m.forward[prev] = next
	}
	if next != Undefined {
		m.backward[next] = prev
	}
	if m.lastActive == max {
		m.lastActive = prev
	}
	m.identifiedWith[max] = min
	m.pushFree(max)
	m.active--
	m.killed++
	tracer().Debugf("coset: union %d -> %d", max, min)
}

// FindCoset walks identifiedWith to the surviving coset.
func (m *Manager) FindCoset(c int) int {
	for m.identifiedWith[c] != c {
		c = m.identifiedWith[c]
	}
	return c
}

// NextActiveCoset returns the coset following c in the active list, or
// Undefined if c is the last active coset.
func (m *Manager) NextActiveCoset(c int) int {
	return m.forward[c]
}

// IsActiveCoset reports whether c is currently active (its own
// representative).
func (m *Manager) IsActiveCoset(c int) bool {
	return c < m.capacity && m.identifiedWith[c] == c
}

// NrCosetsActive, NrCosetsDefined and NrCosetsKilled report the manager's
// running counters; NrActive + NrFree == capacity always (spec §8
// invariant 1).
func (m *Manager) NrCosetsActive() int  { return m.active }
func (m *Manager) NrCosetsDefined() int { return m.defined }
func (m *Manager) NrCosetsKilled() int  { return m.killed }
func (m *Manager) Capacity() int        { return m.capacity }

// FirstActive returns the identity coset, the head of the active list.
func (m *Manager) FirstActive() int { return Identity }

// ToUnionFind exports a snapshot of the identification structure as a
// unionfind.UnionFind, useful for callers that want block enumeration
// semantics.
func (m *Manager) ToUnionFind() *unionfind.UnionFind {
	uf := unionfind.New(m.capacity)
	for c := 0; c < m.capacity; c++ {
		if m.identifiedWith[c] != c {
			uf.Unite(c, m.identifiedWith[c])
		}
	}
	return uf
}
