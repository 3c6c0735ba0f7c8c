/*
Package congruence implements CongruenceByPairs (spec §4.11): brute-force
closure of a relation over a finite enumerated semigroup, driven by
package unionfind exactly as the coset manager's identification structure
is (see coset.Manager.ToUnionFind), but here indexed by element indices
of an EnumeratedSemigroup rather than by coset ids.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package congruence

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/semigroups"
	"github.com/npillmayer/semigroups/semigroup"
	"github.com/npillmayer/semigroups/unionfind"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// Side selects which translates of a congruent pair are also pushed for
// closure: Right pushes (p.g, q.g), Left pushes (g.p, g.q), TwoSided
// pushes both.
type Side int

const (
	TwoSided Side = iota
	Left
	Right
)

type pair struct{ p, q int }

// ByPairs is the brute-force congruence closure engine.
type ByPairs[E comparable] struct {
	semigroup semigroup.EnumeratedSemigroup[E]
	side      Side
	uf        *unionfind.UnionFind
	seen      map[pair]bool
	queue     []pair
	stopped   func() bool
}

// New builds a congruence engine over s, empty of generating pairs until
// AddPair is called.
func New[E comparable](s semigroup.EnumeratedSemigroup[E], side Side) *ByPairs[E] {
	n, _ := s.Size()
	return &ByPairs[E]{
		semigroup: s,
		side:      side,
		uf:        unionfind.New(n),
		seen:      map[pair]bool{},
		stopped:   func() bool { return false },
	}
}

// WithStopPredicate installs a poll checked once per dequeued pair.
func (c *ByPairs[E]) WithStopPredicate(p func() bool) *ByPairs[E] {
	c.stopped = p
	return c
}

// ensureWord returns the index of the element word w factors to,
// adjoining it to the semigroup if the semigroup supports dynamic
// adjunction (package semigroup's reference Enumerate does via
// WordToIndex; other collaborators may not, in which case the word must
// already correspond to a known element).
func (c *ByPairs[E]) ensureWord(w semigroups.Word) (int, error) {
	type adjoiner interface {
		WordToIndex(w semigroups.Word) (int, error)
	}
	if a, ok := c.semigroup.(adjoiner); ok {
		i, err := a.WordToIndex(w)
		if err != nil {
			return 0, err
		}
		c.growTo(i + 1)
		return i, nil
	}
	e, err := c.semigroup.WordToElement(w)
	if err != nil {
		return 0, err
	}
	n, _ := c.semigroup.Size()
	for i := 0; i < n; i++ {
		el, err := c.semigroup.ElementAt(i)
		if err != nil {
			return 0, err
		}
		if el == e {
			return i, nil
		}
	}
	return 0, semigroups.ErrOutOfRange
}

func (c *ByPairs[E]) growTo(n int) {
	if n <= c.uf.Len() {
		return
	}
	grown := unionfind.New(n)
	for i := 0; i < c.uf.Len(); i++ {
		if r := c.uf.Find(i); r != i {
			grown.Unite(i, r)
		}
	}
	c.uf = grown
}

// AddPair adds the generating pair (u, v) as words, enqueuing it for
// closure if the two words are not already identified.
func (c *ByPairs[E]) AddPair(u, v semigroups.Word) error {
	pi, err := c.ensureWord(u)
	if err != nil {
		return err
	}
	qi, err := c.ensureWord(v)
	if err != nil {
		return err
	}
	c.enqueueIfNew(pi, qi)
	return nil
}

func (c *ByPairs[E]) enqueueIfNew(p, q int) {
	if c.uf.Find(p) == c.uf.Find(q) {
		return
	}
	key := pair{p, q}
	if p > q {
		key = pair{q, p}
	}
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.queue = append(c.queue, pair{p, q})
}

// generatorIndices maps each generator number to its element index in the
// enumerated semigroup, so translates can go through FastProduct.
func (c *ByPairs[E]) generatorIndices() ([]int, error) {
	n := c.semigroup.NumGenerators()
	size, err := c.semigroup.Size()
	if err != nil {
		return nil, err
	}
	idx := make([]int, n)
	for g := 0; g < n; g++ {
		gen := c.semigroup.Generator(g)
		idx[g] = -1
		for i := 0; i < size; i++ {
			el, err := c.semigroup.ElementAt(i)
			if err != nil {
				return nil, err
			}
			if el == gen {
				idx[g] = i
				break
			}
		}
		if idx[g] < 0 {
			return nil, semigroups.ErrOutOfRange
		}
	}
	return idx, nil
}

// Run drains the FIFO closure (spec §4.11): pop (p,q), unite, and for
// each generator g push the right and/or left translates per c.side.
func (c *ByPairs[E]) Run() error {
	genIdx, err := c.generatorIndices()
	if err != nil {
		return err
	}
	for len(c.queue) > 0 {
		if c.stopped() {
			return nil
		}
		pr := c.queue[0]
		c.queue = c.queue[1:]
		p, q := c.uf.Find(pr.p), c.uf.Find(pr.q)
		if p == q {
			continue
		}
		c.uf.Unite(p, q)
		for _, g := range genIdx {
			if c.side == Right || c.side == TwoSided {
				pg, err := c.semigroup.FastProduct(p, g)
				if err != nil {
					return err
				}
				qg, err := c.semigroup.FastProduct(q, g)
				if err != nil {
					return err
				}
				c.enqueueIfNew(pg, qg)
			}
			if c.side == Left || c.side == TwoSided {
				gp, err := c.semigroup.FastProduct(g, p)
				if err != nil {
					return err
				}
				gq, err := c.semigroup.FastProduct(g, q)
				if err != nil {
					return err
				}
				c.enqueueIfNew(gp, gq)
			}
		}
	}
	tracer().Debugf("congruence: closure complete, %d blocks", len(c.uf.Blocks()))
	return nil
}

// Contains reports whether words u and v are congruent.
func (c *ByPairs[E]) Contains(u, v semigroups.Word) (bool, error) {
	pi, err := c.ensureWord(u)
	if err != nil {
		return false, err
	}
	qi, err := c.ensureWord(v)
	if err != nil {
		return false, err
	}
	return c.uf.Find(pi) == c.uf.Find(qi), nil
}

// NrClasses returns the number of congruence classes: the semigroup size
// minus the number of elements identified away, i.e. the number of
// union-find blocks.
func (c *ByPairs[E]) NrClasses() int {
	return len(c.uf.Blocks())
}

// NonTrivialClass is a congruence class of size >= 2, given as the
// factorizations of its member element indices.
type NonTrivialClass struct {
	Elements []int
	Words    []semigroups.Word
}

// NonTrivialClasses enumerates each block of size >= 2, factorizing
// member indices back to words via the semigroup.
func (c *ByPairs[E]) NonTrivialClasses() ([]NonTrivialClass, error) {
	var out []NonTrivialClass
	for _, block := range c.uf.Blocks() {
		if len(block) < 2 {
			continue
		}
		words := make([]semigroups.Word, 0, len(block))
		for _, idx := range block {
			w, err := c.semigroup.Factorization(idx)
			if err != nil {
				return nil, err
			}
			words = append(words, w)
		}
		out = append(out, NonTrivialClass{Elements: block, Words: words})
	}
	return out, nil
}

// ClassIndexToWord is not implemented for brute-force congruences (spec
// §7: "NotYetImplemented — specific queries on subclasses that do not
// yet support them, e.g. class_index_to_word on brute-force
// congruences").
func (c *ByPairs[E]) ClassIndexToWord(i int) (semigroups.Word, error) {
	return nil, semigroups.ErrNotYetImplemented
}
