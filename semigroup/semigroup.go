/*
Package semigroup defines the EnumeratedSemigroup collaborator interface
(spec §4.13) that the engine components consume, plus Enumerate, a
reference breadth-first implementation used by tests and by
knuthbendix.Prefill — the spec treats EnumeratedSemigroup as an external
collaborator, but the testable scenarios (S5) need a concrete instance to
exercise the interface against.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package semigroup

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/semigroups"
	"github.com/npillmayer/semigroups/digraph"
	"github.com/npillmayer/semigroups/orbit"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// Finiteness is a three-valued answer (spec §4.13, is_finite).
type Finiteness int

const (
	Unknown Finiteness = iota
	Finite
	Infinite
)

// EnumeratedSemigroup is the abstract source of elements, generator
// products, and factorizations that C9/C11/C13 consume. The core never
// mutates a shared EnumeratedSemigroup except through BatchSize and a
// bounded Size.
type EnumeratedSemigroup[E comparable] interface {
	NumGenerators() int
	Generator(i int) E
	Degree() int
	Size() (int, error) // may run to completion; caller must time-bound for infinite semigroups
	ElementAt(i int) (E, error)
	WordToElement(w semigroups.Word) (E, error)
	Factorization(i int) (semigroups.Word, error)
	FastProduct(i, j int) (int, error)
	LeftCayleyGraph() (*digraph.Digraph, error)
	RightCayleyGraph() (*digraph.Digraph, error)
	IsFinite() Finiteness
	CurrentSize() int
	BatchSize(k int)
}

// Enumerate is a breadth-first reference EnumeratedSemigroup: it closes a
// generating set under a Product adapter, numbering elements in
// discovery order. It is not Froidure-Pin (no idempotent short-cutting),
// but it satisfies the full collaborator contract above and is adequate
// for the sizes exercised by this module's tests.
type Enumerate[E comparable] struct {
	adapters   orbit.Adapters[E, E]
	generators []E
	elements   []E
	index      map[E]int
	words      []semigroups.Word
	rightGraph *digraph.Digraph
	leftGraph  *digraph.Digraph
	batch      int
	degree     int
	frontier   int
}

// NewEnumerate builds a reference enumerated semigroup from generators,
// using adapters for multiplication and degree/complexity queries.
// Enumeration multiplies through Adapters.Product directly (x*g for the
// right Cayley graph, g*x for the left one); Adapters.Action is not
// called.
func NewEnumerate[E comparable](adapters orbit.Adapters[E, E], generators []E) *Enumerate[E] {
	degree := 0
	if len(generators) > 0 {
		degree = adapters.Degree(generators[0])
	}
	s := &Enumerate[E]{
		adapters:   adapters,
		generators: generators,
		index:      map[E]int{},
		batch:      1024,
		degree:     degree,
	}
	s.rightGraph = digraph.New(0, len(generators))
	s.leftGraph = digraph.New(0, len(generators))
	return s
}

func (s *Enumerate[E]) NumGenerators() int  { return len(s.generators) }
func (s *Enumerate[E]) Generator(i int) E   { return s.generators[i] }
func (s *Enumerate[E]) Degree() int         { return s.degree }
func (s *Enumerate[E]) CurrentSize() int    { return len(s.elements) }
func (s *Enumerate[E]) BatchSize(k int)     { s.batch = k }
func (s *Enumerate[E]) IsFinite() Finiteness { return Finite } // bounded by construction's use case

func (s *Enumerate[E]) addElement(e E, word semigroups.Word) int {
	if i, ok := s.index[e]; ok {
		return i
	}
	i := len(s.elements)
	s.elements = append(s.elements, e)
	s.index[e] = i
	s.words = append(s.words, word)
	s.rightGraph.AddVertices(1)
	s.leftGraph.AddVertices(1)
	return i
}

// Size runs the closure to completion (bounded: callers must ensure the
// generated semigroup is actually finite) and returns the element count.
func (s *Enumerate[E]) Size() (int, error) {
	s.runToCompletion()
	return len(s.elements), nil
}

func (s *Enumerate[E]) runToCompletion() {
	if len(s.elements) == 0 {
		for i, g := range s.generators {
			s.addElement(g, semigroups.Word{semigroups.Letter(i)})
		}
	}
	for s.frontier < len(s.elements) {
		i := s.frontier
		x := s.elements[i]
		xw := s.words[i]
		for a, g := range s.generators {
			right := s.adapters.Product(x, g)
			ri := s.addElement(right, append(xw.Clone(), semigroups.Letter(a)))
			s.rightGraph.SetEdge(i, a, ri)

			left := s.adapters.Product(g, x)
			li := s.addElement(left, append(semigroups.Word{semigroups.Letter(a)}, xw...))
			s.leftGraph.SetEdge(i, a, li)
		}
		s.frontier++
		if s.frontier%s.batch == 0 {
			tracer().Debugf("semigroup: enumerated %d elements so far", s.frontier)
		}
	}
}

func (s *Enumerate[E]) ElementAt(i int) (E, error) {
	s.runToCompletion()
	if i < 0 || i >= len(s.elements) {
		var zero E
		return zero, semigroups.ErrOutOfRange
	}
	return s.elements[i], nil
}

func (s *Enumerate[E]) WordToElement(w semigroups.Word) (E, error) {
	if len(s.generators) == 0 {
		var zero E
		return zero, semigroups.ErrOutOfRange
	}
	result := s.adapters.Identity(s.degree)
	for _, l := range w {
		if int(l) >= len(s.generators) {
			var zero E
			return zero, semigroups.ErrInvalidWord
		}
		result = s.adapters.Product(result, s.generators[l])
	}
	return result, nil
}

func (s *Enumerate[E]) Factorization(i int) (semigroups.Word, error) {
	s.runToCompletion()
	if i < 0 || i >= len(s.elements) {
		return nil, semigroups.ErrOutOfRange
	}
	return s.words[i], nil
}

func (s *Enumerate[E]) FastProduct(i, j int) (int, error) {
	s.runToCompletion()
	if i < 0 || i >= len(s.elements) || j < 0 || j >= len(s.elements) {
		return 0, semigroups.ErrOutOfRange
	}
	prod := s.adapters.Product(s.elements[i], s.elements[j])
	if k, ok := s.index[prod]; ok {
		return k, nil
	}
	return s.addElement(prod, append(s.words[i].Clone(), s.words[j]...)), nil
}

func (s *Enumerate[E]) LeftCayleyGraph() (*digraph.Digraph, error) {
	s.runToCompletion()
	return s.leftGraph, nil
}

func (s *Enumerate[E]) RightCayleyGraph() (*digraph.Digraph, error) {
	s.runToCompletion()
	return s.rightGraph, nil
}

// WordToIndex looks up the index of the element word w factors to,
// enumerating first if necessary, adjoining the element if it is new.
func (s *Enumerate[E]) WordToIndex(w semigroups.Word) (int, error) {
	s.runToCompletion()
	e, err := s.WordToElement(w)
	if err != nil {
		return 0, err
	}
	if i, ok := s.index[e]; ok {
		return i, nil
	}
	return s.addElement(e, w.Clone()), nil
}
