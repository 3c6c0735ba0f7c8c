/*
Package orbit implements BFS closure of a seed point under a generator
action, storing the resulting Schreier graph (package digraph) and
exposing multiplier words via its spanning forests.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package orbit

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/semigroups"
	"github.com/npillmayer/semigroups/digraph"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// Side selects whether multiplier words compose on the left or the right.
type Side int

const (
	Right Side = iota
	Left
)

// Adapters is the capability trait an element/point pair must satisfy to
// drive an orbit enumeration, a congruence-by-pairs closure, or a D-class
// decomposition (spec §9's recast of the source's "adapters" template
// specialization set as an explicit Go interface).
type Adapters[E any, P any] interface {
	// Identity returns the identity element for degree n, if the element
	// kind has one.
	Identity(n int) E
	// Product returns a*b.
	Product(a, b E) E
	// Degree returns a's degree (e.g. number of points it acts on).
	Degree(a E) int
	// Complexity is a cost estimate used to prefer cheaper multiplication
	// strategies; may simply return 1.
	Complexity(a E) int
	// Swap exchanges the contents of a and b in place semantics (returns
	// the swapped pair; kept functional since Go values are usually
	// copied anyway).
	Swap(a, b E) (E, E)
	// Inverse returns a's inverse, if the element kind has one.
	Inverse(a E) E
	// Action applies element a to point p, returning the new point.
	Action(a E, p P) P
}

// Engine enumerates the orbit of one or more seed points under a fixed
// set of generators.
type Engine[E any, P comparable] struct {
	adapters   Adapters[E, P]
	side       Side
	generators []E
	points     []P
	index      map[string]int // structhash(point) -> index, first match wins
	graph      *digraph.Digraph
	frontier   int // BFS cursor: points[0:frontier] fully processed
	stopped    func() bool
}

// New creates an orbit engine over the given capability set.
func New[E any, P comparable](adapters Adapters[E, P], side Side) *Engine[E, P] {
	return &Engine[E, P]{
		adapters: adapters,
		side:     side,
		index:    map[string]int{},
		graph:    digraph.New(0, 0),
		stopped:  func() bool { return false },
	}
}

// WithStopPredicate installs a poll checked once per new orbit point.
func (e *Engine[E, P]) WithStopPredicate(p func() bool) *Engine[E, P] {
	e.stopped = p
	return e
}

func hashOf(p interface{}) string {
	h, err := structhash.Hash(p, 1)
	if err != nil {
		panic(err)
	}
	return h
}

// AddSeed inserts a seed point if not already present.
func (e *Engine[E, P]) AddSeed(p P) {
	e.addPoint(p)
}

// AddGenerator appends a generator, widening the Schreier graph's
// out-degree; existing points get an Undefined edge for the new label
// until Run/Enumerate processes them.
func (e *Engine[E, P]) AddGenerator(g E) {
	e.generators = append(e.generators, g)
	e.graph.AddOutLabels(1)
	// re-process: any point whose frontier already passed it now lacks
	// an edge for the newest label, so rewind the frontier.
	if len(e.points) > 0 {
		e.frontier = 0
	}
}

func (e *Engine[E, P]) addPoint(p P) int {
	h := hashOf(p)
	if i, ok := e.index[h]; ok {
		return i
	}
	i := len(e.points)
	e.points = append(e.points, p)
	e.index[h] = i
	e.graph.AddVertices(1)
	return i
}

// Run performs (or resumes) the BFS closure: for each frontier point p at
// index i, for each generator g at label j, compute q = act(p,g); if new,
// assign the next index and add edge i-j->new; else add i-j->existing.
func (e *Engine[E, P]) Run() {
	for e.frontier < len(e.points) {
		if e.stopped() {
			return
		}
		i := e.frontier
		p := e.points[i]
		for j, g := range e.generators {
			q := e.adapters.Action(g, p)
			qi := e.addPoint(q)
			e.graph.SetEdge(i, j, qi)
		}
		e.frontier++
	}
	tracer().Debugf("orbit: enumerated %d points", len(e.points))
}

// Enumerate is an alias for Run.
func (e *Engine[E, P]) Enumerate() { e.Run() }

// Position returns the index of p in the orbit, or (-1, false).
func (e *Engine[E, P]) Position(p P) (int, bool) {
	i, ok := e.index[hashOf(p)]
	if !ok {
		return -1, false
	}
	return i, ok
}

// Size returns the number of points enumerated so far.
func (e *Engine[E, P]) Size() int { return len(e.points) }

// At returns the point at index i.
func (e *Engine[E, P]) At(i int) P { return e.points[i] }

// Digraph exposes the underlying Schreier graph.
func (e *Engine[E, P]) Digraph() *digraph.Digraph { return e.graph }

// RootOfSCC returns the root (smallest member) of i's strongly connected
// component.
func (e *Engine[E, P]) RootOfSCC(i int) int {
	sccID, sccs := e.graph.SCC()
	comp := sccs[sccID[i]]
	root := comp[0]
	for _, v := range comp[1:] {
		if v < root {
			root = v
		}
	}
	return root
}

// MultiplierToSCCRoot returns the product of generators that realizes the
// action carrying orbit[i] to its SCC's root.
//
// The reverse spanning forest's parent edges already run forward through
// the original graph (parent-in-reverse-tree of v is the vertex v's
// outgoing edge lands on in the un-reversed graph), so walking it from i
// up to the root and composing the collected labels in that same order
// directly yields the word carrying orbit[i] to the root (spec §4.3's
// "reverse spanning forest ... for multipliers to the SCC root").
func (e *Engine[E, P]) MultiplierToSCCRoot(i int) (E, error) {
	if len(e.generators) == 0 {
		var zero E
		return zero, fmt.Errorf("%w: no generators installed", semigroups.ErrOutOfRange)
	}
	if i < 0 || i >= len(e.points) {
		var zero E
		return zero, semigroups.ErrOutOfRange
	}
	forest := e.graph.ReverseSpanningForest()
	var letters []int
	for v := i; forest[v].Parent != digraph.Undefined; v = forest[v].Parent {
		letters = append(letters, forest[v].Label)
	}
	return e.composeLetters(letters, false), nil
}

// MultiplierFromSCCRoot is the dual of MultiplierToSCCRoot: the forward
// spanning forest's parent edges run from the SCC root outward, so
// walking it from i up to the root collects the root->i letters in
// reverse order; composeLetters is told to reverse them back before
// folding (spec §4.3's "forward spanning forest ... for multipliers from
// the SCC root").
func (e *Engine[E, P]) MultiplierFromSCCRoot(i int) (E, error) {
	if len(e.generators) == 0 {
		var zero E
		return zero, fmt.Errorf("%w: no generators installed", semigroups.ErrOutOfRange)
	}
	if i < 0 || i >= len(e.points) {
		var zero E
		return zero, semigroups.ErrOutOfRange
	}
	forest := e.graph.SpanningForest()
	var letters []int
	for v := i; forest[v].Parent != digraph.Undefined; v = forest[v].Parent {
		letters = append(letters, forest[v].Label)
	}
	return e.composeLetters(letters, true), nil
}

func (e *Engine[E, P]) composeLetters(letters []int, reverseOrder bool) E {
	if reverseOrder {
		for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
			letters[i], letters[j] = letters[j], letters[i]
		}
	}
	n := e.adapters.Degree(e.generators[0])
	result := e.adapters.Identity(n)
	// On the right side the walk's first generator is applied first, so the
	// product grows on the right; on the left side multiplication is in
	// the reverse order, so each successive generator is prepended.
	if e.side == Left {
		for _, l := range letters {
			result = e.adapters.Product(e.generators[l], result)
		}
	} else {
		for _, l := range letters {
			result = e.adapters.Product(result, e.generators[l])
		}
	}
	return result
}
