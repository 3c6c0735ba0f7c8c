/*
Package dclass implements DClassEngine (spec §4.12): a Konieczny-style
D-class decomposition of a finite semigroup of boolean matrices of
dimension at most 8, built on top of package orbit's row-space and
column-space orbit enumeration and the SCC structure of their digraphs.

Simplification (recorded in DESIGN.md): rather than Konieczny's
top-cardinality-downward incremental construction with covering
representatives fed back into a work queue, this engine first closes the
generated semigroup fully (bounded by New's maxElems), then partitions the
resulting elements into Green's H-classes by exact (row space, column
space) equality and folds H-classes into D-classes using the SCC
structure of the row-space and column-space orbit digraphs. This is
faithful to the regular/non-regular split and to size() but does not
reproduce the source's incremental covering-representative discovery
order.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package dclass

import (
	"sort"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/semigroups"
	"github.com/npillmayer/semigroups/orbit"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// MaxDimension is the largest boolean matrix dimension this engine
// supports (spec §4.12, "dimension <= 8"): each row fits in one byte.
const MaxDimension = 8

// BooleanMatrix is an n x n boolean matrix, n <= MaxDimension, stored as
// one bitmask per row so the whole value is a comparable array and can
// serve directly as the element type E of orbit.Adapters.
type BooleanMatrix struct {
	N    int
	Rows [MaxDimension]uint8
}

// NewBooleanMatrix builds a matrix from n rows, each a bitmask of which
// columns hold true.
func NewBooleanMatrix(n int, rows []uint8) BooleanMatrix {
	var m BooleanMatrix
	m.N = n
	copy(m.Rows[:n], rows)
	return m
}

func rowTimesMatrix(r uint8, g BooleanMatrix) uint8 {
	var result uint8
	for k := 0; k < g.N; k++ {
		if r&(1<<uint(k)) != 0 {
			result |= g.Rows[k]
		}
	}
	return result
}

func matrixTimesCol(g BooleanMatrix, v uint8) uint8 {
	var result uint8
	for i := 0; i < g.N; i++ {
		if g.Rows[i]&v != 0 {
			result |= 1 << uint(i)
		}
	}
	return result
}

// Product computes a*b over the boolean semiring (OR-AND).
func Product(a, b BooleanMatrix) BooleanMatrix {
	var out BooleanMatrix
	out.N = a.N
	for i := 0; i < a.N; i++ {
		out.Rows[i] = rowTimesMatrix(a.Rows[i], b)
	}
	return out
}

// Identity returns the n x n identity boolean matrix.
func Identity(n int) BooleanMatrix {
	var m BooleanMatrix
	m.N = n
	for i := 0; i < n; i++ {
		m.Rows[i] = 1 << uint(i)
	}
	return m
}

// Subset is a canonical (sorted, deduplicated) collection of up to
// MaxDimension row or column bitmasks — the row-space/column-space point
// type acted on by orbit.Engine.
type Subset struct {
	Count int
	Vals  [MaxDimension]uint8
}

func canonicalSubset(vals []uint8) Subset {
	seen := map[uint8]bool{}
	var uniq []uint8
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			uniq = append(uniq, v)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })
	var s Subset
	s.Count = len(uniq)
	copy(s.Vals[:s.Count], uniq)
	return s
}

// RowSpace returns the canonical set of m's distinct rows.
func RowSpace(m BooleanMatrix) Subset {
	return canonicalSubset(m.Rows[:m.N])
}

// ColSpace returns the canonical set of m's distinct columns, each
// represented as a row-major bitmask over row indices.
func ColSpace(m BooleanMatrix) Subset {
	cols := make([]uint8, m.N)
	for c := 0; c < m.N; c++ {
		var mask uint8
		for r := 0; r < m.N; r++ {
			if m.Rows[r]&(1<<uint(c)) != 0 {
				mask |= 1 << uint(r)
			}
		}
		cols[c] = mask
	}
	return canonicalSubset(cols)
}

// baseAdapters supplies the element-level operations shared by the
// row-space and column-space orbit adapters (spec §9's capability set,
// restricted to the parts that are orbit/point-independent).
type baseAdapters struct{}

func (baseAdapters) Identity(n int) BooleanMatrix        { return Identity(n) }
func (baseAdapters) Product(a, b BooleanMatrix) BooleanMatrix { return Product(a, b) }
func (baseAdapters) Degree(a BooleanMatrix) int          { return a.N }
func (baseAdapters) Complexity(a BooleanMatrix) int      { return 1 }
func (baseAdapters) Swap(a, b BooleanMatrix) (BooleanMatrix, BooleanMatrix) { return b, a }

// Inverse has no general meaning for boolean matrices; a non-invertible
// element maps to itself, which is adequate here since dclass never
// calls Inverse (only OrbitEngine's own internals would, and this
// engine only uses Action/Product/Identity/Degree).
func (baseAdapters) Inverse(a BooleanMatrix) BooleanMatrix { return a }

// RowAdapters drives the row-space orbit: a generator g acts on a row
// subset by right multiplication, r |-> r*g.
type RowAdapters struct{ baseAdapters }

func (RowAdapters) Action(g BooleanMatrix, p Subset) Subset {
	vals := make([]uint8, p.Count)
	for i := 0; i < p.Count; i++ {
		vals[i] = rowTimesMatrix(p.Vals[i], g)
	}
	return canonicalSubset(vals)
}

// ColAdapters drives the column-space orbit: a generator g acts on a
// column subset by left multiplication, c |-> g*c.
type ColAdapters struct{ baseAdapters }

func (ColAdapters) Action(g BooleanMatrix, p Subset) Subset {
	vals := make([]uint8, p.Count)
	for i := 0; i < p.Count; i++ {
		vals[i] = matrixTimesCol(g, p.Vals[i])
	}
	return canonicalSubset(vals)
}

// HClass is a Green's H-class: elements sharing an exact row space and
// column space.
type HClass struct {
	RowSpace Subset
	ColSpace Subset
	Elements []BooleanMatrix
	// Idempotent is the class's identity element, set only if the class
	// is a group H-class (i.e. it contains an idempotent).
	Idempotent   BooleanMatrix
	HasIdempotent bool
}

// DClass groups the H-classes that lie in a single row-orbit SCC and a
// single column-orbit SCC. Regular D-classes contain at least one
// idempotent H-class; such a group H-class is marked by
// HClass.HasIdempotent, with its identity in HClass.Idempotent.
type DClass struct {
	RowRoot, ColRoot int
	HClasses         []*HClass
	Regular          bool
}

// Size returns |H| * |R-classes| * |L-classes| for the D-class: the
// number of distinct row spaces among its H-classes is taken as the
// number of L-classes, the number of distinct column spaces as the
// number of R-classes, and |H| as the size of any one H-class (they are
// all equal in a genuine D-class; this engine takes the first).
func (d *DClass) Size() int {
	if len(d.HClasses) == 0 {
		return 0
	}
	rows := map[Subset]bool{}
	cols := map[Subset]bool{}
	for _, h := range d.HClasses {
		rows[h.RowSpace] = true
		cols[h.ColSpace] = true
	}
	return len(d.HClasses[0].Elements) * len(rows) * len(cols)
}

// Engine is the D-class decomposition driver.
type Engine struct {
	generators []BooleanMatrix
	maxElems   int
	stopped    func() bool

	elements []BooleanMatrix
	hclasses map[Subset]map[Subset]*HClass // keyed RowSpace -> ColSpace -> HClass

	rowOrbit *orbit.Engine[BooleanMatrix, Subset]
	colOrbit *orbit.Engine[BooleanMatrix, Subset]

	classes []*DClass
	byRoots map[[2]int]*DClass
}

// New creates a D-class engine over the semigroup generated by
// generators, bounding the closure at maxElems (spec §4.12 assumes a
// finite transformation/matrix semigroup; callers are responsible for
// choosing generators that keep the closure within maxElems).
func New(generators []BooleanMatrix, maxElems int) *Engine {
	e := &Engine{
		generators: generators,
		maxElems:   maxElems,
		hclasses:   map[Subset]map[Subset]*HClass{},
		byRoots:    map[[2]int]*DClass{},
		stopped:    func() bool { return false },
	}
	e.rowOrbit = orbit.New[BooleanMatrix, Subset](RowAdapters{}, orbit.Right)
	e.colOrbit = orbit.New[BooleanMatrix, Subset](ColAdapters{}, orbit.Left)
	for _, g := range generators {
		e.rowOrbit.AddGenerator(g)
		e.colOrbit.AddGenerator(g)
	}
	return e
}

// WithStopPredicate installs a poll checked once per newly discovered
// element during closure.
func (e *Engine) WithStopPredicate(p func() bool) *Engine {
	e.stopped = p
	return e
}

func (e *Engine) closeSemigroup() {
	if len(e.elements) > 0 {
		return
	}
	seen := map[BooleanMatrix]bool{}
	var queue []BooleanMatrix
	for _, g := range e.generators {
		if !seen[g] {
			seen[g] = true
			queue = append(queue, g)
			e.elements = append(e.elements, g)
		}
	}
	for i := 0; i < len(queue); i++ {
		if e.stopped() || len(e.elements) >= e.maxElems {
			tracer().Infof("dclass: closure stopped/bounded at %d elements", len(e.elements))
			return
		}
		x := queue[i]
		for _, g := range e.generators {
			y := Product(x, g)
			if !seen[y] {
				seen[y] = true
				queue = append(queue, y)
				e.elements = append(e.elements, y)
			}
		}
	}
}

func (e *Engine) insertHClass(m BooleanMatrix) *HClass {
	rs, cs := RowSpace(m), ColSpace(m)
	byCol, ok := e.hclasses[rs]
	if !ok {
		byCol = map[Subset]*HClass{}
		e.hclasses[rs] = byCol
	}
	h, ok := byCol[cs]
	if !ok {
		h = &HClass{RowSpace: rs, ColSpace: cs}
		byCol[cs] = h
	}
	h.Elements = append(h.Elements, m)
	if !h.HasIdempotent && Product(m, m) == m {
		h.HasIdempotent = true
		h.Idempotent = m
	}
	return h
}

// Run closes the semigroup, enumerates the row-space and column-space
// orbits, and folds the resulting H-classes into D-classes.
func (e *Engine) Run() {
	e.closeSemigroup()

	for _, m := range e.elements {
		h := e.insertHClass(m)
		e.rowOrbit.AddSeed(h.RowSpace)
		e.colOrbit.AddSeed(h.ColSpace)
	}
	e.rowOrbit.Run()
	e.colOrbit.Run()

	for _, byCol := range e.hclasses {
		for _, h := range byCol {
			ri, ok := e.rowOrbit.Position(h.RowSpace)
			if !ok {
				continue
			}
			ci, ok := e.colOrbit.Position(h.ColSpace)
			if !ok {
				continue
			}
			rRoot := e.rowOrbit.RootOfSCC(ri)
			cRoot := e.colOrbit.RootOfSCC(ci)
			key := [2]int{rRoot, cRoot}
			d, ok := e.byRoots[key]
			if !ok {
				d = &DClass{RowRoot: rRoot, ColRoot: cRoot}
				e.byRoots[key] = d
				e.classes = append(e.classes, d)
			}
			d.HClasses = append(d.HClasses, h)
			if h.HasIdempotent {
				d.Regular = true
			}
		}
	}
	tracer().Debugf("dclass: %d elements, %d D-classes", len(e.elements), len(e.classes))
}

// DClasses returns every D-class found.
func (e *Engine) DClasses() []*DClass { return e.classes }

// RegularDClasses returns only the regular D-classes.
func (e *Engine) RegularDClasses() []*DClass {
	var out []*DClass
	for _, d := range e.classes {
		if d.Regular {
			out = append(out, d)
		}
	}
	return out
}

// Size sums |H| * |L| * |R| over all D-classes.
func (e *Engine) Size() int {
	total := 0
	for _, d := range e.classes {
		total += d.Size()
	}
	return total
}

// DClassOf returns the D-class containing m, if m was discovered during
// Run.
func (e *Engine) DClassOf(m BooleanMatrix) (*DClass, error) {
	rs, cs := RowSpace(m), ColSpace(m)
	byCol, ok := e.hclasses[rs]
	if !ok {
		return nil, semigroups.ErrOutOfRange
	}
	h, ok := byCol[cs]
	if !ok {
		return nil, semigroups.ErrOutOfRange
	}
	for _, d := range e.classes {
		for _, dh := range d.HClasses {
			if dh == h {
				return d, nil
			}
		}
	}
	return nil, semigroups.ErrOutOfRange
}
