/*
Package digraph implements an out-regular labeled digraph: every vertex
has exactly k outgoing edges, labelled 0..k-1, any of which may be
undefined. It provides a Gabow strongly-connected-component decomposition
and, per SCC, forward and reverse spanning forests used to compute
multiplier words.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package digraph

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/semigroups"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// Undefined marks an absent edge target.
const Undefined = semigroups.Undefined

// Digraph is a dense out-regular labeled digraph over [0, n).
type Digraph struct {
	n, k  int
	edges [][]int // edges[u][a] = v, or Undefined

	sccValid  bool
	sccID     []int
	sccs      [][]int
	fwdForest []forestEntry // forward spanning forest, per vertex
	revForest []forestEntry
}

type forestEntry struct {
	parent int // Undefined if this vertex is its SCC's root
	label  int // letter of the edge (parent -> v) in fwd, or (v -> parent) in rev
}

// New creates a digraph with n vertices and out-degree k. All edges start
// Undefined.
func New(n, k int) *Digraph {
	d := &Digraph{n: n, k: k}
	d.edges = make([][]int, n)
	for i := range d.edges {
		d.edges[i] = newUndefinedRow(k)
	}
	return d
}

func newUndefinedRow(k int) []int {
	row := make([]int, k)
	for i := range row {
		row[i] = Undefined
	}
	return row
}

// NumVertices returns the current vertex count.
func (d *Digraph) NumVertices() int { return d.n }

// OutDegree returns the number of out-labels per vertex.
func (d *Digraph) OutDegree() int { return d.k }

// AddVertices grows the vertex count by extra, preserving existing edges.
func (d *Digraph) AddVertices(extra int) {
	for i := 0; i < extra; i++ {
		d.edges = append(d.edges, newUndefinedRow(d.k))
	}
	d.n += extra
	d.invalidate()
}

// AddOutLabels grows the out-degree by extra, preserving existing edges;
// new cells initialize to Undefined.
func (d *Digraph) AddOutLabels(extra int) {
	for u := range d.edges {
		for i := 0; i < extra; i++ {
			d.edges[u] = append(d.edges[u], Undefined)
		}
	}
	d.k += extra
	d.invalidate()
}

// SetEdge sets the edge u -a-> v.
func (d *Digraph) SetEdge(u, a, v int) {
	d.edges[u][a] = v
	d.invalidate()
}

// Neighbor returns the target of u -a->, or Undefined.
func (d *Digraph) Neighbor(u, a int) int {
	return d.edges[u][a]
}

func (d *Digraph) invalidate() {
	d.sccValid = false
	d.sccID = nil
	d.sccs = nil
	d.fwdForest = nil
	d.revForest = nil
}

func (d *Digraph) requireComplete() error {
	for u := 0; u < d.n; u++ {
		for a := 0; a < d.k; a++ {
			if d.edges[u][a] == Undefined {
				return fmt.Errorf("%w: vertex %d letter %d undefined", semigroups.ErrNotFullyDefined, u, a)
			}
		}
	}
	return nil
}

// SCC returns, for every vertex, the id of its strongly connected
// component, and the list of components each as a sequence of vertices.
// Component ids are assigned in reverse topological order of discovery
// (Gabow's algorithm), independent of edge insertion order.
func (d *Digraph) SCC() ([]int, [][]int) {
	if d.sccValid {
		return d.sccID, d.sccs
	}
	d.computeSCC()
	return d.sccID, d.sccs
}

type frame struct {
	v        int
	nextEdge int
}

// computeSCC runs an iterative (non-recursive) Gabow SCC using three
// explicit stacks: S1 the current DFS chain, S2 tentative SCC roots, and
// an explicit call-frame stack replacing the call stack. This mirrors the
// iterative-worklist shape the teacher uses for its LR closure
// computation (gorgo lr/tables.go closureSet), adapted here to Gabow
// instead of a fixed-point set closure.
func (d *Digraph) computeSCC() {
	n := d.n
	preorder := make([]int, n)
	for i := range preorder {
		preorder[i] = -1
	}
	sccID := make([]int, n)
	for i := range sccID {
		sccID[i] = -1
	}
	s1 := arraylist.New() // path stack
	s2 := arraylist.New() // boundary stack
	var frames []frame
	counter := 0
	nextSCC := 0
	var sccs [][]int

	for start := 0; start < n; start++ {
		if preorder[start] != -1 {
			continue
		}
		frames = append(frames, frame{v: start, nextEdge: 0})
		preorder[start] = counter
		counter++
		s1.Add(start)
		s2.Add(start)

		for len(frames) > 0 {
			top := &frames[len(frames)-1]
			if top.nextEdge < d.k {
				a := top.nextEdge
				top.nextEdge++
				w := d.edges[top.v][a]
				if w == Undefined {
					continue
				}
				if preorder[w] == -1 {
					preorder[w] = counter
					counter++
					s1.Add(w)
					s2.Add(w)
					frames = append(frames, frame{v: w, nextEdge: 0})
				} else if sccID[w] == -1 {
					// w is on the path stack: pop S2 while its top has
					// higher preorder than w.
					for {
						topv, _ := s2.Get(s2.Size() - 1)
						if preorder[topv.(int)] <= preorder[w] {
							break
						}
						s2.Remove(s2.Size() - 1)
					}
				}
			} else {
				// done with top.v
				v := top.v
				frames = frames[:len(frames)-1]
				topv, _ := s2.Get(s2.Size() - 1)
				if topv.(int) == v {
					s2.Remove(s2.Size() - 1)
					var comp []int
					for {
						u, _ := s1.Get(s1.Size() - 1)
						s1.Remove(s1.Size() - 1)
						sccID[u.(int)] = nextSCC
						comp = append(comp, u.(int))
						if u.(int) == v {
							break
						}
					}
					sccs = append(sccs, comp)
					nextSCC++
				}
			}
		}
	}
	d.sccID = sccID
	d.sccs = sccs
	d.sccValid = true
	tracer().Debugf("digraph: computed %d SCCs over %d vertices", nextSCC, n)
}

// SpanningForest returns, for every vertex, its parent within its SCC's
// forward spanning tree (rooted at the SCC's smallest member, following
// only intra-SCC edges) and the letter labelling the edge from that
// parent, or (Undefined, Undefined) if v is its SCC's root.
func (d *Digraph) SpanningForest() []struct{ Parent, Label int } {
	d.ensureForest(false)
	out := make([]struct{ Parent, Label int }, d.n)
	for v, e := range d.fwdForest {
		out[v] = struct{ Parent, Label int }{e.parent, e.label}
	}
	return out
}

// ReverseSpanningForest is the dual of SpanningForest: it is built from
// the reversed intra-SCC edge set, so Parent(v)=u, Label(v)=a means the
// edge v -a-> u exists and u is v's parent in the reverse-BFS tree rooted
// at the SCC's smallest member.
//
// Kept as per-instance state (d.revForest), never package-level or
// function-local statics: those would not be reentrant under concurrent
// use by different Digraph instances.
func (d *Digraph) ReverseSpanningForest() []struct{ Parent, Label int } {
	d.ensureForest(true)
	out := make([]struct{ Parent, Label int }, d.n)
	for v, e := range d.revForest {
		out[v] = struct{ Parent, Label int }{e.parent, e.label}
	}
	return out
}

func (d *Digraph) ensureForest(reverse bool) {
	if reverse && d.revForest != nil {
		return
	}
	if !reverse && d.fwdForest != nil {
		return
	}
	sccID, sccs := d.SCC()
	forest := make([]forestEntry, d.n)
	for i := range forest {
		forest[i] = forestEntry{parent: Undefined, label: Undefined}
	}
	// build reverse adjacency lazily only if needed
	var rev map[int][][2]int
	if reverse {
		rev = make(map[int][][2]int)
		for u := 0; u < d.n; u++ {
			for a := 0; a < d.k; a++ {
				v := d.edges[u][a]
				if v != Undefined && sccID[v] == sccID[u] {
					rev[v] = append(rev[v], [2]int{u, a})
				}
			}
		}
	}
	for _, comp := range sccs {
		root := minInt(comp)
		visited := map[int]bool{root: true}
		queue := []int{root}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			if reverse {
				for _, ua := range rev[u] {
					v, a := ua[0], ua[1]
					if !visited[v] {
						visited[v] = true
						forest[v] = forestEntry{parent: u, label: a}
						queue = append(queue, v)
					}
				}
			} else {
				for a := 0; a < d.k; a++ {
					v := d.edges[u][a]
					if v != Undefined && sccID[v] == sccID[u] && !visited[v] {
						visited[v] = true
						forest[v] = forestEntry{parent: u, label: a}
						queue = append(queue, v)
					}
				}
			}
		}
	}
	if reverse {
		d.revForest = forest
	} else {
		d.fwdForest = forest
	}
}

func minInt(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// RequireComplete reports ErrNotFullyDefined if any edge is undefined;
// operations that require completeness should call this first.
func (d *Digraph) RequireComplete() error {
	return d.requireComplete()
}
