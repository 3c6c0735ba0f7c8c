/*
Package unionfind implements a disjoint-set forest over the dense index
range [0, n), growable at one end.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package unionfind

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// UnionFind is a disjoint-set forest over [0, n). The zero value is an
// empty forest; use New or grow it with NewSingleton.
type UnionFind struct {
	parent []int
}

// New creates a UnionFind with n singleton classes.
func New(n int) *UnionFind {
	uf := &UnionFind{parent: make([]int, 0, n)}
	for i := 0; i < n; i++ {
		uf.parent = append(uf.parent, i)
	}
	return uf
}

// Len returns the number of elements currently tracked.
func (uf *UnionFind) Len() int {
	return len(uf.parent)
}

// NewSingleton appends a new element whose parent is itself and returns
// its index.
func (uf *UnionFind) NewSingleton() int {
	i := len(uf.parent)
	uf.parent = append(uf.parent, i)
	return i
}

// Find returns the canonical representative of x's class, compressing the
// path with path-halving as it walks. Deterministic under concurrent reads
// only if preceded by Flatten.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Unite merges the classes of x and y. The numerically smaller
// representative survives; other components rely on this tie-break.
// Returns the surviving representative.
func (uf *UnionFind) Unite(x, y int) int {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return rx
	}
	if rx > ry {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	tracer().Debugf("unionfind: unite %d <- %d, survivor %d", ry, rx, rx)
	return rx
}

// Flatten forces full path compression: after Flatten, parent[x] == Find(x)
// for every x.
func (uf *UnionFind) Flatten() {
	for x := range uf.parent {
		uf.parent[x] = uf.find(x)
	}
}

// find is Find without path-halving shortcuts, used internally by Flatten
// so every node ends up pointing directly at the root in one pass.
func (uf *UnionFind) find(x int) int {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		uf.parent[x], x = root, uf.parent[x]
	}
	return root
}

// Blocks calls Flatten and returns the partition as a sequence of sequences
// of indices, each inner sequence sorted ascending, outer sequence ordered
// by each block's representative.
func (uf *UnionFind) Blocks() [][]int {
	uf.Flatten()
	byRoot := make(map[int][]int)
	rootSet := treeset.NewWith(utils.IntComparator)
	for i, p := range uf.parent {
		if _, ok := byRoot[p]; !ok {
			rootSet.Add(p)
		}
		byRoot[p] = append(byRoot[p], i)
	}
	blocks := make([][]int, 0, rootSet.Size())
	for _, r := range rootSet.Values() {
		root := r.(int)
		sort.Ints(byRoot[root])
		blocks = append(blocks, byRoot[root])
	}
	return blocks
}

// NextRepresentative streams one element per class (the representative),
// in ascending order. Call Flatten first if a stable snapshot is required.
func (uf *UnionFind) NextRepresentative() []int {
	seen := make(map[int]bool)
	var reps []int
	for i := range uf.parent {
		r := uf.Find(i)
		if !seen[r] {
			seen[r] = true
			reps = append(reps, r)
		}
	}
	sort.Ints(reps)
	return reps
}
