package coset

import (
	"github.com/emirpasic/gods/trees/binaryheap"
	"github.com/npillmayer/semigroups"
)

// StandardizeTable renumbers cosets so that the traversal order named by
// order equals ascending word order (spec §4.10). After standardization,
// ClassIndexToWord yields words in ascending order of the chosen
// ordering, and the smallest-labeled traversal from coset 0 visits cosets
// in strictly increasing order (spec §3 invariant 6).
//
// All three orderings share one traversal: a frontier of candidate words
// (one per undiscovered edge target) is kept in a heap under the order's
// comparator, and the smallest candidate is numbered next. This is
// correct for any order in which u ≺ v implies ua ≺ va, since then the
// minimal word reaching a coset always extends the minimal word of the
// coset one letter earlier; ShortLex and the recursive path order have
// that property. Lex does not ([0] ≺ [0,0] but [0,0,1] ≺ [0,1]); under
// Lex the numbering is the order in which this traversal first reaches
// each coset.
func (t *ToddCoxeter) StandardizeTable(order StandardOrder) {
	t.standardOrder = order
	if order == None {
		t.normalForms = nil
		return
	}
	var cmp func(u, v semigroups.Word) int
	switch order {
	case Lex:
		cmp = semigroups.Lex
	case Recursive:
		cmp = semigroups.Recursive
	default:
		cmp = semigroups.ShortLex
	}

	type cand struct {
		word   semigroups.Word
		target int
	}
	heap := binaryheap.NewWith(func(a, b interface{}) int {
		return cmp(a.(cand).word, b.(cand).word)
	})

	n := t.alphabet.Size()
	renumber := map[int]int{Identity: 0}
	forms := []semigroups.Word{{}}
	push := func(c int, w semigroups.Word) {
		for a := 0; a < n; a++ {
			v := t.table[c][a]
			if v == Undefined {
				continue
			}
			v = t.manager.FindCoset(v)
			if _, seen := renumber[v]; !seen {
				heap.Push(cand{word: append(w.Clone(), semigroups.Letter(a)), target: v})
			}
		}
	}
	push(Identity, semigroups.Word{})
	for !heap.Empty() {
		x, _ := heap.Pop()
		cd := x.(cand)
		if _, seen := renumber[cd.target]; seen {
			continue
		}
		renumber[cd.target] = len(forms)
		forms = append(forms, cd.word)
		push(cd.target, cd.word)
	}

	t.normalForms = forms
	t.rebuildRenumbered(renumber)
	tracer().Debugf("toddcoxeter: standardized %d cosets", len(forms))
}

// rebuildRenumbered rewrites the physical table in the new numbering and
// replaces the coset manager and preimage lists with freshly built ones,
// so every later walk, query and resumption operates on the contiguous
// standardized ids.
func (t *ToddCoxeter) rebuildRenumbered(renumber map[int]int) {
	n := t.alphabet.Size()
	size := len(renumber)
	newTable := make([][]int, size)
	for i := range newTable {
		newTable[i] = newRow(n)
	}
	for old, neu := range renumber {
		for a := 0; a < n; a++ {
			v := t.table[old][a]
			if v == Undefined {
				continue
			}
			v = t.manager.FindCoset(v)
			if nv, ok := renumber[v]; ok {
				newTable[neu][a] = nv
			}
		}
	}
	t.table = newTable
	t.manager = NewManager()
	t.manager.AddActiveCosets(size - 1)
	t.preimInit = make([][]int, size)
	t.preimNext = make([][]int, size)
	for i := range t.preimInit {
		t.preimInit[i] = newRow(n)
		t.preimNext[i] = newRow(n)
	}
	for c := 0; c < size; c++ {
		for a := 0; a < n; a++ {
			if v := newTable[c][a]; v != Undefined {
				t.addPreimage(v, semigroups.Letter(a), c)
			}
		}
	}
	t.deductions = nil
	t.coincidences = nil
}
