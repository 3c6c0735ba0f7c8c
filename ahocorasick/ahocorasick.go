/*
Package ahocorasick implements an Aho-Corasick trie of patterns over a
small integer alphabet: suffix links, terminal flags, and incremental
add/remove of words. It is used by package rewrite to index left-hand
sides of rewrite rules for single-pass leftmost reduction.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package ahocorasick

import (
	"fmt"
	"io"
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/semigroups"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// Undefined marks an absent node index.
const Undefined = semigroups.Undefined

// Root is the permanent root node's index.
const Root = 0

type node struct {
	children   map[semigroups.Letter]int
	suffix     int // Undefined if cache invalid
	height     int
	parent     int
	letter     semigroups.Letter // edge label from parent
	terminal   bool
	heightKnow bool
}

// Trie is an Aho-Corasick trie over words of semigroups.Letter.
//
// Node storage is a slice with stable indices; removed nodes are recycled
// via a free-index stack. Index 0 is the permanent root. The trie is not
// safe for concurrent mutation.
type Trie struct {
	nodes        []node
	free         []int
	suffixValid  bool
	wordCount    int
}

// New creates an empty trie containing only the root.
func New() *Trie {
	t := &Trie{}
	t.nodes = []node{{children: map[semigroups.Letter]int{}, suffix: Root, parent: Undefined, letter: 0, heightKnow: true}}
	t.suffixValid = true
	return t
}

// NumNodes returns the number of live nodes, including the root.
func (t *Trie) NumNodes() int {
	return len(t.nodes) - len(t.free)
}

func (t *Trie) alloc(parent int, letter semigroups.Letter) int {
	n := node{children: map[semigroups.Letter]int{}, suffix: Undefined, parent: parent, letter: letter}
	if len(t.free) > 0 {
		i := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[i] = n
		return i
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// AddWord inserts w into the trie, marking its final node terminal.
// Returns ErrAlreadyTerminal if w's final node was already terminal.
// Invalidates all suffix links.
func (t *Trie) AddWord(w semigroups.Word) error {
	cur := Root
	for _, l := range w {
		child, ok := t.nodes[cur].children[l]
		if !ok {
			child = t.alloc(cur, l)
			t.nodes[cur].children[l] = child
		}
		cur = child
	}
	if t.nodes[cur].terminal {
		return fmt.Errorf("%w: word %v", semigroups.ErrAlreadyTerminal, w)
	}
	t.nodes[cur].terminal = true
	t.wordCount++
	t.suffixValid = false
	tracer().Debugf("ahocorasick: added word %v at node %d", w, cur)
	return nil
}

// terminalNode locates the node whose signature is w, or Undefined.
func (t *Trie) terminalNode(w semigroups.Word) int {
	cur := Root
	for _, l := range w {
		child, ok := t.nodes[cur].children[l]
		if !ok {
			return Undefined
		}
		cur = child
	}
	return cur
}

// RemoveWord locates the terminal node for w. If it has children, only its
// terminal flag is cleared. Otherwise nodes are freed walking back toward
// the root while they are non-terminal and childless. Returns the index
// that was terminal for w (now possibly freed), or Undefined if w was not
// present.
func (t *Trie) RemoveWord(w semigroups.Word) int {
	n := t.terminalNode(w)
	if n == Undefined || !t.nodes[n].terminal {
		return Undefined
	}
	t.nodes[n].terminal = false
	t.wordCount--
	removed := n
	for n != Root && !t.nodes[n].terminal && len(t.nodes[n].children) == 0 {
		parent := t.nodes[n].parent
		delete(t.nodes[parent].children, t.nodes[n].letter)
		t.free = append(t.free, n)
		n = parent
	}
	t.suffixValid = false
	return removed
}

// Traverse implements the combined goto+fail transition: if a child edge
// for letter exists, follow it; otherwise, if current is the root, stay at
// the root; otherwise recurse via the suffix link.
func (t *Trie) Traverse(current int, letter semigroups.Letter) int {
	if child, ok := t.nodes[current].children[letter]; ok {
		return child
	}
	if current == Root {
		return Root
	}
	return t.Traverse(t.SuffixLink(current), letter)
}

// SuffixLink returns i's suffix link, recomputing the whole cache via BFS
// from the root if invalidated.
func (t *Trie) SuffixLink(i int) int {
	if !t.suffixValid {
		t.rebuildSuffixLinks()
	}
	return t.nodes[i].suffix
}

func (t *Trie) rebuildSuffixLinks() {
	// Mark valid up front: the BFS below only ever follows suffix links of
	// strictly shallower nodes, which have already been recomputed by the
	// time Traverse reads them, so SuffixLink must not re-enter the rebuild.
	t.suffixValid = true
	t.nodes[Root].suffix = Root
	queue := []int{Root}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, l := range t.sortedLetters(u) {
			v := t.nodes[u].children[l]
			if u == Root {
				t.nodes[v].suffix = Root
			} else {
				t.nodes[v].suffix = t.Traverse(t.nodes[u].suffix, l)
			}
			queue = append(queue, v)
		}
	}
	tracer().Debugf("ahocorasick: rebuilt suffix links over %d nodes", t.NumNodes())
}

// sortedLetters returns u's child letters in ascending order, using a
// treeset to give deterministic BFS/Graphviz output regardless of Go map
// iteration order.
func (t *Trie) sortedLetters(u int) []semigroups.Letter {
	set := treeset.NewWith(utils.UInt8Comparator)
	for l := range t.nodes[u].children {
		set.Add(uint8(l))
	}
	letters := make([]semigroups.Letter, 0, set.Size())
	for _, v := range set.Values() {
		letters = append(letters, semigroups.Letter(v.(uint8)))
	}
	return letters
}

// Signature climbs the parent chain of i, emitting edge letters in
// reverse, to produce the word labelling the unique root-to-i path.
func (t *Trie) Signature(i int) semigroups.Word {
	var rev semigroups.Word
	for i != Root {
		rev = append(rev, t.nodes[i].letter)
		i = t.nodes[i].parent
	}
	w := make(semigroups.Word, len(rev))
	for idx, l := range rev {
		w[len(rev)-1-idx] = l
	}
	return w
}

// Height returns the depth of node i (root has height 0), memoized.
func (t *Trie) Height(i int) int {
	if t.nodes[i].heightKnow {
		return t.nodes[i].height
	}
	h := t.Height(t.nodes[i].parent) + 1
	t.nodes[i].height = h
	t.nodes[i].heightKnow = true
	return h
}

// IsTerminal reports whether node i is terminal.
func (t *Trie) IsTerminal(i int) bool {
	return t.nodes[i].terminal
}

// Child returns the child of u along letter, or (Undefined, false).
func (t *Trie) Child(u int, letter semigroups.Letter) (int, bool) {
	v, ok := t.nodes[u].children[letter]
	if !ok {
		return Undefined, false
	}
	return v, ok
}

// WriteDot emits a Graphviz digraph: nodes labelled with their signature
// and terminal flag, solid edges for child links labelled by letter,
// dashed edges for suffix links.
func (t *Trie) WriteDot(w io.Writer) error {
	if !t.suffixValid {
		t.rebuildSuffixLinks()
	}
	fmt.Fprintln(w, "digraph AhoCorasick {")
	live := make([]int, 0, t.NumNodes())
	freeSet := map[int]bool{}
	for _, f := range t.free {
		freeSet[f] = true
	}
	for i := range t.nodes {
		if !freeSet[i] {
			live = append(live, i)
		}
	}
	sort.Ints(live)
	for _, i := range live {
		fmt.Fprintf(w, "  n%d [label=\"%v\" shape=%s];\n", i, t.Signature(i), shapeFor(t.nodes[i].terminal))
	}
	for _, i := range live {
		for _, l := range t.sortedLetters(i) {
			c := t.nodes[i].children[l]
			fmt.Fprintf(w, "  n%d -> n%d [label=\"%d\" style=solid];\n", i, c, l)
		}
		if i != Root {
			fmt.Fprintf(w, "  n%d -> n%d [style=dashed];\n", i, t.nodes[i].suffix)
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}

func shapeFor(terminal bool) string {
	if terminal {
		return "doublecircle"
	}
	return "circle"
}
