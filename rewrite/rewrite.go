/*
Package rewrite implements a string rewriting system: an active/inactive
rule store, confluence checking and leftmost reduction indexed by an
Aho-Corasick trie (package ahocorasick).

The split between this package (rule storage + rewriting) and package
knuthbendix (the completion loop) mirrors the teacher's split between
term representation and rewrite engine in terex/termr: a RewriteRule
there pairs a Pattern with a Rewriter function the way a Rule here pairs
a left-hand side with a right-hand side.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package rewrite

import (
	"fmt"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/semigroups"
	"github.com/npillmayer/semigroups/ahocorasick"
	"golang.org/x/exp/slices"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// Order is a reduction order: Compare(u,v) < 0 means u precedes v
// (u is "smaller"/preferred as a right-hand side).
type Order func(u, v semigroups.Word) int

// Rule is a single active or inactive rewrite rule Left -> Right, with
// Left > Right under the fixed reduction order. ID is a monotone integer
// identifier; a rule is "active" while installed in the System.
type Rule struct {
	ID          int
	Left, Right semigroups.Word
}

// System is a set of rewrite rules plus an Aho-Corasick index of active
// left-hand sides, used for one-pass leftmost reduction.
type System struct {
	order   Order
	trie    *ahocorasick.Trie
	rules   map[int]*Rule // terminal trie node -> active rule
	byNode  map[int]int   // node index -> rule ID, parallel to rules
	active  []*Rule
	pending []Rule // pending, unprocessed additions
	nextID  int

	letters [256]bool // letters that ever appeared in any rule

	confluent *bool // nil = unknown
}

// NewSystem creates an empty rewriting system using order (ShortLex if nil).
func NewSystem(order Order) *System {
	if order == nil {
		order = semigroups.ShortLex
	}
	return &System{
		order:  order,
		trie:   ahocorasick.New(),
		rules:  map[int]*Rule{},
		byNode: map[int]int{},
	}
}

// NumActive returns the number of active rules.
func (s *System) NumActive() int { return len(s.active) }

// Active returns a copy of the active rule list.
func (s *System) Active() []*Rule {
	out := make([]*Rule, len(s.active))
	copy(out, s.active)
	return out
}

// AddRule normalizes (l, r) so that l ≻ r under the system's order, and
// if l != r, pushes it onto the pending stack. Clears the confluence
// cache. Call ClearStack (directly or via Reduce) to actually install it.
func (s *System) AddRule(l, r semigroups.Word) {
	if l.Equal(r) {
		return
	}
	if s.order(l, r) < 0 {
		l, r = r, l
	}
	for _, x := range l {
		s.letters[x] = true
	}
	for _, x := range r {
		s.letters[x] = true
	}
	s.nextID++
	s.pending = append(s.pending, Rule{ID: s.nextID, Left: l.Clone(), Right: r.Clone()})
	s.confluent = nil
}

// Letters returns, in ascending order, every letter that has appeared in
// any rule ever added.
func (s *System) Letters() []semigroups.Letter {
	var out []semigroups.Letter
	for x, seen := range s.letters {
		if seen {
			out = append(out, semigroups.Letter(x))
		}
	}
	return out
}

// ClearStack processes pending rules one by one: rewrite both sides to
// normal form, re-normalize, and if still non-trivial install the rule.
func (s *System) ClearStack() {
	for len(s.pending) > 0 {
		r := s.pending[0]
		s.pending = s.pending[1:]
		l := s.Rewrite(r.Left)
		rr := s.Rewrite(r.Right)
		if l.Equal(rr) {
			continue
		}
		if s.order(l, rr) < 0 {
			l, rr = rr, l
		}
		id := r.ID
		if !l.Equal(r.Left) || !rr.Equal(r.Right) {
			// the rule changed under reduction; give it a fresh identity so
			// overlap bookkeeping upstream revisits it
			id = 0
		}
		s.install(id, l, rr)
	}
}

func (s *System) install(id int, l, r semigroups.Word) {
	// Deactivate existing active rules whose LHS contains l as a proper
	// factor (the new rule dominates them): their LHS will be rewritten to
	// normal form again on demand by callers re-running ClearStack on
	// them; here we simply remove them from the index and requeue.
	for _, existing := range s.Active() {
		if existing.Left.Equal(l) {
			continue
		}
		if containsFactor(existing.Left, l) {
			s.deactivate(existing)
			s.pending = append(s.pending, Rule{ID: existing.ID, Left: existing.Left, Right: existing.Right})
		}
	}
	if id == 0 {
		s.nextID++
		id = s.nextID
	}
	rule := &Rule{ID: id, Left: l, Right: r}
	if err := s.trie.AddWord(l); err != nil {
		// an identical LHS was already active; this can only happen if the
		// caller bypassed ClearStack's own normal-forming, which is a
		// programmer error.
		panic(fmt.Errorf("rewrite: %w", err))
	}
	node := s.findTerminal(l)
	s.rules[node] = rule
	s.byNode[node] = rule.ID
	s.active = append(s.active, rule)
	s.confluent = nil
	tracer().Debugf("rewrite: installed rule %d: %v -> %v", rule.ID, l, r)
}

func (s *System) deactivate(r *Rule) {
	node := s.findTerminal(r.Left)
	s.trie.RemoveWord(r.Left)
	delete(s.rules, node)
	delete(s.byNode, node)
	for i, a := range s.active {
		if a == r {
			s.active = append(s.active[:i], s.active[i+1:]...)
			break
		}
	}
	s.confluent = nil
}

func (s *System) findTerminal(w semigroups.Word) int {
	cur := ahocorasick.Root
	for _, l := range w {
		c, ok := s.trie.Child(cur, l)
		if !ok {
			return ahocorasick.Undefined
		}
		cur = c
	}
	return cur
}

func containsFactor(word, factor semigroups.Word) bool {
	if len(factor) == 0 || len(factor) > len(word) {
		return false
	}
	for i := 0; i+len(factor) <= len(word); i++ {
		if word[i : i+len(factor)].Equal(factor) {
			return true
		}
	}
	return false
}

// Rewrite performs one-pass leftmost-innermost reduction of w using the
// trie index, returning the reduced word. w is not mutated.
//
// Algorithm (spec §4.5): maintain the already-emitted irreducible prefix v
// together with a parallel stack of the trie states reached after each
// character of v, so the state for v is always states[top], never
// recomputed from scratch. Read one character at a time from the
// remaining input, transition via Traverse, and append both the character
// and its resulting state to v/states. On reaching a terminal node for
// rule (l,r) with |l|=L: drop the last L characters of v and the matching
// L states (the state now exposed at the new top is exactly the
// automaton state for the shortened v) and prepend r to the remaining
// input.
//
// The source's in-place variant resizes a single backing buffer shared by
// v and w and relies on an iterator into it staying valid across that
// resize — flagged in spec §9 as unsafe in general. We sidestep the
// hazard instead of reproducing it: v and the remaining input are two
// independent slices, so no iterator ever survives a mutation of the
// buffer it points into.
func (s *System) Rewrite(w semigroups.Word) semigroups.Word {
	if len(s.active) == 0 {
		return w.Clone()
	}
	v := make(semigroups.Word, 0, len(w))
	states := []int{ahocorasick.Root}
	remaining := w.Clone()

	for len(remaining) > 0 {
		letter := remaining[0]
		remaining = remaining[1:]
		cur := states[len(states)-1]
		next := s.trie.Traverse(cur, letter)
		v = append(v, letter)
		states = append(states, next)
		if !s.trie.IsTerminal(next) {
			continue
		}
		rule := s.rules[next]
		L := len(rule.Left)
		v = v[:len(v)-L]
		states = states[:len(states)-L]
		remaining = append(rule.Right.Clone(), remaining...)
	}
	return v
}

// Confluent returns the cached confluence status if known, otherwise
// performs the critical-pair check over all active rules and caches the
// result.
func (s *System) Confluent() bool {
	if s.confluent != nil {
		return *s.confluent
	}
	ok := s.checkConfluence()
	s.confluent = &ok
	return ok
}

// checkConfluence walks, for every active rule (l1,r1), the overlaps of l1
// with every other active left-hand side l2 and requires both reductions
// of the overlap word to agree.
func (s *System) checkConfluence() bool {
	for _, r1 := range s.active {
		for _, r2 := range s.active {
			if !s.overlapsResolve(r1, r2) {
				tracer().Debugf("rewrite: confluence check failed on rules %d,%d", r1.ID, r2.ID)
				return false
			}
		}
	}
	return true
}

// overlapsResolve checks every overlap of r1.Left (as a prefix factor)
// against r2.Left (as a suffix factor), i.e. every way l1 = AB, l2 = BC
// with B non-empty, bounded by |l1|-1.
func (s *System) overlapsResolve(r1, r2 *Rule) bool {
	l1, l2 := r1.Left, r2.Left
	maxOverlap := len(l1) - 1
	if maxOverlap > len(l2) {
		maxOverlap = len(l2)
	}
	for blen := 1; blen <= maxOverlap; blen++ {
		if blen > len(l1) {
			break
		}
		suffix := l1[len(l1)-blen:]
		prefix := l2[:blen]
		if !suffix.Equal(prefix) {
			continue
		}
		// overlap word: A B C, A = l1 minus its suffix B, C = l2 minus its prefix B
		a := l1[:len(l1)-blen]
		overlap := append(append(semigroups.Word{}, a...), l2...)
		// two reductions: apply r1 first (on the l1 occurrence at [0,len(l1)))
		red1 := append(append(semigroups.Word{}, r1.Right...), overlap[len(l1):]...)
		// apply r2 first (on the l2 occurrence at [len(a), len(a)+len(l2)))
		red2 := append(append(semigroups.Word{}, overlap[:len(a)]...), r2.Right...)
		n1 := s.Rewrite(red1)
		n2 := s.Rewrite(red2)
		if !n1.Equal(n2) {
			return false
		}
	}
	return true
}

// Reduce repeatedly clears the pending stack and re-reduces active rules
// against the current rule set until no change occurs.
func (s *System) Reduce() {
	for {
		s.ClearStack()
		changed := false
		for _, r := range s.Active() {
			// rewrite all but the last letter of the LHS so the rule stays a
			// rule, plus the full RHS
			nl := s.Rewrite(r.Left[:len(r.Left)-1].Clone())
			nl = append(nl, r.Left[len(r.Left)-1])
			nr := s.Rewrite(r.Right)
			if !nl.Equal(r.Left) || !nr.Equal(r.Right) {
				s.deactivate(r)
				s.pending = append(s.pending, Rule{ID: r.ID, Left: nl, Right: nr})
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

// Stats summarizes running statistics over the active rule set.
type Stats struct {
	MaxRuleLen     int
	MinLeftLen     int
	TotalRulesEver int
}

// Stats computes the current statistics.
func (s *System) Stats() Stats {
	st := Stats{TotalRulesEver: s.nextID}
	minLeft := -1
	for _, r := range s.active {
		if l := len(r.Left); l > st.MaxRuleLen {
			st.MaxRuleLen = l
		}
		if minLeft == -1 || len(r.Left) < minLeft {
			minLeft = len(r.Left)
		}
	}
	if minLeft == -1 {
		minLeft = 0
	}
	st.MinLeftLen = minLeft
	return st
}

// SortByLeftLen sorts a slice of rules by ascending left-hand-side length.
func SortByLeftLen(rules []*Rule) {
	slices.SortFunc(rules, func(a, b *Rule) int {
		return len(a.Left) - len(b.Left)
	})
}
