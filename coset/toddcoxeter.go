package coset

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/npillmayer/semigroups"
	"github.com/npillmayer/semigroups/semigroup"
)

// Strategy selects how new cosets are defined during enumeration.
type Strategy int

const (
	// HLT (Hazelgrove-Leech-Trotter) is relation-driven: it prefers
	// defining cosets eagerly while tracing every relation through every
	// active coset.
	HLT Strategy = iota
	// Felsch is deduction-driven: it avoids defining new cosets where
	// possible, instead tracing the consequences of each new table entry.
	Felsch
	// Random repeatedly picks one of ten HLT/Felsch presets and runs it
	// for a fixed time slice until one finishes.
	Random
)

// Lookahead controls HLT's completeness pass.
type Lookahead int

const (
	// Full performs the lookahead from coset 0.
	Full Lookahead = iota
	// Partial performs the lookahead from the coset that triggered it.
	Partial
)

// StandardOrder selects a table standardization.
type StandardOrder int

const (
	None StandardOrder = iota
	ShortLex
	Lex
	Recursive
)

// Side selects which congruence the relations generate.
type Side int

const (
	TwoSided Side = iota
	Left
	Right
)

type deduction struct {
	coset  int
	letter semigroups.Letter
}
type coincidence struct{ p, q int }

// felschRel is one relation prepared for deduction-driven tracing; the
// user-added pairs of a one-sided congruence apply at the identity coset
// only.
type felschRel struct {
	rel          semigroups.Relation
	identityOnly bool
}

// felschPos records that letter word[pos] occurs at position pos of one
// side of felschRels[rel]; the index from letters to positions is the
// Felsch tree of spec §4.10, flattened to per-letter position lists.
type felschPos struct {
	rel    int
	inLeft bool
	pos    int
}

// ToddCoxeter is a coset enumeration engine (spec §4.10).
type ToddCoxeter struct {
	alphabet  *semigroups.Alphabet
	manager   *Manager
	table     [][]int // table[c][a]
	preimInit [][]int // preimInit[c][a] = head of the cosets d with table[d][a] == c
	preimNext [][]int // preimNext[d][a] = next preimage after d in its chain

	relations []semigroups.Relation
	extra     []semigroups.Relation
	side      Side

	// prepared working copies: work is traced at every coset, workExtra
	// only at the identity coset (one-sided congruences)
	prepared  bool
	work      []semigroups.Relation
	workExtra []semigroups.Relation

	felschRels []felschRel
	felschIdx  map[semigroups.Letter][]felschPos

	deductions   []deduction
	coincidences []coincidence

	Strategy       Strategy
	LookaheadKind  Lookahead
	LowerBound     int
	NextLookahead  int
	Save           bool
	Standardize    bool
	RandomInterval time.Duration
	RandomSeed     int64

	standardOrder StandardOrder
	frozen        bool
	prefilled     bool
	finished      bool
	stopped       func() bool

	normalForms []semigroups.Word // indexed by coset id, set by StandardizeTable
}

// Option configures a ToddCoxeter at construction.
type Option func(*ToddCoxeter)

func WithStrategy(s Strategy) Option         { return func(t *ToddCoxeter) { t.Strategy = s } }
func WithLookahead(l Lookahead) Option       { return func(t *ToddCoxeter) { t.LookaheadKind = l } }
func WithLowerBound(n int) Option            { return func(t *ToddCoxeter) { t.LowerBound = n } }
func WithNextLookahead(n int) Option         { return func(t *ToddCoxeter) { t.NextLookahead = n } }
func WithSave(b bool) Option                 { return func(t *ToddCoxeter) { t.Save = b } }
func WithSide(s Side) Option                 { return func(t *ToddCoxeter) { t.side = s } }
func WithStopPredicate(p func() bool) Option { return func(t *ToddCoxeter) { t.stopped = p } }

// New creates a ToddCoxeter engine for the given alphabet and relations.
func New(alphabet *semigroups.Alphabet, relations []semigroups.Relation, opts ...Option) *ToddCoxeter {
	t := &ToddCoxeter{
		alphabet:       alphabet,
		manager:        NewManager(),
		relations:      append([]semigroups.Relation{}, relations...),
		Strategy:       HLT,
		LookaheadKind:  Full,
		NextLookahead:  5000000,
		RandomInterval: 200 * time.Millisecond,
		standardOrder:  None,
		stopped:        func() bool { return false },
	}
	for _, o := range opts {
		o(t)
	}
	n := alphabet.Size()
	t.table = [][]int{newRow(n)}
	t.preimInit = [][]int{newRow(n)}
	t.preimNext = [][]int{newRow(n)}
	return t
}

func newRow(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = Undefined
	}
	return r
}

// AddPair adds a user-generating pair (u, v); returns ErrFrozen once
// enumeration has started.
func (t *ToddCoxeter) AddPair(u, v semigroups.Word) error {
	if t.frozen {
		return semigroups.ErrFrozen
	}
	if err := t.alphabet.Validate(u); err != nil {
		return fmt.Errorf("%w: left side: %v", semigroups.ErrInvalidRelation, err)
	}
	if err := t.alphabet.Validate(v); err != nil {
		return fmt.Errorf("%w: right side: %v", semigroups.ErrInvalidRelation, err)
	}
	t.extra = append(t.extra, semigroups.Relation{Left: u, Right: v})
	return nil
}

// Prefill seeds the coset table from a dense right Cayley table over the
// element-id domain [0, n): entry cayley[i][a] is the id of element i
// multiplied by generator a, and generator a is element a itself (the
// first rows). Coset i+1 stands for element i; coset 0 remains the
// identity class. Validation covers the structural contract of spec
// §4.10: rectangular, entries in range.
func (t *ToddCoxeter) Prefill(cayley [][]int) error {
	if t.frozen || t.prefilled {
		return semigroups.ErrFrozen
	}
	n := len(cayley)
	k := t.alphabet.Size()
	if n == 0 {
		return fmt.Errorf("%w: empty table", semigroups.ErrInvalidPrefill)
	}
	if n < k {
		return fmt.Errorf("%w: table has %d rows, fewer than the %d generators", semigroups.ErrInvalidPrefill, n, k)
	}
	for i, row := range cayley {
		if len(row) != k {
			return fmt.Errorf("%w: row %d has %d entries, want %d", semigroups.ErrInvalidPrefill, i, len(row), k)
		}
		for a, v := range row {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: entry (%d,%d) = %d out of range [0,%d)", semigroups.ErrInvalidPrefill, i, a, v, n)
			}
		}
	}
	t.prefilled = true
	t.manager.AddActiveCosets(n)
	t.growRows(n)
	for a := 0; a < k; a++ {
		t.Define(Identity, semigroups.Letter(a), a+1)
	}
	for i := 0; i < n; i++ {
		for a := 0; a < k; a++ {
			t.Define(i+1, semigroups.Letter(a), cayley[i][a]+1)
		}
	}
	return nil
}

func (t *ToddCoxeter) growRows(upto int) {
	n := t.alphabet.Size()
	for len(t.table) <= upto {
		t.table = append(t.table, newRow(n))
		t.preimInit = append(t.preimInit, newRow(n))
		t.preimNext = append(t.preimNext, newRow(n))
	}
}

// Define sets table(c,a) = d, pushes the deduction, and records c as a
// preimage of d under a, maintaining table(x,a)=y ⇔ x ∈ preimages(y,a).
func (t *ToddCoxeter) Define(c int, a semigroups.Letter, d int) {
	t.growRows(c)
	t.growRows(d)
	t.table[c][a] = d
	t.deductions = append(t.deductions, deduction{c, a})
	t.addPreimage(d, a, c)
	tracer().Debugf("toddcoxeter: define table(%d,%d)=%d", c, a, d)
}

// addPreimage inserts d at the head of the preimage list of c under a.
func (t *ToddCoxeter) addPreimage(c int, a semigroups.Letter, d int) {
	t.preimNext[d][a] = t.preimInit[c][a]
	t.preimInit[c][a] = d
}

// removePreimage unlinks d from the preimage list of c under a.
func (t *ToddCoxeter) removePreimage(c int, a semigroups.Letter, d int) {
	cur := t.preimInit[c][a]
	if cur == d {
		t.preimInit[c][a] = t.preimNext[d][a]
		return
	}
	for cur != Undefined {
		next := t.preimNext[cur][a]
		if next == d {
			t.preimNext[cur][a] = t.preimNext[d][a]
			return
		}
		cur = next
	}
}

// preimages snapshots the preimage list of c under a.
func (t *ToddCoxeter) preimages(c int, a semigroups.Letter) []int {
	var out []int
	for d := t.preimInit[c][a]; d != Undefined; d = t.preimNext[d][a] {
		out = append(out, d)
	}
	return out
}

// walk traces word w from coset c, defining new cosets as needed when
// define is set. Returns the final coset, or Undefined if define is unset
// and the walk falls off the table.
func (t *ToddCoxeter) walk(c int, w semigroups.Word, define bool) int {
	for _, a := range w {
		c = t.manager.FindCoset(c)
		t.growRows(c)
		next := t.table[c][a]
		if next == Undefined {
			if !define {
				return Undefined
			}
			next = t.manager.NewActiveCoset()
			t.Define(c, a, next)
		}
		c = next
	}
	return t.manager.FindCoset(c)
}

func (t *ToddCoxeter) traceNoDefine(c int, w semigroups.Word) int {
	return t.walk(c, w, false)
}

// walkPartial traces w from c without defining, returning the coset
// reached and how many letters were consumed before an undefined entry.
func (t *ToddCoxeter) walkPartial(c int, w semigroups.Word) (int, int) {
	for i, a := range w {
		c = t.manager.FindCoset(c)
		next := t.table[c][a]
		if next == Undefined {
			return c, i
		}
		c = next
	}
	return t.manager.FindCoset(c), len(w)
}

func (t *ToddCoxeter) pushCoincidence(p, q int) {
	p, q = t.manager.FindCoset(p), t.manager.FindCoset(q)
	if p == q {
		return
	}
	t.coincidences = append(t.coincidences, coincidence{p, q})
}

// processCoincidences drains the coincidence stack per spec §4.10: merge
// the larger representative into the smaller one, migrate its preimages,
// and reconcile its outgoing edges, possibly pushing further coincidences.
func (t *ToddCoxeter) processCoincidences() {
	for len(t.coincidences) > 0 {
		top := t.coincidences[len(t.coincidences)-1]
		t.coincidences = t.coincidences[:len(t.coincidences)-1]
		p, q := t.manager.FindCoset(top.p), t.manager.FindCoset(top.q)
		if p == q {
			continue
		}
		minC, maxC := p, q
		if minC > maxC {
			minC, maxC = maxC, minC
		}
		t.manager.UnionCosets(minC, maxC)
		n := t.alphabet.Size()
		for a := 0; a < n; a++ {
			letter := semigroups.Letter(a)
			// every active v with table(v,a) == maxC now points at minC
			for _, v := range t.preimages(maxC, letter) {
				if !t.manager.IsActiveCoset(v) {
					continue
				}
				t.table[v][a] = minC
				t.addPreimage(minC, letter, v)
				t.deductions = append(t.deductions, deduction{v, letter})
			}
			t.preimInit[maxC][a] = Undefined
			// maxC's own outgoing edge folds into minC's
			if vOrig := t.table[maxC][a]; vOrig != Undefined {
				t.removePreimage(vOrig, letter, maxC)
				v := t.manager.FindCoset(vOrig)
				switch cur := t.table[minC][a]; {
				case cur == Undefined:
					t.Define(minC, letter, v)
				case t.manager.FindCoset(cur) != v:
					t.pushCoincidence(cur, v)
				}
			}
			// maxC's id goes back to the free list; a recycled id starts
			// with an empty row
			t.table[maxC][a] = Undefined
		}
	}
}

// prepare freezes the presentation and compiles the working relation
// lists: for a left congruence every word is reversed (turning it into a
// right congruence over the mirror presentation); for a two-sided
// congruence the user pairs join the relations and are traced at every
// coset, while for one-sided congruences they are traced at the identity
// coset only.
func (t *ToddCoxeter) prepare() {
	if t.prepared {
		return
	}
	t.prepared = true
	t.frozen = true
	orient := func(r semigroups.Relation) semigroups.Relation {
		if t.side == Left {
			return semigroups.Relation{Left: r.Left.Reversed(), Right: r.Right.Reversed()}
		}
		return r
	}
	for _, r := range t.relations {
		t.work = append(t.work, orient(r))
	}
	for _, r := range t.extra {
		if t.side == TwoSided {
			t.work = append(t.work, r)
		} else {
			t.workExtra = append(t.workExtra, orient(r))
		}
	}
}

// buildFelschIdx compiles the per-letter relation-position index driving
// deduction processing.
func (t *ToddCoxeter) buildFelschIdx() {
	if t.felschIdx != nil {
		return
	}
	t.felschIdx = map[semigroups.Letter][]felschPos{}
	add := func(rel int, w semigroups.Word, inLeft bool) {
		for pos, a := range w {
			t.felschIdx[a] = append(t.felschIdx[a], felschPos{rel: rel, inLeft: inLeft, pos: pos})
		}
	}
	for _, r := range t.work {
		i := len(t.felschRels)
		t.felschRels = append(t.felschRels, felschRel{rel: r})
		add(i, r.Left, true)
		add(i, r.Right, false)
	}
	for _, r := range t.workExtra {
		i := len(t.felschRels)
		t.felschRels = append(t.felschRels, felschRel{rel: r, identityOnly: true})
		add(i, r.Left, true)
		add(i, r.Right, false)
	}
}

// backTrace returns every active coset s with τ(s, prefix) == c, walking
// the preimage lists from c back over prefix.
func (t *ToddCoxeter) backTrace(c int, prefix semigroups.Word) []int {
	starts := []int{c}
	for i := len(prefix) - 1; i >= 0; i-- {
		a := prefix[i]
		var prev []int
		for _, x := range starts {
			for d := t.preimInit[x][a]; d != Undefined; d = t.preimNext[d][a] {
				if t.manager.IsActiveCoset(d) {
					prev = append(prev, d)
				}
			}
		}
		starts = prev
		if len(starts) == 0 {
			break
		}
	}
	return starts
}

// checkRelation traces both sides of rel from start without creating
// cosets. If both sides complete to distinct cosets, that is a
// coincidence; if exactly one side is stuck at its final letter while the
// other completes, the missing entry is forced and defined (a deduction).
func (t *ToddCoxeter) checkRelation(start int, rel semigroups.Relation) {
	cu, iu := t.walkPartial(start, rel.Left)
	cv, iv := t.walkPartial(start, rel.Right)
	switch {
	case iu == len(rel.Left) && iv == len(rel.Right):
		if cu != cv {
			t.pushCoincidence(cu, cv)
		}
	case iu == len(rel.Left) && iv == len(rel.Right)-1:
		t.Define(cv, rel.Right[iv], cu)
	case iv == len(rel.Right) && iu == len(rel.Left)-1:
		t.Define(cu, rel.Left[iu], cv)
	}
}

// ProcessDeductions drains the deduction stack: each newly defined entry
// (c,a) re-examines, via the Felsch index and a backward trace over the
// preimage lists, every relation instance whose path crosses that entry,
// defining forced entries and pushing coincidences.
func (t *ToddCoxeter) ProcessDeductions() {
	t.buildFelschIdx()
	for len(t.deductions) > 0 {
		d := t.deductions[len(t.deductions)-1]
		t.deductions = t.deductions[:len(t.deductions)-1]
		if !t.manager.IsActiveCoset(d.coset) {
			continue
		}
		if t.table[d.coset][d.letter] == Undefined {
			continue
		}
		for _, fp := range t.felschIdx[d.letter] {
			fr := t.felschRels[fp.rel]
			word := fr.rel.Left
			if !fp.inLeft {
				word = fr.rel.Right
			}
			for _, start := range t.backTrace(d.coset, word[:fp.pos]) {
				if fr.identityOnly && start != Identity {
					continue
				}
				t.checkRelation(start, fr.rel)
			}
		}
		t.processCoincidences()
	}
}

// tableComplete reports whether every entry of every active coset is
// defined.
func (t *ToddCoxeter) tableComplete() bool {
	n := t.alphabet.Size()
	for c := t.manager.FirstActive(); c != Undefined; c = t.manager.NextActiveCoset(c) {
		for a := 0; a < n; a++ {
			if t.table[c][a] == Undefined {
				return false
			}
		}
	}
	return true
}

// hlt runs the Hazelgrove-Leech-Trotter strategy: passes over the active
// list trace every relation through every coset, defining cosets eagerly,
// until a whole pass neither defines nor kills a coset.
func (t *ToddCoxeter) hlt() {
	t.prepare()
	n := t.alphabet.Size()
	for {
		if t.stopped() {
			return
		}
		definedBefore := t.manager.NrCosetsDefined()
		killedBefore := t.manager.NrCosetsKilled()
		for _, rel := range t.workExtra {
			x := t.walk(Identity, rel.Left, true)
			y := t.walk(Identity, rel.Right, true)
			if x != y {
				t.pushCoincidence(x, y)
				t.processCoincidences()
			}
		}
	pass:
		for c := t.manager.FirstActive(); c != Undefined; c = t.manager.NextActiveCoset(c) {
			if t.stopped() {
				return
			}
			for _, rel := range t.work {
				x := t.walk(c, rel.Left, true)
				y := t.walk(c, rel.Right, true)
				if x != y {
					t.pushCoincidence(x, y)
					t.processCoincidences()
					if !t.manager.IsActiveCoset(c) {
						// the pass cursor was merged away; restart the scan
						break pass
					}
				}
			}
			for a := 0; a < n; a++ {
				if t.table[c][a] == Undefined {
					t.Define(c, semigroups.Letter(a), t.manager.NewActiveCoset())
				}
			}
			if t.Save {
				t.ProcessDeductions()
				if !t.manager.IsActiveCoset(c) {
					break pass
				}
			} else if len(t.deductions) > 0 {
				t.deductions = t.deductions[:0]
			}
			if t.manager.NrCosetsActive() >= t.NextLookahead {
				t.lookahead(c)
				if !t.manager.IsActiveCoset(c) {
					break pass
				}
			}
		}
		if t.manager.NrCosetsDefined() == definedBefore && t.manager.NrCosetsKilled() == killedBefore {
			t.finished = true
			return
		}
		if t.LowerBound > 0 && t.manager.NrCosetsActive()-1 >= t.LowerBound && t.tableComplete() {
			t.finished = true
			return
		}
	}
}

// lookahead traces every relation through the active cosets without
// making definitions, pushing coincidences; Full starts at coset 0,
// Partial at the coset that triggered it. The trigger threshold doubles
// afterwards so a stable active count does not re-trigger immediately.
func (t *ToddCoxeter) lookahead(current int) {
	start := t.manager.FirstActive()
	if t.LookaheadKind == Partial {
		start = current
	}
	for c := start; c != Undefined; c = t.manager.NextActiveCoset(c) {
		for _, rel := range t.work {
			x := t.traceNoDefine(c, rel.Left)
			y := t.traceNoDefine(c, rel.Right)
			if x != Undefined && y != Undefined && x != y {
				t.pushCoincidence(x, y)
			}
		}
	}
	t.processCoincidences()
	if t.manager.NrCosetsActive() >= t.NextLookahead {
		t.NextLookahead = 2 * t.manager.NrCosetsActive()
	}
	tracer().Infof("toddcoxeter: lookahead done, %d cosets active", t.manager.NrCosetsActive())
}

// felsch runs the deduction-driven strategy: cosets are defined one table
// entry at a time, and every definition's consequences are traced to
// exhaustion through ProcessDeductions before the next definition is
// made.
func (t *ToddCoxeter) felsch() {
	t.prepare()
	t.buildFelschIdx()
	for _, rel := range t.workExtra {
		x := t.walk(Identity, rel.Left, true)
		y := t.walk(Identity, rel.Right, true)
		if x != y {
			t.pushCoincidence(x, y)
		}
	}
	t.processCoincidences()
	t.ProcessDeductions()
	for !t.stopped() {
		c, a := t.firstUndefined()
		if c == Undefined {
			// the table is complete; verify it is also consistent before
			// declaring completion (entries may have been filled by an
			// interrupted HLT slice whose deductions were discarded)
			killedBefore := t.manager.NrCosetsKilled()
			t.fullCheck()
			t.ProcessDeductions()
			if t.manager.NrCosetsKilled() == killedBefore {
				t.finished = true
				return
			}
			continue
		}
		t.Define(c, semigroups.Letter(a), t.manager.NewActiveCoset())
		t.ProcessDeductions()
	}
}

// fullCheck traces every relation through every active coset, pushing
// coincidences, regardless of the configured lookahead kind.
func (t *ToddCoxeter) fullCheck() {
	for c := t.manager.FirstActive(); c != Undefined; c = t.manager.NextActiveCoset(c) {
		for _, rel := range t.work {
			x := t.traceNoDefine(c, rel.Left)
			y := t.traceNoDefine(c, rel.Right)
			if x != Undefined && y != Undefined && x != y {
				t.pushCoincidence(x, y)
			}
		}
	}
	t.processCoincidences()
}

func (t *ToddCoxeter) firstUndefined() (int, int) {
	n := t.alphabet.Size()
	for c := t.manager.FirstActive(); c != Undefined; c = t.manager.NextActiveCoset(c) {
		for a := 0; a < n; a++ {
			if t.table[c][a] == Undefined {
				return c, a
			}
		}
	}
	return Undefined, Undefined
}

// random repeatedly draws one of ten presets (HLT/Felsch crossed with
// lookahead, save and standardize toggles) and runs it for RandomInterval,
// until a slice finishes the enumeration. The draw sequence is
// deterministic for a fixed RandomSeed (spec §5).
func (t *ToddCoxeter) random() {
	t.prepare()
	type preset struct {
		strategy    Strategy
		lookahead   Lookahead
		save        bool
		standardize bool
	}
	presets := [...]preset{
		{HLT, Full, false, false},
		{HLT, Full, true, false},
		{HLT, Partial, false, false},
		{HLT, Partial, true, false},
		{HLT, Full, false, true},
		{HLT, Full, true, true},
		{HLT, Partial, false, true},
		{HLT, Partial, true, true},
		{Felsch, Full, false, false},
		{Felsch, Full, false, true},
	}
	rng := rand.New(rand.NewSource(t.RandomSeed))
	base := t.stopped
	defer func() { t.stopped = base }()
	for !t.finished && !base() {
		p := presets[rng.Intn(len(presets))]
		t.LookaheadKind = p.lookahead
		t.Save = p.save
		t.Standardize = t.Standardize || p.standardize
		deadline := time.Now().Add(t.RandomInterval)
		t.stopped = func() bool { return base() || time.Now().After(deadline) }
		if p.strategy == Felsch {
			t.felsch()
		} else {
			t.hlt()
		}
	}
}

// Run executes the configured strategy until the enumeration finishes or
// the stop predicate fires; a finished run is standardized (ShortLex) when
// the Standardize setting is on.
func (t *ToddCoxeter) Run() {
	switch t.Strategy {
	case Felsch:
		t.felsch()
	case Random:
		t.random()
	default:
		t.hlt()
	}
	if t.Standardize && t.finished {
		t.StandardizeTable(ShortLex)
	}
}

// Finished reports whether the enumeration ran to natural completion.
func (t *ToddCoxeter) Finished() bool { return t.finished }

// NrClasses returns the number of congruence classes: the active cosets
// minus the coset of the empty word, which represents no semigroup
// element.
func (t *ToddCoxeter) NrClasses() int {
	return t.manager.NrCosetsActive() - 1
}

func (t *ToddCoxeter) orient(w semigroups.Word) semigroups.Word {
	if t.side == Left {
		return w.Reversed()
	}
	return w
}

// WordToClassIndex computes τ(coset 0, w) - 1, the 0-based class index of
// the word w; Undefined if the trace falls off an incomplete table.
func (t *ToddCoxeter) WordToClassIndex(w semigroups.Word) int {
	c := t.traceNoDefine(Identity, t.orient(w))
	if c == Undefined {
		return Undefined
	}
	return c - 1
}

// Contains reports whether u and v trace to the same class from coset 0;
// on an incomplete table where either trace falls off, it reports whether
// u and v are the same word.
func (t *ToddCoxeter) Contains(u, v semigroups.Word) bool {
	x := t.traceNoDefine(Identity, t.orient(u))
	y := t.traceNoDefine(Identity, t.orient(v))
	if x == Undefined || y == Undefined {
		return u.Equal(v)
	}
	return x == y
}

// ClassIndexToWord returns the normal form of class i under the
// standardization order; StandardizeTable must have been called.
func (t *ToddCoxeter) ClassIndexToWord(i int) (semigroups.Word, error) {
	if t.normalForms == nil {
		return nil, fmt.Errorf("%w: call StandardizeTable first", semigroups.ErrNotYetImplemented)
	}
	if i < 0 || i+1 >= len(t.normalForms) {
		return nil, semigroups.ErrOutOfRange
	}
	return t.normalForms[i+1], nil
}

// quotientAdapters is the orbit.Adapters[int, int] capability set for
// QuotientSemigroup's elements (cosets of the standardized table):
// Product(a, b) traces b's normal form from coset a, which is exactly
// multiplication in the quotient the coset table represents.
type quotientAdapters struct{ t *ToddCoxeter }

func (q quotientAdapters) Identity(n int) int { return Identity }

func (q quotientAdapters) Product(a, b int) int {
	return q.t.traceNoDefine(a, q.t.normalForms[b])
}

func (q quotientAdapters) Degree(a int) int         { return q.t.alphabet.Size() }
func (q quotientAdapters) Complexity(a int) int     { return 1 }
func (q quotientAdapters) Swap(a, b int) (int, int) { return b, a }
func (q quotientAdapters) Inverse(a int) int        { return a } // no general inverse in a quotient monoid

func (q quotientAdapters) Action(a int, p int) int { return q.Product(p, a) }

// QuotientSemigroup builds and returns a finite semigroup over the
// completed coset table's classes as its element set (spec §4.10). The
// table is standardized with ShortLex order first if StandardizeTable has
// not already been called, since Product needs each class's normal form.
func (t *ToddCoxeter) QuotientSemigroup() (*semigroup.Enumerate[int], error) {
	if !t.finished {
		return nil, semigroups.ErrNotFullyDefined
	}
	if t.normalForms == nil {
		t.StandardizeTable(ShortLex)
	}
	n := t.alphabet.Size()
	generators := make([]int, n)
	for a := 0; a < n; a++ {
		generators[a] = t.table[Identity][a]
	}
	return semigroup.NewEnumerate[int](quotientAdapters{t: t}, generators), nil
}
