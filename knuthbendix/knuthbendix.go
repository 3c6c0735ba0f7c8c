/*
Package knuthbendix implements Knuth-Bendix completion over a
package rewrite System: critical-pair generation, the completion loop,
and prefill from an enumerated semigroup.

Governed by a 3-Clause BSD license, in keeping with the rest of this
module.
*/
package knuthbendix

import (
	"fmt"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/semigroups"
	"github.com/npillmayer/semigroups/rewrite"
)

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// OverlapPolicy measures the "size" of an overlap of two left-hand sides
// AB and BC sharing factor B.
type OverlapPolicy int

const (
	// ABC measures |A|+|B|+|C|.
	ABC OverlapPolicy = iota
	// ABBC measures |AB|+|BC|.
	ABBC
	// MaxABBC measures max(|AB|,|BC|).
	MaxABBC
)

// EnumeratedSemigroup is the minimal surface knuthbendix.Prefill needs
// from an enumerated semigroup: the full multiplication table expressed
// as generator words.
type EnumeratedSemigroup interface {
	Size() (int, error)
	NumGenerators() int
	Factorization(i int) (semigroups.Word, error)
	FastProduct(i, j int) (int, error)
}

// Core is a Knuth-Bendix completion engine.
type Core struct {
	Alphabet *semigroups.Alphabet
	system   *rewrite.System

	CheckConfluenceInterval int
	MaxOverlap              int
	MaxRules                int
	Policy                  OverlapPolicy

	identity *semigroups.Letter
	inverses map[semigroups.Letter]semigroups.Letter

	stopped func() bool
}

// Option configures a Core at construction time.
type Option func(*Core)

// WithMaxRules bounds the number of active rules the completion loop may
// install before giving up.
func WithMaxRules(n int) Option { return func(c *Core) { c.MaxRules = n } }

// WithMaxOverlap bounds the overlap measure considered during completion.
func WithMaxOverlap(n int) Option { return func(c *Core) { c.MaxOverlap = n } }

// WithOverlapPolicy selects the overlap-size measure.
func WithOverlapPolicy(p OverlapPolicy) Option { return func(c *Core) { c.Policy = p } }

// WithCheckConfluenceInterval sets how many overlaps are considered
// between confluence checks.
func WithCheckConfluenceInterval(n int) Option {
	return func(c *Core) { c.CheckConfluenceInterval = n }
}

// WithStopPredicate installs a nullary predicate polled once per
// outer-loop iteration (new rule processed); Run returns promptly once it
// is true, per the Runner stop contract (spec §4.6).
func WithStopPredicate(p func() bool) Option { return func(c *Core) { c.stopped = p } }

// New creates a completion engine over alphabet.
func New(alphabet *semigroups.Alphabet, opts ...Option) *Core {
	c := &Core{
		Alphabet:                alphabet,
		system:                  rewrite.NewSystem(semigroups.ShortLex),
		CheckConfluenceInterval: 4096,
		MaxOverlap:              semigroups.LimitMax,
		MaxRules:                semigroups.LimitMax,
		Policy:                  ABC,
		inverses:                map[semigroups.Letter]semigroups.Letter{},
		stopped:                 func() bool { return false },
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetIdentity adds rules cc=c and cx=xc=x for every letter x, per spec §6.
func (c *Core) SetIdentity(letter semigroups.Letter) error {
	if int(letter) >= c.Alphabet.Size() {
		return fmt.Errorf("%w: identity letter %d", semigroups.ErrInvalidAlphabet, letter)
	}
	c.identity = &letter
	c.AddRule(semigroups.Word{letter, letter}, semigroups.Word{letter})
	for x := 0; x < c.Alphabet.Size(); x++ {
		l := semigroups.Letter(x)
		c.AddRule(semigroups.Word{letter, l}, semigroups.Word{l})
		c.AddRule(semigroups.Word{l, letter}, semigroups.Word{l})
	}
	return nil
}

// SetInverses declares, for every letter i, that s[i] is its two-sided
// inverse, validating s[s[i]]==i.
func (c *Core) SetInverses(s string) error {
	n := c.Alphabet.Size()
	if len(s) != n {
		return fmt.Errorf("%w: inverse string length %d != alphabet size %d", semigroups.ErrInvalidAlphabet, len(s), n)
	}
	inv := make([]semigroups.Letter, n)
	for i := 0; i < n; i++ {
		l, err := c.Alphabet.Letter(s[i])
		if err != nil {
			return err
		}
		inv[i] = l
	}
	for i := range inv {
		if int(inv[inv[i]]) != i {
			return fmt.Errorf("%w: inverse mapping is not involutive at %d", semigroups.ErrInvalidAlphabet, i)
		}
	}
	if c.identity == nil {
		return fmt.Errorf("%w: identity must be set before inverses", semigroups.ErrInvalidAlphabet)
	}
	for i, inverse := range inv {
		c.inverses[semigroups.Letter(i)] = inverse
		c.AddRule(semigroups.Word{semigroups.Letter(i), inverse}, semigroups.Word{*c.identity})
	}
	return nil
}

// AddRule defers to the underlying rewrite.System, after validating both
// words against the alphabet.
func (c *Core) AddRule(u, v semigroups.Word) error {
	if err := c.Alphabet.Validate(u); err != nil {
		return fmt.Errorf("%w: left side: %v", semigroups.ErrInvalidRelation, err)
	}
	if err := c.Alphabet.Validate(v); err != nil {
		return fmt.Errorf("%w: right side: %v", semigroups.ErrInvalidRelation, err)
	}
	c.system.AddRule(u, v)
	return nil
}

// Prefill populates rules from the multiplication table of an enumerated
// semigroup, to seed completion. See spec §9's open question: this is
// correct only when the underlying multiplication is strictly extensible
// by a single generator at a time; the source asserts but does not error
// on violation, and we keep that contract rather than silently rejecting
// otherwise-useful prefills.
func (c *Core) Prefill(s EnumeratedSemigroup) error {
	size, err := s.Size()
	if err != nil {
		return err
	}
	for i := 0; i < size; i++ {
		wi, err := s.Factorization(i)
		if err != nil {
			return err
		}
		for a := 0; a < s.NumGenerators(); a++ {
			j, err := s.FastProduct(i, a)
			if err != nil {
				return err
			}
			wj, err := s.Factorization(j)
			if err != nil {
				return err
			}
			lhs := append(wi.Clone(), semigroups.Letter(a))
			c.system.AddRule(lhs, wj)
		}
	}
	return nil
}

// Run executes the completion loop until confluent, stopped, or
// MaxRules is exceeded. Processes active-rule pairs FIFO (rules in the
// order they were installed), enumerating
// overlaps within MaxOverlap under the configured OverlapPolicy.
func (c *Core) Run() {
	c.system.ClearStack()
	overlapsConsidered := 0
	processed := map[[2]int]bool{}
	for {
		if c.stopped() || c.system.NumActive() >= c.MaxRules {
			return
		}
		if c.system.Confluent() {
			return
		}
		progressed := false
		rules := c.system.Active()
		for _, r1 := range rules {
			for _, r2 := range rules {
				key := [2]int{r1.ID, r2.ID}
				if processed[key] {
					continue
				}
				processed[key] = true
				progressed = true
				c.considerOverlaps(r1, r2)
				overlapsConsidered++
				c.system.ClearStack()
				if c.CheckConfluenceInterval > 0 && overlapsConsidered%c.CheckConfluenceInterval == 0 {
					if c.system.Confluent() {
						return
					}
				}
				if c.stopped() {
					return
				}
			}
		}
		if !progressed {
			// every pair of the current rule set has been considered and no
			// reduction is pending, so the system is as complete as this
			// loop can make it
			return
		}
	}
}

// RunByOverlapLength processes all overlaps of measure n before any of
// measure n+1, restarting from the smallest measure whenever new rules
// appear.
func (c *Core) RunByOverlapLength() {
	c.system.ClearStack()
	for n := 1; !c.system.Confluent() && !c.stopped() && c.system.NumActive() < c.MaxRules; n++ {
		rules := c.system.Active()
		before := c.system.NumActive()
		for _, r1 := range rules {
			for _, r2 := range rules {
				if c.overlapMeasure(r1.Left, r2.Left) != n {
					continue
				}
				c.considerOverlaps(r1, r2)
			}
		}
		c.system.ClearStack()
		if c.stopped() {
			return
		}
		if c.system.NumActive() != before {
			n = 0 // new rules admit shorter overlaps again
			continue
		}
		if st := c.system.Stats(); n > 2*st.MaxRuleLen {
			// no overlap of any pair can measure beyond twice the longest
			// rule under any policy
			return
		}
	}
}

func (c *Core) overlapMeasure(l1, l2 semigroups.Word) int {
	best := -1
	maxB := len(l1)
	if len(l2) < maxB {
		maxB = len(l2)
	}
	for b := 1; b <= maxB; b++ {
		if !l1[len(l1)-b:].Equal(l2[:b]) {
			continue
		}
		a, cc := len(l1)-b, len(l2)-b
		var m int
		switch c.Policy {
		case ABC:
			m = a + b + cc
		case ABBC:
			m = len(l1) + len(l2)
		case MaxABBC:
			m = len(l1)
			if len(l2) > m {
				m = len(l2)
			}
		}
		if best == -1 || m < best {
			best = m
		}
	}
	return best
}

func (c *Core) considerOverlaps(r1, r2 *rewrite.Rule) {
	l1, l2 := r1.Left, r2.Left
	maxB := len(l1)
	if len(l2) < maxB {
		maxB = len(l2)
	}
	for b := 1; b <= maxB; b++ {
		suffix := l1[len(l1)-b:]
		prefix := l2[:b]
		if !suffix.Equal(prefix) {
			continue
		}
		a := l1[:len(l1)-b]
		cc := l2[b:]
		measure := c.overlapMeasureFor(len(a), b, len(cc))
		if measure > c.MaxOverlap {
			continue
		}
		overlap := append(append(semigroups.Word{}, a...), l2...)
		red1 := append(append(semigroups.Word{}, r1.Right...), overlap[len(l1):]...)
		red2 := append(append(semigroups.Word{}, overlap[:len(a)]...), r2.Right...)
		n1 := c.system.Rewrite(red1)
		n2 := c.system.Rewrite(red2)
		if !n1.Equal(n2) {
			c.system.AddRule(n1, n2)
			tracer().Debugf("knuthbendix: new rule from overlap of %d,%d: %v = %v", r1.ID, r2.ID, n1, n2)
		}
	}
}

func (c *Core) overlapMeasureFor(a, b, cc int) int {
	switch c.Policy {
	case ABC:
		return a + b + cc
	case ABBC:
		return (a + b) + (b + cc)
	default: // MaxABBC
		ab, bc := a+b, b+cc
		if ab > bc {
			return ab
		}
		return bc
	}
}

// Rewrite delegates to the underlying rewrite.System.
func (c *Core) Rewrite(w semigroups.Word) semigroups.Word { return c.system.Rewrite(w) }

// NormalForm is an alias for Rewrite.
func (c *Core) NormalForm(w semigroups.Word) semigroups.Word { return c.Rewrite(w) }

// EqualTo rewrites both words and compares byte-for-byte. A confluent
// system makes this a correct decision procedure; a non-confluent (partial)
// system still answers correctly whenever the two reducts agree, and may
// be unable to prove inequality (spec §4.9 partial-answer contract).
func (c *Core) EqualTo(u, v semigroups.Word) bool {
	return c.Rewrite(u).Equal(c.Rewrite(v))
}

// Confluent reports the (possibly cached) confluence status.
func (c *Core) Confluent() bool { return c.system.Confluent() }

// Size counts length-ordered non-empty words whose reduct is themselves,
// valid only once a confluent rewriting system has been obtained. The
// irreducible words are factor-closed, so enumeration extends only the
// previous level's irreducible words and stops as soon as a whole length
// level yields none. Returns PositiveInfinity if the system is not
// confluent or the count has not closed off by maxLen.
func (c *Core) Size(maxLen int) int {
	if !c.Confluent() {
		return semigroups.PositiveInfinity
	}
	n := c.Alphabet.Size()
	count := 0
	level := []semigroups.Word{{}}
	for length := 1; length <= maxLen; length++ {
		var next []semigroups.Word
		for _, w := range level {
			for l := 0; l < n; l++ {
				ext := append(w.Clone(), semigroups.Letter(l))
				if c.Rewrite(ext).Equal(ext) {
					next = append(next, ext)
				}
			}
		}
		if len(next) == 0 {
			return count
		}
		count += len(next)
		level = next
	}
	if len(level) > 0 && maxLen > 0 {
		// words of maximal length were still irreducible; the count may not
		// have closed off
		return semigroups.PositiveInfinity
	}
	return count
}

// FiniteSize is Size with the provably infinite case surfaced as an
// error: a system some of whose generators appear on no left-hand side
// has infinitely many normal forms, so no finite witness exists.
func (c *Core) FiniteSize(maxLen int) (int, error) {
	if c.IsObviouslyInfinite() {
		return 0, semigroups.ErrInfiniteQuotient
	}
	return c.Size(maxLen), nil
}

// IsObviouslyInfinite is a syntactic heuristic: true when some generator
// never appears on any active rule's left-hand side.
func (c *Core) IsObviouslyInfinite() bool {
	seen := make([]bool, c.Alphabet.Size())
	for _, r := range c.system.Active() {
		for _, l := range r.Left {
			seen[l] = true
		}
	}
	for _, s := range seen {
		if !s {
			return true
		}
	}
	return false
}
