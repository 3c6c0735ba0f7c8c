package rewrite

import (
	"testing"

	"github.com/npillmayer/semigroups"
)

func w(letters ...semigroups.Letter) semigroups.Word { return semigroups.Word(letters) }

// TestAddRuleSwapAndInstall checks that AddRule normalizes l ≻ r under
// ShortLex (swapping equal-generator rules into a canonical direction) and
// that ClearStack actually installs the rule so Rewrite applies it.
func TestAddRuleSwapAndInstall(t *testing.T) {
	s := NewSystem(nil)
	s.AddRule(w(0), w(1, 1)) // 0 ≺ 11, so AddRule should swap to 11 -> 0
	s.ClearStack()
	if s.NumActive() != 1 {
		t.Fatalf("NumActive() = %d, want 1", s.NumActive())
	}
	rule := s.Active()[0]
	if !rule.Left.Equal(w(1, 1)) || !rule.Right.Equal(w(0)) {
		t.Fatalf("rule = %v -> %v, want 11 -> 0", rule.Left, rule.Right)
	}
	if got := s.Rewrite(w(1, 1)); !got.Equal(w(0)) {
		t.Fatalf("Rewrite(11) = %v, want 0", got)
	}
}

// TestAddRuleTrivialIsNoop checks that an equal-sides rule is silently
// dropped rather than pushed onto the pending stack.
func TestAddRuleTrivialIsNoop(t *testing.T) {
	s := NewSystem(nil)
	s.AddRule(w(0, 1), w(0, 1))
	s.ClearStack()
	if s.NumActive() != 0 {
		t.Fatalf("NumActive() = %d, want 0 for a trivial rule", s.NumActive())
	}
}

// TestRewriteIdempotent is invariant 6: rewrite(rewrite(w)) == rewrite(w)
// for a confluent system.
func TestRewriteIdempotent(t *testing.T) {
	s := NewSystem(nil)
	s.AddRule(w(1, 1), w(1))
	s.AddRule(w(0, 1), w(1, 0))
	s.ClearStack()
	if !s.Confluent() {
		t.Fatalf("system expected to be confluent")
	}
	for _, word := range []semigroups.Word{w(1, 1, 1, 1), w(0, 1, 1), w(1, 0, 1, 1, 0)} {
		once := s.Rewrite(word)
		twice := s.Rewrite(once)
		if !once.Equal(twice) {
			t.Fatalf("Rewrite(%v) = %v, Rewrite of that = %v, want idempotent", word, once, twice)
		}
	}
}

// TestRewriteSplitAgreement is invariant 6's second half: rewrite(uv) ==
// rewrite(rewrite(u) . rewrite(v)) for every split, on a confluent system.
func TestRewriteSplitAgreement(t *testing.T) {
	s := NewSystem(nil)
	s.AddRule(w(1, 1), w(1))
	s.ClearStack()
	uv := w(1, 1, 1, 1, 1)
	want := s.Rewrite(uv)
	for i := 0; i <= len(uv); i++ {
		u, v := uv[:i].Clone(), uv[i:].Clone()
		ru := s.Rewrite(u)
		rv := s.Rewrite(v)
		combined := append(ru.Clone(), rv...)
		got := s.Rewrite(combined)
		if !got.Equal(want) {
			t.Fatalf("split at %d: Rewrite(Rewrite(u).Rewrite(v)) = %v, want %v", i, got, want)
		}
	}
}

// TestConfluentDetectsNonConfluentOverlap exercises the critical-pair check
// on a system with an unresolved overlap: 01 -> 1 and 12 -> 2 overlap at
// "012", reducing to "12" (-> 2) one way and "02" the other, which do not
// agree without a further rule equating 0 and the result of reducing 02.
func TestConfluentDetectsNonConfluentOverlap(t *testing.T) {
	s := NewSystem(nil)
	s.AddRule(w(0, 1), w(1))
	s.AddRule(w(1, 2), w(2))
	s.ClearStack()
	if s.Confluent() {
		t.Fatalf("system with unresolved 01/12 overlap should not be confluent")
	}
}

// TestReduceKeepsRightHandSidesNormalized checks that after Reduce every
// active rule's right-hand side is already in normal form under the rest
// of the active rule set.
func TestReduceKeepsRightHandSidesNormalized(t *testing.T) {
	s := NewSystem(nil)
	s.AddRule(w(1, 1), w(1))
	s.AddRule(w(0, 1, 1), w(0, 1))
	s.ClearStack()
	s.Reduce()
	for _, r := range s.Active() {
		reduced := s.Rewrite(r.Right)
		if !reduced.Equal(r.Right) {
			t.Fatalf("rule %v -> %v has a right-hand side that is not in normal form (reduces to %v)", r.Left, r.Right, reduced)
		}
	}
}

// TestStatsTracksRuleCount checks that Stats reports the total number of
// rules ever created, including ones later deactivated by install/Reduce.
func TestStatsTracksRuleCount(t *testing.T) {
	s := NewSystem(nil)
	s.AddRule(w(1, 1), w(1))
	s.AddRule(w(0, 1, 1), w(0, 1))
	s.ClearStack()
	s.Reduce()
	st := s.Stats()
	if st.TotalRulesEver < 2 {
		t.Fatalf("Stats().TotalRulesEver = %d, want at least 2", st.TotalRulesEver)
	}
}
