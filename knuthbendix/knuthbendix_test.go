package knuthbendix

import (
	"testing"

	"github.com/npillmayer/semigroups"
)

// TestDihedralGroupOfOrderSix is scenario S3: alphabet of 5 letters
// {0,1,2,3,4} with 0 declared identity and the given rules presents the
// dihedral group of order 6. size(maxLen) must reach 6, and
// normal_form(1) != normal_form(2).
func TestDihedralGroupOfOrderSix(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(5)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	c := New(alphabet)
	if err := c.SetIdentity(0); err != nil {
		t.Fatalf("SetIdentity: %v", err)
	}
	rules := []struct{ u, v semigroups.Word }{
		{semigroups.Word{1, 2}, semigroups.Word{0}},
		{semigroups.Word{2, 1}, semigroups.Word{0}},
		{semigroups.Word{3, 4}, semigroups.Word{0}},
		{semigroups.Word{4, 3}, semigroups.Word{0}},
		{semigroups.Word{2, 2}, semigroups.Word{0}},
		{semigroups.Word{1, 4, 2, 3, 3}, semigroups.Word{0}},
		{semigroups.Word{4, 4, 4}, semigroups.Word{0}},
	}
	for _, r := range rules {
		if err := c.AddRule(r.u, r.v); err != nil {
			t.Fatalf("AddRule(%v, %v): %v", r.u, r.v, err)
		}
	}
	c.Run()
	if !c.Confluent() {
		t.Fatalf("completion did not converge to a confluent system")
	}
	if got := c.Size(8); got != 6 {
		t.Fatalf("Size(8) = %d, want 6", got)
	}
	nf1 := c.NormalForm(semigroups.Word{1})
	nf2 := c.NormalForm(semigroups.Word{2})
	if nf1.Equal(nf2) {
		t.Fatalf("normal_form(1) == normal_form(2) == %v, want distinct", nf1)
	}
}

// TestSingleRuleConvergesInOneRound covers the boundary case: a rule
// equating two distinct generators converges without further overlaps.
func TestSingleRuleConvergesInOneRound(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	c := New(alphabet)
	if err := c.AddRule(semigroups.Word{0}, semigroups.Word{1}); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	c.Run()
	if !c.Confluent() {
		t.Fatalf("single-rule system should be trivially confluent")
	}
	if got := c.NormalForm(semigroups.Word{1}); !got.Equal(semigroups.Word{0}) {
		t.Fatalf("NormalForm(1) = %v, want [0]", got)
	}
}

// TestIdentityOnlySizeAtLeastOne covers the boundary case: an identity
// letter with no other rules still has size() >= 1 (the identity class).
func TestIdentityOnlySizeAtLeastOne(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(1)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	c := New(alphabet)
	if err := c.SetIdentity(0); err != nil {
		t.Fatalf("SetIdentity: %v", err)
	}
	c.Run()
	if !c.Confluent() {
		t.Fatalf("identity-only system should be confluent")
	}
	if got := c.Size(4); got < 1 {
		t.Fatalf("Size(4) = %d, want >= 1", got)
	}
}

// TestRunByOverlapLength solves scenario S3 with the
// shortest-overlaps-first variant of the completion loop.
func TestRunByOverlapLength(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(5)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	c := New(alphabet)
	if err := c.SetIdentity(0); err != nil {
		t.Fatalf("SetIdentity: %v", err)
	}
	rules := []struct{ u, v semigroups.Word }{
		{semigroups.Word{1, 2}, semigroups.Word{0}},
		{semigroups.Word{2, 1}, semigroups.Word{0}},
		{semigroups.Word{3, 4}, semigroups.Word{0}},
		{semigroups.Word{4, 3}, semigroups.Word{0}},
		{semigroups.Word{2, 2}, semigroups.Word{0}},
		{semigroups.Word{1, 4, 2, 3, 3}, semigroups.Word{0}},
		{semigroups.Word{4, 4, 4}, semigroups.Word{0}},
	}
	for _, r := range rules {
		if err := c.AddRule(r.u, r.v); err != nil {
			t.Fatalf("AddRule: %v", err)
		}
	}
	c.RunByOverlapLength()
	if !c.Confluent() {
		t.Fatalf("RunByOverlapLength did not converge to a confluent system")
	}
	if got := c.Size(8); got != 6 {
		t.Fatalf("Size(8) = %d, want 6", got)
	}
}

// TestPrefillFromEnumeratedSemigroup seeds completion from the
// multiplication table of Z/3Z; the single surviving rule 0^4 -> 0 is
// already confluent and counts three normal forms.
func TestPrefillFromEnumeratedSemigroup(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(1)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	c := New(alphabet)
	if err := c.Prefill(cyc3Semigroup{}); err != nil {
		t.Fatalf("Prefill: %v", err)
	}
	c.Run()
	if !c.Confluent() {
		t.Fatalf("prefilled system should complete")
	}
	if got := c.Size(10); got != 3 {
		t.Fatalf("Size(10) = %d, want 3 for Z/3Z", got)
	}
	if !c.EqualTo(semigroups.Word{0, 0, 0, 0}, semigroups.Word{0}) {
		t.Fatalf("g^4 and g should be equal in Z/3Z")
	}
}

// cyc3Semigroup hand-rolls the EnumeratedSemigroup surface Prefill needs
// for Z/3Z: elements g, g^2, g^3 = e at indices 0, 1, 2.
type cyc3Semigroup struct{}

func (cyc3Semigroup) Size() (int, error)   { return 3, nil }
func (cyc3Semigroup) NumGenerators() int   { return 1 }
func (cyc3Semigroup) Factorization(i int) (semigroups.Word, error) {
	w := make(semigroups.Word, i+1)
	return w, nil
}
func (cyc3Semigroup) FastProduct(i, j int) (int, error) { return (i + j + 1) % 3, nil }

// TestIsObviouslyInfinite checks the syntactic heuristic: a generator
// absent from every left-hand side witnesses an infinite quotient.
func TestIsObviouslyInfinite(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	c := New(alphabet)
	_ = c.AddRule(semigroups.Word{0, 0}, semigroups.Word{0})
	c.Run()
	if !c.IsObviouslyInfinite() {
		t.Fatalf("letter 1 appears on no left-hand side; the system is obviously infinite")
	}
}

// TestRewriteIdempotent covers invariant 6 for a confluent system.
func TestRewriteIdempotent(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	c := New(alphabet)
	_ = c.AddRule(semigroups.Word{0, 0}, semigroups.Word{0})
	_ = c.AddRule(semigroups.Word{1, 1}, semigroups.Word{1})
	_ = c.AddRule(semigroups.Word{0, 1}, semigroups.Word{1, 0})
	c.Run()
	w := semigroups.Word{0, 1, 0, 1, 1, 0}
	once := c.Rewrite(w)
	twice := c.Rewrite(once)
	if !once.Equal(twice) {
		t.Fatalf("rewrite(rewrite(w)) = %v != rewrite(w) = %v", twice, once)
	}
}
