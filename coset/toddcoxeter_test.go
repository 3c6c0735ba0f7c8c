package coset

import (
	"testing"

	"github.com/npillmayer/semigroups"
)

func rel(u, v []int) semigroups.Relation {
	lu := make(semigroups.Word, len(u))
	for i, x := range u {
		lu[i] = semigroups.Letter(x)
	}
	lv := make(semigroups.Word, len(v))
	for i, x := range v {
		lv[i] = semigroups.Letter(x)
	}
	return semigroups.Relation{Left: lu, Right: lv}
}

func word(letters ...int) semigroups.Word {
	w := make(semigroups.Word, len(letters))
	for i, x := range letters {
		w[i] = semigroups.Letter(x)
	}
	return w
}

// repeat1212Cubed builds the word (1212)^3 epsilon, i.e. "1212" repeated
// three times.
func repeat1212Cubed() []int {
	var out []int
	for i := 0; i < 3; i++ {
		out = append(out, 1, 2, 1, 2)
	}
	return out
}

func repeat1213Fourth() []int {
	var out []int
	for i := 0; i < 4; i++ {
		out = append(out, 1, 2, 1, 3)
	}
	return out
}

func buildScenarioS4(t *testing.T) *ToddCoxeter {
	t.Helper()
	alphabet, err := semigroups.NewAnonymousAlphabet(4)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	relations := []semigroups.Relation{
		rel([]int{0, 0}, []int{0}),
		rel([]int{1, 0}, []int{1}),
		rel([]int{0, 1}, []int{1}),
		rel([]int{2, 0}, []int{2}),
		rel([]int{0, 2}, []int{2}),
		rel([]int{3, 0}, []int{3}),
		rel([]int{0, 3}, []int{3}),
		rel([]int{1, 1}, []int{0}),
		rel([]int{2, 3}, []int{0}),
		rel([]int{2, 2, 2}, []int{0}),
		rel(repeat1212Cubed(), []int{0}),
		rel(repeat1213Fourth(), []int{0}),
	}
	return New(alphabet, relations, WithSide(TwoSided))
}

// TestToddCoxeterScenarioS4 exercises the alphabet-size-4 two-sided
// presentation whose completed table has 10752 classes, and whose
// recursive-order standardization yields the given first ten normal
// forms.
func TestToddCoxeterScenarioS4(t *testing.T) {
	tc := buildScenarioS4(t)
	tc.Run()
	if got := tc.NrClasses(); got != 10752 {
		t.Fatalf("NrClasses() = %d, want 10752", got)
	}

	tc.StandardizeTable(Recursive)
	want := []semigroups.Word{
		word(0),
		word(1),
		word(2),
		word(2, 1),
		word(1, 2),
		word(1, 2, 1),
		word(2, 2),
		word(2, 2, 1),
		word(2, 1, 2),
		word(2, 1, 2, 1),
	}
	for i, w := range want {
		got, err := tc.ClassIndexToWord(i)
		if err != nil {
			t.Fatalf("ClassIndexToWord(%d): %v", i, err)
		}
		if !got.Equal(w) {
			t.Fatalf("ClassIndexToWord(%d) = %v, want %v", i, got, w)
		}
	}
}

// TestWordToClassIndexRoundTrip covers the round-trip property:
// word_to_class_index(class_index_to_word(i)) == i, for every
// standardized class index.
func TestWordToClassIndexRoundTrip(t *testing.T) {
	tc := buildScenarioS4(t)
	tc.Run()
	tc.StandardizeTable(Recursive)
	for i := 0; i < 10; i++ {
		w, err := tc.ClassIndexToWord(i)
		if err != nil {
			t.Fatalf("ClassIndexToWord(%d): %v", i, err)
		}
		if got := tc.WordToClassIndex(w); got != i {
			t.Fatalf("WordToClassIndex(ClassIndexToWord(%d)) = %d, want %d", i, got, i)
		}
	}
}

// TestClassIndexToWordBeforeStandardizeFails covers invariant 8: without
// standardization there is no normal form forest to draw on.
func TestClassIndexToWordBeforeStandardizeFails(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(1)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	tc := New(alphabet, []semigroups.Relation{rel([]int{0, 0}, []int{0})})
	tc.Run()
	if _, err := tc.ClassIndexToWord(0); err == nil {
		t.Fatalf("ClassIndexToWord before StandardizeTable should fail")
	}
}

// bandRelations presents the free commutative band on two generators:
// three elements 0, 1 and 01.
func bandRelations() []semigroups.Relation {
	return []semigroups.Relation{
		rel([]int{0, 0}, []int{0}),
		rel([]int{1, 1}, []int{1}),
		rel([]int{1, 0}, []int{0, 1}),
	}
}

func TestFelschMatchesHLT(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	hlt := New(alphabet, bandRelations(), WithStrategy(HLT))
	hlt.Run()
	felsch := New(alphabet, bandRelations(), WithStrategy(Felsch))
	felsch.Run()
	if !felsch.Finished() {
		t.Fatalf("Felsch enumeration did not finish")
	}
	if hlt.NrClasses() != felsch.NrClasses() {
		t.Fatalf("Felsch found %d classes, HLT found %d", felsch.NrClasses(), hlt.NrClasses())
	}
	if got := felsch.NrClasses(); got != 3 {
		t.Fatalf("NrClasses() = %d, want 3 for the free commutative band on two generators", got)
	}
}

func TestRandomStrategyFinishes(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	tc := New(alphabet, bandRelations(), WithStrategy(Random))
	tc.Run()
	if !tc.Finished() {
		t.Fatalf("Random strategy did not finish")
	}
	if got := tc.NrClasses(); got != 3 {
		t.Fatalf("NrClasses() = %d, want 3", got)
	}
}

// TestLeftSideEqualsRightSideOfReversedPresentation checks the word
// reversal underlying left congruences: enumerating a left congruence
// must agree with enumerating the right congruence of the mirrored
// presentation.
func TestLeftSideEqualsRightSideOfReversedPresentation(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	// the free band on two generators: finite, with 6 non-identity
	// elements, and not left/right symmetric once a one-sided pair is added
	relations := []semigroups.Relation{
		rel([]int{0, 0}, []int{0}),
		rel([]int{1, 1}, []int{1}),
		rel([]int{0, 1, 0, 1}, []int{0, 1}),
		rel([]int{1, 0, 1, 0}, []int{1, 0}),
	}
	left := New(alphabet, relations, WithSide(Left))
	if err := left.AddPair(word(0, 1), word(1)); err != nil {
		t.Fatalf("AddPair: %v", err)
	}
	var reversed []semigroups.Relation
	for _, r := range relations {
		reversed = append(reversed, semigroups.Relation{Left: r.Left.Reversed(), Right: r.Right.Reversed()})
	}
	right := New(alphabet, reversed, WithSide(Right))
	if err := right.AddPair(word(0, 1).Reversed(), word(1).Reversed()); err != nil {
		t.Fatalf("AddPair: %v", err)
	}
	left.Run()
	right.Run()
	if left.NrClasses() != right.NrClasses() {
		t.Fatalf("left congruence has %d classes, mirrored right congruence has %d", left.NrClasses(), right.NrClasses())
	}
}

// TestPrefillFromCayleyTable seeds the table with the right Cayley table
// of Z/3Z and checks the enumeration accepts it as already complete, then
// that an added pair collapses the quotient.
func TestPrefillFromCayleyTable(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(1)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	cayley := [][]int{{1}, {2}, {0}} // element i * g = element (i+1) mod 3
	tc := New(alphabet, nil)
	if err := tc.Prefill(cayley); err != nil {
		t.Fatalf("Prefill: %v", err)
	}
	tc.Run()
	if got := tc.NrClasses(); got != 3 {
		t.Fatalf("NrClasses() = %d, want 3 after prefilling Z/3Z", got)
	}

	collapsed := New(alphabet, nil)
	if err := collapsed.Prefill(cayley); err != nil {
		t.Fatalf("Prefill: %v", err)
	}
	if err := collapsed.AddPair(word(0), word(0, 0)); err != nil {
		t.Fatalf("AddPair: %v", err)
	}
	collapsed.Run()
	if got := collapsed.NrClasses(); got != 1 {
		t.Fatalf("NrClasses() = %d, want 1 after identifying g with g^2 in Z/3Z", got)
	}
}

func TestPrefillValidation(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	if err := New(alphabet, nil).Prefill([][]int{{0, 1}, {1}}); err == nil {
		t.Fatalf("Prefill should reject a non-rectangular table")
	}
	if err := New(alphabet, nil).Prefill([][]int{{0, 5}, {1, 0}}); err == nil {
		t.Fatalf("Prefill should reject out-of-range entries")
	}
}

// TestLexStandardization checks that Lex order yields depth-first normal
// forms: [0] precedes [0,1] precedes [1].
func TestLexStandardization(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	tc := New(alphabet, bandRelations())
	tc.Run()
	tc.StandardizeTable(Lex)
	want := []semigroups.Word{word(0), word(0, 1), word(1)}
	for i, w := range want {
		got, err := tc.ClassIndexToWord(i)
		if err != nil {
			t.Fatalf("ClassIndexToWord(%d): %v", i, err)
		}
		if !got.Equal(w) {
			t.Fatalf("ClassIndexToWord(%d) = %v, want %v", i, got, w)
		}
		if idx := tc.WordToClassIndex(w); idx != i {
			t.Fatalf("WordToClassIndex(%v) = %d, want %d", w, idx, i)
		}
	}
}

// TestPreimageInvariant is spec §8 invariant 2: table(d,a) = c exactly
// when d appears in the preimage list of c under a.
func TestPreimageInvariant(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	tc := New(alphabet, bandRelations())
	tc.Run()
	n := alphabet.Size()
	for c := tc.manager.FirstActive(); c != Undefined; c = tc.manager.NextActiveCoset(c) {
		for a := 0; a < n; a++ {
			letter := semigroups.Letter(a)
			seen := map[int]bool{}
			for _, d := range tc.preimages(c, letter) {
				if !tc.manager.IsActiveCoset(d) {
					continue
				}
				if tc.table[d][a] != c {
					t.Fatalf("coset %d listed as preimage of %d under %d but table(%d,%d)=%d", d, c, a, d, a, tc.table[d][a])
				}
				seen[d] = true
			}
			for d := tc.manager.FirstActive(); d != Undefined; d = tc.manager.NextActiveCoset(d) {
				if tc.table[d][a] == c && !seen[d] {
					t.Fatalf("table(%d,%d)=%d but %d missing from the preimage list", d, a, c, d)
				}
			}
		}
	}
}

func TestAddPairAfterRunIsFrozen(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	tc := New(alphabet, bandRelations())
	tc.Run()
	if err := tc.AddPair(word(0), word(1)); err == nil {
		t.Fatalf("AddPair after Run should report the structure frozen")
	}
}

func TestQuotientSemigroupSizeMatchesNrClasses(t *testing.T) {
	alphabet, err := semigroups.NewAnonymousAlphabet(2)
	if err != nil {
		t.Fatalf("NewAnonymousAlphabet: %v", err)
	}
	relations := []semigroups.Relation{
		rel([]int{0, 0}, []int{0}),
		rel([]int{1, 1}, []int{1}),
		rel([]int{0, 1}, []int{1, 0}),
	}
	tc := New(alphabet, relations)
	tc.Run()
	q, err := tc.QuotientSemigroup()
	if err != nil {
		t.Fatalf("QuotientSemigroup: %v", err)
	}
	size, err := q.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != tc.NrClasses() {
		t.Fatalf("quotient semigroup size = %d, want %d (NrClasses)", size, tc.NrClasses())
	}
}
