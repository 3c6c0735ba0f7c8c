package semigroup

import (
	"testing"

	"github.com/npillmayer/semigroups/digraph"
	"github.com/npillmayer/semigroups/orbit"
)

// cyc3 is Z/3Z, used as a tiny closed-form element type.
type cyc3 int

type cyc3Adapters struct{}

func (cyc3Adapters) Identity(n int) cyc3             { return 0 }
func (cyc3Adapters) Product(a, b cyc3) cyc3          { return (a + b) % 3 }
func (cyc3Adapters) Degree(a cyc3) int               { return 3 }
func (cyc3Adapters) Complexity(a cyc3) int           { return 1 }
func (cyc3Adapters) Swap(a, b cyc3) (cyc3, cyc3)     { return b, a }
func (cyc3Adapters) Inverse(a cyc3) cyc3             { return (3 - a) % 3 }
func (cyc3Adapters) Action(g cyc3, p cyc3) cyc3       { return (p + g) % 3 }

func buildCyc3() *Enumerate[cyc3] {
	return NewEnumerate[cyc3](orbit.Adapters[cyc3, cyc3](cyc3Adapters{}), []cyc3{1})
}

func TestEnumerateSizeAndFactorization(t *testing.T) {
	s := buildCyc3()
	size, err := s.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 3 {
		t.Fatalf("Size() = %d, want 3", size)
	}
	for i := 0; i < size; i++ {
		w, err := s.Factorization(i)
		if err != nil {
			t.Fatalf("Factorization(%d): %v", i, err)
		}
		got, err := s.WordToElement(w)
		if err != nil {
			t.Fatalf("WordToElement(%v): %v", w, err)
		}
		want, err := s.ElementAt(i)
		if err != nil {
			t.Fatalf("ElementAt(%d): %v", i, err)
		}
		if got != want {
			t.Fatalf("WordToElement(Factorization(%d)) = %v, want %v", i, got, want)
		}
	}
}

func TestFastProductMatchesDirectProduct(t *testing.T) {
	s := buildCyc3()
	if _, err := s.Size(); err != nil {
		t.Fatalf("Size: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			k, err := s.FastProduct(i, j)
			if err != nil {
				t.Fatalf("FastProduct(%d,%d): %v", i, j, err)
			}
			ei, _ := s.ElementAt(i)
			ej, _ := s.ElementAt(j)
			ek, _ := s.ElementAt(k)
			want := cyc3Adapters{}.Product(ei, ej)
			if ek != want {
				t.Fatalf("FastProduct(%d,%d) = %v, want %v", i, j, ek, want)
			}
		}
	}
}

func TestOutOfRangeElementAt(t *testing.T) {
	s := buildCyc3()
	if _, err := s.ElementAt(99); err == nil {
		t.Fatalf("ElementAt(99) should fail for a 3-element semigroup")
	}
}

func TestCayleyGraphsHaveOneEdgePerGenerator(t *testing.T) {
	s := buildCyc3()
	right, err := s.RightCayleyGraph()
	if err != nil {
		t.Fatalf("RightCayleyGraph: %v", err)
	}
	for i := 0; i < s.CurrentSize(); i++ {
		if got := right.Neighbor(i, 0); got == digraph.Undefined {
			t.Fatalf("right Cayley graph missing edge from %d on generator 0", i)
		}
	}
}
