package semigroups

import "math"

// Process-wide sentinel constants, kept as plain associated constants
// rather than C++-style globals (see spec §9 "Global mutable state").
const (
	// Undefined marks an absent table entry (a coset, a trie node index,
	// a vertex) throughout the library.
	Undefined = math.MaxInt - 0

	// PositiveInfinity marks an unbounded count (e.g. the size of an
	// infinite semigroup).
	PositiveInfinity = math.MaxInt - 1

	// LimitMax is a generic "no limit configured" sentinel for settings
	// such as max_rules or max_overlap.
	LimitMax = math.MaxInt - 2

	// NegativeInfinity is the dual of PositiveInfinity, used by ordering
	// comparators that need an element smaller than everything else.
	NegativeInfinity = math.MinInt
)
