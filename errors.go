package semigroups

import "errors"

// Sentinel error kinds, raised at API boundaries (see spec §7). Internal
// routines wrap these with fmt.Errorf("...: %w", Err...) to attach context;
// callers should compare with errors.Is.
var (
	// ErrInvalidAlphabet: alphabet set twice, contains duplicates, or
	// exceeds MaxAlphabetSize letters.
	ErrInvalidAlphabet = errors.New("invalid alphabet")

	// ErrInvalidWord: a letter outside the declared alphabet appears in input.
	ErrInvalidWord = errors.New("invalid word")

	// ErrInvalidRelation: LHS or RHS of a relation fails word validation.
	ErrInvalidRelation = errors.New("invalid relation")

	// ErrFrozen: structural mutation attempted after enumeration began.
	ErrFrozen = errors.New("structure is frozen")

	// ErrInvalidPrefill: prefill table not rectangular, has out-of-range
	// entries, or conflicts with an already-added relation.
	ErrInvalidPrefill = errors.New("invalid prefill table")

	// ErrNotFullyDefined: a labeled digraph operation requires every edge
	// to be defined.
	ErrNotFullyDefined = errors.New("digraph is not fully defined")

	// ErrNotYetImplemented: a query not supported on this subclass/variant.
	ErrNotYetImplemented = errors.New("not yet implemented")

	// ErrInfiniteQuotient: a finite witness was requested for a structure
	// provably infinite.
	ErrInfiniteQuotient = errors.New("quotient is infinite")

	// ErrOutOfRange: index argument out of bounds.
	ErrOutOfRange = errors.New("index out of range")

	// ErrAlreadyTerminal: Aho-Corasick: adding a word whose signature
	// already names a terminal node.
	ErrAlreadyTerminal = errors.New("word is already present")
)
