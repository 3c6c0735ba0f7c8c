/*
Package semigroups is the computational core for finitely presented
semigroups and monoids.

Given a finite alphabet and a finite set of defining relations between
words, this package decides equality of elements, enumerates elements in
canonical order, computes quotients by congruences, and performs structural
analyses. Package structure is as follows:

■ unionfind: disjoint-set with union, find and block enumeration.

■ digraph: out-regular labeled digraphs with Gabow strongly-connected-component
decomposition and per-SCC spanning forests.

■ ahocorasick: a trie of patterns with suffix links, used to index rewrite
rules for fast leftmost reduction.

■ rewrite: a string rewriting system (active/inactive rules, confluence
checking, leftmost reduction).

■ knuthbendix: Knuth–Bendix completion on top of rewrite.

■ coset: coset management and Todd–Coxeter coset enumeration (HLT and
Felsch strategies).

■ orbit: BFS orbit/Schreier-graph enumeration under a generator action.

■ congruence: brute-force congruence-by-pairs closure over an enumerated
semigroup.

■ semigroup: the EnumeratedSemigroup collaborator interface, plus a
reference breadth-first implementation used by tests and by
knuthbendix.Prefill.

■ race: cooperative stoppable tasks (Runner) and a harness that races
several of them in parallel (Race).

■ dclass: Konieczny-style D-class decomposition for boolean matrices.

The base package contains data types used throughout all the other
packages: words, alphabets, relations and the shared error kinds.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package semigroups
