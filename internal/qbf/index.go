package qbf

// ClauseIndex maps a literal to the indices, into a ClauseSet's Clauses
// slice, of every clause that currently mentions it. It stands in for the
// Rust reference's MultiMap<i32, i32>: Go has no multimap in its standard
// library, and none of the retrieved example repos carry one either, so
// this is a plain hand-rolled map[Literal][]int.
type ClauseIndex map[Literal][]int

// Insert records that clauseIdx mentions literal.
func (idx ClauseIndex) Insert(literal Literal, clauseIdx int) {
	idx[literal] = append(idx[literal], clauseIdx)
}

// Get returns the clause indices recorded against literal.
func (idx ClauseIndex) Get(literal Literal) []int {
	return idx[literal]
}

// Contains reports whether any clause is recorded against literal.
func (idx ClauseIndex) Contains(literal Literal) bool {
	return len(idx[literal]) > 0
}

// DeleteKey drops every entry recorded against literal, used once every
// clause mentioning it has been updated to no longer contain it.
func (idx ClauseIndex) DeleteKey(literal Literal) {
	delete(idx, literal)
}

// PruneClause removes every occurrence of clauseIdx across all literals,
// used when a clause is marked satisfied/removed and so should no longer
// be discoverable through any of its literals.
func (idx ClauseIndex) PruneClause(clauseIdx int) {
	for lit, refs := range idx {
		kept := refs[:0:0]
		for _, r := range refs {
			if r != clauseIdx {
				kept = append(kept, r)
			}
		}
		if len(kept) == 0 {
			delete(idx, lit)
		} else {
			idx[lit] = kept
		}
	}
}

// Clone returns a deep copy of the index.
func (idx ClauseIndex) Clone() ClauseIndex {
	out := make(ClauseIndex, len(idx))
	for lit, refs := range idx {
		out[lit] = append([]int(nil), refs...)
	}
	return out
}
