package qbf

// ClauseSet is the clause database together with a running counter used as
// a cheap satisfiability sentinel: Count reaches 0 once every clause has
// been satisfied (the empty set of constraints), and drops to -1 the
// instant any single clause becomes empty (a falsified, i.e. empty,
// clause).
type ClauseSet struct {
	Clauses []*Clause
	Count   int
}

// DecrementCounter drops the live-clause counter by one, typically because
// a clause was just marked Removed (satisfied).
func (cs *ClauseSet) DecrementCounter() {
	cs.Count--
}

// ContainsEmptySet reports whether every clause has been satisfied.
func (cs *ClauseSet) ContainsEmptySet() bool {
	return cs.Count == 0
}

// ContainsEmptyClause reports whether some clause has become empty
// (falsified).
func (cs *ClauseSet) ContainsEmptyClause() bool {
	return cs.Count == -1
}

// CheckContradiction checks the clause at clauseIndex (when non-nil) for
// emptiness, latching Count to -1 and returning true if it is empty. When
// clauseIndex is nil, it simply reports the latched state.
func (cs *ClauseSet) CheckContradiction(clauseIndex *int) bool {
	if clauseIndex == nil {
		return cs.Count == -1
	}
	if cs.Clauses[*clauseIndex].IsEmpty() {
		cs.Count = -1
		return true
	}
	return false
}

// Clone returns a deep copy of the clause set.
func (cs *ClauseSet) Clone() ClauseSet {
	out := ClauseSet{Clauses: make([]*Clause, len(cs.Clauses)), Count: cs.Count}
	for i, c := range cs.Clauses {
		out.Clauses[i] = c.Clone()
	}
	return out
}
