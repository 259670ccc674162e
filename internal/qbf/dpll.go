package qbf

// DPLL performs the recursive Davis-Putnam-Logemann-Loveland search over
// m, with pure-literal deletion and universal reduction folded into
// PropagateDPLL when the corresponding options are enabled. decision is
// the literal (if any) to propagate before branching further; it is nil
// only for the initial call.
//
// Each invocation works on its own clone of m so that failed branches
// never leak state into a sibling branch or back up to the caller -
// backtracking is simply "the clone is discarded and the caller tries
// again with its own, earlier clone."
//
// Grounded on dpll/dpll.rs's dpll.
func DPLL(m *Matrix, decision *Literal, stats *Statistics, dl Deadline) Result {
	if dl.Expired() {
		return Timeout
	}

	working := m.Clone()
	if decision != nil {
		PropagateDPLL(working, []Literal{*decision}, stats)
	}

	if working.Clauses.ContainsEmptySet() {
		return SAT
	}
	if working.Clauses.ContainsEmptyClause() {
		return UNSAT
	}

	literal, kind := SelectLiteral(working)
	result := DPLL(working, &literal, stats, dl)

	switch {
	case result == UNSAT && kind == Universal:
		return result
	case (result == SAT && kind == Universal) || (result == UNSAT && kind == Existential):
		stats.IncrementBacktrackCount()
		opposite := -literal
		return DPLL(working, &opposite, stats, dl)
	case result == SAT && kind == Existential:
		return result
	default: // Timeout
		return result
	}
}
