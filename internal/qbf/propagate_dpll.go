package qbf

// PropagateDPLL performs unit propagation (BCP) over m starting from the
// given seed unit literals, then - if enabled - pure-literal deletion
// whenever the propagation queue drains, repeating until neither produces
// anything new or the matrix reaches a terminal (SAT/UNSAT) state.
//
// Grounded on dpll/unit_propagate.rs.
func PropagateDPLL(m *Matrix, unitLiterals []Literal, stats *Statistics) {
	queue := NewQueue[Literal](len(unitLiterals) + 4)
	for _, l := range unitLiterals {
		queue.Push(l)
	}

	for !queue.IsEmpty() {
		stats.IncrementPropagationCount()
		lit := queue.Pop()

		kind, pos, found := FindQuantifier(m.Quantifiers, lit)
		if found {
			m.Quantifiers = append(m.Quantifiers[:pos], m.Quantifiers[pos+1:]...)
		}

		if kind == Universal {
			m.Clauses.Count = -1
			return
		}

		for _, clauseIdx := range append([]int(nil), m.Index.Get(lit)...) {
			m.Clauses.Clauses[clauseIdx].Removed = true
			m.Clauses.DecrementCounter()
			m.Index.PruneClause(clauseIdx)
			if m.Clauses.ContainsEmptySet() {
				return
			}
		}

		complement := -lit
		negRefs := append([]int(nil), m.Index.Get(complement)...)
		if len(negRefs) > 0 {
			definitiveKind, _ := GetQuantifierKind(m.VarInfo, lit.Var())
			for _, clauseIdx := range negRefs {
				if definitiveKind == Existential {
					m.Clauses.Clauses[clauseIdx].RemoveELiteral(complement)
				} else {
					m.Clauses.Clauses[clauseIdx].RemoveALiteral(complement)
				}
				m.Index.DeleteKey(complement)

				if m.Clauses.CheckContradiction(&clauseIdx) {
					return
				}

				if m.Config.UniversalReduction {
					toRemove := DetectUniversalLiterals(m.Clauses.Clauses[clauseIdx], m.VarInfo)
					if len(toRemove) > 0 {
						RemoveUniversalLiterals(m, toRemove, clauseIdx)
						if m.Clauses.CheckContradiction(nil) {
							return
						}
					}
				}

				if unit, ok := m.Clauses.Clauses[clauseIdx].IsUnitClause(); ok {
					queue.Push(unit)
				}
			}
		}

		if m.Config.PureLiteralDeletion && queue.IsEmpty() {
			pures := PureLiterals(m.Index)
			if len(pures) > 0 {
				discovered := RemovePureLiterals(m, pures)
				if m.Clauses.CheckContradiction(nil) {
					return
				}
				for _, l := range discovered {
					queue.Push(l)
				}
			}
		}
	}
}
