package qbf

// PropagateCDCL performs unit propagation over cm starting from the given
// seed unit literals. When decision is true, every literal popped during
// this call (the seed and any literal it implies) is recorded onto the
// trail and assignment map, with its reason clause looked up from the
// literals discovered as new units during this same call (the seed
// literal itself always ends up recorded as a decision, since it cannot
// yet be in that map). When decision is false (the preprocessing use
// case) nothing is recorded onto the trail at all, regardless of reason.
//
// Universal reduction is spliced in speculatively here: it is applied,
// checked for producing a contradiction, and undone if it did not, because
// CDCL must be able to backtrack past a reduction that turned out to be
// premature.
//
// Grounded on cdcl/unit_propagate.rs.
func PropagateCDCL(cm *CDCLMatrix, unitLiterals []Literal, decision bool, stats *Statistics) {
	m := cm.Core
	queue := NewQueue[Literal](len(unitLiterals) + 4)
	for _, l := range unitLiterals {
		queue.Push(l)
	}
	impliedBy := make(map[Literal]int)

	for !queue.IsEmpty() {
		stats.IncrementPropagationCount()
		lit := queue.Pop()

		if decision {
			reason := noReason
			if r, ok := impliedBy[lit]; ok {
				reason = r
			}
			assignment := Assignment{Value: lit, Level: cm.DecisionLevel, Reason: reason}
			cm.Trail = append(cm.Trail, assignment)
			cm.Assignments[lit.Var()] = assignment
		}

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

				if m.Config.UniversalReduction {
					toRemove := DetectUniversalLiterals(m.Clauses.Clauses[clauseIdx], m.VarInfo)
					if len(toRemove) > 0 {
						RemoveUniversalLiterals(m, toRemove, clauseIdx)
						if m.Clauses.CheckContradiction(nil) {
							m.Clauses.Count = -1
							return
						}
						ReaddUniversalLiterals(m, toRemove, clauseIdx)
					}
				}

				if m.Clauses.CheckContradiction(&clauseIdx) {
					cm.ConflictClause = cm.OriginalClauses[clauseIdx].Clone()
					return
				}

				if unit, ok := m.Clauses.Clauses[clauseIdx].IsUnitClause(); ok {
					if !queueContains(queue, unit) {
						impliedBy[unit] = clauseIdx
						queue.Push(unit)
					}
				}
			}
		}
	}
}

// queueContains reports whether v is already queued, mirroring the
// Rust reference's VecDeque::contains check used to avoid double-queuing
// the same newly-discovered unit literal.
func queueContains(q *Queue[Literal], v Literal) bool {
	for i := 0; i < q.Size(); i++ {
		if q.elements[(q.head+i)%len(q.elements)] == v {
			return true
		}
	}
	return false
}
