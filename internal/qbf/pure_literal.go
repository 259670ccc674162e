package qbf

// PureLiterals scans the clause index for literals whose complement never
// appears, i.e. pure literals: every clause mentioning them can be
// satisfied (if existential) or simplified (if universal) without loss.
//
// Grounded on pure_literal_deletion.rs's get_pure_literals.
func PureLiterals(index ClauseIndex) []Literal {
	var out []Literal
	for lit := range index {
		if !index.Contains(-lit) {
			out = append(out, lit)
		}
	}
	return out
}

// RemovePureLiterals eliminates each pure literal from the matrix: an
// existential pure literal satisfies (removes) every clause it appears
// in; a universal pure literal is simply stripped from every clause it
// appears in (since it can always be chosen to avoid falsifying
// anything), which may itself trigger universal reduction and expose new
// unit or empty clauses. It returns every new unit literal discovered in
// the process; if the matrix becomes solved partway through, it returns
// immediately with whatever unit literals had been found so far.
//
// Grounded on pure_literal_deletion.rs's remove_pure_literals.
func RemovePureLiterals(m *Matrix, pureLiterals []Literal) []Literal {
	var newUnits []Literal
	for _, lit := range pureLiterals {
		kind, pos, found := FindQuantifier(m.Quantifiers, lit)
		if found {
			m.Quantifiers = append(m.Quantifiers[:pos], m.Quantifiers[pos+1:]...)
		}
		refs := append([]int(nil), m.Index.Get(lit)...)
		if refs == nil {
			continue
		}
		for _, clauseIdx := range refs {
			if kind == Existential {
				m.Clauses.Clauses[clauseIdx].Removed = true
				m.Clauses.DecrementCounter()
				m.Index.PruneClause(clauseIdx)
				if m.Clauses.ContainsEmptySet() {
					return newUnits
				}
			} else {
				m.Clauses.Clauses[clauseIdx].RemoveALiteral(lit)
				m.Index.DeleteKey(lit)

				if m.Config.UniversalReduction {
					toRemove := DetectUniversalLiterals(m.Clauses.Clauses[clauseIdx], m.VarInfo)
					if len(toRemove) > 0 {
						RemoveUniversalLiterals(m, toRemove, clauseIdx)
					}
				}

				if m.Clauses.CheckContradiction(&clauseIdx) {
					return newUnits
				}

				if unit, ok := m.Clauses.Clauses[clauseIdx].IsUnitClause(); ok {
					newUnits = append(newUnits, unit)
				}
			}
		}
	}
	return newUnits
}
