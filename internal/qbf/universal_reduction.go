package qbf

// UniversalReductionClause pairs a clause index with the universal
// literals within it that universal reduction can drop.
type UniversalReductionClause struct {
	ClauseIndex int
	Values      []Literal
}

// DetectUniversalLiterals scans a clause's universal literals, innermost
// first, dropping every one whose quantifier level is higher than (i.e.
// strictly inside) the innermost existential literal still present in the
// clause. Literals are kept sorted outermost-first within each polarity
// group, so this is a simple reverse scan that stops at the first
// universal literal that is NOT eligible for reduction.
//
// Grounded on universal_reduction.rs's detect_universal_literal.
func DetectUniversalLiterals(clause *Clause, varInfo map[int]VariableInfo) []Literal {
	var toRemove []Literal
	for i := len(clause.AOrder) - 1; i >= 0; i-- {
		aLit := clause.AOrder[i]
		if len(clause.EOrder) == 0 {
			toRemove = append(toRemove, clause.AOrder...)
			break
		}
		maxELit := clause.EOrder[len(clause.EOrder)-1]
		aInfo, aOK := varInfo[aLit.Var()]
		eInfo, eOK := varInfo[maxELit.Var()]
		if aOK && eOK {
			if aInfo.Level > eInfo.Level {
				toRemove = append(toRemove, aLit)
			} else {
				break
			}
		}
	}
	return toRemove
}

// GetUniversalLiteralsForReduction scans every clause (in reverse index
// order, matching the Rust reference) and returns the reduction candidates
// found in each.
func GetUniversalLiteralsForReduction(clauses []*Clause, varInfo map[int]VariableInfo) []UniversalReductionClause {
	var out []UniversalReductionClause
	for i := len(clauses) - 1; i >= 0; i-- {
		toRemove := DetectUniversalLiterals(clauses[i], varInfo)
		if len(toRemove) > 0 {
			out = append(out, UniversalReductionClause{ClauseIndex: i, Values: toRemove})
		}
	}
	return out
}

// RemoveUniversalLiterals drops literals from the clause at clauseIndex
// and checks whether doing so produced an empty (falsified) clause.
func RemoveUniversalLiterals(m *Matrix, literals []Literal, clauseIndex int) {
	m.Clauses.Clauses[clauseIndex].RemoveALiterals(literals)
	m.Clauses.CheckContradiction(&clauseIndex)
}

// ReaddUniversalLiterals restores previously-reduced universal literals to
// the clause at clauseIndex, re-sorting into prefix order. Used by CDCL to
// undo a speculative universal reduction that turned out not to produce a
// contradiction.
func ReaddUniversalLiterals(m *Matrix, literals []Literal, clauseIndex int) {
	clause := m.Clauses.Clauses[clauseIndex]
	merged := append(append([]Literal(nil), clause.AOrder...), literals...)
	pos := positionIndex(m.Order.Universal)
	clause.ReplaceALiterals(sortByOrder(pos, merged))
}
