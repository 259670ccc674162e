package qbf

import (
	"fmt"
	"strings"

	"github.com/rhartert/yaqbf/internal/config"
)

// clauseKey returns a canonical string key for a clause, standing in for
// the Rust reference's derived Eq/Hash on Clause (its literal slices plus
// Removed flag).
func clauseKey(c *Clause) string {
	var b strings.Builder
	fmt.Fprintf(&b, "e:")
	for _, l := range c.EOrder {
		fmt.Fprintf(&b, "%d,", l)
	}
	fmt.Fprintf(&b, "|a:")
	for _, l := range c.AOrder {
		fmt.Fprintf(&b, "%d,", l)
	}
	fmt.Fprintf(&b, "|r:%v", c.Removed)
	return b.String()
}

// Resolve performs Q-resolution on the given pivot (an existentially
// quantified variable, by assumption): it unions the two literal lists,
// drops the pivot and its complement, and rejects the resolvent as
// unsound if any variable would appear with both polarities (a
// tautology).
//
// Grounded on resolution.rs's resolve.
func Resolve(lits1, lits2 []Literal, pivot Literal) ([]Literal, bool) {
	set := make(map[Literal]bool, len(lits1)+len(lits2))
	for _, l := range lits1 {
		set[l] = true
	}
	for _, l := range lits2 {
		set[l] = true
	}
	delete(set, pivot)
	delete(set, -pivot)

	seen := make(map[Literal]bool, len(set))
	for l := range set {
		if seen[-l] {
			return nil, false
		}
		seen[l] = true
	}

	out := make([]Literal, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	return out, true
}

// ConvertLiteralsToClause builds a Clause from an unordered literal slice,
// splitting existential/universal by varInfo and sorting each half into
// prefix order.
//
// Grounded on util.rs's convert_literals_to_clause.
func ConvertLiteralsToClause(varInfo map[int]VariableInfo, order QuantificationOrder, literals []Literal) *Clause {
	var eLits, aLits []Literal
	for _, l := range literals {
		kind, _ := GetQuantifierKind(varInfo, l.Var())
		if kind == Existential {
			eLits = append(eLits, l)
		} else {
			aLits = append(aLits, l)
		}
	}
	ePos := positionIndex(order.Existential)
	aPos := positionIndex(order.Universal)
	return &Clause{
		EOrder: sortByOrder(ePos, eLits),
		AOrder: sortByOrder(aPos, aLits),
	}
}

// PreResolve bounds-saturates the clause database with existentially
// pivoted Q-resolvents, governed by rc's min/max ratio, max clause length,
// repeat-above and iteration-count hyperparameters. When originalClauses
// is non-nil (the CDCL case), accepted resolvents are also appended there
// so conflict analysis can resolve against them later. Since rc's ratios
// and iteration count are user-configurable (including an unbounded
// "infinity" sentinel), dl is polled at the head of the iteration loop and
// of the quantifier loop so a runaway configuration still yields to the
// overall solve deadline instead of running forever.
//
// Grounded on resolution.rs's pre_resolution.
func PreResolve(m *Matrix, originalClauses *[]*Clause, rc config.ResolutionConfig, dl Deadline) {
	seen := make(map[string]bool, len(m.Clauses.Clauses))
	for _, c := range m.Clauses.Clauses {
		seen[clauseKey(c)] = true
	}

	workingClauses := append([]*Clause(nil), m.Clauses.Clauses...)
	workingIndex := m.Index.Clone()

	var resolvedDatabase []*Clause

	total := len(m.Clauses.Clauses)
	resolvedCap := int(float64(total) * rc.MaxRatio)
	resolutionsPerLiteral := 0
	if len(m.Quantifiers) > 0 {
		resolutionsPerLiteral = int(float64(total)*rc.MinRatio) / len(m.Quantifiers)
	}

	for iteration := 0; iteration < rc.Iterations; iteration++ {
		if dl.Expired() {
			break
		}
		var resolvedClauses []*Clause

	quantifierLoop:
		for _, quantifier := range m.Quantifiers {
			if dl.Expired() {
				break quantifierLoop
			}
			resolvedForLiteral := 0
			if quantifier.Kind == Existential {
				literal := Literal(quantifier.Var)
				if workingIndex.Contains(literal) && workingIndex.Contains(-literal) {
					posRefs := workingIndex.Get(literal)
					negRefs := workingIndex.Get(-literal)
					for _, pRef := range posRefs {
						clause1 := workingClauses[pRef]
						for _, nRef := range negRefs {
							clause2 := workingClauses[nRef]
							resolved, ok := Resolve(clause1.LiteralList(), clause2.LiteralList(), literal)
							if !ok {
								continue
							}
							resolvedClause := ConvertLiteralsToClause(m.VarInfo, m.Order, resolved)
							key := clauseKey(resolvedClause)
							if seen[key] {
								continue
							}
							seen[key] = true
							resolvedClauses = append(resolvedClauses, resolvedClause)
							resolvedForLiteral++
							if len(resolved) > rc.RepeatAbove {
								continue
							}
							if resolvedForLiteral >= resolutionsPerLiteral {
								break
							}
						}
						if resolvedForLiteral >= resolutionsPerLiteral {
							break
						}
					}
				}
			}
			if len(resolvedClauses) > resolvedCap {
				break quantifierLoop
			}
		}

		if len(resolvedClauses) == 0 {
			break
		}
		resolvedDatabase = append(resolvedDatabase, resolvedClauses...)
		if iteration < rc.Iterations-1 {
			addResolvedClausesIndependently(&workingClauses, workingIndex, resolvedClauses)
		}
	}

	addResolvedClauses(m, resolvedDatabase, rc.MaxClauseLength, originalClauses)
}

func addResolvedClauses(m *Matrix, resolved []*Clause, maxClauseLength int, originalClauses *[]*Clause) {
	clauseIndex := len(m.Clauses.Clauses) - 1
	for _, clause := range resolved {
		if clause.Length() > maxClauseLength {
			continue
		}
		m.Clauses.Clauses = append(m.Clauses.Clauses, clause)
		m.Clauses.Count++
		if originalClauses != nil && len(*originalClauses) > 0 {
			*originalClauses = append(*originalClauses, clause)
		}
		clauseIndex++
		for _, lit := range clause.LiteralList() {
			m.Index.Insert(lit, clauseIndex)
		}
	}
}

func addResolvedClausesIndependently(clauseList *[]*Clause, index ClauseIndex, resolved []*Clause) {
	clauseIndex := len(*clauseList) - 1
	for _, clause := range resolved {
		*clauseList = append(*clauseList, clause)
		clauseIndex++
		for _, lit := range clause.LiteralList() {
			index.Insert(lit, clauseIndex)
		}
	}
}
