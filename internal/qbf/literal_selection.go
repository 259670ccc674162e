package qbf

import (
	"github.com/rhartert/yagh"
	"github.com/rhartert/yaqbf/internal/config"
)

// VariableStateSum returns the number of clauses a variable's positive and
// negative literals currently appear in, together with which polarity
// should be preferred: negative if it is at least as common as positive
// (ties favor the negative phase), positive otherwise.
//
// Grounded on util.rs's get_variable_state_sum.
func VariableStateSum(index ClauseIndex, v int) (appearances int, choosePositive bool) {
	pos := len(index.Get(Literal(v)))
	neg := len(index.Get(Literal(-v)))
	return pos + neg, neg < pos
}

// SelectOrdered pops the outermost quantifier, discarding any whose
// variable no longer appears in any live clause, and returns the first one
// that does (always deciding it true; the search driver tries the
// opposite phase on backtrack).
//
// Grounded on literal_selection.rs's select_literal.
func SelectOrdered(m *Matrix) (Literal, QuantifierKind) {
	for {
		if len(m.Quantifiers) == 0 {
			panic("qbf: SelectOrdered called with an empty quantifier prefix")
		}
		q := m.Quantifiers[0]
		m.Quantifiers = m.Quantifiers[1:]
		lit := Literal(q.Var)
		if m.Index.Contains(lit) || m.Index.Contains(-lit) {
			return lit, q.Kind
		}
	}
}

// SelectVSS picks, among the block of quantifiers sharing the outermost
// live kind, the variable with the highest combined clause-occurrence
// count, breaking ties in favor of the earliest-declared candidate. Vacuous
// leading variables (declared, but no longer in any live clause) are
// skipped regardless of kind; the first live variable encountered sets the
// block's kind and is itself still evaluated as a candidate in the same
// pass, matching the Rust reference's fall-through rather than skipping it.
// The search is backed by a yagh.IntMap heap the same way rhartert/yass's
// VarOrder backs VSIDS decisions, rebuilt fresh for each call since the
// candidate pool is rescoped to a single quantifier block rather than
// being global.
//
// Grounded on literal_selection.rs's select_literal_vss.
func SelectVSS(m *Matrix) (Literal, QuantifierKind) {
	if len(m.Quantifiers) == 0 {
		panic("qbf: SelectVSS called with an empty quantifier prefix")
	}

	heap := yagh.New[int](0)
	heap.GrowBy(len(m.Quantifiers))

	var removeIdx []int
	topKind := m.Quantifiers[0].Kind
	foundAny := false
	choosePositive := make(map[int]bool, len(m.Quantifiers))

	for i, q := range m.Quantifiers {
		lit := Literal(q.Var)
		if !m.Index.Contains(lit) && !m.Index.Contains(-lit) {
			removeIdx = append(removeIdx, i)
			continue
		}
		if q.Kind != topKind {
			if foundAny {
				break
			}
			topKind = q.Kind
		}
		appearances, positive := VariableStateSum(m.Index, q.Var)
		choosePositive[i] = positive
		foundAny = true
		heap.Put(i, -appearances)
	}

	elem, ok := heap.Pop()
	if !ok {
		panic("qbf: SelectVSS found no candidate literal in the live quantifier block")
	}
	choice := elem.Elem

	quantifier := m.Quantifiers[choice]
	m.Quantifiers = append(m.Quantifiers[:choice], m.Quantifiers[choice+1:]...)
	for i := len(removeIdx) - 1; i >= 0; i-- {
		idx := removeIdx[i]
		if idx > choice {
			idx--
		}
		m.Quantifiers = append(m.Quantifiers[:idx], m.Quantifiers[idx+1:]...)
	}

	literal := Literal(quantifier.Var)
	if !choosePositive[choice] {
		literal = -literal
	}
	return literal, quantifier.Kind
}

// SelectLiteral dispatches to SelectOrdered or SelectVSS based on the
// matrix's configured literal selection heuristic.
func SelectLiteral(m *Matrix) (Literal, QuantifierKind) {
	if m.Config.LiteralSelection == config.VSS {
		return SelectVSS(m)
	}
	return SelectOrdered(m)
}
