package qbf

import (
	"sort"

	"github.com/rhartert/yaqbf/internal/config"
	"github.com/rhartert/yaqbf/internal/qdimacs"
)

// Matrix is the core data structure shared by DPLL and CDCL: the
// quantifier prefix, the clause database and its literal index, the
// per-variable quantification lookup, the prefix order (used to keep
// clause literals sorted), and the solver configuration.
//
// Grounded on data_structures.rs's Matrix.
type Matrix struct {
	Quantifiers []Quantifier
	Clauses     ClauseSet
	Index       ClauseIndex
	VarInfo     map[int]VariableInfo
	Order       QuantificationOrder
	Config      config.SolverOptions
}

// NewMatrix builds a Matrix from a parsed QDIMACS/QBF instance, splitting
// each clause's literals into existential/universal groups based on
// whether their variable was ever declared in a universal quantifier
// block, and sorting each group into prefix order.
func NewMatrix(inst *qdimacs.Instance, cfg config.SolverOptions) *Matrix {
	m := &Matrix{
		Index:   make(ClauseIndex),
		VarInfo: make(map[int]VariableInfo),
		Config:  cfg,
	}

	level := 0
	previousExistential := -1 // sentinel: no previous block yet
	for _, block := range inst.Blocks {
		kind := Existential
		if !block.Existential {
			kind = Universal
		}
		cur := 0
		if block.Existential {
			cur = 1
		}
		if cur != previousExistential {
			level++
			previousExistential = cur
		}
		for _, v := range block.Vars {
			m.Quantifiers = append(m.Quantifiers, Quantifier{Kind: kind, Var: v, Level: level})
			m.VarInfo[v] = VariableInfo{Kind: kind, Level: level}
			if block.Existential {
				m.Order.Existential = append(m.Order.Existential, v)
			} else {
				m.Order.Universal = append(m.Order.Universal, v)
			}
		}
	}

	existentialPos := positionIndex(m.Order.Existential)
	universalPos := positionIndex(m.Order.Universal)

	for ci, rawClause := range inst.Clauses {
		var eLits, aLits []Literal
		for _, raw := range rawClause {
			lit := Literal(raw)
			v := lit.Var()
			if info, ok := m.VarInfo[v]; ok && info.Kind == Universal {
				aLits = append(aLits, lit)
			} else {
				eLits = append(eLits, lit)
			}
			m.Index.Insert(lit, ci)
		}
		eLits = sortByOrder(existentialPos, eLits)
		aLits = sortByOrder(universalPos, aLits)
		m.Clauses.Clauses = append(m.Clauses.Clauses, &Clause{EOrder: eLits, AOrder: aLits})
	}
	m.Clauses.Count = len(m.Clauses.Clauses)

	return m
}

func positionIndex(order []int) map[int]int {
	pos := make(map[int]int, len(order))
	for i, v := range order {
		pos[v] = i
	}
	return pos
}

// sortByOrder sorts literals by the position of their variable within a
// prefix order (existential or universal), grounded on util.rs's
// sort_literals_order.
func sortByOrder(pos map[int]int, lits []Literal) []Literal {
	sort.SliceStable(lits, func(i, j int) bool {
		return pos[lits[i].Var()] < pos[lits[j].Var()]
	})
	return lits
}

// CheckSolved reports whether the clause set has reached a terminal
// satisfiable or unsatisfiable state.
func (m *Matrix) CheckSolved() bool {
	return m.Clauses.ContainsEmptyClause() || m.Clauses.ContainsEmptySet()
}

// Clone returns a deep copy of the matrix, used as the snapshot mechanism
// DPLL relies on instead of incremental undo.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{
		Quantifiers: append([]Quantifier(nil), m.Quantifiers...),
		Clauses:     m.Clauses.Clone(),
		Index:       m.Index.Clone(),
		VarInfo:     make(map[int]VariableInfo, len(m.VarInfo)),
		Order: QuantificationOrder{
			Existential: append([]int(nil), m.Order.Existential...),
			Universal:   append([]int(nil), m.Order.Universal...),
		},
		Config: m.Config,
	}
	for k, v := range m.VarInfo {
		out.VarInfo[k] = v
	}
	return out
}
