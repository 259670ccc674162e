package qbf

import (
	"github.com/rhartert/yaqbf/internal/config"
	"github.com/rhartert/yaqbf/internal/qdimacs"
)

// Assignment records a single variable's value (as a signed literal), the
// decision level it was set at, and the clause responsible for implying
// it. Reason is -1 when the assignment was a decision rather than an
// implication (mirrors Option<i32> on the Rust side).
type Assignment struct {
	Value  Literal
	Level  int
	Reason int
}

// IsDecision reports whether the assignment was made by a branching
// decision rather than being implied by unit propagation.
func (a Assignment) IsDecision() bool {
	return a.Reason < 0
}

const noReason = -1

// CDCLMatrix extends Matrix with everything CDCL needs beyond plain DPLL:
// decision level tracking, the conflict clause slot, the untouched
// original clause list (used to re-derive learned clauses and to resolve
// against during conflict analysis), the trail, the assignment map, the
// set of learned clause indices, and the restart policy state.
//
// Grounded on data_structures.rs's CDCLMatrix.
type CDCLMatrix struct {
	Core            *Matrix
	DecisionLevel   int
	ConflictClause  *Clause
	OriginalClauses []*Clause
	Trail           []Assignment
	Assignments     map[int]Assignment
	LearnedRefs     []int
	Restart         RestartState
}

// RestartLubyConstant is the default multiplier applied to the Luby
// restart sequence, matching RestartData::new(100) in the Rust reference.
const RestartLubyConstant = 100

// NewCDCLMatrix builds a CDCLMatrix from a parsed QDIMACS/QBF instance and
// solver options.
func NewCDCLMatrix(inst *qdimacs.Instance, cfg config.SolverOptions) *CDCLMatrix {
	core := NewMatrix(inst, cfg)
	original := make([]*Clause, len(core.Clauses.Clauses))
	copy(original, core.Clauses.Clauses)
	return &CDCLMatrix{
		Core:            core,
		OriginalClauses: original,
		Assignments:     make(map[int]Assignment),
		Restart:         NewRestartState(RestartLubyConstant),
	}
}

// IncrementDecisionLevel bumps the current decision level by one.
func (cm *CDCLMatrix) IncrementDecisionLevel() {
	cm.DecisionLevel++
}

// AddClause appends a freshly learned clause: it is pushed to the
// original-clause list untouched, assignments are applied to get the
// clause's current live form, and the resulting clause is pushed onto the
// live database with its index registered in the literal index and the
// learned-clause reference list.
func (cm *CDCLMatrix) AddClause(clause *Clause) {
	cm.OriginalClauses = append(cm.OriginalClauses, clause)

	newClause := cm.ApplyCurrentAssignments(clause)
	cm.Core.Clauses.Clauses = append(cm.Core.Clauses.Clauses, newClause)
	clauseIdx := len(cm.Core.Clauses.Clauses) - 1
	cm.LearnedRefs = append(cm.LearnedRefs, clauseIdx)
	for _, lit := range newClause.LiteralList() {
		cm.Core.Index.Insert(lit, clauseIdx)
	}
	cm.Core.Clauses.Count++
}

// ApplyCurrentAssignments returns a copy of clause with every literal
// whose variable already has an assignment removed, regardless of
// polarity. It is used only to re-derive a clause's live form from its
// untouched original, so it is safe to drop assigned literals
// unconditionally: if the assignment were inconsistent with the literal,
// the clause would already be satisfied or falsified elsewhere.
func (cm *CDCLMatrix) ApplyCurrentAssignments(clause *Clause) *Clause {
	newClause := clause.Clone()
	for _, lit := range clause.EOrder {
		if _, ok := cm.Assignments[lit.Var()]; ok {
			newClause.RemoveELiteral(lit)
		}
	}
	for _, lit := range clause.AOrder {
		if _, ok := cm.Assignments[lit.Var()]; ok {
			newClause.RemoveALiteral(lit)
		}
	}
	return newClause
}

// ReaddLearnedClauses re-inserts any learned clause whose index fell
// outside the live clause list after a restore, needed because cached
// snapshots predate clauses learned after the snapshot was taken.
func (cm *CDCLMatrix) ReaddLearnedClauses() {
	for _, ref := range cm.LearnedRefs {
		if ref > len(cm.Core.Clauses.Clauses)-1 {
			clause := cm.ApplyCurrentAssignments(cm.OriginalClauses[ref])
			cm.Core.Clauses.Clauses = append(cm.Core.Clauses.Clauses, clause)
			idx := len(cm.Core.Clauses.Clauses) - 1
			for _, lit := range clause.LiteralList() {
				cm.Core.Index.Insert(lit, idx)
			}
			cm.Core.Clauses.Count++
		}
	}
}

// ReduceClauseDatabase discards the oldest (first-learned) half of the
// learned clauses, a simple age-based clause deletion policy applied at
// restart.
func (cm *CDCLMatrix) ReduceClauseDatabase() {
	half := len(cm.LearnedRefs) / 2
	firstHalf := append([]int(nil), cm.LearnedRefs[:half]...)
	for i := len(firstHalf) - 1; i >= 0; i-- {
		ref := firstHalf[i]
		cm.OriginalClauses = append(cm.OriginalClauses[:ref], cm.OriginalClauses[ref+1:]...)
		cm.Core.Clauses.Clauses = append(cm.Core.Clauses.Clauses[:ref], cm.Core.Clauses.Clauses[ref+1:]...)
		cm.LearnedRefs = cm.LearnedRefs[1:]
		cm.Core.Clauses.Count--
	}
	cm.RefreshClauseReferences()
	for i := range cm.LearnedRefs {
		cm.LearnedRefs[i] -= len(firstHalf)
	}
}

// RefreshClauseReferences rebuilds the literal index from scratch against
// the current clause list, needed after clauses have been physically
// removed and every remaining index has shifted.
func (cm *CDCLMatrix) RefreshClauseReferences() {
	index := make(ClauseIndex)
	for i, clause := range cm.Core.Clauses.Clauses {
		for _, lit := range clause.LiteralList() {
			index.Insert(lit, i)
		}
	}
	cm.Core.Index = index
}

// ResetConflictClause clears the conflict clause slot once it has been
// consumed.
func (cm *CDCLMatrix) ResetConflictClause() {
	cm.ConflictClause = nil
}
