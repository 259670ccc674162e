package qbf

// cdclSnapshot is the bundle of mutable state a CDCL decision needs to
// cache before recursing and restore afterwards, mirroring the Rust
// reference's cache_necessary_structures tuple.
type cdclSnapshot struct {
	Clauses       ClauseSet
	Index         ClauseIndex
	Quantifiers   []Quantifier
	Trail         []Assignment
	Assignments   map[int]Assignment
	DecisionLevel int
}

func cacheNecessaryStructures(cm *CDCLMatrix) cdclSnapshot {
	assignments := make(map[int]Assignment, len(cm.Assignments))
	for k, v := range cm.Assignments {
		assignments[k] = v
	}
	return cdclSnapshot{
		Clauses:       cm.Core.Clauses.Clone(),
		Index:         cm.Core.Index.Clone(),
		Quantifiers:   append([]Quantifier(nil), cm.Core.Quantifiers...),
		Trail:         append([]Assignment(nil), cm.Trail...),
		Assignments:   assignments,
		DecisionLevel: cm.DecisionLevel,
	}
}

func restoreNecessaryStructures(cm *CDCLMatrix, snap cdclSnapshot) {
	cm.Core.Clauses = snap.Clauses
	cm.Core.Index = snap.Index
	cm.Core.Quantifiers = snap.Quantifiers
	cm.Trail = snap.Trail
	cm.Assignments = snap.Assignments
	cm.DecisionLevel = snap.DecisionLevel
	cm.ReaddLearnedClauses()
}

func satisfiableCDCL() (*Clause, int, Result) {
	return NewEmptyClause(), -1, SAT
}

func unsatisfiableCDCL() (*Clause, int, Result) {
	return NewEmptyClause(), -1, UNSAT
}

// performRestart applies the Luby-scheduled restart policy update and
// returns the invariant triple signalling the caller should handle a
// restart.
//
// Grounded on cdcl/cdcl.rs's perform_restart.
func performRestart(cm *CDCLMatrix) (*Clause, int, Result) {
	cm.Restart.IncrementRestartCounter()
	cm.Restart.UpdateConflictsUntilRestart(cm.Restart.RestartCounter)
	cm.Restart.ResetCurrentConflicts()
	cm.ResetConflictClause()
	return NewEmptyClause(), -1, Restart
}

// CDCL performs the recursive Conflict-Driven Clause Learning search over
// cm. decision is the literal (if any) to propagate before the next
// branch; it is nil only for the initial call.
//
// Unlike DPLL, CDCL cannot simply discard a clone on backtrack - the
// learned clauses and trail built up along a failed branch are exactly
// what make the next branch cheaper. Each decision therefore snapshots
// (cacheNecessaryStructures) the mutable clause/assignment state before
// recursing and restores it afterwards, re-adding any clause learned
// during the recursive call (ReaddLearnedClauses) so it survives the
// restore.
//
// Returns the clause learned at the point the search gave up this branch
// (used by the caller to decide how far to backjump), the level to
// backtrack to, and the overall Result.
//
// Grounded on cdcl/cdcl.rs's cdcl.
func CDCL(cm *CDCLMatrix, decision *Literal, stats *Statistics, dl Deadline) (*Clause, int, Result) {
	for {
		if dl.Expired() {
			return NewEmptyClause(), -1, Timeout
		}

		if decision != nil {
			PropagateCDCL(cm, []Literal{*decision}, true, stats)
		}

		if cm.Core.Clauses.ContainsEmptySet() {
			return satisfiableCDCL()
		} else if cm.Core.Clauses.ContainsEmptyClause() {
			if cm.Core.Config.Restarts && cm.Restart.ShouldRestart() {
				return performRestart(cm)
			}
			learnedClause, backtrackLevel := AnalyzeConflict(cm, stats)
			if !learnedClause.IsEmpty() && cm.Core.Config.Restarts {
				cm.Restart.IncrementCurrentConflicts()
			}
			return learnedClause, backtrackLevel, UNSAT
		}

		preSelectionQuantifiers := append([]Quantifier(nil), cm.Core.Quantifiers...)

		literal, kind := SelectLiteral(cm.Core)
		cm.IncrementDecisionLevel()
		snapshot := cacheNecessaryStructures(cm)

		learnedClause, backtrackLevel, result := CDCL(cm, &literal, stats, dl)

		restoreNecessaryStructures(cm, snapshot)

		switch result {
		case UNSAT:
			if backtrackLevel == cm.DecisionLevel {
				if learnedClause.IsEmpty() {
					if kind == Universal {
						return learnedClause, backtrackLevel - 1, result
					}
					cm.DecisionLevel--
					stats.IncrementBacktrackCount()
					opposite := -literal
					return CDCL(cm, &opposite, stats, dl)
				}
				stats.IncrementBacktrackCount()
				cm.Core.Quantifiers = preSelectionQuantifiers
				cm.DecisionLevel--
				cm.AddClause(learnedClause)
				continue
			} else if _, isUnit := learnedClause.IsUnitClause(); isUnit && cm.DecisionLevel == 1 {
				// Conflict analysis returns backtrack_level 0 for unit clauses.
				stats.IncrementBacktrackCount()
				cm.AddClause(learnedClause)
				cm.Core.Quantifiers = preSelectionQuantifiers
				cm.DecisionLevel--
				PreprocessCDCL(cm, stats, dl)
				if cm.Core.Clauses.ContainsEmptySet() {
					return satisfiableCDCL()
				} else if cm.Core.Clauses.ContainsEmptyClause() {
					return unsatisfiableCDCL()
				}
				continue
			} else {
				return learnedClause, backtrackLevel, result
			}
		case SAT:
			if kind == Universal {
				cm.DecisionLevel--
				stats.IncrementBacktrackCount()
				opposite := -literal
				return CDCL(cm, &opposite, stats, dl)
			}
			return learnedClause, backtrackLevel, result
		case Restart:
			if cm.DecisionLevel != 1 {
				return learnedClause, backtrackLevel, result
			}
			cm.ReduceClauseDatabase()
			cm.Core.Quantifiers = preSelectionQuantifiers
			cm.DecisionLevel--
			continue
		default: // Timeout
			return learnedClause, backtrackLevel, result
		}
	}
}
