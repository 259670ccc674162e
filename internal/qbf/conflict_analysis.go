package qbf

// getHighestDecisionLevel scans literals for the existential one assigned
// at the highest decision level, returning (-1, -1) if literals holds no
// existential literal at all.
//
// Grounded on cdcl/conflict_analysis.rs's get_highest_decision_level.
func getHighestDecisionLevel(cm *CDCLMatrix, literals []Literal) (Literal, int) {
	highestLevel := -1
	highestLiteral := Literal(-1)
	for _, lit := range literals {
		kind, _ := GetQuantifierKind(cm.Core.VarInfo, lit.Var())
		if kind != Existential {
			continue
		}
		assignment := cm.Assignments[lit.Var()]
		if highestLevel < assignment.Level {
			highestLevel = assignment.Level
			highestLiteral = lit
		}
	}
	return highestLiteral, highestLevel
}

// containsOneHighestDecisionLiteral is Stopping Constraint 1: among the
// existential literals in literals, only one may sit at the highest
// decision level.
//
// Grounded on cdcl/conflict_analysis.rs's contains_one_highest_decision_literal.
func containsOneHighestDecisionLiteral(cm *CDCLMatrix, literals []Literal) (Literal, int, bool) {
	v, highestLevel := getHighestDecisionLevel(cm, literals)
	twoAtHighest := false
	for _, lit := range literals {
		kind, _ := GetQuantifierKind(cm.Core.VarInfo, lit.Var())
		if kind != Existential {
			continue
		}
		assignment := cm.Assignments[lit.Var()]
		if assignment.Level == highestLevel && v != lit {
			twoAtHighest = true
			break
		}
	}
	return v, highestLevel, !twoAtHighest
}

// containsHighestDecisionLevelDecision is Stopping Constraint 2: the
// literal that triggered highestLevel must itself be an existential
// branching decision, not an implication.
//
// Grounded on cdcl/conflict_analysis.rs's contains_highest_decision_level_decision.
func containsHighestDecisionLevelDecision(cm *CDCLMatrix, highestLevel int) bool {
	trail := append([]Assignment(nil), cm.Trail...)
	for len(trail) > 0 {
		assignment := trail[len(trail)-1]
		trail = trail[:len(trail)-1]
		if assignment.Level == highestLevel {
			if assignment.IsDecision() {
				kind, _ := GetQuantifierKind(cm.Core.VarInfo, assignment.Value.Var())
				return kind == Existential
			}
		}
		if assignment.Level < highestLevel {
			break
		}
	}
	return false
}

// allPreviousUniversalsAssignedCorrectly is Stopping Constraint 3: every
// universal literal quantified at a level below highestDecisionLiteral's
// must already be assigned false.
//
// Grounded on cdcl/conflict_analysis.rs's all_previous_universals_assigned_correctly.
func allPreviousUniversalsAssignedCorrectly(cm *CDCLMatrix, literals []Literal, highestDecisionLiteral Literal) bool {
	_, hdlLevel := GetQuantifierKind(cm.Core.VarInfo, highestDecisionLiteral.Var())
	for _, lit := range literals {
		kind, level := GetQuantifierKind(cm.Core.VarInfo, lit.Var())
		if kind != Universal {
			continue
		}
		if level < hdlLevel {
			assignment := cm.Assignments[lit.Var()]
			if assignment.Value != -lit {
				return false
			}
		}
	}
	return true
}

// calculateBacktrackLevel determines the first-unique-implication-point
// backtrack target: the highest decision level, among literals not at
// highestLevel, that any literal of the learned clause was assigned at.
//
// Grounded on cdcl/conflict_analysis.rs's calculate_backtrack_level.
func calculateBacktrackLevel(cm *CDCLMatrix, literals []Literal, highestLevel int) int {
	backtrack := -1
	for _, lit := range literals {
		assignment := cm.Assignments[lit.Var()]
		if assignment.Level == highestLevel {
			continue
		}
		if assignment.Level > backtrack {
			backtrack = assignment.Level
		}
	}
	if backtrack == -1 {
		backtrack = highestLevel - 1
	}
	if len(literals) > 1 && backtrack == 0 {
		backtrack = 1
	}
	return backtrack
}

// checkUnsatisfiabilityCriteria reports whether the learned clause proves
// the instance unsatisfiable: either every literal in it is universal, or
// every existential literal in it is assigned at decision level 0.
//
// Grounded on cdcl/conflict_analysis.rs's check_unsatisfiability_criteria.
func checkUnsatisfiabilityCriteria(cm *CDCLMatrix, literals []Literal) bool {
	onlyUniversals := true
	existentialsAtZero := true
	for _, lit := range literals {
		kind, _ := GetQuantifierKind(cm.Core.VarInfo, lit.Var())
		if kind == Existential {
			assignment := cm.Assignments[lit.Var()]
			if assignment.Level > 0 {
				existentialsAtZero = false
			}
			onlyUniversals = false
		}
	}
	return onlyUniversals || existentialsAtZero
}

// AnalyzeConflict walks the trail backward from the most recent
// assignment, Q-resolving the conflict clause against the reason clause of
// each existential implication it finds still present in the growing
// resolvent, until the three stopping constraints are met (1UIP). It
// returns the learned clause and the level to backtrack to; a backtrack
// level of -1 signals the instance is unsatisfiable.
//
// If the conflict was not reached through conflict-clause capture at all
// (a direct universal-literal contradiction), conflict learning does not
// apply and it naively backtracks one decision level.
//
// Grounded on cdcl/conflict_analysis.rs's analyse_conflict.
func AnalyzeConflict(cm *CDCLMatrix, stats *Statistics) (*Clause, int) {
	if cm.ConflictClause == nil {
		return NewEmptyClause(), cm.DecisionLevel
	}
	stats.IncrementLearnedClauseCount()

	conflict := cm.ConflictClause.Clone()
	cm.ResetConflictClause()

	trail := append([]Assignment(nil), cm.Trail...)
	currentLiterals := conflict.LiteralList()
	var backtrackLevel int

	for {
		if len(trail) == 0 {
			_, highestLevel, _ := containsOneHighestDecisionLiteral(cm, currentLiterals)
			backtrackLevel = calculateBacktrackLevel(cm, currentLiterals, highestLevel)
			break
		}

		resolutionOccurred := false
		assignment := trail[len(trail)-1]
		trail = trail[:len(trail)-1]

		if !assignment.IsDecision() {
			kind, _ := GetQuantifierKind(cm.Core.VarInfo, assignment.Value.Var())
			if kind == Existential {
				if containsLiteral(currentLiterals, assignment.Value) || containsLiteral(currentLiterals, -assignment.Value) {
					responsible := cm.OriginalClauses[assignment.Reason]
					resolved, ok := Resolve(currentLiterals, responsible.LiteralList(), assignment.Value)
					if !ok {
						panic("qbf: resolution against the reason clause produced a tautology during conflict analysis")
					}
					currentLiterals = resolved
					if checkUnsatisfiabilityCriteria(cm, currentLiterals) {
						return NewEmptyClause(), -1
					}
					resolutionOccurred = true
				}
			}
		}

		if !resolutionOccurred {
			continue
		}

		highestDecisionLiteral, highestLevel, constraintOne := containsOneHighestDecisionLiteral(cm, currentLiterals)
		if !constraintOne {
			continue
		}

		if !containsHighestDecisionLevelDecision(cm, highestLevel) {
			continue
		}

		if !allPreviousUniversalsAssignedCorrectly(cm, currentLiterals, highestDecisionLiteral) {
			continue
		}

		backtrackLevel = calculateBacktrackLevel(cm, currentLiterals, highestLevel)
		break
	}

	if len(currentLiterals) == 1 {
		backtrackLevel = 0
	}

	clause := ConvertLiteralsToClause(cm.Core.VarInfo, cm.Core.Order, currentLiterals)
	return clause, backtrackLevel
}

func containsLiteral(literals []Literal, lit Literal) bool {
	for _, l := range literals {
		if l == lit {
			return true
		}
	}
	return false
}
