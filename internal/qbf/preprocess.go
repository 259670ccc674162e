package qbf

// getUnitLiterals scans clauses for unit clauses and returns their sole
// literal, in clause order.
//
// Grounded on util.rs's get_unit_literals.
func getUnitLiterals(clauses []*Clause) []Literal {
	var out []Literal
	for _, c := range clauses {
		if lit, ok := c.IsUnitClause(); ok {
			out = append(out, lit)
		}
	}
	return out
}

// PreprocessDPLL repeatedly applies unit propagation, pure-literal
// deletion and universal reduction to m until none of the three produces
// anything further (a fixed point), then compacts the clause list by
// permanently dropping removed clauses. If dl expires first it returns at
// once, without compacting.
//
// Grounded on dpll/preprocess.rs's preprocess.
func PreprocessDPLL(m *Matrix, stats *Statistics, dl Deadline) {
	for {
		if dl.Expired() {
			return
		}

		if units := getUnitLiterals(m.Clauses.Clauses); len(units) > 0 {
			PropagateDPLL(m, units, stats)
		}
		if m.CheckSolved() {
			break
		}

		if m.Config.PureLiteralDeletion {
			if pures := PureLiterals(m.Index); len(pures) > 0 {
				RemovePureLiterals(m, pures)
			}
			if m.CheckSolved() {
				break
			}
		}

		if m.Config.UniversalReduction {
			reductions := GetUniversalLiteralsForReduction(m.Clauses.Clauses, m.VarInfo)
			for _, r := range reductions {
				RemoveUniversalLiterals(m, r.Values, r.ClauseIndex)
			}
			if m.CheckSolved() {
				break
			}
		}

		var pures, units []Literal
		var reductions []UniversalReductionClause
		if m.Config.PureLiteralDeletion {
			pures = PureLiterals(m.Index)
		}
		if m.Config.UniversalReduction {
			reductions = GetUniversalLiteralsForReduction(m.Clauses.Clauses, m.VarInfo)
		}
		units = getUnitLiterals(m.Clauses.Clauses)
		if len(pures) == 0 && len(reductions) == 0 && len(units) == 0 {
			break
		}
	}
	simplifyConstraintsDPLL(m)
}

// PreprocessCDCL is PreprocessDPLL's CDCL counterpart: it propagates
// without recording trail entries (decision=false) since preprocessing
// happens before the search proper begins, and its compaction pass also
// keeps the learned-clause reference list and original clause snapshot in
// sync with the clauses it drops.
//
// Grounded on cdcl/preprocess.rs's preprocess.
func PreprocessCDCL(cm *CDCLMatrix, stats *Statistics, dl Deadline) {
	m := cm.Core
	for {
		if dl.Expired() {
			return
		}

		if units := getUnitLiterals(m.Clauses.Clauses); len(units) > 0 {
			PropagateCDCL(cm, units, false, stats)
		}
		if m.CheckSolved() {
			break
		}

		if m.Config.PureLiteralDeletion {
			if pures := PureLiterals(m.Index); len(pures) > 0 {
				RemovePureLiterals(m, pures)
			}
			if m.CheckSolved() {
				break
			}
		}

		if m.Config.UniversalReduction {
			reductions := GetUniversalLiteralsForReduction(m.Clauses.Clauses, m.VarInfo)
			for _, r := range reductions {
				RemoveUniversalLiterals(m, r.Values, r.ClauseIndex)
			}
			if m.CheckSolved() {
				break
			}
		}

		var pures, units []Literal
		var reductions []UniversalReductionClause
		if m.Config.PureLiteralDeletion {
			pures = PureLiterals(m.Index)
		}
		if m.Config.UniversalReduction {
			reductions = GetUniversalLiteralsForReduction(m.Clauses.Clauses, m.VarInfo)
		}
		units = getUnitLiterals(m.Clauses.Clauses)
		if len(pures) == 0 && len(reductions) == 0 && len(units) == 0 {
			break
		}
	}
	simplifyConstraintsCDCL(cm)
}

// simplifyConstraintsDPLL permanently drops every clause marked Removed
// and rebuilds the literal index from scratch against the surviving
// clauses.
//
// Grounded on dpll/preprocess.rs's simplify_constraints.
func simplifyConstraintsDPLL(m *Matrix) {
	kept := m.Clauses.Clauses[:0]
	for _, c := range m.Clauses.Clauses {
		if !c.Removed {
			kept = append(kept, c)
		}
	}
	m.Clauses.Clauses = kept

	m.Index = make(ClauseIndex)
	for idx, c := range m.Clauses.Clauses {
		for _, lit := range c.LiteralList() {
			m.Index.Insert(lit, idx)
		}
	}
}

// simplifyConstraintsCDCL is simplifyConstraintsDPLL's CDCL counterpart:
// it additionally drops and renumbers any dangling LearnedRefs entries as
// clauses shift down, resets the restart conflict counter since the
// database has just been refreshed, and resyncs OriginalClauses to the
// surviving clause list.
//
// Grounded on cdcl/preprocess.rs's simplify_constraints.
func simplifyConstraintsCDCL(cm *CDCLMatrix) {
	m := cm.Core

	var removedAt []int
	for idx, c := range m.Clauses.Clauses {
		if c.Removed {
			removedAt = append(removedAt, idx)
		}
	}

	for i := len(removedAt) - 1; i >= 0; i-- {
		ref := removedAt[i]
		m.Clauses.Clauses = append(m.Clauses.Clauses[:ref], m.Clauses.Clauses[ref+1:]...)

		filtered := cm.LearnedRefs[:0]
		for _, lr := range cm.LearnedRefs {
			if lr != ref {
				filtered = append(filtered, lr)
			}
		}
		cm.LearnedRefs = filtered
		for i, lr := range cm.LearnedRefs {
			if lr > ref {
				cm.LearnedRefs[i] = lr - 1
			}
		}
	}

	m.Index = make(ClauseIndex)
	for idx, c := range m.Clauses.Clauses {
		for _, lit := range c.LiteralList() {
			m.Index.Insert(lit, idx)
		}
	}

	cm.Restart.CurrentConflicts = 0
	cm.OriginalClauses = append([]*Clause(nil), m.Clauses.Clauses...)
}
