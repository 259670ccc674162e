package qbf

import (
	"testing"

	"github.com/rhartert/yaqbf/internal/config"
)

// TestSelectVSSSkipsVacuousLeadingVariableOfDifferentKind is a regression
// test for a panic previously triggered when the outermost quantifier was
// vacuous (declared but no longer present in any live clause) and of a
// different kind than the next, live, variable: the live variable was
// dropped from consideration entirely instead of becoming the new block's
// sole VSS candidate, so the heap came up empty and SelectVSS panicked.
func TestSelectVSSSkipsVacuousLeadingVariableOfDifferentKind(t *testing.T) {
	m := &Matrix{
		Quantifiers: []Quantifier{
			{Kind: Universal, Var: 1, Level: 1},
			{Kind: Existential, Var: 2, Level: 2},
		},
		Index: ClauseIndex{
			Literal(2):  []int{0},
			Literal(-2): []int{1},
		},
		Config: config.SolverOptions{LiteralSelection: config.VSS},
	}

	lit, kind := SelectVSS(m)

	if lit.Var() != 2 {
		t.Fatalf("SelectVSS picked variable %d, want 2", lit.Var())
	}
	if kind != Existential {
		t.Fatalf("SelectVSS reported kind %v, want Existential", kind)
	}
	if len(m.Quantifiers) != 0 {
		t.Fatalf("SelectVSS left quantifiers %v, want both the vacuous variable 1 and the chosen variable 2 removed", m.Quantifiers)
	}
}

// TestSelectVSSPrefersHigherOccurrenceCount checks the occurrence-count
// ordering within a single live block: among variables of the same kind,
// the one appearing in more clauses is picked.
func TestSelectVSSPrefersHigherOccurrenceCount(t *testing.T) {
	m := &Matrix{
		Quantifiers: []Quantifier{
			{Kind: Existential, Var: 1, Level: 1},
			{Kind: Existential, Var: 2, Level: 1},
		},
		Index: ClauseIndex{
			Literal(1):  []int{0},
			Literal(2):  []int{0, 1, 2},
			Literal(-2): []int{3},
		},
		Config: config.SolverOptions{LiteralSelection: config.VSS},
	}

	lit, kind := SelectVSS(m)

	if lit.Var() != 2 {
		t.Fatalf("SelectVSS picked variable %d, want 2 (higher occurrence count)", lit.Var())
	}
	if kind != Existential {
		t.Fatalf("SelectVSS reported kind %v, want Existential", kind)
	}
}
