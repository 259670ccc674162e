package qdimacs

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseReaderQuantifierBlocks(t *testing.T) {
	src := `c a trivial QBF instance
p cnf 4 2
e 1 2 0
a 3 0
e 4 0
1 2 3 0
-1 -4 0
`
	inst, err := ParseReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if inst.NumVars != 4 || inst.NumClauses != 2 {
		t.Fatalf("header mismatch: %+v", inst)
	}
	wantBlocks := []Block{
		{Existential: true, Vars: []int{1, 2}},
		{Existential: false, Vars: []int{3}},
		{Existential: true, Vars: []int{4}},
	}
	if diff := cmp.Diff(wantBlocks, inst.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
	wantClauses := [][]int{{1, 2, 3}, {-1, -4}}
	if diff := cmp.Diff(wantClauses, inst.Clauses); diff != "" {
		t.Errorf("clauses mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReaderIgnoresComments(t *testing.T) {
	src := "c comment line\np cnf 1 1\ne 1 0\nc another comment\n1 0\n"
	inst, err := ParseReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	if len(inst.Clauses) != 1 || len(inst.Clauses[0]) != 1 || inst.Clauses[0][0] != 1 {
		t.Fatalf("unexpected clauses: %+v", inst.Clauses)
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse("/nonexistent/path/instance.qdimacs"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
