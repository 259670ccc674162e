package qbf

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/rhartert/yaqbf/internal/config"
	"github.com/rhartert/yaqbf/internal/qdimacs"
)

func defaultOptions() config.SolverOptions {
	return config.SolverOptions{
		SolverType:          config.DPLL,
		LiteralSelection:    config.Ordered,
		Preprocess:          true,
		UniversalReduction:  true,
		PureLiteralDeletion: true,
		Restarts:            true,
		PreResolution:       false,
	}
}

func solveDPLL(t *testing.T, src string, cfg config.SolverOptions) Result {
	t.Helper()
	inst, err := qdimacs.ParseReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	m := NewMatrix(inst, cfg)
	stats := &Statistics{}
	dl := NewDeadline(SolveDeadline)
	if cfg.Preprocess {
		PreprocessDPLL(m, stats, dl)
		if m.CheckSolved() {
			if m.Clauses.ContainsEmptySet() {
				return SAT
			}
			return UNSAT
		}
	}
	if cfg.PreResolution {
		PreResolve(m, nil, cfg.PreResolutionConfig, dl)
	}
	return DPLL(m, nil, stats, dl)
}

func solveCDCL(t *testing.T, src string, cfg config.SolverOptions) Result {
	t.Helper()
	inst, err := qdimacs.ParseReader(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	cm := NewCDCLMatrix(inst, cfg)
	stats := &Statistics{}
	dl := NewDeadline(SolveDeadline)
	if cfg.Preprocess {
		PreprocessCDCL(cm, stats, dl)
		if cm.Core.CheckSolved() {
			if cm.Core.Clauses.ContainsEmptySet() {
				return SAT
			}
			return UNSAT
		}
	}
	if cfg.PreResolution {
		PreResolve(cm.Core, &cm.OriginalClauses, cfg.PreResolutionConfig, dl)
	}
	_, _, result := CDCL(cm, nil, stats, dl)
	return result
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Result
	}{
		{
			name: "two existentials tautology-like",
			src:  "p cnf 2 2\ne 1 2 0\n1 2 0\n-1 -2 0\n",
			want: SAT,
		},
		{
			name: "two existentials unsatisfiable",
			src:  "p cnf 2 4\ne 1 2 0\n1 2 0\n1 -2 0\n-1 2 0\n-1 -2 0\n",
			want: UNSAT,
		},
		{
			name: "universal then existential sat",
			src:  "p cnf 2 2\na 1 0\ne 2 0\n1 2 0\n-1 2 0\n",
			want: SAT,
		},
		{
			name: "universal reduction to unit",
			src:  "p cnf 2 2\ne 1 0\na 2 0\n1 2 0\n1 -2 0\n",
			want: SAT,
		},
		{
			name: "unit existential under universal",
			src:  "p cnf 2 1\na 1 0\ne 2 0\n2 0\n",
			want: SAT,
		},
		{
			name: "only universals emptied by reduction",
			src:  "p cnf 1 2\na 1 0\n1 0\n-1 0\n",
			want: UNSAT,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name+"/dpll", func(t *testing.T) {
			if got := solveDPLL(t, tc.src, defaultOptions()); got != tc.want {
				t.Errorf("DPLL(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
		t.Run(tc.name+"/cdcl", func(t *testing.T) {
			cfg := defaultOptions()
			cfg.SolverType = config.CDCL
			if got := solveCDCL(t, tc.src, cfg); got != tc.want {
				t.Errorf("CDCL(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
		t.Run(tc.name+"/dpll-vss", func(t *testing.T) {
			cfg := defaultOptions()
			cfg.LiteralSelection = config.VSS
			if got := solveDPLL(t, tc.src, cfg); got != tc.want {
				t.Errorf("DPLL(%q) with VSS selection = %v, want %v", tc.name, got, tc.want)
			}
		})
		t.Run(tc.name+"/cdcl-vss", func(t *testing.T) {
			cfg := defaultOptions()
			cfg.SolverType = config.CDCL
			cfg.LiteralSelection = config.VSS
			if got := solveCDCL(t, tc.src, cfg); got != tc.want {
				t.Errorf("CDCL(%q) with VSS selection = %v, want %v", tc.name, got, tc.want)
			}
		})
		t.Run(tc.name+"/dpll-preresolve", func(t *testing.T) {
			cfg := defaultOptions()
			cfg.PreResolution = true
			cfg.PreResolutionConfig = testResolutionConfig()
			if got := solveDPLL(t, tc.src, cfg); got != tc.want {
				t.Errorf("DPLL(%q) with pre-resolution = %v, want %v", tc.name, got, tc.want)
			}
		})
		t.Run(tc.name+"/cdcl-preresolve", func(t *testing.T) {
			cfg := defaultOptions()
			cfg.SolverType = config.CDCL
			cfg.PreResolution = true
			cfg.PreResolutionConfig = testResolutionConfig()
			if got := solveCDCL(t, tc.src, cfg); got != tc.want {
				t.Errorf("CDCL(%q) with pre-resolution = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

// testResolutionConfig returns modest pre-resolution hyperparameters sized
// for the small scenarios in TestScenarios: enough headroom to actually
// saturate a few resolvents without the ratio/length caps excluding every
// candidate outright.
func testResolutionConfig() config.ResolutionConfig {
	return config.ResolutionConfig{
		MinRatio:        2.0,
		MaxRatio:        4.0,
		MaxClauseLength: 8,
		RepeatAbove:     4,
		Iterations:      2,
	}
}

// randomPCNF builds a small random PCNF instance over up to maxVars
// variables, with a random split between a leading universal block and a
// trailing existential block so both quantifier kinds are exercised.
func randomPCNF(rng *rand.Rand, maxVars, numClauses int) string {
	numVars := 1 + rng.Intn(maxVars)
	splitAt := rng.Intn(numVars + 1)

	var b strings.Builder
	b.WriteString("p cnf ")
	b.WriteString(itoa(numVars))
	b.WriteString(" ")
	b.WriteString(itoa(numClauses))
	b.WriteString("\n")

	if splitAt > 0 {
		b.WriteString("a")
		for v := 1; v <= splitAt; v++ {
			b.WriteString(" ")
			b.WriteString(itoa(v))
		}
		b.WriteString(" 0\n")
	}
	b.WriteString("e")
	for v := splitAt + 1; v <= numVars; v++ {
		b.WriteString(" ")
		b.WriteString(itoa(v))
	}
	if splitAt == numVars {
		// Every variable landed in the universal block; still need an
		// existential block so the matrix has at least one live clause
		// literal to propagate without immediate universal contradiction.
		b.WriteString(" ")
		b.WriteString(itoa(numVars))
	}
	b.WriteString(" 0\n")

	for i := 0; i < numClauses; i++ {
		clauseLen := 1 + rng.Intn(3)
		for j := 0; j < clauseLen; j++ {
			v := 1 + rng.Intn(numVars)
			if rng.Intn(2) == 0 {
				v = -v
			}
			b.WriteString(itoa(v))
			b.WriteString(" ")
		}
		b.WriteString("0\n")
	}
	return b.String()
}

func itoa(v int) string {
	neg := v < 0
	if neg {
		v = -v
	}
	if v == 0 {
		return "0"
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// TestDPLLCDCLParity generates small random PCNF formulas and checks that
// DPLL and CDCL agree on every instance that does not time out, matching
// the property-based check over the core search procedures.
func TestDPLLCDCLParity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 40; i++ {
		src := randomPCNF(rng, 6, 8)

		dpllCfg := defaultOptions()
		cdclCfg := defaultOptions()
		cdclCfg.SolverType = config.CDCL

		dpllResult := solveDPLL(t, src, dpllCfg)
		cdclResult := solveCDCL(t, src, cdclCfg)

		if dpllResult == Timeout || cdclResult == Timeout {
			continue
		}
		if dpllResult != cdclResult {
			t.Errorf("instance %d: DPLL=%v CDCL=%v mismatch\n%s", i, dpllResult, cdclResult, src)
		}
	}
}

// TestDPLLCDCLParityVSSPreResolve repeats the random parity check with VSS
// literal selection and pre-resolution both enabled, so these two features
// are exercised against the same cross-driver agreement property on random
// instances, not only on TestScenarios' fixed ones.
func TestDPLLCDCLParityVSSPreResolve(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 40; i++ {
		src := randomPCNF(rng, 6, 8)

		dpllCfg := defaultOptions()
		dpllCfg.LiteralSelection = config.VSS
		dpllCfg.PreResolution = true
		dpllCfg.PreResolutionConfig = testResolutionConfig()

		cdclCfg := defaultOptions()
		cdclCfg.SolverType = config.CDCL
		cdclCfg.LiteralSelection = config.VSS
		cdclCfg.PreResolution = true
		cdclCfg.PreResolutionConfig = testResolutionConfig()

		dpllResult := solveDPLL(t, src, dpllCfg)
		cdclResult := solveCDCL(t, src, cdclCfg)

		if dpllResult == Timeout || cdclResult == Timeout {
			continue
		}
		if dpllResult != cdclResult {
			t.Errorf("instance %d: DPLL=%v CDCL=%v mismatch\n%s", i, dpllResult, cdclResult, src)
		}
	}
}
