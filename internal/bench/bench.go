package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rhartert/yaqbf/internal/config"
	"github.com/rhartert/yaqbf/internal/qbf"
	"github.com/rhartert/yaqbf/internal/qdimacs"
)

// solveInstance parses and solves a single QDIMACS file under cfg, applying
// preprocessing and pre-resolution per cfg's flags, and dispatching to DPLL
// or CDCL per cfg.SolverType.
//
// Grounded on cdcl/bench.rs's per-instance body of run_bench_group.
func solveInstance(path string, cfg config.SolverOptions) (qbf.Result, qbf.Statistics, error) {
	inst, err := qdimacs.Parse(path)
	if err != nil {
		return 0, qbf.Statistics{}, err
	}
	stats := &qbf.Statistics{}
	dl := qbf.NewDeadline(qbf.SolveDeadline)

	if cfg.SolverType == config.CDCL {
		cm := qbf.NewCDCLMatrix(inst, cfg)
		if cfg.Preprocess {
			qbf.PreprocessCDCL(cm, stats, dl)
		}
		if cfg.PreResolution {
			qbf.PreResolve(cm.Core, &cm.OriginalClauses, cfg.PreResolutionConfig, dl)
		}
		if cm.Core.CheckSolved() {
			if cm.Core.Clauses.ContainsEmptySet() {
				return qbf.SAT, *stats, nil
			}
			return qbf.UNSAT, *stats, nil
		}
		_, _, result := qbf.CDCL(cm, nil, stats, dl)
		return result, *stats, nil
	}

	m := qbf.NewMatrix(inst, cfg)
	if cfg.Preprocess {
		qbf.PreprocessDPLL(m, stats, dl)
	}
	if cfg.PreResolution {
		qbf.PreResolve(m, nil, cfg.PreResolutionConfig, dl)
	}
	if m.CheckSolved() {
		if m.Clauses.ContainsEmptySet() {
			return qbf.SAT, *stats, nil
		}
		return qbf.UNSAT, *stats, nil
	}
	result := qbf.DPLL(m, nil, stats, dl)
	return result, *stats, nil
}

type instanceRecord struct {
	elapsed time.Duration
	stats   qbf.Statistics
	result  qbf.Result
}

// RunDirectory solves every QDIMACS instance in dir under cfg, writes a
// summary report to "output-"+outputName, and returns any error
// encountered reading the directory or solving an instance.
//
// Grounded on cdcl/bench.rs's run_bench_group.
func RunDirectory(dir string, cfg config.SolverOptions, outputName string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("bench: read directory: %w", err)
	}

	records := make(map[string]instanceRecord)
	var names []string

	var total, sat, unsat, timeout int
	start := time.Now()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		name := filepath.Base(path)

		instStart := time.Now()
		result, stats, err := solveInstance(path, cfg)
		if err != nil {
			return fmt.Errorf("bench: solving %s: %w", name, err)
		}
		elapsed := time.Since(instStart)

		records[name] = instanceRecord{elapsed: elapsed, stats: stats, result: result}
		names = append(names, name)
		total++
		switch result {
		case qbf.SAT:
			sat++
		case qbf.UNSAT:
			unsat++
		case qbf.Timeout:
			timeout++
		case qbf.Restart:
			return fmt.Errorf("bench: solver returned Restart at top level for %s, which should never escape the search driver", name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s ---\n", cfg.SolverType)
	fmt.Fprintf(&b, "CONFIG: [Literal Selection: %s, Pre-Resolution: %t, Preprocess: %t, Universal Reduction: %t, Pure Literal Deletion: %t]",
		cfg.LiteralSelection, cfg.PreResolution, cfg.Preprocess, cfg.UniversalReduction, cfg.PureLiteralDeletion)
	if cfg.PreResolution {
		rc := cfg.PreResolutionConfig
		fmt.Fprintf(&b, "\nPre-Resolution Config: [min_ratio: %v, max_ratio: %v, max_clause_length: %d, repeat_above: %d, iterations: %d]",
			rc.MinRatio, rc.MaxRatio, rc.MaxClauseLength, rc.RepeatAbove, rc.Iterations)
	}
	fmt.Fprintf(&b, "\n--------------------------------------------------------------\nTotal: %d, Sat: %d, Unsat: %d, Timeout: %d\nComplete time: %s",
		total, sat, unsat, timeout, time.Since(start))
	for _, name := range names {
		r := records[name]
		fmt.Fprintf(&b, "\nInstance: %s -- Runtime: %s -- Result: %s -- Propagations: %d, Backtracks: %d, Learned Clauses: %d",
			name, r.elapsed, r.result, r.stats.PropagationCount, r.stats.BacktrackCount, r.stats.LearnedClauseCount)
	}

	return os.WriteFile("output-"+outputName, []byte(b.String()), 0o644)
}

var (
	tacchellaSetupPattern  = regexp.MustCompile(`\d+qbf|\d+var|\d+cl`)
	tacchellaNumberPattern = regexp.MustCompile(`\d+`)
)

// tacchellaSetup holds the (quantifier alternations, variables, clauses)
// triple encoded in a Tacchella-style benchmark filename.
//
// Grounded on util.rs's read_clause_variable_data.
type tacchellaSetup struct {
	alternations int
	variables    int
	clauses      int
}

func parseTacchellaSetup(path string) (tacchellaSetup, error) {
	matches := tacchellaSetupPattern.FindAllString(path, -1)
	if len(matches) < 3 {
		return tacchellaSetup{}, fmt.Errorf("bench: could not find qbf/var/cl markers in %q", path)
	}
	var values [3]int
	for i, m := range matches[:3] {
		n, err := strconv.Atoi(tacchellaNumberPattern.FindString(m))
		if err != nil {
			return tacchellaSetup{}, fmt.Errorf("bench: parsing %q: %w", m, err)
		}
		values[i] = n
	}
	return tacchellaSetup{alternations: values[0], variables: values[1], clauses: values[2]}, nil
}

// ratioGroupDecay is the smoothing factor applied by smoothedGroupTime: it
// favors instances found later in a Tacchella group's directory listing,
// since filenames in these suites are conventionally numbered in ascending
// order of difficulty within a fixed (vars, clauses) ratio.
const ratioGroupDecay = 0.7

// smoothedGroupTime folds a group's per-instance solve times into a single
// exponentially-weighted duration, so one pathological outlier doesn't
// dominate the reported trend the way a plain mean would. Unlike a
// stateful running accumulator, it is a pure function over the group's full
// time slice: RunRatioSuite already holds every instance's duration before
// it needs a trend line, so there's nothing to maintain incrementally.
//
// Grounded on cdcl/bench.rs's reporting pass, which folds the teacher's
// sat/avg.go exponential-decay idea into a ratio-group solve-time trend.
func smoothedGroupTime(times []time.Duration) time.Duration {
	if len(times) == 0 {
		return 0
	}
	trend := times[0].Seconds()
	for _, d := range times[1:] {
		trend = ratioGroupDecay*trend + d.Seconds()*(1-ratioGroupDecay)
	}
	return time.Duration(trend * float64(time.Second))
}

// RunRatioSuite runs every instance in dir under cfg, grouping results by
// the (quantifier alternations, variables, clauses) triple encoded in each
// Tacchella-style filename, and writes a report of per-group summed time
// and smoothed trend (smoothedGroupTime), and per-(variables, clauses)
// combined time, to "output-"+outputName.
//
// Grounded on cdcl/bench.rs's run_clause_variable_ratio_instances.
func RunRatioSuite(dir string, cfg config.SolverOptions, outputName string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("bench: read directory: %w", err)
	}

	type groupKey struct {
		alternations, variables, clauses int
	}
	groupTimes := make(map[groupKey][]time.Duration)
	var groupOrder []groupKey

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		setup, err := parseTacchellaSetup(path)
		if err != nil {
			return err
		}

		instStart := time.Now()
		result, _, err := solveInstance(path, cfg)
		if err != nil {
			return fmt.Errorf("bench: solving %s: %w", entry.Name(), err)
		}
		elapsed := time.Since(instStart)

		if result == qbf.Restart {
			return fmt.Errorf("bench: solver returned Restart at top level for %s", entry.Name())
		}
		key := groupKey{setup.alternations, setup.variables, setup.clauses}
		if _, ok := groupTimes[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groupTimes[key] = append(groupTimes[key], elapsed)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "------ %s ------\n(<quantifier alternation number>, <variable number>, <clause number>): total=<summed time> trend=<smoothed time>", cfg.SolverType)

	type ratioKey struct{ variables, clauses int }
	ratioTotals := make(map[ratioKey]time.Duration)
	var ratioOrder []ratioKey

	for _, key := range groupOrder {
		times := groupTimes[key]
		var sum time.Duration
		for _, d := range times {
			sum += d
		}
		trend := smoothedGroupTime(times)
		fmt.Fprintf(&b, "\n(%dqbf, %dvar, %dcl): total=%s trend=%.6fs", key.alternations, key.variables, key.clauses, sum, trend.Seconds())

		rk := ratioKey{key.variables, key.clauses}
		if _, ok := ratioTotals[rk]; !ok {
			ratioOrder = append(ratioOrder, rk)
		}
		ratioTotals[rk] += sum
	}

	fmt.Fprintf(&b, "\n(<Clause-variable values>) -> Combined time")
	for _, rk := range ratioOrder {
		fmt.Fprintf(&b, "\nSums: (%d, %d) -> %s", rk.variables, rk.clauses, ratioTotals[rk])
	}

	return os.WriteFile("output-"+outputName, []byte(b.String()), 0o644)
}
