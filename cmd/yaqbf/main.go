package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rhartert/yaqbf/internal/bench"
	"github.com/rhartert/yaqbf/internal/config"
	"github.com/rhartert/yaqbf/internal/qbf"
	"github.com/rhartert/yaqbf/internal/qdimacs"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagConfig = flag.String(
	"config",
	"",
	"path to a JSON solver configuration file",
)

var flagRatioSuite = flag.Bool(
	"ratio-suite",
	false,
	"in benchmark mode (RunBenchmark in the -config file), group results by Tacchella-style (qbf/var/cl) filename markers instead of reporting a flat instance list",
)

func parseConfig() (*config.Config, error) {
	flag.Parse()

	if *flagConfig != "" {
		return config.Load(*flagConfig)
	}

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file (or pass -config)")
	}
	return &config.Config{
		SolverOptions: config.SolverOptions{
			SolverType:          config.CDCL,
			LiteralSelection:    config.VSS,
			Preprocess:          true,
			UniversalReduction:  true,
			PureLiteralDeletion: true,
			Restarts:            true,
		},
		InstancePath: flag.Arg(0),
	}, nil
}

func solveSingleInstance(cfg *config.Config) error {
	inst, err := qdimacs.Parse(cfg.InstancePath)
	if err != nil {
		return fmt.Errorf("could not parse instance: %w", err)
	}

	stats := &qbf.Statistics{}
	dl := qbf.NewDeadline(qbf.SolveDeadline)

	fmt.Printf("c variables: %d\n", inst.NumVars)
	fmt.Printf("c clauses:   %d\n", inst.NumClauses)

	t := time.Now()

	var result qbf.Result
	if cfg.SolverOptions.SolverType == config.CDCL {
		cm := qbf.NewCDCLMatrix(inst, cfg.SolverOptions)
		if cfg.SolverOptions.Preprocess {
			qbf.PreprocessCDCL(cm, stats, dl)
		}
		if cfg.SolverOptions.PreResolution {
			qbf.PreResolve(cm.Core, &cm.OriginalClauses, cfg.SolverOptions.PreResolutionConfig, dl)
		}
		if cm.Core.CheckSolved() {
			if cm.Core.Clauses.ContainsEmptySet() {
				result = qbf.SAT
			} else {
				result = qbf.UNSAT
			}
		} else {
			_, _, result = qbf.CDCL(cm, nil, stats, dl)
		}
	} else {
		m := qbf.NewMatrix(inst, cfg.SolverOptions)
		if cfg.SolverOptions.Preprocess {
			qbf.PreprocessDPLL(m, stats, dl)
		}
		if cfg.SolverOptions.PreResolution {
			qbf.PreResolve(m, nil, cfg.SolverOptions.PreResolutionConfig, dl)
		}
		if m.CheckSolved() {
			if m.Clauses.ContainsEmptySet() {
				result = qbf.SAT
			} else {
				result = qbf.UNSAT
			}
		} else {
			result = qbf.DPLL(m, nil, stats, dl)
		}
	}

	elapsed := time.Since(t)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c propagations: %d\n", stats.PropagationCount)
	fmt.Printf("c backtracks:   %d\n", stats.BacktrackCount)
	fmt.Printf("c learned:      %d\n", stats.LearnedClauseCount)

	switch result {
	case qbf.SAT:
		fmt.Println("Satisfiable")
	case qbf.UNSAT:
		fmt.Println("Unsatisfiable")
	case qbf.Timeout:
		fmt.Println("Runtime has timed out: > 30 seconds.")
	case qbf.Restart:
		panic("qbf: solver returned Restart at the top level, which should never escape the search driver")
	}

	return nil
}

func run(cfg *config.Config) error {
	if cfg.RunBenchmark {
		outputName := cfg.OutputFileName
		if outputName == "" {
			outputName = "results.txt"
		}
		if *flagRatioSuite {
			return bench.RunRatioSuite(cfg.BenchmarkPath, cfg.SolverOptions, outputName)
		}
		return bench.RunDirectory(cfg.BenchmarkPath, cfg.SolverOptions, outputName)
	}
	return solveSingleInstance(cfg)
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if *flagCPUProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if *flagMemProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
