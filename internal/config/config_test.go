package config

import (
	"encoding/json"
	"testing"
)

const sampleConfig = `{
	"SolverOptions": {
		"SolverType": "cdcl",
		"LiteralSelection": "vss",
		"Preprocess": true,
		"UniversalReduction": true,
		"PureLiteralDeletion": true,
		"Restarts": true,
		"PreResolution": true,
		"PreResolutionConfig": {
			"min_ratio": 1.0,
			"max_ratio": "infinity",
			"max_clause_length": 10,
			"repeat_above": "infinity",
			"iterations": 2
		}
	},
	"RunBenchmark": false,
	"InstancePath": "testdata/example.qdimacs",
	"BenchmarkPath": "",
	"OutputFileName": "out"
}`

func TestConfigUnmarshal(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(sampleConfig), &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.SolverOptions.SolverType != CDCL {
		t.Errorf("SolverType = %v, want CDCL", cfg.SolverOptions.SolverType)
	}
	if cfg.SolverOptions.LiteralSelection != VSS {
		t.Errorf("LiteralSelection = %v, want VSS", cfg.SolverOptions.LiteralSelection)
	}
	rc := cfg.SolverOptions.PreResolutionConfig
	if rc.MaxRatio != infinityFloat {
		t.Errorf("MaxRatio = %v, want infinity sentinel", rc.MaxRatio)
	}
	if rc.RepeatAbove != infinityInt {
		t.Errorf("RepeatAbove = %v, want infinity sentinel", rc.RepeatAbove)
	}
	if rc.Iterations != 2 {
		t.Errorf("Iterations = %v, want 2", rc.Iterations)
	}
	if cfg.Path() != "testdata/example.qdimacs" {
		t.Errorf("Path() = %q, want InstancePath", cfg.Path())
	}
}

func TestConfigRequiresBenchmarkPath(t *testing.T) {
	bad := `{"SolverOptions":{"SolverType":"dpll","LiteralSelection":"ordered","Preprocess":false,"UniversalReduction":false,"PureLiteralDeletion":false,"Restarts":false,"PreResolution":false,"PreResolutionConfig":{"min_ratio":0,"max_ratio":0,"max_clause_length":0,"repeat_above":0,"iterations":0}},"RunBenchmark":true,"OutputFileName":"out"}`
	var cfg Config
	if err := json.Unmarshal([]byte(bad), &cfg); err == nil {
		t.Fatal("expected error when RunBenchmark is true but BenchmarkPath is empty")
	}
}
