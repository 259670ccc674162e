// Package config loads the solver's JSON configuration file, mirroring the
// shape and "infinity"-sentinel numeric fields read by the Rust reference
// solver's parse_config module.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// SolverType selects the search procedure.
type SolverType int

const (
	DPLL SolverType = iota
	CDCL
)

func (s SolverType) String() string {
	if s == CDCL {
		return "CDCL"
	}
	return "DPLL"
}

// ParseSolverType parses the "DPLL"/"CDCL" strings used in config files,
// case-insensitively.
func ParseSolverType(s string) (SolverType, error) {
	switch strings.ToLower(s) {
	case "cdcl":
		return CDCL, nil
	case "dpll":
		return DPLL, nil
	default:
		return 0, fmt.Errorf("config: SolverType must be DPLL or CDCL, got %q", s)
	}
}

// LiteralSelection selects the decision-literal heuristic.
type LiteralSelection int

const (
	Ordered LiteralSelection = iota
	VSS
)

func (l LiteralSelection) String() string {
	if l == VSS {
		return "VSS"
	}
	return "Ordered"
}

// ParseLiteralSelection parses the "Ordered"/"VSS" strings used in config
// files, case-insensitively.
func ParseLiteralSelection(s string) (LiteralSelection, error) {
	switch strings.ToLower(s) {
	case "vss":
		return VSS, nil
	case "ordered":
		return Ordered, nil
	default:
		return 0, fmt.Errorf("config: LiteralSelection must be Ordered or VSS, got %q", s)
	}
}

// ResolutionConfig holds the hyperparameters bounding pre-resolution
// saturation. MinRatio/MaxRatio/MaxClauseLength/RepeatAbove accept the
// JSON string "infinity" (case-insensitive) in place of a number, meaning
// "no bound": this maps to math.MaxFloat32-scale/max-int sentinels exactly
// as the Rust reference's read_number_json_f32/usize helpers do.
type ResolutionConfig struct {
	MinRatio        float64
	MaxRatio        float64
	MaxClauseLength int
	RepeatAbove     int
	Iterations      int
}

const infinityFloat = math.MaxFloat32
const infinityInt = int(^uint(0) >> 1) // usize::MAX equivalent for our purposes

func (rc *ResolutionConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		MinRatio        json.RawMessage `json:"min_ratio"`
		MaxRatio        json.RawMessage `json:"max_ratio"`
		MaxClauseLength json.RawMessage `json:"max_clause_length"`
		RepeatAbove     json.RawMessage `json:"repeat_above"`
		Iterations      json.RawMessage `json:"iterations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: PreResolutionConfig: %w", err)
	}
	var err error
	if rc.MinRatio, err = parseFloatOrInfinity(raw.MinRatio); err != nil {
		return fmt.Errorf("config: min_ratio: %w", err)
	}
	if rc.MaxRatio, err = parseFloatOrInfinity(raw.MaxRatio); err != nil {
		return fmt.Errorf("config: max_ratio: %w", err)
	}
	if rc.MaxClauseLength, err = parseIntOrInfinity(raw.MaxClauseLength); err != nil {
		return fmt.Errorf("config: max_clause_length: %w", err)
	}
	if rc.RepeatAbove, err = parseIntOrInfinity(raw.RepeatAbove); err != nil {
		return fmt.Errorf("config: repeat_above: %w", err)
	}
	if len(raw.Iterations) == 0 {
		return fmt.Errorf("config: iterations: missing")
	}
	if err := json.Unmarshal(raw.Iterations, &rc.Iterations); err != nil {
		return fmt.Errorf("config: iterations must be an integer: %w", err)
	}
	return nil
}

func parseFloatOrInfinity(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.EqualFold(s, "infinity") {
			return infinityFloat, nil
		}
		return 0, fmt.Errorf("unrecognised string value %q", s)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, fmt.Errorf("must be a number or \"infinity\": %w", err)
	}
	return f, nil
}

func parseIntOrInfinity(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.EqualFold(s, "infinity") {
			return infinityInt, nil
		}
		return 0, fmt.Errorf("unrecognised string value %q", s)
	}
	var i int
	if err := json.Unmarshal(raw, &i); err != nil {
		return 0, fmt.Errorf("must be an integer or \"infinity\": %w", err)
	}
	return i, nil
}

// SolverOptions is the "SolverOptions" JSON object: the tunables that
// govern how the matrix is built and searched.
type SolverOptions struct {
	SolverType          SolverType
	LiteralSelection    LiteralSelection
	Preprocess          bool
	UniversalReduction  bool
	PureLiteralDeletion bool
	Restarts            bool
	PreResolution       bool
	PreResolutionConfig ResolutionConfig
}

func (o *SolverOptions) UnmarshalJSON(data []byte) error {
	var raw struct {
		SolverType          string           `json:"SolverType"`
		LiteralSelection    string           `json:"LiteralSelection"`
		Preprocess          *bool            `json:"Preprocess"`
		UniversalReduction  *bool            `json:"UniversalReduction"`
		PureLiteralDeletion *bool            `json:"PureLiteralDeletion"`
		Restarts            *bool            `json:"Restarts"`
		PreResolution       *bool            `json:"PreResolution"`
		PreResolutionConfig ResolutionConfig `json:"PreResolutionConfig"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: SolverOptions: %w", err)
	}
	st, err := ParseSolverType(raw.SolverType)
	if err != nil {
		return err
	}
	ls, err := ParseLiteralSelection(raw.LiteralSelection)
	if err != nil {
		return err
	}
	for name, v := range map[string]*bool{
		"Preprocess":          raw.Preprocess,
		"UniversalReduction":  raw.UniversalReduction,
		"PureLiteralDeletion": raw.PureLiteralDeletion,
		"Restarts":            raw.Restarts,
		"PreResolution":       raw.PreResolution,
	} {
		if v == nil {
			return fmt.Errorf("config: SolverOptions.%s: must be a boolean", name)
		}
	}
	o.SolverType = st
	o.LiteralSelection = ls
	o.Preprocess = *raw.Preprocess
	o.UniversalReduction = *raw.UniversalReduction
	o.PureLiteralDeletion = *raw.PureLiteralDeletion
	o.Restarts = *raw.Restarts
	o.PreResolution = *raw.PreResolution
	o.PreResolutionConfig = raw.PreResolutionConfig
	return nil
}

// Config is the top-level "config.json" document.
type Config struct {
	SolverOptions  SolverOptions
	RunBenchmark   bool
	InstancePath   string
	BenchmarkPath  string
	OutputFileName string
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var raw struct {
		SolverOptions  SolverOptions `json:"SolverOptions"`
		RunBenchmark   *bool         `json:"RunBenchmark"`
		InstancePath   string        `json:"InstancePath"`
		BenchmarkPath  string        `json:"BenchmarkPath"`
		OutputFileName string        `json:"OutputFileName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if raw.RunBenchmark == nil {
		return fmt.Errorf("config: RunBenchmark: must be a boolean")
	}
	c.SolverOptions = raw.SolverOptions
	c.RunBenchmark = *raw.RunBenchmark
	c.InstancePath = raw.InstancePath
	c.BenchmarkPath = raw.BenchmarkPath
	c.OutputFileName = raw.OutputFileName
	if c.RunBenchmark && c.BenchmarkPath == "" {
		return fmt.Errorf("config: BenchmarkPath is required when RunBenchmark is true")
	}
	if !c.RunBenchmark && c.InstancePath == "" {
		return fmt.Errorf("config: InstancePath is required when RunBenchmark is false")
	}
	return nil
}

// Path returns whichever of InstancePath/BenchmarkPath applies given
// RunBenchmark, matching the Rust reference's read_path helper.
func (c *Config) Path() string {
	if c.RunBenchmark {
		return c.BenchmarkPath
	}
	return c.InstancePath
}

// Load reads and parses a config.json file from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
