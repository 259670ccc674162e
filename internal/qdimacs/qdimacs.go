// Package qdimacs parses the QDIMACS file format extended with the
// quantifier-block ('e'/'a') prefix lines QBF instances add on top of
// plain DIMACS CNF.
package qdimacs

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Block is one contiguous run of same-kind quantified variables, e.g. the
// line "e 1 2 3 0" or "a 4 5 0".
type Block struct {
	Existential bool
	Vars        []int
}

// Instance is the in-memory form of a parsed QDIMACS file: the declared
// variable/clause counts, the quantifier prefix as a sequence of blocks,
// and the clause matrix itself as plain signed-literal slices.
type Instance struct {
	NumVars    int
	NumClauses int
	Blocks     []Block
	Clauses    [][]int
}

// Parse reads a QDIMACS instance from filename. Files whose name ends in
// ".gz" are transparently gzip-decompressed, mirroring the gzip support in
// rhartert/yass's internal/dimacs loader.
func Parse(filename string) (*Instance, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("qdimacs: open %s: %w", filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("qdimacs: gzip %s: %w", filename, err)
		}
		defer gz.Close()
		r = gz
	}
	inst, err := ParseReader(r)
	if err != nil {
		return nil, fmt.Errorf("qdimacs: %s: %w", filename, err)
	}
	return inst, nil
}

// ParseReader reads a QDIMACS instance from r.
func ParseReader(r io.Reader) (*Instance, error) {
	inst := &Instance{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	litBuf := make([]int, 0, 64)
	clauseCount := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "c":
			continue
		case "p":
			if err := parseHeader(fields, inst); err != nil {
				return nil, err
			}
		case "e", "a":
			isExistential := fields[0] == "e"
			vars := make([]int, 0, len(fields)-2)
			for _, tok := range fields[1:] {
				v, err := strconv.Atoi(tok)
				if err != nil {
					return nil, fmt.Errorf("qdimacs: bad quantifier token %q: %w", tok, err)
				}
				if v == 0 {
					break
				}
				vars = append(vars, v)
			}
			inst.Blocks = append(inst.Blocks, Block{Existential: isExistential, Vars: vars})
		default:
			litBuf = litBuf[:0]
			for _, tok := range fields {
				lit, err := strconv.Atoi(tok)
				if err != nil {
					return nil, fmt.Errorf("qdimacs: bad literal token %q: %w", tok, err)
				}
				if lit == 0 {
					break
				}
				litBuf = append(litBuf, lit)
			}
			clause := append([]int(nil), litBuf...)
			inst.Clauses = append(inst.Clauses, clause)
			clauseCount++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("qdimacs: scan: %w", err)
	}
	return inst, nil
}

func parseHeader(fields []string, inst *Instance) error {
	// "p cnf <numVars> <numClauses>"
	if len(fields) < 4 || fields[1] != "cnf" {
		return fmt.Errorf("qdimacs: malformed header line %q", strings.Join(fields, " "))
	}
	nv, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("qdimacs: bad variable count: %w", err)
	}
	nc, err := strconv.Atoi(fields[3])
	if err != nil {
		return fmt.Errorf("qdimacs: bad clause count: %w", err)
	}
	inst.NumVars = nv
	inst.NumClauses = nc
	return nil
}
