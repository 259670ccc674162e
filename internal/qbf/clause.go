package qbf

// Clause is one disjunction of the matrix, split into its existential and
// universal literals, each kept sorted in the order their variables appear
// in the quantifier prefix (outermost first). Removed marks a clause that
// has been satisfied (and so is logically dropped without being
// physically removed from the slice, to keep indices stable).
type Clause struct {
	EOrder  []Literal
	AOrder  []Literal
	Removed bool
}

// NewEmptyClause returns the canonical empty clause used as a sentinel
// return value where no clause is applicable (satisfiable/timeout results,
// and a fresh conflict clause that will be filled in by conflict analysis).
func NewEmptyClause() *Clause {
	return &Clause{}
}

// IsUnitClause reports whether the clause has exactly one live literal and
// returns it. A removed clause is never a unit clause.
func (c *Clause) IsUnitClause() (Literal, bool) {
	if c.Removed || len(c.EOrder)+len(c.AOrder) != 1 {
		return 0, false
	}
	if len(c.AOrder) == 0 {
		return c.EOrder[0], true
	}
	return c.AOrder[0], true
}

// LiteralList returns every literal in the clause, existentials first.
func (c *Clause) LiteralList() []Literal {
	out := make([]Literal, 0, len(c.EOrder)+len(c.AOrder))
	out = append(out, c.EOrder...)
	out = append(out, c.AOrder...)
	return out
}

// ReplaceALiterals overwrites the universal literals wholesale. Used to
// restore a clause's universal literals after speculative universal
// reduction is undone.
func (c *Clause) ReplaceALiterals(literals []Literal) {
	c.AOrder = literals
}

// RemoveALiterals deletes every occurrence of the given universal literals
// from the clause.
func (c *Clause) RemoveALiterals(literals []Literal) {
	remove := make(map[Literal]bool, len(literals))
	for _, l := range literals {
		remove[l] = true
	}
	c.AOrder = filterLiterals(c.AOrder, remove)
}

// RemoveALiteral deletes every occurrence of a single universal literal.
func (c *Clause) RemoveALiteral(literal Literal) {
	c.AOrder = filterLiterals(c.AOrder, map[Literal]bool{literal: true})
}

// RemoveELiteral deletes every occurrence of a single existential literal.
func (c *Clause) RemoveELiteral(literal Literal) {
	c.EOrder = filterLiterals(c.EOrder, map[Literal]bool{literal: true})
}

func filterLiterals(lits []Literal, remove map[Literal]bool) []Literal {
	out := lits[:0:0]
	for _, l := range lits {
		if !remove[l] {
			out = append(out, l)
		}
	}
	return out
}

// IsEmpty reports whether the clause has no literals left. A clause that
// has been marked Removed is never considered empty: it was satisfied, not
// falsified.
func (c *Clause) IsEmpty() bool {
	return len(c.EOrder) == 0 && len(c.AOrder) == 0 && !c.Removed
}

// Length returns the number of literals currently in the clause.
func (c *Clause) Length() int {
	return len(c.EOrder) + len(c.AOrder)
}

// Clone returns a deep copy of the clause.
func (c *Clause) Clone() *Clause {
	return &Clause{
		EOrder:  append([]Literal(nil), c.EOrder...),
		AOrder:  append([]Literal(nil), c.AOrder...),
		Removed: c.Removed,
	}
}
