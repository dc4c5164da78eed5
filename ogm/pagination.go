package ogm

import (
	"fmt"
	"strings"
)

// Pagination holds optional SKIP and LIMIT bounds for a query. The zero value
// emits no clauses. Both setters are fluent and reject negative input; the
// skip clause is always emitted before the limit clause.
type Pagination struct {
	skip     int
	limit    int
	hasSkip  bool
	hasLimit bool
}

// Skip sets the number of rows to pass over before the first returned one.
func (p *Pagination) Skip(n int) *Pagination {
	if n < 0 {
		panic(fmt.Sprintf("ogm: skip must be non-negative, got %d", n))
	}
	p.skip = n
	p.hasSkip = true
	return p
}

// Limit caps the number of rows returned.
func (p *Pagination) Limit(n int) *Pagination {
	if n < 0 {
		panic(fmt.Sprintf("ogm: limit must be non-negative, got %d", n))
	}
	p.limit = n
	p.hasLimit = true
	return p
}

// SkipClause renders "SKIP n", or "" when no skip is set.
func (p *Pagination) SkipClause() string {
	if !p.hasSkip {
		return ""
	}
	return fmt.Sprintf("SKIP %d", p.skip)
}

// LimitClause renders "LIMIT n", or "" when no limit is set.
func (p *Pagination) LimitClause() string {
	if !p.hasLimit {
		return ""
	}
	return fmt.Sprintf("LIMIT %d", p.limit)
}

// clauses joins the skip and limit clauses, skip first, dropping empties.
func (p *Pagination) clauses() string {
	parts := make([]string, 0, 2)
	if c := p.SkipClause(); c != "" {
		parts = append(parts, c)
	}
	if c := p.LimitClause(); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, " ")
}
