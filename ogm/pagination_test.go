package ogm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationZeroValueEmitsNothing(t *testing.T) {
	var p Pagination
	assert.Empty(t, p.SkipClause())
	assert.Empty(t, p.LimitClause())
	assert.Empty(t, p.clauses())
}

func TestPaginationClauses(t *testing.T) {
	var p Pagination
	p.Skip(2).Limit(3)
	assert.Equal(t, "SKIP 2", p.SkipClause())
	assert.Equal(t, "LIMIT 3", p.LimitClause())
	assert.Equal(t, "SKIP 2 LIMIT 3", p.clauses())
}

func TestPaginationSkipBeforeLimit(t *testing.T) {
	var p Pagination
	// Setting limit first must not change the emitted order.
	p.Limit(5).Skip(10)
	assert.Equal(t, "SKIP 10 LIMIT 5", p.clauses())
}

func TestPaginationFluent(t *testing.T) {
	var p Pagination
	assert.Same(t, &p, p.Skip(0))
	assert.Same(t, &p, p.Limit(0))
	assert.Equal(t, "SKIP 0 LIMIT 0", p.clauses())
}

func TestPaginationRejectsNegative(t *testing.T) {
	var p Pagination
	assert.Panics(t, func() { p.Skip(-1) })
	assert.Panics(t, func() { p.Limit(-1) })
}
