package ogm

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepRows(ids ...int64) []*neo4j.Record {
	rows := make([]*neo4j.Record, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, nodeRow("t", id, "Step"))
	}
	return rows
}

func chainIDs(t *testing.T, handle *ChainHandle) []int64 {
	t.Helper()
	entities, err := handle.All(context.Background())
	require.NoError(t, err)
	ids := make([]int64, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.Node().ID)
	}
	return ids
}

func TestChainIterationBuffersOneQuery(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{stepRows(1, 2, 3)}}
	source := boundEntity(personType, 7, runner)
	handle := ChainTo("Step", "NEXT").Of(source)

	cur := handle.Iter()
	ctx := context.Background()

	var ids []int64
	for cur.Next(ctx) {
		ids = append(ids, cur.Entity().Node().ID)
	}
	require.NoError(t, cur.Err())
	assert.Equal(t, []int64{1, 2, 3}, ids)

	// All rows arrive in the one buffered query.
	require.Equal(t, 1, runner.calls())
	assert.Equal(t,
		"MATCH (s:Person)-[:NEXT*]->(t:Step) WHERE id(s) = $s_id\nRETURN t",
		runner.queries[0])
	assert.Equal(t, map[string]any{"s_id": int64(7)}, runner.params[0])
}

func TestChainExhaustionIsTerminal(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{stepRows(1)}}
	source := boundEntity(personType, 7, runner)
	cur := ChainTo("Step", "NEXT").Of(source).Iter()
	ctx := context.Background()

	assert.True(t, cur.Next(ctx))
	assert.False(t, cur.Next(ctx))

	// No re-query after end-of-sequence, however often Next is called.
	assert.False(t, cur.Next(ctx))
	assert.False(t, cur.Next(ctx))
	require.NoError(t, cur.Err())
	assert.Equal(t, 1, runner.calls())
}

func TestChainEmpty(t *testing.T) {
	runner := &fakeRunner{}
	source := boundEntity(personType, 7, runner)
	cur := ChainTo("Step", "NEXT").Of(source).Iter()

	assert.False(t, cur.Next(context.Background()))
	require.NoError(t, cur.Err())
	assert.Equal(t, 1, runner.calls())
}

func TestChainRestartRepeatsSequence(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{
		stepRows(1, 2, 3),
		stepRows(1, 2, 3),
	}}
	source := boundEntity(personType, 7, runner)
	handle := ChainTo("Step", "NEXT").Of(source)

	first := chainIDs(t, handle)
	second := chainIDs(t, handle)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, runner.calls())
}

func TestChainWindowClauses(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{stepRows(3, 4, 5)}}
	source := boundEntity(personType, 7, runner)
	handle := ChainTo("Step", "NEXT").Of(source).Skip(2).Limit(3)

	ids := chainIDs(t, handle)
	assert.Equal(t, []int64{3, 4, 5}, ids)
	assert.Equal(t,
		"MATCH (s:Person)-[:NEXT*]->(t:Step) WHERE id(s) = $s_id\nRETURN t SKIP 2 LIMIT 3",
		runner.queries[0])
}

func TestChainCount(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{{intRow("total", 3)}}}
	source := boundEntity(personType, 7, runner)
	handle := ChainTo("Step", "NEXT").Of(source).Skip(2).Limit(3)

	total, err := handle.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	// Count passes the same window through, so it agrees with iteration.
	assert.Equal(t,
		"MATCH (s:Person)-[:NEXT*]->(t:Step) WHERE id(s) = $s_id\nWITH t SKIP 2 LIMIT 3\nRETURN COUNT(t) AS total",
		runner.queries[0])
	assert.Equal(t, map[string]any{"s_id": int64(7)}, runner.params[0])
}

func TestChainIncomingPattern(t *testing.T) {
	runner := &fakeRunner{results: [][]*neo4j.Record{{intRow("total", 0)}}}
	source := boundEntity(personType, 7, runner)
	handle := ChainFrom("Step", "NEXT").Of(source)

	_, err := handle.Count(context.Background())
	require.NoError(t, err)
	assert.Contains(t, runner.queries[0], "(s:Person)<-[:NEXT*]-(t:Step)")
}

func TestChainRunnerErrorSurfaces(t *testing.T) {
	boom := errors.New("connection reset")
	runner := &fakeRunner{errs: []error{boom}}
	source := boundEntity(personType, 7, runner)
	cur := ChainTo("Step", "NEXT").Of(source).Iter()

	assert.False(t, cur.Next(context.Background()))
	require.Error(t, cur.Err())
	assert.ErrorIs(t, cur.Err(), boom)

	// Errors are terminal too.
	assert.False(t, cur.Next(context.Background()))
	assert.Equal(t, 1, runner.calls())
}

func TestChainDetachedSource(t *testing.T) {
	handle := ChainTo("Step", "NEXT").Of(&testEntity{typ: personType})

	_, err := handle.Count(context.Background())
	var detached *DetachedEntityError
	require.ErrorAs(t, err, &detached)

	cur := handle.Iter()
	assert.False(t, cur.Next(context.Background()))
	require.ErrorAs(t, cur.Err(), &detached)
}

func TestChainString(t *testing.T) {
	source := boundEntity(personType, 7, nil)
	handle := ChainTo("Step", "NEXT").Of(source).Skip(2).Limit(3)
	assert.Equal(t, "(Person)-[:NEXT*]->(Step) SKIP 2 LIMIT 3", handle.String())
}

func TestChainTypeConstructors(t *testing.T) {
	source := boundEntity(personType, 7, nil)

	outgoing := ChainToType(stepType, "NEXT").Of(source)
	assert.Equal(t, "(Person)-[:NEXT*]->(Step)", outgoing.String())

	incoming := ChainFromType(stepType, "NEXT").Of(source)
	assert.Equal(t, "(Person)<-[:NEXT*]-(Step)", incoming.String())

	undirected := ChainOfType(stepType, "LINK").Of(source)
	assert.Equal(t, "(Person)-[:LINK*]-(Step)", undirected.String())
}
