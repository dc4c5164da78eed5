package ogm

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// fakeRunner records every statement and replays canned results, one entry
// per expected call.
type fakeRunner struct {
	queries []string
	params  []map[string]any
	results [][]*neo4j.Record
	errs    []error
}

func (f *fakeRunner) Run(_ context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	call := len(f.queries)
	f.queries = append(f.queries, cypher)
	f.params = append(f.params, params)

	var err error
	if call < len(f.errs) {
		err = f.errs[call]
	}
	var records []*neo4j.Record
	if call < len(f.results) {
		records = f.results[call]
	}
	return records, err
}

func (f *fakeRunner) calls() int {
	return len(f.queries)
}

// testEntity is a minimal mapped entity for exercising handles.
type testEntity struct {
	typ  *Type
	ref  *NodeRef
	node neo4j.Node
}

func (e *testEntity) Metadata() *Type { return e.typ }
func (e *testEntity) Node() *NodeRef  { return e.ref }

func wrapAs(typ *Type) WrapFunc {
	return func(node neo4j.Node, ref *NodeRef) (Entity, error) {
		return &testEntity{typ: typ, ref: ref, node: node}, nil
	}
}

var (
	personType = &Type{Namespace: "ogmtest", Name: "Person", Label: "Person"}
	cityType   = &Type{Namespace: "ogmtest", Name: "City", Label: "City"}
	stepType   = &Type{Namespace: "ogmtest", Name: "Step", Label: "Step"}
)

func init() {
	personType.Wrap = wrapAs(personType)
	cityType.Wrap = wrapAs(cityType)
	stepType.Wrap = wrapAs(stepType)
	Register(personType)
	Register(cityType)
	Register(stepType)
}

// boundEntity builds an entity attached to a node with the given id.
func boundEntity(typ *Type, id int64, runner Runner) *testEntity {
	return &testEntity{
		typ:  typ,
		ref:  &NodeRef{ID: id, Runner: runner},
		node: neo4j.Node{Id: id, Labels: []string{typ.Label}},
	}
}

// nodeRow builds a one-column result row holding a node.
func nodeRow(key string, id int64, label string) *neo4j.Record {
	return &neo4j.Record{
		Keys: []string{key},
		Values: []any{neo4j.Node{
			Id:     id,
			Labels: []string{label},
			Props:  map[string]any{},
		}},
	}
}

// intRow builds a one-column result row holding an integer.
func intRow(key string, value int64) *neo4j.Record {
	return &neo4j.Record{Keys: []string{key}, Values: []any{value}}
}
