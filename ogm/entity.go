package ogm

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner executes one parameterized Cypher statement against the graph and
// returns the collected result rows. It is the only contract this package
// requires from the graph client; *graph.Client satisfies it.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
}

// NodeRef ties a mapped entity to its node in a connected graph: the node's
// internal identity plus the connection the entity was loaded through. The
// connection is borrowed, never owned, by this package.
type NodeRef struct {
	ID     int64
	Runner Runner
}

// WrapFunc builds a mapped entity from a raw node returned by a query. The
// NodeRef carries the node's identity and the connection borrowed from the
// source entity the query ran through.
type WrapFunc func(node neo4j.Node, ref *NodeRef) (Entity, error)

// Type is the static metadata for one mapped entity type: where it lives in
// the registry, the primary node label, and how to wrap raw nodes.
type Type struct {
	Namespace string
	Name      string
	Label     string
	Wrap      WrapFunc
}

func (t *Type) key() string {
	return t.Namespace + "." + t.Name
}

// Entity is implemented by domain objects mapped one-to-one to graph nodes.
// Node returns nil while the entity is not bound to a node in a connected
// graph; relationship handles refuse to query detached entities.
type Entity interface {
	Metadata() *Type
	Node() *NodeRef
}

// wrap converts a raw node into a target entity, borrowing the connection
// from the source side of the traversal.
func (t *Type) wrap(node neo4j.Node, runner Runner) (Entity, error) {
	return t.Wrap(node, &NodeRef{ID: node.Id, Runner: runner})
}
