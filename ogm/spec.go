package ogm

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"edgelink/graph"
)

// Direction fixes which way a declared relationship's edge points relative to
// the source entity.
type Direction int

const (
	Undirected Direction = 0
	Outgoing   Direction = 1
	Incoming   Direction = -1
)

// Spec is the configuration shared by every handle of one relationship
// declaration: the target type (possibly a name resolved lazily), the
// optional edge type, and the fixed direction. It is immutable once the
// target has resolved.
type Spec struct {
	targetName string
	target     *Type
	edgeType   string
	direction  Direction
	registry   *Registry
}

func newSpec(targetName, edgeType string, direction Direction) Spec {
	return Spec{
		targetName: targetName,
		edgeType:   edgeType,
		direction:  direction,
		registry:   DefaultRegistry,
	}
}

func newSpecOf(target *Type, edgeType string, direction Direction) Spec {
	return Spec{
		target:    target,
		edgeType:  edgeType,
		direction: direction,
		registry:  DefaultRegistry,
	}
}

// resolveTarget binds the target type. A bare name defaults to the source
// entity's own namespace. Idempotent: once resolved the cached type is kept
// and the name is never looked up again.
func (s *Spec) resolveTarget(source Entity) error {
	if s.target != nil {
		return nil
	}
	namespace, name := splitTypeName(s.targetName)
	if namespace == "" {
		namespace = source.Metadata().Namespace
	}
	t := s.registry.Lookup(namespace, name)
	if t == nil {
		return &TypeNotFoundError{Namespace: namespace, Name: name}
	}
	s.target = t
	return nil
}

// pattern renders the edge fragment for this spec: -[r:KNOWS]->, <-[r:KNOWS]-
// or -[r:KNOWS]- depending on direction. pathLength goes inside the brackets
// and supports variable-length traversals ("*").
func (s *Spec) pattern(varName, pathLength string) string {
	inner := varName
	if s.edgeType != "" {
		inner += ":" + graph.EscapeIdentifier(s.edgeType)
	}
	inner += pathLength
	switch s.direction {
	case Outgoing:
		return "-[" + inner + "]->"
	case Incoming:
		return "<-[" + inner + "]-"
	default:
		return "-[" + inner + "]-"
	}
}

// createPattern is the fragment used in a CREATE clause. Cypher cannot create
// an undirected edge, so an undirected declaration creates outgoing.
func (s *Spec) createPattern(varName string) string {
	if s.direction == Undirected {
		out := *s
		out.direction = Outgoing
		return out.pattern(varName, "")
	}
	return s.pattern(varName, "")
}

// targetLabel is only valid after resolveTarget succeeded.
func (s *Spec) targetLabel() string {
	return graph.EscapeIdentifier(s.target.Label)
}

// nodeValue extracts the node stored under key in a result row.
func nodeValue(record *neo4j.Record, key string) (neo4j.Node, error) {
	value, ok := record.Get(key)
	if !ok {
		return neo4j.Node{}, badRowError(key, nil)
	}
	node, ok := value.(neo4j.Node)
	if !ok {
		return neo4j.Node{}, badRowError(key, value)
	}
	return node, nil
}
