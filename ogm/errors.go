package ogm

import "fmt"

// TypeNotFoundError is returned when a relationship's target type name does
// not resolve against the registry.
type TypeNotFoundError struct {
	Namespace string
	Name      string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("ogm: no entity type registered as %s.%s", e.Namespace, e.Name)
}

// TargetMismatchError is returned when Replace is handed an entity whose type
// is not the relationship's resolved target type. It is detected before any
// query executes.
type TargetMismatchError struct {
	Want *Type
	Got  *Type
}

func (e *TargetMismatchError) Error() string {
	got := "<nil>"
	if e.Got != nil {
		got = e.Got.key()
	}
	return fmt.Sprintf("ogm: replace target must be %s, got %s", e.Want.key(), got)
}

// MultipleMatchesError is returned when a single-relation fetch matches more
// than one row. The declared relationship is cardinality-one; more than one
// match means the graph data violates the model.
type MultipleMatchesError struct {
	SourceLabel string
	Pattern     string
	TargetLabel string
	Count       int
}

func (e *MultipleMatchesError) Error() string {
	return fmt.Sprintf("ogm: (%s)%s(%s) matched %d nodes, expected at most one",
		e.SourceLabel, e.Pattern, e.TargetLabel, e.Count)
}

// DetachedEntityError is returned when a handle operation needs the graph but
// its source or target entity is not bound to a node.
type DetachedEntityError struct {
	Type *Type
}

func (e *DetachedEntityError) Error() string {
	return fmt.Sprintf("ogm: entity of type %s is not bound to a graph node", e.Type.key())
}

// badRowError reports a row whose value under key is missing or not a node.
func badRowError(key string, value any) error {
	if value == nil {
		return fmt.Errorf("ogm: result row has no %q column", key)
	}
	return fmt.Errorf("ogm: result column %q holds %T, expected a node", key, value)
}
