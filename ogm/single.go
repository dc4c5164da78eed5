package ogm

import (
	"context"
	"fmt"

	"edgelink/graph"
)

// Single declares, at the entity-type level, that each source entity has at
// most one related entity reachable through one typed edge. The declaration
// carries configuration only; call Of to obtain a queryable handle bound to
// a concrete entity.
type Single struct {
	spec Spec
}

// RelatedTo declares an outgoing single relation to the named target type.
// An empty edgeType matches any edge type.
func RelatedTo(target, edgeType string) *Single {
	return &Single{spec: newSpec(target, edgeType, Outgoing)}
}

// RelatedFrom declares an incoming single relation from the named target type.
func RelatedFrom(target, edgeType string) *Single {
	return &Single{spec: newSpec(target, edgeType, Incoming)}
}

// Related declares an undirected single relation to the named target type.
func Related(target, edgeType string) *Single {
	return &Single{spec: newSpec(target, edgeType, Undirected)}
}

// RelatedToType is RelatedTo with an already-resolved target type.
func RelatedToType(target *Type, edgeType string) *Single {
	return &Single{spec: newSpecOf(target, edgeType, Outgoing)}
}

// RelatedFromType is RelatedFrom with an already-resolved target type.
func RelatedFromType(target *Type, edgeType string) *Single {
	return &Single{spec: newSpecOf(target, edgeType, Incoming)}
}

// RelatedType is Related with an already-resolved target type.
func RelatedType(target *Type, edgeType string) *Single {
	return &Single{spec: newSpecOf(target, edgeType, Undirected)}
}

// Of binds the declaration to a source entity and returns a fresh handle.
// Handles are cheap; the fetched target is cached per handle, so retain the
// handle if repeated reads should not re-query.
func (d *Single) Of(source Entity) *SingleHandle {
	return &SingleHandle{spec: &d.spec, source: source}
}

// SingleHandle is a single relation bound to one source entity. It memoizes
// the fetch result (including a known-empty one) for its own lifetime, and
// Replace updates the cache synchronously, so a read after a replace never
// re-queries.
type SingleHandle struct {
	spec    *Spec
	source  Entity
	cached  Entity
	fetched bool
}

// Fetch queries the graph for the related entity, bypassing the cache, and
// memoizes what it finds. No related entity is (nil, nil); more than one
// match is a *MultipleMatchesError.
func (h *SingleHandle) Fetch(ctx context.Context) (Entity, error) {
	if err := h.spec.resolveTarget(h.source); err != nil {
		return nil, err
	}
	ref := h.source.Node()
	if ref == nil {
		return nil, &DetachedEntityError{Type: h.source.Metadata()}
	}

	query := fmt.Sprintf(
		"MATCH (n1) WHERE id(n1) = $n_id\nMATCH (n1)%s(n2:%s)\nRETURN n2",
		h.spec.pattern("r", ""), h.spec.targetLabel())
	records, err := ref.Runner.Run(ctx, query, map[string]any{"n_id": ref.ID})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", h, err)
	}
	if len(records) > 1 {
		return nil, &MultipleMatchesError{
			SourceLabel: h.source.Metadata().Label,
			Pattern:     h.spec.pattern("r", ""),
			TargetLabel: h.spec.target.Label,
			Count:       len(records),
		}
	}
	if len(records) == 0 {
		h.cached = nil
		h.fetched = true
		return nil, nil
	}

	node, err := nodeValue(records[0], "n2")
	if err != nil {
		return nil, err
	}
	target, err := h.spec.target.wrap(node, ref.Runner)
	if err != nil {
		return nil, fmt.Errorf("wrap %s node: %w", h.spec.target.Label, err)
	}
	h.cached = target
	h.fetched = true
	return target, nil
}

// Get returns the memoized target when one fetch (or a replace) has already
// happened on this handle, and fetches otherwise.
func (h *SingleHandle) Get(ctx context.Context) (Entity, error) {
	if h.fetched {
		return h.cached, nil
	}
	return h.Fetch(ctx)
}

// Replace deletes the existing matching edge from the source node, whatever
// target it pointed at, and creates a new one to target, in a single
// statement. The target must be of the relationship's resolved target type;
// afterwards the handle's cache holds exactly the new target.
func (h *SingleHandle) Replace(ctx context.Context, target Entity) error {
	if err := h.spec.resolveTarget(h.source); err != nil {
		return err
	}
	if target == nil || target.Metadata() != h.spec.target {
		var got *Type
		if target != nil {
			got = target.Metadata()
		}
		return &TargetMismatchError{Want: h.spec.target, Got: got}
	}
	source := h.source.Node()
	if source == nil {
		return &DetachedEntityError{Type: h.source.Metadata()}
	}
	dest := target.Node()
	if dest == nil {
		return &DetachedEntityError{Type: target.Metadata()}
	}

	// The prior edge is matched with an unbound target node: binding it to
	// n2 would only ever find an edge already pointing at the new target,
	// leaving an edge to a former one in place.
	query := fmt.Sprintf(
		"MATCH (n1) WHERE id(n1) = $n1_id\n"+
			"MATCH (n2) WHERE id(n2) = $n2_id\n"+
			"OPTIONAL MATCH (n1)%s(:%s)\n"+
			"FOREACH (i IN CASE r WHEN NULL THEN [] ELSE [1] END | DELETE r)\n"+
			"WITH n1, n2\n"+
			"CREATE (n1)%s(n2)\n"+
			"RETURN n2",
		h.spec.pattern("r", ""), h.spec.targetLabel(), h.spec.createPattern("r"))
	_, err := source.Runner.Run(ctx, query, map[string]any{
		"n1_id": source.ID,
		"n2_id": dest.ID,
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", h, err)
	}

	h.cached = target
	h.fetched = true
	return nil
}

// Exists reports whether a related entity exists, fetching if needed.
func (h *SingleHandle) Exists(ctx context.Context) (bool, error) {
	target, err := h.Get(ctx)
	if err != nil {
		return false, err
	}
	return target != nil, nil
}

// Len is 1 when a related entity exists, else 0.
func (h *SingleHandle) Len(ctx context.Context) (int, error) {
	exists, err := h.Exists(ctx)
	if err != nil {
		return 0, err
	}
	if exists {
		return 1, nil
	}
	return 0, nil
}

// String renders the relation diagnostically, e.g. (Person)-[r:LIVES_IN]->(City).
func (h *SingleHandle) String() string {
	target := h.spec.targetName
	if h.spec.target != nil {
		target = h.spec.target.Label
	}
	return fmt.Sprintf("(%s)%s(%s)",
		graph.EscapeIdentifier(h.source.Metadata().Label),
		h.spec.pattern("r", ""), target)
}
