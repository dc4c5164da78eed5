package ogm

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"edgelink/graph"
)

// Chain declares that each source entity heads an ordered chain of target
// entities reachable over a variable-length path of one edge type. Call Of
// to obtain a handle bound to a concrete entity.
type Chain struct {
	spec Spec
}

// ChainTo declares an outgoing chain relation to the named target type.
func ChainTo(target, edgeType string) *Chain {
	return &Chain{spec: newSpec(target, edgeType, Outgoing)}
}

// ChainFrom declares an incoming chain relation from the named target type.
func ChainFrom(target, edgeType string) *Chain {
	return &Chain{spec: newSpec(target, edgeType, Incoming)}
}

// ChainOf declares an undirected chain relation to the named target type.
func ChainOf(target, edgeType string) *Chain {
	return &Chain{spec: newSpec(target, edgeType, Undirected)}
}

// ChainToType is ChainTo with an already-resolved target type.
func ChainToType(target *Type, edgeType string) *Chain {
	return &Chain{spec: newSpecOf(target, edgeType, Outgoing)}
}

// ChainFromType is ChainFrom with an already-resolved target type.
func ChainFromType(target *Type, edgeType string) *Chain {
	return &Chain{spec: newSpecOf(target, edgeType, Incoming)}
}

// ChainOfType is ChainOf with an already-resolved target type.
func ChainOfType(target *Type, edgeType string) *Chain {
	return &Chain{spec: newSpecOf(target, edgeType, Undirected)}
}

// Of binds the declaration to a source entity and returns a fresh handle
// with no pagination bounds set.
func (d *Chain) Of(source Entity) *ChainHandle {
	return &ChainHandle{spec: &d.spec, source: source}
}

// ChainHandle is a chain relation bound to one source entity, carrying its
// own pagination bounds. Count and iteration share the same skip/limit
// clauses, so "how many" always agrees with "what".
type ChainHandle struct {
	spec   *Spec
	source Entity
	page   Pagination
}

// Skip passes over the first n chain members. Fluent.
func (h *ChainHandle) Skip(n int) *ChainHandle {
	h.page.Skip(n)
	return h
}

// Limit caps the number of chain members returned. Fluent.
func (h *ChainHandle) Limit(n int) *ChainHandle {
	h.page.Limit(n)
	return h
}

// Pagination exposes the handle's bounds for clause rendering.
func (h *ChainHandle) Pagination() *Pagination {
	return &h.page
}

// Count returns the number of chain members inside the configured window.
func (h *ChainHandle) Count(ctx context.Context) (int64, error) {
	head, ref, err := h.prepare()
	if err != nil {
		return 0, err
	}
	query := head + "WITH t" + h.windowSuffix() + "\nRETURN COUNT(t) AS total"
	records, err := ref.Runner.Run(ctx, query, map[string]any{"s_id": ref.ID})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", h, err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("count %s: empty result", h)
	}
	return graph.Int64Value(records[0], "total"), nil
}

// Iter starts a fresh traversal of the chain, discarding any earlier cursor.
// The cursor fetches once, on its first Next, buffering every row of the
// bounded query; a second Iter is the only way to re-query.
func (h *ChainHandle) Iter() *ChainCursor {
	return &ChainCursor{handle: h}
}

// All drains a fresh cursor into a slice.
func (h *ChainHandle) All(ctx context.Context) ([]Entity, error) {
	cur := h.Iter()
	var out []Entity
	for cur.Next(ctx) {
		out = append(out, cur.Entity())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// prepare resolves the target and renders the variable-length match clause
// shared by Count and iteration.
func (h *ChainHandle) prepare() (string, *NodeRef, error) {
	if err := h.spec.resolveTarget(h.source); err != nil {
		return "", nil, err
	}
	ref := h.source.Node()
	if ref == nil {
		return "", nil, &DetachedEntityError{Type: h.source.Metadata()}
	}
	head := fmt.Sprintf("MATCH (s:%s)%s(t:%s) WHERE id(s) = $s_id\n",
		graph.EscapeIdentifier(h.source.Metadata().Label),
		h.spec.pattern("", "*"),
		h.spec.targetLabel())
	return head, ref, nil
}

// windowSuffix is " SKIP s LIMIT l" with unset parts dropped.
func (h *ChainHandle) windowSuffix() string {
	if clauses := h.page.clauses(); clauses != "" {
		return " " + clauses
	}
	return ""
}

// fetch runs the chain query once and returns the raw target nodes in
// arrival order.
func (h *ChainHandle) fetch(ctx context.Context) ([]neo4j.Node, error) {
	head, ref, err := h.prepare()
	if err != nil {
		return nil, err
	}
	query := head + "RETURN t" + h.windowSuffix()
	records, err := ref.Runner.Run(ctx, query, map[string]any{"s_id": ref.ID})
	if err != nil {
		return nil, fmt.Errorf("iterate %s: %w", h, err)
	}
	nodes := make([]neo4j.Node, 0, len(records))
	for _, record := range records {
		node, err := nodeValue(record, "t")
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// String renders the relation diagnostically, e.g.
// (Person)-[:NEXT*]->(Step) SKIP 2 LIMIT 3.
func (h *ChainHandle) String() string {
	target := h.spec.targetName
	if h.spec.target != nil {
		target = h.spec.target.Label
	}
	return fmt.Sprintf("(%s)%s(%s)",
		graph.EscapeIdentifier(h.source.Metadata().Label),
		h.spec.pattern("", "*"), target) + h.windowSuffix()
}

type cursorState int

const (
	cursorFresh cursorState = iota
	cursorBuffering
	cursorExhausted
)

// ChainCursor walks one traversal of a chain. Exhaustion is terminal: once
// Next has returned false, every later Next returns false too, and only a
// new cursor from ChainHandle.Iter queries again.
type ChainCursor struct {
	handle  *ChainHandle
	state   cursorState
	queue   []neo4j.Node
	current Entity
	err     error
}

// Next advances to the next chain member, fetching the whole bounded window
// on its first call. It returns false at the end of the chain or on error;
// check Err after the loop.
func (c *ChainCursor) Next(ctx context.Context) bool {
	if c.err != nil || c.state == cursorExhausted {
		return false
	}
	if c.state == cursorFresh {
		queue, err := c.handle.fetch(ctx)
		if err != nil {
			c.err = err
			c.state = cursorExhausted
			return false
		}
		c.queue = queue
		c.state = cursorBuffering
	}
	if len(c.queue) == 0 {
		c.state = cursorExhausted
		return false
	}
	node := c.queue[0]
	c.queue = c.queue[1:]
	entity, err := c.handle.spec.target.wrap(node, c.handle.source.Node().Runner)
	if err != nil {
		c.err = fmt.Errorf("wrap %s node: %w", c.handle.spec.target.Label, err)
		c.state = cursorExhausted
		return false
	}
	c.current = entity
	return true
}

// Entity returns the chain member the last successful Next advanced to.
func (c *ChainCursor) Entity() Entity {
	return c.current
}

// Err returns the first error the cursor hit, if any.
func (c *ChainCursor) Err() error {
	return c.err
}
