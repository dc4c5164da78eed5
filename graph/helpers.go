package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Int64Value reads an integer column from a record, defaulting to 0.
func Int64Value(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

// StringValue reads a string column from a record, defaulting to "".
func StringValue(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// NodeValue reads a node column from a record.
func NodeValue(record *neo4j.Record, key string) (neo4j.Node, bool) {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return neo4j.Node{}, false
	}
	node, ok := val.(neo4j.Node)
	return node, ok
}
