// Package ogm provides lazy relationship handles for entities mapped onto a
// Neo4j property graph.
//
// An entity type declares its relationships once, at package level, using the
// constructors in this package:
//
//	var LivesIn = ogm.RelatedTo("City", "LIVES_IN")
//	var Steps = ogm.ChainTo("Step", "NEXT")
//
// Binding a declaration to a loaded entity yields a handle, and every graph
// query happens through the handle on demand:
//
//	city, err := LivesIn.Of(person).Get(ctx)
//	err = LivesIn.Of(person).Replace(ctx, otherCity)
//
//	cur := Steps.Of(person).Skip(2).Limit(3).Iter()
//	for cur.Next(ctx) {
//		step := cur.Entity()
//	}
//	err = cur.Err()
//
// The package never loads related entities eagerly. A single-relation handle
// issues one query per fetch and caches the result for its own lifetime; a
// chain handle buffers the rows of one bounded query and drains them lazily.
// Node identities always travel as query parameters, labels and edge types
// are static type metadata escaped once at render time.
package ogm
