// Package demo holds the example schema the cmd binaries run against: people
// who live in cities and head chains of steps. It doubles as a reference for
// mapping entity types onto the ogm package.
package demo

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"edgelink/graph"
	"edgelink/ogm"
)

// Person is a mapped Person node.
type Person struct {
	Key  string
	Name string
	ref  *ogm.NodeRef
}

func (p *Person) Metadata() *ogm.Type { return PersonType }
func (p *Person) Node() *ogm.NodeRef  { return p.ref }

// City is a mapped City node.
type City struct {
	Key  string
	Name string
	ref  *ogm.NodeRef
}

func (c *City) Metadata() *ogm.Type { return CityType }
func (c *City) Node() *ogm.NodeRef  { return c.ref }

// Step is one member of a person's step chain.
type Step struct {
	Key   string
	Title string
	ref   *ogm.NodeRef
}

func (s *Step) Metadata() *ogm.Type { return StepType }
func (s *Step) Node() *ogm.NodeRef  { return s.ref }

// PersonType, CityType and StepType are the registered type metadata. Wrap
// funcs are bound in init to avoid an initialization cycle with the entity
// methods that return these types.
var (
	PersonType = &ogm.Type{Namespace: "demo", Name: "Person", Label: "Person"}
	CityType   = &ogm.Type{Namespace: "demo", Name: "City", Label: "City"}
	StepType   = &ogm.Type{Namespace: "demo", Name: "Step", Label: "Step"}
)

// Relationship declarations. LivesIn is a single outgoing relation, Steps an
// outgoing chain; PreviousStep walks one NEXT edge backwards.
var (
	LivesIn      = ogm.RelatedTo("City", "LIVES_IN")
	Steps        = ogm.ChainTo("Step", "NEXT")
	PreviousStep = ogm.RelatedFrom("Step", "NEXT")
)

func init() {
	PersonType.Wrap = wrapPerson
	CityType.Wrap = wrapCity
	StepType.Wrap = wrapStep
	ogm.Register(PersonType)
	ogm.Register(CityType)
	ogm.Register(StepType)
}

func wrapPerson(node neo4j.Node, ref *ogm.NodeRef) (ogm.Entity, error) {
	return &Person{
		Key:  stringProp(node, "key"),
		Name: stringProp(node, "name"),
		ref:  ref,
	}, nil
}

func wrapCity(node neo4j.Node, ref *ogm.NodeRef) (ogm.Entity, error) {
	return &City{
		Key:  stringProp(node, "key"),
		Name: stringProp(node, "name"),
		ref:  ref,
	}, nil
}

func wrapStep(node neo4j.Node, ref *ogm.NodeRef) (ogm.Entity, error) {
	return &Step{
		Key:   stringProp(node, "key"),
		Title: stringProp(node, "title"),
		ref:   ref,
	}, nil
}

func stringProp(node neo4j.Node, key string) string {
	if v, ok := node.Props[key].(string); ok {
		return v
	}
	return ""
}

// LoadPerson looks a person up by key.
func LoadPerson(ctx context.Context, runner ogm.Runner, key string) (*Person, error) {
	node, err := loadByKey(ctx, runner, "Person", key)
	if err != nil {
		return nil, err
	}
	entity, err := PersonType.Wrap(node, &ogm.NodeRef{ID: node.Id, Runner: runner})
	if err != nil {
		return nil, err
	}
	return entity.(*Person), nil
}

// LoadCity looks a city up by key.
func LoadCity(ctx context.Context, runner ogm.Runner, key string) (*City, error) {
	node, err := loadByKey(ctx, runner, "City", key)
	if err != nil {
		return nil, err
	}
	entity, err := CityType.Wrap(node, &ogm.NodeRef{ID: node.Id, Runner: runner})
	if err != nil {
		return nil, err
	}
	return entity.(*City), nil
}

// NotFoundError reports a missing demo node.
type NotFoundError struct {
	Label string
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Label, e.Key)
}

func loadByKey(ctx context.Context, runner ogm.Runner, label, key string) (neo4j.Node, error) {
	query := fmt.Sprintf("MATCH (n:%s {key: $key}) RETURN n", graph.EscapeIdentifier(label))
	records, err := runner.Run(ctx, query, map[string]any{"key": key})
	if err != nil {
		return neo4j.Node{}, fmt.Errorf("failed to load %s: %w", label, err)
	}
	if len(records) == 0 {
		return neo4j.Node{}, &NotFoundError{Label: label, Key: key}
	}
	node, ok := graph.NodeValue(records[0], "n")
	if !ok {
		return neo4j.Node{}, fmt.Errorf("unexpected result loading %s %s", label, key)
	}
	return node, nil
}
