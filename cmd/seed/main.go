package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"edgelink/graph"
	"edgelink/internal/demo"
	"edgelink/pkg/config"
	"edgelink/pkg/logger"
)

func main() {
	steps := flag.Int("steps", 10, "Length of the step chain to create")
	personName := flag.String("person", "Ada", "Name of the demo person")
	reset := flag.Bool("reset", false, "Delete existing demo data first")
	flag.Parse()

	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Seeding demo graph...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	client, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer client.Close(context.Background())

	if *reset {
		log.Info("Deleting existing demo data...")
		for _, label := range []string{"Person", "City", "Step"} {
			if _, err := client.Run(ctx, fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", label), nil); err != nil {
				log.Fatal("Failed to delete nodes", zap.String("label", label), zap.Error(err))
			}
		}
	}

	log.Info("Creating constraints...")
	if err := createConstraints(ctx, client); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	personKey := uuid.NewString()
	if _, err := client.Run(ctx,
		"MERGE (p:Person {name: $name}) ON CREATE SET p.key = $key RETURN p",
		map[string]any{"name": *personName, "key": personKey}); err != nil {
		log.Fatal("Failed to create person", zap.Error(err))
	}

	for _, city := range []string{"London", "Paris"} {
		if _, err := client.Run(ctx,
			"MERGE (c:City {name: $name}) ON CREATE SET c.key = $key RETURN c",
			map[string]any{"name": city, "key": uuid.NewString()}); err != nil {
			log.Fatal("Failed to create city", zap.String("city", city), zap.Error(err))
		}
	}

	log.Info("Creating step chain", zap.Int("steps", *steps))
	if err := createChain(ctx, client, *personName, *steps); err != nil {
		log.Fatal("Failed to create step chain", zap.Error(err))
	}

	person, err := demo.LoadPerson(ctx, client, keyOfPerson(ctx, client, *personName))
	if err != nil {
		log.Fatal("Failed to load seeded person", zap.Error(err))
	}
	total, err := demo.Steps.Of(person).Count(ctx)
	if err != nil {
		log.Fatal("Failed to count seeded steps", zap.Error(err))
	}

	log.Info("Seeding complete",
		zap.String("person", *personName),
		zap.Int64("steps", total),
	)
}

func createConstraints(ctx context.Context, client *graph.Client) error {
	constraints := []string{
		"CREATE CONSTRAINT person_key IF NOT EXISTS FOR (p:Person) REQUIRE p.key IS UNIQUE",
		"CREATE CONSTRAINT city_key IF NOT EXISTS FOR (c:City) REQUIRE c.key IS UNIQUE",
		"CREATE CONSTRAINT step_key IF NOT EXISTS FOR (s:Step) REQUIRE s.key IS UNIQUE",
	}
	for _, constraint := range constraints {
		if _, err := client.Run(ctx, constraint, nil); err != nil {
			return err
		}
	}
	return nil
}

// createChain links the person to step 1 and each step to the next one, so
// the variable-length NEXT traversal reaches every step in order.
func createChain(ctx context.Context, client *graph.Client, personName string, n int) error {
	previous := ""
	for i := 1; i <= n; i++ {
		key := uuid.NewString()
		if _, err := client.Run(ctx,
			"CREATE (s:Step {key: $key, title: $title, position: $position})",
			map[string]any{"key": key, "title": fmt.Sprintf("Step %d", i), "position": i}); err != nil {
			return err
		}
		if i == 1 {
			if _, err := client.Run(ctx,
				"MATCH (p:Person {name: $name}) MATCH (s:Step {key: $key}) MERGE (p)-[:NEXT]->(s)",
				map[string]any{"name": personName, "key": key}); err != nil {
				return err
			}
		} else {
			if _, err := client.Run(ctx,
				"MATCH (a:Step {key: $prev}) MATCH (b:Step {key: $key}) MERGE (a)-[:NEXT]->(b)",
				map[string]any{"prev": previous, "key": key}); err != nil {
				return err
			}
		}
		previous = key
	}
	return nil
}

func keyOfPerson(ctx context.Context, client *graph.Client, name string) string {
	records, err := client.Run(ctx,
		"MATCH (p:Person {name: $name}) RETURN p.key AS key", map[string]any{"name": name})
	if err != nil || len(records) == 0 {
		return ""
	}
	return graph.StringValue(records[0], "key")
}
