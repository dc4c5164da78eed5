// Package graph wraps the Neo4j driver behind the one-statement-per-call
// connection the ogm package borrows, and provides the identifier escaping
// the relation specs delegate label quoting to.
package graph

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"edgelink/pkg/logger"
)

// Client executes Cypher statements against a Neo4j database, one session
// per call. It satisfies ogm.Runner.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

// NewClient wraps an open driver. database may be empty for the default one.
func NewClient(driver neo4j.DriverWithContext, database string) *Client {
	return &Client{
		driver:   driver,
		database: database,
		logger:   logger.Get(),
	}
}

// Connect builds a driver from connection settings, verifies connectivity
// and returns a client over it.
func Connect(ctx context.Context, uri, user, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}
	return NewClient(driver, database), nil
}

// Run executes one parameterized statement and collects its rows. Statements
// may write; sessions are opened in write mode.
func (c *Client) Run(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.database,
	})
	defer session.Close(ctx)

	c.logger.Debug("Running statement", zap.String("cypher", cypher))

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		c.logger.Error("Statement failed", zap.String("cypher", cypher), zap.Error(err))
		return nil, fmt.Errorf("failed to run statement: %w", err)
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect result: %w", err)
	}
	return records, nil
}

// Close closes the underlying driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

var plainIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EscapeIdentifier makes a label or edge-type name safe to embed in a query
// pattern. Plain identifiers pass through; anything else is backtick-quoted
// with embedded backticks doubled.
func EscapeIdentifier(name string) string {
	if plainIdentifier.MatchString(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
