package kv

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore keeps each entry as an (:Entry {key, value}) node.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

func NewNeo4j(ctx context.Context, uri, username, password string) (*Neo4jStore, error) {
	if uri == "" {
		uri = "neo4j://localhost:7687"
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach neo4j: %w", err)
	}
	return &Neo4jStore{driver: driver}, nil
}

func (s *Neo4jStore) Get(ctx context.Context, key string) ([]byte, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	value, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (e:Entry {key: $key}) RETURN e.value AS value",
			map[string]any{"key": key},
		)
		if err != nil {
			return nil, err
		}
		if result.Next(ctx) {
			v, _ := result.Record().Get("value")
			return v, nil
		}
		return nil, result.Err()
	})
	if err != nil {
		return nil, err
	}
	str, ok := value.(string)
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(str), nil
}

func (s *Neo4jStore) Set(ctx context.Context, key string, value []byte) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"MERGE (e:Entry {key: $key}) SET e.value = $value, e.updatedAt = timestamp()",
			map[string]any{"key": key, "value": string(value)},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Neo4jStore) Close() error {
	return s.driver.Close(context.Background())
}
