// Package kv provides the key-value stores the planner persists its task list to.
//
// Every backend offers the same contract: Get returns ErrNotFound for a missing key
// and Set replaces the whole value for a key in one write.
package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrNotFound = errors.New("kv: key not found")

// Store is a persistent key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendNeo4j  = "neo4j"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Path     string // directory for file, database file for sqlite
	DSN      string // mysql
	URI      string // neo4j
	Username string
	Password string
}

// Open returns the store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Path)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		path := opts.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "studyplan.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return NewSQLite(ctx, path)
	case BackendMySQL:
		return NewMySQL(ctx, opts.DSN)
	case BackendNeo4j:
		return NewNeo4j(ctx, opts.URI, opts.Username, opts.Password)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
