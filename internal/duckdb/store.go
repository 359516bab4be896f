// Package duckdb stores motif scan results in DuckDB so hits can be
// queried after a run.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for motif hit results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id BIGINT PRIMARY KEY,
			fasta_path VARCHAR,
			fasta_size BIGINT,
			fasta_modtime TIMESTAMP,
			motifs VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id BIGINT,
			record_id VARCHAR,
			seq_length BIGINT,
			exon_start BIGINT,
			exon_length BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS motif_hits (
			run_id BIGINT,
			record_id VARCHAR,
			motif VARCHAR,
			motif_index BIGINT,
			start BIGINT,
			length BIGINT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
