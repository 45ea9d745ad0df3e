package storage

import (
	"context"
	_ "embed"
	"fmt"
)

// Schema contains the DDL for the base tables. It is embedded so the
// binary needs no files on disk at runtime; the source of truth stays in
// schema.sql.
//
//go:embed schema.sql
var Schema string

// InitSchema clears any existing data and recreates the base tables by
// executing the embedded schema. It is safe to run against a fresh or an
// already-initialized database.
func (s *SQLite) InitSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.Logger.Infow("Database schema applied", "path", s.Path)
	return nil
}
