package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"plinth/metrics"
)

// Session is a request-scoped database handle. The underlying connection
// is checked out of the pool lazily on first use and returned on Close, so
// a request that never touches the database costs nothing.
//
// Conn is idempotent: repeated calls within the same session return the
// same connection. Close is idempotent as well. Sessions are created and
// closed by the API middleware; handlers only ever see the accessor.
type Session struct {
	db *SQLite

	mu   sync.Mutex
	conn *sql.Conn
}

// NewSession creates an unopened session bound to db.
func NewSession(db *SQLite) *Session {
	return &Session{db: db}
}

// Conn returns the session's database connection, checking one out of the
// pool on first call.
func (s *Session) Conn(ctx context.Context) (*sql.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn, nil
	}

	conn, err := s.db.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire database connection: %w", err)
	}
	s.conn = conn
	metrics.DBSessionsOpened.Inc()
	return s.conn, nil
}

// Close returns the connection to the pool, if one was ever opened.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil

	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to release database connection: %w", err)
	}
	return nil
}
