package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ReusesConnection(t *testing.T) {
	sqlite := setupTestSQLite(t)
	ctx := context.Background()

	session := NewSession(sqlite)
	defer session.Close()

	first, err := session.Conn(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := session.Conn(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second, "Repeated access within a session should return the same connection")
}

func TestSession_SeparateSessionsGetSeparateConnections(t *testing.T) {
	sqlite := setupTestSQLite(t)
	ctx := context.Background()

	s1 := NewSession(sqlite)
	defer s1.Close()
	s2 := NewSession(sqlite)
	defer s2.Close()

	c1, err := s1.Conn(ctx)
	require.NoError(t, err)
	c2, err := s2.Conn(ctx)
	require.NoError(t, err)

	assert.NotSame(t, c1, c2, "Each session should hold its own connection")
}

func TestSession_CloseIdempotent(t *testing.T) {
	sqlite := setupTestSQLite(t)
	ctx := context.Background()

	session := NewSession(sqlite)

	// Closing a session that never opened a connection is a no-op
	require.NoError(t, session.Close())

	_, err := session.Conn(ctx)
	require.NoError(t, err)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close(), "Second close should be a no-op")
}

func TestSession_ConnUsableForQueries(t *testing.T) {
	sqlite := setupTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, sqlite.InitSchema(ctx))

	session := NewSession(sqlite)
	defer session.Close()

	conn, err := session.Conn(ctx)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx,
		"INSERT INTO user (username, password) VALUES (?, ?)", "alice", "hash")
	require.NoError(t, err)

	var username string
	err = conn.QueryRowContext(ctx,
		"SELECT username FROM user WHERE username = ?", "alice").Scan(&username)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestSession_ReopenAfterClose(t *testing.T) {
	sqlite := setupTestSQLite(t)
	ctx := context.Background()

	session := NewSession(sqlite)

	first, err := session.Conn(ctx)
	require.NoError(t, err)
	require.NoError(t, session.Close())

	second, err := session.Conn(ctx)
	require.NoError(t, err)
	defer session.Close()

	assert.NotSame(t, first, second, "A closed session acquires a fresh connection on next use")
}
