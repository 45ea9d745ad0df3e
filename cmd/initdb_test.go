package cmd

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// runCommand executes a cobra command and captures its output.
func runCommand(t *testing.T, cmdName string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	c := NewInitDBCmd()
	if cmdName == "config" {
		c = NewConfigCmd()
	}
	c.SetOut(&stdout)
	c.SetErr(&stderr)
	c.SetArgs(args)

	err := c.Execute()
	return stdout.String(), stderr.String(), err
}

func TestInitDBCommand_InitializesFreshDatabase(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "plinth.db")
	t.Setenv("PLINTH_INSTANCE_DIR", dir)
	t.Setenv("PLINTH_SQLITE_PATH", dbPath)

	stdout, _, err := runCommand(t, "init-db", "--quiet")
	require.NoError(t, err)

	assert.Equal(t, "Initialized the database.\n", stdout)

	// The schema from schema.sql is applied
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"user", "post"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "Table %s should exist after init-db", table)
	}
}

func TestInitDBCommand_Rerun(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Setenv("PLINTH_INSTANCE_DIR", dir)
	t.Setenv("PLINTH_SQLITE_PATH", filepath.Join(dir, "plinth.db"))

	_, _, err := runCommand(t, "init-db", "--quiet")
	require.NoError(t, err)

	viper.Reset()
	t.Setenv("PLINTH_INSTANCE_DIR", dir)
	t.Setenv("PLINTH_SQLITE_PATH", filepath.Join(dir, "plinth.db"))

	stdout, _, err := runCommand(t, "init-db", "--quiet")
	require.NoError(t, err, "init-db against an existing database should recreate the tables")
	assert.Contains(t, stdout, "Initialized the database.")
}

func TestConfigCommand_ShowsResolvedSQLitePath(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Setenv("PLINTH_INSTANCE_DIR", dir)

	stdout, _, err := runCommand(t, "config")
	require.NoError(t, err)

	assert.Contains(t, stdout, filepath.Join(dir, "plinth.db"),
		"The derived database path should appear in the config dump")
}

func TestConfigCommand_RedactsSecretKey(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	t.Setenv("PLINTH_INSTANCE_DIR", dir)
	t.Setenv("PLINTH_SECRET_KEY", "super-secret-value")

	stdout, _, err := runCommand(t, "config")
	require.NoError(t, err)

	assert.Contains(t, stdout, "[redacted]")
	assert.NotContains(t, stdout, "super-secret-value")
}
