package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// EnsureInstanceDir creates the instance directory if it does not already
// exist and verifies it is writable. An existing directory is not an
// error. The instance directory holds deployment-specific state (the
// database file, local configuration) and stays out of version control.
func EnsureInstanceDir(dir string, sugar *zap.SugaredLogger) (string, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s: %w", dir, err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create instance directory %s: %w\n"+
			"  Remediation: Ensure the parent directory exists and is writable\n"+
			"  For Docker: Check volume mount permissions\n"+
			"  For bare metal: Run 'mkdir -p %s && chmod 755 %s'", dir, err, absPath, absPath)
	}

	// Verify write permissions
	testFile := filepath.Join(absPath, ".plinth_write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return "", fmt.Errorf("instance directory %s is not writable: %w\n"+
			"  Remediation: Check file system permissions\n"+
			"  For Docker: Ensure volume is mounted with write access\n"+
			"  For bare metal: Run 'chmod -R u+w %s'", dir, err, absPath)
	}
	os.Remove(testFile)

	sugar.Infow("Instance directory ready", "path", absPath)
	return absPath, nil
}

// ClassifySQLiteError provides specific operator-facing messages for the
// SQLite open failures this service can realistically hit.
func ClassifySQLiteError(err error, dbPath string) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	absPath, _ := filepath.Abs(dbPath)
	parentDir := filepath.Dir(absPath)

	if strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "access denied") {
		return fmt.Sprintf("Permission denied accessing SQLite database at %s.\n"+
			"  Remediation:\n"+
			"  - Check file permissions: ls -la %s\n"+
			"  - Check directory permissions: ls -la %s\n"+
			"  - For Docker: Ensure the volume is mounted with proper user permissions",
			absPath, absPath, parentDir)
	}

	if strings.Contains(errStr, "database is locked") || strings.Contains(errStr, "sqlite_busy") {
		return fmt.Sprintf("SQLite database at %s is locked by another process.\n"+
			"  Remediation:\n"+
			"  - Check for another running plinth instance\n"+
			"  - If a crashed process left a stale lock, check for -shm and -wal files: ls -la %s*",
			absPath, absPath)
	}

	if strings.Contains(errStr, "no such file or directory") || strings.Contains(errStr, "cannot find the path") {
		return fmt.Sprintf("Cannot create SQLite database - path does not exist: %s.\n"+
			"  Remediation:\n"+
			"  - Create the parent directory: mkdir -p %s\n"+
			"  - Verify the path in config or the PLINTH_SQLITE_PATH env var",
			absPath, parentDir)
	}

	if strings.Contains(errStr, "read-only") {
		return fmt.Sprintf("SQLite database location is on a read-only file system: %s.\n"+
			"  Remediation:\n"+
			"  - Remount the file system as read-write\n"+
			"  - For Docker: Ensure the volume is not mounted read-only\n"+
			"  - Move the database to a writable location via PLINTH_SQLITE_PATH", absPath)
	}

	return fmt.Sprintf("Failed to initialize SQLite database at %s: %v\n"+
		"  Remediation:\n"+
		"  - Ensure the directory %s exists and is writable\n"+
		"  - Check disk space and permissions", absPath, err, parentDir)
}
