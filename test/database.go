package test

import (
	"path/filepath"
	"testing"
)

// TmpFile returns the path to an SQLite database file in a temporary
// directory that is removed when the test ends.
func TmpFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "ledger.db")
}
