// Package tuitest holds helpers for view tests.
package tuitest

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update snapshot files")

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// Plain strips terminal escape sequences so views can be matched as text
func Plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

// AssertSnapshot compares output, without escape sequences, with
// testdata/<test name>.snap. A missing snapshot is recorded on first run.
func AssertSnapshot(t *testing.T, output string) {
	t.Helper()

	output = Plain(output)
	snapshotPath := filepath.Join("testdata", strings.ToLower(strings.ReplaceAll(t.Name(), "/", "_"))+".snap")

	snapshot, err := os.ReadFile(snapshotPath)
	if *update || os.IsNotExist(err) {
		require.NoError(t, os.MkdirAll(filepath.Dir(snapshotPath), 0755))
		require.NoError(t, os.WriteFile(snapshotPath, []byte(output), 0644))
		t.Logf("recorded snapshot: %s", snapshotPath)
		return
	}
	require.NoError(t, err)

	require.Equal(t, string(snapshot), output, "snapshot does not match. run with -update to update it.")
}
