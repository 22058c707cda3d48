package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftlabs/driftguard/internal/cli/config"
)

func executeRoot(t *testing.T, args ...string) (error, string, string) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return err, out.String(), errOut.String()
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{"version", "validate", "drift", "pipeline", "train", "serve", "runs", "completion"}
	have := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "missing subcommand %s", name)
	}
}

func TestRootVersionFlag(t *testing.T) {
	err, out, _ := executeRoot(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "driftguard "+Version)
}

func TestRootHelp(t *testing.T) {
	err, out, _ := executeRoot(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "drift")
	assert.Contains(t, out, "--reference")
	assert.Contains(t, out, "--output")
}

func TestRootPersistentFlagsReachConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	rows := []string{"feature1,target"}
	for i := 0; i < 10; i++ {
		rows = append(rows, fmt.Sprintf("%d,%d", i, i%2))
	}
	csv := strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ref.csv"), []byte(csv), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cur.csv"), []byte(csv), 0644))

	err, out, _ := executeRoot(t, "validate", "--reference", "ref.csv", "--current", "cur.csv", "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "All expectations passed")
}

func TestRootInvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "drift:\n  threshold: -1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "driftguard.yaml"), []byte(yaml), 0644))

	err, _, _ := executeRoot(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drift.threshold")
}

func TestRootUnknownCommand(t *testing.T) {
	err, _, _ := executeRoot(t, "bogus")
	require.Error(t, err)
}

func TestCompletionCommand(t *testing.T) {
	cmd := NewCompletionCommand()
	assert.Equal(t, "completion", cmd.Name())

	// Only the documented shells are accepted.
	require.Error(t, cmd.Args(cmd, []string{"tcsh"}))
	require.NoError(t, cmd.Args(cmd, []string{"bash"}))
}
