package pipeline

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCollaboratorConfigured(t *testing.T) {
	assert.False(t, Collaborator{Name: "retrain"}.Configured())
	assert.True(t, Collaborator{Name: "retrain", Command: []string{"true"}}.Configured())
}

func TestCollaboratorRunSuccess(t *testing.T) {
	c := Collaborator{Name: "retrain", Command: []string{"sh", "-c", "exit 0"}}
	assert.NoError(t, c.Run(context.Background(), discardLogger()))
}

func TestCollaboratorRunUnknownExitCode(t *testing.T) {
	// Any non-zero exit is outside the contract, even codes the pipeline
	// itself uses for its own stages.
	for _, code := range []string{"1", "2", "7"} {
		c := Collaborator{Name: "retrain", Command: []string{"sh", "-c", "exit " + code}}
		err := c.Run(context.Background(), discardLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown code "+code)
	}
}

func TestCollaboratorRunMissingBinary(t *testing.T) {
	c := Collaborator{Name: "publish", Command: []string{"/nonexistent/driftguard-hook"}}
	err := c.Run(context.Background(), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start publish collaborator")
}

func TestCollaboratorRunUnconfigured(t *testing.T) {
	err := Collaborator{Name: "retrain"}.Run(context.Background(), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestCollaboratorRunKilled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := Collaborator{Name: "retrain", Command: []string{"sleep", "10"}}
	err := c.Run(ctx, discardLogger())
	require.Error(t, err)
}
