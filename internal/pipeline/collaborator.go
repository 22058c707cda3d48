package pipeline

// collaborator.go - external retrain/publish process invocation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Collaborator is an external process the pipeline hands off to after a
// positive drift decision. The pipeline waits for its exit code and nothing
// else; stdout/stderr pass through but are never interpreted.
type Collaborator struct {
	// Name identifies the collaborator in logs ("retrain", "publish").
	Name string

	// Command is the argv to execute.
	Command []string
}

// Configured reports whether the collaborator has a command to run.
func (c Collaborator) Configured() bool { return len(c.Command) > 0 }

// Run executes the collaborator and maps its exit to the documented
// contract: 0 is success; any other code is unknown and fatal, as is a
// process killed before reporting one.
func (c Collaborator) Run(ctx context.Context, logger *slog.Logger) error {
	if !c.Configured() {
		return fmt.Errorf("%s collaborator not configured", c.Name)
	}

	logger.Info("invoking collaborator", "name", c.Name, "command", c.Command)

	cmd := exec.CommandContext(ctx, c.Command[0], c.Command[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		logger.Info("collaborator succeeded", "name", c.Name)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			return fmt.Errorf("%s collaborator terminated without an exit code", c.Name)
		}
		return fmt.Errorf("%s collaborator exited with unknown code %d", c.Name, code)
	}
	return fmt.Errorf("failed to start %s collaborator: %w", c.Name, err)
}
