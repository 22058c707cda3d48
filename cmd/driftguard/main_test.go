// Package main provides tests for the driftguard CLI.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/driftlabs/driftguard/internal/cli"
	"github.com/driftlabs/driftguard/internal/cli/config"
)

// writeSampleData writes a reference/current pair into dir and returns
// their paths.
func writeSampleData(t *testing.T, dir string, shift int) (string, string) {
	t.Helper()

	rows := []string{"feature1,feature2,target"}
	for i := 0; i < 40; i++ {
		rows = append(rows, fmt.Sprintf("%d,%d,%d", i, i*2+shift, i%2))
	}
	content := strings.Join(rows, "\n") + "\n"

	refPath := filepath.Join(dir, "reference.csv")
	curPath := filepath.Join(dir, "current.csv")
	if err := os.WriteFile(refPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write reference: %v", err)
	}
	if err := os.WriteFile(curPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write current: %v", err)
	}
	return refPath, curPath
}

func TestVersionCommand(t *testing.T) {
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "DriftGuard") {
		t.Errorf("version output should contain 'DriftGuard', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	output := buf.String()
	expectedCommands := []string{"validate", "drift", "pipeline", "train", "serve", "runs"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	t.Cleanup(config.ResetConfig)

	tmpDir := t.TempDir()
	refPath, curPath := writeSampleData(t, tmpDir, 0)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"validate",
		"--reference", refPath,
		"--current", curPath,
		"--state", filepath.Join(tmpDir, "state.db"),
	})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("validate command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "All expectations passed") {
		t.Errorf("validate output should report passing expectations, got: %s", output)
	}
}

func TestDriftCommand(t *testing.T) {
	t.Cleanup(config.ResetConfig)

	tmpDir := t.TempDir()
	refPath, curPath := writeSampleData(t, tmpDir, 0)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"drift",
		"--reference", refPath,
		"--current", curPath,
		"--state", filepath.Join(tmpDir, "state.db"),
	})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("drift command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Distributions stable") {
		t.Errorf("drift output should report stable distributions, got: %s", output)
	}
}

func TestPipelineCommand(t *testing.T) {
	t.Cleanup(config.ResetConfig)

	tmpDir := t.TempDir()
	refPath, curPath := writeSampleData(t, tmpDir, 0)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{
		"pipeline",
		"--reference", refPath,
		"--current", curPath,
		"--state", filepath.Join(tmpDir, "state.db"),
	})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("pipeline command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "stable") {
		t.Errorf("pipeline output should report a stable result, got: %s", output)
	}
}

func TestCompletionCommand(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			cmd := cli.NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"completion", shell})

			err := cmd.Execute()
			if err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"unknown-command"})

	err := cmd.Execute()
	if err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
