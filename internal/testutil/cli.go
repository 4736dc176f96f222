package testutil

import (
	"bytes"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// ExecuteCommand runs a cobra command with args and returns what it wrote
// to its output stream.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return out.String(), err
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	require.NoError(t, sonic.UnmarshalString(output, &result), "output: %s", output)
	return result
}
