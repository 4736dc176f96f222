package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/models"
)

// AddOutputFlags registers the agent-friendly output flags
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (ID only)")
}

// Formatter builds an OutputFormatter from a command's output flags
func Formatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return NewFormatter(cmd.OutOrStdout(), cmd.ErrOrStderr(), jsonOutput, quietMode)
}

// ParseDueDate accepts YYYY-MM-DD or RFC3339. "none" clears the date.
func ParseDueDate(raw string) (due *time.Time, clear bool, err error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "":
		return nil, false, nil
	case "none", "clear":
		return nil, true, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, perr := time.Parse(layout, raw); perr == nil {
			t = t.UTC()
			return &t, false, nil
		}
	}
	return nil, false, &UsageError{Message: fmt.Sprintf("invalid due date %q (use YYYY-MM-DD or RFC3339)", raw)}
}

// ReadDescription returns raw, or all of stdin when raw is "-"
func ReadDescription(raw string, stdin io.Reader) (string, error) {
	if raw != "-" {
		return raw, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// SplitList splits a comma separated flag value, dropping blanks
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseLane accepts a wire lane ("status:completed", "section:s1") or a bare
// status name ("done", "In Progress").
func ParseLane(raw string) (models.LaneKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.LaneKey{}, &UsageError{Message: "lane is required"}
	}
	if strings.HasPrefix(raw, "status:") || strings.HasPrefix(raw, "section:") {
		return models.ParseLaneKey(raw)
	}
	return models.StatusLane(models.NormalizeStatus(raw)), nil
}
