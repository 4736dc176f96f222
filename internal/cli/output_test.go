package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/testutil"
)

func newTestFormatter(jsonMode, quiet bool) (*OutputFormatter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewFormatter(&out, &errOut, jsonMode, quiet), &out, &errOut
}

func sampleTask() models.Task {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.Task{
		ID:        "t1",
		ProjectID: "p1",
		Title:     "Write release notes",
		Status:    models.StatusInProgress,
		Priority:  models.PriorityHigh,
		DueDate:   &due,
		Assignees: []string{"ana"},
		Order:     2,
	}
}

func TestOutputFormatter_TaskJSON(t *testing.T) {
	f, out, _ := newTestFormatter(true, false)

	require.NoError(t, f.Task(sampleTask(), "Created task"))

	result := testutil.ParseJSON(t, out.String())
	assert.Equal(t, true, result["success"])
	data := result["data"].(map[string]any)
	assert.Equal(t, "t1", data["id"])
	assert.Equal(t, "high", data["priority"])
	assert.Equal(t, "2026-03-01T00:00:00Z", data["dueDate"])
	assert.EqualValues(t, 2, data["order"])
}

func TestOutputFormatter_Quiet(t *testing.T) {
	f, out, _ := newTestFormatter(false, true)

	require.NoError(t, f.Task(sampleTask(), "Created task"))
	require.NoError(t, f.Tasks([]LaneTasks{
		{Lane: "status:todo", Title: "Todo", Tasks: []models.Task{{ID: "a"}, {ID: "b"}}},
	}))

	assert.Equal(t, "t1\na\nb\n", out.String())
}

func TestOutputFormatter_TasksHuman(t *testing.T) {
	f, out, _ := newTestFormatter(false, false)

	require.NoError(t, f.Tasks([]LaneTasks{
		{Lane: "status:todo", Title: "Todo", Tasks: []models.Task{sampleTask()}},
		{Lane: "status:completed", Title: "Done"},
	}))

	text := out.String()
	assert.Contains(t, text, "Todo")
	assert.Contains(t, text, "(1)")
	assert.Contains(t, text, "Write release notes")
	assert.Contains(t, text, "@ana")
	assert.Contains(t, text, "(0)")
}

func TestOutputFormatter_TasksJSONKeepsEmptyLanes(t *testing.T) {
	f, out, _ := newTestFormatter(true, false)

	require.NoError(t, f.Tasks([]LaneTasks{{Lane: "status:completed", Title: "Done"}}))

	result := testutil.ParseJSON(t, out.String())
	lanes := result["data"].([]any)
	require.Len(t, lanes, 1)
	lane := lanes[0].(map[string]any)
	assert.Equal(t, "status:completed", lane["lane"])
	assert.Empty(t, lane["tasks"])
}

func TestOutputFormatter_Fail(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		f, out, _ := newTestFormatter(true, false)

		err := f.Fail(models.ErrTaskNotFound)

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, ExitNotFound, exitErr.Code)

		result := testutil.ParseJSON(t, out.String())
		assert.Equal(t, false, result["success"])
		errData := result["error"].(map[string]any)
		assert.Equal(t, "NOT_FOUND", errData["code"])
		assert.Contains(t, errData["suggestion"], "tablero task list")
	})

	t.Run("human goes to stderr", func(t *testing.T) {
		f, out, errOut := newTestFormatter(false, false)

		err := f.Fail(&UsageError{Message: "lane is required"})

		assert.Equal(t, ExitUsage, ExitCode(err))
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "lane is required")
	})
}
