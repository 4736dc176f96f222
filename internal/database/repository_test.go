package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ============================================================================
// MIGRATIONS
// ============================================================================

func TestMigrations_SeedDefaultProjectOnce(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, runMigrations(ctx, repo.db))

	projects, err := repo.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, types.ProjectID(DefaultProjectID), projects[0].ID)
}

func TestInitDB_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")
	db, err := InitDB(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

// ============================================================================
// PROJECTS & SECTIONS
// ============================================================================

func TestProjects_Ensure(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Projects.Ensure(ctx, "alpha", ""))
	require.NoError(t, repo.Projects.Ensure(ctx, "alpha", "ignored"))

	p, err := repo.Projects.GetByID(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", p.Name)

	_, err = repo.Projects.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSections_UpsertListDelete(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Sections.Upsert(ctx, DefaultProjectID, models.Section{ID: "s2", Name: "Later", Order: 2}))
	require.NoError(t, repo.Sections.Upsert(ctx, DefaultProjectID, models.Section{ID: "s1", Name: "Now", Order: 1, DefaultStatus: models.StatusInProgress}))
	require.NoError(t, repo.Sections.Upsert(ctx, DefaultProjectID, models.Section{ID: "s2", Name: "Someday", Order: 2}))

	sections, err := repo.Sections.ListByProject(ctx, DefaultProjectID)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "Now", sections[0].Name)
	assert.Equal(t, models.StatusInProgress, sections[0].DefaultStatus)
	assert.Equal(t, "Someday", sections[1].Name)
	assert.False(t, sections[1].HasDefaultStatus())

	require.NoError(t, repo.Tasks.Create(ctx, models.Task{ID: "t1", ProjectID: DefaultProjectID, Title: "x", SectionID: "s1"}))
	require.NoError(t, repo.Sections.Delete(ctx, "s1"))

	task, err := repo.Tasks.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, task.SectionID.IsZero(), "tasks leave a deleted section")

	assert.ErrorIs(t, repo.Sections.Delete(ctx, "s1"), ErrNotFound)
}

// ============================================================================
// TASKS
// ============================================================================

func TestTasks_RoundTrip(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	in := models.Task{
		ID:          "t1",
		ProjectID:   DefaultProjectID,
		Title:       "Write docs",
		Description: "**all** of them",
		Status:      models.StatusInProgress,
		Priority:    models.PriorityHigh,
		DueDate:     &due,
		Assignees:   []string{"ana", "bo"},
		Attachments: []models.Attachment{{Name: "spec.pdf", URL: "https://example.com/spec.pdf"}},
		Subtasks:    []models.Subtask{{Title: "outline", Done: true}},
		Order:       4,
	}
	require.NoError(t, repo.Tasks.Create(ctx, in))

	got, err := repo.Tasks.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	got.DueDate = in.DueDate
	assert.Equal(t, in, got)

	var raw string
	require.NoError(t, repo.db.QueryRow(`SELECT status FROM tasks WHERE id = 't1'`).Scan(&raw))
	assert.Equal(t, models.APIStatusInProgress, raw, "stored in API vocabulary")
}

func TestTasks_UpdateDeleteMissing(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Tasks.Update(ctx, models.Task{ID: "nope", Title: "x"}), ErrNotFound)
	assert.ErrorIs(t, repo.Tasks.Delete(ctx, "nope"), ErrNotFound)

	_, err := repo.Tasks.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTasks_ListAndNextOrder(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	next, err := repo.Tasks.NextOrder(ctx, DefaultProjectID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	for i, id := range []types.TaskID{"c", "a", "b"} {
		require.NoError(t, repo.Tasks.Create(ctx, models.Task{ID: id, ProjectID: DefaultProjectID, Title: string(id), Order: 2 - i}))
	}

	tasks, err := repo.Tasks.ListByProject(ctx, DefaultProjectID)
	require.NoError(t, err)
	ids := make([]types.TaskID, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	assert.Equal(t, []types.TaskID{"b", "a", "c"}, ids)

	next, err = repo.Tasks.NextOrder(ctx, DefaultProjectID)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestTasks_ApplyOrderIsAtomic(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.Tasks.Create(ctx, models.Task{ID: "a", ProjectID: DefaultProjectID, Title: "a", Status: models.StatusTodo}))
	require.NoError(t, repo.Tasks.Create(ctx, models.Task{ID: "b", ProjectID: DefaultProjectID, Title: "b", Status: models.StatusTodo, Order: 1}))

	err := repo.Tasks.ApplyOrder(ctx, []OrderUpdate{
		{TaskID: "a", Order: 9, Status: models.StatusDone},
		{TaskID: "ghost", Order: 1},
	})
	require.ErrorIs(t, err, ErrNotFound)

	a, err := repo.Tasks.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Order, "failed batch leaves no partial writes")

	require.NoError(t, repo.Tasks.ApplyOrder(ctx, []OrderUpdate{
		{TaskID: "a", Order: 1, Status: models.StatusDone},
		{TaskID: "b", Order: 0, Status: models.StatusTodo},
	}))
	a, err = repo.Tasks.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Order)
	assert.Equal(t, models.StatusDone, a.Status)
}
