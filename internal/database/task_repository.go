package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// TaskRepo handles pure data access for tasks.
// No validation, no events: the task service owns those.
type TaskRepo struct {
	db *sql.DB
}

// OrderUpdate is one row of a batched order save. Status is stored as given.
type OrderUpdate struct {
	TaskID    types.TaskID
	Order     int
	Status    models.Status
	SectionID types.SectionID
}

const taskColumns = `id, project_id, title, description, status, section_id, priority,
	due_date, assignees, attachments, subtasks, sort_order`

// ============================================================================
// READS
// ============================================================================

// ListByProject returns a project's tasks ordered by (sort_order, id)
func (r *TaskRepo) ListByProject(ctx context.Context, project types.ProjectID) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY sort_order, id`,
		string(project))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepo) GetByID(ctx context.Context, id types.TaskID) (models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, string(id))
	t, err := scanTask(row)
	if err != nil {
		return models.Task{}, notFound(err, ErrNotFound)
	}
	return t, nil
}

// NextOrder returns one past the highest sort_order in the project
func (r *TaskRepo) NextOrder(ctx context.Context, project types.ProjectID) (int, error) {
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(sort_order) FROM tasks WHERE project_id = ?`, string(project)).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// ============================================================================
// WRITES
// ============================================================================

// Create inserts t as-is; the caller assigns the id.
func (r *TaskRepo) Create(ctx context.Context, t models.Task) error {
	args, err := taskArgs(t)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, status, section_id, priority,
			due_date, assignees, attachments, subtasks, sort_order, id, project_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		append(args, string(t.ID), string(t.ProjectID))...)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of t.
func (r *TaskRepo) Update(ctx context.Context, t models.Task) error {
	args, err := taskArgs(t)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, section_id = ?, priority = ?,
			due_date = ?, assignees = ?, attachments = ?, subtasks = ?, sort_order = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		append(args, string(t.ID))...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireRow(res)
}

func (r *TaskRepo) Delete(ctx context.Context, id types.TaskID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ApplyOrder writes every update in one transaction. A missing task aborts
// the whole batch with ErrNotFound.
func (r *TaskRepo) ApplyOrder(ctx context.Context, updates []OrderUpdate) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`UPDATE tasks SET sort_order = ?, status = ?, section_id = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, u := range updates {
			res, err := stmt.ExecContext(ctx, u.Order, models.APIStatus(u.Status), string(u.SectionID), string(u.TaskID))
			if err != nil {
				return fmt.Errorf("order task %s: %w", u.TaskID, err)
			}
			if err := requireRow(res); err != nil {
				return fmt.Errorf("order task %s: %w", u.TaskID, err)
			}
		}
		return nil
	})
}

// ============================================================================
// MODEL CONVERSION HELPERS
// ============================================================================

func taskArgs(t models.Task) ([]any, error) {
	assignees, err := encodeJSON(t.Assignees)
	if err != nil {
		return nil, fmt.Errorf("encode assignees: %w", err)
	}
	attachments, err := encodeJSON(t.Attachments)
	if err != nil {
		return nil, fmt.Errorf("encode attachments: %w", err)
	}
	subtasks, err := encodeJSON(t.Subtasks)
	if err != nil {
		return nil, fmt.Errorf("encode subtasks: %w", err)
	}
	return []any{
		t.Title, t.Description, models.APIStatus(t.Status), string(t.SectionID), int(t.Priority),
		timeToNull(t.DueDate), assignees, attachments, subtasks, t.Order,
	}, nil
}

func scanTask(row scanner) (models.Task, error) {
	var (
		t                                models.Task
		status                           string
		priority                         int
		due                              sql.NullTime
		assignees, attachments, subtasks string
	)
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &status, &t.SectionID, &priority,
		&due, &assignees, &attachments, &subtasks, &t.Order)
	if err != nil {
		return models.Task{}, err
	}

	t.Status = models.NormalizeStatus(string(models.UIStatus(status)))
	t.Priority = models.Priority(priority)
	t.DueDate = nullToTime(due)
	if t.Assignees, err = decodeJSON[string](assignees); err != nil {
		return models.Task{}, fmt.Errorf("decode assignees of %s: %w", t.ID, err)
	}
	if t.Attachments, err = decodeJSON[models.Attachment](attachments); err != nil {
		return models.Task{}, fmt.Errorf("decode attachments of %s: %w", t.ID, err)
	}
	if t.Subtasks, err = decodeJSON[models.Subtask](subtasks); err != nil {
		return models.Task{}, fmt.Errorf("decode subtasks of %s: %w", t.ID, err)
	}
	return t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
