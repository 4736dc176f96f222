package database

import (
	"context"
	"database/sql"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// SectionRepo handles pure data access for sections
type SectionRepo struct {
	db *sql.DB
}

// Upsert creates or replaces a section of project.
func (r *SectionRepo) Upsert(ctx context.Context, project types.ProjectID, s models.Section) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sections (id, project_id, name, sort_order, default_status)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sort_order = excluded.sort_order,
			default_status = excluded.default_status`,
		string(s.ID), string(project), s.Name, s.Order, apiStatusOrEmpty(s.DefaultStatus))
	return err
}

// ListByProject returns a project's sections ordered by (sort_order, id)
func (r *SectionRepo) ListByProject(ctx context.Context, project types.ProjectID) ([]models.Section, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, sort_order, default_status FROM sections
		 WHERE project_id = ? ORDER BY sort_order, id`, string(project))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SectionRepo) GetByID(ctx context.Context, id types.SectionID) (models.Section, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, sort_order, default_status FROM sections WHERE id = ?`, string(id))
	s, err := scanSection(row)
	if err != nil {
		return models.Section{}, notFound(err, ErrNotFound)
	}
	return s, nil
}

func (r *SectionRepo) Delete(ctx context.Context, id types.SectionID) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET section_id = '' WHERE section_id = ?`, string(id)); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, string(id))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSection(row scanner) (models.Section, error) {
	var (
		s             models.Section
		defaultStatus string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Order, &defaultStatus); err != nil {
		return models.Section{}, err
	}
	if defaultStatus != "" {
		s.DefaultStatus = models.UIStatus(defaultStatus)
	}
	return s, nil
}

func apiStatusOrEmpty(s models.Status) string {
	if s == "" {
		return ""
	}
	return models.APIStatus(s)
}
