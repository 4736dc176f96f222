package database

import (
	"context"
	"database/sql"

	"github.com/thenoetrevino/tablero/internal/types"
)

// Project is a row of the projects table
type Project struct {
	ID   types.ProjectID
	Name string
}

// ProjectRepo handles pure data access for projects
type ProjectRepo struct {
	db *sql.DB
}

// Ensure inserts the project if it does not exist. An empty name uses the id.
func (r *ProjectRepo) Ensure(ctx context.Context, id types.ProjectID, name string) error {
	if name == "" {
		name = string(id)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`,
		string(id), name)
	return err
}

func (r *ProjectRepo) GetByID(ctx context.Context, id types.ProjectID) (*Project, error) {
	p := &Project{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM projects WHERE id = ?`, string(id)).
		Scan(&p.ID, &p.Name)
	if err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	return p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM projects ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
