package database

import (
	"context"
	"database/sql"
)

// DefaultProjectID is seeded on an empty database.
const DefaultProjectID = "default"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sections (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		default_status TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		section_id TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 2,
		due_date DATETIME,
		assignees TEXT NOT NULL DEFAULT '[]',
		attachments TEXT NOT NULL DEFAULT '[]',
		subtasks TEXT NOT NULL DEFAULT '[]',
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id, sort_order)`,
	`CREATE INDEX IF NOT EXISTS idx_sections_project ON sections(project_id, sort_order)`,
}

// runMigrations creates the schema and seeds the default project if needed
func runMigrations(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return seedDefaultProject(ctx, db)
}

func seedDefaultProject(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := db.ExecContext(ctx, "INSERT INTO projects (id, name) VALUES (?, ?)", DefaultProjectID, "Default")
	return err
}
