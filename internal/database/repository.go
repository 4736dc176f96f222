package database

import "database/sql"

// Repository composes the per-table repositories over one connection.
type Repository struct {
	Projects *ProjectRepo
	Sections *SectionRepo
	Tasks    *TaskRepo
	db       *sql.DB
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Projects: &ProjectRepo{db: db},
		Sections: &SectionRepo{db: db},
		Tasks:    &TaskRepo{db: db},
		db:       db,
	}
}

func (r *Repository) Close() error {
	return r.db.Close()
}
