package database

import "database/sql"

// Repository provides all database operations by embedding the entity repositories
type Repository struct {
	*BoardRepo
	*ColumnRepo
	*TaskRepo
	*UserRepo
}

var _ DataStore = (*Repository)(nil)

// NewRepository creates a new repository with the given database connection
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		BoardRepo:  &BoardRepo{db: db},
		ColumnRepo: &ColumnRepo{db: db},
		TaskRepo:   &TaskRepo{db: db},
		UserRepo:   &UserRepo{db: db},
	}
}
