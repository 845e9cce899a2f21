package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

// SubjectRepository persists subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects with class names, optionally for one class.
func (r *SubjectRepository) List(dbc dbctx.Context, classID *int64) ([]models.SubjectDetail, error) {
	query := `SELECT s.id, s.name, s.class_id, c.name AS class_name
FROM subjects s
JOIN classes c ON c.id = s.class_id`
	args := []interface{}{}
	if classID != nil {
		query += "\nWHERE s.class_id = $1"
		args = append(args, *classID)
	}
	query += "\nORDER BY LENGTH(c.name), c.name, s.name"

	var subjects []models.SubjectDetail
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &subjects, query, args...); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns a subject.
func (r *SubjectRepository) FindByID(dbc dbctx.Context, id int64) (*models.Subject, error) {
	var subject models.Subject
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &subject, "SELECT id, name, class_id FROM subjects WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(dbc dbctx.Context, subject *models.Subject) error {
	if err := dbc.Executor(r.db).QueryRowxContext(dbc.Context(),
		"INSERT INTO subjects (name, class_id) VALUES ($1, $2) RETURNING id", subject.Name, subject.ClassID,
	).Scan(&subject.ID); err != nil {
		return wrapWrite("create subject", err)
	}
	return nil
}
