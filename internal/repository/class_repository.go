package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

// classOrder sorts "Class 7" before "Class 10".
const classOrder = "ORDER BY LENGTH(name), name"

// ClassRepository persists classes together with their sections and groups.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns all classes.
func (r *ClassRepository) List(dbc dbctx.Context) ([]models.Class, error) {
	var classes []models.Class
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &classes, "SELECT id, name FROM classes "+classOrder); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class by id.
func (r *ClassRepository) FindByID(dbc dbctx.Context, id int64) (*models.Class, error) {
	var class models.Class
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &class, "SELECT id, name FROM classes WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &class, nil
}

// ExistsByName checks whether a class name is taken.
func (r *ClassRepository) ExistsByName(dbc dbctx.Context, name string) (bool, error) {
	var one int
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &one, "SELECT 1 FROM classes WHERE name = $1 LIMIT 1", name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check class name: %w", err)
	}
	return true, nil
}

// Create inserts a class.
func (r *ClassRepository) Create(dbc dbctx.Context, class *models.Class) error {
	if err := dbc.Executor(r.db).QueryRowxContext(dbc.Context(),
		"INSERT INTO classes (name) VALUES ($1) RETURNING id", class.Name,
	).Scan(&class.ID); err != nil {
		return wrapWrite("create class", err)
	}
	return nil
}

// Delete removes a class; sections, groups and the syllabus tree cascade.
func (r *ClassRepository) Delete(dbc dbctx.Context, id int64) error {
	result, err := dbc.Executor(r.db).ExecContext(dbc.Context(), "DELETE FROM classes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return expectAffected(result, "delete class")
}

// ListSections returns sections, optionally restricted to a class.
func (r *ClassRepository) ListSections(dbc dbctx.Context, classID *int64) ([]models.Section, error) {
	var sections []models.Section
	query := "SELECT id, name, class_id FROM sections"
	args := []interface{}{}
	if classID != nil {
		query += " WHERE class_id = $1"
		args = append(args, *classID)
	}
	query += " ORDER BY class_id, name"
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &sections, query, args...); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListGroups returns groups, optionally restricted to a class.
func (r *ClassRepository) ListGroups(dbc dbctx.Context, classID *int64) ([]models.Group, error) {
	var groups []models.Group
	query := "SELECT id, name, class_id FROM groups"
	args := []interface{}{}
	if classID != nil {
		query += " WHERE class_id = $1"
		args = append(args, *classID)
	}
	query += " ORDER BY class_id, name"
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &groups, query, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// FindSection returns a section by id.
func (r *ClassRepository) FindSection(dbc dbctx.Context, id int64) (*models.Section, error) {
	var section models.Section
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &section, "SELECT id, name, class_id FROM sections WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &section, nil
}

// FindGroup returns a group by id.
func (r *ClassRepository) FindGroup(dbc dbctx.Context, id int64) (*models.Group, error) {
	var group models.Group
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &group, "SELECT id, name, class_id FROM groups WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateSection inserts a section for a class.
func (r *ClassRepository) CreateSection(dbc dbctx.Context, section *models.Section) error {
	if err := dbc.Executor(r.db).QueryRowxContext(dbc.Context(),
		"INSERT INTO sections (name, class_id) VALUES ($1, $2) RETURNING id", section.Name, section.ClassID,
	).Scan(&section.ID); err != nil {
		return wrapWrite("create section", err)
	}
	return nil
}

// CreateGroup inserts a group for a class.
func (r *ClassRepository) CreateGroup(dbc dbctx.Context, group *models.Group) error {
	if err := dbc.Executor(r.db).QueryRowxContext(dbc.Context(),
		"INSERT INTO groups (name, class_id) VALUES ($1, $2) RETURNING id", group.Name, group.ClassID,
	).Scan(&group.ID); err != nil {
		return wrapWrite("create group", err)
	}
	return nil
}
