package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

const assignmentDetailQuery = `
SELECT ta.id, ta.teacher_id, ta.class_id, ta.subject_id, ta.section_id, ta.group_id, ta.created_at,
       u.full_name AS teacher_name, c.name AS class_name, s.name AS subject_name,
       sec.name AS section_name, g.name AS group_name
FROM teacher_assignments ta
JOIN users u ON u.id = ta.teacher_id
JOIN classes c ON c.id = ta.class_id
JOIN subjects s ON s.id = ta.subject_id
LEFT JOIN sections sec ON sec.id = ta.section_id
LEFT JOIN groups g ON g.id = ta.group_id`

// TeacherAssignmentRepository persists teacher-class-subject assignments.
type TeacherAssignmentRepository struct {
	db *sqlx.DB
}

// NewTeacherAssignmentRepository constructs the repository.
func NewTeacherAssignmentRepository(db *sqlx.DB) *TeacherAssignmentRepository {
	return &TeacherAssignmentRepository{db: db}
}

// List returns every assignment with display names.
func (r *TeacherAssignmentRepository) List(dbc dbctx.Context) ([]models.TeacherAssignmentDetail, error) {
	query := assignmentDetailQuery + "\nORDER BY u.full_name ASC, LENGTH(c.name), c.name, s.name, ta.id"
	var assignments []models.TeacherAssignmentDetail
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &assignments, query); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return assignments, nil
}

// ListByTeacher returns assignments owned by teacher.
func (r *TeacherAssignmentRepository) ListByTeacher(dbc dbctx.Context, teacherID int64) ([]models.TeacherAssignmentDetail, error) {
	query := assignmentDetailQuery + "\nWHERE ta.teacher_id = $1\nORDER BY LENGTH(c.name), c.name, s.name, ta.id"
	var assignments []models.TeacherAssignmentDetail
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &assignments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return assignments, nil
}

// IsAuthorized reports whether teacher holds any assignment to the subject
// under the class, regardless of section or group.
func (r *TeacherAssignmentRepository) IsAuthorized(dbc dbctx.Context, teacherID, classID, subjectID int64) (bool, error) {
	const query = `SELECT 1 FROM teacher_assignments WHERE teacher_id = $1 AND class_id = $2 AND subject_id = $3 LIMIT 1`
	var one int
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &one, query, teacherID, classID, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check teacher authorization: %w", err)
	}
	return true, nil
}

// Exists checks the full teacher/class/subject/section/group tuple. A NULL
// section or group only matches NULL.
func (r *TeacherAssignmentRepository) Exists(dbc dbctx.Context, a *models.TeacherAssignment) (bool, error) {
	const query = `SELECT 1 FROM teacher_assignments
WHERE teacher_id = $1 AND class_id = $2 AND subject_id = $3
  AND section_id IS NOT DISTINCT FROM $4 AND group_id IS NOT DISTINCT FROM $5
LIMIT 1`
	var one int
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &one, query, a.TeacherID, a.ClassID, a.SubjectID, a.SectionID, a.GroupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check teacher assignment: %w", err)
	}
	return true, nil
}

// Create inserts a new assignment. A concurrent duplicate surfaces as ErrDuplicate.
func (r *TeacherAssignmentRepository) Create(dbc dbctx.Context, assignment *models.TeacherAssignment) error {
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_assignments (teacher_id, class_id, subject_id, section_id, group_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := dbc.Executor(r.db).QueryRowxContext(dbc.Context(), query,
		assignment.TeacherID, assignment.ClassID, assignment.SubjectID, assignment.SectionID, assignment.GroupID, assignment.CreatedAt,
	).Scan(&assignment.ID); err != nil {
		return wrapWrite("create teacher assignment", err)
	}
	return nil
}

// Delete removes an assignment by id.
func (r *TeacherAssignmentRepository) Delete(dbc dbctx.Context, id int64) error {
	result, err := dbc.Executor(r.db).ExecContext(dbc.Context(), `DELETE FROM teacher_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher assignment: %w", err)
	}
	return expectAffected(result, "delete teacher assignment")
}

// Count returns the number of assignments.
func (r *TeacherAssignmentRepository) Count(dbc dbctx.Context) (int, error) {
	var count int
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &count, `SELECT COUNT(*) FROM teacher_assignments`); err != nil {
		return 0, fmt.Errorf("count teacher assignments: %w", err)
	}
	return count, nil
}
