package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

const duplicateAssignment = "This assignment already exists."

type teacherAssignmentRepo interface {
	List(dbc dbctx.Context) ([]models.TeacherAssignmentDetail, error)
	ListByTeacher(dbc dbctx.Context, teacherID int64) ([]models.TeacherAssignmentDetail, error)
	IsAuthorized(dbc dbctx.Context, teacherID, classID, subjectID int64) (bool, error)
	Exists(dbc dbctx.Context, assignment *models.TeacherAssignment) (bool, error)
	Create(dbc dbctx.Context, assignment *models.TeacherAssignment) error
	Delete(dbc dbctx.Context, id int64) error
}

type teacherReader interface {
	FindByID(dbc dbctx.Context, id int64) (*models.User, error)
	ListByRole(dbc dbctx.Context, role models.UserRole) ([]models.User, error)
}

type divisionReader interface {
	FindSection(dbc dbctx.Context, id int64) (*models.Section, error)
	FindGroup(dbc dbctx.Context, id int64) (*models.Group, error)
}

// CreateTeacherAssignmentRequest describes assignment payload. Section and
// group are optional refinements.
type CreateTeacherAssignmentRequest struct {
	TeacherID int64  `json:"teacher_id" form:"teacher_id" validate:"required,gt=0"`
	ClassID   int64  `json:"class_id" form:"class_id" validate:"required,gt=0"`
	SubjectID int64  `json:"subject_id" form:"subject_id" validate:"required,gt=0"`
	SectionID *int64 `json:"section_id,omitempty" form:"section_id" validate:"omitempty,gt=0"`
	GroupID   *int64 `json:"group_id,omitempty" form:"group_id" validate:"omitempty,gt=0"`
}

// TeacherAssignmentService resolves which teacher may act on which subject.
type TeacherAssignmentService struct {
	assignments teacherAssignmentRepo
	teachers    teacherReader
	subjects    subjectFinder
	divisions   divisionReader
	tx          txRunner
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeacherAssignmentService creates a service instance.
func NewTeacherAssignmentService(
	assignments teacherAssignmentRepo,
	teachers teacherReader,
	subjects subjectFinder,
	divisions divisionReader,
	tx txRunner,
	validate *validator.Validate,
	logger *zap.Logger,
) *TeacherAssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherAssignmentService{
		assignments: assignments,
		teachers:    teachers,
		subjects:    subjects,
		divisions:   divisions,
		tx:          tx,
		validator:   validate,
		logger:      logger,
	}
}

// IsAuthorized reports whether the teacher holds any assignment for the
// subject within the class. Section and group are ignored.
func (s *TeacherAssignmentService) IsAuthorized(ctx context.Context, teacherID, classID, subjectID int64) (bool, error) {
	ok, err := s.assignments.IsAuthorized(read(ctx), teacherID, classID, subjectID)
	if err != nil {
		return false, appErrors.Internal(err, "failed to check assignment")
	}
	return ok, nil
}

// List returns every assignment with display names.
func (s *TeacherAssignmentService) List(ctx context.Context) ([]models.TeacherAssignmentDetail, error) {
	assignments, err := s.assignments.List(read(ctx))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list assignments")
	}
	return assignments, nil
}

// ListByTeacher returns the assignments owned by a teacher.
func (s *TeacherAssignmentService) ListByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherAssignmentDetail, error) {
	assignments, err := s.assignments.ListByTeacher(read(ctx), teacherID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list assignments")
	}
	return assignments, nil
}

// TeacherOptions lists every teacher as an id/full-name pair.
func (s *TeacherAssignmentService) TeacherOptions(ctx context.Context) ([]models.Option, error) {
	teachers, err := s.teachers.ListByRole(read(ctx), models.RoleTeacher)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list teachers")
	}
	options := make([]models.Option, len(teachers))
	for i, teacher := range teachers {
		options[i] = models.Option{ID: teacher.ID, Name: teacher.FullName}
	}
	return options, nil
}

// Create stores a new assignment. An identical teacher, class, subject,
// section and group tuple is rejected as a conflict, with a missing section
// or group only matching another missing one.
func (s *TeacherAssignmentService) Create(ctx context.Context, req CreateTeacherAssignmentRequest) (*models.TeacherAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid assignment payload")
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	assignment := &models.TeacherAssignment{
		TeacherID: req.TeacherID,
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		SectionID: req.SectionID,
		GroupID:   req.GroupID,
	}
	err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		exists, err := s.assignments.Exists(dbc, assignment)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.Clone(appErrors.ErrConflict, duplicateAssignment)
		}
		return s.assignments.Create(dbc, assignment)
	})
	if err != nil {
		return nil, saveError(err, duplicateAssignment, "could not save assignment")
	}

	s.logger.Info("teacher assigned",
		zap.Int64("teacher_id", assignment.TeacherID),
		zap.Int64("class_id", assignment.ClassID),
		zap.Int64("subject_id", assignment.SubjectID),
	)
	return assignment, nil
}

// Delete removes an assignment. Completions the teacher already recorded
// are left untouched.
func (s *TeacherAssignmentService) Delete(ctx context.Context, id int64) error {
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.assignments.Delete(dbc, id)
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Internal(err, "could not delete assignment")
	}
	return nil
}

func (s *TeacherAssignmentService) checkReferences(ctx context.Context, req CreateTeacherAssignmentRequest) error {
	dbc := read(ctx)
	teacher, err := s.teachers.FindByID(dbc, req.TeacherID)
	if err != nil {
		return lookupError(err, "teacher not found", "failed to load teacher")
	}
	if teacher.Role != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrValidation, "selected user is not a teacher")
	}

	subject, err := s.subjects.FindByID(dbc, req.SubjectID)
	if err != nil {
		return lookupError(err, "subject not found", "failed to load subject")
	}
	if subject.ClassID != req.ClassID {
		return appErrors.Clone(appErrors.ErrValidation, "subject does not belong to the selected class")
	}

	if req.SectionID != nil {
		section, err := s.divisions.FindSection(dbc, *req.SectionID)
		if err != nil {
			return lookupError(err, "section not found", "failed to load section")
		}
		if section.ClassID != req.ClassID {
			return appErrors.Clone(appErrors.ErrValidation, "section does not belong to the selected class")
		}
	}
	if req.GroupID != nil {
		group, err := s.divisions.FindGroup(dbc, *req.GroupID)
		if err != nil {
			return lookupError(err, "group not found", "failed to load group")
		}
		if group.ClassID != req.ClassID {
			return appErrors.Clone(appErrors.ErrValidation, "group does not belong to the selected class")
		}
	}
	return nil
}
