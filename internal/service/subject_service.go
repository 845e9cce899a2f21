package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type subjectRepository interface {
	List(dbc dbctx.Context, classID *int64) ([]models.SubjectDetail, error)
	FindByID(dbc dbctx.Context, id int64) (*models.Subject, error)
	Create(dbc dbctx.Context, subject *models.Subject) error
}

type classFinder interface {
	FindByID(dbc dbctx.Context, id int64) (*models.Class, error)
}

// CreateSubjectRequest represents payload to create subject.
type CreateSubjectRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=120"`
	ClassID int64  `json:"class_id" form:"class_id" validate:"required,gt=0"`
}

// SubjectService manages subjects.
type SubjectService struct {
	repo      subjectRepository
	classes   classFinder
	tx        txRunner
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, classes classFinder, tx txRunner, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, classes: classes, tx: tx, cache: cache, validator: validate, logger: logger}
}

// List returns subjects, optionally restricted to one class.
func (s *SubjectService) List(ctx context.Context, classID *int64) ([]models.SubjectDetail, error) {
	subjects, err := s.repo.List(read(ctx), classID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list subjects")
	}
	return subjects, nil
}

// Options labels every subject with its class, e.g. "English (Class 7)".
func (s *SubjectService) Options(ctx context.Context) ([]models.Option, error) {
	subjects, err := s.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	options := make([]models.Option, len(subjects))
	for i, subject := range subjects {
		options[i] = models.Option{ID: subject.ID, Name: fmt.Sprintf("%s (%s)", subject.Name, subject.ClassName)}
	}
	return options, nil
}

// ForClass lists one class's subjects as options.
func (s *SubjectService) ForClass(ctx context.Context, classID int64) ([]models.Option, error) {
	subjects, err := s.List(ctx, &classID)
	if err != nil {
		return nil, err
	}
	options := make([]models.Option, len(subjects))
	for i, subject := range subjects {
		options[i] = models.Option{ID: subject.ID, Name: subject.Name}
	}
	return options, nil
}

// Create inserts a subject under an existing class.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid subject payload")
	}
	if _, err := s.classes.FindByID(read(ctx), req.ClassID); err != nil {
		return nil, lookupError(err, "class not found", "failed to load class")
	}

	subject := &models.Subject{Name: req.Name, ClassID: req.ClassID}
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.repo.Create(dbc, subject)
	}); err != nil {
		return nil, saveError(err, "This subject already exists.", "could not save subject")
	}
	invalidateDashboards(ctx, s.cache, s.logger)
	return subject, nil
}
