package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type classRepository interface {
	List(dbc dbctx.Context) ([]models.Class, error)
	FindByID(dbc dbctx.Context, id int64) (*models.Class, error)
	ExistsByName(dbc dbctx.Context, name string) (bool, error)
	Create(dbc dbctx.Context, class *models.Class) error
	Delete(dbc dbctx.Context, id int64) error
	ListSections(dbc dbctx.Context, classID *int64) ([]models.Section, error)
	ListGroups(dbc dbctx.Context, classID *int64) ([]models.Group, error)
	CreateSection(dbc dbctx.Context, section *models.Section) error
	CreateGroup(dbc dbctx.Context, group *models.Group) error
}

// CreateClassRequest captures creation payload.
type CreateClassRequest struct {
	Name string `json:"name" form:"name" validate:"required,oneof='Class 7' 'Class 8' 'Class 9' 'Class 10' 'Class 11' 'Class 12'"`
}

// CreateDivisionRequest names a new section or group.
type CreateDivisionRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=64"`
}

// ClassService coordinates class operations.
type ClassService struct {
	repo      classRepository
	tx        txRunner
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classRepository, tx txRunner, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, tx: tx, cache: cache, validator: validate, logger: logger}
}

// List returns classes with their sections and groups.
func (s *ClassService) List(ctx context.Context) ([]models.ClassDetail, error) {
	dbc := read(ctx)
	classes, err := s.repo.List(dbc)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}
	sections, err := s.repo.ListSections(dbc, nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list sections")
	}
	groups, err := s.repo.ListGroups(dbc, nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list groups")
	}

	details := make([]models.ClassDetail, len(classes))
	index := make(map[int64]int, len(classes))
	for i, class := range classes {
		details[i] = models.ClassDetail{Class: class, Sections: []models.Section{}, Groups: []models.Group{}}
		index[class.ID] = i
	}
	for _, section := range sections {
		if i, ok := index[section.ClassID]; ok {
			details[i].Sections = append(details[i].Sections, section)
		}
	}
	for _, group := range groups {
		if i, ok := index[group.ClassID]; ok {
			details[i].Groups = append(details[i].Groups, group)
		}
	}
	return details, nil
}

// Options returns every class as an id/name pair.
func (s *ClassService) Options(ctx context.Context) ([]models.Option, error) {
	classes, err := s.repo.List(read(ctx))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}
	options := make([]models.Option, len(classes))
	for i, class := range classes {
		options[i] = models.Option{ID: class.ID, Name: class.Name}
	}
	return options, nil
}

// Get returns a class.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.repo.FindByID(read(ctx), id)
	if err != nil {
		return nil, lookupError(err, "class not found", "failed to load class")
	}
	return class, nil
}

// Create inserts a class whose name is one of the offered grade levels.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "class name must be one of "+strings.Join(models.ClassNames, ", "))
	}

	conflict := fmt.Sprintf("A class with the name %q already exists.", req.Name)
	taken, err := s.repo.ExistsByName(read(ctx), req.Name)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check class name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, conflict)
	}

	class := &models.Class{Name: req.Name}
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.repo.Create(dbc, class)
	}); err != nil {
		return nil, saveError(err, conflict, "could not save class")
	}
	invalidateDashboards(ctx, s.cache, s.logger)
	return class, nil
}

// Delete removes a class together with its whole subtree.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.repo.Delete(dbc, id)
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Internal(err, "could not delete class")
	}
	s.logger.Info("class deleted", zap.Int64("class_id", id))
	invalidateDashboards(ctx, s.cache, s.logger)
	return nil
}

// CreateSection adds a section to an existing class.
func (s *ClassService) CreateSection(ctx context.Context, classID int64, req CreateDivisionRequest) (*models.Section, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "section name is required")
	}
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	section := &models.Section{Name: req.Name, ClassID: classID}
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.repo.CreateSection(dbc, section)
	}); err != nil {
		return nil, saveError(err, "This section already exists.", "could not save section")
	}
	return section, nil
}

// CreateGroup adds a group to an existing class.
func (s *ClassService) CreateGroup(ctx context.Context, classID int64, req CreateDivisionRequest) (*models.Group, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "group name is required")
	}
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	group := &models.Group{Name: req.Name, ClassID: classID}
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.repo.CreateGroup(dbc, group)
	}); err != nil {
		return nil, saveError(err, "This group already exists.", "could not save group")
	}
	return group, nil
}

// SectionsForClass lists the sections of a class as options.
func (s *ClassService) SectionsForClass(ctx context.Context, classID int64) ([]models.Option, error) {
	sections, err := s.repo.ListSections(read(ctx), &classID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list sections")
	}
	options := make([]models.Option, len(sections))
	for i, section := range sections {
		options[i] = models.Option{ID: section.ID, Name: section.Name}
	}
	return options, nil
}

// GroupsForClass lists the groups of a class as options.
func (s *ClassService) GroupsForClass(ctx context.Context, classID int64) ([]models.Option, error) {
	groups, err := s.repo.ListGroups(read(ctx), &classID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list groups")
	}
	options := make([]models.Option, len(groups))
	for i, group := range groups {
		options[i] = models.Option{ID: group.ID, Name: group.Name}
	}
	return options, nil
}
