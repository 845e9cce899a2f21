package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type syllabusRepository interface {
	FindChapter(dbc dbctx.Context, id int64) (*models.Chapter, error)
	ChapterOptions(dbc dbctx.Context) ([]models.Option, error)
	CreateChapter(dbc dbctx.Context, chapter *models.Chapter) error
	CreateTopic(dbc dbctx.Context, topic *models.Topic) error
	Tree(dbc dbctx.Context, subjectIDs []int64) ([]models.SyllabusRow, error)
}

type subjectFinder interface {
	FindByID(dbc dbctx.Context, id int64) (*models.Subject, error)
}

// CreateChapterRequest names a chapter under a subject.
type CreateChapterRequest struct {
	Name      string `json:"name" form:"name" validate:"required,max=200"`
	SubjectID int64  `json:"subject_id" form:"subject_id" validate:"required,gt=0"`
}

// CreateTopicRequest names a topic under a chapter.
type CreateTopicRequest struct {
	Name      string `json:"name" form:"name" validate:"required,max=200"`
	ChapterID int64  `json:"chapter_id" form:"chapter_id" validate:"required,gt=0"`
}

// SyllabusService manages chapters and topics and renders the syllabus tree.
type SyllabusService struct {
	repo      syllabusRepository
	subjects  subjectFinder
	tx        txRunner
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSyllabusService constructs a SyllabusService.
func NewSyllabusService(repo syllabusRepository, subjects subjectFinder, tx txRunner, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SyllabusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyllabusService{repo: repo, subjects: subjects, tx: tx, cache: cache, validator: validate, logger: logger}
}

// Tree returns the whole class → subject → chapter → topic hierarchy.
func (s *SyllabusService) Tree(ctx context.Context) ([]dto.SyllabusClass, error) {
	rows, err := s.repo.Tree(read(ctx), nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load syllabus")
	}
	return groupByClass(buildSubjects(rows)), nil
}

// SubjectTrees returns the trees of the given subjects keyed by subject id.
func (s *SyllabusService) SubjectTrees(ctx context.Context, subjectIDs []int64) (map[int64]dto.SyllabusSubject, error) {
	trees := make(map[int64]dto.SyllabusSubject, len(subjectIDs))
	if len(subjectIDs) == 0 {
		return trees, nil
	}
	rows, err := s.repo.Tree(read(ctx), subjectIDs)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load syllabus")
	}
	for _, subject := range buildSubjects(rows) {
		trees[subject.ID] = subject
	}
	return trees, nil
}

// ChapterOptions lists chapters labelled with subject and class.
func (s *SyllabusService) ChapterOptions(ctx context.Context) ([]models.Option, error) {
	options, err := s.repo.ChapterOptions(read(ctx))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list chapters")
	}
	return options, nil
}

// CreateChapter inserts a chapter under an existing subject.
func (s *SyllabusService) CreateChapter(ctx context.Context, req CreateChapterRequest) (*models.Chapter, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid chapter payload")
	}
	if _, err := s.subjects.FindByID(read(ctx), req.SubjectID); err != nil {
		return nil, lookupError(err, "subject not found", "failed to load subject")
	}

	chapter := &models.Chapter{Name: req.Name, SubjectID: req.SubjectID}
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.repo.CreateChapter(dbc, chapter)
	}); err != nil {
		return nil, saveError(err, "This chapter already exists.", "could not save chapter")
	}
	return chapter, nil
}

// CreateTopic inserts a topic under an existing chapter.
func (s *SyllabusService) CreateTopic(ctx context.Context, req CreateTopicRequest) (*models.Topic, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid topic payload")
	}
	if _, err := s.repo.FindChapter(read(ctx), req.ChapterID); err != nil {
		return nil, lookupError(err, "chapter not found", "failed to load chapter")
	}

	topic := &models.Topic{Name: req.Name, ChapterID: req.ChapterID}
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.repo.CreateTopic(dbc, topic)
	}); err != nil {
		return nil, saveError(err, "This topic already exists.", "could not save topic")
	}
	invalidateDashboards(ctx, s.cache, s.logger)
	return topic, nil
}

// buildSubjects folds flattened rows, ordered by class, subject, chapter and
// topic, into subject trees with progress at subject and chapter level.
func buildSubjects(rows []models.SyllabusRow) []dto.SyllabusSubject {
	var subjects []dto.SyllabusSubject
	for _, row := range rows {
		if len(subjects) == 0 || subjects[len(subjects)-1].ID != row.SubjectID {
			subjects = append(subjects, dto.SyllabusSubject{
				ID:        row.SubjectID,
				Name:      row.SubjectName,
				ClassID:   row.ClassID,
				ClassName: row.ClassName,
				Chapters:  []dto.SyllabusChapter{},
			})
		}
		subject := &subjects[len(subjects)-1]
		if row.ChapterID == nil {
			continue
		}

		chapters := subject.Chapters
		if len(chapters) == 0 || chapters[len(chapters)-1].ID != *row.ChapterID {
			subject.Chapters = append(subject.Chapters, dto.SyllabusChapter{
				ID:     *row.ChapterID,
				Name:   deref(row.ChapterName),
				Topics: []dto.SyllabusTopic{},
			})
		}
		chapter := &subject.Chapters[len(subject.Chapters)-1]
		if row.TopicID == nil {
			continue
		}

		chapter.Topics = append(chapter.Topics, dto.SyllabusTopic{
			ID:             *row.TopicID,
			Name:           deref(row.TopicName),
			IsCompleted:    row.IsCompleted,
			CompletionDate: row.CompletionDate,
		})
		chapter.TotalTopics++
		subject.TotalTopics++
		if row.IsCompleted {
			chapter.CompletedTopics++
			subject.CompletedTopics++
		}
	}

	for i := range subjects {
		subject := &subjects[i]
		subject.Progress = Percentage(subject.CompletedTopics, subject.TotalTopics)
		for j := range subject.Chapters {
			chapter := &subject.Chapters[j]
			chapter.Progress = Percentage(chapter.CompletedTopics, chapter.TotalTopics)
		}
	}
	return subjects
}

func groupByClass(subjects []dto.SyllabusSubject) []dto.SyllabusClass {
	classes := []dto.SyllabusClass{}
	for _, subject := range subjects {
		if len(classes) == 0 || classes[len(classes)-1].ID != subject.ClassID {
			classes = append(classes, dto.SyllabusClass{ID: subject.ClassID, Name: subject.ClassName})
		}
		last := &classes[len(classes)-1]
		last.Subjects = append(last.Subjects, subject)
	}
	return classes
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
