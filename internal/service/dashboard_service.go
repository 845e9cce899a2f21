package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

const principalDashboardKey = "dashboard:principal"

type progressSummaryRepository interface {
	CountAllTopics(dbc dbctx.Context) (models.TopicCounts, error)
	CountsByClass(dbc dbctx.Context) ([]models.NamedTopicCounts, error)
	CountsBySubject(dbc dbctx.Context) ([]models.NamedTopicCounts, error)
	SystemCounts(dbc dbctx.Context) (models.SystemCounts, error)
}

type assignmentLister interface {
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.TeacherAssignmentDetail, error)
}

type subjectTreeLoader interface {
	SubjectTrees(ctx context.Context, subjectIDs []int64) (map[int64]dto.SyllabusSubject, error)
}

type dashboardCache interface {
	Remember(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) (bool, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the landing payloads of each role.
type DashboardService struct {
	progress    progressSummaryRepository
	assignments assignmentLister
	syllabus    subjectTreeLoader
	cache       dashboardCache
	logger      *zap.Logger
	cfg         DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Progress    progressSummaryRepository
	Assignments assignmentLister
	Syllabus    subjectTreeLoader
	Cache       dashboardCache
	Logger      *zap.Logger
	Config      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		progress:    params.Progress,
		assignments: params.Assignments,
		syllabus:    params.Syllabus,
		cache:       params.Cache,
		logger:      logger,
		cfg:         cfg,
	}
}

// Admin returns table sizes for the admin landing page.
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	counts, err := s.progress.SystemCounts(read(ctx))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load dashboard counts")
	}
	return &dto.AdminDashboardResponse{Counts: counts}, nil
}

// Teacher returns every assignment of the teacher with its subject tree.
func (s *DashboardService) Teacher(ctx context.Context, teacherID int64) (*dto.TeacherDashboardResponse, error) {
	assignments, err := s.assignments.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(assignments))
	subjectIDs := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.SubjectID]; ok {
			continue
		}
		seen[a.SubjectID] = struct{}{}
		subjectIDs = append(subjectIDs, a.SubjectID)
	}

	trees, err := s.syllabus.SubjectTrees(ctx, subjectIDs)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TeacherDashboardItem, len(assignments))
	for i, a := range assignments {
		subject, ok := trees[a.SubjectID]
		if !ok {
			subject = dto.SyllabusSubject{ID: a.SubjectID, Name: a.SubjectName, ClassID: a.ClassID, ClassName: a.ClassName, Chapters: []dto.SyllabusChapter{}}
		}
		items[i] = dto.TeacherDashboardItem{Assignment: a, Subject: subject}
	}
	return &dto.TeacherDashboardResponse{Assignments: items}, nil
}

// Principal returns school-wide progress and reports whether it came from cache.
func (s *DashboardService) Principal(ctx context.Context) (*dto.PrincipalDashboardResponse, bool, error) {
	var payload dto.PrincipalDashboardResponse
	if s.cache == nil {
		if err := s.loadPrincipal(ctx, &payload); err != nil {
			return nil, false, err
		}
		return &payload, false, nil
	}
	hit, err := s.cache.Remember(ctx, principalDashboardKey, &payload, s.cfg.CacheTTL, func() error {
		return s.loadPrincipal(ctx, &payload)
	})
	if err != nil {
		return nil, false, err
	}
	return &payload, hit, nil
}

func (s *DashboardService) loadPrincipal(ctx context.Context, out *dto.PrincipalDashboardResponse) error {
	dbc := read(ctx)
	overall, err := s.progress.CountAllTopics(dbc)
	if err != nil {
		return appErrors.Internal(err, "failed to count topics")
	}
	classes, err := s.progress.CountsByClass(dbc)
	if err != nil {
		return appErrors.Internal(err, "failed to count class progress")
	}
	subjects, err := s.progress.CountsBySubject(dbc)
	if err != nil {
		return appErrors.Internal(err, "failed to count subject progress")
	}

	out.TotalTopics = overall.Total
	out.CompletedTopics = overall.Completed
	out.OverallProgress = Percentage(overall.Completed, overall.Total)
	out.Classes = make([]dto.ProgressEntry, len(classes))
	for i, c := range classes {
		out.Classes[i] = dto.ProgressEntry{ID: c.ID, Name: c.Name, Progress: Percentage(c.Completed, c.Total)}
	}
	out.Subjects = make([]dto.ProgressEntry, len(subjects))
	for i, sub := range subjects {
		out.Subjects[i] = dto.ProgressEntry{
			ID:       sub.ID,
			Name:     fmt.Sprintf("%s (%s)", sub.Name, sub.ClassName),
			Progress: Percentage(sub.Completed, sub.Total),
		}
	}
	return nil
}
