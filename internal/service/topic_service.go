package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

// NotAssignedMessage is returned when a teacher edits a subject they do not
// hold an assignment for.
const NotAssignedMessage = "You are not assigned to this subject"

type topicScopeReader interface {
	FindTopicScope(dbc dbctx.Context, topicID int64) (*models.TopicScope, error)
}

type completionRepository interface {
	MarkComplete(dbc dbctx.Context, topicID, teacherID int64, on time.Time) (*models.TopicCompletion, error)
	MarkIncomplete(dbc dbctx.Context, topicID, teacherID int64) (bool, error)
}

type assignmentAuthorizer interface {
	IsAuthorized(dbc dbctx.Context, teacherID, classID, subjectID int64) (bool, error)
}

type toggleRecorder interface {
	RecordTopicToggle(completed bool)
}

// TopicService moves topics between the complete and incomplete states.
type TopicService struct {
	scopes      topicScopeReader
	completions completionRepository
	assignments assignmentAuthorizer
	tx          txRunner
	cache       cacheInvalidator
	metrics     toggleRecorder
	logger      *zap.Logger
	now         func() time.Time
}

// TopicServiceParams groups constructor dependencies.
type TopicServiceParams struct {
	Scopes      topicScopeReader
	Completions completionRepository
	Assignments assignmentAuthorizer
	Tx          txRunner
	Cache       cacheInvalidator
	Metrics     toggleRecorder
	Logger      *zap.Logger
}

// NewTopicService constructs a TopicService.
func NewTopicService(params TopicServiceParams) *TopicService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicService{
		scopes:      params.Scopes,
		completions: params.Completions,
		assignments: params.Assignments,
		tx:          params.Tx,
		cache:       params.Cache,
		metrics:     params.Metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Authorize reports whether the teacher may toggle the topic, without writing.
func (s *TopicService) Authorize(ctx context.Context, teacherID, topicID int64) error {
	return s.authorize(read(ctx), teacherID, topicID)
}

func (s *TopicService) authorize(dbc dbctx.Context, teacherID, topicID int64) error {
	scope, err := s.scopes.FindTopicScope(dbc, topicID)
	if err != nil {
		return lookupError(err, "topic not found", "failed to load topic")
	}
	allowed, err := s.assignments.IsAuthorized(dbc, teacherID, scope.ClassID, scope.SubjectID)
	if err != nil {
		return appErrors.Internal(err, "failed to check assignment")
	}
	if !allowed {
		return appErrors.Clone(appErrors.ErrForbidden, NotAssignedMessage)
	}
	return nil
}

// SetCompletion marks the topic complete for today or clears it. The
// teacher must be assigned to the topic's subject within its class;
// otherwise nothing is written and a forbidden error is returned.
// Clearing a topic that was never completed is a no-op.
func (s *TopicService) SetCompletion(ctx context.Context, teacherID, topicID int64, completed bool) error {
	err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		if err := s.authorize(dbc, teacherID, topicID); err != nil {
			return err
		}

		if completed {
			if _, err := s.completions.MarkComplete(dbc, topicID, teacherID, s.now()); err != nil {
				return appErrors.Internal(err, "could not save topic completion")
			}
			return nil
		}
		if _, err := s.completions.MarkIncomplete(dbc, topicID, teacherID); err != nil {
			return appErrors.Internal(err, "could not save topic completion")
		}
		return nil
	})
	if err != nil {
		return appErrors.FromError(err)
	}

	if s.metrics != nil {
		s.metrics.RecordTopicToggle(completed)
	}
	invalidateDashboards(ctx, s.cache, s.logger)
	s.logger.Debug("topic completion updated",
		zap.Int64("topic_id", topicID),
		zap.Int64("teacher_id", teacherID),
		zap.Bool("completed", completed),
	)
	return nil
}
