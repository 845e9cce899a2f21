package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type scopeStub map[int64]models.TopicScope

func (s scopeStub) FindTopicScope(dbc dbctx.Context, topicID int64) (*models.TopicScope, error) {
	scope, ok := s[topicID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &scope, nil
}

// memCompletions mirrors the upsert semantics of the completion table.
type memCompletions struct {
	rows map[int64]*models.TopicCompletion
	err  error
}

func (m *memCompletions) MarkComplete(dbc dbctx.Context, topicID, teacherID int64, on time.Time) (*models.TopicCompletion, error) {
	if m.err != nil {
		return nil, m.err
	}
	day := time.Date(on.Year(), on.Month(), on.Day(), 0, 0, 0, 0, time.UTC)
	row, ok := m.rows[topicID]
	if !ok {
		row = &models.TopicCompletion{ID: int64(len(m.rows) + 1), TopicID: topicID}
		m.rows[topicID] = row
	}
	row.TeacherID = teacherID
	row.IsCompleted = true
	row.CompletionDate = &day
	return row, nil
}

func (m *memCompletions) MarkIncomplete(dbc dbctx.Context, topicID, teacherID int64) (bool, error) {
	row, ok := m.rows[topicID]
	if !ok {
		return false, nil
	}
	row.IsCompleted = false
	row.CompletionDate = nil
	row.TeacherID = teacherID
	return true, nil
}

type toggleCounter struct {
	completed, cleared int
}

func (c *toggleCounter) RecordTopicToggle(completed bool) {
	if completed {
		c.completed++
	} else {
		c.cleared++
	}
}

type topicFixture struct {
	svc         *TopicService
	completions *memCompletions
	cache       *invalidatorStub
	metrics     *toggleCounter
}

func newTopicFixture() topicFixture {
	assignments := &memAssignmentRepo{rows: []models.TeacherAssignment{{ID: 1, TeacherID: 2, ClassID: 1, SubjectID: 4}}}
	completions := &memCompletions{rows: map[int64]*models.TopicCompletion{}}
	cache := &invalidatorStub{}
	metrics := &toggleCounter{}
	svc := NewTopicService(TopicServiceParams{
		Scopes:      scopeStub{11: {TopicID: 11, ChapterID: 5, SubjectID: 4, ClassID: 1}, 12: {TopicID: 12, ChapterID: 6, SubjectID: 8, ClassID: 2}},
		Completions: completions,
		Assignments: assignments,
		Tx:          &txStub{},
		Cache:       cache,
		Metrics:     metrics,
	})
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC) }
	return topicFixture{svc: svc, completions: completions, cache: cache, metrics: metrics}
}

func TestTopicServiceCompleteThenClearKeepsRow(t *testing.T) {
	f := newTopicFixture()

	require.NoError(t, f.svc.SetCompletion(context.Background(), 2, 11, true))
	row := f.completions.rows[11]
	require.NotNil(t, row)
	assert.True(t, row.IsCompleted)
	require.NotNil(t, row.CompletionDate)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *row.CompletionDate)

	require.NoError(t, f.svc.SetCompletion(context.Background(), 2, 11, false))
	row = f.completions.rows[11]
	require.NotNil(t, row)
	assert.False(t, row.IsCompleted)
	assert.Nil(t, row.CompletionDate)

	assert.Equal(t, 1, f.metrics.completed)
	assert.Equal(t, 1, f.metrics.cleared)
	assert.Len(t, f.cache.patterns, 2)
}

func TestTopicServiceClearNeverCompletedIsNoop(t *testing.T) {
	f := newTopicFixture()

	require.NoError(t, f.svc.SetCompletion(context.Background(), 2, 11, false))
	assert.Empty(t, f.completions.rows)
}

func TestTopicServiceRejectsUnassignedTeacher(t *testing.T) {
	f := newTopicFixture()

	err := f.svc.SetCompletion(context.Background(), 2, 12, true)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Equal(t, NotAssignedMessage, appErr.Message)
	assert.Empty(t, f.completions.rows)
	assert.Zero(t, f.metrics.completed)
	assert.Empty(t, f.cache.patterns)
}

func TestTopicServiceOtherTeacherCannotClear(t *testing.T) {
	f := newTopicFixture()
	require.NoError(t, f.svc.SetCompletion(context.Background(), 2, 11, true))

	err := f.svc.SetCompletion(context.Background(), 3, 11, false)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.True(t, f.completions.rows[11].IsCompleted)
}

func TestTopicServiceUnknownTopic(t *testing.T) {
	f := newTopicFixture()

	assert.ErrorIs(t, f.svc.SetCompletion(context.Background(), 2, 99, true), appErrors.ErrNotFound)
}

func TestTopicServiceWriteFailure(t *testing.T) {
	f := newTopicFixture()
	f.completions.err = errors.New("deadlock")

	err := f.svc.SetCompletion(context.Background(), 2, 11, true)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.Zero(t, f.metrics.completed)
}

func TestTopicServiceAuthorize(t *testing.T) {
	f := newTopicFixture()
	ctx := context.Background()

	assert.NoError(t, f.svc.Authorize(ctx, 2, 11))
	assert.ErrorIs(t, f.svc.Authorize(ctx, 2, 12), appErrors.ErrForbidden)
	assert.ErrorIs(t, f.svc.Authorize(ctx, 2, 99), appErrors.ErrNotFound)
	assert.Empty(t, f.completions.rows)
}
