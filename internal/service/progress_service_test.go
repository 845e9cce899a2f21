package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type progressCounterStub struct {
	counts map[models.ProgressKind]models.TopicCounts
	err    error
}

func (s *progressCounterStub) CountTopics(dbc dbctx.Context, kind models.ProgressKind, id int64) (models.TopicCounts, error) {
	if s.err != nil {
		return models.TopicCounts{}, s.err
	}
	return s.counts[kind], nil
}

func TestPercentage(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 5, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 12},
		{3, 8, 38},
		{5, 8, 62},
		{1, 200, 0},
		{3, 200, 2},
		{4, 4, 100},
		{7, 4, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Percentage(tc.completed, tc.total), "%d/%d", tc.completed, tc.total)
	}
}

func TestPercentageStaysInRange(t *testing.T) {
	for total := 0; total <= 40; total++ {
		for completed := 0; completed <= total; completed++ {
			p := Percentage(completed, total)
			assert.GreaterOrEqual(t, p, 0)
			assert.LessOrEqual(t, p, 100)
		}
	}
}

func TestProgressServiceCalculate(t *testing.T) {
	repo := &progressCounterStub{counts: map[models.ProgressKind]models.TopicCounts{
		models.ProgressSubject: {Total: 2, Completed: 1},
		models.ProgressChapter: {Total: 2, Completed: 1},
	}}
	svc := NewProgressService(repo)

	subject, err := svc.Calculate(context.Background(), models.ProgressSubject, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, subject)

	chapter, err := svc.Calculate(context.Background(), models.ProgressChapter, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, chapter)

	empty, err := svc.Calculate(context.Background(), models.ProgressClass, 9)
	require.NoError(t, err)
	assert.Equal(t, 0, empty)
}

func TestProgressServiceCalculateErrors(t *testing.T) {
	svc := NewProgressService(&progressCounterStub{err: errors.New("db down")})

	_, err := svc.Calculate(context.Background(), models.ProgressKind("school"), 1)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Calculate(context.Background(), models.ProgressSubject, 1)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
