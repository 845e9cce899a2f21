package service

import (
	"context"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

// Percentage converts topic counts into a whole percentage in [0,100].
// Halves round to the nearest even integer, so 1/8 is 12 and 3/8 is 38.
// A zero total yields 0.
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	q, r := completed*100/total, completed*100%total
	switch {
	case 2*r > total:
		q++
	case 2*r == total:
		q += q % 2
	}
	return q
}

type progressCounter interface {
	CountTopics(dbc dbctx.Context, kind models.ProgressKind, id int64) (models.TopicCounts, error)
}

// ProgressService derives completion percentages for syllabus entities.
type ProgressService struct {
	repo progressCounter
}

// NewProgressService constructs a ProgressService.
func NewProgressService(repo progressCounter) *ProgressService {
	return &ProgressService{repo: repo}
}

// Calculate returns the percentage of completed topics under the subject,
// chapter or class identified by id.
func (s *ProgressService) Calculate(ctx context.Context, kind models.ProgressKind, id int64) (int, error) {
	switch kind {
	case models.ProgressSubject, models.ProgressChapter, models.ProgressClass:
	default:
		return 0, appErrors.Clone(appErrors.ErrValidation, "unknown progress kind")
	}
	counts, err := s.repo.CountTopics(read(ctx), kind, id)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to count topics")
	}
	return Percentage(counts.Completed, counts.Total), nil
}
