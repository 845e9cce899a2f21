package repository

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

// TopicCompletionRepository persists per-topic completion state.
type TopicCompletionRepository struct {
	db *sqlx.DB
}

// NewTopicCompletionRepository constructs the repository.
func NewTopicCompletionRepository(db *sqlx.DB) *TopicCompletionRepository {
	return &TopicCompletionRepository{db: db}
}

// FindByTopic returns the completion row for a topic.
func (r *TopicCompletionRepository) FindByTopic(dbc dbctx.Context, topicID int64) (*models.TopicCompletion, error) {
	const query = `SELECT id, topic_id, teacher_id, completion_date, is_completed FROM topic_completions WHERE topic_id = $1`
	var completion models.TopicCompletion
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &completion, query, topicID); err != nil {
		return nil, err
	}
	return &completion, nil
}

// MarkComplete creates the completion row or updates it in place. The
// unique topic_id constraint arbitrates concurrent first completions.
func (r *TopicCompletionRepository) MarkComplete(dbc dbctx.Context, topicID, teacherID int64, on time.Time) (*models.TopicCompletion, error) {
	const query = `INSERT INTO topic_completions (topic_id, teacher_id, completion_date, is_completed)
VALUES ($1, $2, $3, TRUE)
ON CONFLICT (topic_id) DO UPDATE
SET teacher_id = EXCLUDED.teacher_id, completion_date = EXCLUDED.completion_date, is_completed = TRUE
RETURNING id, topic_id, teacher_id, completion_date, is_completed`
	var completion models.TopicCompletion
	y, m, d := on.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &completion, query, topicID, teacherID, day); err != nil {
		return nil, fmt.Errorf("mark topic complete: %w", err)
	}
	return &completion, nil
}

// MarkIncomplete clears completion on an existing row. It reports false when
// the topic has never been completed, leaving the store untouched.
func (r *TopicCompletionRepository) MarkIncomplete(dbc dbctx.Context, topicID, teacherID int64) (bool, error) {
	const query = `UPDATE topic_completions SET is_completed = FALSE, completion_date = NULL, teacher_id = $2 WHERE topic_id = $1`
	result, err := dbc.Executor(r.db).ExecContext(dbc.Context(), query, topicID, teacherID)
	if err != nil {
		return false, fmt.Errorf("mark topic incomplete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark topic incomplete rows affected: %w", err)
	}
	return affected > 0, nil
}
