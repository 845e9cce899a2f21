package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

// SyllabusRepository persists chapters and topics and reads the syllabus tree.
type SyllabusRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewSyllabusRepository constructs the repository.
func NewSyllabusRepository(db *sqlx.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// FindChapter returns a chapter by id.
func (r *SyllabusRepository) FindChapter(dbc dbctx.Context, id int64) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &chapter, "SELECT id, name, subject_id FROM chapters WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// ChapterOptions lists chapters labelled with their subject and class.
func (r *SyllabusRepository) ChapterOptions(dbc dbctx.Context) ([]models.Option, error) {
	const query = `SELECT ch.id, ch.name || ' (' || s.name || ', ' || c.name || ')' AS name
FROM chapters ch
JOIN subjects s ON s.id = ch.subject_id
JOIN classes c ON c.id = s.class_id
ORDER BY LENGTH(c.name), c.name, s.name, ch.id`
	var options []models.Option
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &options, query); err != nil {
		return nil, fmt.Errorf("list chapter options: %w", err)
	}
	return options, nil
}

// CreateChapter inserts a chapter.
func (r *SyllabusRepository) CreateChapter(dbc dbctx.Context, chapter *models.Chapter) error {
	if err := dbc.Executor(r.db).QueryRowxContext(dbc.Context(),
		"INSERT INTO chapters (name, subject_id) VALUES ($1, $2) RETURNING id", chapter.Name, chapter.SubjectID,
	).Scan(&chapter.ID); err != nil {
		return wrapWrite("create chapter", err)
	}
	return nil
}

// CreateTopic inserts a topic.
func (r *SyllabusRepository) CreateTopic(dbc dbctx.Context, topic *models.Topic) error {
	if err := dbc.Executor(r.db).QueryRowxContext(dbc.Context(),
		"INSERT INTO topics (name, chapter_id) VALUES ($1, $2) RETURNING id", topic.Name, topic.ChapterID,
	).Scan(&topic.ID); err != nil {
		return wrapWrite("create topic", err)
	}
	return nil
}

// FindTopicScope resolves the chapter, subject and class owning a topic.
func (r *SyllabusRepository) FindTopicScope(dbc dbctx.Context, topicID int64) (*models.TopicScope, error) {
	const query = `SELECT t.id AS topic_id, ch.id AS chapter_id, s.id AS subject_id, s.class_id
FROM topics t
JOIN chapters ch ON ch.id = t.chapter_id
JOIN subjects s ON s.id = ch.subject_id
WHERE t.id = $1`
	var scope models.TopicScope
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &scope, query, topicID); err != nil {
		return nil, err
	}
	return &scope, nil
}

// Tree returns the flattened syllabus for the given subjects, or for every
// subject when subjectIDs is empty.
func (r *SyllabusRepository) Tree(dbc dbctx.Context, subjectIDs []int64) ([]models.SyllabusRow, error) {
	q := r.sb.Select(
		"c.id AS class_id", "c.name AS class_name",
		"s.id AS subject_id", "s.name AS subject_name",
		"ch.id AS chapter_id", "ch.name AS chapter_name",
		"t.id AS topic_id", "t.name AS topic_name",
		"COALESCE(tc.is_completed, FALSE) AS is_completed", "tc.completion_date",
	).
		From("subjects s").
		Join("classes c ON c.id = s.class_id").
		LeftJoin("chapters ch ON ch.subject_id = s.id").
		LeftJoin("topics t ON t.chapter_id = ch.id").
		LeftJoin("topic_completions tc ON tc.topic_id = t.id").
		OrderBy("LENGTH(c.name)", "c.name", "s.name", "s.id", "ch.id", "t.id")
	if len(subjectIDs) > 0 {
		q = q.Where(squirrel.Eq{"s.id": subjectIDs})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build syllabus tree: %w", err)
	}
	var rows []models.SyllabusRow
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load syllabus tree: %w", err)
	}
	return rows, nil
}
