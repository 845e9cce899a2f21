package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

const completedSum = "COALESCE(SUM(CASE WHEN tc.is_completed THEN 1 ELSE 0 END), 0)"

// ProgressRepository reads topic totals used to derive completion percentages.
type ProgressRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewProgressRepository constructs the repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// CountTopics returns total and completed topics under a subject, chapter or
// class. An unknown kind is an error.
func (r *ProgressRepository) CountTopics(dbc dbctx.Context, kind models.ProgressKind, id int64) (models.TopicCounts, error) {
	q := r.sb.Select("COUNT(t.id) AS total", completedSum+" AS completed").
		From("topics t").
		LeftJoin("topic_completions tc ON tc.topic_id = t.id")
	switch kind {
	case models.ProgressChapter:
		q = q.Where(squirrel.Eq{"t.chapter_id": id})
	case models.ProgressSubject:
		q = q.Join("chapters ch ON ch.id = t.chapter_id").Where(squirrel.Eq{"ch.subject_id": id})
	case models.ProgressClass:
		q = q.Join("chapters ch ON ch.id = t.chapter_id").
			Join("subjects s ON s.id = ch.subject_id").
			Where(squirrel.Eq{"s.class_id": id})
	default:
		return models.TopicCounts{}, fmt.Errorf("count topics: unknown progress kind %q", kind)
	}
	return r.counts(dbc, q)
}

// CountAllTopics returns totals across the whole school.
func (r *ProgressRepository) CountAllTopics(dbc dbctx.Context) (models.TopicCounts, error) {
	q := r.sb.Select("COUNT(t.id) AS total", completedSum+" AS completed").
		From("topics t").
		LeftJoin("topic_completions tc ON tc.topic_id = t.id")
	return r.counts(dbc, q)
}

func (r *ProgressRepository) counts(dbc dbctx.Context, q squirrel.SelectBuilder) (models.TopicCounts, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return models.TopicCounts{}, fmt.Errorf("build topic counts: %w", err)
	}
	var counts models.TopicCounts
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &counts, query, args...); err != nil {
		return models.TopicCounts{}, fmt.Errorf("count topics: %w", err)
	}
	return counts, nil
}

// CountsByClass returns topic totals for every class, including empty ones.
func (r *ProgressRepository) CountsByClass(dbc dbctx.Context) ([]models.NamedTopicCounts, error) {
	const query = `SELECT c.id, c.name, c.name AS class_name, COUNT(t.id) AS total, ` + completedSum + ` AS completed
FROM classes c
LEFT JOIN subjects s ON s.class_id = c.id
LEFT JOIN chapters ch ON ch.subject_id = s.id
LEFT JOIN topics t ON t.chapter_id = ch.id
LEFT JOIN topic_completions tc ON tc.topic_id = t.id
GROUP BY c.id, c.name
ORDER BY LENGTH(c.name), c.name`
	var rows []models.NamedTopicCounts
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &rows, query); err != nil {
		return nil, fmt.Errorf("count topics by class: %w", err)
	}
	return rows, nil
}

// CountsBySubject returns topic totals for every subject, including empty ones.
func (r *ProgressRepository) CountsBySubject(dbc dbctx.Context) ([]models.NamedTopicCounts, error) {
	const query = `SELECT s.id, s.name, c.name AS class_name, COUNT(t.id) AS total, ` + completedSum + ` AS completed
FROM subjects s
JOIN classes c ON c.id = s.class_id
LEFT JOIN chapters ch ON ch.subject_id = s.id
LEFT JOIN topics t ON t.chapter_id = ch.id
LEFT JOIN topic_completions tc ON tc.topic_id = t.id
GROUP BY s.id, s.name, c.name
ORDER BY LENGTH(c.name), c.name, s.name`
	var rows []models.NamedTopicCounts
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &rows, query); err != nil {
		return nil, fmt.Errorf("count topics by subject: %w", err)
	}
	return rows, nil
}

// Report aggregates topic totals per (teacher, class, subject). Assignments
// are deduplicated first so a teacher holding several sections of the same
// subject is not double counted. Subjects without topics are omitted.
func (r *ProgressRepository) Report(dbc dbctx.Context, filter models.ReportFilter) ([]models.ProgressReportRow, error) {
	assigned := r.sb.Select("DISTINCT teacher_id", "class_id", "subject_id").From("teacher_assignments")

	q := r.sb.Select(
		"u.id AS teacher_id", "u.full_name AS teacher_name",
		"c.id AS class_id", "c.name AS class_name",
		"s.id AS subject_id", "s.name AS subject_name",
		"COUNT(t.id) AS total_topics", completedSum+" AS completed_topics",
	).
		FromSelect(assigned, "ta").
		Join("users u ON u.id = ta.teacher_id").
		Join("classes c ON c.id = ta.class_id").
		Join("subjects s ON s.id = ta.subject_id").
		Join("chapters ch ON ch.subject_id = s.id").
		Join("topics t ON t.chapter_id = ch.id").
		LeftJoin("topic_completions tc ON tc.topic_id = t.id").
		GroupBy("u.id", "u.full_name", "c.id", "c.name", "s.id", "s.name").
		OrderBy("LENGTH(c.name)", "c.name", "s.name", "u.full_name")
	if filter.ClassID != nil {
		q = q.Where(squirrel.Eq{"c.id": *filter.ClassID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build progress report: %w", err)
	}
	var rows []models.ProgressReportRow
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load progress report: %w", err)
	}
	return rows, nil
}

// SystemCounts summarises table sizes.
func (r *ProgressRepository) SystemCounts(dbc dbctx.Context) (models.SystemCounts, error) {
	const query = `SELECT
    (SELECT COUNT(*) FROM users) AS users,
    (SELECT COUNT(*) FROM users WHERE role = 'teacher') AS teachers,
    (SELECT COUNT(*) FROM classes) AS classes,
    (SELECT COUNT(*) FROM subjects) AS subjects,
    (SELECT COUNT(*) FROM chapters) AS chapters,
    (SELECT COUNT(*) FROM topics) AS topics,
    (SELECT COUNT(*) FROM teacher_assignments) AS assignments`
	var counts models.SystemCounts
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &counts, query); err != nil {
		return models.SystemCounts{}, fmt.Errorf("count system entities: %w", err)
	}
	return counts, nil
}
