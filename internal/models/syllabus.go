package models

import "time"

// Chapter is a syllabus chapter within a subject.
type Chapter struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	SubjectID int64  `db:"subject_id" json:"subject_id"`
}

// Topic is a syllabus unit within a chapter.
type Topic struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	ChapterID int64  `db:"chapter_id" json:"chapter_id"`
}

// TopicScope locates a topic inside the hierarchy.
type TopicScope struct {
	TopicID   int64 `db:"topic_id"`
	ChapterID int64 `db:"chapter_id"`
	SubjectID int64 `db:"subject_id"`
	ClassID   int64 `db:"class_id"`
}

// TopicCompletion records whether a topic has been covered.
type TopicCompletion struct {
	ID             int64      `db:"id" json:"id"`
	TopicID        int64      `db:"topic_id" json:"topic_id"`
	TeacherID      int64      `db:"teacher_id" json:"teacher_id"`
	CompletionDate *time.Time `db:"completion_date" json:"completion_date,omitempty"`
	IsCompleted    bool       `db:"is_completed" json:"is_completed"`
}

// SyllabusRow is one flattened topic row of the syllabus tree. Chapter and
// topic columns are nullable because subjects and chapters may be empty.
type SyllabusRow struct {
	ClassID        int64      `db:"class_id"`
	ClassName      string     `db:"class_name"`
	SubjectID      int64      `db:"subject_id"`
	SubjectName    string     `db:"subject_name"`
	ChapterID      *int64     `db:"chapter_id"`
	ChapterName    *string    `db:"chapter_name"`
	TopicID        *int64     `db:"topic_id"`
	TopicName      *string    `db:"topic_name"`
	IsCompleted    bool       `db:"is_completed"`
	CompletionDate *time.Time `db:"completion_date"`
}
