package dto

import "time"

// SyllabusClass is the top level of the syllabus tree.
type SyllabusClass struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Subjects []SyllabusSubject `json:"subjects"`
}

// SyllabusSubject carries subject progress with its chapters.
type SyllabusSubject struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	ClassID         int64             `json:"class_id"`
	ClassName       string            `json:"class_name"`
	Progress        int               `json:"progress"`
	TotalTopics     int               `json:"total_topics"`
	CompletedTopics int               `json:"completed_topics"`
	Chapters        []SyllabusChapter `json:"chapters"`
}

// SyllabusChapter carries chapter progress with its topics.
type SyllabusChapter struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Progress        int             `json:"progress"`
	TotalTopics     int             `json:"total_topics"`
	CompletedTopics int             `json:"completed_topics"`
	Topics          []SyllabusTopic `json:"topics"`
}

// SyllabusTopic is a leaf of the syllabus tree.
type SyllabusTopic struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	IsCompleted    bool       `json:"is_completed"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
}
