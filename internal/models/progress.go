package models

// ProgressKind names the entity a progress figure is computed for.
type ProgressKind string

const (
	ProgressSubject ProgressKind = "subject"
	ProgressChapter ProgressKind = "chapter"
	ProgressClass   ProgressKind = "class"
)

// TopicCounts holds raw topic totals under an entity.
type TopicCounts struct {
	Total     int `db:"total" json:"total_topics"`
	Completed int `db:"completed" json:"completed_topics"`
}

// NamedTopicCounts pairs topic totals with the entity they belong to.
type NamedTopicCounts struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	ClassName string `db:"class_name"`
	TopicCounts
}

// ReportFilter narrows the progress report.
type ReportFilter struct {
	ClassID *int64
}

// ProgressReportRow is one (teacher, class, subject) aggregate.
type ProgressReportRow struct {
	TeacherID       int64  `db:"teacher_id" json:"teacher_id"`
	TeacherName     string `db:"teacher_name" json:"teacher_name"`
	ClassID         int64  `db:"class_id" json:"class_id"`
	ClassName       string `db:"class_name" json:"class_name"`
	SubjectID       int64  `db:"subject_id" json:"subject_id"`
	SubjectName     string `db:"subject_name" json:"subject_name"`
	TotalTopics     int    `db:"total_topics" json:"total_topics"`
	CompletedTopics int    `db:"completed_topics" json:"completed_topics"`
	Progress        int    `db:"-" json:"progress"`
}

// SystemCounts summarises table sizes for the admin dashboard.
type SystemCounts struct {
	Users       int `db:"users" json:"users"`
	Teachers    int `db:"teachers" json:"teachers"`
	Classes     int `db:"classes" json:"classes"`
	Subjects    int `db:"subjects" json:"subjects"`
	Chapters    int `db:"chapters" json:"chapters"`
	Topics      int `db:"topics" json:"topics"`
	Assignments int `db:"assignments" json:"assignments"`
}
