package models

import "time"

// TeacherAssignment grants a teacher authority over a class/subject,
// optionally narrowed to a section or group.
type TeacherAssignment struct {
	ID        int64     `db:"id" json:"id"`
	TeacherID int64     `db:"teacher_id" json:"teacher_id"`
	ClassID   int64     `db:"class_id" json:"class_id"`
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	SectionID *int64    `db:"section_id" json:"section_id,omitempty"`
	GroupID   *int64    `db:"group_id" json:"group_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TeacherAssignmentDetail includes display names for the joined entities.
type TeacherAssignmentDetail struct {
	TeacherAssignment
	TeacherName string  `db:"teacher_name" json:"teacher_name"`
	ClassName   string  `db:"class_name" json:"class_name"`
	SubjectName string  `db:"subject_name" json:"subject_name"`
	SectionName *string `db:"section_name" json:"section_name,omitempty"`
	GroupName   *string `db:"group_name" json:"group_name,omitempty"`
}
