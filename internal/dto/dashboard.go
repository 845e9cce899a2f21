package dto

import "github.com/noah-isme/sma-syllabus-api/internal/models"

// AdminDashboardResponse lists table sizes for the admin landing page.
type AdminDashboardResponse struct {
	Counts models.SystemCounts `json:"counts"`
}

// TeacherDashboardResponse lists every assignment of the teacher with the
// syllabus progress of the assigned subject.
type TeacherDashboardResponse struct {
	Assignments []TeacherDashboardItem `json:"assignments"`
}

// TeacherDashboardItem pairs an assignment with its subject tree.
type TeacherDashboardItem struct {
	Assignment models.TeacherAssignmentDetail `json:"assignment"`
	Subject    SyllabusSubject                `json:"subject"`
}

// PrincipalDashboardResponse aggregates progress across the school.
type PrincipalDashboardResponse struct {
	OverallProgress int             `json:"overall_progress"`
	TotalTopics     int             `json:"total_topics"`
	CompletedTopics int             `json:"completed_topics"`
	Classes         []ProgressEntry `json:"classes"`
	Subjects        []ProgressEntry `json:"subjects"`
}

// ProgressEntry names an entity and its completion percentage.
type ProgressEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}
