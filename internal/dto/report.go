package dto

import "github.com/noah-isme/sma-syllabus-api/internal/models"

// ReportPageResponse is returned by GET /principal/reports.
type ReportPageResponse struct {
	ClassID *int64                     `json:"class_id,omitempty"`
	Classes []models.Option            `json:"classes"`
	Rows    []models.ProgressReportRow `json:"rows"`
}

// EmailReportRequest captures POST /principal/reports/email.
type EmailReportRequest struct {
	To      []string `json:"to" validate:"required,min=1,max=20,dive,required,email"`
	ClassID *int64   `json:"class_id,omitempty" validate:"omitempty,gt=0"`
}
