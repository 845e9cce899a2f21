package repository

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

// EmailReportRepository archives emailed reports.
type EmailReportRepository struct {
	db *sqlx.DB
}

// NewEmailReportRepository constructs the repository.
func NewEmailReportRepository(db *sqlx.DB) *EmailReportRepository {
	return &EmailReportRepository{db: db}
}

// Create stores an archived report.
func (r *EmailReportRepository) Create(dbc dbctx.Context, report *models.EmailReport) error {
	if report.SentAt.IsZero() {
		report.SentAt = time.Now().UTC()
	}
	const query = `INSERT INTO email_reports (principal_id, report_date, recipients, report_data, sent_at)
VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := dbc.Executor(r.db).QueryRowxContext(dbc.Context(), query,
		report.PrincipalID, report.ReportDate, report.Recipients, []byte(report.ReportData), report.SentAt,
	).Scan(&report.ID); err != nil {
		return wrapWrite("create email report", err)
	}
	return nil
}

// ListByPrincipal returns archived reports newest first.
func (r *EmailReportRepository) ListByPrincipal(dbc dbctx.Context, principalID int64, limit int) ([]models.EmailReport, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, principal_id, report_date, recipients, report_data, sent_at
FROM email_reports WHERE principal_id = $1 ORDER BY sent_at DESC LIMIT $2`
	var reports []models.EmailReport
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &reports, query, principalID, limit); err != nil {
		return nil, fmt.Errorf("list email reports: %w", err)
	}
	return reports, nil
}
