package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
	"github.com/noah-isme/sma-syllabus-api/pkg/export"
	"github.com/noah-isme/sma-syllabus-api/pkg/mail"
	"github.com/noah-isme/sma-syllabus-api/pkg/middleware/requestid"
)

// ReportFormat names a downloadable rendering of the progress report.
type ReportFormat string

const (
	ReportFormatPDF   ReportFormat = "pdf"
	ReportFormatExcel ReportFormat = "excel"
	ReportFormatCSV   ReportFormat = "csv"
)

const reportSheet = "Progress Report"

var reportHeaders = []string{"Teacher", "Class", "Subject", "Total Topics", "Completed Topics", "Progress %"}

type reportRepository interface {
	Report(dbc dbctx.Context, filter models.ReportFilter) ([]models.ProgressReportRow, error)
}

type emailArchive interface {
	Create(dbc dbctx.Context, report *models.EmailReport) error
	ListByPrincipal(dbc dbctx.Context, principalID int64, limit int) ([]models.EmailReport, error)
}

type classOptionLister interface {
	Options(ctx context.Context) ([]models.Option, error)
}

type mailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

type pdfRenderer interface {
	Render(title string, lines []string) ([]byte, error)
}

type sheetRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type reportMetrics interface {
	RecordReportExport(format string)
	RecordReportEmail(sent bool)
}

// Document is a rendered report ready for download or attachment.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportServiceConfig customises rendered documents.
type ReportServiceConfig struct {
	Title      string
	SchoolName string
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Reports   reportRepository
	Archive   emailArchive
	Classes   classOptionLister
	Mailer    mailSender
	Tx        txRunner
	PDF       pdfRenderer
	Sheet     sheetRenderer
	CSV       csvRenderer
	Metrics   reportMetrics
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    ReportServiceConfig
}

// ReportService aggregates per-teacher progress and renders it.
type ReportService struct {
	reports   reportRepository
	archive   emailArchive
	classes   classOptionLister
	mailer    mailSender
	tx        txRunner
	pdf       pdfRenderer
	sheet     sheetRenderer
	csv       csvRenderer
	metrics   reportMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
	now       func() time.Time
}

// NewReportService constructs a ReportService, defaulting the renderers.
func NewReportService(params ReportServiceParams) *ReportService {
	cfg := params.Config
	if cfg.Title == "" {
		cfg.Title = "Syllabus Progress Report"
	}
	svc := &ReportService{
		reports:   params.Reports,
		archive:   params.Archive,
		classes:   params.Classes,
		mailer:    params.Mailer,
		tx:        params.Tx,
		pdf:       params.PDF,
		sheet:     params.Sheet,
		csv:       params.CSV,
		metrics:   params.Metrics,
		validator: params.Validator,
		logger:    params.Logger,
		cfg:       cfg,
		now:       time.Now,
	}
	if svc.pdf == nil {
		svc.pdf = export.NewPDFExporter()
	}
	if svc.sheet == nil {
		svc.sheet = export.NewXLSXExporter()
	}
	if svc.csv == nil {
		svc.csv = export.NewCSVExporter()
	}
	if svc.validator == nil {
		svc.validator = validator.New()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Rows returns one aggregate per (teacher, class, subject) with progress.
func (s *ReportService) Rows(ctx context.Context, filter models.ReportFilter) ([]models.ProgressReportRow, error) {
	rows, err := s.reports.Report(read(ctx), filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to build progress report")
	}
	for i := range rows {
		rows[i].Progress = Percentage(rows[i].CompletedTopics, rows[i].TotalTopics)
	}
	if rows == nil {
		rows = []models.ProgressReportRow{}
	}
	return rows, nil
}

// Page returns the report rows together with the class filter options.
func (s *ReportService) Page(ctx context.Context, filter models.ReportFilter) (*dto.ReportPageResponse, error) {
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return nil, err
	}
	classes, err := s.classes.Options(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ReportPageResponse{ClassID: filter.ClassID, Classes: classes, Rows: rows}, nil
}

// Render produces the report in the requested format.
func (s *ReportService) Render(ctx context.Context, filter models.ReportFilter, format ReportFormat) (*Document, error) {
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return nil, err
	}
	doc, err := s.render(rows, format)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordReportExport(string(format))
	}
	return doc, nil
}

// Email renders the PDF report, sends it to every recipient and archives a
// snapshot. Nothing is archived when delivery fails.
func (s *ReportService) Email(ctx context.Context, principalID int64, req dto.EmailReportRequest) (*models.EmailReport, error) {
	for i := range req.To {
		req.To[i] = strings.TrimSpace(req.To[i])
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "provide at least one valid recipient email")
	}

	filter := models.ReportFilter{ClassID: req.ClassID}
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return nil, err
	}
	doc, err := s.render(rows, ReportFormatPDF)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	msg := mail.Message{
		To:          req.To,
		Subject:     fmt.Sprintf("%s - %s", s.title(), now.Format("2006-01-02")),
		TextContent: fmt.Sprintf("Attached is the %s generated on %s. It covers %d teacher assignments.", strings.ToLower(s.cfg.Title), now.Format("2 January 2006"), len(rows)),
		Attachments: []mail.Attachment{{Filename: doc.Filename, ContentType: doc.ContentType, Content: doc.Body}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		if s.metrics != nil {
			s.metrics.RecordReportEmail(false)
		}
		if errors.Is(err, mail.ErrNotConfigured) {
			return nil, appErrors.Clone(appErrors.ErrUnavailable, "email delivery is not configured")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "could not send report email")
	}
	if s.metrics != nil {
		s.metrics.RecordReportEmail(true)
	}

	snapshot, err := json.Marshal(struct {
		ClassID *int64                     `json:"class_id,omitempty"`
		Rows    []models.ProgressReportRow `json:"rows"`
	}{ClassID: req.ClassID, Rows: rows})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to encode report snapshot")
	}

	report := &models.EmailReport{
		PrincipalID: principalID,
		ReportDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Recipients:  strings.Join(req.To, ", "),
		ReportData:  snapshot,
		SentAt:      now,
	}
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.archive.Create(dbc, report)
	}); err != nil {
		s.logger.Warn("report emailed but archiving failed",
			zap.Int64("principal_id", principalID),
			zap.String("request_id", requestid.FromContext(ctx)),
			zap.Error(err))
	}
	return report, nil
}

// EmailHistory lists the principal's archived reports, newest first.
func (s *ReportService) EmailHistory(ctx context.Context, principalID int64, limit int) ([]models.EmailReport, error) {
	reports, err := s.archive.ListByPrincipal(read(ctx), principalID, limit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list emailed reports")
	}
	if reports == nil {
		reports = []models.EmailReport{}
	}
	return reports, nil
}

func (s *ReportService) render(rows []models.ProgressReportRow, format ReportFormat) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch format {
	case ReportFormatPDF:
		var body []byte
		body, err = s.pdf.Render(s.title(), reportLines(rows))
		doc = &Document{Filename: "progress_report.pdf", ContentType: "application/pdf", Body: body}
	case ReportFormatExcel:
		var body []byte
		body, err = s.sheet.Render(reportDataset(rows), reportSheet)
		doc = &Document{Filename: "progress_report.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Body: body}
	case ReportFormatCSV:
		var body []byte
		body, err = s.csv.Render(reportDataset(rows))
		doc = &Document{Filename: "progress_report.csv", ContentType: "text/csv", Body: body}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported report format %q", format))
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render report")
	}
	return doc, nil
}

func (s *ReportService) title() string {
	if s.cfg.SchoolName == "" {
		return s.cfg.Title
	}
	return s.cfg.SchoolName + " " + s.cfg.Title
}

func reportLines(rows []models.ProgressReportRow) []string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s | %s | %s | %d/%d (%d%%)",
			r.TeacherName, r.ClassName, r.SubjectName, r.CompletedTopics, r.TotalTopics, r.Progress)
	}
	return lines
}

func reportDataset(rows []models.ProgressReportRow) export.Dataset {
	data := export.Dataset{Headers: reportHeaders, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		data.AddRow(r.TeacherName, r.ClassName, r.SubjectName,
			strconv.Itoa(r.TotalTopics), strconv.Itoa(r.CompletedTopics), strconv.Itoa(r.Progress)+"%")
	}
	return data
}
