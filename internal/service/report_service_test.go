package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/sma-syllabus-api/internal/dto"
	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
	"github.com/noah-isme/sma-syllabus-api/pkg/mail"
)

type reportRepoStub struct {
	rows    []models.ProgressReportRow
	filters []models.ReportFilter
}

func (s *reportRepoStub) Report(dbc dbctx.Context, filter models.ReportFilter) ([]models.ProgressReportRow, error) {
	s.filters = append(s.filters, filter)
	out := make([]models.ProgressReportRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

type archiveStub struct {
	created []models.EmailReport
	err     error
}

func (a *archiveStub) Create(dbc dbctx.Context, report *models.EmailReport) error {
	if a.err != nil {
		return a.err
	}
	report.ID = int64(len(a.created) + 1)
	a.created = append(a.created, *report)
	return nil
}

func (a *archiveStub) ListByPrincipal(dbc dbctx.Context, principalID int64, limit int) ([]models.EmailReport, error) {
	return a.created, nil
}

type classOptionsStub []models.Option

func (c classOptionsStub) Options(ctx context.Context) ([]models.Option, error) { return c, nil }

type mailerStub struct {
	sent []mail.Message
	err  error
}

func (m *mailerStub) Send(ctx context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type reportFixture struct {
	svc     *ReportService
	repo    *reportRepoStub
	archive *archiveStub
	mailer  *mailerStub
}

func newReportFixture() reportFixture {
	repo := &reportRepoStub{rows: []models.ProgressReportRow{
		{TeacherName: "Teacher One", ClassName: "Class 7", SubjectName: "English", TotalTopics: 2, CompletedTopics: 1},
		{TeacherName: "Teacher One", ClassName: "Class 7", SubjectName: "Science", TotalTopics: 3, CompletedTopics: 1},
	}}
	archive := &archiveStub{}
	mailer := &mailerStub{}
	svc := NewReportService(ReportServiceParams{
		Reports: repo,
		Archive: archive,
		Classes: classOptionsStub{{ID: 1, Name: "Class 7"}},
		Mailer:  mailer,
		Tx:      &txStub{},
	})
	svc.now = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }
	return reportFixture{svc: svc, repo: repo, archive: archive, mailer: mailer}
}

func TestReportServiceRowsComputeProgress(t *testing.T) {
	f := newReportFixture()

	page, err := f.svc.Page(context.Background(), models.ReportFilter{ClassID: int64Ptr(1)})
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, 50, page.Rows[0].Progress)
	assert.Equal(t, 33, page.Rows[1].Progress)
	assert.Equal(t, int64(1), *page.ClassID)
	assert.Len(t, page.Classes, 1)
	assert.Equal(t, int64(1), *f.repo.filters[0].ClassID)
}

func TestReportServiceLines(t *testing.T) {
	lines := reportLines([]models.ProgressReportRow{{TeacherName: "T", ClassName: "Class 7", SubjectName: "English", TotalTopics: 2, CompletedTopics: 1, Progress: 50}})
	assert.Equal(t, []string{"T | Class 7 | English | 1/2 (50%)"}, lines)
}

func TestReportServiceRenderFormats(t *testing.T) {
	f := newReportFixture()

	pdf, err := f.svc.Render(context.Background(), models.ReportFilter{}, ReportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "progress_report.pdf", pdf.Filename)
	assert.True(t, bytes.HasPrefix(pdf.Body, []byte("%PDF")))

	xlsx, err := f.svc.Render(context.Background(), models.ReportFilter{}, ReportFormatExcel)
	require.NoError(t, err)
	assert.Equal(t, "progress_report.xlsx", xlsx.Filename)
	book, err := excelize.OpenReader(bytes.NewReader(xlsx.Body))
	require.NoError(t, err)
	defer book.Close()
	header, err := book.GetCellValue("Progress Report", "F1")
	require.NoError(t, err)
	assert.Equal(t, "Progress %", header)
	value, err := book.GetCellValue("Progress Report", "F3")
	require.NoError(t, err)
	assert.Equal(t, "33%", value)

	csv, err := f.svc.Render(context.Background(), models.ReportFilter{}, ReportFormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(csv.Body), "Teacher One,Class 7,English,2,1,50%")

	_, err = f.svc.Render(context.Background(), models.ReportFilter{}, ReportFormat("docx"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestReportServiceEmailSendsThenArchives(t *testing.T) {
	f := newReportFixture()

	report, err := f.svc.Email(context.Background(), 3, dto.EmailReportRequest{To: []string{" board@school.test", "head@school.test"}})
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, []string{"board@school.test", "head@school.test"}, msg.To)
	assert.Equal(t, "Syllabus Progress Report - 2024-03-05", msg.Subject)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "progress_report.pdf", msg.Attachments[0].Filename)

	require.Len(t, f.archive.created, 1)
	assert.Equal(t, int64(1), report.ID)
	assert.Equal(t, "board@school.test, head@school.test", report.Recipients)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), report.ReportDate)

	var snapshot struct {
		Rows []models.ProgressReportRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(report.ReportData, &snapshot))
	assert.Len(t, snapshot.Rows, 2)
}

func TestReportServiceEmailFailureArchivesNothing(t *testing.T) {
	f := newReportFixture()
	f.mailer.err = errors.New("sendgrid responded 401")

	_, err := f.svc.Email(context.Background(), 3, dto.EmailReportRequest{To: []string{"board@school.test"}})
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
	assert.Empty(t, f.archive.created)

	f.mailer.err = mail.ErrNotConfigured
	_, err = f.svc.Email(context.Background(), 3, dto.EmailReportRequest{To: []string{"board@school.test"}})
	assert.Equal(t, "email delivery is not configured", appErrors.FromError(err).Message)
}

func TestReportServiceEmailValidation(t *testing.T) {
	f := newReportFixture()

	_, err := f.svc.Email(context.Background(), 3, dto.EmailReportRequest{To: []string{"not-an-email"}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = f.svc.Email(context.Background(), 3, dto.EmailReportRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.mailer.sent)
}

func TestReportServiceArchiveFailureIsNotFatal(t *testing.T) {
	f := newReportFixture()
	f.archive.err = errors.New("disk full")

	report, err := f.svc.Email(context.Background(), 3, dto.EmailReportRequest{To: []string{"board@school.test"}})
	require.NoError(t, err)
	assert.Zero(t, report.ID)
	assert.Len(t, f.mailer.sent, 1)
}
