package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dertown/dertown-api/internal/models"
	"github.com/dertown/dertown-api/internal/timezone"
	"github.com/dertown/dertown-api/pkg/export"
	appErrors "github.com/dertown/dertown-api/pkg/errors"
)

// Export formats accepted by the admin events export.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders the upcoming approved events as downloadable
// CSV or PDF documents for the admin dashboard.
type ExportService struct {
	events eventRepository
	conv   *timezone.Converter
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(events eventRepository, conv *timezone.Converter, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{events: events, conv: conv, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

var exportHeaders = []string{"Title", "Start Date", "Start Time", "End Date", "End Time", "Location", "Organization", "Cost", "Website"}

// UpcomingEvents renders all current and future approved events in the
// requested format. It returns the document, a filename, and its media
// type.
func (s *ExportService) UpcomingEvents(ctx context.Context, format string) ([]byte, string, string, error) {
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	rows, err := s.events.ListCalendar(ctx, s.conv.Today(s.now()))
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load events for export")
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, exportRow(row))
	}

	stamp := s.conv.Today(s.now())
	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, fmt.Sprintf("upcoming-events-%s.csv", stamp), "text/csv", nil
	default:
		payload, err := s.pdf.Render(dataset, "Upcoming Events")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, fmt.Sprintf("upcoming-events-%s.pdf", stamp), "application/pdf", nil
	}
}

func exportRow(row models.EventDetail) map[string]string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return map[string]string{
		"Title":        row.Title,
		"Start Date":   row.StartDate,
		"Start Time":   deref(row.StartTime),
		"End Date":     deref(row.EndDate),
		"End Time":     deref(row.EndTime),
		"Location":     deref(row.LocationName),
		"Organization": deref(row.OrganizationName),
		"Cost":         deref(row.Cost),
		"Website":      deref(row.Website),
	}
}
