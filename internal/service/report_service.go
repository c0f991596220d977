package service

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deskhive/support-desk/internal/domain"
	"github.com/deskhive/support-desk/internal/events"
	"github.com/deskhive/support-desk/internal/pagination"
	apperrors "github.com/deskhive/support-desk/pkg/util/errorutil"
)

// Report formats accepted by GenerateRequestReports.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

const reportCacheKeyPrefix = "reports:"

// ReportCache stores generated documents for a short TTL. A nil cache
// disables caching.
type ReportCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// Document is a fully assembled report body.
type Document struct {
	Format      string
	ContentType string
	FileName    string
	Body        []byte
}

// ReportService assembles closed-ticket reports as CSV or PDF.
type ReportService struct {
	paginator  *pagination.Paginator[domain.PopulatedTicket]
	cache      ReportCache
	cacheTTL   time.Duration
	maxRows    int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	TicketSource pagination.Source[domain.PopulatedTicket]
	Cache        ReportCache
	CacheTTL     time.Duration
	MaxRows      int
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// reportRow is the per-ticket field projection both encoders share.
type reportRow struct {
	ID     string `csv:"_id"`
	Status string `csv:"status"`
	Issue  string `csv:"issue"`
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	maxRows := deps.MaxRows
	if maxRows <= 0 {
		maxRows = 10000
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		paginator:  pagination.New[domain.PopulatedTicket](deps.TicketSource, maxRows),
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		maxRows:    maxRows,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// GenerateRequestReports assembles the closed-ticket report in the
// requested format. An unsupported or absent format fails with a
// BadRequest error before any document is produced. Zero matching
// tickets still yield a well-formed document.
func (s *ReportService) GenerateRequestReports(ctx context.Context, format string) (*Document, error) {
	switch format {
	case FormatCSV, FormatPDF:
	default:
		return nil, apperrors.NewValidationError("Please put a document request format in query", nil)
	}

	if doc := s.cached(ctx, format); doc != nil {
		return doc, nil
	}

	rows, err := s.closedTicketRows(ctx)
	if err != nil {
		return nil, err
	}

	var body []byte
	switch format {
	case FormatCSV:
		body, err = encodeCSV(rows)
	case FormatPDF:
		body, err = encodePDF(rows)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	doc := newDocument(format, body)
	s.store(ctx, doc)
	s.publish(ctx, doc, len(rows))
	return doc, nil
}

// closedTicketRows sources the report input through the pagination
// engine: every CLOSED ticket created before now, responses populated.
// The set is paged through in maxRows batches until exhausted, so the
// document always covers the full closed set. The one-month lookback is
// the caller's concern, not enforced here.
func (s *ReportService) closedTicketRows(ctx context.Context) ([]reportRow, error) {
	filter := pagination.Filter{
		"status":         string(domain.TicketStatusClosed),
		"created_before": time.Now(),
	}

	var rows []reportRow
	for page := 1; ; page++ {
		opts := pagination.Options{
			Filter:   filter,
			Page:     strconv.Itoa(page),
			Limit:    strconv.Itoa(s.maxRows),
			Populate: true,
		}
		result := s.paginator.Paginate(ctx, opts, nil, nil)
		if result.Status != pagination.StatusSuccess {
			return nil, apperrors.NewInternalError(nil)
		}

		for _, ticket := range result.Data {
			rows = append(rows, reportRow{
				ID:     ticket.ID,
				Status: string(ticket.Status),
				Issue:  ticket.Issue,
			})
		}

		if !result.Meta.Next || len(result.Data) == 0 {
			break
		}
	}
	if rows == nil {
		rows = []reportRow{}
	}
	return rows, nil
}

func encodeCSV(rows []reportRow) ([]byte, error) {
	return gocsv.MarshalBytes(&rows)
}

// encodePDF lays the report out as a title line, one block per ticket
// and a separator, finalized into a single buffer. No partial output is
// observable and there is no cancellation once assembly starts.
func encodePDF(rows []reportRow) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	pdf.MultiCell(0, 6, "Closed request reports from the last one month", "", "L", false)
	pdf.Ln(4)
	for _, row := range rows {
		pdf.MultiCell(0, 6, "_id: "+row.ID, "", "L", false)
		pdf.MultiCell(0, 6, "status: "+row.Status, "", "L", false)
		pdf.MultiCell(0, 6, "issue: "+row.Issue, "", "L", false)
		pdf.MultiCell(0, 6, "----------------------", "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newDocument(format string, body []byte) *Document {
	doc := &Document{Format: format, Body: body}
	switch format {
	case FormatCSV:
		doc.ContentType = "text/csv"
		doc.FileName = "data.csv"
	case FormatPDF:
		doc.ContentType = "application/pdf"
		doc.FileName = "data.pdf"
	}
	return doc
}

func (s *ReportService) cached(ctx context.Context, format string) *Document {
	if s.cache == nil {
		return nil
	}
	body, err := s.cache.GetBytes(ctx, reportCacheKeyPrefix+format)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.Error(err))
		return nil
	}
	if body == nil {
		return nil
	}
	return newDocument(format, body)
}

func (s *ReportService) store(ctx context.Context, doc *Document) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.SetBytes(ctx, reportCacheKeyPrefix+doc.Format, doc.Body, s.cacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.Error(err))
	}
}

func (s *ReportService) publish(ctx context.Context, doc *Document, rows int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventReportGenerated,
		Timestamp: time.Now(),
		Payload: events.ReportGeneratedPayload{
			Format: doc.Format,
			Bytes:  len(doc.Body),
			Rows:   rows,
		},
	})
}
