package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rht/casedesk/internal/models"
	"go.uber.org/zap"
)

// PageSize is the fixed number of rows per dashboard page
const PageSize = 10

// CaseReader is the query side of the complaints store
type CaseReader interface {
	List(ctx context.Context, f models.CaseFilter) ([]models.ComplaintRecord, error)
	StatusesSince(ctx context.Context, since time.Time) ([]string, error)
}

// CasePage is one page of the filtered listing
type CasePage struct {
	Rows       []models.ComplaintRecord `json:"rows"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	Total      int                      `json:"total"`
	TotalPages int                      `json:"total_pages"`
	From       int                      `json:"from"`
	To         int                      `json:"to"`
}

// CaseService serves the review dashboard
type CaseService struct {
	reader   CaseReader
	location *time.Location
	now      func() time.Time
	logger   *zap.SugaredLogger
}

// NewCaseService creates a new case service. loc decides where calendar days
// and months start.
func NewCaseService(reader CaseReader, loc *time.Location, logger *zap.SugaredLogger) *CaseService {
	return &CaseService{reader: reader, location: loc, now: time.Now, logger: logger}
}

// Location is the zone dates are displayed and filtered in
func (s *CaseService) Location() *time.Location {
	return s.location
}

// List fetches every matching case and returns the requested page
func (s *CaseService) List(ctx context.Context, f models.CaseFilter, page int) (*CasePage, error) {
	rows, err := s.reader.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetch cases: %w", err)
	}
	p := Paginate(rows, page, PageSize)
	return &p, nil
}

// Paginate slices rows into pages of size. page is clamped into range; an
// empty result still has one (empty) page.
func Paginate(rows []models.ComplaintRecord, page, size int) CasePage {
	total := len(rows)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	p := CasePage{
		Rows:       rows[start:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
		To:         end,
	}
	if total > 0 {
		p.From = start + 1
	}
	return p
}

// Stats tallies this month's cases by status
func (s *CaseService) Stats(ctx context.Context) (*models.StatusCounts, error) {
	since := MonthStart(s.now(), s.location)
	statuses, err := s.reader.StatusesSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetch statuses: %w", err)
	}
	counts := Tally(statuses)
	counts.Since = since
	return &counts, nil
}

// MonthStart is midnight on the first day of t's month in loc
func MonthStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// Tally counts the four tracked statuses case-insensitively; others, including
// padded values, are ignored
func Tally(statuses []string) models.StatusCounts {
	var c models.StatusCounts
	for _, st := range statuses {
		switch strings.ToLower(st) {
		case "submitted":
			c.Submitted++
		case "under review":
			c.UnderReview++
		case "scheduled":
			c.Scheduled++
		case "resolved":
			c.Resolved++
		}
	}
	return c
}
