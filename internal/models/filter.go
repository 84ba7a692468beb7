package models

import (
	"fmt"
	"strings"
	"time"
)

// Sentinels the dashboard sends for "no filter". They are never matched literally.
const (
	AllStatuses = "All Statuses"
	AllTypes    = "All Types"
)

// DateLayout is the wire format of filter dates
const DateLayout = "2006-01-02"

// DateRange restricts created_at to whole calendar days. A zero From or To
// leaves that side open.
type DateRange struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// CaseFilter is the listing predicate. A nil field does not constrain the query.
type CaseFilter struct {
	Status        *string    `json:"status,omitempty"`
	ComplaintType *string    `json:"complaint_type,omitempty"`
	DateRange     *DateRange `json:"date_range,omitempty"`
}

// NewCaseFilter builds a filter from raw dashboard values. Empty strings and
// the "All ..." sentinels become nil; dates use DateLayout in loc.
func NewCaseFilter(status, complaintType, start, end string, loc *time.Location) (CaseFilter, error) {
	var f CaseFilter

	if s := strings.TrimSpace(status); s != "" && s != AllStatuses {
		f.Status = &s
	}
	if t := strings.TrimSpace(complaintType); t != "" && t != AllTypes {
		f.ComplaintType = &t
	}

	var dr DateRange
	if start != "" {
		d, err := time.ParseInLocation(DateLayout, start, loc)
		if err != nil {
			return CaseFilter{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		dr.From = d
	}
	if end != "" {
		d, err := time.ParseInLocation(DateLayout, end, loc)
		if err != nil {
			return CaseFilter{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		dr.To = d
	}
	if !dr.From.IsZero() || !dr.To.IsZero() {
		f.DateRange = &dr
	}

	return f, nil
}

// Bounds returns the created_at window for the date range: lower is the start
// of From's day (inclusive), upper is the start of the day after To (exclusive).
// Zero results mean the side is unbounded.
func (f CaseFilter) Bounds(loc *time.Location) (lower, upper time.Time) {
	if f.DateRange == nil {
		return time.Time{}, time.Time{}
	}
	if !f.DateRange.From.IsZero() {
		lower = startOfDay(f.DateRange.From, loc)
	}
	if !f.DateRange.To.IsZero() {
		upper = startOfDay(f.DateRange.To, loc).AddDate(0, 0, 1)
	}
	return lower, upper
}

// Matches evaluates the filter against a record in memory with the same
// semantics as the SQL predicate.
func (f CaseFilter) Matches(rec *ComplaintRecord, loc *time.Location) bool {
	if f.Status != nil && rec.Status != *f.Status {
		return false
	}
	if f.ComplaintType != nil && rec.Complaint.Type != *f.ComplaintType {
		return false
	}
	lower, upper := f.Bounds(loc)
	if !lower.IsZero() && rec.CreatedAt.Before(lower) {
		return false
	}
	if !upper.IsZero() && !rec.CreatedAt.Before(upper) {
		return false
	}
	return true
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
