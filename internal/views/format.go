// Package views turns complaint records and intake sessions into display
// structures: table rows, the case detail cards and the review summary.
// Missing values are shown as a dash rather than treated as errors.
package views

import (
	"strings"
	"time"

	"github.com/rht/casedesk/internal/models"
)

// Placeholder stands in for any absent value
const Placeholder = "—"

// Dash returns s, or the placeholder when s is blank
func Dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// NameOf joins title, first and last name, skipping blanks
func NameOf(title, first, last string) string {
	return joinNonEmpty(" ", title, first, last)
}

// AddressLine joins street, suburb and postal code, skipping blanks
func AddressLine(a models.Address) string {
	return joinNonEmpty(", ", a.Street, a.Suburb, a.PostalCode)
}

// FirstPhone returns the first non-empty number in preference order
func FirstPhone(numbers ...string) string {
	for _, n := range numbers {
		if n != "" {
			return n
		}
	}
	return ""
}

// FormatDate renders a date like "Mar 15, 2024"
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("Jan 2, 2006")
}

// FormatDateTime renders a timestamp like "March 15, 2024 at 09:30 AM"
func FormatDateTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("January 2, 2006 at 03:04 PM")
}

// StatusTone picks the badge colour for a status
func StatusTone(status string) string {
	switch strings.ToLower(status) {
	case "submitted":
		return "blue"
	case "under review":
		return "amber"
	case "scheduled":
		return "indigo"
	case "resolved":
		return "emerald"
	default:
		return "slate"
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
