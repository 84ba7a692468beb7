package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/rht/casedesk/internal/models"
)

const listColumns = `id, created_at, status, reference, complainant, respondent, property, complaint, representative`

// buildListQuery renders the listing predicate as SQL. Nil filter fields are
// left out of the WHERE clause entirely.
func buildListQuery(f models.CaseFilter, loc *time.Location) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != nil {
		conds = append(conds, "status = "+arg(*f.Status))
	}
	if f.ComplaintType != nil {
		conds = append(conds, "complaint @> "+arg(map[string]string{"type": *f.ComplaintType})+"::jsonb")
	}
	lower, upper := f.Bounds(loc)
	if !lower.IsZero() {
		conds = append(conds, "created_at >= "+arg(lower))
	}
	if !upper.IsZero() {
		conds = append(conds, "created_at < "+arg(upper))
	}

	var b strings.Builder
	b.WriteString("SELECT " + listColumns + " FROM complaints")
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC")
	return b.String(), args
}
