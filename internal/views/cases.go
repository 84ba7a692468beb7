package views

import (
	"time"

	"github.com/google/uuid"
	"github.com/rht/casedesk/internal/models"
)

// Field is one label/value line of a card
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is a titled group of fields
type Card struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// CaseRow is one line of the dashboard table. Detail carries the expanded
// view so opening it needs no further fetch.
type CaseRow struct {
	ID            uuid.UUID `json:"id"`
	Reference     string    `json:"reference"`
	Complainant   string    `json:"complainant"`
	ComplaintType string    `json:"complaint_type"`
	Status        string    `json:"status"`
	StatusTone    string    `json:"status_tone"`
	Submitted     string    `json:"submitted"`
	Detail        []Card    `json:"detail"`
}

// NewCaseRow renders a record for the table
func NewCaseRow(rec *models.ComplaintRecord, loc *time.Location) CaseRow {
	c := rec.Complainant
	return CaseRow{
		ID:            rec.ID,
		Reference:     Dash(rec.Reference),
		Complainant:   NameOf(c.Title, c.FirstName, c.LastName),
		ComplaintType: Dash(rec.Complaint.Type),
		Status:        Dash(rec.Status),
		StatusTone:    StatusTone(rec.Status),
		Submitted:     FormatDate(rec.CreatedAt, loc),
		Detail:        CaseDetail(rec, loc),
	}
}

// CaseDetail renders the read-only case cards
func CaseDetail(rec *models.ComplaintRecord, loc *time.Location) []Card {
	c, r := rec.Complainant, rec.Respondent
	return []Card{
		{Title: "Complainant Information", Fields: []Field{
			{"Type", Dash(c.Type)},
			{"Name", Dash(NameOf(c.Title, c.FirstName, c.LastName))},
			{"ID/Passport", Dash(c.IDNumber)},
			{"Email", Dash(c.Email)},
			{"Address", Dash(AddressLine(c.Physical))},
		}},
		{Title: "Respondent Information", Fields: []Field{
			{"Name", Dash(NameOf(r.Title, r.FirstName, r.LastName))},
			{"ID/Passport", Dash(r.IDNumber)},
			{"Email", Dash(r.Email)},
			{"Address", Dash(AddressLine(r.Physical))},
		}},
		{Title: "Property Information", Fields: []Field{
			{"Address", Dash(rec.Property.Address)},
			{"Type", Dash(rec.Property.Type)},
		}},
		{Title: "Complaint Information", Fields: []Field{
			{"Type", Dash(rec.Complaint.Type)},
			{"Status", Dash(rec.Status)},
		}},
		{Title: "Case Meta", Fields: []Field{
			{"Reference", Dash(rec.Reference)},
			{"Submitted", Dash(FormatDateTime(rec.CreatedAt, loc))},
		}},
		{Title: "Complaint Details", Fields: []Field{
			{"Details", Dash(rec.Complaint.Details)},
		}},
	}
}
