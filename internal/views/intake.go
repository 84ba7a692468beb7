package views

import (
	"github.com/rht/casedesk/internal/models"
	"github.com/rht/casedesk/internal/wizard"
)

// IntakeView is what the form renders for a session
type IntakeView struct {
	*wizard.Session
	StepTitle  string   `json:"step_title"`
	TotalSteps int      `json:"total_steps"`
	Progress   int      `json:"progress"`
	Errors     []string `json:"errors,omitempty"`
	CanNext    bool     `json:"can_next"`
	Summary    []Card   `json:"summary,omitempty"`
}

// NewIntakeView renders a session. The summary appears on the review step and
// after confirmation.
func NewIntakeView(s *wizard.Session) IntakeView {
	errs := s.Errors()
	v := IntakeView{
		Session:    s,
		StepTitle:  s.CurrentStep.Title(),
		TotalSteps: wizard.TotalSteps,
		Progress:   s.CurrentStep.Progress(),
		Errors:     errs,
		CanNext:    len(errs) == 0 && !s.Submitting && !s.Submitted(),
	}
	if s.CurrentStep == wizard.StepReview || s.Submitted() {
		v.Summary = ReviewSummary(&s.Draft)
	}
	return v
}

// ReviewSummary lists the draft as submitted. The representative card is
// included only when any of its fields is filled.
func ReviewSummary(d *models.Draft) []Card {
	c, r := d.Complainant, d.Respondent
	cards := []Card{
		{Title: "Complainant", Fields: []Field{
			{"Name", Dash(NameOf("", c.FirstName, c.LastName))},
			{"Type", Dash(c.Type)},
			{"Email", Dash(c.Email)},
			{"Phone", Dash(FirstPhone(c.MobilePhone, c.HomePhone, c.WorkPhone))},
			{"Physical Address", Dash(AddressLine(c.Physical))},
		}},
		{Title: "Respondent", Fields: []Field{
			{"Name", Dash(NameOf("", r.FirstName, r.LastName))},
			{"Email", Dash(r.Email)},
			{"Phone", Dash(FirstPhone(r.MobilePhone, r.HomePhone, r.WorkPhone))},
			{"Physical Address", Dash(AddressLine(r.Physical))},
		}},
		{Title: "Property", Fields: []Field{
			{"Address", Dash(d.Property.Address)},
			{"Type", Dash(d.Property.Type)},
		}},
		{Title: "Complaint", Fields: []Field{
			{"Type", Dash(d.Complaint.Type)},
			{"Details", Dash(d.Complaint.Details)},
		}},
	}

	if rep := d.Representative; !rep.IsZero() {
		cards = append(cards, Card{Title: "Representative", Fields: []Field{
			{"Type", Dash(rep.RepType)},
			{"Name", Dash(rep.Name)},
			{"Company", Dash(rep.Company)},
			{"Phone", Dash(rep.Phone)},
			{"Email", Dash(rep.Email)},
			{"Address", Dash(AddressLine(rep.Address))},
		}})
	}
	return cards
}
