package wizard

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rht/casedesk/internal/models"
)

// Step is a page of the intake wizard, numbered from 1
type Step int

const (
	StepComplainant Step = iota + 1
	StepRespondent
	StepProperty
	StepComplaint
	StepRepresentative
	StepReview
)

// TotalSteps is the number of wizard pages
const TotalSteps = int(StepReview)

var stepTitles = map[Step]string{
	StepComplainant:    "Complainant Information",
	StepRespondent:     "Respondent Information",
	StepProperty:       "Property in Dispute",
	StepComplaint:      "Complaint Information",
	StepRepresentative: "Representative (Optional)",
	StepReview:         "Review & Submit",
}

// Title is the heading shown for the step
func (s Step) Title() string {
	return stepTitles[s]
}

// Section returns the draft section edited on this step, or "" for review
func (s Step) Section() Section {
	switch s {
	case StepComplainant:
		return SectionComplainant
	case StepRespondent:
		return SectionRespondent
	case StepProperty:
		return SectionProperty
	case StepComplaint:
		return SectionComplaint
	case StepRepresentative:
		return SectionRepresentative
	}
	return ""
}

// Progress is the completion percentage displayed above the form
func (s Step) Progress() int {
	return (int(s)*100 + TotalSteps/2) / TotalSteps
}

var validate = validator.New()

// rule checks one step's required fields and returns display messages
type rule func(d *models.Draft) []string

// messages maps a failing field's struct namespace to its display text
var messages = map[string]string{
	"Complainant.Type":      "Complainant Type is required.",
	"Complainant.FirstName": "First Name is required.",
	"Complainant.LastName":  "Last Name is required.",
	"Complainant.IDNumber":  "ID/Passport Number is required.",
	"Complainant.Email":     "Email is required.",
	"Respondent.LastName":   "Respondent Last Name is required.",
	"Property.Address":      "Property Address is required.",
	"Property.Type":         "Property Type is required.",
	"ComplaintInfo.Type":    "Complaint Type is required.",
}

var rules = map[Step]rule{
	StepComplainant: func(d *models.Draft) []string {
		errs := required(d.Complainant)
		if !d.Complainant.Physical.Complete() {
			errs = append(errs, "Physical Address (street, suburb, postal code) is required.")
		}
		return errs
	},
	StepRespondent: func(d *models.Draft) []string {
		errs := required(d.Respondent)
		if !d.Respondent.Physical.Complete() {
			errs = append(errs, "Respondent Physical Address is required.")
		}
		return errs
	},
	StepProperty: func(d *models.Draft) []string {
		return required(d.Property)
	},
	StepComplaint: func(d *models.Draft) []string {
		return required(d.Complaint)
	},
}

// Validate returns the messages for every required field missing on step.
// Steps without rules, the representative and review pages, always pass.
func Validate(step Step, d *models.Draft) []string {
	r, ok := rules[step]
	if !ok {
		return nil
	}
	return r(d)
}

// required runs the section's `validate` tags, in field order
func required(section any) []string {
	err := validate.Struct(section)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := messages[fe.StructNamespace()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, fe.Field()+" is required.")
	}
	return out
}
