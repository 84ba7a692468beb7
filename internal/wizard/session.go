// Package wizard implements the six-step complaint intake controller: step
// sequencing, per-step validation, draft assembly and the single submission.
//
// A Session is plain data so it can be parked in a session store between
// requests. It is not safe for concurrent use; callers serialise access.
package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rht/casedesk/internal/models"
)

// Section names a part of the draft that UpdateSection can patch
type Section string

const (
	SectionComplainant    Section = "complainant"
	SectionRespondent     Section = "respondent"
	SectionProperty       Section = "property"
	SectionComplaint      Section = "complaint"
	SectionRepresentative Section = "representative"
)

// SubmitFailedMessage is shown when the store rejects the insert
const SubmitFailedMessage = "Failed to save complaint. Please try again."

var (
	ErrSubmitInProgress = errors.New("submission in progress")
	ErrNotOnReview      = errors.New("submit is only available on the review step")
	ErrAlreadySubmitted = errors.New("complaint already submitted")
	ErrUnknownSection   = errors.New("unknown section")
	ErrInvalidPatch     = errors.New("invalid section patch")
)

// ValidationError blocks forward navigation or submission
type ValidationError struct {
	Step     Step
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, strings.Join(e.Messages, " "))
}

// SubmitError wraps a store failure during submission
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string { return "submit complaint: " + e.Err.Error() }
func (e *SubmitError) Unwrap() error { return e.Err }

// Inserter persists a complaint and returns the store-generated identity
type Inserter interface {
	Insert(ctx context.Context, c *models.NewComplaint) (*models.Confirmation, error)
}

// Session is one complainant's pass through the wizard
type Session struct {
	ID              string               `json:"id"`
	CurrentStep     Step                 `json:"current_step"`
	Draft           models.Draft         `json:"draft"`
	Submitting      bool                 `json:"is_submitting"`
	SubmissionError string               `json:"submission_error,omitempty"`
	Confirmation    *models.Confirmation `json:"confirmation,omitempty"`
	StartedAt       time.Time            `json:"started_at"`
}

// NewSession returns a session on step 1 with every draft section present
func NewSession(id string) *Session {
	return &Session{
		ID:          id,
		CurrentStep: StepComplainant,
		Draft: models.Draft{
			Complainant: models.Complainant{PreferredComm: models.DefaultPreferredComm},
		},
		StartedAt: time.Now().UTC(),
	}
}

// Errors lists the current step's validation messages for display.
// The review step never shows validation.
func (s *Session) Errors() []string {
	if s.CurrentStep == StepReview {
		return nil
	}
	return Validate(s.CurrentStep, &s.Draft)
}

// GoNext advances one step when the current step validates. It is a no-op on
// the review step.
func (s *Session) GoNext() error {
	if err := s.mutable(); err != nil {
		return err
	}
	if s.CurrentStep >= StepReview {
		return nil
	}
	if errs := Validate(s.CurrentStep, &s.Draft); len(errs) > 0 {
		return &ValidationError{Step: s.CurrentStep, Messages: errs}
	}
	s.CurrentStep++
	return nil
}

// GoPrevious moves back one step, stopping at step 1. It never validates.
func (s *Session) GoPrevious() error {
	if err := s.mutable(); err != nil {
		return err
	}
	if s.CurrentStep > StepComplainant {
		s.CurrentStep--
	}
	return nil
}

// UpdateSection merges a partial JSON object into one draft section. Keys
// absent from patch keep their value; unknown keys are rejected.
func (s *Session) UpdateSection(section Section, patch []byte) error {
	if err := s.mutable(); err != nil {
		return err
	}

	switch section {
	case SectionComplainant:
		return merge(&s.Draft.Complainant, patch)
	case SectionRespondent:
		return merge(&s.Draft.Respondent, patch)
	case SectionProperty:
		return merge(&s.Draft.Property, patch)
	case SectionComplaint:
		return merge(&s.Draft.Complaint, patch)
	case SectionRepresentative:
		return merge(&s.Draft.Representative, patch)
	}
	return fmt.Errorf("%w: %q", ErrUnknownSection, section)
}

// Submit inserts the draft exactly once. On failure the draft and step are
// kept, SubmissionError is set and the caller may retry.
func (s *Session) Submit(ctx context.Context, store Inserter) error {
	if err := s.mutable(); err != nil {
		return err
	}
	if s.CurrentStep != StepReview {
		return ErrNotOnReview
	}
	for step := StepComplainant; step < StepReview; step++ {
		if errs := Validate(step, &s.Draft); len(errs) > 0 {
			return &ValidationError{Step: step, Messages: errs}
		}
	}

	s.Submitting = true
	s.SubmissionError = ""
	defer func() { s.Submitting = false }()

	conf, err := store.Insert(ctx, s.payload(NewReference()))
	if err != nil {
		s.SubmissionError = SubmitFailedMessage
		return &SubmitError{Err: err}
	}

	s.Confirmation = conf
	return nil
}

// Submitted reports whether the wizard has reached its confirmation state
func (s *Session) Submitted() bool {
	return s.Confirmation != nil
}

func (s *Session) payload(reference string) *models.NewComplaint {
	p := &models.NewComplaint{
		Status:      models.StatusSubmitted,
		Reference:   reference,
		Complainant: s.Draft.Complainant,
		Respondent:  s.Draft.Respondent,
		Property:    s.Draft.Property,
		Complaint:   s.Draft.Complaint,
	}
	if !s.Draft.Representative.IsZero() {
		rep := s.Draft.Representative
		p.Representative = &rep
	}
	return p
}

func (s *Session) mutable() error {
	if s.Submitting {
		return ErrSubmitInProgress
	}
	if s.Confirmation != nil {
		return ErrAlreadySubmitted
	}
	return nil
}

// merge decodes patch over a copy of dst so a bad patch leaves dst untouched
func merge[T any](dst *T, patch []byte) error {
	v := *dst
	dec := json.NewDecoder(bytes.NewReader(patch))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	*dst = v
	return nil
}
