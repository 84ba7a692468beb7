// Package services contains business logic layers.
// Services are called by handlers and talk to the repository and session store.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rht/casedesk/internal/models"
	"github.com/rht/casedesk/internal/wizard"
	"go.uber.org/zap"
)

// ErrSampleDisabled is returned when sample data is switched off
var ErrSampleDisabled = errors.New("sample data is disabled")

// IntakeService runs the complaint wizard on behalf of HTTP clients
type IntakeService struct {
	sessions      SessionStore
	store         wizard.Inserter
	logger        *zap.SugaredLogger
	sampleEnabled bool
}

// NewIntakeService creates a new intake service
func NewIntakeService(sessions SessionStore, store wizard.Inserter, sampleEnabled bool, logger *zap.SugaredLogger) *IntakeService {
	return &IntakeService{sessions: sessions, store: store, sampleEnabled: sampleEnabled, logger: logger}
}

// Start opens a new session on step 1
func (s *IntakeService) Start(ctx context.Context) (*wizard.Session, error) {
	sess := wizard.NewSession(uuid.NewString())
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Infow("Intake session started", "session", sess.ID)
	return sess, nil
}

// Get returns the session without changing it
func (s *IntakeService) Get(ctx context.Context, id string) (*wizard.Session, error) {
	return s.sessions.Load(ctx, id)
}

// Update merges a patch into one draft section
func (s *IntakeService) Update(ctx context.Context, id string, section wizard.Section, patch []byte) (*wizard.Session, error) {
	return s.mutate(ctx, id, func(sess *wizard.Session) error {
		return sess.UpdateSection(section, patch)
	})
}

// Next advances the wizard, or returns a *wizard.ValidationError
func (s *IntakeService) Next(ctx context.Context, id string) (*wizard.Session, error) {
	return s.mutate(ctx, id, func(sess *wizard.Session) error {
		return sess.GoNext()
	})
}

// Previous moves the wizard back one step
func (s *IntakeService) Previous(ctx context.Context, id string) (*wizard.Session, error) {
	return s.mutate(ctx, id, func(sess *wizard.Session) error {
		return sess.GoPrevious()
	})
}

// FillSample fills the current step with sample data
func (s *IntakeService) FillSample(ctx context.Context, id string) (*wizard.Session, error) {
	if !s.sampleEnabled {
		return nil, ErrSampleDisabled
	}
	return s.mutate(ctx, id, func(sess *wizard.Session) error {
		return sess.FillSample()
	})
}

// Submit inserts the session's draft. The session is saved with
// is_submitting set before the insert is issued, so readers see the
// in-flight state.
func (s *IntakeService) Submit(ctx context.Context, id string) (*wizard.Session, error) {
	sess, err := s.mutate(ctx, id, func(sess *wizard.Session) error {
		return sess.Submit(ctx, inserterFunc(func(ctx context.Context, c *models.NewComplaint) (*models.Confirmation, error) {
			if err := s.sessions.Save(ctx, sess); err != nil {
				return nil, err
			}
			return s.store.Insert(ctx, c)
		}))
	})

	var submitErr *wizard.SubmitError
	switch {
	case errors.As(err, &submitErr):
		s.logger.Errorw("Complaint submission failed", "session", id, "error", submitErr.Err)
	case err == nil:
		s.logger.Infow("Complaint submitted",
			"session", id,
			"id", sess.Confirmation.ID,
			"reference", sess.Confirmation.Reference,
		)
	}
	return sess, err
}

// confirmSaveAttempts bounds the retries for saving a freshly confirmed session
const confirmSaveAttempts = 3

// mutate runs fn under the session lock and saves the result. The session is
// saved even when fn fails, since a failed submit records its error message.
func (s *IntakeService) mutate(ctx context.Context, id string, fn func(*wizard.Session) error) (*wizard.Session, error) {
	unlock, err := s.sessions.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	// Holding the lock means no submit is running; the flag is left over
	// from a request that died mid-insert.
	sess.Submitting = false

	wasSubmitted := sess.Submitted()
	fnErr := fn(sess)

	// The complaint row exists once a confirmation is set. From here the
	// caller must get the confirmation back whatever happens to the save.
	if !wasSubmitted && sess.Submitted() {
		if err := s.saveConfirmed(ctx, sess); err != nil {
			s.logger.Errorw("Failed to save confirmed session",
				"session", id,
				"reference", sess.Confirmation.Reference,
				"error", err,
			)
		}
		return sess, fnErr
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, fnErr
}

// saveConfirmed persists a session that has just been confirmed. It outlives
// request cancellation and retries a bounded number of times.
func (s *IntakeService) saveConfirmed(ctx context.Context, sess *wizard.Session) error {
	ctx = context.WithoutCancel(ctx)

	var err error
	for attempt := 1; attempt <= confirmSaveAttempts; attempt++ {
		if err = s.sessions.Save(ctx, sess); err == nil {
			return nil
		}
		s.logger.Warnw("Retrying confirmed session save", "session", sess.ID, "attempt", attempt, "error", err)
	}
	return fmt.Errorf("save confirmed session: %w", err)
}

type inserterFunc func(ctx context.Context, c *models.NewComplaint) (*models.Confirmation, error)

func (f inserterFunc) Insert(ctx context.Context, c *models.NewComplaint) (*models.Confirmation, error) {
	return f(ctx, c)
}
