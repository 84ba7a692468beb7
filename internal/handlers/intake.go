package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rht/casedesk/internal/models"
	"github.com/rht/casedesk/internal/services"
	"github.com/rht/casedesk/internal/views"
	"github.com/rht/casedesk/internal/wizard"
	"go.uber.org/zap"
)

// maxPatchBytes caps a section patch; the largest section is a few hundred bytes
const maxPatchBytes = 64 << 10

// IntakeHandler serves the public complaint wizard
type IntakeHandler struct {
	svc    *services.IntakeService
	logger *zap.SugaredLogger
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(svc *services.IntakeService, logger *zap.SugaredLogger) *IntakeHandler {
	return &IntakeHandler{svc: svc, logger: logger}
}

// Options handles GET /api/v1/intake/options
func (h *IntakeHandler) Options(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.FormOptions())
}

// Start handles POST /api/v1/intake
func (h *IntakeHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Start(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to start intake session", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to start complaint")
		return
	}
	respondJSON(w, http.StatusCreated, views.NewIntakeView(sess))
}

// Get handles GET /api/v1/intake/{id}
func (h *IntakeHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, sess, err)
}

// UpdateSection handles PATCH /api/v1/intake/{id}/sections/{section}
func (h *IntakeHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	patch, err := io.ReadAll(io.LimitReader(r.Body, maxPatchBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	section := wizard.Section(chi.URLParam(r, "section"))
	sess, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), section, patch)
	h.respond(w, http.StatusOK, sess, err)
}

// Next handles POST /api/v1/intake/{id}/next
func (h *IntakeHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.svc.Next)
}

// Previous handles POST /api/v1/intake/{id}/previous
func (h *IntakeHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.svc.Previous)
}

// Sample handles POST /api/v1/intake/{id}/sample
func (h *IntakeHandler) Sample(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.svc.FillSample)
}

// Submit handles POST /api/v1/intake/{id}/submit
func (h *IntakeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Submit(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, http.StatusCreated, sess, err)
}

func (h *IntakeHandler) step(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*wizard.Session, error)) {
	sess, err := op(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, http.StatusOK, sess, err)
}

// respond writes the session view, with an error message when err is set.
// Failures that leave a usable session still return it so the form can
// redraw itself.
func (h *IntakeHandler) respond(w http.ResponseWriter, okStatus int, sess *wizard.Session, err error) {
	if err == nil {
		respondJSON(w, okStatus, views.NewIntakeView(sess))
		return
	}

	status, msg := intakeError(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorw("Intake request failed", "error", err)
	}
	if sess == nil {
		respondError(w, status, msg)
		return
	}

	body := intakeErrorBody{IntakeView: views.NewIntakeView(sess), Error: msg}
	// Submit revalidates every step, so the failing step need not be the
	// current one.
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		body.Errors = verr.Messages
		body.ErrorStep = int(verr.Step)
	}
	respondJSON(w, status, body)
}

type intakeErrorBody struct {
	views.IntakeView
	Error     string `json:"error"`
	ErrorStep int    `json:"error_step,omitempty"`
}

// intakeError maps service and wizard errors to HTTP status and user text
func intakeError(err error) (int, string) {
	var (
		verr *wizard.ValidationError
		serr *wizard.SubmitError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "Please fix the highlighted fields"
	case errors.As(err, &serr):
		return http.StatusBadGateway, wizard.SubmitFailedMessage
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound, "Complaint session not found or expired"
	case errors.Is(err, services.ErrSessionBusy), errors.Is(err, wizard.ErrSubmitInProgress):
		return http.StatusConflict, "Submission in progress"
	case errors.Is(err, wizard.ErrAlreadySubmitted):
		return http.StatusConflict, "Complaint already submitted"
	case errors.Is(err, wizard.ErrNotOnReview):
		return http.StatusConflict, "Complaint can only be submitted from the review step"
	case errors.Is(err, wizard.ErrUnknownSection):
		return http.StatusBadRequest, "Unknown form section"
	case errors.Is(err, services.ErrSampleDisabled):
		return http.StatusForbidden, "Sample data is disabled"
	case errors.Is(err, wizard.ErrInvalidPatch):
		return http.StatusBadRequest, "Invalid section data"
	}
	return http.StatusInternalServerError, "Internal server error"
}
