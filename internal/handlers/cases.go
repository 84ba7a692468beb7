package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rht/casedesk/internal/models"
	"github.com/rht/casedesk/internal/services"
	"github.com/rht/casedesk/internal/views"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CaseHandler serves the staff review dashboard
type CaseHandler struct {
	svc    *services.CaseService
	logger *zap.SugaredLogger
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(svc *services.CaseService, logger *zap.SugaredLogger) *CaseHandler {
	return &CaseHandler{svc: svc, logger: logger}
}

// caseQuery holds the raw dashboard filter parameters
type caseQuery struct {
	Status string `validate:"max=64"`
	Type   string `validate:"max=128"`
	Start  string `validate:"omitempty,datetime=2006-01-02"`
	End    string `validate:"omitempty,datetime=2006-01-02"`
	Page   int    `validate:"gte=0"`
}

type caseListResponse struct {
	Rows       []views.CaseRow `json:"rows"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	From       int             `json:"from"`
	To         int             `json:"to"`
}

// List handles GET /api/v1/cases
func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	f, page, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	p, err := h.svc.List(r.Context(), f, page)
	if err != nil {
		h.logger.Errorw("Failed to list cases", "error", err)
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error": "Failed to load cases. Please try again.",
			"rows":  []views.CaseRow{},
		})
		return
	}

	rows := make([]views.CaseRow, len(p.Rows))
	for i := range p.Rows {
		rows[i] = views.NewCaseRow(&p.Rows[i], h.svc.Location())
	}

	respondJSON(w, http.StatusOK, caseListResponse{
		Rows:       rows,
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		From:       p.From,
		To:         p.To,
	})
}

// Stats handles GET /api/v1/cases/stats
func (h *CaseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Stats(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to load case stats", "error", err)
		respondError(w, http.StatusBadGateway, "Failed to load statistics")
		return
	}
	respondJSON(w, http.StatusOK, counts)
}

// Export handles GET /api/v1/cases/export.xlsx
func (h *CaseHandler) Export(w http.ResponseWriter, r *http.Request) {
	f, _, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), f, &buf); err != nil {
		h.logger.Errorw("Failed to export cases", "error", err)
		respondError(w, http.StatusBadGateway, "Failed to export cases")
		return
	}

	name := fmt.Sprintf("cases-%s.xlsx", time.Now().In(h.svc.Location()).Format(models.DateLayout))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// parseFilter validates the query string and writes a 400 when it is bad
func (h *CaseHandler) parseFilter(w http.ResponseWriter, r *http.Request) (models.CaseFilter, int, bool) {
	q := r.URL.Query()
	cq := caseQuery{
		Status: q.Get("status"),
		Type:   q.Get("type"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid page")
			return models.CaseFilter{}, 0, false
		}
		cq.Page = page
	}

	if err := validate.Struct(cq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid filter: "+err.Error())
		return models.CaseFilter{}, 0, false
	}

	f, err := models.NewCaseFilter(cq.Status, cq.Type, cq.Start, cq.End, h.svc.Location())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return models.CaseFilter{}, 0, false
	}
	return f, cq.Page, true
}
