package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rht/casedesk/internal/database"
	"github.com/rht/casedesk/internal/handlers"
	"github.com/rht/casedesk/internal/models"
	"github.com/rht/casedesk/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fixture struct {
	router http.Handler
	repo   *database.MemoryRepository
}

func newFixture(t *testing.T, sample bool) *fixture {
	t.Helper()
	logger := zap.NewNop()
	sugar := logger.Sugar()

	repo := database.NewMemoryRepository(time.UTC)
	sessions := services.NewMemorySessionStore(time.Hour)
	intake := services.NewIntakeService(sessions, repo, sample, sugar)
	cases := services.NewCaseService(repo, time.UTC, sugar)

	router := handlers.NewRouter(
		handlers.RouterConfig{AllowedOrigins: []string{"http://localhost:5173"}, RateLimitRPM: 10000},
		handlers.NewHealthHandler(repo, sugar),
		handlers.NewIntakeHandler(intake, sugar),
		handlers.NewCaseHandler(cases, sugar),
		logger,
	)
	return &fixture{router: router, repo: repo}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// sessionView is the subset of the intake response the tests inspect
type sessionView struct {
	ID              string   `json:"id"`
	CurrentStep     int      `json:"current_step"`
	StepTitle       string   `json:"step_title"`
	Progress        int      `json:"progress"`
	Errors          []string `json:"errors"`
	CanNext         bool     `json:"can_next"`
	SubmissionError string   `json:"submission_error"`
	Error           string   `json:"error"`
	ErrorStep       int      `json:"error_step"`
	Confirmation    *struct {
		ID        string `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"confirmation"`
	Draft struct {
		Complainant map[string]any `json:"complainant"`
	} `json:"draft"`
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) sessionView {
	t.Helper()
	var v sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *fixture) start(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/intake", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeView(t, rec).ID
}

// toReview fills each step with sample data and stops on the review step
func (f *fixture) toReview(t *testing.T, id string) {
	t.Helper()
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/intake/"+id+"/sample", "").Code)
		require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/v1/intake/"+id+"/next", "").Code)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/health", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/health/ready", "").Code)

	f.repo.Err = errors.New("connection refused")
	assert.Equal(t, http.StatusServiceUnavailable, f.do(t, http.MethodGet, "/api/v1/health/ready", "").Code)
}

func TestOptions(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodGet, "/api/v1/intake/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email")
}

func TestIntakeStart(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodPost, "/api/v1/intake", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	v := decodeView(t, rec)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, 1, v.CurrentStep)
	assert.Equal(t, 17, v.Progress)
	assert.False(t, v.CanNext)
	assert.NotEmpty(t, v.Errors)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestIntakeNextBlockedByValidation(t *testing.T) {
	f := newFixture(t, false)
	id := f.start(t)

	rec := f.do(t, http.MethodPost, "/api/v1/intake/"+id+"/next", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	v := decodeView(t, rec)
	assert.Equal(t, 1, v.CurrentStep)
	assert.Contains(t, v.Errors, "Complainant Type is required.")
	assert.NotEmpty(t, v.Error)
}

func TestIntakeUpdateSection(t *testing.T) {
	f := newFixture(t, false)
	id := f.start(t)

	rec := f.do(t, http.MethodPatch, "/api/v1/intake/"+id+"/sections/complainant", `{"firstName":"Jane"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "Jane", v.Draft.Complainant["firstName"])

	rec = f.do(t, http.MethodPatch, "/api/v1/intake/"+id+"/sections/complainant", `{"lastName":"Doe"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	assert.Equal(t, "Jane", v.Draft.Complainant["firstName"], "earlier keys survive a later patch")
	assert.Equal(t, "Doe", v.Draft.Complainant["lastName"])
}

func TestIntakeBadInput(t *testing.T) {
	f := newFixture(t, false)
	id := f.start(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown section", http.MethodPatch, "/api/v1/intake/" + id + "/sections/billing", `{}`, http.StatusBadRequest},
		{"unknown field", http.MethodPatch, "/api/v1/intake/" + id + "/sections/property", `{"colour":"red"}`, http.StatusBadRequest},
		{"malformed json", http.MethodPatch, "/api/v1/intake/" + id + "/sections/property", `{"address":`, http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/v1/intake/" + uuid.NewString(), "", http.StatusNotFound},
		{"submit before review", http.MethodPost, "/api/v1/intake/" + id + "/submit", "", http.StatusConflict},
		{"sample disabled", http.MethodPost, "/api/v1/intake/" + id + "/sample", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestIntakeSubmit(t *testing.T) {
	f := newFixture(t, true)
	id := f.start(t)
	f.toReview(t, id)

	rec := f.do(t, http.MethodGet, "/api/v1/intake/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, 6, v.CurrentStep)
	assert.Equal(t, 100, v.Progress)
	assert.Empty(t, v.Errors, "review step shows no validation")

	rec = f.do(t, http.MethodPost, "/api/v1/intake/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v = decodeView(t, rec)
	require.NotNil(t, v.Confirmation)
	assert.Equal(t, "Submitted", v.Confirmation.Status)
	assert.Regexp(t, `^RHT-[0-9A-F]{8}$`, v.Confirmation.Reference)

	rec = f.do(t, http.MethodPost, "/api/v1/intake/"+id+"/submit", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/v1/intake/"+id+"/sections/complaint", `{"details":"late edit"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "a submitted session is read-only")

	rows, err := f.repo.List(context.Background(), models.CaseFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestIntakeSubmitReportsEarlierStepErrors(t *testing.T) {
	f := newFixture(t, true)
	id := f.start(t)
	f.toReview(t, id)

	rec := f.do(t, http.MethodPatch, "/api/v1/intake/"+id+"/sections/complainant", `{"firstName":""}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/intake/"+id+"/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	v := decodeView(t, rec)
	assert.Equal(t, 6, v.CurrentStep)
	assert.Equal(t, 1, v.ErrorStep)
	assert.Equal(t, []string{"First Name is required."}, v.Errors)
	assert.Nil(t, v.Confirmation)
}

func TestIntakeSubmitFailureKeepsDraft(t *testing.T) {
	f := newFixture(t, true)
	id := f.start(t)
	f.toReview(t, id)

	f.repo.Err = errors.New("insert failed")
	rec := f.do(t, http.MethodPost, "/api/v1/intake/"+id+"/submit", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	v := decodeView(t, rec)
	assert.Equal(t, 6, v.CurrentStep)
	assert.Equal(t, "Failed to save complaint. Please try again.", v.SubmissionError)
	assert.Nil(t, v.Confirmation)

	f.repo.Err = nil
	rec = f.do(t, http.MethodPost, "/api/v1/intake/"+id+"/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, decodeView(t, rec).SubmissionError)
}

func seedCases(repo *database.MemoryRepository, n int) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		status := "Submitted"
		if i%2 == 1 {
			status = "Resolved"
		}
		repo.Seed(models.ComplaintRecord{
			ID:          uuid.New(),
			CreatedAt:   base.AddDate(0, 0, i),
			Status:      status,
			Reference:   fmt.Sprintf("RHT-%08X", i),
			Complainant: models.Complainant{FirstName: "Case", LastName: fmt.Sprint(i)},
			Complaint:   models.ComplaintInfo{Type: "Deposit"},
		})
	}
}

type listBody struct {
	Rows []struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Submitted string `json:"submitted"`
	} `json:"rows"`
	Page       int    `json:"page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	From       int    `json:"from"`
	To         int    `json:"to"`
	Error      string `json:"error"`
}

func TestCaseListPaginates(t *testing.T) {
	f := newFixture(t, false)
	seedCases(f.repo, 12)

	rec := f.do(t, http.MethodGet, "/api/v1/cases?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 12, body.Total)
	assert.Equal(t, 2, body.TotalPages)
	assert.Equal(t, 11, body.From)
	assert.Equal(t, 12, body.To)
	require.Len(t, body.Rows, 2)
	assert.Equal(t, "RHT-00000001", body.Rows[0].Reference, "newest first")
	assert.Equal(t, "Mar 2, 2024", body.Rows[0].Submitted)
}

func TestCaseListFilters(t *testing.T) {
	f := newFixture(t, false)
	seedCases(f.repo, 12)

	rec := f.do(t, http.MethodGet, "/api/v1/cases?status=Resolved&type=All+Types&start=2024-03-01&end=2024-03-04", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rows, 2)
	for _, r := range body.Rows {
		assert.Equal(t, "Resolved", r.Status)
	}
}

func TestCaseListRejectsBadQuery(t *testing.T) {
	f := newFixture(t, false)

	for _, q := range []string{"start=03/01/2024", "end=2024-13-01", "page=-1", "page=two"} {
		rec := f.do(t, http.MethodGet, "/api/v1/cases?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestCaseListFetchFailure(t *testing.T) {
	f := newFixture(t, false)
	f.repo.Err = errors.New("timeout")

	rec := f.do(t, http.MethodGet, "/api/v1/cases", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.NotNil(t, body.Rows)
	assert.Empty(t, body.Rows)
}

func TestCaseStats(t *testing.T) {
	f := newFixture(t, false)
	now := time.Now().UTC()
	f.repo.Seed(
		models.ComplaintRecord{ID: uuid.New(), CreatedAt: now, Status: "Submitted"},
		models.ComplaintRecord{ID: uuid.New(), CreatedAt: now, Status: "under review"},
		models.ComplaintRecord{ID: uuid.New(), CreatedAt: now.AddDate(0, -2, 0), Status: "Submitted"},
	)

	rec := f.do(t, http.MethodGet, "/api/v1/cases/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts models.StatusCounts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts.Submitted)
	assert.Equal(t, 1, counts.UnderReview)
	assert.Zero(t, counts.Resolved)
}

func TestCaseExport(t *testing.T) {
	f := newFixture(t, false)
	seedCases(f.repo, 3)

	rec := f.do(t, http.MethodGet, "/api/v1/cases/export.xlsx?status=Submitted", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(services.ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two submitted cases")
	assert.Equal(t, "Reference", rows[0][0])
}
