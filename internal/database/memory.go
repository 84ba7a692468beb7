package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rht/casedesk/internal/models"
)

// MemoryRepository keeps complaints in process. It backs development runs
// without DATABASE_URL and the tests, and filters exactly like the SQL path.
type MemoryRepository struct {
	mu       sync.RWMutex
	records  []models.ComplaintRecord
	location *time.Location
	now      func() time.Time

	// Err, when set, is returned by every call
	Err error
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository(loc *time.Location) *MemoryRepository {
	return &MemoryRepository{location: loc, now: time.Now}
}

// Insert stores a copy of the complaint with a fresh id and timestamp
func (m *MemoryRepository) Insert(_ context.Context, c *models.NewComplaint) (*models.Confirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	rec := models.ComplaintRecord{
		ID:          uuid.New(),
		CreatedAt:   m.now().UTC(),
		Status:      c.Status,
		Reference:   c.Reference,
		Complainant: c.Complainant,
		Respondent:  c.Respondent,
		Property:    c.Property,
		Complaint:   c.Complaint,
	}
	if c.Representative != nil {
		rep := *c.Representative
		rec.Representative = &rep
	}
	m.records = append(m.records, rec)

	return &models.Confirmation{ID: rec.ID, CreatedAt: rec.CreatedAt, Reference: rec.Reference, Status: rec.Status}, nil
}

// Seed adds already-persisted records, used to preload fixtures
func (m *MemoryRepository) Seed(recs ...models.ComplaintRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recs...)
}

// List returns matching complaints, newest first
func (m *MemoryRepository) List(_ context.Context, f models.CaseFilter) ([]models.ComplaintRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]models.ComplaintRecord, 0, len(m.records))
	for i := range m.records {
		if f.Matches(&m.records[i], m.location) {
			out = append(out, m.records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// StatusesSince returns the status of every complaint created at or after since
func (m *MemoryRepository) StatusesSince(_ context.Context, since time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var out []string
	for _, r := range m.records {
		if !r.CreatedAt.Before(since) {
			out = append(out, r.Status)
		}
	}
	return out, nil
}

// Ping always succeeds unless Err is set
func (m *MemoryRepository) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Err
}
