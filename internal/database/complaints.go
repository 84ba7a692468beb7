package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rht/casedesk/internal/models"
	"go.uber.org/zap"
)

// ComplaintRepository reads and writes the complaints table
type ComplaintRepository struct {
	db       *pgxpool.Pool
	location *time.Location
	logger   *zap.SugaredLogger
}

// NewComplaintRepository creates a repository. loc is the zone filter dates are read in.
func NewComplaintRepository(db *pgxpool.Pool, loc *time.Location, logger *zap.SugaredLogger) *ComplaintRepository {
	return &ComplaintRepository{db: db, location: loc, logger: logger}
}

// Insert stores a new complaint and returns the generated identity
func (r *ComplaintRepository) Insert(ctx context.Context, c *models.NewComplaint) (*models.Confirmation, error) {
	query := `
		INSERT INTO complaints (status, reference, complainant, respondent, property, complaint, representative)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, reference, status
	`

	var conf models.Confirmation
	err := r.db.QueryRow(ctx, query,
		c.Status, c.Reference,
		c.Complainant, c.Respondent,
		c.Property, c.Complaint,
		c.Representative,
	).Scan(&conf.ID, &conf.CreatedAt, &conf.Reference, &conf.Status)
	if err != nil {
		return nil, fmt.Errorf("insert complaint: %w", err)
	}

	r.logger.Debugw("Complaint inserted", "id", conf.ID, "reference", conf.Reference)
	return &conf, nil
}

// List returns complaints matching the filter, newest first
func (r *ComplaintRepository) List(ctx context.Context, f models.CaseFilter) ([]models.ComplaintRecord, error) {
	query, args := buildListQuery(f, r.location)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	records := make([]models.ComplaintRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}

	return records, nil
}

// StatusesSince returns the status of every complaint created at or after since
func (r *ComplaintRepository) StatusesSince(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT status FROM complaints WHERE created_at >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("query statuses: %w", err)
	}

	statuses, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect statuses: %w", err)
	}
	return statuses, nil
}

// Ping checks the database connection
func (r *ComplaintRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanRecord(row pgx.Row) (models.ComplaintRecord, error) {
	var (
		rec       models.ComplaintRecord
		reference *string
	)
	err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.Status, &reference,
		&rec.Complainant, &rec.Respondent, &rec.Property, &rec.Complaint,
		&rec.Representative)
	if err != nil {
		return rec, err
	}
	if reference != nil {
		rec.Reference = *reference
	}
	return rec, nil
}
