package repositories

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rivalscope/rivalscope-engine/pkg/database"
	"github.com/rivalscope/rivalscope-engine/pkg/models"
)

// FinancialRecordRepository defines the interface for time-series data access.
// Each record kind lives in its own table with a UNIQUE(company_id, year)
// constraint; that constraint is what keeps one row per (company, year) when
// overlapping runs race to insert the same observation.
type FinancialRecordRepository interface {
	// Upsert inserts one observation. When the (company_id, year) row already
	// exists, value and source_url are overwritten instead and the updated
	// row is returned.
	Upsert(ctx context.Context, kind models.RecordKind, companyID uuid.UUID, value float64, year int, sourceURL string) (*models.FinancialRecord, error)

	// ListByCompany returns all records of one kind for a company, newest
	// year first.
	ListByCompany(ctx context.Context, kind models.RecordKind, companyID uuid.UUID) ([]*models.FinancialRecord, error)

	// GetResearchData assembles the three stored series for a company.
	// Returns nil (no error) when every series is empty, which the research
	// pipeline reads as a cache miss.
	GetResearchData(ctx context.Context, companyID uuid.UUID) (*models.ResearchData, error)

	// HasResearchData reports whether any record of any kind exists for the
	// company, without loading the series.
	HasResearchData(ctx context.Context, companyID uuid.UUID) (bool, error)
}

// financialRecordRepository implements FinancialRecordRepository using PostgreSQL.
type financialRecordRepository struct {
	db *database.DB
}

// NewFinancialRecordRepository creates a new financial record repository.
func NewFinancialRecordRepository(db *database.DB) FinancialRecordRepository {
	return &financialRecordRepository{db: db}
}

var _ FinancialRecordRepository = (*financialRecordRepository)(nil)

func (r *financialRecordRepository) Upsert(ctx context.Context, kind models.RecordKind, companyID uuid.UUID, value float64, year int, sourceURL string) (*models.FinancialRecord, error) {
	if !models.IsValidRecordKind(kind) {
		return nil, fmt.Errorf("invalid record kind %q", kind)
	}

	record, err := r.insert(ctx, kind, companyID, value, year, sourceURL)
	if err == nil {
		return record, nil
	}
	if !isUniqueViolation(err) {
		return nil, fmt.Errorf("failed to insert %s record: %w", kind, err)
	}

	// (company_id, year) already exists: overwrite value and source.
	record, err = r.overwrite(ctx, kind, companyID, value, year, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s record after conflict: %w", kind, err)
	}

	return record, nil
}

func (r *financialRecordRepository) insert(ctx context.Context, kind models.RecordKind, companyID uuid.UUID, value float64, year int, sourceURL string) (*models.FinancialRecord, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (company_id, %s, year, source_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, %s::float8, year, source_url, created_at`,
		kind.Table(), kind.ValueColumn(), kind.ValueColumn())

	return r.scanRecord(kind, r.db.QueryRow(ctx, query, companyID, storedValue(kind, value), year, sourceURL))
}

func (r *financialRecordRepository) overwrite(ctx context.Context, kind models.RecordKind, companyID uuid.UUID, value float64, year int, sourceURL string) (*models.FinancialRecord, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, source_url = $4
		WHERE company_id = $1 AND year = $2
		RETURNING id, company_id, %s::float8, year, source_url, created_at`,
		kind.Table(), kind.ValueColumn(), kind.ValueColumn())

	return r.scanRecord(kind, r.db.QueryRow(ctx, query, companyID, year, storedValue(kind, value), sourceURL))
}

func (r *financialRecordRepository) ListByCompany(ctx context.Context, kind models.RecordKind, companyID uuid.UUID) ([]*models.FinancialRecord, error) {
	if !models.IsValidRecordKind(kind) {
		return nil, fmt.Errorf("invalid record kind %q", kind)
	}

	query := fmt.Sprintf(`
		SELECT id, company_id, %s::float8, year, source_url, created_at
		FROM %s
		WHERE company_id = $1
		ORDER BY year DESC, created_at DESC`,
		kind.ValueColumn(), kind.Table())

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", kind, err)
	}
	defer rows.Close()

	var records []*models.FinancialRecord
	for rows.Next() {
		record, err := r.scanRecord(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", kind, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s records: %w", kind, err)
	}

	return records, nil
}

func (r *financialRecordRepository) GetResearchData(ctx context.Context, companyID uuid.UUID) (*models.ResearchData, error) {
	data := &models.ResearchData{
		Networth: []models.TimeSeriesPoint{},
		Users:    []models.TimeSeriesPoint{},
		Funding:  []models.TimeSeriesPoint{},
	}

	for _, kind := range models.RecordKinds {
		records, err := r.ListByCompany(ctx, kind, companyID)
		if err != nil {
			return nil, err
		}

		points := make([]models.TimeSeriesPoint, 0, len(records))
		for _, record := range records {
			points = append(points, record.Point())
		}

		switch kind {
		case models.RecordNetworth:
			data.Networth = points
		case models.RecordUsers:
			data.Users = points
		case models.RecordFunding:
			data.Funding = points
		}
	}

	if data.IsEmpty() {
		return nil, nil
	}

	return data, nil
}

func (r *financialRecordRepository) HasResearchData(ctx context.Context, companyID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM company_networth WHERE company_id = $1)
		    OR EXISTS (SELECT 1 FROM company_users WHERE company_id = $1)
		    OR EXISTS (SELECT 1 FROM company_funding WHERE company_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check research data: %w", err)
	}

	return exists, nil
}

// scanRecord reads one record row. The value column is cast to float8 in
// every query so NUMERIC(20,2) and BIGINT variants scan uniformly.
func (r *financialRecordRepository) scanRecord(kind models.RecordKind, row pgx.Row) (*models.FinancialRecord, error) {
	record := models.FinancialRecord{Kind: kind}
	err := row.Scan(
		&record.ID,
		&record.CompanyID,
		&record.Value,
		&record.Year,
		&record.SourceURL,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// storedValue converts a parsed point value to the column's type: monetary
// kinds keep the decimal, user counts round to a whole number for the
// BIGINT column.
func storedValue(kind models.RecordKind, value float64) any {
	if kind.Monetary() {
		return value
	}
	return int64(math.Round(value))
}
