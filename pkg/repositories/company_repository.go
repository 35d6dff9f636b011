package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rivalscope/rivalscope-engine/pkg/apperrors"
	"github.com/rivalscope/rivalscope-engine/pkg/database"
	"github.com/rivalscope/rivalscope-engine/pkg/models"
)

// CompanyRepository defines the interface for company data access.
// Website URL is the primary dedup key, name the fallback; both lookups are
// exact matches, not DB constraints.
type CompanyRepository interface {
	// Create inserts a new company. websiteURL may be nil.
	Create(ctx context.Context, name string, websiteURL *string) (*models.Company, error)

	// GetByID retrieves a company by ID. Returns apperrors.ErrNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)

	// GetByURL retrieves a company by exact website URL.
	// Returns apperrors.ErrNotFound when absent.
	GetByURL(ctx context.Context, websiteURL string) (*models.Company, error)

	// GetByName retrieves a company by exact name.
	// Returns apperrors.ErrNotFound when absent.
	GetByName(ctx context.Context, name string) (*models.Company, error)

	// GetByIDs retrieves companies for the given IDs, preserving input order.
	// IDs with no matching row are silently skipped.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Company, error)

	// List retrieves companies ordered by creation time, newest first.
	List(ctx context.Context, limit int) ([]*models.Company, error)

	// Update applies the non-nil fields of upd and returns the updated row.
	// Returns apperrors.ErrNotFound when the company does not exist.
	Update(ctx context.Context, id uuid.UUID, upd models.CompanyUpdate) (*models.Company, error)

	// SetCompetitorIDs replaces the company's competitor ID list. Returns
	// apperrors.ErrUndefinedColumn when the competitor_ids column is missing
	// so callers can treat schema drift as a soft failure.
	SetCompetitorIDs(ctx context.Context, id uuid.UUID, ids []uuid.UUID) (*models.Company, error)

	// Delete removes a company. Financial records cascade with it.
	// Returns apperrors.ErrNotFound when the company does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// companyRepository implements CompanyRepository using PostgreSQL.
type companyRepository struct {
	db *database.DB
}

// NewCompanyRepository creates a new company repository.
func NewCompanyRepository(db *database.DB) CompanyRepository {
	return &companyRepository{db: db}
}

var _ CompanyRepository = (*companyRepository)(nil)

const (
	companyColumns = "id, name, website_url, competitor_ids, created_at, updated_at"

	// companyColumnsLegacy serves databases whose schema predates the
	// competitor_ids column. Reads fall back to it on 42703 and leave the
	// competitor list empty; only SetCompetitorIDs surfaces the drift.
	companyColumnsLegacy = "id, name, website_url, created_at, updated_at"
)

func (r *companyRepository) Create(ctx context.Context, name string, websiteURL *string) (*models.Company, error) {
	now := time.Now()

	company, err := r.queryCompanyRow(ctx, func(columns string) string {
		return `
			INSERT INTO companies (name, website_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + columns
	}, name, websiteURL, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	return company, nil
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company, err := r.queryCompanyRow(ctx, func(columns string) string {
		return `SELECT ` + columns + ` FROM companies WHERE id = $1`
	}, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return company, nil
}

func (r *companyRepository) GetByURL(ctx context.Context, websiteURL string) (*models.Company, error) {
	// Oldest row wins when historical data holds duplicates for one URL.
	company, err := r.queryCompanyRow(ctx, func(columns string) string {
		return `
			SELECT ` + columns + `
			FROM companies
			WHERE website_url = $1
			ORDER BY created_at
			LIMIT 1`
	}, websiteURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company by url: %w", err)
	}

	return company, nil
}

func (r *companyRepository) GetByName(ctx context.Context, name string) (*models.Company, error) {
	company, err := r.queryCompanyRow(ctx, func(columns string) string {
		return `
			SELECT ` + columns + `
			FROM companies
			WHERE name = $1
			ORDER BY created_at
			LIMIT 1`
	}, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company by name: %w", err)
	}

	return company, nil
}

func (r *companyRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Company, error) {
	if len(ids) == 0 {
		return []*models.Company{}, nil
	}

	found, err := r.queryCompanies(ctx, func(columns string) string {
		return `SELECT ` + columns + ` FROM companies WHERE id = ANY($1)`
	}, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies by ids: %w", err)
	}

	byID := make(map[uuid.UUID]*models.Company, len(found))
	for _, company := range found {
		byID[company.ID] = company
	}

	// Preserve the caller's ordering; stored competitor lists are ordered sets.
	companies := make([]*models.Company, 0, len(byID))
	for _, id := range ids {
		if company, ok := byID[id]; ok {
			companies = append(companies, company)
		}
	}

	return companies, nil
}

func (r *companyRepository) List(ctx context.Context, limit int) ([]*models.Company, error) {
	companies, err := r.queryCompanies(ctx, func(columns string) string {
		return `
			SELECT ` + columns + `
			FROM companies
			ORDER BY created_at DESC
			LIMIT $1`
	}, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	return companies, nil
}

func (r *companyRepository) Update(ctx context.Context, id uuid.UUID, upd models.CompanyUpdate) (*models.Company, error) {
	company, err := r.queryCompanyRow(ctx, func(columns string) string {
		return `
			UPDATE companies
			SET name = COALESCE($2, name),
			    website_url = COALESCE($3, website_url),
			    updated_at = $4
			WHERE id = $1
			RETURNING ` + columns
	}, id, upd.Name, upd.WebsiteURL, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}

	return company, nil
}

func (r *companyRepository) SetCompetitorIDs(ctx context.Context, id uuid.UUID, ids []uuid.UUID) (*models.Company, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}

	query := `
		UPDATE companies
		SET competitor_ids = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + companyColumns

	company, err := scanCompany(r.db.QueryRow(ctx, query, id, ids, time.Now()), true)
	if err != nil {
		if isUndefinedColumn(err) {
			return nil, apperrors.ErrUndefinedColumn
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to set competitor ids: %w", err)
	}

	return company, nil
}

func (r *companyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// queryCompanyRow runs the single-row query produced by build with the full
// column list and retries with the legacy list when competitor_ids does not
// exist. A company read off a pre-003 schema carries a nil competitor list.
func (r *companyRepository) queryCompanyRow(ctx context.Context, build func(columns string) string, args ...any) (*models.Company, error) {
	company, err := scanCompany(r.db.QueryRow(ctx, build(companyColumns), args...), true)
	if err != nil && isUndefinedColumn(err) {
		company, err = scanCompany(r.db.QueryRow(ctx, build(companyColumnsLegacy), args...), false)
	}
	return company, err
}

// queryCompanies is the multi-row counterpart of queryCompanyRow.
func (r *companyRepository) queryCompanies(ctx context.Context, build func(columns string) string, args ...any) ([]*models.Company, error) {
	companies, err := r.collectCompanies(ctx, build(companyColumns), true, args...)
	if err != nil && isUndefinedColumn(err) {
		companies, err = r.collectCompanies(ctx, build(companyColumnsLegacy), false, args...)
	}
	return companies, err
}

func (r *companyRepository) collectCompanies(ctx context.Context, query string, withCompetitorIDs bool, args ...any) ([]*models.Company, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company, err := scanCompany(rows, withCompetitorIDs)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}

// scanCompany reads one company row. competitor_ids round-trips as a uuid[]
// column; a NULL value scans to a nil slice. Legacy rows select without the
// column and leave the list nil.
func scanCompany(row pgx.Row, withCompetitorIDs bool) (*models.Company, error) {
	var c models.Company
	dest := []any{&c.ID, &c.Name, &c.WebsiteURL, &c.CompetitorIDs, &c.CreatedAt, &c.UpdatedAt}
	if !withCompetitorIDs {
		dest = []any{&c.ID, &c.Name, &c.WebsiteURL, &c.CreatedAt, &c.UpdatedAt}
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}
