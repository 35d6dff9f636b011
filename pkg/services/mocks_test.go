package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/rivalscope/rivalscope-engine/pkg/apperrors"
	"github.com/rivalscope/rivalscope-engine/pkg/models"
	"github.com/rivalscope/rivalscope-engine/pkg/repositories"
)

// mockCompanyRepo is a configurable function-field mock. Unset fields fall
// back to not-found / no-op behavior.
type mockCompanyRepo struct {
	createFunc           func(ctx context.Context, name string, websiteURL *string) (*models.Company, error)
	getByIDFunc          func(ctx context.Context, id uuid.UUID) (*models.Company, error)
	getByURLFunc         func(ctx context.Context, websiteURL string) (*models.Company, error)
	getByNameFunc        func(ctx context.Context, name string) (*models.Company, error)
	getByIDsFunc         func(ctx context.Context, ids []uuid.UUID) ([]*models.Company, error)
	listFunc             func(ctx context.Context, limit int) ([]*models.Company, error)
	updateFunc           func(ctx context.Context, id uuid.UUID, upd models.CompanyUpdate) (*models.Company, error)
	setCompetitorIDsFunc func(ctx context.Context, id uuid.UUID, ids []uuid.UUID) (*models.Company, error)
	deleteFunc           func(ctx context.Context, id uuid.UUID) error
}

var _ repositories.CompanyRepository = (*mockCompanyRepo)(nil)

func (m *mockCompanyRepo) Create(ctx context.Context, name string, websiteURL *string) (*models.Company, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, name, websiteURL)
	}
	return &models.Company{ID: uuid.New(), Name: name, WebsiteURL: websiteURL}, nil
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCompanyRepo) GetByURL(ctx context.Context, websiteURL string) (*models.Company, error) {
	if m.getByURLFunc != nil {
		return m.getByURLFunc(ctx, websiteURL)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCompanyRepo) GetByName(ctx context.Context, name string) (*models.Company, error) {
	if m.getByNameFunc != nil {
		return m.getByNameFunc(ctx, name)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCompanyRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Company, error) {
	if m.getByIDsFunc != nil {
		return m.getByIDsFunc(ctx, ids)
	}
	return []*models.Company{}, nil
}

func (m *mockCompanyRepo) List(ctx context.Context, limit int) ([]*models.Company, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return []*models.Company{}, nil
}

func (m *mockCompanyRepo) Update(ctx context.Context, id uuid.UUID, upd models.CompanyUpdate) (*models.Company, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, upd)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCompanyRepo) SetCompetitorIDs(ctx context.Context, id uuid.UUID, ids []uuid.UUID) (*models.Company, error) {
	if m.setCompetitorIDsFunc != nil {
		return m.setCompetitorIDsFunc(ctx, id, ids)
	}
	return nil, nil
}

func (m *mockCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// mockRecordRepo is a configurable function-field mock for the financial
// record repository. Unset fields report no stored data.
type mockRecordRepo struct {
	upsertFunc          func(ctx context.Context, kind models.RecordKind, companyID uuid.UUID, value float64, year int, sourceURL string) (*models.FinancialRecord, error)
	listByCompanyFunc   func(ctx context.Context, kind models.RecordKind, companyID uuid.UUID) ([]*models.FinancialRecord, error)
	getResearchDataFunc func(ctx context.Context, companyID uuid.UUID) (*models.ResearchData, error)
	hasResearchDataFunc func(ctx context.Context, companyID uuid.UUID) (bool, error)
}

var _ repositories.FinancialRecordRepository = (*mockRecordRepo)(nil)

func (m *mockRecordRepo) Upsert(ctx context.Context, kind models.RecordKind, companyID uuid.UUID, value float64, year int, sourceURL string) (*models.FinancialRecord, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, kind, companyID, value, year, sourceURL)
	}
	return &models.FinancialRecord{
		ID:        uuid.New(),
		CompanyID: companyID,
		Kind:      kind,
		Value:     value,
		Year:      year,
		SourceURL: sourceURL,
	}, nil
}

func (m *mockRecordRepo) ListByCompany(ctx context.Context, kind models.RecordKind, companyID uuid.UUID) ([]*models.FinancialRecord, error) {
	if m.listByCompanyFunc != nil {
		return m.listByCompanyFunc(ctx, kind, companyID)
	}
	return nil, nil
}

func (m *mockRecordRepo) GetResearchData(ctx context.Context, companyID uuid.UUID) (*models.ResearchData, error) {
	if m.getResearchDataFunc != nil {
		return m.getResearchDataFunc(ctx, companyID)
	}
	return nil, nil
}

func (m *mockRecordRepo) HasResearchData(ctx context.Context, companyID uuid.UUID) (bool, error) {
	if m.hasResearchDataFunc != nil {
		return m.hasResearchDataFunc(ctx, companyID)
	}
	return false, nil
}
