package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/rivalscope/rivalscope-engine/pkg/apperrors"
	"github.com/rivalscope/rivalscope-engine/pkg/models"
	"github.com/rivalscope/rivalscope-engine/pkg/services"
)

// mockResearchService is a configurable mock for research handler tests.
type mockResearchService struct {
	streamFunc func(ctx context.Context, companyURL string, events chan<- models.ResearchEvent) error
	calls      int
}

var _ services.ResearchService = (*mockResearchService)(nil)

func (m *mockResearchService) StreamCompetitorResearch(ctx context.Context, companyURL string, events chan<- models.ResearchEvent) error {
	m.calls++
	if m.streamFunc != nil {
		return m.streamFunc(ctx, companyURL, events)
	}
	return nil
}

// mockCompanyService is a configurable mock for companies handler tests.
// Unset fields report not-found.
type mockCompanyService struct {
	listFunc            func(ctx context.Context, limit int) ([]*models.Company, error)
	getFunc             func(ctx context.Context, id uuid.UUID) (*models.Company, error)
	getResearchDataFunc func(ctx context.Context, id uuid.UUID) (*models.ResearchData, error)
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
}

var _ services.CompanyService = (*mockCompanyService)(nil)

func (m *mockCompanyService) List(ctx context.Context, limit int) ([]*models.Company, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return []*models.Company{}, nil
}

func (m *mockCompanyService) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCompanyService) GetResearchData(ctx context.Context, id uuid.UUID) (*models.ResearchData, error) {
	if m.getResearchDataFunc != nil {
		return m.getResearchDataFunc(ctx, id)
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return apperrors.ErrNotFound
}
