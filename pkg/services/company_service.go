package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rivalscope/rivalscope-engine/pkg/models"
	"github.com/rivalscope/rivalscope-engine/pkg/repositories"
)

// CompanyService provides the read and operator surface over stored companies
// and their research data.
type CompanyService interface {
	// List returns stored companies, newest first.
	List(ctx context.Context, limit int) ([]*models.Company, error)

	// Get returns one company. Returns apperrors.ErrNotFound when absent.
	Get(ctx context.Context, id uuid.UUID) (*models.Company, error)

	// GetResearchData returns the stored time series for a company. A company
	// with no records yields empty series, not an error.
	GetResearchData(ctx context.Context, id uuid.UUID) (*models.ResearchData, error)

	// Delete removes a company and, via cascade, its financial records.
	Delete(ctx context.Context, id uuid.UUID) error
}

type companyService struct {
	companyRepo repositories.CompanyRepository
	recordRepo  repositories.FinancialRecordRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new company service.
func NewCompanyService(
	companyRepo repositories.CompanyRepository,
	recordRepo repositories.FinancialRecordRepository,
	logger *zap.Logger,
) CompanyService {
	return &companyService{
		companyRepo: companyRepo,
		recordRepo:  recordRepo,
		logger:      logger.Named("company"),
	}
}

var _ CompanyService = (*companyService)(nil)

func (s *companyService) List(ctx context.Context, limit int) ([]*models.Company, error) {
	return s.companyRepo.List(ctx, limit)
}

func (s *companyService) Get(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

func (s *companyService) GetResearchData(ctx context.Context, id uuid.UUID) (*models.ResearchData, error) {
	// Surface not-found before reading series so callers can 404.
	if _, err := s.companyRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	data, err := s.recordRepo.GetResearchData(ctx, id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = &models.ResearchData{
			Networth: []models.TimeSeriesPoint{},
			Users:    []models.TimeSeriesPoint{},
			Funding:  []models.TimeSeriesPoint{},
		}
	}

	return data, nil
}

func (s *companyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.companyRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Deleted company", zap.String("company_id", id.String()))
	return nil
}
