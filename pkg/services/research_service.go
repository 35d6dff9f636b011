package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rivalscope/rivalscope-engine/pkg/apperrors"
	"github.com/rivalscope/rivalscope-engine/pkg/config"
	"github.com/rivalscope/rivalscope-engine/pkg/extract"
	"github.com/rivalscope/rivalscope-engine/pkg/llm"
	"github.com/rivalscope/rivalscope-engine/pkg/logging"
	"github.com/rivalscope/rivalscope-engine/pkg/models"
	"github.com/rivalscope/rivalscope-engine/pkg/prompts"
	"github.com/rivalscope/rivalscope-engine/pkg/repositories"
)

// ResearchService runs the competitor discovery and research pipeline for one
// company URL: look up the company, discover competitors (from the database
// when a prior run stored them, from the model provider otherwise), persist
// them, then research each competitor's financial time series.
type ResearchService interface {
	// StreamCompetitorResearch executes the pipeline and reports progress on
	// the event channel. Per-competitor faults become error-tagged entries and
	// the pipeline continues; only a failure before discovery resolves is
	// terminal, reported as a single error event and a non-nil return.
	// NOTE: Caller owns the channel and is responsible for closing it. This
	// service writes events but does not close the channel.
	StreamCompetitorResearch(ctx context.Context, companyURL string, events chan<- models.ResearchEvent) error
}

type researchService struct {
	companyRepo repositories.CompanyRepository
	recordRepo  repositories.FinancialRecordRepository
	completer   llm.TextCompleter
	aiCfg       *config.AIConfig
	logger      *zap.Logger
}

// NewResearchService creates a new research pipeline service.
func NewResearchService(
	companyRepo repositories.CompanyRepository,
	recordRepo repositories.FinancialRecordRepository,
	completer llm.TextCompleter,
	aiCfg *config.AIConfig,
	logger *zap.Logger,
) ResearchService {
	return &researchService{
		companyRepo: companyRepo,
		recordRepo:  recordRepo,
		completer:   completer,
		aiCfg:       aiCfg,
		logger:      logger.Named("research"),
	}
}

var _ ResearchService = (*researchService)(nil)

func (s *researchService) StreamCompetitorResearch(ctx context.Context, companyURL string, events chan<- models.ResearchEvent) error {
	events <- models.NewStatusEvent("Checking database for existing company...")

	existing, err := s.companyRepo.GetByURL(ctx, companyURL)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Error("Company lookup failed",
			zap.String("company_url", companyURL),
			zap.Error(err))
		events <- models.NewErrorEvent(err.Error())
		return err
	}

	var saved []models.SavedCompetitor

	switch {
	case existing != nil && existing.HasCompetitors():
		events <- models.NewStatusEvent(fmt.Sprintf(
			"Found existing company with %d competitors in database...", len(existing.CompetitorIDs)))

		saved, err = s.loadCachedCompetitors(ctx, existing, events)
		if err != nil {
			events <- models.NewErrorEvent(err.Error())
			return err
		}

	case existing != nil:
		events <- models.NewStatusEvent("Company found but no competitors. Finding competitors...")

		saved, err = s.discoverCompetitors(ctx, companyURL, existing, events)
		if err != nil {
			events <- models.NewErrorEvent(err.Error())
			return err
		}

	default:
		events <- models.NewStatusEvent("Company not found. Finding competitors...")

		saved, err = s.discoverCompetitors(ctx, companyURL, nil, events)
		if err != nil {
			events <- models.NewErrorEvent(err.Error())
			return err
		}
	}

	events <- models.NewStatusEventWithTotal("Starting competitor research...", len(saved))

	results := s.researchCompetitors(ctx, saved, events)

	totalSaved := 0
	for i := range saved {
		if !saved[i].Failed() {
			totalSaved++
		}
	}

	events <- models.NewCompleteEvent(companyURL, len(saved), totalSaved, results)
	return nil
}

// loadCachedCompetitors serves discovery from the stored competitor id list,
// with zero calls to the model provider.
func (s *researchService) loadCachedCompetitors(ctx context.Context, company *models.Company, events chan<- models.ResearchEvent) ([]models.SavedCompetitor, error) {
	companies, err := s.companyRepo.GetByIDs(ctx, company.CompetitorIDs)
	if err != nil {
		s.logger.Error("Failed to load cached competitors",
			zap.String("company_id", company.ID.String()),
			zap.Error(err))
		return nil, err
	}

	saved := make([]models.SavedCompetitor, 0, len(companies))
	for _, comp := range companies {
		saved = append(saved, models.SavedCompetitor{
			ID:      comp.ID,
			Name:    comp.Name,
			URL:     comp.WebsiteURL,
			Created: false,
		})
	}

	events <- models.NewCompetitorsListEvent(len(saved))
	for i := range saved {
		events <- models.NewCompetitorEvent(saved[i])
	}

	return saved, nil
}

// discoverCompetitors asks the model provider for competitors and persists
// each candidate, tolerating per-item failures. mainCompany may be nil when
// the origin company does not exist yet; it is created before competitor ids
// are stored on it.
func (s *researchService) discoverCompetitors(ctx context.Context, companyURL string, mainCompany *models.Company, events chan<- models.ResearchEvent) ([]models.SavedCompetitor, error) {
	prompt := prompts.BuildCompetitorDiscoveryPrompt(companyURL)

	response, err := s.completer.CompleteText(ctx, prompt, s.aiCfg.Model, s.aiCfg.Temperature)
	if err != nil {
		s.logger.Error("Discovery completion failed",
			zap.String("company_url", companyURL),
			zap.Error(err))
		return nil, err
	}

	candidates := extract.CompetitorList(response)
	if len(candidates) == 0 {
		s.logger.Warn("No competitors extracted from discovery response",
			zap.String("company_url", companyURL),
			zap.String("raw_response", logging.SanitizeResponse(response)))
	}
	events <- models.NewCompetitorsListEvent(len(candidates))

	mainID := s.ensureMainCompany(ctx, companyURL, mainCompany)

	saved := make([]models.SavedCompetitor, 0, len(candidates))
	competitorIDs := make([]uuid.UUID, 0, len(candidates))

	for _, candidate := range candidates {
		entry := s.saveCompetitor(ctx, candidate)
		saved = append(saved, entry)
		if !entry.Failed() {
			competitorIDs = append(competitorIDs, entry.ID)
		}
		events <- models.NewCompetitorEvent(entry)
	}

	if mainID != uuid.Nil && len(competitorIDs) > 0 {
		if _, err := s.companyRepo.SetCompetitorIDs(ctx, mainID, competitorIDs); err != nil {
			if errors.Is(err, apperrors.ErrUndefinedColumn) {
				s.logger.Warn("competitor_ids column missing, skipping competitor list persistence",
					zap.String("company_id", mainID.String()))
			} else {
				s.logger.Error("Failed to set competitor ids",
					zap.String("company_id", mainID.String()),
					zap.Error(err))
			}
		}
	}

	return saved, nil
}

// ensureMainCompany returns the id of the origin company, creating it with a
// URL-derived name when it does not exist. Returns uuid.Nil when creation
// fails; discovery continues without storing a competitor list.
func (s *researchService) ensureMainCompany(ctx context.Context, companyURL string, mainCompany *models.Company) uuid.UUID {
	if mainCompany != nil {
		return mainCompany.ID
	}

	if found, err := s.companyRepo.GetByURL(ctx, companyURL); err == nil {
		return found.ID
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("Main company lookup failed",
			zap.String("company_url", companyURL),
			zap.Error(err))
	}

	name := deriveCompanyName(companyURL)
	created, err := s.companyRepo.Create(ctx, name, &companyURL)
	if err != nil {
		s.logger.Error("Failed to create main company",
			zap.String("company_url", companyURL),
			zap.Error(err))
		return uuid.Nil
	}

	s.logger.Info("Created main company",
		zap.String("company_id", created.ID.String()),
		zap.String("name", name))
	return created.ID
}

// saveCompetitor resolves one discovery candidate to a stored company:
// matched by URL first, then by exact name; updated when fields changed;
// created otherwise. A failed create becomes an error-tagged entry.
func (s *researchService) saveCompetitor(ctx context.Context, candidate extract.Candidate) models.SavedCompetitor {
	existing := s.findExisting(ctx, candidate)

	if existing != nil {
		upd := models.CompanyUpdate{}
		if existing.Name != candidate.Name {
			upd.Name = &candidate.Name
		}
		if candidate.URL != "" && (existing.WebsiteURL == nil || *existing.WebsiteURL != candidate.URL) {
			upd.WebsiteURL = &candidate.URL
		}

		if upd.Name != nil || upd.WebsiteURL != nil {
			updated, err := s.companyRepo.Update(ctx, existing.ID, upd)
			if err != nil {
				s.logger.Warn("Failed to update existing competitor",
					zap.String("company_id", existing.ID.String()),
					zap.Error(err))
			} else {
				existing = updated
			}
		}

		return models.SavedCompetitor{
			ID:      existing.ID,
			Name:    existing.Name,
			URL:     existing.WebsiteURL,
			Created: false,
		}
	}

	created, err := s.companyRepo.Create(ctx, candidate.Name, urlPtr(candidate.URL))
	if err != nil {
		s.logger.Error("Failed to save competitor",
			zap.String("name", candidate.Name),
			zap.Error(err))
		return models.SavedCompetitor{
			Name:  candidate.Name,
			URL:   urlPtr(candidate.URL),
			Error: fmt.Sprintf("Failed to save: %s", err.Error()),
		}
	}

	s.logger.Info("Created new competitor",
		zap.String("company_id", created.ID.String()),
		zap.String("name", created.Name))

	return models.SavedCompetitor{
		ID:      created.ID,
		Name:    created.Name,
		URL:     created.WebsiteURL,
		Created: true,
	}
}

// findExisting looks up a candidate by URL first (most reliable), then by
// exact name. Lookup errors are warn-logged and treated as a miss. The exact
// name fallback can merge distinct companies that share a name; current
// behavior, kept as-is.
func (s *researchService) findExisting(ctx context.Context, candidate extract.Candidate) *models.Company {
	if candidate.URL != "" {
		company, err := s.companyRepo.GetByURL(ctx, candidate.URL)
		if err == nil {
			return company
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Error checking for existing company by URL",
				zap.String("url", candidate.URL),
				zap.Error(err))
		}
	}

	company, err := s.companyRepo.GetByName(ctx, candidate.Name)
	if err == nil {
		return company
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("Error checking for existing company by name",
			zap.String("name", candidate.Name),
			zap.Error(err))
	}

	return nil
}

// researchCompetitors runs the research loop. Each competitor with a URL and
// no prior error is checked against stored records first; only misses reach
// the model provider. One competitor's fault never stops the loop.
func (s *researchService) researchCompetitors(ctx context.Context, saved []models.SavedCompetitor, events chan<- models.ResearchEvent) []models.ResearchResult {
	results := make([]models.ResearchResult, 0, len(saved))

	for i := range saved {
		competitor := &saved[i]
		if !competitor.Researchable() {
			continue
		}

		result := s.researchOne(ctx, competitor, events)
		results = append(results, result)
		events <- models.NewCompetitorResearchEvent(result)
	}

	return results
}

func (s *researchService) researchOne(ctx context.Context, competitor *models.SavedCompetitor, events chan<- models.ResearchEvent) models.ResearchResult {
	events <- models.NewResearchStatusEvent(competitor.ID, competitor.Name, models.PhaseChecking)

	cached, err := s.recordRepo.GetResearchData(ctx, competitor.ID)
	if err != nil {
		s.logger.Error("Error researching competitor",
			zap.String("company_id", competitor.ID.String()),
			zap.String("name", competitor.Name),
			zap.Error(err))
		return errorResult(competitor, err)
	}

	if cached != nil {
		s.logger.Info("Found existing research data, streaming from database",
			zap.String("company_id", competitor.ID.String()),
			zap.String("name", competitor.Name))
		events <- models.NewResearchStatusEvent(competitor.ID, competitor.Name, models.PhaseFoundInDB)

		return models.ResearchResult{
			CompetitorID:   competitor.ID,
			CompetitorName: competitor.Name,
			Status:         models.ResearchSuccess,
			FromCache:      true,
			Data:           cached,
		}
	}

	events <- models.NewResearchStatusEvent(competitor.ID, competitor.Name, models.PhaseAnalyzing)

	prompt := prompts.BuildCompanyResearchPrompt(*competitor.URL)
	response, err := s.completer.CompleteText(ctx, prompt, s.aiCfg.Model, s.aiCfg.Temperature)
	if err != nil {
		s.logger.Error("Research completion failed",
			zap.String("company_id", competitor.ID.String()),
			zap.String("name", competitor.Name),
			zap.Error(err))
		return errorResult(competitor, err)
	}

	data := extract.ResearchData(response)
	if data == nil {
		s.logger.Warn("Could not parse research data",
			zap.String("company_id", competitor.ID.String()),
			zap.String("name", competitor.Name),
			zap.String("raw_response", logging.SanitizeResponse(response)))
		return models.ResearchResult{
			CompetitorID:   competitor.ID,
			CompetitorName: competitor.Name,
			Status:         models.ResearchFailed,
			Error:          "Could not parse research data",
		}
	}

	s.persistResearchData(ctx, competitor.ID, data)

	s.logger.Info("Successfully researched and saved data",
		zap.String("company_id", competitor.ID.String()),
		zap.String("name", competitor.Name),
		zap.Int("points", data.TotalPoints()))

	return models.ResearchResult{
		CompetitorID:   competitor.ID,
		CompetitorName: competitor.Name,
		Status:         models.ResearchSuccess,
		FromCache:      false,
		Data:           data,
	}
}

// persistResearchData upserts every parsed point. Per-point failures are
// warn-logged; the reported counts reflect the parsed series, not a re-read.
func (s *researchService) persistResearchData(ctx context.Context, companyID uuid.UUID, data *models.ResearchData) {
	for _, kind := range models.RecordKinds {
		for _, point := range data.Series(kind) {
			_, err := s.recordRepo.Upsert(ctx, kind, companyID, point.Value, point.Year, point.Source)
			if err != nil {
				s.logger.Warn("Failed to upsert research point",
					zap.String("company_id", companyID.String()),
					zap.String("kind", string(kind)),
					zap.Int("year", point.Year),
					zap.Error(err))
			}
		}
	}
}

func errorResult(competitor *models.SavedCompetitor, err error) models.ResearchResult {
	return models.ResearchResult{
		CompetitorID:   competitor.ID,
		CompetitorName: competitor.Name,
		Status:         models.ResearchError,
		Error:          err.Error(),
	}
}

// deriveCompanyName turns a URL into a display name: host minus a leading
// "www.", first dot-label, title-cased. Falls back to the raw URL when the
// host cannot be determined.
func deriveCompanyName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	host := parsed.Host
	if host == "" {
		// Scheme-less input like "acme.test" parses entirely into Path.
		if reparsed, err := url.Parse("https://" + rawURL); err == nil {
			host = reparsed.Host
		}
	}

	host = strings.TrimPrefix(host, "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return rawURL
	}

	return cases.Title(language.English).String(strings.ToLower(label))
}

func urlPtr(u string) *string {
	if u == "" {
		return nil
	}
	return &u
}
