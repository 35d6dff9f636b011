package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/rivalscope/rivalscope-engine/pkg/apperrors"
	"github.com/rivalscope/rivalscope-engine/pkg/services"
)

// defaultCompanyListLimit bounds unqualified list requests.
const defaultCompanyListLimit = 50

// CompaniesHandler serves the read/operator API over stored companies.
type CompaniesHandler struct {
	companyService services.CompanyService
	logger         *zap.Logger
}

// NewCompaniesHandler creates a new CompaniesHandler.
func NewCompaniesHandler(companyService services.CompanyService, logger *zap.Logger) *CompaniesHandler {
	return &CompaniesHandler{
		companyService: companyService,
		logger:         logger.Named("companies-handler"),
	}
}

// RegisterRoutes registers the companies handler's routes on the given mux.
func (h *CompaniesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/companies", h.List)
	mux.HandleFunc("GET /api/companies/{id}", h.Get)
	mux.HandleFunc("GET /api/companies/{id}/research", h.GetResearch)
	mux.HandleFunc("DELETE /api/companies/{id}", h.Delete)
}

// List handles GET /api/companies?limit=N
func (h *CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultCompanyListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "Limit must be a positive integer"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		limit = parsed
	}

	companies, err := h.companyService.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list companies", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_failed", "Failed to list companies"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: companies}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/companies/{id}
func (h *CompaniesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseCompanyID(w, r, h.logger)
	if !ok {
		return
	}

	company, err := h.companyService.Get(r.Context(), id)
	if err != nil {
		h.writeCompanyError(w, id.String(), "get", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: company}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetResearch handles GET /api/companies/{id}/research
func (h *CompaniesHandler) GetResearch(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseCompanyID(w, r, h.logger)
	if !ok {
		return
	}

	data, err := h.companyService.GetResearchData(r.Context(), id)
	if err != nil {
		h.writeCompanyError(w, id.String(), "research", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: data}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/companies/{id}
func (h *CompaniesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseCompanyID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.companyService.Delete(r.Context(), id); err != nil {
		h.writeCompanyError(w, id.String(), "delete", err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Company deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *CompaniesHandler) writeCompanyError(w http.ResponseWriter, companyID, op string, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		if err := ErrorResponse(w, http.StatusNotFound, "company_not_found", "Company not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.logger.Error("Company operation failed",
		zap.String("company_id", companyID),
		zap.String("op", op),
		zap.Error(err))
	if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Operation failed"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
