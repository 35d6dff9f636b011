package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/rivalscope/rivalscope-engine/pkg/models"
	"github.com/rivalscope/rivalscope-engine/pkg/services"
	"github.com/rivalscope/rivalscope-engine/pkg/sse"
)

// FindCompetitorsRequest is the POST body for the competitors endpoint.
type FindCompetitorsRequest struct {
	URL string `json:"url"`
}

// ResearchHandler serves the streaming competitor discovery and research
// endpoint.
type ResearchHandler struct {
	researchService services.ResearchService
	logger          *zap.Logger
}

// NewResearchHandler creates a new ResearchHandler.
func NewResearchHandler(researchService services.ResearchService, logger *zap.Logger) *ResearchHandler {
	return &ResearchHandler{
		researchService: researchService,
		logger:          logger.Named("research-handler"),
	}
}

// RegisterRoutes registers the research handler's routes on the given mux.
func (h *ResearchHandler) RegisterRoutes(mux *http.ServeMux) {
	// GET serves EventSource clients; POST serves clients that send JSON and
	// read the streamed body. Both produce the same SSE stream.
	mux.HandleFunc("GET /api/competitors", h.FindCompetitors)
	mux.HandleFunc("POST /api/competitors", h.FindCompetitors)
}

// FindCompetitors handles GET/POST /api/competitors.
// Validation failures are plain JSON errors; everything after validation is
// reported on the SSE stream itself.
func (h *ResearchHandler) FindCompetitors(w http.ResponseWriter, r *http.Request) {
	var companyURL string

	if r.Method == http.MethodPost {
		var req FindCompetitorsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.streamSetupError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
		companyURL = req.URL
	} else {
		companyURL = r.URL.Query().Get("url")
	}

	if companyURL == "" {
		h.streamSetupError(w, http.StatusBadRequest, "Company URL is required. Use 'url' parameter.")
		return
	}

	stream, err := sse.NewWriter(w)
	if err != nil {
		h.logger.Error("SSE not supported", zap.Error(err))
		h.streamSetupError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	eventChan := make(chan models.ResearchEvent, 100)

	// Run the pipeline in the background; terminal errors already arrive as
	// error events on the channel.
	go func() {
		defer close(eventChan)
		if err := h.researchService.StreamCompetitorResearch(r.Context(), companyURL, eventChan); err != nil {
			h.logger.Error("Competitor research pipeline failed",
				zap.String("company_url", companyURL),
				zap.Error(err))
		}
	}()

	for event := range eventChan {
		if err := stream.Send(event); err != nil {
			// Client likely went away; keep draining so the pipeline finishes
			// its persistence work.
			h.logger.Debug("Failed to write event", zap.Error(err))
		}
	}
}

// streamSetupError writes the non-streaming error body used before the SSE
// stream starts: a bare {"error": "..."} object.
func (h *ResearchHandler) streamSetupError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
