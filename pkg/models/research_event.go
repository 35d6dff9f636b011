package models

import "github.com/google/uuid"

// ResearchEventType represents the type of a streaming pipeline event.
type ResearchEventType string

const (
	EventStatus             ResearchEventType = "status"
	EventCompetitorsList    ResearchEventType = "competitors_list"
	EventCompetitor         ResearchEventType = "competitor"
	EventResearchStatus     ResearchEventType = "research_status"
	EventCompetitorResearch ResearchEventType = "competitor_research"
	EventComplete           ResearchEventType = "complete"
	EventError              ResearchEventType = "error"
)

// ResearchPhase is the per-competitor research progress marker.
type ResearchPhase string

const (
	PhaseChecking  ResearchPhase = "checking"
	PhaseAnalyzing ResearchPhase = "analyzing"
	PhaseFoundInDB ResearchPhase = "found_in_db"
)

// ResearchEvent is one frame of the discovery/research stream. Each concrete
// event marshals to a single JSON object with a "type" discriminator.
type ResearchEvent interface {
	EventType() ResearchEventType
}

// StatusEvent reports a coarse pipeline phase to the caller.
// TotalCompetitors is set only on the research kickoff status. It is a
// pointer because zero is a real value there: a kickoff over an empty
// competitor list still reports total_competitors on the wire.
type StatusEvent struct {
	Type             ResearchEventType `json:"type"`
	Message          string            `json:"message"`
	TotalCompetitors *int              `json:"total_competitors,omitempty"`
}

func (e StatusEvent) EventType() ResearchEventType { return e.Type }

// NewStatusEvent creates a plain status event.
func NewStatusEvent(message string) StatusEvent {
	return StatusEvent{Type: EventStatus, Message: message}
}

// NewStatusEventWithTotal creates a status event that also reports how many
// competitors the research loop will cover.
func NewStatusEventWithTotal(message string, total int) StatusEvent {
	return StatusEvent{Type: EventStatus, Message: message, TotalCompetitors: &total}
}

// CompetitorsListEvent announces how many competitor entries follow.
type CompetitorsListEvent struct {
	Type  ResearchEventType `json:"type"`
	Total int               `json:"total"`
}

func (e CompetitorsListEvent) EventType() ResearchEventType { return e.Type }

// NewCompetitorsListEvent creates a competitors_list event.
func NewCompetitorsListEvent(total int) CompetitorsListEvent {
	return CompetitorsListEvent{Type: EventCompetitorsList, Total: total}
}

// CompetitorEvent reports one resolved discovery entry.
type CompetitorEvent struct {
	Type       ResearchEventType `json:"type"`
	Competitor SavedCompetitor   `json:"competitor"`
}

func (e CompetitorEvent) EventType() ResearchEventType { return e.Type }

// NewCompetitorEvent creates a competitor event.
func NewCompetitorEvent(c SavedCompetitor) CompetitorEvent {
	return CompetitorEvent{Type: EventCompetitor, Competitor: c}
}

// ResearchStatusEvent reports a per-competitor research phase transition.
type ResearchStatusEvent struct {
	Type           ResearchEventType `json:"type"`
	CompetitorID   uuid.UUID         `json:"competitor_id"`
	CompetitorName string            `json:"competitor_name"`
	Status         ResearchPhase     `json:"status"`
}

func (e ResearchStatusEvent) EventType() ResearchEventType { return e.Type }

// NewResearchStatusEvent creates a research_status event.
func NewResearchStatusEvent(id uuid.UUID, name string, phase ResearchPhase) ResearchStatusEvent {
	return ResearchStatusEvent{
		Type:           EventResearchStatus,
		CompetitorID:   id,
		CompetitorName: name,
		Status:         phase,
	}
}

// CompetitorResearchEvent carries the terminal result for one competitor.
type CompetitorResearchEvent struct {
	Type   ResearchEventType `json:"type"`
	Result ResearchResult    `json:"result"`
}

func (e CompetitorResearchEvent) EventType() ResearchEventType { return e.Type }

// NewCompetitorResearchEvent creates a competitor_research event.
func NewCompetitorResearchEvent(result ResearchResult) CompetitorResearchEvent {
	return CompetitorResearchEvent{Type: EventCompetitorResearch, Result: result}
}

// CompleteEvent is the final frame of a successful run.
type CompleteEvent struct {
	Type            ResearchEventType `json:"type"`
	CompanyURL      string            `json:"company_url"`
	TotalFound      int               `json:"total_found"`
	TotalSaved      int               `json:"total_saved"`
	ResearchResults []ResearchResult  `json:"research_results"`
}

func (e CompleteEvent) EventType() ResearchEventType { return e.Type }

// NewCompleteEvent creates a complete event. A nil results slice marshals as [].
func NewCompleteEvent(companyURL string, totalFound, totalSaved int, results []ResearchResult) CompleteEvent {
	if results == nil {
		results = []ResearchResult{}
	}
	return CompleteEvent{
		Type:            EventComplete,
		CompanyURL:      companyURL,
		TotalFound:      totalFound,
		TotalSaved:      totalSaved,
		ResearchResults: results,
	}
}

// ErrorEvent reports a terminal pipeline failure.
type ErrorEvent struct {
	Type  ResearchEventType `json:"type"`
	Error string            `json:"error"`
}

func (e ErrorEvent) EventType() ResearchEventType { return e.Type }

// NewErrorEvent creates an error event.
func NewErrorEvent(msg string) ErrorEvent {
	return ErrorEvent{Type: EventError, Error: msg}
}
