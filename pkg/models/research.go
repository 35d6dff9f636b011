package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// SavedCompetitor is one entry of a discovery batch. Successful entries carry
// the stored company id and whether the row was newly created; failed entries
// carry the error message instead and are skipped by the research loop.
type SavedCompetitor struct {
	ID      uuid.UUID
	Name    string
	URL     *string
	Created bool
	Error   string
}

// Failed reports whether this entry recorded a per-item save failure.
func (c *SavedCompetitor) Failed() bool {
	return c.Error != ""
}

// Researchable reports whether the research loop should process this entry.
func (c *SavedCompetitor) Researchable() bool {
	return !c.Failed() && c.URL != nil && *c.URL != ""
}

// MarshalJSON emits the wire shape: {id, name, url, created} for saved
// entries, {name, url, error} for failed ones. Created is always present on
// the success shape, including created=false for reused rows.
func (c SavedCompetitor) MarshalJSON() ([]byte, error) {
	if c.Failed() {
		return json.Marshal(struct {
			Name  string  `json:"name"`
			URL   *string `json:"url"`
			Error string  `json:"error"`
		}{Name: c.Name, URL: c.URL, Error: c.Error})
	}
	return json.Marshal(struct {
		ID      uuid.UUID `json:"id"`
		Name    string    `json:"name"`
		URL     *string   `json:"url"`
		Created bool      `json:"created"`
	}{ID: c.ID, Name: c.Name, URL: c.URL, Created: c.Created})
}

// ResearchOutcome is the terminal status of one competitor's research.
type ResearchOutcome string

const (
	ResearchSuccess ResearchOutcome = "success"
	ResearchFailed  ResearchOutcome = "failed"
	ResearchError   ResearchOutcome = "error"
)

// ResearchResult is the terminal record for one competitor's research pass.
// Data is nil unless Status is success.
type ResearchResult struct {
	CompetitorID   uuid.UUID
	CompetitorName string
	Status         ResearchOutcome
	FromCache      bool
	Error          string
	Data           *ResearchData
}

// MarshalJSON emits the wire shape. Successful results carry from_cache, the
// per-series counts, and the series themselves; failed and error results carry
// only the error message.
func (r ResearchResult) MarshalJSON() ([]byte, error) {
	if r.Status != ResearchSuccess {
		return json.Marshal(struct {
			CompetitorID   uuid.UUID       `json:"competitor_id"`
			CompetitorName string          `json:"competitor_name"`
			Status         ResearchOutcome `json:"status"`
			Error          string          `json:"error"`
		}{
			CompetitorID:   r.CompetitorID,
			CompetitorName: r.CompetitorName,
			Status:         r.Status,
			Error:          r.Error,
		})
	}

	data := r.Data
	if data == nil {
		data = &ResearchData{}
	}
	return json.Marshal(struct {
		CompetitorID   uuid.UUID         `json:"competitor_id"`
		CompetitorName string            `json:"competitor_name"`
		Status         ResearchOutcome   `json:"status"`
		FromCache      bool              `json:"from_cache"`
		NetworthCount  int               `json:"networth_count"`
		UsersCount     int               `json:"users_count"`
		FundingCount   int               `json:"funding_count"`
		Networth       []TimeSeriesPoint `json:"networth"`
		Users          []TimeSeriesPoint `json:"users"`
		Funding        []TimeSeriesPoint `json:"funding"`
	}{
		CompetitorID:   r.CompetitorID,
		CompetitorName: r.CompetitorName,
		Status:         r.Status,
		FromCache:      r.FromCache,
		NetworthCount:  len(data.Networth),
		UsersCount:     len(data.Users),
		FundingCount:   len(data.Funding),
		Networth:       emptyIfNil(data.Networth),
		Users:          emptyIfNil(data.Users),
		Funding:        emptyIfNil(data.Funding),
	})
}

func emptyIfNil(points []TimeSeriesPoint) []TimeSeriesPoint {
	if points == nil {
		return []TimeSeriesPoint{}
	}
	return points
}
