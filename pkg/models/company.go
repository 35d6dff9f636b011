package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is a discovered or directly requested business. WebsiteURL is the
// primary dedup key when present; Name is the fallback. CompetitorIDs is
// directional: A listing B does not imply B lists A.
type Company struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	WebsiteURL    *string     `json:"website_url"`
	CompetitorIDs []uuid.UUID `json:"competitor_ids"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// HasCompetitors reports whether a prior discovery run already populated the
// competitor list for this company.
func (c *Company) HasCompetitors() bool {
	return len(c.CompetitorIDs) > 0
}

// CompanyUpdate carries the mutable fields of a company. Nil fields are left
// unchanged.
type CompanyUpdate struct {
	Name       *string
	WebsiteURL *string
}
