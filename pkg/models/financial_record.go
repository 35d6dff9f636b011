package models

import (
	"time"

	"github.com/google/uuid"
)

// RecordKind selects one of the three time-series variants tracked per company.
type RecordKind string

const (
	RecordNetworth RecordKind = "networth"
	RecordUsers    RecordKind = "users"
	RecordFunding  RecordKind = "funding"
)

// RecordKinds contains all valid record kind values in wire order.
var RecordKinds = []RecordKind{RecordNetworth, RecordUsers, RecordFunding}

// IsValidRecordKind checks if the given kind is valid.
func IsValidRecordKind(k RecordKind) bool {
	for _, v := range RecordKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Table returns the backing table for the kind.
func (k RecordKind) Table() string {
	switch k {
	case RecordNetworth:
		return "company_networth"
	case RecordUsers:
		return "company_users"
	case RecordFunding:
		return "company_funding"
	}
	return ""
}

// ValueColumn returns the value column name for the kind. The monetary
// variants store NUMERIC(20,2) as value_usd; user counts store BIGINT as value.
func (k RecordKind) ValueColumn() string {
	if k == RecordUsers {
		return "value"
	}
	return "value_usd"
}

// Monetary reports whether the kind carries a currency amount.
func (k RecordKind) Monetary() bool {
	return k != RecordUsers
}

// FinancialRecord is one stored time-series row. At most one row exists per
// (company, year) within a kind; later writes overwrite value and source.
type FinancialRecord struct {
	ID        uuid.UUID  `json:"id"`
	CompanyID uuid.UUID  `json:"company_id"`
	Kind      RecordKind `json:"kind"`
	Value     float64    `json:"value"`
	Year      int        `json:"year"`
	SourceURL string     `json:"source_url"`
	CreatedAt time.Time  `json:"created_at"`
}

// Point converts a stored record to its wire shape.
func (r *FinancialRecord) Point() TimeSeriesPoint {
	return TimeSeriesPoint{Value: r.Value, Year: r.Year, Source: r.SourceURL}
}

// TimeSeriesPoint is one (value, year, source) observation, both as parsed
// from generation output and as returned from storage.
type TimeSeriesPoint struct {
	Value  float64 `json:"value"`
	Year   int     `json:"year"`
	Source string  `json:"source"`
}

// ResearchData groups the three time series researched for one company.
type ResearchData struct {
	Networth []TimeSeriesPoint `json:"networth"`
	Users    []TimeSeriesPoint `json:"users"`
	Funding  []TimeSeriesPoint `json:"funding"`
}

// Series returns the points for one kind.
func (d *ResearchData) Series(k RecordKind) []TimeSeriesPoint {
	switch k {
	case RecordNetworth:
		return d.Networth
	case RecordUsers:
		return d.Users
	case RecordFunding:
		return d.Funding
	}
	return nil
}

// IsEmpty reports whether no series holds any point.
func (d *ResearchData) IsEmpty() bool {
	return len(d.Networth) == 0 && len(d.Users) == 0 && len(d.Funding) == 0
}

// TotalPoints returns the point count across all three series.
func (d *ResearchData) TotalPoints() int {
	return len(d.Networth) + len(d.Users) + len(d.Funding)
}
