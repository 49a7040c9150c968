package domain

import (
	"time"
)

// SeriesSummary is the listing form of a registered series. It carries
// the shape of the snapshot and its registry timestamps, never the
// values; callers fetch the full payload per series when they need it.
type SeriesSummary struct {
	// Name is the registry key the series was stored under
	Name string `json:"name"`

	// DType is the declared element type of the snapshot
	DType string `json:"dtype"`

	// Length is the element count of the snapshot
	Length int `json:"length"`

	// RegisteredAt is when the name first appeared in the registry
	RegisteredAt time.Time `json:"registered_at"`

	// UpdatedAt advances every time the name is re-registered
	UpdatedAt time.Time `json:"updated_at"`
}
