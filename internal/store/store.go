package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ComparisonRun is one persisted comparison: the sizing inputs plus
// the rendered per-scenario summaries. Summaries holds the JSON
// document the API serves back; infinite metrics are already encoded
// as nulls by the time a run reaches the store.
type ComparisonRun struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Region    string    `json:"region"`
	Year      int       `json:"year"`

	BatteryPowerMW float64 `json:"battery_power_mw"`
	BatteryHours   float64 `json:"battery_hours"`
	SolarMW        float64 `json:"solar_mw"`

	// RevenueSource is "dispatch", "benchmark", or "mixed" when the
	// scenarios in one run were priced differently.
	RevenueSource string `json:"revenue_source"`

	Summaries json.RawMessage `json:"summaries"`
}

// RunStore provides access to comparison_runs storage.
type RunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if the run ID exists.
	Insert(ctx context.Context, run *ComparisonRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id uuid.UUID) (*ComparisonRun, error)

	// ListRecent retrieves up to limit runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]*ComparisonRun, error)
}
