// Package repository defines the wellness history store interface and
// errors. The store is the data-source collaborator of the scoring
// core: it yields chronologically ordered records for arbitrary
// lookback windows.
package repository

import (
	"context"
	"time"

	"github.com/okian/fettle/internal/domain/model"
)

// Store provides read/write access to per-athlete wellness history.
type Store interface {
	// Put inserts or replaces the record for (athlete, record day).
	// Returns true when a new day was created, false on replacement.
	Put(ctx context.Context, athleteID string, rec model.WellnessRecord) (bool, error)

	// Get returns the record for one athlete-day.
	// Returns ErrNotFound if the day is unknown.
	Get(ctx context.Context, athleteID string, day time.Time) (model.WellnessRecord, error)

	// Range returns the records with from <= day <= to in chronological
	// order. An unknown athlete yields an empty slice, not an error.
	Range(ctx context.Context, athleteID string, from, to time.Time) ([]model.WellnessRecord, error)

	// Count returns the total number of records across all athletes.
	Count(ctx context.Context) int

	// Athletes returns the number of athletes with at least one record.
	Athletes(ctx context.Context) int
}
