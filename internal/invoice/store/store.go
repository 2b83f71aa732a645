// Package store persists invoice records. The flat CSV file is the primary
// medium; memory and postgres implementations share the same contract so
// services and tests are interchangeable across them.
package store

import (
	"context"

	"intakeflow/internal/invoice/models"
)

// Predicate selects rows for UpdateWhere.
type Predicate func(models.Record) bool

// Apply mutates a selected row in place.
type Apply func(*models.Record)

// RecordStore is the append/lookup/update contract over invoice rows.
//
// Rows are never deleted. Lookup follows last-write-wins semantics: when
// multiple rows share a business key, the physically last row is authoritative.
// There is no rollback; a crash mid-write can leave a malformed trailing row,
// which is an accepted risk of the medium.
type RecordStore interface {
	// Lookup returns the most recently appended row for the business key,
	// or sentinel.ErrNotFound.
	Lookup(ctx context.Context, businessKey string) (models.Record, error)

	// Append adds a new row without touching existing ones.
	Append(ctx context.Context, rec models.Record) error

	// UpdateWhere overwrites all rows matching pred in place and reports how
	// many were touched.
	UpdateWhere(ctx context.Context, pred Predicate, apply Apply) (int, error)

	// Exists reports whether any row carries the business key.
	Exists(ctx context.Context, businessKey string) (bool, error)

	// All returns every row in append order.
	All(ctx context.Context) ([]models.Record, error)
}
