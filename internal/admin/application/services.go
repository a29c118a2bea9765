package application

import (
	"context"

	admindomain "github.com/akuan1997/concertweb/api/internal/admin/domain"
)

// IndexRepository exposes the derived-field maintenance operations on the concert collection.
// Implementations must only ever write the derived performance timestamps.
type IndexRepository interface {
	CountAll(ctx context.Context) (int, error)
	CountIndexed(ctx context.Context) (int, error)
	// ScanPerformanceDates calls fn with the raw performance dates of every concert.
	ScanPerformanceDates(ctx context.Context, fn func(id string, dates []string) error) error
	SetPerformanceTimes(ctx context.Context, updates []admindomain.IndexUpdate) (int, error)
}

// IndexService describes admin index maintenance use-cases.
type IndexService interface {
	Status(ctx context.Context) (admindomain.IndexStatus, error)
	Rebuild(ctx context.Context) (admindomain.RebuildResult, error)
}
