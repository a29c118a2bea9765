package application

import (
	"context"
	"fmt"
	"time"

	admindomain "github.com/akuan1997/concertweb/api/internal/admin/domain"
	publicdomain "github.com/akuan1997/concertweb/api/internal/public/domain"
)

const defaultRebuildBatchSize = 500

// indexService implements IndexService.
type indexService struct {
	repo      IndexRepository
	location  *time.Location
	batchSize int
}

// NewIndexService creates an IndexService that parses schedule strings in loc.
func NewIndexService(repo IndexRepository, loc *time.Location) IndexService {
	if loc == nil {
		loc = time.UTC
	}
	return &indexService{repo: repo, location: loc, batchSize: defaultRebuildBatchSize}
}

func (s *indexService) Status(ctx context.Context) (admindomain.IndexStatus, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return admindomain.IndexStatus{}, fmt.Errorf("count concerts: %w", err)
	}
	indexed, err := s.repo.CountIndexed(ctx)
	if err != nil {
		return admindomain.IndexStatus{}, fmt.Errorf("count indexed concerts: %w", err)
	}
	missing := total - indexed
	if missing < 0 {
		missing = 0
	}
	return admindomain.IndexStatus{Total: total, Indexed: indexed, Missing: missing}, nil
}

// Rebuild recomputes the performance timestamps of every concert with the same
// parser the date search uses. Concerts without a parseable date get an empty set.
func (s *indexService) Rebuild(ctx context.Context) (admindomain.RebuildResult, error) {
	var result admindomain.RebuildResult
	batch := make([]admindomain.IndexUpdate, 0, s.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		updated, err := s.repo.SetPerformanceTimes(ctx, batch)
		if err != nil {
			return fmt.Errorf("write index batch: %w", err)
		}
		result.Updated += updated
		batch = make([]admindomain.IndexUpdate, 0, s.batchSize)
		return nil
	}

	err := s.repo.ScanPerformanceDates(ctx, func(id string, dates []string) error {
		result.Scanned++
		times := publicdomain.ParseScheduleTimes(dates, s.location)
		if len(times) == 0 {
			result.Unparseable++
		}
		batch = append(batch, admindomain.IndexUpdate{ConcertID: id, Times: times})
		if len(batch) >= s.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("rebuild index: %w", err)
	}
	if err := flush(); err != nil {
		return result, fmt.Errorf("rebuild index: %w", err)
	}
	return result, nil
}
