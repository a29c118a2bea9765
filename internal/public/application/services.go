package application

import (
	"context"
	"math"
	"time"

	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

const (
	// DefaultPageLimit applies to every list endpoint when limit is absent or invalid.
	DefaultPageLimit = 30
	// DefaultUpcomingDays is the ticketing window used by the home page.
	DefaultUpcomingDays = 7
	// MaxUpcomingDays bounds the ticketing window.
	MaxUpcomingDays = 31
)

// ConcertRepository abstracts read access to the concert collection.
// It is the only port the query service depends on and it never writes.
type ConcertRepository interface {
	// Find applies filter, sorts by sort timestamp descending and returns one page plus the total match count.
	Find(ctx context.Context, filter ConcertFilter, paging Paging) ([]domain.Concert, int, error)
	// FindAll returns the whole collection sorted by sort timestamp descending.
	FindAll(ctx context.Context) ([]domain.Concert, error)
	// FindByPerformanceRange pushes the date-range match and earliest-date ordering to the store.
	FindByPerformanceRange(ctx context.Context, r domain.DateRange, paging Paging) ([]domain.Concert, int, error)
	FindByID(ctx context.Context, id string) (*domain.Concert, error)
	DistinctCities(ctx context.Context) ([]string, error)
}

// ConcertFilter expresses store-side search criteria. Empty fields do not filter.
type ConcertFilter struct {
	City    string
	Keyword string
}

// Paging controls pagination. Page is 1-indexed.
type Paging struct {
	Page  int
	Limit int
}

// Skip is the number of matches preceding the page. It saturates at math.MaxInt
// instead of overflowing, and is never negative.
func (p Paging) Skip() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

func (p Paging) normalize() Paging {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	return p
}

// ConcertQueryService describes the read use-cases behind the public listing endpoints.
type ConcertQueryService interface {
	ListAll(ctx context.Context, paging Paging) (domain.Page, error)
	ListByCity(ctx context.Context, city string, paging Paging) (domain.Page, error)
	SearchByKeyword(ctx context.Context, text string, paging Paging) (domain.Page, error)
	SearchByDateRange(ctx context.Context, startDate, endDate string, paging Paging) (domain.Page, error)
	UpcomingTicketing(ctx context.Context, days int, paging Paging) (domain.Page, error)
	Cities(ctx context.Context) ([]string, error)
	Detail(ctx context.Context, id string) (*domain.Concert, error)
}

// QueryObserver receives the outcome of every query; used for metrics.
type QueryObserver interface {
	ObserveQuery(operation string, elapsed time.Duration, err error)
}

// IndexCoverage reports how many concerts lack precomputed performance times.
// Indexed date search is only trusted while nothing is missing.
type IndexCoverage interface {
	MissingPerformanceTimes(ctx context.Context) (int, error)
}

// DefaultCoverageTTL is how long an index coverage result is reused.
const DefaultCoverageTTL = 30 * time.Second

// DateSearchMode selects how date-range searches execute.
type DateSearchMode string

const (
	// DateSearchIndexed runs the range match as a store aggregation over precomputed timestamps.
	// It falls back to a scan while any concert lacks them.
	DateSearchIndexed DateSearchMode = "indexed"
	// DateSearchScan loads the full collection and filters in memory. It is the default.
	DateSearchScan DateSearchMode = "scan"
)

// Valid reports whether m names a known mode.
func (m DateSearchMode) Valid() bool {
	return m == DateSearchIndexed || m == DateSearchScan
}
