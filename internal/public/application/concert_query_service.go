package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

// concertQueryService is the concrete implementation of ConcertQueryService.
type concertQueryService struct {
	repo       ConcertRepository
	location   *time.Location
	dateSearch DateSearchMode
	now        func() time.Time
	observer   QueryObserver

	coverage    IndexCoverage
	coverageTTL time.Duration

	mu                sync.Mutex
	coverageCheckedAt time.Time
	coverageComplete  bool
}

// Option customises a ConcertQueryService.
type Option func(*concertQueryService)

// WithLocation sets the time zone used to interpret query dates and schedule strings.
func WithLocation(loc *time.Location) Option {
	return func(s *concertQueryService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithDateSearchMode selects the date-range strategy.
func WithDateSearchMode(mode DateSearchMode) Option {
	return func(s *concertQueryService) {
		if mode.Valid() {
			s.dateSearch = mode
		}
	}
}

// WithClock overrides the time source used for the upcoming ticketing window.
func WithClock(now func() time.Time) Option {
	return func(s *concertQueryService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithObserver reports every query outcome to o.
func WithObserver(o QueryObserver) Option {
	return func(s *concertQueryService) {
		s.observer = o
	}
}

// WithIndexCoverage makes indexed date search fall back to a scan while c reports
// concerts without precomputed times. Results are reused for ttl; ttl <= 0 selects
// DefaultCoverageTTL.
func WithIndexCoverage(c IndexCoverage, ttl time.Duration) Option {
	return func(s *concertQueryService) {
		s.coverage = c
		if ttl <= 0 {
			ttl = DefaultCoverageTTL
		}
		s.coverageTTL = ttl
	}
}

// NewConcertQueryService creates a new concert query service.
func NewConcertQueryService(repo ConcertRepository, opts ...Option) ConcertQueryService {
	s := &concertQueryService{
		repo:       repo,
		location:   time.UTC,
		dateSearch: DateSearchScan,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *concertQueryService) ListAll(ctx context.Context, paging Paging) (page domain.Page, err error) {
	defer s.observe("list_all", time.Now(), &err)
	return s.find(ctx, ConcertFilter{}, paging)
}

func (s *concertQueryService) ListByCity(ctx context.Context, city string, paging Paging) (page domain.Page, err error) {
	defer s.observe("list_by_city", time.Now(), &err)
	// City is an exact, case-sensitive match; only surrounding whitespace is dropped.
	return s.find(ctx, ConcertFilter{City: strings.TrimSpace(city)}, paging)
}

func (s *concertQueryService) SearchByKeyword(ctx context.Context, text string, paging Paging) (page domain.Page, err error) {
	defer s.observe("search_by_keyword", time.Now(), &err)
	return s.find(ctx, ConcertFilter{Keyword: strings.TrimSpace(text)}, paging)
}

func (s *concertQueryService) SearchByDateRange(ctx context.Context, startDate, endDate string, paging Paging) (page domain.Page, err error) {
	defer s.observe("search_by_date_range", time.Now(), &err)

	r, err := domain.NewDateRange(startDate, endDate, s.location)
	if err != nil {
		return domain.Page{}, err
	}
	if r.Unbounded() {
		return s.find(ctx, ConcertFilter{}, paging)
	}

	paging = paging.normalize()
	if !s.indexUsable(ctx) {
		all, err := s.repo.FindAll(ctx)
		if err != nil {
			return domain.Page{}, fmt.Errorf("date search scan: %w", err)
		}
		matched := domain.FilterByRange(all, r, func(c domain.Concert) []time.Time {
			return c.PerformanceTimes(s.location)
		})
		return domain.Paginate(matched, paging.Page, paging.Limit), nil
	}

	items, total, err := s.repo.FindByPerformanceRange(ctx, r, paging)
	if err != nil {
		return domain.Page{}, fmt.Errorf("date search: %w", err)
	}
	return domain.Page{Items: items, Page: paging.Page, Limit: paging.Limit, TotalItems: total}, nil
}

func (s *concertQueryService) UpcomingTicketing(ctx context.Context, days int, paging Paging) (page domain.Page, err error) {
	defer s.observe("upcoming_ticketing", time.Now(), &err)

	if days < 1 || days > MaxUpcomingDays {
		return domain.Page{}, fmt.Errorf("%w: days must be between 1 and %d", domain.ErrValidation, MaxUpcomingDays)
	}
	paging = paging.normalize()

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.Page{}, fmt.Errorf("upcoming ticketing: %w", err)
	}
	window := domain.UpcomingWindow(s.now(), days, s.location)
	matched := domain.FilterByRange(all, window, func(c domain.Concert) []time.Time {
		return c.TicketingTimes(s.location)
	})
	return domain.Paginate(matched, paging.Page, paging.Limit), nil
}

func (s *concertQueryService) Cities(ctx context.Context) (cities []string, err error) {
	defer s.observe("cities", time.Now(), &err)
	return s.repo.DistinctCities(ctx)
}

func (s *concertQueryService) Detail(ctx context.Context, id string) (concert *domain.Concert, err error) {
	defer s.observe("detail", time.Now(), &err)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: concert id is required", domain.ErrValidation)
	}
	return s.repo.FindByID(ctx, id)
}

func (s *concertQueryService) find(ctx context.Context, filter ConcertFilter, paging Paging) (domain.Page, error) {
	paging = paging.normalize()
	items, total, err := s.repo.Find(ctx, filter, paging)
	if err != nil {
		return domain.Page{}, fmt.Errorf("find concerts: %w", err)
	}
	return domain.Page{Items: items, Page: paging.Page, Limit: paging.Limit, TotalItems: total}, nil
}

// indexUsable reports whether the range search may run on precomputed times.
// A failed coverage check is not cached and selects the scan.
func (s *concertQueryService) indexUsable(ctx context.Context) bool {
	if s.dateSearch != DateSearchIndexed {
		return false
	}
	if s.coverage == nil {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if !s.coverageCheckedAt.IsZero() && now.Sub(s.coverageCheckedAt) < s.coverageTTL {
		return s.coverageComplete
	}
	missing, err := s.coverage.MissingPerformanceTimes(ctx)
	if err != nil {
		return false
	}
	s.coverageCheckedAt = now
	s.coverageComplete = missing == 0
	return s.coverageComplete
}

func (s *concertQueryService) observe(operation string, started time.Time, err *error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveQuery(operation, time.Since(started), *err)
}
