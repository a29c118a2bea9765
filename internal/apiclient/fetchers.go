package apiclient

import (
	"context"

	"github.com/akuan1997/concertweb/api/internal/listing"
	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

// AllFetcher lists every concert; its params carry nothing.
func (c *Client) AllFetcher() listing.Fetcher[struct{}, domain.ConcertView] {
	return func(ctx context.Context, _ struct{}, page, limit int) (listing.Page[domain.ConcertView], error) {
		return toPage(c.ListAll(ctx, page, limit))
	}
}

// CityFetcher lists concerts of the city given as params.
func (c *Client) CityFetcher() listing.Fetcher[string, domain.ConcertView] {
	return func(ctx context.Context, city string, page, limit int) (listing.Page[domain.ConcertView], error) {
		return toPage(c.ListByCity(ctx, city, page, limit))
	}
}

// KeywordFetcher searches concerts for the keyword given as params.
func (c *Client) KeywordFetcher() listing.Fetcher[string, domain.ConcertView] {
	return func(ctx context.Context, text string, page, limit int) (listing.Page[domain.ConcertView], error) {
		return toPage(c.SearchByKeyword(ctx, text, page, limit))
	}
}

// DateRangeFetcher searches concerts performed within the params range.
func (c *Client) DateRangeFetcher() listing.Fetcher[DateQuery, domain.ConcertView] {
	return func(ctx context.Context, dates DateQuery, page, limit int) (listing.Page[domain.ConcertView], error) {
		return toPage(c.SearchByDateRange(ctx, dates, page, limit))
	}
}

// UpcomingFetcher lists concerts whose ticketing opens within params days.
func (c *Client) UpcomingFetcher() listing.Fetcher[int, domain.ConcertView] {
	return func(ctx context.Context, days, page, limit int) (listing.Page[domain.ConcertView], error) {
		return toPage(c.UpcomingTicketing(ctx, days, page, limit))
	}
}

func toPage(view domain.PageView, err error) (listing.Page[domain.ConcertView], error) {
	if err != nil {
		return listing.Page[domain.ConcertView]{}, err
	}
	return listing.Page[domain.ConcertView]{
		Items:      view.Data,
		Page:       view.Page,
		TotalPages: view.TotalPages,
		TotalItems: view.NbHits,
	}, nil
}
