package domain

import "time"

// Concert represents a publicly listed concert record.
type Concert struct {
	ID               string
	Title            string
	TicketingDates   []string
	Prices           []float64
	PerformanceDates []string
	Locations        []string
	City             string
	Introduction     string
	Website          string
	URL              string
	Pin              string
	SortTimestamp    time.Time
}

// PerformanceTimes returns every performance date that parses under the schedule format.
func (c Concert) PerformanceTimes(loc *time.Location) []time.Time {
	return ParseScheduleTimes(c.PerformanceDates, loc)
}

// TicketingTimes returns every ticketing date that parses under the schedule format.
func (c Concert) TicketingTimes(loc *time.Location) []time.Time {
	return ParseScheduleTimes(c.TicketingDates, loc)
}

// Page is one slice of a filtered, ordered result set.
type Page struct {
	Items      []Concert
	Page       int
	Limit      int
	TotalItems int
}

// TotalPages is ceil(TotalItems / Limit).
func (p Page) TotalPages() int {
	if p.Limit <= 0 || p.TotalItems <= 0 {
		return 0
	}
	pages := p.TotalItems / p.Limit
	if p.TotalItems%p.Limit != 0 {
		pages++
	}
	return pages
}
