package domain

import "time"

// ConcertView is the public wire representation of a concert.
// Keys keep the collection's short field names so existing clients read it unchanged.
type ConcertView struct {
	ID               string    `json:"_id"`
	Title            string    `json:"tit"`
	TicketingDates   []string  `json:"sdt"`
	Prices           []float64 `json:"prc"`
	PerformanceDates []string  `json:"pdt"`
	Locations        []string  `json:"loc"`
	City             string    `json:"cit"`
	Introduction     string    `json:"int,omitempty"`
	Website          string    `json:"web,omitempty"`
	URL              string    `json:"url,omitempty"`
	Pin              string    `json:"pin,omitempty"`
	SortTimestamp    time.Time `json:"tim"`
}

// PageView is the listing envelope shared by every list endpoint.
// NbHits is always the total number of matches, independent of page and limit.
type PageView struct {
	Data       []ConcertView `json:"data"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	NbHits     int           `json:"nbHits"`
}

// NewConcertView converts a Concert, normalising absent arrays to empty ones.
func NewConcertView(c Concert) ConcertView {
	return ConcertView{
		ID:               c.ID,
		Title:            c.Title,
		TicketingDates:   append([]string{}, c.TicketingDates...),
		Prices:           append([]float64{}, c.Prices...),
		PerformanceDates: append([]string{}, c.PerformanceDates...),
		Locations:        append([]string{}, c.Locations...),
		City:             c.City,
		Introduction:     c.Introduction,
		Website:          c.Website,
		URL:              c.URL,
		Pin:              c.Pin,
		SortTimestamp:    c.SortTimestamp,
	}
}

// NewPageView converts a Page into its wire envelope.
func NewPageView(p Page) PageView {
	data := make([]ConcertView, 0, len(p.Items))
	for _, c := range p.Items {
		data = append(data, NewConcertView(c))
	}
	return PageView{
		Data:       data,
		Page:       p.Page,
		TotalPages: p.TotalPages(),
		NbHits:     p.TotalItems,
	}
}
