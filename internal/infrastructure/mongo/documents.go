package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field names of the concert collection. They are shared by the query filters,
// the index maintenance writes and the seed command.
const (
	FieldID               = "_id"
	FieldTitle            = "tit"
	FieldTicketingDates   = "sdt"
	FieldPrices           = "prc"
	FieldPerformanceDates = "pdt"
	FieldLocations        = "loc"
	FieldCity             = "cit"
	FieldIntroduction     = "int"
	FieldWebsite          = "web"
	FieldURL              = "url"
	FieldPin              = "pin"
	FieldSortTimestamp    = "tim"
	FieldPerformanceTimes = "pts"

	fieldEarliestInRange = "_earliestInRange"
)

// ConcertDocument is the stored shape of a concert record.
// Pts holds the parsed pdt entries and is maintained by index maintenance, never by the query path.
type ConcertDocument struct {
	ID               primitive.ObjectID `bson:"_id"`
	Title            string             `bson:"tit"`
	TicketingDates   []string           `bson:"sdt,omitempty"`
	Prices           []float64          `bson:"prc,omitempty"`
	PerformanceDates []string           `bson:"pdt,omitempty"`
	Locations        []string           `bson:"loc,omitempty"`
	City             string             `bson:"cit,omitempty"`
	Introduction     string             `bson:"int,omitempty"`
	Website          string             `bson:"web,omitempty"`
	URL              string             `bson:"url,omitempty"`
	Pin              string             `bson:"pin,omitempty"`
	SortTimestamp    time.Time          `bson:"tim"`
	PerformanceTimes []time.Time        `bson:"pts,omitempty"`
}

// countDocument decodes the $count stage output.
type countDocument struct {
	Count int `bson:"count"`
}

// rangeFacetDocument decodes the $facet output of the date-range aggregation.
type rangeFacetDocument struct {
	Data   []ConcertDocument `bson:"data"`
	Totals []countDocument   `bson:"totals"`
}
