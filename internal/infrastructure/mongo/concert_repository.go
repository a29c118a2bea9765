package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/akuan1997/concertweb/api/internal/public/application"
	"github.com/akuan1997/concertweb/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConcertRepository implements application.ConcertRepository using MongoDB.
type ConcertRepository struct {
	collection *mongo.Collection
}

var _ application.ConcertRepository = (*ConcertRepository)(nil)

// NewConcertRepository creates a new Mongo-backed concert repository.
func NewConcertRepository(db *mongo.Database, collectionName string) *ConcertRepository {
	return &ConcertRepository{collection: db.Collection(collectionName)}
}

// Find returns one page of concerts matching filter together with the total match count.
func (r *ConcertRepository) Find(ctx context.Context, filter application.ConcertFilter, paging application.Paging) ([]domain.Concert, int, error) {
	mongoFilter := buildConcertFilter(filter)

	total, err := r.collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("count concerts: %w", err)
	}

	opts := options.Find().
		SetSort(listingSort).
		SetSkip(int64(paging.Skip())).
		SetLimit(int64(paging.Limit))
	cursor, err := r.collection.Find(ctx, mongoFilter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find concerts: %w", err)
	}
	concerts, err := decodeConcerts(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return concerts, int(total), nil
}

// FindAll returns every concert in listing order.
func (r *ConcertRepository) FindAll(ctx context.Context) ([]domain.Concert, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(listingSort))
	if err != nil {
		return nil, fmt.Errorf("find all concerts: %w", err)
	}
	return decodeConcerts(ctx, cursor)
}

// FindByPerformanceRange runs the date-range search as a single aggregation over the pts field.
func (r *ConcertRepository) FindByPerformanceRange(ctx context.Context, dr domain.DateRange, paging application.Paging) ([]domain.Concert, int, error) {
	cursor, err := r.collection.Aggregate(ctx, performanceRangePipeline(dr, paging))
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate date range: %w", err)
	}
	defer cursor.Close(ctx)

	var facet rangeFacetDocument
	if cursor.Next(ctx) {
		if err := cursor.Decode(&facet); err != nil {
			return nil, 0, fmt.Errorf("decode date range facet: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate date range facet: %w", err)
	}

	total := 0
	if len(facet.Totals) > 0 {
		total = facet.Totals[0].Count
	}
	concerts := make([]domain.Concert, 0, len(facet.Data))
	for _, doc := range facet.Data {
		concerts = append(concerts, mapConcertDocument(doc))
	}
	return concerts, total, nil
}

// FindByID returns a single concert by its hex identifier.
func (r *ConcertRepository) FindByID(ctx context.Context, id string) (*domain.Concert, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed concert id %q", domain.ErrValidation, id)
	}
	var doc ConcertDocument
	if err := r.collection.FindOne(ctx, bson.M{FieldID: objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("concert %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find concert %s: %w", id, err)
	}
	concert := mapConcertDocument(doc)
	return &concert, nil
}

// DistinctCities returns the non-empty city values, sorted.
func (r *ConcertRepository) DistinctCities(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, FieldCity, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct cities: %w", err)
	}
	return collectCities(values), nil
}

func collectCities(values []interface{}) []string {
	cities := make([]string, 0, len(values))
	for _, v := range values {
		city, ok := v.(string)
		if !ok {
			continue
		}
		city = strings.TrimSpace(city)
		if city == "" {
			continue
		}
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

func decodeConcerts(ctx context.Context, cursor *mongo.Cursor) ([]domain.Concert, error) {
	defer cursor.Close(ctx)

	concerts := make([]domain.Concert, 0)
	for cursor.Next(ctx) {
		var doc ConcertDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode concert: %w", err)
		}
		concerts = append(concerts, mapConcertDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate concerts: %w", err)
	}
	return concerts, nil
}

func mapConcertDocument(doc ConcertDocument) domain.Concert {
	return domain.Concert{
		ID:               doc.ID.Hex(),
		Title:            doc.Title,
		TicketingDates:   append([]string{}, doc.TicketingDates...),
		Prices:           append([]float64{}, doc.Prices...),
		PerformanceDates: append([]string{}, doc.PerformanceDates...),
		Locations:        append([]string{}, doc.Locations...),
		City:             doc.City,
		Introduction:     doc.Introduction,
		Website:          doc.Website,
		URL:              doc.URL,
		Pin:              doc.Pin,
		SortTimestamp:    doc.SortTimestamp,
	}
}
