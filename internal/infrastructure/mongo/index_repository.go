package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/akuan1997/concertweb/api/internal/admin/application"
	admindomain "github.com/akuan1997/concertweb/api/internal/admin/domain"
	publicapp "github.com/akuan1997/concertweb/api/internal/public/application"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexRepository maintains the derived pts field of the concert collection.
type IndexRepository struct {
	collection *mongo.Collection
}

var (
	_ application.IndexRepository = (*IndexRepository)(nil)
	_ publicapp.IndexCoverage     = (*IndexRepository)(nil)
)

// NewIndexRepository binds an IndexRepository to the concert collection.
func NewIndexRepository(db *mongo.Database, collectionName string) *IndexRepository {
	return &IndexRepository{collection: db.Collection(collectionName)}
}

// CountAll counts every concert.
func (r *IndexRepository) CountAll(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	return int(n), err
}

// CountIndexed counts concerts that already carry a pts field.
func (r *IndexRepository) CountIndexed(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{FieldPerformanceTimes: bson.M{"$exists": true}})
	return int(n), err
}

// MissingPerformanceTimes counts concerts without a pts field. It implements
// the query service's index coverage check.
func (r *IndexRepository) MissingPerformanceTimes(ctx context.Context) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{FieldPerformanceTimes: bson.M{"$exists": false}})
	return int(n), err
}

type performanceDatesDocument struct {
	ID               primitive.ObjectID `bson:"_id"`
	PerformanceDates []string           `bson:"pdt,omitempty"`
}

// ScanPerformanceDates streams id and pdt of every concert to fn. It stops at the first error fn returns.
func (r *IndexRepository) ScanPerformanceDates(ctx context.Context, fn func(id string, dates []string) error) error {
	opts := options.Find().SetProjection(bson.M{FieldPerformanceDates: 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("scan performance dates: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc performanceDatesDocument
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("decode performance dates: %w", err)
		}
		if err := fn(doc.ID.Hex(), doc.PerformanceDates); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// SetPerformanceTimes writes pts for each update in one unordered bulk write.
func (r *IndexRepository) SetPerformanceTimes(ctx context.Context, updates []admindomain.IndexUpdate) (int, error) {
	models, err := buildIndexWrites(updates)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	res, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("bulk write pts: %w", err)
	}
	return int(res.MatchedCount), nil
}

func buildIndexWrites(updates []admindomain.IndexUpdate) ([]mongo.WriteModel, error) {
	models := make([]mongo.WriteModel, 0, len(updates))
	for _, u := range updates {
		objectID, err := primitive.ObjectIDFromHex(u.ConcertID)
		if err != nil {
			return nil, fmt.Errorf("concert id %q: %w", u.ConcertID, err)
		}
		times := u.Times
		if times == nil {
			times = []time.Time{}
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{FieldID: objectID}).
			SetUpdate(bson.M{"$set": bson.M{FieldPerformanceTimes: times}}))
	}
	return models, nil
}

// EnsureIndexes creates the indexes the listing queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database, collectionName string) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: FieldSortTimestamp, Value: -1}, {Key: FieldID, Value: 1}},
			Options: options.Index().SetName("idx_concert_tim"),
		},
		{
			Keys:    bson.D{{Key: FieldCity, Value: 1}, {Key: FieldSortTimestamp, Value: -1}},
			Options: options.Index().SetName("idx_concert_city_tim"),
		},
		{
			Keys:    bson.D{{Key: FieldPerformanceTimes, Value: 1}},
			Options: options.Index().SetName("idx_concert_pts"),
		},
	}
	if _, err := db.Collection(collectionName).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create concert indexes: %w", err)
	}
	return nil
}
