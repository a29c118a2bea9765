package mongo

import (
	"regexp"
	"strings"

	"github.com/akuan1997/concertweb/api/internal/public/application"
	"github.com/akuan1997/concertweb/api/internal/public/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// listingSort is the default order of every listing: newest sort timestamp first, id as tie-breaker.
var listingSort = bson.D{{Key: FieldSortTimestamp, Value: -1}, {Key: FieldID, Value: 1}}

// buildConcertFilter translates the application filter into a Mongo query document.
func buildConcertFilter(filter application.ConcertFilter) bson.M {
	mongoFilter := bson.M{}
	if city := strings.TrimSpace(filter.City); city != "" {
		mongoFilter[FieldCity] = city
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{FieldTitle: pattern},
			bson.M{FieldIntroduction: pattern},
		}
	}
	return mongoFilter
}

// rangeBounds returns the comparison operators for a date range applied to a plain field.
func rangeBounds(r domain.DateRange) bson.M {
	bounds := bson.M{}
	if r.Start != nil {
		bounds["$gte"] = *r.Start
	}
	if r.End != nil {
		bounds["$lte"] = *r.End
	}
	return bounds
}

// rangeCondition is the aggregation-expression form of rangeBounds for variable ref.
func rangeCondition(r domain.DateRange, ref string) any {
	conds := bson.A{}
	if r.Start != nil {
		conds = append(conds, bson.M{"$gte": bson.A{ref, *r.Start}})
	}
	if r.End != nil {
		conds = append(conds, bson.M{"$lte": bson.A{ref, *r.End}})
	}
	if len(conds) == 1 {
		return conds[0]
	}
	return bson.M{"$and": conds}
}

// performanceRangePipeline matches concerts with any precomputed performance time in r,
// orders them by their earliest in-range time and returns one page plus the total.
func performanceRangePipeline(r domain.DateRange, paging application.Paging) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			FieldPerformanceTimes: bson.M{"$elemMatch": rangeBounds(r)},
		}}},
		{{Key: "$addFields", Value: bson.M{
			fieldEarliestInRange: bson.M{"$min": bson.M{"$filter": bson.M{
				"input": "$" + FieldPerformanceTimes,
				"as":    "t",
				"cond":  rangeCondition(r, "$$t"),
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: fieldEarliestInRange, Value: 1},
			{Key: FieldSortTimestamp, Value: -1},
			{Key: FieldID, Value: 1},
		}}},
		{{Key: "$facet", Value: bson.M{
			"data": bson.A{
				bson.M{"$skip": int64(paging.Skip())},
				bson.M{"$limit": int64(paging.Limit)},
				bson.M{"$project": bson.M{fieldEarliestInRange: 0}},
			},
			"totals": bson.A{
				bson.M{"$count": "count"},
			},
		}}},
	}
}
