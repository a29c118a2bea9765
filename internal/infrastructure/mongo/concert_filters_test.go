package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	admindomain "github.com/akuan1997/concertweb/api/internal/admin/domain"
	"github.com/akuan1997/concertweb/api/internal/public/application"
	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

func TestBuildConcertFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, buildConcertFilter(application.ConcertFilter{City: "  "}))

	f := buildConcertFilter(application.ConcertFilter{City: " 台北 ", Keyword: "a.b(c"})
	assert.Equal(t, "台北", f[FieldCity])

	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	want := primitive.Regex{Pattern: `a\.b\(c`, Options: "i"}
	assert.Equal(t, bson.M{FieldTitle: want}, or[0])
	assert.Equal(t, bson.M{FieldIntroduction: want}, or[1])
}

func TestRangeBoundsAndCondition(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)

	both := domain.DateRange{Start: &start, End: &end}
	assert.Equal(t, bson.M{"$gte": start, "$lte": end}, rangeBounds(both))
	assert.Equal(t, bson.M{"$and": bson.A{
		bson.M{"$gte": bson.A{"$$t", start}},
		bson.M{"$lte": bson.A{"$$t", end}},
	}}, rangeCondition(both, "$$t"))

	startOnly := domain.DateRange{Start: &start}
	assert.Equal(t, bson.M{"$gte": start}, rangeBounds(startOnly))
	assert.Equal(t, bson.M{"$gte": bson.A{"$$t", start}}, rangeCondition(startOnly, "$$t"))
}

func TestPerformanceRangePipeline(t *testing.T) {
	end := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	p := performanceRangePipeline(domain.DateRange{End: &end}, application.Paging{Page: 3, Limit: 10})

	require.Len(t, p, 4)
	stages := make([]string, 0, len(p))
	for _, stage := range p {
		stages = append(stages, stage[0].Key)
	}
	assert.Equal(t, []string{"$match", "$addFields", "$sort", "$facet"}, stages)

	match := p[0][0].Value.(bson.M)
	assert.Equal(t, bson.M{"$elemMatch": bson.M{"$lte": end}}, match[FieldPerformanceTimes])

	sort := p[2][0].Value.(bson.D)
	assert.Equal(t, fieldEarliestInRange, sort[0].Key)
	assert.Equal(t, 1, sort[0].Value)

	facet := p[3][0].Value.(bson.M)
	data := facet["data"].(bson.A)
	assert.Equal(t, bson.M{"$skip": int64(20)}, data[0])
	assert.Equal(t, bson.M{"$limit": int64(10)}, data[1])
}

func TestCollectCities(t *testing.T) {
	got := collectCities([]interface{}{"高雄", " 台北 ", "", nil, 42, "台中"})
	assert.Equal(t, []string{"台中", "台北", "高雄"}, got)
}

func TestMapConcertDocument_normalisesArrays(t *testing.T) {
	id := primitive.NewObjectID()
	c := mapConcertDocument(ConcertDocument{ID: id, Title: "t"})

	assert.Equal(t, id.Hex(), c.ID)
	assert.NotNil(t, c.TicketingDates)
	assert.NotNil(t, c.Prices)
	assert.NotNil(t, c.PerformanceDates)
	assert.NotNil(t, c.Locations)
}

func TestBuildIndexWrites(t *testing.T) {
	id := primitive.NewObjectID()
	when := time.Date(2025, 5, 1, 19, 0, 0, 0, time.UTC)

	models, err := buildIndexWrites([]admindomain.IndexUpdate{
		{ConcertID: id.Hex(), Times: []time.Time{when}},
		{ConcertID: id.Hex()},
	})
	require.NoError(t, err)
	require.Len(t, models, 2)

	first := models[0].(*mongo.UpdateOneModel)
	assert.Equal(t, bson.M{FieldID: id}, first.Filter)
	assert.Equal(t, bson.M{"$set": bson.M{FieldPerformanceTimes: []time.Time{when}}}, first.Update)

	second := models[1].(*mongo.UpdateOneModel)
	assert.Equal(t, bson.M{"$set": bson.M{FieldPerformanceTimes: []time.Time{}}}, second.Update)

	_, err = buildIndexWrites([]admindomain.IndexUpdate{{ConcertID: "nope"}})
	assert.Error(t, err)
}
