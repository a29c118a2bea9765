package mongo

import (
	"bytes"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/akuan1997/concertweb/api/internal/public/application"
	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

// row is a concert as the aggregation sees it after $addFields.
type row map[string]any

func compareValues(t *testing.T, a, b any) int {
	t.Helper()
	switch av := a.(type) {
	case time.Time:
		return av.Compare(b.(time.Time))
	case primitive.ObjectID:
		bv := b.(primitive.ObjectID)
		return bytes.Compare(av[:], bv[:])
	default:
		t.Fatalf("unsupported sort value %T", a)
		return 0
	}
}

// sortRows orders rows the way Mongo applies a $sort document.
func sortRows(t *testing.T, rows []row, spec bson.D) {
	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range spec {
			c := compareValues(t, rows[i][key.Key], rows[j][key.Key])
			if key.Value.(int) < 0 {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func inBounds(ts time.Time, bounds bson.M) bool {
	if v, ok := bounds["$gte"]; ok && ts.Before(v.(time.Time)) {
		return false
	}
	if v, ok := bounds["$lte"]; ok && ts.After(v.(time.Time)) {
		return false
	}
	return true
}

func docRows(docs []ConcertDocument) []row {
	rows := make([]row, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, row{FieldID: d.ID, FieldSortTimestamp: d.SortTimestamp, "doc": d})
	}
	return rows
}

// evaluatePipeline runs the match and sort stages of p over docs in memory.
func evaluatePipeline(t *testing.T, p mongo.Pipeline, docs []ConcertDocument) []string {
	t.Helper()
	match := p[0][0].Value.(bson.M)[FieldPerformanceTimes].(bson.M)["$elemMatch"].(bson.M)

	rows := make([]row, 0, len(docs))
	for _, r := range docRows(docs) {
		var earliest time.Time
		found := false
		for _, ts := range r["doc"].(ConcertDocument).PerformanceTimes {
			if inBounds(ts, match) && (!found || ts.Before(earliest)) {
				earliest, found = ts, true
			}
		}
		if !found {
			continue
		}
		r[fieldEarliestInRange] = earliest
		rows = append(rows, r)
	}
	sortRows(t, rows, p[2][0].Value.(bson.D))

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r[FieldID].(primitive.ObjectID).Hex())
	}
	return ids
}

// scanOrder filters docs in FindAll order with the in-memory date search.
func scanOrder(t *testing.T, docs []ConcertDocument, r domain.DateRange) []string {
	t.Helper()
	rows := docRows(docs)
	sortRows(t, rows, listingSort)

	concerts := make([]domain.Concert, 0, len(rows))
	for _, d := range rows {
		concerts = append(concerts, mapConcertDocument(d["doc"].(ConcertDocument)))
	}
	matched := domain.FilterByRange(concerts, r, func(c domain.Concert) []time.Time {
		return c.PerformanceTimes(time.UTC)
	})

	ids := make([]string, 0, len(matched))
	for _, c := range matched {
		ids = append(ids, c.ID)
	}
	return ids
}

func concertDoc(t *testing.T, hexID string, tim time.Time, pdt ...string) ConcertDocument {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hexID)
	require.NoError(t, err)
	return ConcertDocument{
		ID:               id,
		SortTimestamp:    tim,
		PerformanceDates: pdt,
		PerformanceTimes: domain.ParseScheduleTimes(pdt, time.UTC),
	}
}

func TestPerformanceRange_indexedAndScanOrderAgree(t *testing.T) {
	older := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	// Input order is deliberately unrelated to either sort.
	docs := []ConcertDocument{
		concertDoc(t, "650000000000000000000005", older, "2025/01/10 19:30"),
		concertDoc(t, "650000000000000000000002", newer, "2025/01/10 19:30"),
		concertDoc(t, "650000000000000000000004", newer, "2025/01/10 19:30"),
		concertDoc(t, "650000000000000000000001", older, "2025/02/20", "2025/01/03"),
		concertDoc(t, "650000000000000000000003", newer, "TBA"),
		concertDoc(t, "650000000000000000000006", older, "2024/12/31 23:59", "2025/03/01"),
		concertDoc(t, "650000000000000000000007", newer, "2025/01/31 23:59"),
	}

	day := func(y int, m time.Month, d int) *time.Time {
		ts := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}
	endOfJan := time.Date(2025, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	cases := []struct {
		name string
		r    domain.DateRange
		want []string
	}{
		{
			name: "bounded",
			r:    domain.DateRange{Start: day(2025, 1, 1), End: &endOfJan},
			want: []string{
				"650000000000000000000001",
				"650000000000000000000002",
				"650000000000000000000004",
				"650000000000000000000005",
				"650000000000000000000007",
			},
		},
		{
			name: "start only",
			r:    domain.DateRange{Start: day(2025, 2, 1)},
			want: []string{
				"650000000000000000000001",
				"650000000000000000000006",
			},
		},
		{
			name: "end only",
			r:    domain.DateRange{End: day(2025, 1, 5)},
			want: []string{
				"650000000000000000000006",
				"650000000000000000000001",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pipeline := performanceRangePipeline(tc.r, application.Paging{Page: 1, Limit: 30})

			indexed := evaluatePipeline(t, pipeline, docs)
			scanned := scanOrder(t, docs, tc.r)

			assert.Equal(t, tc.want, indexed)
			assert.Equal(t, scanned, indexed)
		})
	}
}

func TestPerformanceRange_tiesFollowListingSort(t *testing.T) {
	pipeline := performanceRangePipeline(domain.DateRange{End: new(time.Time)}, application.Paging{Page: 1, Limit: 1})
	spec := pipeline[2][0].Value.(bson.D)

	require.Len(t, spec, len(listingSort)+1)
	assert.Equal(t, bson.E{Key: fieldEarliestInRange, Value: 1}, spec[0])
	assert.Equal(t, listingSort, spec[1:])
}
