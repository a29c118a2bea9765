package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

func ids(concerts []domain.Concert) []string {
	out := make([]string, 0, len(concerts))
	for _, c := range concerts {
		out = append(out, c.ID)
	}
	return out
}

func TestFilterByRange_ordersByEarliestInRange(t *testing.T) {
	concerts := []domain.Concert{
		{ID: "late", PerformanceDates: []string{"2024/05/20"}},
		{ID: "outside", PerformanceDates: []string{"2024/07/01"}},
		{ID: "multi", PerformanceDates: []string{"2024/04/01", "2024/05/10 19:00", "2024/05/02"}},
		{ID: "broken", PerformanceDates: []string{"TBA"}},
		{ID: "tie-a", PerformanceDates: []string{"2024/05/05"}},
		{ID: "none"},
		{ID: "tie-b", PerformanceDates: []string{"2024/05/05"}},
	}
	r, err := domain.NewDateRange("20240501", "20240531", taipei)
	require.NoError(t, err)

	got := domain.FilterByRange(concerts, r, func(c domain.Concert) []time.Time {
		return c.PerformanceTimes(taipei)
	})

	assert.Equal(t, []string{"multi", "tie-a", "tie-b", "late"}, ids(got))
}

func TestFilterByRange_openEnded(t *testing.T) {
	concerts := []domain.Concert{
		{ID: "old", PerformanceDates: []string{"2023/01/01"}},
		{ID: "new", PerformanceDates: []string{"2025/01/01"}},
	}
	r, err := domain.NewDateRange("20240101", "", taipei)
	require.NoError(t, err)

	got := domain.FilterByRange(concerts, r, func(c domain.Concert) []time.Time {
		return c.PerformanceTimes(taipei)
	})

	assert.Equal(t, []string{"new"}, ids(got))
}

func TestPaginate(t *testing.T) {
	concerts := make([]domain.Concert, 7)
	for i := range concerts {
		concerts[i].ID = string(rune('a' + i))
	}

	page := domain.Paginate(concerts, 2, 3)
	assert.Equal(t, []string{"d", "e", "f"}, ids(page.Items))
	assert.Equal(t, 7, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages())

	page = domain.Paginate(concerts, 5, 3)
	assert.Empty(t, page.Items)
	assert.Equal(t, 7, page.TotalItems)
}

func TestPaginate_hugePageIsEmpty(t *testing.T) {
	concerts := make([]domain.Concert, 7)

	for _, tc := range []struct{ page, limit int }{
		{math.MaxInt / 10, 30},
		{307445734561825862, 30},
		{math.MaxInt, 100},
		{2, math.MaxInt},
	} {
		page := domain.Paginate(concerts, tc.page, tc.limit)
		assert.Empty(t, page.Items, "page %d limit %d", tc.page, tc.limit)
		assert.Equal(t, 7, page.TotalItems)
		assert.Equal(t, tc.page, page.Page)
	}

	page := domain.Paginate(concerts, 1, math.MaxInt)
	assert.Len(t, page.Items, 7)
	assert.Equal(t, 1, page.TotalPages())
}

func TestNewPageView(t *testing.T) {
	view := domain.NewPageView(domain.Page{
		Items:      []domain.Concert{{ID: "a", Title: "Live"}},
		Page:       2,
		Limit:      30,
		TotalItems: 31,
	})

	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 2, view.TotalPages)
	assert.Equal(t, 31, view.NbHits)
	require.Len(t, view.Data, 1)
	assert.NotNil(t, view.Data[0].Prices)
	assert.NotNil(t, view.Data[0].Locations)
}
