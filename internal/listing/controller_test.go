package listing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akuan1997/concertweb/api/internal/listing"
)

// backend serves pages of a fixed result set per params value.
type backend struct {
	mu    sync.Mutex
	data  map[string][]int
	calls []int
	fail  error
}

func newBackend(data map[string][]int) *backend {
	return &backend{data: data}
}

func (b *backend) fetch(_ context.Context, params string, page, limit int) (listing.Page[int], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, page)
	if b.fail != nil {
		return listing.Page[int]{}, b.fail
	}
	all := b.data[params]
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return listing.Page[int]{
		Items:      append([]int(nil), all[start:end]...),
		Page:       page,
		TotalPages: (len(all) + limit - 1) / limit,
		TotalItems: len(all),
	}, nil
}

func (b *backend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestLoadMore_accumulatesUntilAllLoaded(t *testing.T) {
	b := newBackend(map[string][]int{"all": seq(7)})
	c := listing.New(b.fetch, "all", listing.WithItemsPerPage(3))
	ctx := context.Background()

	require.Equal(t, 0, c.State().CurrentPage)
	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))

	st := c.State()
	assert.Equal(t, seq(6), st.Items)
	assert.Equal(t, 2, st.CurrentPage)
	assert.False(t, st.AllDataLoaded)

	require.NoError(t, c.LoadMore(ctx))
	st = c.State()
	assert.Equal(t, seq(7), st.Items)
	assert.True(t, st.AllDataLoaded)
	assert.Equal(t, listing.Success, st.Status)

	require.NoError(t, c.LoadMore(ctx))
	assert.Equal(t, 3, b.callCount(), "load more after all data loaded must not fetch")
}

func TestLoadMore_exactMultipleStopsOnTotalPages(t *testing.T) {
	b := newBackend(map[string][]int{"all": seq(6)})
	c := listing.New(b.fetch, "all", listing.WithItemsPerPage(3))
	ctx := context.Background()

	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))

	assert.True(t, c.State().AllDataLoaded)
	assert.Equal(t, 2, b.callCount())
}

func TestLoadMore_emptyResult(t *testing.T) {
	b := newBackend(map[string][]int{})
	c := listing.New(b.fetch, "nothing")

	require.NoError(t, c.Reload(context.Background()))

	st := c.State()
	assert.True(t, st.Empty())
	assert.True(t, st.AllDataLoaded)
	assert.Empty(t, st.PageWindow())
}

func TestPagination_goToPage(t *testing.T) {
	b := newBackend(map[string][]int{"all": seq(10)})
	c := listing.New(b.fetch, "all", listing.WithItemsPerPage(3), listing.WithMode(listing.Pagination))
	ctx := context.Background()

	require.Equal(t, 1, c.State().CurrentPage)
	require.NoError(t, c.Reload(ctx))
	assert.Equal(t, []int{1, 2, 3}, c.State().Items)

	require.NoError(t, c.GoToPage(ctx, 4))
	st := c.State()
	assert.Equal(t, []int{10}, st.Items)
	assert.Equal(t, 4, st.CurrentPage)
	assert.Equal(t, 4, st.TotalPages)
	assert.False(t, st.AllDataLoaded)

	calls := b.callCount()
	require.NoError(t, c.GoToPage(ctx, 4))
	assert.ErrorIs(t, c.GoToPage(ctx, 0), listing.ErrPageOutOfRange)
	assert.ErrorIs(t, c.GoToPage(ctx, 5), listing.ErrPageOutOfRange)
	assert.Equal(t, calls, b.callCount(), "same page and out-of-range pages must not fetch")
	assert.ErrorIs(t, c.LoadMore(ctx), listing.ErrWrongMode)
}

func TestSetMode_resetsState(t *testing.T) {
	b := newBackend(map[string][]int{"all": seq(10)})
	c := listing.New(b.fetch, "all", listing.WithItemsPerPage(3))
	ctx := context.Background()
	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))

	require.NoError(t, c.SetMode(ctx, listing.Pagination))

	st := c.State()
	assert.Equal(t, listing.Pagination, st.Mode)
	assert.Equal(t, []int{1, 2, 3}, st.Items)
	assert.Equal(t, 1, st.CurrentPage)

	require.NoError(t, c.SetMode(ctx, listing.LoadMore))
	st = c.State()
	assert.Equal(t, []int{1, 2, 3}, st.Items)
	assert.Equal(t, 1, st.CurrentPage)
}

func TestSetParams_resetsAndFetchesFirstPage(t *testing.T) {
	b := newBackend(map[string][]int{"台北": seq(5), "高雄": {42}})
	c := listing.New(b.fetch, "台北", listing.WithItemsPerPage(2))
	ctx := context.Background()
	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))

	require.NoError(t, c.SetParams(ctx, "高雄"))

	st := c.State()
	assert.Equal(t, "高雄", st.Params)
	assert.Equal(t, []int{42}, st.Items)
	assert.Equal(t, 1, st.CurrentPage)
	assert.True(t, st.AllDataLoaded)
}

func TestFailure_keepsItemsAndSetsMessage(t *testing.T) {
	b := newBackend(map[string][]int{"all": seq(10)})
	badRequest := errors.New("bad request")
	c := listing.New(b.fetch, "all",
		listing.WithItemsPerPage(3),
		listing.WithErrorMessage(func(err error) string {
			if errors.Is(err, badRequest) {
				return "start_date must not be after end_date"
			}
			return ""
		}),
	)
	ctx := context.Background()
	require.NoError(t, c.LoadMore(ctx))

	b.fail = badRequest
	err := c.LoadMore(ctx)

	require.ErrorIs(t, err, badRequest)
	st := c.State()
	assert.Equal(t, listing.Failure, st.Status)
	assert.Equal(t, "start_date must not be after end_date", st.ErrorMessage)
	assert.Equal(t, []int{1, 2, 3}, st.Items)
	assert.True(t, st.AllDataLoaded)
	assert.False(t, st.Empty())

	b.fail = errors.New("connection reset")
	require.Error(t, c.Reload(ctx))
	assert.Equal(t, listing.DefaultErrorMessage, c.State().ErrorMessage)
}

// gatedFetcher blocks each fetch until the test releases it.
type gatedFetcher struct {
	started chan string
	release map[string]chan struct{}
}

func (g *gatedFetcher) fetch(_ context.Context, params string, page, _ int) (listing.Page[string], error) {
	g.started <- params
	<-g.release[params]
	return listing.Page[string]{Items: []string{params}, Page: page, TotalPages: 5, TotalItems: 5}, nil
}

func TestSetParams_discardsStaleResponse(t *testing.T) {
	g := &gatedFetcher{
		started: make(chan string, 2),
		release: map[string]chan struct{}{"old": make(chan struct{}), "new": make(chan struct{})},
	}
	c := listing.New(g.fetch, "old", listing.WithItemsPerPage(1))
	ctx := context.Background()

	oldDone := make(chan error, 1)
	go func() { oldDone <- c.LoadMore(ctx) }()
	require.Equal(t, "old", <-g.started)

	assert.NoError(t, c.LoadMore(ctx), "guarded while in flight")
	assert.NoError(t, c.Reload(ctx), "guarded while in flight")
	assert.Equal(t, listing.Loading, c.State().Status)

	newDone := make(chan error, 1)
	go func() { newDone <- c.SetParams(ctx, "new") }()
	require.Equal(t, "new", <-g.started)

	close(g.release["new"])
	require.NoError(t, <-newDone)
	close(g.release["old"])
	require.NoError(t, <-oldDone)

	st := c.State()
	assert.Equal(t, []string{"new"}, st.Items)
	assert.Equal(t, "new", st.Params)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, listing.Success, st.Status)
	assert.False(t, st.AllDataLoaded)
}
