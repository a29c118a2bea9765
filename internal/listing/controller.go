// Package listing drives a paginated, filterable listing from the client side.
//
// A Controller owns the state of one listing (all concerts, a city, a keyword, a
// date range...). It is parameterised by the fetch function and the upstream
// parameters, and runs in one of two modes: LoadMore appends successive pages,
// Pagination replaces the visible page.
package listing

import (
	"context"
	"errors"
	"sync"
)

// ErrPageOutOfRange is returned by GoToPage for a page outside [1, TotalPages].
var ErrPageOutOfRange = errors.New("page out of range")

// ErrWrongMode is returned when an operation does not apply to the current mode.
var ErrWrongMode = errors.New("operation not available in this display mode")

// DefaultErrorMessage is shown for failures that carry no client-facing message.
const DefaultErrorMessage = "資料載入失敗，請稍後再試。"

// Mode selects how pages are presented.
type Mode int

const (
	// LoadMore accumulates pages; CurrentPage counts pages already loaded.
	LoadMore Mode = iota
	// Pagination shows exactly one page at a time.
	Pagination
)

func (m Mode) String() string {
	switch m {
	case LoadMore:
		return "loadMore"
	case Pagination:
		return "pagination"
	default:
		return "unknown"
	}
}

func (m Mode) initialPage() int {
	if m == Pagination {
		return 1
	}
	return 0
}

// Status is the lifecycle of the most recent fetch.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Page is one response of the listing query.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	TotalItems int
}

// Fetcher loads one page of a listing for params.
type Fetcher[P comparable, T any] func(ctx context.Context, params P, page, limit int) (Page[T], error)

// State is a consistent snapshot of a Controller.
type State[P comparable, T any] struct {
	Params        P
	Mode          Mode
	Status        Status
	Items         []T
	CurrentPage   int
	TotalPages    int
	TotalItems    int
	ItemsPerPage  int
	LoadingMore   bool
	AllDataLoaded bool
	ErrorMessage  string
}

// Empty reports a successful fetch that produced nothing to show.
func (s State[P, T]) Empty() bool {
	return s.Status == Success && s.ErrorMessage == "" && len(s.Items) == 0
}

// PageWindow returns up to MaxPageLinks page numbers around CurrentPage.
func (s State[P, T]) PageWindow() []int {
	return PageWindow(s.CurrentPage, s.TotalPages, MaxPageLinks)
}

// Option customises a Controller.
type Option func(*options)

type options struct {
	mode         Mode
	itemsPerPage int
	message      func(error) string
}

// WithMode sets the initial display mode. The default is LoadMore.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithItemsPerPage sets the page size sent to the fetcher. The default is 30.
func WithItemsPerPage(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.itemsPerPage = n
		}
	}
}

// WithErrorMessage sets how fetch errors become ErrorMessage. Returning "" selects DefaultErrorMessage.
func WithErrorMessage(fn func(error) string) Option {
	return func(o *options) {
		if fn != nil {
			o.message = fn
		}
	}
}

// DefaultItemsPerPage matches the server's default limit.
const DefaultItemsPerPage = 30

// Controller is safe for concurrent use. At most one fetch is outstanding; every fetch is
// tagged with a generation and its params, and a response whose tag is no longer current
// is discarded.
type Controller[P comparable, T any] struct {
	fetch        Fetcher[P, T]
	itemsPerPage int
	message      func(error) string

	mu            sync.Mutex
	params        P
	mode          Mode
	status        Status
	items         []T
	currentPage   int
	totalPages    int
	totalItems    int
	loadingMore   bool
	allDataLoaded bool
	errorMessage  string
	inFlight      bool
	generation    uint64
}

// New creates an idle Controller for params. Nothing is fetched until Reload, LoadMore or SetParams.
func New[P comparable, T any](fetch Fetcher[P, T], params P, opts ...Option) *Controller[P, T] {
	o := options{mode: LoadMore, itemsPerPage: DefaultItemsPerPage}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Controller[P, T]{
		fetch:        fetch,
		itemsPerPage: o.itemsPerPage,
		message:      o.message,
		params:       params,
		mode:         o.mode,
	}
	c.resetLocked()
	return c
}

// ticket identifies one fetch.
type ticket[P comparable] struct {
	generation uint64
	params     P
	page       int
	replace    bool
}

// State returns a snapshot; Items is a copy.
func (c *Controller[P, T]) State() State[P, T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[P, T]{
		Params:        c.params,
		Mode:          c.mode,
		Status:        c.status,
		Items:         append([]T(nil), c.items...),
		CurrentPage:   c.currentPage,
		TotalPages:    c.totalPages,
		TotalItems:    c.totalItems,
		ItemsPerPage:  c.itemsPerPage,
		LoadingMore:   c.loadingMore,
		AllDataLoaded: c.allDataLoaded,
		ErrorMessage:  c.errorMessage,
	}
}

// LoadMore fetches the next page and appends it. It is a no-op while a fetch is in
// flight or once all data is loaded. The fetch error, if any, is returned after it
// has been recorded in the state.
func (c *Controller[P, T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != LoadMore {
		c.mu.Unlock()
		return ErrWrongMode
	}
	if c.inFlight || c.allDataLoaded {
		c.mu.Unlock()
		return nil
	}
	t := c.beginLocked(c.currentPage+1, false)
	c.mu.Unlock()

	return c.run(ctx, t)
}

// GoToPage replaces the visible page with page n. Requests for the current page or
// while a fetch is in flight are no-ops; n outside [1, TotalPages] fails without fetching.
func (c *Controller[P, T]) GoToPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.mode != Pagination {
		c.mu.Unlock()
		return ErrWrongMode
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil
	}
	if n < 1 || n > c.totalPages {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	if n == c.currentPage && c.status == Success {
		c.mu.Unlock()
		return nil
	}
	t := c.beginLocked(n, true)
	c.mu.Unlock()

	return c.run(ctx, t)
}

// Reload discards the loaded state and fetches the first page again with the current
// params. It is a no-op while a fetch is in flight.
func (c *Controller[P, T]) Reload(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	c.resetLocked()
	t := c.beginLocked(1, c.mode == Pagination)
	c.mu.Unlock()

	return c.run(ctx, t)
}

// SetParams switches to new upstream params, resets all state and fetches page 1.
// It supersedes any fetch in flight, whose response will be discarded.
func (c *Controller[P, T]) SetParams(ctx context.Context, params P) error {
	c.mu.Lock()
	c.generation++
	c.params = params
	c.resetLocked()
	t := c.beginLocked(1, c.mode == Pagination)
	c.mu.Unlock()

	return c.run(ctx, t)
}

// SetMode switches the display mode, discarding all state, and fetches the mode's
// first page. It supersedes any fetch in flight. Setting the current mode is a no-op.
func (c *Controller[P, T]) SetMode(ctx context.Context, m Mode) error {
	c.mu.Lock()
	if m == c.mode {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	c.mode = m
	c.resetLocked()
	t := c.beginLocked(1, m == Pagination)
	c.mu.Unlock()

	return c.run(ctx, t)
}

func (c *Controller[P, T]) resetLocked() {
	c.status = Idle
	c.items = nil
	c.currentPage = c.mode.initialPage()
	c.totalPages = 0
	c.totalItems = 0
	c.loadingMore = false
	c.allDataLoaded = false
	c.errorMessage = ""
	c.inFlight = false
}

func (c *Controller[P, T]) beginLocked(page int, replace bool) ticket[P] {
	c.inFlight = true
	c.status = Loading
	c.loadingMore = c.mode == LoadMore && c.currentPage > 0
	c.errorMessage = ""
	return ticket[P]{generation: c.generation, params: c.params, page: page, replace: replace}
}

func (c *Controller[P, T]) run(ctx context.Context, t ticket[P]) error {
	res, err := c.fetch(ctx, t.params, t.page, c.itemsPerPage)

	c.mu.Lock()
	defer c.mu.Unlock()
	if t.generation != c.generation || t.params != c.params {
		return nil
	}
	c.inFlight = false
	c.loadingMore = false

	if err != nil {
		c.status = Failure
		c.errorMessage = c.errorText(err)
		if c.mode == LoadMore {
			c.allDataLoaded = true
		}
		return err
	}

	c.status = Success
	c.totalPages = res.TotalPages
	c.totalItems = res.TotalItems
	c.currentPage = t.page
	if t.replace {
		c.items = append([]T(nil), res.Items...)
		return nil
	}
	c.items = append(c.items, res.Items...)
	if len(res.Items) == 0 || len(res.Items) < c.itemsPerPage || c.currentPage >= c.totalPages {
		c.allDataLoaded = true
	}
	return nil
}

func (c *Controller[P, T]) errorText(err error) string {
	if c.message != nil {
		if msg := c.message(err); msg != "" {
			return msg
		}
	}
	return DefaultErrorMessage
}
