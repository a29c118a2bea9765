package public

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/akuan1997/concertweb/api/internal/interfaces/http/common"
	publicapp "github.com/akuan1997/concertweb/api/internal/public/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger   *slog.Logger
	concerts publicapp.ConcertQueryService
	paging   common.PagingLimits
	timeout  time.Duration
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger   *slog.Logger
	Concerts publicapp.ConcertQueryService
	// DefaultLimit and MaxLimit bound the limit parameter of every list endpoint.
	DefaultLimit int
	MaxLimit     int
	// Timeout bounds the query service call of one request.
	Timeout time.Duration
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limits := common.PagingLimits{DefaultLimit: cfg.DefaultLimit, MaxLimit: cfg.MaxLimit}
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = publicapp.DefaultPageLimit
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = common.DefaultRequestTimeout
	}
	return &Handler{
		logger:   logger,
		concerts: cfg.Concerts,
		paging:   limits,
		timeout:  timeout,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	listAll := h.listAllHandler()
	r.Get("/data", listAll)
	r.Get("/allData", listAll)
	r.Get("/more-data", listAll)
	r.Get("/getCitySelectionData", h.cityHandler())
	r.Get("/getKeywordSearchData", h.keywordHandler())
	r.Get("/getDateSearchData", h.dateRangeHandler())
	r.Get("/getUpcomingTicketingData", h.upcomingTicketingHandler())
	r.Get("/cities", h.citiesHandler())
	r.Get("/concerts/{id}", h.concertDetailHandler())
}
