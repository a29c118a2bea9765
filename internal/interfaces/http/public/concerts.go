package public

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/akuan1997/concertweb/api/internal/interfaces/http/common"
	publicapp "github.com/akuan1997/concertweb/api/internal/public/application"
	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

type citiesResponse struct {
	Data []string `json:"data"`
}

// pageQuery runs one paged query and renders the listing envelope.
type pageQuery func(ctx context.Context, r *http.Request, paging publicapp.Paging) (domain.Page, error)

func (h *Handler) listHandler(query pageQuery) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		page, limit := common.ParsePaging(r.URL.Query(), h.paging)
		result, err := query(ctx, r, publicapp.Paging{Page: page, Limit: limit})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, domain.NewPageView(result))
	}
}

func (h *Handler) listAllHandler() http.HandlerFunc {
	return h.listHandler(func(ctx context.Context, _ *http.Request, paging publicapp.Paging) (domain.Page, error) {
		return h.concerts.ListAll(ctx, paging)
	})
}

func (h *Handler) cityHandler() http.HandlerFunc {
	return h.listHandler(func(ctx context.Context, r *http.Request, paging publicapp.Paging) (domain.Page, error) {
		return h.concerts.ListByCity(ctx, r.URL.Query().Get(common.ParamCity), paging)
	})
}

func (h *Handler) keywordHandler() http.HandlerFunc {
	return h.listHandler(func(ctx context.Context, r *http.Request, paging publicapp.Paging) (domain.Page, error) {
		return h.concerts.SearchByKeyword(ctx, r.URL.Query().Get(common.ParamText), paging)
	})
}

func (h *Handler) dateRangeHandler() http.HandlerFunc {
	return h.listHandler(func(ctx context.Context, r *http.Request, paging publicapp.Paging) (domain.Page, error) {
		query := r.URL.Query()
		return h.concerts.SearchByDateRange(ctx, query.Get(common.ParamStartDate), query.Get(common.ParamEndDate), paging)
	})
}

func (h *Handler) upcomingTicketingHandler() http.HandlerFunc {
	return h.listHandler(func(ctx context.Context, r *http.Request, paging publicapp.Paging) (domain.Page, error) {
		raw := r.URL.Query().Get(common.ParamDays)
		days, ok := common.ParsePositiveInt(raw, publicapp.DefaultUpcomingDays)
		if !ok && strings.TrimSpace(raw) != "" {
			return domain.Page{}, fmt.Errorf("%w: days must be a positive integer", domain.ErrValidation)
		}
		return h.concerts.UpcomingTicketing(ctx, days, paging)
	})
}

func (h *Handler) citiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		cities, err := h.concerts.Cities(ctx)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		if cities == nil {
			cities = []string{}
		}
		common.WriteJSON(h.logger, w, http.StatusOK, citiesResponse{Data: cities})
	}
}

func (h *Handler) concertDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		concert, err := h.concerts.Detail(ctx, chi.URLParam(r, "id"))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, domain.NewConcertView(*concert))
	}
}
