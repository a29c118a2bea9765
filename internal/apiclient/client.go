// Package apiclient is a typed HTTP client for the concert listing API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBody    = 1 << 16
	requestIDHeader = "X-Request-Id"
)

// APIError is a non-2xx response. Message is the server's message field when present.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("concert api: status %d", e.Status)
	}
	return fmt.Sprintf("concert api: status %d: %s", e.Status, e.Message)
}

// ErrorMessage returns the client-facing message of a 400 response, or "" for any
// other error. It plugs into listing.WithErrorMessage.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		return apiErr.Message
	}
	return ""
}

// DateQuery is an optional YYYYMMDD range; empty bounds are omitted.
type DateQuery struct {
	Start string
	End   string
}

// Client calls the listing endpoints under one base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. A nil httpClient gets a default with a 10s timeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// ListAll calls /api/data.
func (c *Client) ListAll(ctx context.Context, page, limit int) (domain.PageView, error) {
	return c.getPage(ctx, "/api/data", pagingQuery(page, limit))
}

// ListByCity calls /api/getCitySelectionData; an empty city lists everything.
func (c *Client) ListByCity(ctx context.Context, city string, page, limit int) (domain.PageView, error) {
	q := pagingQuery(page, limit)
	setIfPresent(q, "cit", city)
	return c.getPage(ctx, "/api/getCitySelectionData", q)
}

// SearchByKeyword calls /api/getKeywordSearchData.
func (c *Client) SearchByKeyword(ctx context.Context, text string, page, limit int) (domain.PageView, error) {
	q := pagingQuery(page, limit)
	setIfPresent(q, "text", text)
	return c.getPage(ctx, "/api/getKeywordSearchData", q)
}

// SearchByDateRange calls /api/getDateSearchData.
func (c *Client) SearchByDateRange(ctx context.Context, dates DateQuery, page, limit int) (domain.PageView, error) {
	q := pagingQuery(page, limit)
	setIfPresent(q, "start_date", dates.Start)
	setIfPresent(q, "end_date", dates.End)
	return c.getPage(ctx, "/api/getDateSearchData", q)
}

// UpcomingTicketing calls /api/getUpcomingTicketingData; days <= 0 uses the server default.
func (c *Client) UpcomingTicketing(ctx context.Context, days, page, limit int) (domain.PageView, error) {
	q := pagingQuery(page, limit)
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	return c.getPage(ctx, "/api/getUpcomingTicketingData", q)
}

// Cities calls /api/cities.
func (c *Client) Cities(ctx context.Context) ([]string, error) {
	var body struct {
		Data []string `json:"data"`
	}
	if err := c.get(ctx, "/api/cities", nil, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// Concert calls /api/concerts/{id}.
func (c *Client) Concert(ctx context.Context, id string) (domain.ConcertView, error) {
	var view domain.ConcertView
	err := c.get(ctx, "/api/concerts/"+url.PathEscape(strings.TrimSpace(id)), nil, &view)
	return view, err
}

func (c *Client) getPage(ctx context.Context, path string, query url.Values) (domain.PageView, error) {
	var page domain.PageView
	if err := c.get(ctx, path, query, &page); err != nil {
		return domain.PageView{}, err
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeAPIError(res, requestID)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(res *http.Response, requestID string) error {
	apiErr := &APIError{Status: res.StatusCode, RequestID: requestID}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}

func pagingQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func setIfPresent(q url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		q.Set(key, value)
	}
}
