// Command concertctl browses the concert listing API from a terminal.
//
//	concertctl -mode city -city 台北 -pages 2
//	concertctl -mode date -start 20250101 -end 20250131 -paginate -page 3
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/akuan1997/concertweb/api/internal/apiclient"
	"github.com/akuan1997/concertweb/api/internal/listing"
	"github.com/akuan1997/concertweb/api/internal/public/domain"
)

type cliOptions struct {
	baseURL  string
	mode     string
	city     string
	text     string
	start    string
	end      string
	days     int
	id       string
	limit    int
	pages    int
	paginate bool
	page     int
	timeout  time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "concertctl:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	client, err := apiclient.New(opts.baseURL, nil)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	switch opts.mode {
	case "all":
		return browse(ctx, out, client.AllFetcher(), struct{}{}, opts)
	case "city":
		return browse(ctx, out, client.CityFetcher(), opts.city, opts)
	case "keyword":
		return browse(ctx, out, client.KeywordFetcher(), opts.text, opts)
	case "date":
		if opts.start != "" || opts.end != "" {
			fmt.Fprintf(out, "日期 %s ~ %s\n", listing.DisplayDate(opts.start), listing.DisplayDate(opts.end))
		}
		return browse(ctx, out, client.DateRangeFetcher(), apiclient.DateQuery{Start: opts.start, End: opts.end}, opts)
	case "upcoming":
		return browse(ctx, out, client.UpcomingFetcher(), opts.days, opts)
	case "cities":
		cities, err := client.Cities(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, listing.JoinOrNotProvided(cities))
		return nil
	case "detail":
		concert, err := client.Concert(ctx, opts.id)
		if err != nil {
			return err
		}
		printDetail(out, concert)
		return nil
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}
}

func parseFlags(args []string, out io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("concertctl", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.baseURL, "api", envOr("CONCERT_API_URL", "http://localhost:3000"), "API base URL")
	fs.StringVar(&opts.mode, "mode", "all", "all | city | keyword | date | upcoming | cities | detail")
	fs.StringVar(&opts.city, "city", "", "city for -mode city")
	fs.StringVar(&opts.text, "text", "", "keyword for -mode keyword")
	fs.StringVar(&opts.start, "start", "", "start date YYYYMMDD for -mode date")
	fs.StringVar(&opts.end, "end", "", "end date YYYYMMDD for -mode date")
	fs.IntVar(&opts.days, "days", 0, "ticketing window in days for -mode upcoming")
	fs.StringVar(&opts.id, "id", "", "concert id for -mode detail")
	fs.IntVar(&opts.limit, "limit", listing.DefaultItemsPerPage, "items per page")
	fs.IntVar(&opts.pages, "pages", 1, "pages to load in load-more mode")
	fs.BoolVar(&opts.paginate, "paginate", false, "show a single page instead of accumulating")
	fs.IntVar(&opts.page, "page", 1, "page to show with -paginate")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.mode = strings.ToLower(strings.TrimSpace(opts.mode))
	switch {
	case opts.limit <= 0:
		return cliOptions{}, errors.New("-limit must be positive")
	case opts.pages <= 0:
		return cliOptions{}, errors.New("-pages must be positive")
	case opts.page <= 0:
		return cliOptions{}, errors.New("-page must be positive")
	case opts.mode == "detail" && strings.TrimSpace(opts.id) == "":
		return cliOptions{}, errors.New("-id is required for -mode detail")
	}
	return opts, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// browse drives one listing controller and prints what it ends up showing.
func browse[P comparable](ctx context.Context, out io.Writer, fetch listing.Fetcher[P, domain.ConcertView], params P, opts cliOptions) error {
	mode := listing.LoadMore
	if opts.paginate {
		mode = listing.Pagination
	}
	ctrl := listing.New(fetch, params,
		listing.WithMode(mode),
		listing.WithItemsPerPage(opts.limit),
		listing.WithErrorMessage(apiclient.ErrorMessage),
	)

	var err error
	if opts.paginate {
		err = ctrl.Reload(ctx)
		if err == nil && opts.page > 1 {
			if goErr := ctrl.GoToPage(ctx, opts.page); goErr != nil {
				if errors.Is(goErr, listing.ErrPageOutOfRange) {
					return fmt.Errorf("page %d: %w (total %d)", opts.page, goErr, ctrl.State().TotalPages)
				}
				err = goErr
			}
		}
	} else {
		for i := 0; i < opts.pages && err == nil; i++ {
			if ctrl.State().AllDataLoaded {
				break
			}
			err = ctrl.LoadMore(ctx)
		}
	}

	printState(out, ctrl.State())
	return err
}

func printState[P comparable](out io.Writer, st listing.State[P, domain.ConcertView]) {
	if st.Status == listing.Failure {
		fmt.Fprintln(out, st.ErrorMessage)
		return
	}
	if st.Empty() {
		fmt.Fprintln(out, "查無資料")
		return
	}
	for i, c := range st.Items {
		n := i + 1
		if st.Mode == listing.Pagination {
			n += (st.CurrentPage - 1) * st.ItemsPerPage
		}
		fmt.Fprintf(out, "%3d. %s\n", n, c.Title)
		fmt.Fprintf(out, "     城市 %s | 地點 %s\n", orNotProvided(c.City), listing.JoinOrNotProvided(c.Locations))
		fmt.Fprintf(out, "     演出 %s | 售票 %s\n", listing.JoinOrNotProvided(c.PerformanceDates), listing.JoinOrNotProvided(c.TicketingDates))
		fmt.Fprintf(out, "     票價 %s\n", listing.PriceLabel(c.Prices))
	}

	switch st.Mode {
	case listing.Pagination:
		links := make([]string, 0, len(st.PageWindow()))
		for _, p := range st.PageWindow() {
			label := strconv.Itoa(p)
			if p == st.CurrentPage {
				label = "[" + label + "]"
			}
			links = append(links, label)
		}
		fmt.Fprintf(out, "page %d/%d, %d hits  %s\n", st.CurrentPage, st.TotalPages, st.TotalItems, strings.Join(links, " "))
	default:
		more := "more available"
		if st.AllDataLoaded {
			more = "all data loaded"
		}
		fmt.Fprintf(out, "%d of %d hits, %s\n", len(st.Items), st.TotalItems, more)
	}
}

func printDetail(out io.Writer, c domain.ConcertView) {
	fmt.Fprintln(out, c.Title)
	fmt.Fprintf(out, "城市 %s\n", orNotProvided(c.City))
	fmt.Fprintf(out, "地點 %s\n", listing.JoinOrNotProvided(c.Locations))
	fmt.Fprintf(out, "演出 %s\n", listing.JoinOrNotProvided(c.PerformanceDates))
	fmt.Fprintf(out, "售票 %s\n", listing.JoinOrNotProvided(c.TicketingDates))
	fmt.Fprintf(out, "票價 %s\n", listing.PriceLabel(c.Prices))
	if c.URL != "" {
		fmt.Fprintln(out, c.URL)
	}
	if c.Introduction != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, c.Introduction)
	}
}

func orNotProvided(s string) string {
	return listing.JoinOrNotProvided([]string{s})
}
