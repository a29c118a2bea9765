package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// scheduleLayout matches "YYYY/MM/DD" with an optional " HH:mm" suffix.
var scheduleLayout = regexp.MustCompile(`^(\d{4})/(\d{2})/(\d{2})(?: (\d{2}):(\d{2}))?$`)

var queryDateLayout = regexp.MustCompile(`^\d{8}$`)

// ParseScheduleTime parses a ticketing/performance entry in loc.
// Entries that do not match the layout or name an impossible calendar
// date or clock time are reported as unparseable.
func ParseScheduleTime(value string, loc *time.Location) (time.Time, bool) {
	m := scheduleLayout.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, minute := 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	t, ok := calendarDate(year, month, day, loc)
	if !ok {
		return time.Time{}, false
	}
	return t.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), true
}

// ParseScheduleTimes keeps the parseable entries of values in their original order.
func ParseScheduleTimes(values []string, loc *time.Location) []time.Time {
	times := make([]time.Time, 0, len(values))
	for _, v := range values {
		if t, ok := ParseScheduleTime(v, loc); ok {
			times = append(times, t)
		}
	}
	return times
}

func calendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normalises Feb 30 into March; reject anything that moved.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// parseQueryDate validates a YYYYMMDD request parameter and returns midnight of that day.
func parseQueryDate(name, value string, loc *time.Location) (time.Time, error) {
	if !queryDateLayout.MatchString(value) {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYYMMDD format", ErrValidation, name)
	}
	year, _ := strconv.Atoi(value[0:4])
	month, _ := strconv.Atoi(value[4:6])
	day, _ := strconv.Atoi(value[6:8])
	t, ok := calendarDate(year, month, day, loc)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is not a valid calendar date: %s", ErrValidation, name, value)
	}
	return t, nil
}

// DateRange is an inclusive time window; a nil bound is unbounded on that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// NewDateRange builds a range from optional YYYYMMDD parameters.
// Start snaps to 00:00:00.000 and End to 23:59:59.999 of their days.
func NewDateRange(startDate, endDate string, loc *time.Location) (DateRange, error) {
	var r DateRange
	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)

	if startDate != "" {
		start, err := parseQueryDate("start_date", startDate, loc)
		if err != nil {
			return DateRange{}, err
		}
		r.Start = &start
	}
	if endDate != "" {
		day, err := parseQueryDate("end_date", endDate, loc)
		if err != nil {
			return DateRange{}, err
		}
		end := endOfDay(day)
		r.End = &end
	}
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return DateRange{}, fmt.Errorf("%w: start_date must not be after end_date", ErrValidation)
	}
	return r, nil
}

// UpcomingWindow covers today plus the following days-1 days in loc.
func UpcomingWindow(now time.Time, days int, loc *time.Location) DateRange {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := endOfDay(start.AddDate(0, 0, days-1))
	return DateRange{Start: &start, End: &end}
}

func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Millisecond)
}

// Unbounded reports whether neither side of the range is set.
func (r DateRange) Unbounded() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether t lies inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// EarliestWithin returns the earliest of times that falls inside the range.
func (r DateRange) EarliestWithin(times []time.Time) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, t := range times {
		if !r.Contains(t) {
			continue
		}
		if !found || t.Before(earliest) {
			earliest = t
			found = true
		}
	}
	return earliest, found
}

// FilterByRange keeps the concerts whose extracted dates hit the range and orders
// them by their earliest in-range date, ascending. Ties keep the input order.
func FilterByRange(concerts []Concert, r DateRange, dates func(Concert) []time.Time) []Concert {
	type candidate struct {
		concert  Concert
		earliest time.Time
	}
	matched := make([]candidate, 0)
	for _, c := range concerts {
		earliest, ok := r.EarliestWithin(dates(c))
		if !ok {
			continue
		}
		matched = append(matched, candidate{concert: c, earliest: earliest})
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].earliest.Before(matched[j].earliest)
	})

	result := make([]Concert, len(matched))
	for i, m := range matched {
		result[i] = m.concert
	}
	return result
}

// Paginate cuts one page out of an already filtered and ordered slice.
// A page past the end yields no items; page is compared before multiplying so
// huge page numbers cannot overflow.
func Paginate(concerts []Concert, page, limit int) Page {
	total := len(concerts)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := total
	if limit < total-start {
		end = start + limit
	}
	return Page{
		Items:      append([]Concert{}, concerts[start:end]...),
		Page:       page,
		Limit:      limit,
		TotalItems: total,
	}
}
