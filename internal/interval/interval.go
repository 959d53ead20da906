// Package interval maps interval names such as "15-minutes" or "1-days" to the
// functions that place timestamps on that grid in a given location.
package interval

import (
	"time"

	"powerview/internal/model"
)

// Recognized interval names.
const (
	FiveMinutes    = "5-minutes"
	TenMinutes     = "10-minutes"
	FifteenMinutes = "15-minutes"
	ThirtyMinutes  = "30-minutes"
	SixtyMinutes   = "60-minutes"
	Day            = "1-days"
	Month          = "1-months"
)

var minuteIntervals = map[string]int{
	FiveMinutes:    5,
	TenMinutes:     10,
	FifteenMinutes: 15,
	ThirtyMinutes:  30,
	SixtyMinutes:   60,
}

// Names lists every recognized interval, shortest first.
func Names() []string {
	return []string{FiveMinutes, TenMinutes, FifteenMinutes, ThirtyMinutes, SixtyMinutes, Day, Month}
}

// Valid reports whether name is a recognized interval.
func Valid(name string) bool {
	_, ok := minuteIntervals[name]
	return ok || name == Day || name == Month
}

// Funcs is the pair of grid functions for one interval. Both take and return UTC.
type Funcs struct {
	// Divider maps a timestamp to the start of the bucket containing it.
	Divider func(time.Time) time.Time
	// Next maps a bucket start to the following bucket start.
	Next func(time.Time) time.Time
}

// Resolve returns the grid functions of name in loc.
func Resolve(name string, loc *time.Location) (Funcs, error) {
	if loc == nil {
		return Funcs{}, model.NewError(model.InvalidArgument, "location is required")
	}
	if n, ok := minuteIntervals[name]; ok {
		d := time.Duration(n) * time.Minute
		return Funcs{
			Divider: func(t time.Time) time.Time { return truncateLocal(t, d, loc) },
			Next:    func(t time.Time) time.Time { return t.Add(d).UTC() },
		}, nil
	}
	switch name {
	case Day:
		return Funcs{
			Divider: func(t time.Time) time.Time {
				lt := t.In(loc)
				return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc).UTC()
			},
			Next: func(t time.Time) time.Time { return t.In(loc).AddDate(0, 0, 1).UTC() },
		}, nil
	case Month:
		return Funcs{
			Divider: func(t time.Time) time.Time {
				lt := t.In(loc)
				return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc).UTC()
			},
			Next: func(t time.Time) time.Time { return t.In(loc).AddDate(0, 1, 0).UTC() },
		}, nil
	}
	return Funcs{}, model.NewError(model.OutOfRange, "unsupported interval %q", name)
}

// truncateLocal truncates t to a multiple of d on the local wall clock, so that
// hour buckets in a +05:30 zone start at local :00.
func truncateLocal(t time.Time, d time.Duration, loc *time.Location) time.Time {
	_, offset := t.In(loc).Zone()
	shift := time.Duration(offset) * time.Second
	return t.UTC().Add(shift).Truncate(d).Add(-shift)
}

// Categories steps from start with next while the bucket start is before end.
func Categories(start, end time.Time, next func(time.Time) time.Time) []time.Time {
	var out []time.Time
	for t := start; t.Before(end); t = next(t) {
		out = append(out, t)
	}
	return out
}
