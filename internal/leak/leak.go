// Package leak detects continuous consumption, such as a running water leak, in a
// delta series.
package leak

import (
	"log/slog"
	"time"

	"powerview/internal/model"
)

// DefaultMinGroups is the number of buckets needed before a verdict is given.
const DefaultMinGroups = 5

// BucketFunc assigns a value to a bucket.
type BucketFunc func(model.NormalizedDurationValue) time.Time

// HourOfEnd buckets values by the hour their span ends in.
func HourOfEnd(v model.NormalizedDurationValue) time.Time {
	return v.End.Truncate(time.Hour)
}

// Checker computes the leak characteristic of a delta series.
type Checker struct {
	logger    *slog.Logger
	bucket    BucketFunc
	minGroups int
}

type Option func(*Checker)

func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithBucketFunc(f BucketFunc) Option {
	return func(c *Checker) {
		if f != nil {
			c.bucket = f
		}
	}
}

func WithMinGroups(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.minGroups = n
		}
	}
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		logger:    slog.Default(),
		bucket:    HourOfEnd,
		minGroups: DefaultMinGroups,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Characteristic sums the deltaCode values of series ending strictly inside
// (start, end) per bucket. It returns nil when there are too few buckets to decide
// or the units do not add up, the grand total when every bucket is positive, and
// zero otherwise.
func (c *Checker) Characteristic(series *model.LabelSeries[model.NormalizedDurationValue], deltaCode model.MetricCode, start, end time.Time) (*model.UnitValue, error) {
	if series == nil {
		return nil, model.NewError(model.InvalidArgument, "series is nil")
	}
	if !deltaCode.IsDelta() {
		return nil, model.NewError(model.OutOfRange, "%s is not a delta metric code", deltaCode)
	}
	if err := model.RequireUTC("start", start); err != nil {
		return nil, err
	}
	if err := model.RequireUTC("end", end); err != nil {
		return nil, err
	}

	var order []time.Time
	sums := map[time.Time]model.UnitValue{}
	for _, v := range series.Values(deltaCode) {
		if !v.End.After(start) || !v.End.Before(end) {
			continue
		}
		key := c.bucket(v)
		sum, ok := sums[key]
		if !ok {
			order = append(order, key)
			sums[key] = v.Value
			continue
		}
		next, err := sum.Add(v.Value)
		if err != nil {
			c.logger.Warn("leak characteristic unavailable", "label", series.Label(), "code", deltaCode.String(), "err", err)
			return nil, nil
		}
		sums[key] = next
	}

	if len(order) < c.minGroups {
		return nil, nil
	}

	total := model.UnitValue{Unit: sums[order[0]].Unit}
	allPositive := true
	for _, key := range order {
		s := sums[key]
		if s.Value <= 0 {
			allPositive = false
		}
		next, err := total.Add(s)
		if err != nil {
			c.logger.Warn("leak characteristic unavailable", "label", series.Label(), "code", deltaCode.String(), "err", err)
			return nil, nil
		}
		total = next
	}
	if !allPositive {
		return &model.UnitValue{Value: 0, Unit: total.Unit}, nil
	}
	return &total, nil
}

// GetLeakCharacteristic runs a default Checker.
func GetLeakCharacteristic(series *model.LabelSeries[model.NormalizedDurationValue], deltaCode model.MetricCode, start, end time.Time) (*model.UnitValue, error) {
	return NewChecker().Characteristic(series, deltaCode, start, end)
}
