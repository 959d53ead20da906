// Package intervalgroup turns raw register readings into interval aligned series.
package intervalgroup

import (
	"fmt"
	"log/slog"
	"time"

	"powerview/internal/costbreakdown"
	"powerview/internal/generator"
	"powerview/internal/interval"
	"powerview/internal/model"
)

// Group holds the settings of one preparation: location, interval and the cost
// bindings. A Group is immutable and may be shared; every Prepare call returns a
// fresh result.
type Group struct {
	location   *time.Location
	interval   string
	funcs      interval.Funcs
	bindings   []costbreakdown.Binding
	cumulative []generator.Cumulative
	series     []generator.Series
	logger     *slog.Logger
}

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the logger used to report skipped series.
func WithLogger(l *slog.Logger) Option {
	return func(g *Group) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithCumulativeGenerators replaces the default period, delta and average generators.
func WithCumulativeGenerators(gens ...generator.Cumulative) Option {
	return func(g *Group) {
		g.cumulative = gens
	}
}

// WithSeriesGenerators replaces the default net delta generators.
func WithSeriesGenerators(gens ...generator.Series) Option {
	return func(g *Group) {
		g.series = gens
	}
}

// New validates the settings and resolves the interval.
func New(loc *time.Location, intervalName string, bindings []costbreakdown.Binding, opts ...Option) (*Group, error) {
	if loc == nil {
		return nil, model.NewError(model.InvalidArgument, "location is required")
	}
	if bindings == nil {
		return nil, model.NewError(model.InvalidArgument, "bindings is nil")
	}
	funcs, err := interval.Resolve(intervalName, loc)
	if err != nil {
		return nil, err
	}
	for i, b := range bindings {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
	}
	g := &Group{
		location:   loc,
		interval:   intervalName,
		funcs:      funcs,
		bindings:   bindings,
		cumulative: generator.DefaultCumulative(),
		series:     generator.DefaultSeries(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *Group) Interval() string         { return g.interval }
func (g *Group) Location() *time.Location { return g.location }

// Prepare builds the category axis, normalizes every reading onto the interval grid
// and derives the duration series. A derived series whose generation fails with a
// data misalignment is skipped and reported in Prepared.Skipped.
func (g *Group) Prepare(raw *model.LabelSeriesSet[model.RegisterReading]) (*Prepared, error) {
	if raw == nil {
		return nil, model.NewError(model.InvalidArgument, "label series set is nil")
	}
	if err := model.RequireUTC("start", raw.Start()); err != nil {
		return nil, err
	}

	p := &Prepared{
		Interval:   g.interval,
		Location:   g.location,
		Categories: interval.Categories(raw.Start(), raw.End(), g.funcs.Next),
		Skipped:    []Skipped{},
	}

	normalized, err := g.normalize(raw)
	if err != nil {
		return nil, err
	}
	p.Normalized = normalized

	durations, err := g.derive(normalized, p)
	if err != nil {
		return nil, err
	}
	p.NormalizedDuration = durations

	return p, nil
}

func (g *Group) normalize(raw *model.LabelSeriesSet[model.RegisterReading]) (*model.LabelSeriesSet[model.NormalizedReading], error) {
	out, err := model.NewLabelSeriesSet[model.NormalizedReading](raw.Start(), raw.End())
	if err != nil {
		return nil, err
	}
	for _, ls := range raw.Series() {
		values := map[model.MetricCode][]model.NormalizedReading{}
		for _, mc := range ls.MetricCodes() {
			nrs, err := g.normalizeColumn(ls.Values(mc))
			if err != nil {
				return nil, fmt.Errorf("label %q %s: %w", ls.Label(), mc, err)
			}
			values[mc] = nrs
		}
		nls, err := model.NewLabelSeries(ls.Label(), values)
		if err != nil {
			return nil, err
		}
		if err := out.Add(nls); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// normalizeColumn keeps the earliest reading of every bucket. The column is ordered.
func (g *Group) normalizeColumn(readings []model.RegisterReading) ([]model.NormalizedReading, error) {
	out := make([]model.NormalizedReading, 0, len(readings))
	seen := map[time.Time]bool{}
	for _, r := range readings {
		bucket := g.funcs.Divider(r.Timestamp)
		if seen[bucket] {
			continue
		}
		seen[bucket] = true
		nr, err := model.NewNormalizedReading(r, bucket)
		if err != nil {
			return nil, err
		}
		out = append(out, nr)
	}
	return out, nil
}
