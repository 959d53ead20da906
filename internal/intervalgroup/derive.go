package intervalgroup

import (
	"fmt"
	"strings"

	"powerview/internal/costbreakdown"
	"powerview/internal/model"
)

type derived struct {
	codes  []model.MetricCode
	values map[model.MetricCode][]model.NormalizedDurationValue
}

func newDerived() *derived {
	return &derived{values: map[model.MetricCode][]model.NormalizedDurationValue{}}
}

func (d *derived) add(mc model.MetricCode, vs []model.NormalizedDurationValue) {
	if _, ok := d.values[mc]; !ok {
		d.codes = append(d.codes, mc)
	}
	d.values[mc] = append(d.values[mc], vs...)
}

func (g *Group) derive(normalized *model.LabelSeriesSet[model.NormalizedReading], p *Prepared) (*model.LabelSeriesSet[model.NormalizedDurationValue], error) {
	var order []string
	byLabel := map[string]*derived{}
	target := func(label string) *derived {
		d, ok := byLabel[label]
		if !ok {
			d = newDerived()
			byLabel[label] = d
			order = append(order, label)
		}
		return d
	}
	// Cost targets name labels the way bindings match them, ignoring case.
	costTarget := func(label string) *derived {
		for _, l := range order {
			if strings.EqualFold(l, label) {
				return byLabel[l]
			}
		}
		return target(label)
	}

	for _, ls := range normalized.Series() {
		d := target(ls.Label())
		if err := g.deriveNonCumulative(ls.NonCumulative(), d); err != nil {
			return nil, err
		}
		if err := g.deriveCumulative(ls.Cumulative(), d, p); err != nil {
			return nil, err
		}
		if err := g.deriveSeries(ls.Label(), d, p); err != nil {
			return nil, err
		}
	}

	// Cost series read the label's own derived series and may write to another label.
	for _, label := range append([]string(nil), order...) {
		if err := g.deriveCosts(label, byLabel[label], costTarget, p); err != nil {
			return nil, err
		}
	}

	out, err := model.NewLabelSeriesSet[model.NormalizedDurationValue](normalized.Start(), normalized.End())
	if err != nil {
		return nil, err
	}
	for _, label := range order {
		d := byLabel[label]
		ls, err := model.NewLabelSeries(label, d.values)
		if err != nil {
			return nil, err
		}
		if err := out.Add(ls); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// deriveNonCumulative turns every reading into a zero length duration value.
func (g *Group) deriveNonCumulative(ls *model.LabelSeries[model.NormalizedReading], d *derived) error {
	for _, mc := range ls.MetricCodes() {
		nrs := ls.Values(mc)
		vs := make([]model.NormalizedDurationValue, 0, len(nrs))
		for _, nr := range nrs {
			v, err := model.NewNormalizedDurationValue(
				nr.Reading.Timestamp, nr.Reading.Timestamp,
				nr.NormalizedTimestamp, nr.NormalizedTimestamp,
				nr.Reading.Value, nr.Reading.DeviceID,
			)
			if err != nil {
				return fmt.Errorf("label %q %s: %w", ls.Label(), mc, err)
			}
			vs = append(vs, v)
		}
		d.add(mc, vs)
	}
	return nil
}

func (g *Group) deriveCumulative(ls *model.LabelSeries[model.NormalizedReading], d *derived, p *Prepared) error {
	for _, base := range ls.MetricCodes() {
		column := ls.Values(base)
		for _, gen := range g.cumulative {
			code, ok := gen.Code(base)
			if !ok {
				continue
			}
			vs, err := gen.Generate(base, column)
			if err != nil {
				if g.skip(p, ls.Label(), code, err) {
					continue
				}
				return fmt.Errorf("label %q %s %s: %w", ls.Label(), gen.Name(), code, err)
			}
			d.add(code, vs)
		}
	}
	return nil
}

func (g *Group) deriveSeries(label string, d *derived, p *Prepared) error {
	for _, gen := range g.series {
		vs, ok, err := gen.Generate(d.values)
		if !ok {
			continue
		}
		if err != nil {
			if g.skip(p, label, gen.Code(), err) {
				continue
			}
			return fmt.Errorf("label %q %s: %w", label, gen.Code(), err)
		}
		d.add(gen.Code(), vs)
	}
	return nil
}

// deriveCosts applies every binding matching a series of label. A priced series
// is discarded when any of its values matched no entry.
func (g *Group) deriveCosts(label string, d *derived, target func(string) *derived, p *Prepared) error {
	codes := append([]model.MetricCode(nil), d.codes...)
	for _, base := range codes {
		for _, b := range g.bindings {
			if !b.Matches(label, base) || !b.Series.SupportsInterval(g.interval) {
				continue
			}
			values := d.values[base]
			if !b.Series.SupportsDurations(values) {
				p.Skipped = append(p.Skipped, Skipped{Label: label, Code: b.Series.Code, Reason: "normalized spans do not start and end on whole hours"})
				continue
			}
			applied, err := b.CostBreakdown.Apply(g.location, values)
			if err != nil {
				if g.skip(p, label, b.Series.Code, err) {
					continue
				}
				return fmt.Errorf("label %q cost breakdown %q: %w", label, b.CostBreakdown.Title, err)
			}
			priced, complete := pricedValues(applied)
			if !complete {
				p.Skipped = append(p.Skipped, Skipped{Label: label, Code: b.Series.Code, Reason: "no cost breakdown entry applies to every value"})
				continue
			}
			target(b.Target(label)).add(b.Series.Code, priced)
		}
	}
	return nil
}

func pricedValues(applied []costbreakdown.Applied) ([]model.NormalizedDurationValue, bool) {
	out := make([]model.NormalizedDurationValue, 0, len(applied))
	for _, a := range applied {
		if len(a.Entries) == 0 {
			return nil, false
		}
		out = append(out, a.Value)
	}
	return out, true
}

// skip records a data misalignment and reports true; other errors are not skippable.
func (g *Group) skip(p *Prepared, label string, code model.MetricCode, err error) bool {
	if !model.IsDataMisalignment(err) {
		return false
	}
	g.logger.Warn("skipping derived series", "label", label, "code", code.String(), "err", err)
	p.Skipped = append(p.Skipped, Skipped{Label: label, Code: code, Reason: err.Error()})
	return true
}
