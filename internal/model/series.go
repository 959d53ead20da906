package model

import (
	"slices"
	"sort"
	"strings"
	"time"
)

// Ordered is implemented by every value stage that can live in a LabelSeries.
type Ordered interface {
	OrderKey() time.Time
}

// LabelSeries holds the values of one label (e.g. a meter location), per metric code,
// each list sorted by OrderKey.
type LabelSeries[V Ordered] struct {
	label  string
	codes  []MetricCode
	values map[MetricCode][]V
}

func NewLabelSeries[V Ordered](label string, values map[MetricCode][]V) (*LabelSeries[V], error) {
	if strings.TrimSpace(label) == "" {
		return nil, invalidArgument("label is required")
	}
	if values == nil {
		return nil, invalidArgument("values of label %q is nil", label)
	}
	ls := &LabelSeries[V]{label: label, values: map[MetricCode][]V{}}
	if err := ls.Add(values); err != nil {
		return nil, err
	}
	return ls, nil
}

// Add merges values in. New codes are appended in code order; existing lists are re-sorted.
func (ls *LabelSeries[V]) Add(values map[MetricCode][]V) error {
	if values == nil {
		return invalidArgument("values of label %q is nil", ls.label)
	}
	for mc, vs := range values {
		if vs == nil {
			return invalidArgument("values of %s in label %q is nil", mc, ls.label)
		}
	}
	for _, mc := range sortedCodes(values) {
		existing, ok := ls.values[mc]
		if !ok {
			ls.codes = append(ls.codes, mc)
		}
		merged := make([]V, 0, len(existing)+len(values[mc]))
		merged = append(merged, existing...)
		merged = append(merged, values[mc]...)
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].OrderKey().Before(merged[j].OrderKey())
		})
		ls.values[mc] = merged
	}
	return nil
}

func (ls *LabelSeries[V]) Label() string { return ls.label }

// MetricCodes returns the codes in insertion order.
func (ls *LabelSeries[V]) MetricCodes() []MetricCode {
	return slices.Clone(ls.codes)
}

func (ls *LabelSeries[V]) ContainsMetricCode(mc MetricCode) bool {
	_, ok := ls.values[mc]
	return ok
}

// Values returns the ordered values of mc; an unknown code yields an empty slice.
func (ls *LabelSeries[V]) Values(mc MetricCode) []V {
	vs, ok := ls.values[mc]
	if !ok {
		return []V{}
	}
	return slices.Clone(vs)
}

// All returns a copy of the code to values map.
func (ls *LabelSeries[V]) All() map[MetricCode][]V {
	out := make(map[MetricCode][]V, len(ls.values))
	for mc, vs := range ls.values {
		out[mc] = slices.Clone(vs)
	}
	return out
}

// Cumulative returns the subset of codes that are cumulative registers.
func (ls *LabelSeries[V]) Cumulative() *LabelSeries[V] {
	return ls.filter(MetricCode.IsCumulative)
}

// NonCumulative returns the subset of codes that are not cumulative registers.
func (ls *LabelSeries[V]) NonCumulative() *LabelSeries[V] {
	return ls.filter(func(mc MetricCode) bool { return !mc.IsCumulative() })
}

func (ls *LabelSeries[V]) filter(keep func(MetricCode) bool) *LabelSeries[V] {
	out := &LabelSeries[V]{label: ls.label, values: map[MetricCode][]V{}}
	for _, mc := range ls.codes {
		if keep(mc) {
			out.codes = append(out.codes, mc)
			out.values[mc] = slices.Clone(ls.values[mc])
		}
	}
	return out
}

func sortedCodes[V any](m map[MetricCode][]V) []MetricCode {
	codes := make([]MetricCode, 0, len(m))
	for mc := range m {
		codes = append(codes, mc)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i].Less(codes[j]) })
	return codes
}

// LabelSeriesSet is the collection of label series over one UTC window.
type LabelSeriesSet[V Ordered] struct {
	start  time.Time
	end    time.Time
	series []*LabelSeries[V]
}

func NewLabelSeriesSet[V Ordered](start, end time.Time, series ...*LabelSeries[V]) (*LabelSeriesSet[V], error) {
	if err := RequireUTC("start", start); err != nil {
		return nil, err
	}
	if err := RequireUTC("end", end); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, outOfRange("start %s is after end %s", start, end)
	}
	set := &LabelSeriesSet[V]{start: start, end: end}
	for _, ls := range series {
		if err := set.Add(ls); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Add appends ls, merging into an existing series of the same label.
func (s *LabelSeriesSet[V]) Add(ls *LabelSeries[V]) error {
	if ls == nil {
		return invalidArgument("label series is nil")
	}
	if existing := s.Get(ls.Label()); existing != nil {
		return existing.Add(ls.values)
	}
	s.series = append(s.series, ls)
	return nil
}

func (s *LabelSeriesSet[V]) Start() time.Time { return s.start }
func (s *LabelSeriesSet[V]) End() time.Time   { return s.end }

// Series returns the label series in insertion order.
func (s *LabelSeriesSet[V]) Series() []*LabelSeries[V] {
	return slices.Clone(s.series)
}

func (s *LabelSeriesSet[V]) Labels() []string {
	out := make([]string, 0, len(s.series))
	for _, ls := range s.series {
		out = append(out, ls.Label())
	}
	return out
}

// Get returns the series of label, or nil.
func (s *LabelSeriesSet[V]) Get(label string) *LabelSeries[V] {
	for _, ls := range s.series {
		if ls.Label() == label {
			return ls
		}
	}
	return nil
}
