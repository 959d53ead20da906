package costbreakdown

import (
	"strings"
	"time"

	"powerview/internal/interval"
	"powerview/internal/model"
)

// GeneratorSeries describes a priced series: Code is generated from BaseCode.
type GeneratorSeries struct {
	Code     model.MetricCode `json:"code" yaml:"code"`
	BaseCode model.MetricCode `json:"base_code" yaml:"base_code"`
}

var supportedIntervals = map[string]bool{
	interval.SixtyMinutes: true,
	interval.Day:          true,
	interval.Month:        true,
}

// SupportsInterval reports whether tariffs, which are hourly, can be applied on the interval.
func (g GeneratorSeries) SupportsInterval(name string) bool {
	return supportedIntervals[name]
}

// SupportsDurations reports whether every normalized span starts and ends on a whole hour.
func (g GeneratorSeries) SupportsDurations(values []model.NormalizedDurationValue) bool {
	for _, v := range values {
		if !onHour(v.NormalizedStart) || !onHour(v.NormalizedEnd) {
			return false
		}
	}
	return true
}

func onHour(t time.Time) bool {
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// Binding pairs a cost breakdown with the series it generates. Label limits the
// binding to one source label (empty matches all); TargetLabel, when set, receives
// the generated series instead of the source label.
type Binding struct {
	CostBreakdown *CostBreakdown
	Series        GeneratorSeries
	Label         string
	TargetLabel   string
}

func (b Binding) Validate() error {
	if b.CostBreakdown == nil {
		return model.NewError(model.InvalidArgument, "binding of %s has no cost breakdown", b.Series.Code)
	}
	return b.CostBreakdown.Validate()
}

// Matches reports whether the binding applies to base series of label.
func (b Binding) Matches(label string, base model.MetricCode) bool {
	if b.Series.BaseCode != base {
		return false
	}
	return b.Label == "" || strings.EqualFold(b.Label, label)
}

// Target returns the label that receives the generated series.
func (b Binding) Target(label string) string {
	if b.TargetLabel != "" {
		return b.TargetLabel
	}
	return label
}
