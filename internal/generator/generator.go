// Package generator derives duration series from cumulative register columns.
package generator

import "powerview/internal/model"

// Cumulative derives one series from one cumulative column.
type Cumulative interface {
	Name() string
	// Code returns the code of the derived series, or false when base has none.
	Code(base model.MetricCode) (model.MetricCode, bool)
	// Generate consumes a column ordered by timestamp and preserves that order.
	Generate(base model.MetricCode, values []model.NormalizedReading) ([]model.NormalizedDurationValue, error)
}

// Series derives one series from already generated series of the same label.
type Series interface {
	Code() model.MetricCode
	RequiredInputs() []model.MetricCode
	// Generate returns ok=false when a required input is missing.
	Generate(inputs map[model.MetricCode][]model.NormalizedDurationValue) (out []model.NormalizedDurationValue, ok bool, err error)
}

// DefaultCumulative returns the generators run on every cumulative column.
func DefaultCumulative() []Cumulative {
	return []Cumulative{Period{}, Delta{}, AverageActual{}}
}

// DefaultSeries returns the generators run after the cumulative ones.
func DefaultSeries() []Series {
	return []Series{
		NewNetDelta(model.ElectrActiveEnergyA14NetDelta, model.ElectrActiveEnergyA14Delta, model.ElectrActiveEnergyA23Delta),
		NewNetDelta(model.ElectrActiveEnergyA23NetDelta, model.ElectrActiveEnergyA23Delta, model.ElectrActiveEnergyA14Delta),
	}
}

// subtract uses wrap detection when both readings come from the same device.
func subtract(current, base model.NormalizedReading) (model.NormalizedDurationValue, error) {
	if current.Reading.SameDevice(base.Reading) {
		return current.SubtractAccommodateWrap(base)
	}
	return current.SubtractNotNegative(base)
}
