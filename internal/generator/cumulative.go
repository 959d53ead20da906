package generator

import (
	"powerview/internal/model"
)

// Period is the running total since the first reading of the column.
type Period struct{}

func (Period) Name() string { return "period" }

func (Period) Code(base model.MetricCode) (model.MetricCode, bool) { return base.ToPeriod(), true }

func (Period) Generate(_ model.MetricCode, values []model.NormalizedReading) ([]model.NormalizedDurationValue, error) {
	out := make([]model.NormalizedDurationValue, 0, len(values))
	if len(values) == 0 {
		return out, nil
	}
	first := values[0]
	for _, v := range values {
		d, err := subtract(v, first)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Delta is the difference between adjacent readings. The first reading yields a
// zero span, zero value entry.
type Delta struct{}

func (Delta) Name() string { return "delta" }

func (Delta) Code(base model.MetricCode) (model.MetricCode, bool) { return base.ToDelta(), true }

func (Delta) Generate(_ model.MetricCode, values []model.NormalizedReading) ([]model.NormalizedDurationValue, error) {
	out := make([]model.NormalizedDurationValue, 0, len(values))
	for i, v := range values {
		prev := v
		if i > 0 {
			prev = values[i-1]
		}
		d, err := subtract(v, prev)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// AverageActual converts each delta into an average rate over its normalized span.
// Only register families with a companion rate code produce output.
type AverageActual struct{}

func (AverageActual) Name() string { return "average" }

func (AverageActual) Code(base model.MetricCode) (model.MetricCode, bool) {
	return model.AverageCompanion(base)
}

func (a AverageActual) Generate(base model.MetricCode, values []model.NormalizedReading) ([]model.NormalizedDurationValue, error) {
	if _, ok := a.Code(base); !ok {
		return []model.NormalizedDurationValue{}, nil
	}
	deltas, err := Delta{}.Generate(base, values)
	if err != nil {
		return nil, err
	}
	out := make([]model.NormalizedDurationValue, 0, len(deltas))
	for _, d := range deltas {
		rate, err := averageRate(d)
		if err != nil {
			return nil, err
		}
		out = append(out, d.WithValue(rate))
	}
	return out, nil
}

func averageRate(d model.NormalizedDurationValue) (model.UnitValue, error) {
	nd := d.NormalizedDuration()
	var unit model.Unit
	var divisor float64
	switch d.Value.Unit {
	case model.WattHour:
		unit, divisor = model.Watt, nd.Hours()
	case model.Joule:
		unit, divisor = model.Watt, nd.Seconds()
	case model.CubicMetre:
		unit, divisor = model.CubicMetrePrHour, nd.Hours()
	default:
		return model.UnitValue{}, model.NewError(model.DataMisalignment, "no average rate unit for %s", d.Value.Unit)
	}
	if divisor == 0 {
		return model.UnitValue{Value: 0, Unit: unit}, nil
	}
	return model.UnitValue{Value: d.Value.Value / divisor, Unit: unit}, nil
}
