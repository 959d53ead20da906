package generator

import (
	"time"

	"powerview/internal/model"
)

// NetDelta subtracts one delta series from another where both share a normalized
// end, clamping at zero. Typical use is import minus export.
type NetDelta struct {
	code       model.MetricCode
	minuend    model.MetricCode
	subtrahend model.MetricCode
}

func NewNetDelta(code, minuend, subtrahend model.MetricCode) NetDelta {
	return NetDelta{code: code, minuend: minuend, subtrahend: subtrahend}
}

func (n NetDelta) Code() model.MetricCode { return n.code }

func (n NetDelta) RequiredInputs() []model.MetricCode {
	return []model.MetricCode{n.minuend, n.subtrahend}
}

func (n NetDelta) Generate(inputs map[model.MetricCode][]model.NormalizedDurationValue) ([]model.NormalizedDurationValue, bool, error) {
	a, okA := inputs[n.minuend]
	b, okB := inputs[n.subtrahend]
	if !okA || !okB {
		return nil, false, nil
	}

	byEnd := make(map[time.Time]model.NormalizedDurationValue, len(b))
	for _, v := range b {
		byEnd[v.NormalizedEnd.UTC()] = v
	}

	out := make([]model.NormalizedDurationValue, 0, len(a))
	for _, x := range a {
		y, ok := byEnd[x.NormalizedEnd.UTC()]
		if !ok {
			continue
		}
		diff, err := x.Value.Subtract(y.Value)
		if err != nil {
			return nil, true, err
		}
		if diff.Value < 0 {
			diff.Value = 0
		}
		ids := append(append([]string{}, x.DeviceIDs...), y.DeviceIDs...)
		v, err := model.NewNormalizedDurationValue(
			minTime(x.Start, y.Start), maxTime(x.End, y.End),
			minTime(x.NormalizedStart, y.NormalizedStart), x.NormalizedEnd,
			diff, ids...,
		)
		if err != nil {
			return nil, true, err
		}
		out = append(out, v)
	}
	return out, true, nil
}

func minTime(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
