package model

import (
	"math"
	"strings"
	"time"
)

// NormalizedDurationValue is a value that is valid over a span of time, both as
// measured (Start, End) and as placed on the interval grid (NormalizedStart, NormalizedEnd).
type NormalizedDurationValue struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	NormalizedStart time.Time `json:"normalized_start"`
	NormalizedEnd   time.Time `json:"normalized_end"`
	Value           UnitValue `json:"value"`
	DeviceIDs       []string  `json:"device_ids"`
}

// NewNormalizedDurationValue validates the spans and de-duplicates device ids
// case-insensitively, keeping the first casing seen.
func NewNormalizedDurationValue(start, end, normalizedStart, normalizedEnd time.Time, value UnitValue, deviceIDs ...string) (NormalizedDurationValue, error) {
	for _, c := range []struct {
		name string
		t    time.Time
	}{
		{"start", start}, {"end", end}, {"normalized start", normalizedStart}, {"normalized end", normalizedEnd},
	} {
		if err := RequireUTC(c.name, c.t); err != nil {
			return NormalizedDurationValue{}, err
		}
	}
	if start.After(end) {
		return NormalizedDurationValue{}, outOfRange("start %s is after end %s", start, end)
	}
	if normalizedStart.After(normalizedEnd) {
		return NormalizedDurationValue{}, outOfRange("normalized start %s is after normalized end %s", normalizedStart, normalizedEnd)
	}
	return NormalizedDurationValue{
		Start:           start,
		End:             end,
		NormalizedStart: normalizedStart,
		NormalizedEnd:   normalizedEnd,
		Value:           value,
		DeviceIDs:       dedupDeviceIDs(deviceIDs),
	}, nil
}

func dedupDeviceIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		seen := false
		for _, o := range out {
			if strings.EqualFold(o, id) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, id)
		}
	}
	return out
}

func (v NormalizedDurationValue) OrderKey() time.Time { return v.End }

func (v NormalizedDurationValue) Duration() time.Duration { return v.End.Sub(v.Start) }

func (v NormalizedDurationValue) NormalizedDuration() time.Duration {
	return v.NormalizedEnd.Sub(v.NormalizedStart)
}

// DurationDeviationRatio is (Duration - NormalizedDuration) / NormalizedDuration,
// or 0 for a zero length normalized span.
func (v NormalizedDurationValue) DurationDeviationRatio() float64 {
	nd := v.NormalizedDuration()
	if nd == 0 {
		return 0
	}
	return float64(v.Duration()-nd) / float64(nd)
}

// DeviationValue bounds the value by how far the measured span drifted from the grid span.
func (v NormalizedDurationValue) DeviationValue() DeviationValue {
	ratio := v.DurationDeviationRatio()
	x := v.Value.Value
	switch {
	case ratio < 0:
		return DeviationValue{Value: x, MinBound: x, MaxBound: x + x*math.Abs(ratio)}
	case ratio > 0:
		return DeviationValue{Value: x, MinBound: x - x*ratio, MaxBound: x}
	default:
		return DeviationValue{Value: x, MinBound: x, MaxBound: x}
	}
}

// WithValue returns a copy carrying value and any extra device ids.
func (v NormalizedDurationValue) WithValue(value UnitValue, extraDeviceIDs ...string) NormalizedDurationValue {
	ids := make([]string, 0, len(v.DeviceIDs)+len(extraDeviceIDs))
	ids = append(ids, v.DeviceIDs...)
	ids = append(ids, extraDeviceIDs...)
	out := v
	out.Value = value
	out.DeviceIDs = dedupDeviceIDs(ids)
	return out
}

const deviationEpsilon = 1e-7

// DeviationValue is a value with lower and upper bounds.
type DeviationValue struct {
	Value    float64 `json:"value"`
	MinBound float64 `json:"min_bound"`
	MaxBound float64 `json:"max_bound"`
}

// Equal compares all three fields within 1e-7.
func (d DeviationValue) Equal(other DeviationValue) bool {
	return math.Abs(d.Value-other.Value) < deviationEpsilon &&
		math.Abs(d.MinBound-other.MinBound) < deviationEpsilon &&
		math.Abs(d.MaxBound-other.MaxBound) < deviationEpsilon
}
