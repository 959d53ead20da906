package analysis

import (
	"math"
	"sort"
	"time"

	"powerview/internal/model"
)

// Profile is a label-level summary of one derived series, used for ranking
// consumers. The zero-span entry a delta series starts with is ignored.
type Profile struct {
	Label string
	Code  model.MetricCode
	Unit  model.Unit

	StartUTC time.Time
	EndUTC   time.Time

	Count int

	Total float64
	Min   float64
	Max   float64
	Mean  float64
	P05   float64
	P95   float64

	// BaseLoadShare is P05 over Mean: close to 1 for a flat profile, which is what
	// a running leak or an always-on load looks like.
	BaseLoadShare float64

	// PeakEnd is the normalized end of the largest value.
	PeakEnd time.Time
}

// ComputeProfile summarizes values. It fails with InvalidArgument when the series
// mixes units.
func ComputeProfile(label string, code model.MetricCode, values []model.NormalizedDurationValue) (Profile, error) {
	p := Profile{Label: label, Code: code}
	vals := make([]float64, 0, len(values))
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	for _, v := range values {
		if v.NormalizedDuration() == 0 {
			continue
		}
		if len(vals) == 0 {
			p.Unit = v.Value.Unit
			p.StartUTC = v.NormalizedStart
		} else if v.Value.Unit != p.Unit {
			return Profile{}, model.NewError(model.InvalidArgument, "label %q %s mixes units %s and %s", label, code, p.Unit, v.Value.Unit)
		}
		p.EndUTC = v.NormalizedEnd
		x := v.Value.Value
		vals = append(vals, x)
		p.Total += x
		if x < minv {
			minv = x
		}
		if x > maxv {
			maxv = x
			p.PeakEnd = v.NormalizedEnd
		}
	}
	if len(vals) == 0 {
		return p, nil
	}

	sort.Float64s(vals)
	p.Count = len(vals)
	p.Min = minv
	p.Max = maxv
	p.Mean = p.Total / float64(p.Count)
	p.P05 = percentileSorted(vals, 0.05)
	p.P95 = percentileSorted(vals, 0.95)
	if p.Mean > 0 {
		p.BaseLoadShare = p.P05 / p.Mean
	}
	return p, nil
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
