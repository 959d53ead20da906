package analysis

import (
	"sort"

	"powerview/internal/model"
)

// RankByTotal profiles code for every label that carries it and sorts descending
// by Total. Labels without the code are left out.
func RankByTotal(set *model.LabelSeriesSet[model.NormalizedDurationValue], code model.MetricCode) ([]Profile, error) {
	if set == nil {
		return nil, model.NewError(model.InvalidArgument, "label series set is nil")
	}
	out := make([]Profile, 0, len(set.Series()))
	for _, ls := range set.Series() {
		if !ls.ContainsMetricCode(code) {
			continue
		}
		p, err := ComputeProfile(ls.Label(), code, ls.Values(code))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out, nil
}
