package intervalgroup

import (
	"time"

	"powerview/internal/model"
)

// Prepared is the result of Group.Prepare. It is not modified after Prepare returns.
type Prepared struct {
	Interval string
	Location *time.Location

	// Categories are the bucket starts of the window, in UTC.
	Categories []time.Time

	Normalized         *model.LabelSeriesSet[model.NormalizedReading]
	NormalizedDuration *model.LabelSeriesSet[model.NormalizedDurationValue]

	// Skipped lists derived series dropped during preparation.
	Skipped []Skipped
}

// Skipped identifies a derived series that was not generated and why.
type Skipped struct {
	Label  string           `json:"label"`
	Code   model.MetricCode `json:"obis_code"`
	Reason string           `json:"reason"`
}

// LocalCategories returns Categories in the group's location, for chart labels.
func (p *Prepared) LocalCategories() []time.Time {
	out := make([]time.Time, 0, len(p.Categories))
	for _, c := range p.Categories {
		out = append(out, c.In(p.Location))
	}
	return out
}
