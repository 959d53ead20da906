package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"powerview/internal/model"
)

func LoadReadingsJSON(path string) (*model.ReadingsDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeReadings(f)
}

func DecodeReadings(r io.Reader) (*model.ReadingsDocument, error) {
	var doc model.ReadingsDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GroupByLabel builds the raw label series set of a document. Start and End are
// taken from the document; when absent they span the readings.
func GroupByLabel(doc *model.ReadingsDocument) (*model.LabelSeriesSet[model.RegisterReading], error) {
	if doc == nil {
		return nil, model.NewError(model.InvalidArgument, "readings document is nil")
	}
	start, end := doc.Start.UTC(), doc.End.UTC()
	if doc.Start.IsZero() || doc.End.IsZero() {
		start, end = span(doc.Readings)
	}

	var labels []string
	byLabel := map[string]map[model.MetricCode][]model.RegisterReading{}
	for i, row := range doc.Readings {
		r, err := row.Reading()
		if err != nil {
			return nil, fmt.Errorf("reading %d: %w", i, err)
		}
		codes, ok := byLabel[row.Label]
		if !ok {
			codes = map[model.MetricCode][]model.RegisterReading{}
			byLabel[row.Label] = codes
			labels = append(labels, row.Label)
		}
		codes[row.Code] = append(codes[row.Code], r)
	}

	set, err := model.NewLabelSeriesSet[model.RegisterReading](start, end)
	if err != nil {
		return nil, err
	}
	for _, label := range labels {
		ls, err := model.NewLabelSeries(label, byLabel[label])
		if err != nil {
			return nil, err
		}
		if err := set.Add(ls); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func span(rows []model.ReadingRow) (start, end time.Time) {
	for i, r := range rows {
		ts := r.Timestamp.UTC()
		if i == 0 || ts.Before(start) {
			start = ts
		}
		if i == 0 || ts.After(end) {
			end = ts
		}
	}
	if len(rows) == 0 {
		start = time.Unix(0, 0).UTC()
		end = start
	}
	return start, end
}
