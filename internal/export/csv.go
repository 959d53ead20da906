package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"powerview/internal/model"
)

// WriteSeriesCSV writes every duration value of set to path, one row per value.
func WriteSeriesCSV(path string, set *model.LabelSeriesSet[model.NormalizedDurationValue], loc *time.Location) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return WriteSeries(f, set, loc)
}

func WriteSeries(out io.Writer, set *model.LabelSeriesSet[model.NormalizedDurationValue], loc *time.Location) (int, error) {
	if loc == nil {
		loc = time.UTC
	}
	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"label",
		"obis_code",
		"unit",
		"start_utc",
		"end_utc",
		"normalized_start_utc",
		"normalized_end_utc",
		"normalized_start_local",
		"value",
		"deviation_min",
		"deviation_max",
		"device_ids",
	}
	if err := w.Write(header); err != nil {
		return 0, err
	}

	rows := 0
	for _, ls := range set.Series() {
		for _, mc := range ls.MetricCodes() {
			for _, v := range ls.Values(mc) {
				dev := v.DeviationValue()
				row := []string{
					ls.Label(),
					mc.String(),
					v.Value.Unit.String(),
					fmtTime(v.Start),
					fmtTime(v.End),
					fmtTime(v.NormalizedStart),
					fmtTime(v.NormalizedEnd),
					fmtTime(v.NormalizedStart.In(loc)),
					fmtFloat(v.Value.Value),
					fmtFloat(dev.MinBound),
					fmtFloat(dev.MaxBound),
					strings.Join(v.DeviceIDs, ";"),
				}
				if err := w.Write(row); err != nil {
					return rows, err
				}
				rows++
			}
		}
	}

	w.Flush()
	return rows, w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
