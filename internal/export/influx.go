package export

import (
	"context"
	"fmt"

	"powerview/internal/model"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement is the InfluxDB measurement derived values are written to.
const Measurement = "normalized_duration"

// Points maps every duration value of set to a point stamped at its normalized end.
func Points(set *model.LabelSeriesSet[model.NormalizedDurationValue]) []*write.Point {
	var points []*write.Point
	for _, ls := range set.Series() {
		for _, mc := range ls.MetricCodes() {
			for _, v := range ls.Values(mc) {
				points = append(points, write.NewPoint(
					Measurement,
					map[string]string{
						"label":     ls.Label(),
						"obis_code": mc.String(),
						"unit":      v.Value.Unit.String(),
					},
					map[string]interface{}{
						"value":            v.Value.Value,
						"duration_seconds": v.Duration().Seconds(),
						"deviation_ratio":  v.DurationDeviationRatio(),
					},
					v.NormalizedEnd,
				))
			}
		}
	}
	return points
}

// InfluxSink writes derived series to an InfluxDB v2 bucket.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

// NewInfluxSink connects and verifies the server is healthy.
func NewInfluxSink(ctx context.Context, url, token, org, bucket string) (*InfluxSink, error) {
	client := influxdb2.NewClient(url, token)
	if _, err := client.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	return &InfluxSink{client: client, writeAPI: client.WriteAPIBlocking(org, bucket)}, nil
}

// NewInfluxSinkWithWriter wraps an existing blocking write API.
func NewInfluxSinkWithWriter(w api.WriteAPIBlocking) *InfluxSink {
	return &InfluxSink{writeAPI: w}
}

// Write sends every point of set and returns how many were written.
func (s *InfluxSink) Write(ctx context.Context, set *model.LabelSeriesSet[model.NormalizedDurationValue]) (int, error) {
	points := Points(set)
	if len(points) == 0 {
		return 0, nil
	}
	if err := s.writeAPI.WritePoint(ctx, points...); err != nil {
		return 0, fmt.Errorf("write %d points: %w", len(points), err)
	}
	return len(points), nil
}

func (s *InfluxSink) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
