package model

import (
	"math"
	"time"
)

// NormalizedReading is a register reading placed on an interval grid.
type NormalizedReading struct {
	Reading             RegisterReading `json:"reading"`
	NormalizedTimestamp time.Time       `json:"normalized_timestamp"`
}

func NewNormalizedReading(r RegisterReading, normalized time.Time) (NormalizedReading, error) {
	if err := RequireUTC("timestamp", r.Timestamp); err != nil {
		return NormalizedReading{}, err
	}
	if err := RequireUTC("normalized timestamp", normalized); err != nil {
		return NormalizedReading{}, err
	}
	return NormalizedReading{Reading: r, NormalizedTimestamp: normalized}, nil
}

func (n NormalizedReading) OrderKey() time.Time { return n.Reading.Timestamp }

// SubtractAccommodateWrap subtracts base from n using the register wrap rules.
// Both readings must come from the same device.
func (n NormalizedReading) SubtractAccommodateWrap(base NormalizedReading) (NormalizedDurationValue, error) {
	diff, err := n.Reading.Subtract(base.Reading)
	if err != nil {
		return NormalizedDurationValue{}, err
	}
	return NewNormalizedDurationValue(
		base.Reading.Timestamp, n.Reading.Timestamp,
		base.NormalizedTimestamp, n.NormalizedTimestamp,
		diff.Value,
		n.Reading.DeviceID,
	)
}

// SubtractNotNegative subtracts base from n and clamps negative results to zero.
// It is used across devices, where wrap detection is meaningless.
func (n NormalizedReading) SubtractNotNegative(base NormalizedReading) (NormalizedDurationValue, error) {
	diff, err := n.Reading.Value.Subtract(base.Reading.Value)
	if err != nil {
		return NormalizedDurationValue{}, err
	}
	diff.Value = math.Max(diff.Value, 0)
	return NewNormalizedDurationValue(
		base.Reading.Timestamp, n.Reading.Timestamp,
		base.NormalizedTimestamp, n.NormalizedTimestamp,
		diff,
		base.Reading.DeviceID, n.Reading.DeviceID,
	)
}
