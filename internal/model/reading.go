package model

import (
	"math"
	"strings"
	"time"
)

const (
	registerQuirkRatio = 0.05
	registerWrapRatio  = 0.75
)

// RegisterReading is one sample of a meter register.
type RegisterReading struct {
	DeviceID  string    `json:"device_id"`
	Timestamp time.Time `json:"timestamp"`
	Value     UnitValue `json:"value"`
}

// NewRegisterReading validates that the device id is set and the timestamp is UTC.
func NewRegisterReading(deviceID string, ts time.Time, value UnitValue) (RegisterReading, error) {
	if strings.TrimSpace(deviceID) == "" {
		return RegisterReading{}, invalidArgument("device id is required")
	}
	if err := RequireUTC("timestamp", ts); err != nil {
		return RegisterReading{}, err
	}
	return RegisterReading{DeviceID: deviceID, Timestamp: ts, Value: value}, nil
}

func (r RegisterReading) OrderKey() time.Time { return r.Timestamp }

// SameDevice compares device ids case-insensitively.
func (r RegisterReading) SameDevice(other RegisterReading) bool {
	return strings.EqualFold(r.DeviceID, other.DeviceID)
}

// Subtract returns r - base, correcting negative differences caused by register
// resets and wraparounds. The result carries r's device id and timestamp.
// The register width used for a wraparound is the digit count of base, the
// reading taken before the rollover.
func (r RegisterReading) Subtract(base RegisterReading) (RegisterReading, error) {
	if r.Value.Unit != base.Value.Unit {
		return RegisterReading{}, incompatibleUnits(r.Value.Unit, base.Value.Unit)
	}
	if !r.SameDevice(base) {
		return RegisterReading{}, dataMisalignment("device id mismatch %q and %q", r.DeviceID, base.DeviceID)
	}
	v, err := wrapAwareDifference(r.Value.Value, base.Value.Value)
	if err != nil {
		return RegisterReading{}, err
	}
	return RegisterReading{
		DeviceID:  r.DeviceID,
		Timestamp: r.Timestamp,
		Value:     UnitValue{Value: v, Unit: r.Value.Unit},
	}, nil
}

// wrapAwareDifference computes current - base. A negative difference is either a
// register quirk (small, clamped to zero), a wraparound of the register's digit
// width (large, corrected), or a misalignment. The register width is taken from
// base, the reading taken before the counter rolled over.
func wrapAwareDifference(current, base float64) (float64, error) {
	d := current - base
	if d >= 0 {
		return d, nil
	}
	maxValue := math.Pow10(decimalDigits(base))
	abs := math.Abs(d)
	switch {
	case abs < maxValue*registerQuirkRatio:
		return 0, nil
	case abs > maxValue*registerWrapRatio:
		return (maxValue - base) + current, nil
	default:
		return 0, dataMisalignment("negative difference %v (current %v, base %v) is neither quirk nor wrap", d, current, base)
	}
}

// decimalDigits counts the digits of the integer part of |v|; zero has one digit.
func decimalDigits(v float64) int {
	n := math.Trunc(math.Abs(v))
	digits := 1
	for n >= 10 {
		n = math.Trunc(n / 10)
		digits++
	}
	return digits
}
