package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func reading(device string, ts time.Time, v float64, u Unit) RegisterReading {
	return RegisterReading{DeviceID: device, Timestamp: ts, Value: UnitValue{Value: v, Unit: u}}
}

func TestNewUnitValueScales(t *testing.T) {
	assert.InDelta(t, 12.345, NewUnitValue(12345, -3, WattHour).Value, 1e-9)
	assert.InDelta(t, 1200, NewUnitValue(12, 2, Watt).Value, 1e-9)
	assert.Equal(t, 7.0, NewUnitValue(7, 0, CubicMetre).Value)
}

func TestUnitValueArithmeticChecksUnits(t *testing.T) {
	sum, err := UnitValue{1, WattHour}.Add(UnitValue{2, WattHour})
	require.NoError(t, err)
	assert.Equal(t, UnitValue{3, WattHour}, sum)

	_, err = UnitValue{1, WattHour}.Subtract(UnitValue{2, CubicMetre})
	assert.ErrorIs(t, err, ErrDataMisalignment)
	assert.Contains(t, err.Error(), "incompatible units")
}

func TestRegisterReadingSubtract(t *testing.T) {
	base := reading("Dev1", t0, 100, WattHour)
	cur := reading("dev1", t0.Add(time.Hour), 150.5, WattHour)

	diff, err := cur.Subtract(base)
	require.NoError(t, err)
	assert.InDelta(t, 50.5, diff.Value.Value, 1e-9)
	assert.Equal(t, cur.Timestamp, diff.Timestamp)
	assert.Equal(t, "dev1", diff.DeviceID)
}

func TestRegisterReadingSubtractMismatch(t *testing.T) {
	base := reading("dev1", t0, 100, WattHour)

	_, err := reading("dev2", t0, 150, WattHour).Subtract(base)
	assert.ErrorIs(t, err, ErrDataMisalignment)

	_, err = reading("dev1", t0, 150, CubicMetre).Subtract(base)
	assert.ErrorIs(t, err, ErrDataMisalignment)
}

func TestRegisterReadingSubtractWrap(t *testing.T) {
	tests := []struct {
		name       string
		base, cur  float64
		want       float64
		misaligned bool
	}{
		{name: "positive", base: 1000, cur: 1200, want: 200},
		{name: "equal", base: 1000, cur: 1000, want: 0},
		{name: "quirk just below 5%", base: 1000, cur: 501, want: 0},
		{name: "exactly 5% is not a quirk", base: 1000, cur: 500, misaligned: true},
		{name: "exactly 75% is not a wrap", base: 9000, cur: 1500, misaligned: true},
		{name: "wrap just above 75%", base: 9000, cur: 1499, want: 2499},
		{name: "wrap", base: 99990, cur: 10, want: 20},
		{name: "small register quirk", base: 5, cur: 4.9, want: 0},
		{name: "middle", base: 5000, cur: 2000, misaligned: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, err := reading("d", t0, tt.cur, WattHour).Subtract(reading("d", t0, tt.base, WattHour))
			if tt.misaligned {
				assert.ErrorIs(t, err, ErrDataMisalignment)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, diff.Value.Value, 1e-9)
		})
	}
}

func TestRegisterReadingSubtractIsPlainDifferenceWhenGrowing(t *testing.T) {
	for _, pair := range [][2]float64{{0, 0}, {1, 0.5}, {123456.789, 23.4}, {1e9, 1}} {
		diff, err := reading("d", t0, pair[0], Joule).Subtract(reading("D", t0, pair[1], Joule))
		require.NoError(t, err)
		assert.Equal(t, pair[0]-pair[1], diff.Value.Value)
	}
}

func TestDecimalDigits(t *testing.T) {
	assert.Equal(t, 1, decimalDigits(0))
	assert.Equal(t, 1, decimalDigits(9.99))
	assert.Equal(t, 2, decimalDigits(10))
	assert.Equal(t, 4, decimalDigits(1000))
	assert.Equal(t, 3, decimalDigits(-123.4))
}

func TestNewRegisterReadingValidates(t *testing.T) {
	_, err := NewRegisterReading("", t0, UnitValue{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewRegisterReading("d", t0.In(time.FixedZone("x", 3600)), UnitValue{})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNormalizedReadingSubtract(t *testing.T) {
	base := NormalizedReading{Reading: reading("dev", t0.Add(2*time.Minute), 1000, WattHour), NormalizedTimestamp: t0}
	cur := NormalizedReading{Reading: reading("DEV", t0.Add(61*time.Minute), 1300, WattHour), NormalizedTimestamp: t0.Add(time.Hour)}

	v, err := cur.SubtractAccommodateWrap(base)
	require.NoError(t, err)
	assert.Equal(t, base.Reading.Timestamp, v.Start)
	assert.Equal(t, cur.Reading.Timestamp, v.End)
	assert.Equal(t, t0, v.NormalizedStart)
	assert.Equal(t, t0.Add(time.Hour), v.NormalizedEnd)
	assert.Equal(t, 300.0, v.Value.Value)
	assert.Equal(t, []string{"DEV"}, v.DeviceIDs)

	other := NormalizedReading{Reading: reading("other", t0.Add(time.Hour), 900, WattHour), NormalizedTimestamp: t0.Add(time.Hour)}
	_, err = other.SubtractAccommodateWrap(base)
	assert.ErrorIs(t, err, ErrDataMisalignment)

	clamped, err := other.SubtractNotNegative(base)
	require.NoError(t, err)
	assert.Equal(t, 0.0, clamped.Value.Value)
	assert.Equal(t, []string{"dev", "other"}, clamped.DeviceIDs)
}
