package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelSeriesValidation(t *testing.T) {
	_, err := NewLabelSeries("", map[MetricCode][]RegisterReading{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewLabelSeries[RegisterReading]("l", nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewLabelSeries("l", map[MetricCode][]RegisterReading{ElectrActiveEnergyA14: nil})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLabelSeriesOrdersValues(t *testing.T) {
	r1 := reading("d", t0.Add(2*time.Hour), 3, WattHour)
	r2 := reading("d", t0, 1, WattHour)
	r3 := reading("d", t0.Add(time.Hour), 2, WattHour)

	ls, err := NewLabelSeries("main", map[MetricCode][]RegisterReading{ElectrActiveEnergyA14: {r1, r2}})
	require.NoError(t, err)
	assert.Equal(t, []RegisterReading{r2, r1}, ls.Values(ElectrActiveEnergyA14))

	require.NoError(t, ls.Add(map[MetricCode][]RegisterReading{ElectrActiveEnergyA14: {r3}}))
	assert.Equal(t, []RegisterReading{r2, r3, r1}, ls.Values(ElectrActiveEnergyA14))

	missing := ls.Values(ColdWaterVolume1)
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestLabelSeriesCumulativeSplit(t *testing.T) {
	ls, err := NewLabelSeries("main", map[MetricCode][]RegisterReading{
		ElectrActiveEnergyA14: {reading("d", t0, 1, WattHour)},
		ElectrActualPowerP14:  {reading("d", t0, 1, Watt)},
		ColdWaterVolume1:      {reading("d", t0, 1, CubicMetre)},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []MetricCode{ElectrActiveEnergyA14, ColdWaterVolume1}, ls.Cumulative().MetricCodes())
	assert.Equal(t, []MetricCode{ElectrActualPowerP14}, ls.NonCumulative().MetricCodes())
	assert.Equal(t, "main", ls.Cumulative().Label())
	assert.Len(t, ls.MetricCodes(), 3)
}

func TestLabelSeriesSet(t *testing.T) {
	_, err := NewLabelSeriesSet[RegisterReading](t0.Add(time.Hour), t0)
	assert.ErrorIs(t, err, ErrOutOfRange)

	a, err := NewLabelSeries("a", map[MetricCode][]RegisterReading{ElectrActiveEnergyA14: {reading("d", t0, 1, WattHour)}})
	require.NoError(t, err)
	b, err := NewLabelSeries("b", map[MetricCode][]RegisterReading{})
	require.NoError(t, err)
	a2, err := NewLabelSeries("a", map[MetricCode][]RegisterReading{ColdWaterVolume1: {reading("d", t0, 1, CubicMetre)}})
	require.NoError(t, err)

	set, err := NewLabelSeriesSet(t0, t0.Add(24*time.Hour), a, b, a2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, set.Labels())
	assert.Len(t, set.Get("a").MetricCodes(), 2)
	assert.Nil(t, set.Get("c"))
}
