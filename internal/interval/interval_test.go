package interval

import (
	"testing"
	"time"

	"powerview/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("tzdata for %s unavailable: %v", name, err)
	}
	return loc
}

func TestResolveRejectsUnknown(t *testing.T) {
	_, err := Resolve("7-minutes", time.UTC)
	assert.ErrorIs(t, err, model.ErrOutOfRange)

	_, err = Resolve(SixtyMinutes, nil)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	for _, name := range Names() {
		assert.True(t, Valid(name), name)
		_, err := Resolve(name, time.UTC)
		assert.NoError(t, err, name)
	}
}

func TestMinuteDivider(t *testing.T) {
	f, err := Resolve(FifteenMinutes, time.UTC)
	require.NoError(t, err)

	ts := time.Date(2024, 1, 1, 10, 29, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC), f.Divider(ts))
	assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), f.Next(f.Divider(ts)))
}

func TestHourDividerFollowsLocalOffset(t *testing.T) {
	loc := mustLoad(t, "Asia/Kolkata")
	f, err := Resolve(SixtyMinutes, loc)
	require.NoError(t, err)

	ts := time.Date(2024, 1, 1, 10, 10, 0, 0, time.UTC) // 15:40 local
	got := f.Divider(ts)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestDayCategoriesAcrossDST(t *testing.T) {
	loc := mustLoad(t, "Europe/Copenhagen")
	f, err := Resolve(Day, loc)
	require.NoError(t, err)

	start := time.Date(2024, 3, 29, 23, 0, 0, 0, time.UTC) // local midnight 30 Mar
	end := time.Date(2024, 4, 1, 22, 0, 0, 0, time.UTC)
	cats := Categories(start, end, f.Next)
	assert.Equal(t, []time.Time{
		start,
		time.Date(2024, 3, 30, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 22, 0, 0, 0, time.UTC),
	}, cats)

	assert.Equal(t, time.Date(2024, 3, 30, 23, 0, 0, 0, time.UTC), f.Divider(time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)))
}

func TestHourCategoriesAcrossDSTAreUniform(t *testing.T) {
	loc := mustLoad(t, "Europe/Copenhagen")
	f, err := Resolve(SixtyMinutes, loc)
	require.NoError(t, err)

	start := time.Date(2024, 3, 30, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 22, 0, 0, 0, time.UTC)
	assert.Len(t, Categories(start, end, f.Next), 23)
}

func TestMonthDivider(t *testing.T) {
	loc := mustLoad(t, "Europe/Copenhagen")
	f, err := Resolve(Month, loc)
	require.NoError(t, err)

	ts := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)
	first := f.Divider(ts)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC), f.Next(first))
}
