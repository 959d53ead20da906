package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"powerview/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const tariffFile = `
cost_breakdowns:
  - title: Grid
    currency: DKK
    vat: 25
    entries:
      - name: Low load
        from_date: 2024-01-01
        to_date: 2025-01-01
        start_hour: 0
        end_hour: 16
        amount: 0.15
      - name: Peak
        from_date: 2024-01-01
        to_date: 2025-01-01
        start_hour: 17
        end_hour: 20
        amount: 0.45
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tariffs/grid.yaml", tariffFile)
	cfgPath := writeFile(t, dir, "powerview.yaml", `
timezone: Europe/Copenhagen
interval: 60-minutes
cost_breakdown_files:
  - tariffs/grid.yaml
generator_series:
  - cost_breakdown: Grid
    code: 0.1.1.0.0.255
    base_code: 0.0.1.0.0.255
    target_label: costs
api:
  cache_ttl: 30m
`)

	c, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Copenhagen", c.Timezone)
	assert.Equal(t, 30*time.Minute, c.API.CacheTTL)
	assert.Equal(t, "8080", c.API.Port)
	assert.False(t, c.Influx.Enabled())

	bindings, err := c.Bindings()
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	b := bindings[0]
	assert.Equal(t, "Grid", b.CostBreakdown.Title)
	assert.Equal(t, model.Dkk, b.CostBreakdown.Currency)
	assert.Equal(t, 25, b.CostBreakdown.Vat)
	assert.Len(t, b.CostBreakdown.Entries, 2)
	assert.Equal(t, model.MustParseMetricCode("0.0.1.0.0.255"), b.Series.BaseCode)
	assert.Equal(t, "costs", b.Target("home"))
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "c.yaml", "influx:\n  url: http://localhost:8086\n  bucket: meters\n")
	c, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "UTC", c.Timezone)
	assert.Equal(t, "60-minutes", c.Interval)
	assert.True(t, c.Influx.Enabled())
	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name, yaml string
	}{
		{"bad interval", "interval: 2-hours\n"},
		{"negative cache ttl", "api:\n  cache_ttl: -5m\n"},
		{"tiny cache ttl", "api:\n  cache_ttl: 3ns\n"},
		{"bad timezone", "timezone: Nowhere/City\n"},
		{"unknown breakdown", "generator_series:\n  - cost_breakdown: Missing\n    code: 0.1.1.0.0.255\n    base_code: 0.0.1.0.0.255\n"},
		{"bad vat", "cost_breakdowns:\n  - title: T\n    currency: EUR\n    vat: 120\n"},
		{"bad currency", "cost_breakdowns:\n  - title: T\n    currency: Wh\n"},
		{"bad date", "cost_breakdowns:\n  - title: T\n    currency: EUR\n    entries:\n      - name: x\n        from_date: 01-01-2024\n        to_date: 2025-01-01\n        end_hour: 23\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), "c.yaml", tt.yaml))
			assert.Error(t, err)
		})
	}

	var c *Config
	assert.Error(t, c.Validate())
}

func TestLoadRejectsBadMetricCode(t *testing.T) {
	_, err := LoadUnchecked(writeFile(t, t.TempDir(), "c.yaml", "generator_series:\n  - code: 1.2.3\n"))
	assert.Error(t, err)
}

func TestMergeCostBreakdowns(t *testing.T) {
	zero, twentyFive := 0, 25
	base := []CostBreakdownConfig{
		{Title: "Grid", Currency: model.Dkk, Vat: &twentyFive, Entries: []EntryConfig{{Name: "a"}}},
		{Title: "Spot", Currency: model.Eur},
	}
	override := []CostBreakdownConfig{
		{Title: "Grid", Vat: &zero},
		{Title: "New", Currency: model.Eur},
	}
	got := MergeCostBreakdowns(base, override)
	require.Len(t, got, 3)
	assert.Equal(t, model.Dkk, got[0].Currency)
	assert.Equal(t, 0, *got[0].Vat)
	assert.Equal(t, []EntryConfig{{Name: "a"}}, got[0].Entries)
	assert.Equal(t, "New", got[2].Title)
	assert.Equal(t, 25, *base[0].Vat, "base is not modified")
}
