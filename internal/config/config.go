package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"powerview/internal/costbreakdown"
	"powerview/internal/interval"
	"powerview/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Timezone string `yaml:"timezone"`
	Interval string `yaml:"interval"`

	// Optional: load cost breakdowns from separate YAML files (e.g. tariffs/*.yaml).
	// Inline cost breakdowns with the same title override fields from the files.
	CostBreakdownFiles []string              `yaml:"cost_breakdown_files"`
	CostBreakdowns     []CostBreakdownConfig `yaml:"cost_breakdowns"`
	GeneratorSeries    []GeneratorConfig     `yaml:"generator_series"`

	Influx InfluxConfig `yaml:"influx"`
	API    APIConfig    `yaml:"api"`
}

type CostBreakdownConfig struct {
	Title    string        `yaml:"title"`
	Currency model.Unit    `yaml:"currency"`
	Vat      *int          `yaml:"vat"`
	Entries  []EntryConfig `yaml:"entries"`
}

// EntryConfig dates are YYYY-MM-DD, interpreted as UTC midnight.
type EntryConfig struct {
	Name      string  `yaml:"name"`
	FromDate  string  `yaml:"from_date"`
	ToDate    string  `yaml:"to_date"`
	StartHour int     `yaml:"start_hour"`
	EndHour   int     `yaml:"end_hour"`
	Amount    float64 `yaml:"amount"`
}

// GeneratorConfig binds a cost breakdown (by title) to the series it prices.
type GeneratorConfig struct {
	CostBreakdown string           `yaml:"cost_breakdown"`
	Code          model.MetricCode `yaml:"code"`
	BaseCode      model.MetricCode `yaml:"base_code"`
	Label         string           `yaml:"label"`
	TargetLabel   string           `yaml:"target_label"`
}

type InfluxConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// Enabled reports whether enough is configured to write to InfluxDB.
func (c InfluxConfig) Enabled() bool {
	return c.URL != "" && c.Bucket != ""
}

type APIConfig struct {
	Port     string        `yaml:"port"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	var loaded []CostBreakdownConfig
	for _, f := range c.CostBreakdownFiles {
		cbs, err := loadCostBreakdownFile(resolvePath(path, f))
		if err != nil {
			return nil, fmt.Errorf("cost breakdown file %s: %w", f, err)
		}
		loaded = append(loaded, cbs...)
	}
	c.CostBreakdowns = MergeCostBreakdowns(loaded, c.CostBreakdowns)
	return &c, nil
}

// resolvePath prefers paths relative to the config file directory, but falls back
// to the provided path (relative to cwd) if that doesn't exist.
func resolvePath(configPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(filepath.Dir(configPath), p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

// ApplyDefaults fills the timezone (UTC), interval (60-minutes), API port and cache TTL.
func (c *Config) ApplyDefaults() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.Interval == "" {
		c.Interval = interval.SixtyMinutes
	}
	if c.API.Port == "" {
		c.API.Port = "8080"
	}
	if c.API.CacheTTL == 0 {
		c.API.CacheTTL = time.Hour
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("timezone invalid: %w", err)
	}
	if !interval.Valid(c.Interval) {
		return fmt.Errorf("interval %q is not one of %s", c.Interval, strings.Join(interval.Names(), ", "))
	}
	if c.API.CacheTTL < time.Second {
		return fmt.Errorf("api.cache_ttl must be at least 1s, got %s", c.API.CacheTTL)
	}
	if _, err := c.Bindings(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CostBreakdown builds and validates the model of one configured cost breakdown.
func (cb CostBreakdownConfig) CostBreakdown() (*costbreakdown.CostBreakdown, error) {
	entries := make([]costbreakdown.Entry, 0, len(cb.Entries))
	for _, e := range cb.Entries {
		from, err := parseDate(e.FromDate)
		if err != nil {
			return nil, fmt.Errorf("cost breakdown %q entry %q from_date: %w", cb.Title, e.Name, err)
		}
		to, err := parseDate(e.ToDate)
		if err != nil {
			return nil, fmt.Errorf("cost breakdown %q entry %q to_date: %w", cb.Title, e.Name, err)
		}
		entry, err := costbreakdown.NewEntry(from, to, e.Name, e.StartHour, e.EndHour, e.Amount)
		if err != nil {
			return nil, fmt.Errorf("cost breakdown %q: %w", cb.Title, err)
		}
		entries = append(entries, entry)
	}
	vat := 0
	if cb.Vat != nil {
		vat = *cb.Vat
	}
	return costbreakdown.New(cb.Title, cb.Currency, vat, entries)
}

// Bindings resolves generator_series against cost_breakdowns by title.
func (c *Config) Bindings() ([]costbreakdown.Binding, error) {
	byTitle := map[string]*costbreakdown.CostBreakdown{}
	for _, cfg := range c.CostBreakdowns {
		cb, err := cfg.CostBreakdown()
		if err != nil {
			return nil, fmt.Errorf("cost breakdown config invalid: %w", err)
		}
		byTitle[cb.Title] = cb
	}
	out := make([]costbreakdown.Binding, 0, len(c.GeneratorSeries))
	for _, g := range c.GeneratorSeries {
		cb, ok := byTitle[g.CostBreakdown]
		if !ok {
			return nil, fmt.Errorf("generator series %s: unknown cost breakdown %q", g.Code, g.CostBreakdown)
		}
		out = append(out, costbreakdown.Binding{
			CostBreakdown: cb,
			Series:        costbreakdown.GeneratorSeries{Code: g.Code, BaseCode: g.BaseCode},
			Label:         g.Label,
			TargetLabel:   g.TargetLabel,
		})
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
}

type costBreakdownFileWrapper struct {
	CostBreakdowns []CostBreakdownConfig `yaml:"cost_breakdowns"`
}

func loadCostBreakdownFile(path string) ([]CostBreakdownConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w costBreakdownFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return w.CostBreakdowns, nil
}

// MergeCostBreakdowns overlays override onto base by title. Non-zero fields of an
// override replace those of the base entry with the same title; new titles are appended.
func MergeCostBreakdowns(base, override []CostBreakdownConfig) []CostBreakdownConfig {
	out := append([]CostBreakdownConfig(nil), base...)
	for _, o := range override {
		idx := -1
		for i := range out {
			if out[i].Title == o.Title {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, o)
			continue
		}
		m := out[idx]
		if o.Currency != model.NoUnit {
			m.Currency = o.Currency
		}
		// Vat is a pointer so an explicit 0 overrides.
		if o.Vat != nil {
			m.Vat = o.Vat
		}
		if len(o.Entries) > 0 {
			m.Entries = o.Entries
		}
		out[idx] = m
	}
	return out
}
