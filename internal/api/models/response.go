package models

import (
	"time"

	"powerview/internal/intervalgroup"
	"powerview/internal/model"
)

// PrepareResponse represents a prepared set of interval series
type PrepareResponse struct {
	ID              string                  `json:"id,omitempty"`
	Interval        string                  `json:"interval"`
	Timezone        string                  `json:"timezone"`
	Categories      []time.Time             `json:"categories"`
	LocalCategories []time.Time             `json:"local_categories"`
	Series          []SeriesResponse        `json:"series"`
	Normalized      []NormalizedResponse    `json:"normalized,omitempty"`
	Skipped         []intervalgroup.Skipped `json:"skipped"`
}

// SeriesResponse is one derived series of one label
type SeriesResponse struct {
	Label  string                          `json:"label"`
	Code   model.MetricCode                `json:"obis_code"`
	Values []model.NormalizedDurationValue `json:"values"`
}

// NormalizedResponse is one normalized register column of one label
type NormalizedResponse struct {
	Label  string                    `json:"label"`
	Code   model.MetricCode          `json:"obis_code"`
	Values []model.NormalizedReading `json:"values"`
}

// LeakResponse carries the leak characteristic; Value is null when undecidable
type LeakResponse struct {
	Label   string           `json:"label"`
	Code    model.MetricCode `json:"obis_code"`
	Verdict string           `json:"verdict"` // "LEAK", "NO_LEAK", "INSUFFICIENT_DATA"
	Value   *model.UnitValue `json:"value"`
}

// GeneratorInfo describes a generator run during preparation
type GeneratorInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CostBindingInfo describes a configured cost breakdown binding
type CostBindingInfo struct {
	Title       string           `json:"title"`
	Currency    model.Unit       `json:"currency"`
	Vat         int              `json:"vat"`
	Code        model.MetricCode `json:"obis_code"`
	BaseCode    model.MetricCode `json:"base_obis_code"`
	Label       string           `json:"label,omitempty"`
	TargetLabel string           `json:"target_label,omitempty"`
	Entries     int              `json:"entries"`
}

// CapabilitiesResponse lists what the server can prepare
type CapabilitiesResponse struct {
	Intervals  []string          `json:"intervals"`
	Generators []GeneratorInfo   `json:"generators"`
	Bindings   []CostBindingInfo `json:"cost_bindings"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
