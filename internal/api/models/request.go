package models

import (
	"time"

	"powerview/internal/model"
)

// PrepareRequest represents the request body for preparing interval series
type PrepareRequest struct {
	Timezone string             `json:"timezone,omitempty"` // default: server config
	Interval string             `json:"interval,omitempty"` // default: server config
	Start    time.Time          `json:"start" binding:"required"`
	End      time.Time          `json:"end" binding:"required"`
	Readings []model.ReadingRow `json:"readings" binding:"required"`
	Options  PrepareOptions     `json:"options,omitempty"`
}

// PrepareOptions contains optional prepare parameters
type PrepareOptions struct {
	IncludeNormalized bool `json:"include_normalized,omitempty"` // default: false
}

// LeakRequest asks for the leak characteristic of a delta series of a prepared result
type LeakRequest struct {
	ID    string           `json:"id" binding:"required"`
	Label string           `json:"label" binding:"required"`
	Code  model.MetricCode `json:"obis_code"`
	From  time.Time        `json:"from" binding:"required"`
	To    time.Time        `json:"to" binding:"required"`
}
