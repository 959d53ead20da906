package model

import "time"

// ReadingsDocument matches the JSON shape of a readings export.
//
// Example:
//
//	{
//	  "start": "2024-01-01T00:00:00Z",
//	  "end": "2024-01-02T00:00:00Z",
//	  "readings": [ ... ]
//	}
type ReadingsDocument struct {
	Start    time.Time    `json:"start"`
	End      time.Time    `json:"end"`
	Readings []ReadingRow `json:"readings"`
}

// ReadingRow is one register sample in a ReadingsDocument. Value is an integer
// register count scaled by 10^Scale, as meters report it.
type ReadingRow struct {
	Label     string     `json:"label"`
	DeviceID  string     `json:"device_id"`
	Timestamp time.Time  `json:"timestamp"`
	Code      MetricCode `json:"obis_code"`
	Value     float64    `json:"value"`
	Scale     int        `json:"scale"`
	Unit      Unit       `json:"unit"`
}

// Reading converts the row, normalizing its timestamp to UTC.
func (r ReadingRow) Reading() (RegisterReading, error) {
	return NewRegisterReading(r.DeviceID, r.Timestamp.UTC(), NewUnitValue(r.Value, r.Scale, r.Unit))
}
