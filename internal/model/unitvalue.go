package model

import "math"

// UnitValue is a scaled number tagged with a unit.
type UnitValue struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// NewUnitValue returns value * 10^scale in unit. Meters report integers with a
// decimal scale, e.g. (12345, -3, WattHour) is 12.345 Wh.
func NewUnitValue(value float64, scale int, unit Unit) UnitValue {
	if scale != 0 {
		value *= math.Pow10(scale)
	}
	return UnitValue{Value: value, Unit: unit}
}

func (uv UnitValue) Add(other UnitValue) (UnitValue, error) {
	if uv.Unit != other.Unit {
		return UnitValue{}, incompatibleUnits(uv.Unit, other.Unit)
	}
	return UnitValue{Value: uv.Value + other.Value, Unit: uv.Unit}, nil
}

func (uv UnitValue) Subtract(other UnitValue) (UnitValue, error) {
	if uv.Unit != other.Unit {
		return UnitValue{}, incompatibleUnits(uv.Unit, other.Unit)
	}
	return UnitValue{Value: uv.Value - other.Value, Unit: uv.Unit}, nil
}

func incompatibleUnits(a, b Unit) error {
	return dataMisalignment("incompatible units %s and %s", a, b)
}
