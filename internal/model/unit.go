package model

import (
	"strconv"
	"strings"
)

// Unit is the physical (or monetary) unit of a value.
// Keep the names stable; they appear in CSV, JSON and YAML.
type Unit int

const (
	NoUnit Unit = iota
	Watt
	WattHour
	CubicMetre
	CubicMetrePrHour
	DegreeCelsius
	Joule
	Percentage
	Eur
	Dkk
)

var unitNames = map[Unit]string{
	NoUnit:           "NoUnit",
	Watt:             "W",
	WattHour:         "Wh",
	CubicMetre:       "m3",
	CubicMetrePrHour: "m3/h",
	DegreeCelsius:    "C",
	Joule:            "J",
	Percentage:       "%",
	Eur:              "EUR",
	Dkk:              "DKK",
}

func (u Unit) String() string {
	if s, ok := unitNames[u]; ok {
		return s
	}
	return "Unit(" + strconv.Itoa(int(u)) + ")"
}

// ParseUnit accepts the names produced by String, case-insensitively.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	for u, name := range unitNames {
		if strings.EqualFold(name, s) {
			return u, nil
		}
	}
	return NoUnit, invalidArgument("unknown unit %q", s)
}

func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// IsCurrency reports whether the unit is one of the supported billing currencies.
func (u Unit) IsCurrency() bool {
	return u == Eur || u == Dkk
}
