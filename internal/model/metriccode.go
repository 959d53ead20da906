package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MetricCode identifies a register on a meter as six bytes a.b.c.d.e.f (OBIS layout).
//
// Byte b in 65..127 is reserved for utility specific codes. This package uses
// three of those values to tag derived series: 65 delta, 66 period, 67 average.
type MetricCode [6]byte

const (
	deltaB   byte = 65
	periodB  byte = 66
	averageB byte = 67

	utilitySpecificMin byte = 65
	utilitySpecificMax byte = 127
)

// ParseMetricCode parses the dotted form "1.0.1.8.0.255".
func ParseMetricCode(s string) (MetricCode, error) {
	var mc MetricCode
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != len(mc) {
		return mc, invalidArgument("metric code %q must have 6 dot separated fields", s)
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return mc, invalidArgument("metric code %q field %d: %v", s, i, err)
		}
		mc[i] = byte(n)
	}
	return mc, nil
}

// MustParseMetricCode is ParseMetricCode for package level constants.
func MustParseMetricCode(s string) MetricCode {
	mc, err := ParseMetricCode(s)
	if err != nil {
		panic(err)
	}
	return mc
}

// MetricCodeFromInt64 unpacks the low 48 bits of v, big-endian a..f.
func MetricCodeFromInt64(v int64) MetricCode {
	var mc MetricCode
	for i := len(mc) - 1; i >= 0; i-- {
		mc[i] = byte(v)
		v >>= 8
	}
	return mc
}

// Int64 packs the code into 48 bits, big-endian a..f.
func (mc MetricCode) Int64() int64 {
	var v int64
	for _, b := range mc {
		v = v<<8 | int64(b)
	}
	return v
}

func (mc MetricCode) String() string {
	return fmt.Sprintf("%d.%d.%d.%d.%d.%d", mc[0], mc[1], mc[2], mc[3], mc[4], mc[5])
}

func (mc MetricCode) MarshalText() ([]byte, error) {
	return []byte(mc.String()), nil
}

func (mc *MetricCode) UnmarshalText(text []byte) error {
	parsed, err := ParseMetricCode(string(text))
	if err != nil {
		return err
	}
	*mc = parsed
	return nil
}

func (mc MetricCode) IsDelta() bool   { return mc[1] == deltaB }
func (mc MetricCode) IsPeriod() bool  { return mc[1] == periodB }
func (mc MetricCode) IsAverage() bool { return mc[1] == averageB }

func (mc MetricCode) IsUtilitySpecific() bool {
	return mc[1] >= utilitySpecificMin && mc[1] <= utilitySpecificMax
}

// IsCumulative reports whether the code is an odometer style register that only grows.
func (mc MetricCode) IsCumulative() bool {
	return mc.IsElectricityCumulative() || mc.IsWaterCumulative() || mc.IsEnergyCumulative()
}

// IsElectricityImport matches 1.x.1.8.x.255 (active energy A+).
func (mc MetricCode) IsElectricityImport() bool {
	return mc.isElectricityEnergy() && mc[2] == 1
}

// IsElectricityExport matches 1.x.2.8.x.255 (active energy A-).
func (mc MetricCode) IsElectricityExport() bool {
	return mc.isElectricityEnergy() && mc[2] == 2
}

func (mc MetricCode) IsElectricityCumulative() bool {
	return !mc.IsUtilitySpecific() && (mc.IsElectricityImport() || mc.IsElectricityExport())
}

func (mc MetricCode) isElectricityEnergy() bool {
	return mc[0] == 1 && mc[3] == 8 && mc[5] == 255
}

// IsWaterImport matches cold (8) and hot (9) water volume registers x.x.1.0.x.255.
func (mc MetricCode) IsWaterImport() bool {
	return (mc[0] == 8 || mc[0] == 9) && mc[2] == 1 && mc[3] == 0 && mc[5] == 255
}

func (mc MetricCode) IsWaterCumulative() bool {
	return !mc.IsUtilitySpecific() && mc.IsWaterImport()
}

// IsEnergyImport matches the heat meter energy register 6.x.1.0.x.255.
func (mc MetricCode) IsEnergyImport() bool {
	return mc[0] == 6 && mc[2] == 1 && mc[3] == 0 && mc[5] == 255
}

// IsEnergyCumulative matches the heat meter energy (c=1) and volume (c=2) registers.
func (mc MetricCode) IsEnergyCumulative() bool {
	return !mc.IsUtilitySpecific() && mc[0] == 6 && (mc[2] == 1 || mc[2] == 2) && mc[3] == 0 && mc[5] == 255
}

// IsDisconnectControl matches the consumer disconnect control object 0.x.96.3.10.255.
func (mc MetricCode) IsDisconnectControl() bool {
	return mc[0] == 0 && mc[2] == 96 && mc[3] == 3 && mc[4] == 10 && mc[5] == 255
}

func (mc MetricCode) ToDelta() MetricCode   { return mc.withB(deltaB) }
func (mc MetricCode) ToPeriod() MetricCode  { return mc.withB(periodB) }
func (mc MetricCode) ToAverage() MetricCode { return mc.withB(averageB) }

func (mc MetricCode) withB(b byte) MetricCode {
	mc[1] = b
	return mc
}

// Less orders codes by their packed integer value.
func (mc MetricCode) Less(other MetricCode) bool {
	return mc.Int64() < other.Int64()
}
