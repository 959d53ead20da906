package model

// Well-known metric codes.
var (
	ElectrActualPowerP14       = MustParseMetricCode("1.0.1.7.0.255")
	ElectrActualPowerP23       = MustParseMetricCode("1.0.2.7.0.255")
	ElectrActualPowerP14L1     = MustParseMetricCode("1.0.21.7.0.255")
	ElectrActualPowerP14L2     = MustParseMetricCode("1.0.41.7.0.255")
	ElectrActualPowerP14L3     = MustParseMetricCode("1.0.61.7.0.255")
	ElectrActiveEnergyA14      = MustParseMetricCode("1.0.1.8.0.255")
	ElectrActiveEnergyA23      = MustParseMetricCode("1.0.2.8.0.255")
	ElectrActiveEnergyA14Delta = ElectrActiveEnergyA14.ToDelta()
	ElectrActiveEnergyA23Delta = ElectrActiveEnergyA23.ToDelta()

	// Net deltas between import and export.
	ElectrActiveEnergyA14NetDelta = MustParseMetricCode("1.65.16.8.0.255")
	ElectrActiveEnergyA23NetDelta = MustParseMetricCode("1.65.17.8.0.255")

	ElectrActualPowerP14Average = MustParseMetricCode("1.67.1.7.0.255")
	ElectrActualPowerP23Average = MustParseMetricCode("1.67.2.7.0.255")

	ColdWaterVolume1      = MustParseMetricCode("8.0.1.0.0.255")
	ColdWaterFlow1        = MustParseMetricCode("8.0.2.0.0.255")
	ColdWaterFlow1Average = MustParseMetricCode("8.67.2.0.0.255")
	ColdWaterVolume1Delta = ColdWaterVolume1.ToDelta()
	HotWaterVolume1       = MustParseMetricCode("9.0.1.0.0.255")
	HotWaterFlow1         = MustParseMetricCode("9.0.2.0.0.255")
	HotWaterFlow1Average  = MustParseMetricCode("9.67.2.0.0.255")
	HotWaterVolume1Delta  = HotWaterVolume1.ToDelta()

	HeatEnergyEnergy1           = MustParseMetricCode("6.0.1.0.0.255")
	HeatEnergyVolume1           = MustParseMetricCode("6.0.2.0.0.255")
	HeatEnergyPower1            = MustParseMetricCode("6.0.8.0.0.255")
	HeatEnergyFlow1             = MustParseMetricCode("6.0.9.0.0.255")
	HeatEnergyFlowTemperature   = MustParseMetricCode("6.0.10.0.0.255")
	HeatEnergyReturnTemperature = MustParseMetricCode("6.0.11.0.0.255")
	HeatEnergyPower1Average     = MustParseMetricCode("6.67.8.0.0.255")
	HeatEnergyFlow1Average      = MustParseMetricCode("6.67.9.0.0.255")

	RoomTemperature           = MustParseMetricCode("15.0.223.0.0.255")
	RoomRelativeHumidity      = MustParseMetricCode("15.0.223.0.2.255")
	ConsumerDisconnectControl = MustParseMetricCode("0.0.96.3.10.255")
)

var averageCompanions = map[MetricCode]MetricCode{
	ElectrActiveEnergyA14: ElectrActualPowerP14Average,
	ElectrActiveEnergyA23: ElectrActualPowerP23Average,
	ColdWaterVolume1:      ColdWaterFlow1Average,
	HotWaterVolume1:       HotWaterFlow1Average,
	HeatEnergyEnergy1:     HeatEnergyPower1Average,
	HeatEnergyVolume1:     HeatEnergyFlow1Average,
}

// AverageCompanion returns the rate code derived from a cumulative register, if the
// register family has one.
func AverageCompanion(cumulative MetricCode) (MetricCode, bool) {
	mc, ok := averageCompanions[cumulative]
	return mc, ok
}
