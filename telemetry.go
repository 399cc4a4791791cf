package solarsync

import "time"

// Event severities as delivered by the backend.
const (
	SeverityInfo     = "info"
	SeveritySuccess  = "success"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Timestamp layouts the backend is known to emit. The first is RFC3339;
// the rest cover ISO strings without zone or fractional seconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a backend timestamp string. ok is false when none
// of the known layouts match; callers are expected to fall back to the raw
// value rather than fail.
func ParseTimestamp(s string) (t time.Time, ok bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TelemetrySample is one point-in-time snapshot of the solar system.
// Immutable once received; identified only by its timestamp.
type TelemetrySample struct {
	Timestamp               string  `json:"timestamp"`
	SolarPowerW             int     `json:"solar_power_w"`             // W
	BatteryPowerW           int     `json:"battery_power_w"`           // W, positive = charging
	BatterySOCPercent       float64 `json:"battery_soc_percent"`       // 0–100
	BatteryVoltageV         float64 `json:"battery_voltage_v"`         // V
	LoadPowerW              int     `json:"load_power_w"`              // W
	GridPowerW              int     `json:"grid_power_w"`              // W, positive = import
	InverterTempC           float64 `json:"inverter_temp_c"`           // °C
	SystemEfficiencyPercent float64 `json:"system_efficiency_percent"` // 0–100
	DailyEnergyKWh          float64 `json:"daily_energy_kwh"`          // cumulative for the day
}

// Time parses the sample's timestamp; ok is false for malformed values.
func (s TelemetrySample) Time() (time.Time, bool) {
	return ParseTimestamp(s.Timestamp)
}

// SystemEvent is a backend-originated notification.
type SystemEvent struct {
	EventID   string `json:"event_id,omitempty"`
	Timestamp string `json:"timestamp"`
	Severity  string `json:"severity"` // info | success | warning | error | critical
	Message   string `json:"message"`
	Source    string `json:"source,omitempty"` // e.g. "system", "device", "user"
}

// ChartDataset is a historical slice of telemetry formatted for chart
// rebuilds. All slices are parallel and ordered by timestamp.
type ChartDataset struct {
	Timestamps   []string  `json:"timestamps"`
	SolarPower   []float64 `json:"solar_power"`
	BatteryPower []float64 `json:"battery_power"`
	LoadPower    []float64 `json:"load_power"`
	GridPower    []float64 `json:"grid_power"`
	BatterySOC   []float64 `json:"battery_soc"`
}
