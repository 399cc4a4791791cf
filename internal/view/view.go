// Package view abstracts the rendering surface the dashboard controller
// writes to. Targets mirror the element identifiers of the original web
// UI; a renderer that does not bind a target simply skips updates for it.
package view

// Metric and indicator targets the controller writes to.
const (
	TargetSolarPower       = "solar-power"
	TargetBatteryPower     = "battery-power"
	TargetBatterySOC       = "battery-soc"
	TargetBatteryVoltage   = "battery-voltage"
	TargetBatteryState     = "battery-state"
	TargetLoadPower        = "load-power"
	TargetGridPower        = "grid-power"
	TargetInverterTemp     = "inverter-temp"
	TargetEfficiency       = "system-efficiency"
	TargetDailyEnergy      = "daily-energy"
	TargetConnectionStatus = "connection-status"
)

// Toast is a transient, auto-dismissing notification.
type Toast struct {
	ID       string
	Severity string
	Message  string
}

// EventEntry is one rendered row of the rolling event log.
type EventEntry struct {
	Icon      string
	Class     string
	Timestamp string
	Message   string
}

// View is the rendering contract. Implementations must tolerate updates
// for targets they do not bind by skipping them; no update may fail the
// caller.
type View interface {
	SetMetric(target, text string)
	SetConnectionStatus(text, class string)
	ShowToast(t Toast)
	DismissToast(id string)
	SetEvents(entries []EventEntry)
}
