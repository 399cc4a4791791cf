// Package format holds pure display-formatting helpers for raw telemetry
// values. No state, no I/O.
package format

import (
	"strconv"

	"solarsync"
)

// Battery power within this band (W) counts as idle rather than
// charging/discharging.
const batteryIdleBandW = 50

// Power renders watts for display: values of 1 kW and above are scaled to
// "1.5k" style, smaller values stay plain ("850").
func Power(w int) string {
	abs := w
	if abs < 0 {
		abs = -abs
	}
	if abs >= 1000 {
		return strconv.FormatFloat(float64(w)/1000, 'f', 1, 64) + "k"
	}
	return strconv.Itoa(w)
}

// Energy renders kilowatt-hours with one decimal, e.g. "12.4 kWh".
func Energy(kwh float64) string {
	return strconv.FormatFloat(kwh, 'f', 1, 64) + " kWh"
}

// Percent renders a percentage with one decimal, e.g. "75.0%".
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// Temperature renders degrees Celsius with one decimal, e.g. "42.5°C".
func Temperature(c float64) string {
	return strconv.FormatFloat(c, 'f', 1, 64) + "°C"
}

// Voltage renders volts with two decimals, e.g. "48.20V".
func Voltage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "V"
}

// BatteryState classifies signed battery power into charging, discharging
// or idle, using a ±50 W dead band.
func BatteryState(powerW int) string {
	switch {
	case powerW > batteryIdleBandW:
		return "charging"
	case powerW < -batteryIdleBandW:
		return "discharging"
	default:
		return "idle"
	}
}

// SeverityClass maps an event severity to its display color class.
func SeverityClass(severity string) string {
	switch severity {
	case solarsync.SeveritySuccess:
		return "text-success"
	case solarsync.SeverityWarning:
		return "text-warning"
	case solarsync.SeverityError, solarsync.SeverityCritical:
		return "text-danger"
	default:
		return "text-info"
	}
}

// SeverityIcon maps an event severity to its display icon.
func SeverityIcon(severity string) string {
	switch severity {
	case solarsync.SeveritySuccess:
		return "✔"
	case solarsync.SeverityWarning:
		return "⚠"
	case solarsync.SeverityError:
		return "✖"
	case solarsync.SeverityCritical:
		return "‼"
	default:
		return "ℹ"
	}
}
