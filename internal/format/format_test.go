package format

import (
	"testing"

	"solarsync"
)

func TestPower(t *testing.T) {
	cases := []struct {
		name string
		w    int
		want string
	}{
		{"kilowatt_range", 1500, "1.5k"},
		{"sub_kilowatt", 850, "850"},
		{"zero", 0, "0"},
		{"exactly_1000", 1000, "1.0k"},
		{"round_kilowatts", 2000, "2.0k"},
		{"negative_sub_kw", -300, "-300"},
		{"negative_kw", -1200, "-1.2k"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Power(tc.w); got != tc.want {
				t.Fatalf("Power(%d): got %q, want %q", tc.w, got, tc.want)
			}
		})
	}
}

func TestBatteryState(t *testing.T) {
	cases := []struct {
		name string
		w    int
		want string
	}{
		{"charging", 300, "charging"},
		{"discharging", -300, "discharging"},
		{"idle_zero", 0, "idle"},
		{"idle_upper_band", 50, "idle"},
		{"idle_lower_band", -50, "idle"},
		{"just_above_band", 51, "charging"},
		{"just_below_band", -51, "discharging"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BatteryState(tc.w); got != tc.want {
				t.Fatalf("BatteryState(%d): got %q, want %q", tc.w, got, tc.want)
			}
		})
	}
}

func TestScalarFormats(t *testing.T) {
	if got := Percent(75.0); got != "75.0%" {
		t.Errorf("Percent: got %q", got)
	}
	if got := Temperature(42.55); got != "42.5°C" && got != "42.6°C" {
		t.Errorf("Temperature: got %q", got)
	}
	if got := Voltage(48.2); got != "48.20V" {
		t.Errorf("Voltage: got %q", got)
	}
	if got := Energy(12.34); got != "12.3 kWh" {
		t.Errorf("Energy: got %q", got)
	}
}

func TestSeverityMapping(t *testing.T) {
	cases := []struct {
		severity  string
		wantClass string
	}{
		{solarsync.SeverityInfo, "text-info"},
		{solarsync.SeveritySuccess, "text-success"},
		{solarsync.SeverityWarning, "text-warning"},
		{solarsync.SeverityError, "text-danger"},
		{solarsync.SeverityCritical, "text-danger"},
		{"unknown", "text-info"},
	}
	for _, tc := range cases {
		if got := SeverityClass(tc.severity); got != tc.wantClass {
			t.Errorf("SeverityClass(%q): got %q, want %q", tc.severity, got, tc.wantClass)
		}
		if got := SeverityIcon(tc.severity); got == "" {
			t.Errorf("SeverityIcon(%q): empty", tc.severity)
		}
	}
}
