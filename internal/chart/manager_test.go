package chart

import (
	"fmt"
	"testing"
	"time"

	"solarsync"
)

func sampleAt(ts string, solar int) solarsync.TelemetrySample {
	return solarsync.TelemetrySample{
		Timestamp:         ts,
		SolarPowerW:       solar,
		BatteryPowerW:     -200,
		BatterySOCPercent: 80,
		LoadPowerW:        600,
		GridPowerW:        -100,
	}
}

func TestLabel(t *testing.T) {
	// well-formed timestamps render as local hour:minute
	ts := "2025-06-01T09:05:00"
	parsed, ok := solarsync.ParseTimestamp(ts)
	if !ok {
		t.Fatal("fixture timestamp should parse")
	}
	want := parsed.Local().Format("15:04")
	if got := Label(ts); got != want {
		t.Errorf("Label(%q): got %q, want %q", ts, got, want)
	}

	// malformed timestamps fall back to the raw value
	if got := Label("garbage-ts"); got != "garbage-ts" {
		t.Errorf("malformed label: got %q, want raw value", got)
	}
}

func TestManager_AppendTracksAllSeries(t *testing.T) {
	m := NewManager(5, nil)
	m.Append(sampleAt("2025-06-01T12:00:00", 2000))

	for _, key := range []string{SeriesSolar, SeriesBattery, SeriesLoad, SeriesGrid, SeriesSOC, SeriesVoltage, SeriesEfficiency} {
		s, ok := m.Window(key)
		if !ok {
			t.Fatalf("missing series %q", key)
		}
		if len(s.Values) != 1 {
			t.Errorf("series %q: got %d points, want 1", key, len(s.Values))
		}
	}

	s, _ := m.Window(SeriesSolar)
	if s.Values[0] != 2000 {
		t.Errorf("solar value: got %v, want 2000", s.Values[0])
	}
}

func TestManager_WindowEvictsOldest(t *testing.T) {
	const capacity = 4
	m := NewManager(capacity, nil)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < capacity+3; i++ {
		ts := base.Add(time.Duration(i) * time.Minute).Format("2006-01-02T15:04:05")
		m.Append(sampleAt(ts, 1000+i))
	}

	s, _ := m.Window(SeriesSolar)
	if len(s.Values) != capacity {
		t.Fatalf("window length: got %d, want %d", len(s.Values), capacity)
	}
	if s.Values[0] != 1003 || s.Values[capacity-1] != 1006 {
		t.Errorf("window contents: got %v, want [1003..1006]", s.Values)
	}
}

func TestManager_PausedIgnoresAppends(t *testing.T) {
	m := NewManager(5, nil)
	m.SetPaused(true)
	m.Append(sampleAt("2025-06-01T12:00:00", 2000))

	s, _ := m.Window(SeriesSolar)
	if len(s.Values) != 0 {
		t.Fatalf("paused append mutated window: %v", s.Values)
	}

	m.SetPaused(false)
	m.Append(sampleAt("2025-06-01T12:01:00", 2100))
	s, _ = m.Window(SeriesSolar)
	if len(s.Values) != 1 {
		t.Fatalf("resume: got %d points, want 1", len(s.Values))
	}
}

func TestManager_RebuildReplacesPowerSeries(t *testing.T) {
	m := NewManager(10, nil)
	// live data that the rebuild must discard
	m.Append(sampleAt("2025-06-01T12:00:00", 9999))

	ds := solarsync.ChartDataset{}
	for i := 0; i < 4; i++ {
		ds.Timestamps = append(ds.Timestamps, fmt.Sprintf("2025-06-01T0%d:00:00", i))
		ds.SolarPower = append(ds.SolarPower, float64(100*i))
		ds.BatteryPower = append(ds.BatteryPower, float64(-10*i))
		ds.LoadPower = append(ds.LoadPower, float64(50*i))
		ds.GridPower = append(ds.GridPower, float64(5*i))
		ds.BatterySOC = append(ds.BatterySOC, float64(70+i))
	}

	m.Rebuild(ChartPowerFlow, ds)

	s, _ := m.Window(SeriesSolar)
	if len(s.Values) != 4 {
		t.Fatalf("rebuilt solar series: got %d points, want 4", len(s.Values))
	}
	if s.Values[0] != 0 || s.Values[3] != 300 {
		t.Errorf("rebuilt solar values: got %v", s.Values)
	}

	// SOC untouched by a power-flow rebuild
	soc, _ := m.Window(SeriesSOC)
	if len(soc.Values) != 1 {
		t.Errorf("soc series: got %d points, want 1 (untouched)", len(soc.Values))
	}

	m.Rebuild(ChartBattery, ds)
	soc, _ = m.Window(SeriesSOC)
	if len(soc.Values) != 4 {
		t.Errorf("rebuilt soc series: got %d points, want 4", len(soc.Values))
	}
}

func TestManager_RebuildUnknownChartIsSkipped(t *testing.T) {
	m := NewManager(5, nil)
	m.Append(sampleAt("2025-06-01T12:00:00", 1234))

	m.Rebuild("no-such-chart", solarsync.ChartDataset{Timestamps: []string{"x"}, SolarPower: []float64{1}})

	s, _ := m.Window(SeriesSolar)
	if len(s.Values) != 1 || s.Values[0] != 1234 {
		t.Errorf("unknown chart rebuild mutated series: %v", s.Values)
	}
}
