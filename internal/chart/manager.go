// Package chart owns the time-series windows behind the dashboard charts:
// the four live power series, battery SOC/voltage, and efficiency.
package chart

import (
	"sync"

	"solarsync"
	"solarsync/internal/logger"
)

// DefaultCapacity is the sliding-window size for live series.
const DefaultCapacity = 30

// Chart identifiers, matching the canvas targets of the original UI.
const (
	ChartPowerFlow  = "power-flow-chart"
	ChartBattery    = "battery-chart"
	ChartEfficiency = "efficiency-chart"
)

// Series keys tracked by the manager.
const (
	SeriesSolar      = "solar"
	SeriesBattery    = "battery"
	SeriesLoad       = "load"
	SeriesGrid       = "grid"
	SeriesSOC        = "soc"
	SeriesVoltage    = "voltage"
	SeriesEfficiency = "efficiency"
)

// timeLabelLayout renders point labels as local hour:minute.
const timeLabelLayout = "15:04"

// Series is a read-only snapshot of one window.
type Series struct {
	Labels []string
	Values []float64
}

// Manager owns the chart series windows. It is the only mutator of the
// window state; pause suspends mutation without affecting anything else.
type Manager struct {
	mu       sync.Mutex
	capacity int
	paused   bool
	series   map[string]*SeriesWindow
	log      *logger.Logger
}

// NewManager builds a manager with all tracked series at the given
// capacity (DefaultCapacity when <= 0).
func NewManager(capacity int, log *logger.Logger) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Manager{capacity: capacity, log: log, series: make(map[string]*SeriesWindow)}
	for _, key := range []string{
		SeriesSolar, SeriesBattery, SeriesLoad, SeriesGrid,
		SeriesSOC, SeriesVoltage, SeriesEfficiency,
	} {
		m.series[key] = NewSeriesWindow(capacity)
	}
	return m
}

// Label formats a backend timestamp for the chart axis. Malformed
// timestamps fall back to the raw value rather than failing the render.
func Label(ts string) string {
	if t, ok := solarsync.ParseTimestamp(ts); ok {
		return t.Local().Format(timeLabelLayout)
	}
	return ts
}

// Append pushes one labeled point per tracked series. A paused manager
// ignores the sample.
func (m *Manager) Append(s solarsync.TelemetrySample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paused {
		return
	}
	label := Label(s.Timestamp)
	m.series[SeriesSolar].Push(label, float64(s.SolarPowerW))
	m.series[SeriesBattery].Push(label, float64(s.BatteryPowerW))
	m.series[SeriesLoad].Push(label, float64(s.LoadPowerW))
	m.series[SeriesGrid].Push(label, float64(s.GridPowerW))
	m.series[SeriesSOC].Push(label, s.BatterySOCPercent)
	m.series[SeriesVoltage].Push(label, s.BatteryVoltageV)
	m.series[SeriesEfficiency].Push(label, s.SystemEfficiencyPercent)
}

// Rebuild fully replaces the windows behind the identified chart from a
// historical dataset, discarding whatever the chart held before. Unknown
// chart identifiers are logged and skipped.
func (m *Manager) Rebuild(chartID string, ds solarsync.ChartDataset) {
	m.mu.Lock()
	defer m.mu.Unlock()

	labels := make([]string, len(ds.Timestamps))
	for i, ts := range ds.Timestamps {
		labels[i] = Label(ts)
	}

	switch chartID {
	case ChartPowerFlow:
		m.replaceLocked(SeriesSolar, labels, ds.SolarPower)
		m.replaceLocked(SeriesBattery, labels, ds.BatteryPower)
		m.replaceLocked(SeriesLoad, labels, ds.LoadPower)
		m.replaceLocked(SeriesGrid, labels, ds.GridPower)
	case ChartBattery:
		m.replaceLocked(SeriesSOC, labels, ds.BatterySOC)
	default:
		if m.log != nil {
			m.log.Warnw("chart_rebuild_skipped", "chart", chartID)
		}
	}
}

func (m *Manager) replaceLocked(key string, labels []string, values []float64) {
	w := NewSeriesWindow(m.capacity)
	w.Replace(labels, values)
	m.series[key] = w
}

// SetPaused toggles chart-window mutation.
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	m.paused = paused
	m.mu.Unlock()
}

// Paused reports whether appends are currently suspended.
func (m *Manager) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Snapshot returns copies of all series windows, keyed by series name.
func (m *Manager) Snapshot() map[string]Series {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Series, len(m.series))
	for key, w := range m.series {
		out[key] = Series{Labels: w.Labels(), Values: w.Values()}
	}
	return out
}

// Window returns a snapshot of a single series; ok is false for unknown keys.
func (m *Manager) Window(key string) (Series, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.series[key]
	if !ok {
		return Series{}, false
	}
	return Series{Labels: w.Labels(), Values: w.Values()}, true
}
