// Package dashboard bridges the push (websocket) and pull (HTTP poll)
// telemetry paths into the rendered UI: metric text, chart windows, the
// rolling event log and transient toasts.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"solarsync"
	"solarsync/internal/chart"
	"solarsync/internal/format"
	"solarsync/internal/logger"
	"solarsync/internal/metrics"
	"solarsync/internal/repository"
	"solarsync/internal/telemetry"
	"solarsync/internal/view"

	"github.com/jonboulle/clockwork"
)

const (
	defaultPollInterval = 5 * time.Second
	httpTimeout         = 10 * time.Second

	currentPath   = "/dashboard/current"
	chartDataPath = "/dashboard/chart-data"

	// Preference keys persisted across restarts.
	prefPaused = "dashboard.paused"
)

// Config holds the controller's tunables.
type Config struct {
	BaseURL      string
	PollInterval time.Duration
}

// Controller wires the telemetry client, chart manager and view together
// and owns the periodic fallback poll.
type Controller struct {
	client *telemetry.Client
	charts *chart.Manager
	v      view.View
	toasts *Toaster
	events *EventLog
	prefs  repository.PrefsRepo // optional; nil disables persistence

	httpc        *http.Client
	baseURL      string
	pollInterval time.Duration
	clock        clockwork.Clock
	log          *logger.Logger
}

// NewController builds the controller and registers its subscriptions on
// the telemetry client. prefs may be nil.
func NewController(cfg Config, client *telemetry.Client, charts *chart.Manager, v view.View, prefs repository.PrefsRepo, clock clockwork.Clock, log *logger.Logger) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ct := &Controller{
		client:       client,
		charts:       charts,
		v:            v,
		toasts:       NewToaster(v, clock),
		events:       NewEventLog(),
		prefs:        prefs,
		httpc:        &http.Client{Timeout: httpTimeout},
		baseURL:      cfg.BaseURL,
		pollInterval: interval,
		clock:        clock,
		log:          log,
	}

	if client != nil {
		client.OnSample(func(s solarsync.TelemetrySample) { ct.apply(s) })
		client.OnEvent(ct.handleEvent)
		client.OnStateChange(ct.renderConnStatus)
	}
	return ct
}

// Run polls the fallback endpoint on the configured interval until ctx is
// canceled. An immediate first poll primes the display.
func (ct *Controller) Run(ctx context.Context) {
	ct.Poll(ctx)
	ticker := ct.clock.NewTicker(ct.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			ct.Poll(ctx)
		}
	}
}

// Poll fetches the latest sample once. On failure it surfaces a transient
// error toast and leaves prior displayed values intact; the next tick
// simply tries again.
func (ct *Controller) Poll(ctx context.Context) {
	sample, err := ct.fetchCurrent(ctx)
	if err != nil {
		metrics.PollErrors.Inc()
		if ct.log != nil {
			ct.log.Warnw("poll_failed", "err", err)
		}
		ct.toasts.Show(solarsync.SeverityError, "Failed to refresh telemetry")
		return
	}
	metrics.SamplesReceived.WithLabelValues("poll").Inc()
	ct.apply(sample)
}

func (ct *Controller) fetchCurrent(ctx context.Context) (solarsync.TelemetrySample, error) {
	var sample solarsync.TelemetrySample
	if err := ct.getJSON(ctx, ct.baseURL+currentPath, &sample); err != nil {
		return solarsync.TelemetrySample{}, err
	}
	return sample, nil
}

func (ct *Controller) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := ct.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// apply is the single update path shared by poll and push: metric text
// plus chart append. Whichever source fires last wins on each target.
func (ct *Controller) apply(s solarsync.TelemetrySample) {
	metrics.LastSampleUnix.Set(float64(time.Now().Unix()))

	ct.v.SetMetric(view.TargetSolarPower, format.Power(s.SolarPowerW))
	ct.v.SetMetric(view.TargetBatteryPower, format.Power(s.BatteryPowerW))
	ct.v.SetMetric(view.TargetBatterySOC, format.Percent(s.BatterySOCPercent))
	ct.v.SetMetric(view.TargetBatteryVoltage, format.Voltage(s.BatteryVoltageV))
	ct.v.SetMetric(view.TargetBatteryState, format.BatteryState(s.BatteryPowerW))
	ct.v.SetMetric(view.TargetLoadPower, format.Power(s.LoadPowerW))
	ct.v.SetMetric(view.TargetGridPower, format.Power(s.GridPowerW))
	ct.v.SetMetric(view.TargetInverterTemp, format.Temperature(s.InverterTempC))
	ct.v.SetMetric(view.TargetEfficiency, format.Percent(s.SystemEfficiencyPercent))
	ct.v.SetMetric(view.TargetDailyEnergy, format.Energy(s.DailyEnergyKWh))

	// The chart manager ignores appends while paused.
	ct.charts.Append(s)
}

// handleEvent renders a system event into the rolling log and raises a
// toast for the alarming severities.
func (ct *Controller) handleEvent(ev solarsync.SystemEvent) {
	entry := view.EventEntry{
		Icon:      format.SeverityIcon(ev.Severity),
		Class:     format.SeverityClass(ev.Severity),
		Timestamp: chart.Label(ev.Timestamp),
		Message:   ev.Message,
	}
	ct.v.SetEvents(ct.events.Prepend(entry))

	switch ev.Severity {
	case solarsync.SeverityWarning, solarsync.SeverityError, solarsync.SeverityCritical:
		ct.toasts.Show(ev.Severity, ev.Message)
	}
}

func (ct *Controller) renderConnStatus(st telemetry.Status) {
	var text, class string
	switch st.State {
	case telemetry.StateConnected:
		text, class = "Connected", "status-connected"
	case telemetry.StateConnecting:
		text, class = "Connecting…", "status-connecting"
	case telemetry.StateReconnecting:
		text = fmt.Sprintf("Reconnecting (attempt %d, retry in %s)", st.Attempt, st.Delay)
		class = "status-reconnecting"
	case telemetry.StateFailed:
		text, class = "Connection failed — reload to retry", "status-failed"
	default:
		text, class = "Disconnected", "status-disconnected"
	}
	ct.v.SetConnectionStatus(text, class)
}

// SetPaused suspends or resumes chart-window mutation. Metric text and
// connectivity are unaffected. The flag is persisted best-effort.
func (ct *Controller) SetPaused(ctx context.Context, paused bool) {
	ct.charts.SetPaused(paused)
	if ct.prefs == nil {
		return
	}
	if err := ct.prefs.Set(ctx, prefPaused, strconv.FormatBool(paused)); err != nil && ct.log != nil {
		ct.log.Warnw("pref_save_failed", "key", prefPaused, "err", err)
	}
}

// TogglePause flips the pause flag and returns the new value.
func (ct *Controller) TogglePause(ctx context.Context) bool {
	paused := !ct.charts.Paused()
	ct.SetPaused(ctx, paused)
	return paused
}

// RestorePreferences applies persisted UI preferences. Missing or
// malformed values are ignored.
func (ct *Controller) RestorePreferences(ctx context.Context) {
	if ct.prefs == nil {
		return
	}
	val, err := ct.prefs.Get(ctx, prefPaused)
	if err != nil {
		if ct.log != nil {
			ct.log.Warnw("pref_load_failed", "key", prefPaused, "err", err)
		}
		return
	}
	if paused, err := strconv.ParseBool(val); err == nil {
		ct.charts.SetPaused(paused)
	}
}

// LoadHistory fetches a historical dataset and rebuilds the non-live
// charts from it.
func (ct *Controller) LoadHistory(ctx context.Context, hours int) error {
	if hours <= 0 {
		hours = 24
	}
	url := fmt.Sprintf("%s%s?hours=%d", ct.baseURL, chartDataPath, hours)
	var ds solarsync.ChartDataset
	if err := ct.getJSON(ctx, url, &ds); err != nil {
		return err
	}
	ct.charts.Rebuild(chart.ChartPowerFlow, ds)
	ct.charts.Rebuild(chart.ChartBattery, ds)
	return nil
}

// Events exposes the rolling event log, newest first.
func (ct *Controller) Events() []view.EventEntry {
	return ct.events.Entries()
}
