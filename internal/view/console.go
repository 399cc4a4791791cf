package view

import (
	"fmt"
	"io"
	"sync"
)

// Console renders dashboard updates as plain lines on a writer. It binds
// the full set of known metric targets; updates for anything else are
// skipped, matching the graceful-degradation contract.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	bound   map[string]bool
	current map[string]string
}

// NewConsole builds a console renderer writing to w.
func NewConsole(w io.Writer) *Console {
	bound := map[string]bool{
		TargetSolarPower:     true,
		TargetBatteryPower:   true,
		TargetBatterySOC:     true,
		TargetBatteryVoltage: true,
		TargetBatteryState:   true,
		TargetLoadPower:      true,
		TargetGridPower:      true,
		TargetInverterTemp:   true,
		TargetEfficiency:     true,
		TargetDailyEnergy:    true,
	}
	return &Console{w: w, bound: bound, current: make(map[string]string)}
}

// SetMetric updates a bound metric target; unbound targets and unchanged
// values are skipped.
func (c *Console) SetMetric(target, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.bound[target] {
		return
	}
	if c.current[target] == text {
		return
	}
	c.current[target] = text
	fmt.Fprintf(c.w, "%-18s %s\n", target+":", text)
}

// SetConnectionStatus renders the connection indicator.
func (c *Console) SetConnectionStatus(text, class string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[%s] %s\n", class, text)
}

// ShowToast prints a transient notification.
func (c *Console) ShowToast(t Toast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "[toast:%s] %s\n", t.Severity, t.Message)
}

// DismissToast is a no-op for the console; printed toasts scroll away.
func (c *Console) DismissToast(string) {}

// SetEvents prints the newest entry of the rolling log.
func (c *Console) SetEvents(entries []EventEntry) {
	if len(entries) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	top := entries[0]
	fmt.Fprintf(c.w, "%s %s %s %s\n", top.Icon, top.Timestamp, top.Class, top.Message)
}
