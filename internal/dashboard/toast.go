package dashboard

import (
	"sync"
	"time"

	"solarsync/internal/view"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// toastTTL is how long a toast stays visible before auto-dismissing.
const toastTTL = 3 * time.Second

// Toaster shows transient, stackable notifications on the view and
// dismisses each one after a fixed interval. Showing never blocks.
type Toaster struct {
	mu     sync.Mutex
	v      view.View
	clock  clockwork.Clock
	ttl    time.Duration
	active map[string]bool
}

// NewToaster builds a toaster rendering to v.
func NewToaster(v view.View, clock clockwork.Clock) *Toaster {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Toaster{v: v, clock: clock, ttl: toastTTL, active: make(map[string]bool)}
}

// Show renders a toast and arms its auto-dismiss timer, returning the
// toast id.
func (t *Toaster) Show(severity, message string) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.active[id] = true
	t.mu.Unlock()

	t.v.ShowToast(view.Toast{ID: id, Severity: severity, Message: message})
	t.clock.AfterFunc(t.ttl, func() { t.dismiss(id) })
	return id
}

func (t *Toaster) dismiss(id string) {
	t.mu.Lock()
	if !t.active[id] {
		t.mu.Unlock()
		return
	}
	delete(t.active, id)
	t.mu.Unlock()
	t.v.DismissToast(id)
}

// ActiveCount reports how many toasts are currently displayed.
func (t *Toaster) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}
