package chart

// SeriesWindow is an ordered, fixed-capacity sequence of labeled points.
// Insertion appends at the tail; once full, the head is evicted first, so
// the window always holds the most recent points in arrival order.
type SeriesWindow struct {
	capacity int
	labels   []string
	values   []float64
}

// NewSeriesWindow returns an empty window. Capacities below 1 are coerced
// to 1.
func NewSeriesWindow(capacity int) *SeriesWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &SeriesWindow{
		capacity: capacity,
		labels:   make([]string, 0, capacity),
		values:   make([]float64, 0, capacity),
	}
}

// Push appends a point, evicting the oldest when the window is full.
func (w *SeriesWindow) Push(label string, value float64) {
	if len(w.values) >= w.capacity {
		w.labels = w.labels[1:]
		w.values = w.values[1:]
	}
	w.labels = append(w.labels, label)
	w.values = append(w.values, value)
}

// Replace swaps the window contents for the given points, keeping only the
// most recent capacity entries.
func (w *SeriesWindow) Replace(labels []string, values []float64) {
	n := len(values)
	if len(labels) < n {
		n = len(labels)
	}
	start := 0
	if n > w.capacity {
		start = n - w.capacity
	}
	w.labels = append(w.labels[:0], labels[start:n]...)
	w.values = append(w.values[:0], values[start:n]...)
}

// Len returns the number of points currently held.
func (w *SeriesWindow) Len() int { return len(w.values) }

// Capacity returns the configured maximum length.
func (w *SeriesWindow) Capacity() int { return w.capacity }

// Labels returns a copy of the point labels in arrival order.
func (w *SeriesWindow) Labels() []string {
	out := make([]string, len(w.labels))
	copy(out, w.labels)
	return out
}

// Values returns a copy of the point values in arrival order.
func (w *SeriesWindow) Values() []float64 {
	out := make([]float64, len(w.values))
	copy(out, w.values)
	return out
}
