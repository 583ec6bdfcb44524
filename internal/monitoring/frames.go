package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultWindow = 120

// FrameMonitor keeps a rolling window of tick durations and samples the
// goroutine count. Drivers call Record once per frame.
type FrameMonitor struct {
	mu        sync.RWMutex
	window    []time.Duration
	next      int
	filled    bool
	total     uint64
	slow      uint64
	budget    time.Duration
	peak      time.Duration
	baseline  int
	routines  int
	lastAlert time.Time
	cooldown  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewFrameMonitor creates a monitor that flags frames slower than budget
func NewFrameMonitor(window int, budget time.Duration, logger zerolog.Logger) *FrameMonitor {
	if window <= 0 {
		window = DefaultWindow
	}
	baseline := runtime.NumGoroutine()
	return &FrameMonitor{
		window:   make([]time.Duration, window),
		budget:   budget,
		baseline: baseline,
		routines: baseline,
		cooldown: 5 * time.Second,
		now:      time.Now,
		logger:   logger.With().Str("component", "Monitor").Logger(),
	}
}

// Time runs fn and records how long it took
func (m *FrameMonitor) Time(fn func() error) error {
	start := m.now()
	err := fn()
	m.Record(m.now().Sub(start))
	return err
}

// Record adds one frame duration
func (m *FrameMonitor) Record(d time.Duration) {
	m.mu.Lock()
	m.window[m.next] = d
	m.next++
	if m.next == len(m.window) {
		m.next = 0
		m.filled = true
	}
	m.total++
	if d > m.peak {
		m.peak = d
	}

	slow := m.budget > 0 && d > m.budget
	alert := false
	if slow {
		m.slow++
		if now := m.now(); now.Sub(m.lastAlert) > m.cooldown {
			m.lastAlert = now
			alert = true
		}
	}
	m.mu.Unlock()

	if alert {
		m.logger.Warn().
			Dur("frame", d).
			Dur("budget", m.budget).
			Msg("Slow frame")
	}
}

// Sample refreshes the goroutine count and logs the current metrics
func (m *FrameMonitor) Sample() FrameMetrics {
	current := runtime.NumGoroutine()
	m.mu.Lock()
	m.routines = current
	m.mu.Unlock()

	metrics := m.Metrics()
	m.logger.Debug().
		Uint64("frames", metrics.Frames).
		Dur("mean", metrics.Mean).
		Dur("max", metrics.Max).
		Int("goroutines", metrics.Goroutines).
		Int("growth", metrics.Goroutines-metrics.Baseline).
		Msg("Frame metrics")
	return metrics
}

// Metrics returns the current figures without sampling
func (m *FrameMonitor) Metrics() FrameMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.next
	if m.filled {
		n = len(m.window)
	}
	out := FrameMetrics{
		Frames:     m.total,
		Slow:       m.slow,
		Peak:       m.peak,
		Goroutines: m.routines,
		Baseline:   m.baseline,
	}
	if n == 0 {
		return out
	}
	var sum time.Duration
	for _, d := range m.window[:n] {
		sum += d
		if d > out.Max {
			out.Max = d
		}
	}
	out.Mean = sum / time.Duration(n)
	return out
}

// FrameMetrics summarises recent frames. Mean and Max cover the rolling
// window, Peak covers the whole run.
type FrameMetrics struct {
	Frames     uint64        `json:"frames"`
	Slow       uint64        `json:"slow"`
	Mean       time.Duration `json:"mean"`
	Max        time.Duration `json:"max"`
	Peak       time.Duration `json:"peak"`
	Goroutines int           `json:"goroutines"`
	Baseline   int           `json:"baseline"`
}

// FPS is the frame rate implied by the mean frame time
func (fm FrameMetrics) FPS() float64 {
	if fm.Mean <= 0 {
		return 0
	}
	return float64(time.Second) / float64(fm.Mean)
}
