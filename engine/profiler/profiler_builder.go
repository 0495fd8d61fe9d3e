package profiler

import (
	"log"
	"time"
)

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are logged.
//
// Parameters:
//   - interval: the reporting interval (values <= 0 keep the default)
//
// Returns:
//   - ProfilerOption: functional option to set the interval
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLogger sends the statistics to logger instead of stderr.
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - ProfilerOption: functional option to set the logger
func WithLogger(logger *log.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - ProfilerOption: functional option to set the clock
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithMemoryStats toggles reading runtime memory statistics on every report.
//
// Parameters:
//   - enabled: false to skip runtime.ReadMemStats
//
// Returns:
//   - ProfilerOption: functional option to toggle memory statistics
func WithMemoryStats(enabled bool) ProfilerOption {
	return func(p *Profiler) {
		p.readMemory = enabled
	}
}
