package profiler

import (
	"log"
	"os"
	"runtime"
	"time"
)

// Report is the summary of one profiling interval.
type Report struct {
	FPS         float64
	Frames      int
	AvgTested   float64 // objects tested per frame
	AvgVisible  float64 // objects visible per frame
	AvgCulled   float64 // objects culled per frame
	HeapMB      float64
	AllocRateMB float64 // MB allocated per second
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate, culling and memory statistics for performance monitoring.
// Outputs stats to its logger at a configurable interval.
type Profiler struct {
	logger         *log.Logger
	now            func() time.Time
	readMemory     bool
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	// culling totals for the current interval
	tested  int
	visible int
	culled  int

	last Report
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second and output goes to the standard logger's writer.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		logger:         log.New(os.Stderr, "", log.LstdFlags),
		now:            time.Now,
		readMemory:     true,
		updateInterval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// RecordCulling adds one frame's culling result to the current interval.
//
// Parameters:
//   - tested: enabled objects tested against the frustum
//   - visible: objects that passed
func (p *Profiler) RecordCulling(tested, visible int) {
	p.tested += tested
	p.visible += visible
	p.culled += tested - visible
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, per-frame culling averages, heap usage, allocation rate,
// GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	r := Report{
		FPS:        float64(p.frameCount) / elapsed.Seconds(),
		Frames:     p.frameCount,
		AvgTested:  float64(p.tested) / float64(p.frameCount),
		AvgVisible: float64(p.visible) / float64(p.frameCount),
		AvgCulled:  float64(p.culled) / float64(p.frameCount),
	}

	if p.readMemory {
		runtime.ReadMemStats(&p.memStats)
		r.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
		r.SysMB = float64(p.memStats.Sys) / 1024 / 1024
		r.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

		// PauseNs is a circular buffer of the last 256 GC pauses
		gcCount := p.memStats.NumGC
		if gcCount > 0 {
			r.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
			startIdx := p.lastGCCount
			if gcCount-startIdx > 256 {
				startIdx = gcCount - 256
			}
			for i := startIdx; i < gcCount; i++ {
				if pause := p.memStats.PauseNs[i%256] / 1000; pause > r.MaxPauseUs {
					r.MaxPauseUs = pause
				}
			}
		}
		r.GCCount = gcCount
		p.lastGCCount = gcCount
		p.lastTotalAlloc = p.memStats.TotalAlloc
	}

	p.logger.Printf("[Profiler] FPS: %.2f | Visible: %.0f/%.0f (%.0f culled) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		r.FPS, r.AvgVisible, r.AvgTested, r.AvgCulled, r.HeapMB, r.AllocRateMB, r.GCCount, r.LastPauseUs, r.MaxPauseUs, r.SysMB)

	p.last = r
	p.frameCount = 0
	p.tested, p.visible, p.culled = 0, 0, 0
	p.lastTime = currentTime
	return true
}

// Last returns the report logged by the most recent interval.
func (p *Profiler) Last() Report {
	return p.last
}
