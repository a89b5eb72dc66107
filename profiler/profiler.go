// Package profiler times the stages of a verification run and reports them
// together with a runtime snapshot when the run finishes.
package profiler

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Stage is one timed step of a run.
type Stage struct {
	Name    string
	Elapsed time.Duration
}

// Run accumulates stage timings for a single verification. Safe for use from
// multiple goroutines.
type Run struct {
	name  string
	start time.Time

	mu     sync.Mutex
	stages []Stage
}

// NewRun starts timing a named verification run.
func NewRun(name string) *Run {
	return &Run{name: name, start: time.Now()}
}

// Stage begins timing a step and returns the function that ends it. Usage:
//
//	done := run.Stage("detect")
//	...
//	done()
func (r *Run) Stage(name string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		r.mu.Lock()
		r.stages = append(r.stages, Stage{Name: name, Elapsed: elapsed})
		r.mu.Unlock()
	}
}

// Total returns the wall time since the run started.
func (r *Run) Total() time.Duration {
	return time.Since(r.start)
}

// Stages returns a copy of the recorded stages in completion order.
func (r *Run) Stages() []Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Stage, len(r.stages))
	copy(out, r.stages)
	return out
}

// Attrs renders the run as key/value pairs for structured logging: total
// wall time, each stage's elapsed time, heap in use and goroutine count.
func (r *Run) Attrs() []any {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	attrs := []any{
		"run", r.name,
		"total", r.Total().Truncate(time.Microsecond).String(),
	}
	for _, s := range r.Stages() {
		attrs = append(attrs, "stage_"+s.Name, s.Elapsed.Truncate(time.Microsecond).String())
	}
	attrs = append(attrs,
		"heap", formatBytes(mem.HeapAlloc),
		"goroutines", runtime.NumGoroutine(),
	)
	return attrs
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
