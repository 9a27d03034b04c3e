// Package progress tracks per-stage timing for a single tile conversion run,
// adapted from the teacher's cmd/internal/meter ring-buffer Meter (there
// used for frame-pacing FPS/ms display; here used to report how long each
// convert.Pipeline stage took).
package progress

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Stage records one completed pipeline stage's elapsed time.
type Stage struct {
	Name    string
	Elapsed time.Duration
}

// Meter collects stage timings in the order reported and can render them as
// a human-readable summary. Unlike the teacher's Meter, it keeps every
// sample for the run rather than a fixed-length ring buffer, since a
// conversion has a small, known number of stages rather than one sample per
// rendered frame.
type Meter struct {
	stages []Stage
	total  time.Duration
}

// New returns an empty Meter ready to record a run's stages.
func New() *Meter {
	return &Meter{}
}

// Record appends a completed stage's elapsed time. Intended to be passed as
// (part of) a convert.Config.OnProgress callback:
//
//	m := progress.New()
//	cfg.OnProgress = func(stage string, nanos int64) {
//		m.Record(stage, time.Duration(nanos))
//	}
func (m *Meter) Record(name string, elapsed time.Duration) {
	m.stages = append(m.stages, Stage{Name: name, Elapsed: elapsed})
	m.total += elapsed
}

// Reset clears all recorded stages.
func (m *Meter) Reset() {
	m.stages = m.stages[:0]
	m.total = 0
}

// Stages returns the recorded stages in report order.
func (m *Meter) Stages() []Stage {
	out := make([]Stage, len(m.stages))
	copy(out, m.stages)
	return out
}

// Total returns the sum of every recorded stage's elapsed time.
func (m *Meter) Total() time.Duration {
	return m.total
}

// Slowest returns the stage with the largest elapsed time, or the zero
// Stage if nothing has been recorded.
func (m *Meter) Slowest() Stage {
	var slowest Stage
	for _, s := range m.stages {
		if s.Elapsed > slowest.Elapsed {
			slowest = s
		}
	}
	return slowest
}

// WriteSummary renders a fixed-width table of stage name, elapsed time and
// percentage of total, sorted by report order (not by duration, so a reader
// can follow the pipeline's actual sequence).
func (m *Meter) WriteSummary(w io.Writer) error {
	for _, s := range m.stages {
		pct := 0.0
		if m.total > 0 {
			pct = 100 * float64(s.Elapsed) / float64(m.total)
		}
		if _, err := fmt.Fprintf(w, "%-12s %10s %5.1f%%\n", s.Name, s.Elapsed.Round(time.Microsecond), pct); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%-12s %10s\n", "total", m.total.Round(time.Microsecond))
	return err
}

// ByElapsedDesc returns the recorded stages sorted slowest-first, leaving
// Stages() (report order) untouched.
func (m *Meter) ByElapsedDesc() []Stage {
	out := m.Stages()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Elapsed > out[j].Elapsed })
	return out
}
