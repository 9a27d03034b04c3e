package progress

import (
	"strings"
	"testing"
	"time"
)

func TestMeterRecordAndTotal(t *testing.T) {
	m := New()
	m.Record("resample", 10*time.Millisecond)
	m.Record("dither", 30*time.Millisecond)
	m.Record("palette", 10*time.Millisecond)

	if got, want := m.Total(), 50*time.Millisecond; got != want {
		t.Fatalf("Total() = %v, want %v", got, want)
	}

	stages := m.Stages()
	if len(stages) != 3 {
		t.Fatalf("Stages() returned %d entries, want 3", len(stages))
	}
	if stages[0].Name != "resample" || stages[1].Name != "dither" || stages[2].Name != "palette" {
		t.Fatalf("Stages() out of report order: %+v", stages)
	}
}

func TestMeterSlowest(t *testing.T) {
	m := New()
	m.Record("resample", 10*time.Millisecond)
	m.Record("dither", 30*time.Millisecond)
	m.Record("palette", 5*time.Millisecond)

	slowest := m.Slowest()
	if slowest.Name != "dither" {
		t.Fatalf("Slowest() = %q, want %q", slowest.Name, "dither")
	}
}

func TestMeterByElapsedDescDoesNotMutateReportOrder(t *testing.T) {
	m := New()
	m.Record("a", 1*time.Millisecond)
	m.Record("b", 9*time.Millisecond)
	m.Record("c", 5*time.Millisecond)

	sorted := m.ByElapsedDesc()
	if sorted[0].Name != "b" || sorted[1].Name != "c" || sorted[2].Name != "a" {
		t.Fatalf("ByElapsedDesc() = %+v, want b,c,a order", sorted)
	}

	stages := m.Stages()
	if stages[0].Name != "a" || stages[1].Name != "b" || stages[2].Name != "c" {
		t.Fatalf("Stages() order mutated: %+v", stages)
	}
}

func TestMeterReset(t *testing.T) {
	m := New()
	m.Record("resample", time.Millisecond)
	m.Reset()
	if len(m.Stages()) != 0 || m.Total() != 0 {
		t.Fatalf("Reset() left stale state: stages=%v total=%v", m.Stages(), m.Total())
	}
}

func TestMeterWriteSummary(t *testing.T) {
	m := New()
	m.Record("resample", 10*time.Millisecond)
	m.Record("dither", 30*time.Millisecond)

	var b strings.Builder
	if err := m.WriteSummary(&b); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "resample") || !strings.Contains(out, "dither") || !strings.Contains(out, "total") {
		t.Fatalf("WriteSummary() output missing expected rows: %q", out)
	}
}
