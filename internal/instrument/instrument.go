// Package instrument brackets traced operations with timing and
// success/failure capture. It is purely an observer: the wrapped operation's
// error (or panic) always reaches the caller unchanged, and a failure to
// record telemetry never fails the operation.
package instrument

import (
	"context"
	"fmt"
	"log"
	"time"

	"server-warden/internal/storage"
)

// Sink receives performance records. *storage.Storage satisfies it; tests
// substitute an in-memory fake.
type Sink interface {
	InsertPerformance(rec storage.PerformanceRecord) error
}

// Measurer wraps operations and forwards timing facts to a sink.
type Measurer struct {
	sink Sink
}

// New returns a Measurer writing to sink.
func New(sink Sink) *Measurer {
	return &Measurer{sink: sink}
}

// Measure times fn. On error it emits a failed record and returns the error
// unchanged; on success it emits a successful record and returns the elapsed
// duration. A panic inside fn still emits a failed record before propagating.
func (m *Measurer) Measure(ctx context.Context, category storage.MetricCategory, name string, fn func(context.Context) error) (time.Duration, error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			m.emit(category, name, time.Since(start), false, map[string]string{"panic": fmt.Sprint(r)})
			panic(r)
		}
	}()

	err := fn(ctx)
	elapsed := time.Since(start)

	if err != nil {
		m.emit(category, name, elapsed, false, map[string]string{"error": err.Error()})
		return elapsed, err
	}
	m.emit(category, name, elapsed, true, nil)
	return elapsed, nil
}

// emit writes one record, swallowing sink failures: telemetry loss must never
// delay or fail the operation it observed.
func (m *Measurer) emit(category storage.MetricCategory, name string, elapsed time.Duration, success bool, meta map[string]string) {
	if m == nil || m.sink == nil {
		return
	}
	rec := storage.PerformanceRecord{
		Category:   category,
		Name:       name,
		DurationMS: elapsed.Milliseconds(),
		Success:    success,
		Meta:       meta,
		CreatedAt:  time.Now(),
	}
	if err := m.sink.InsertPerformance(rec); err != nil {
		log.Printf("[WARN] Failed to record %s/%s performance: %v", category, name, err)
	}
}
