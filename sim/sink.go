package sim

import (
	"context"
	"sync"
	"time"
)

// TimestampLayout is the persisted text format of arrival and departure times.
const TimestampLayout = "2006-01-02 15:04:05"

// Record is one completed-service row.
type Record struct {
	CustomerID       int
	Purpose          Purpose
	EstimatedMinutes int
	WaitMinutes      float64
	Counter          int
	ArrivalTime      time.Time
	DepartureTime    time.Time
}

// NewRecord snapshots a resolved customer into a Record.
func NewRecord(c *Customer) Record {
	return Record{
		CustomerID:       c.ID,
		Purpose:          c.Purpose,
		EstimatedMinutes: c.EstimatedMinutes,
		WaitMinutes:      c.WaitMinutes,
		Counter:          c.Counter,
		ArrivalTime:      c.ArrivalTime,
		DepartureTime:    c.DepartureTime,
	}
}

// ResultSink persists completed-service records for one run at a time.
// Append must be atomic per record: a failed Append leaves earlier rows intact.
type ResultSink interface {
	// Clear removes every row from a previous run.
	Clear(ctx context.Context) error
	// Append persists one resolved customer.
	Append(ctx context.Context, r Record) error
}

// RecordReader exposes persisted rows for read-side analysis.
type RecordReader interface {
	Records(ctx context.Context) ([]Record, error)
}

// MemorySink is an in-process ResultSink and RecordReader.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	return nil
}

func (m *MemorySink) Append(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

// Records returns a copy of the persisted rows in insertion order.
func (m *MemorySink) Records(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Len returns the number of persisted rows.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
